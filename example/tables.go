/*
 * Copyright 2025 tomoncle.
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package example

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect"
)

// CreateTables creates the users and notes tables if they are missing.
func CreateTables(ctx context.Context, db bun.IDB) error {
	for _, ddl := range tables(db.Dialect().Name()) {
		if _, err := db.ExecContext(ctx, ddl); err != nil {
			return fmt.Errorf("create tables: %w", err)
		}
	}
	return nil
}

func tables(name dialect.Name) []string {
	noteKey := "id INTEGER PRIMARY KEY AUTOINCREMENT"
	switch name {
	case dialect.PG:
		noteKey = "id BIGSERIAL PRIMARY KEY"
	case dialect.MySQL:
		noteKey = "id BIGINT AUTO_INCREMENT PRIMARY KEY"
	}
	return []string{
		`CREATE TABLE IF NOT EXISTS users (
	username VARCHAR(64) PRIMARY KEY,
	full_name VARCHAR(255) NOT NULL,
	password VARCHAR(255) NOT NULL,
	email VARCHAR(255) NOT NULL UNIQUE,
	is_admin BOOLEAN NOT NULL DEFAULT FALSE,
	remember_token VARCHAR(255) NOT NULL DEFAULT ''
)`,
		`CREATE TABLE IF NOT EXISTS notes (
	` + noteKey + `,
	title VARCHAR(255) NOT NULL,
	body TEXT NOT NULL,
	author VARCHAR(64) REFERENCES users (username)
)`,
	}
}
