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

package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/uptrace/bun"

	"github.com/tomoncle/mapper/query"
)

// inTx runs fn as one unit of work: begin, fn, commit. Any failure rolls
// the transaction back. Begin and commit failures are connection errors;
// errors from fn are classified from the driver error. A failed rollback
// is logged and joined to the returned error.
func (r *Repository[T]) inTx(ctx context.Context, db bun.IDB, op query.Op, fn func(tx bun.Tx) error) (err error) {
	table := r.desc.Table()
	start := time.Now()
	defer func() {
		observe(table, op, start, err)
	}()

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		err = newOpError(op, table, ErrConnection, err)
		r.log().Warn("Failed to begin transaction", "op", op, "table", table, "error", err)
		return err
	}
	var committed bool
	defer func(tx bun.Tx) {
		if committed {
			return
		}
		if rollbackErr := tx.Rollback(); rollbackErr != nil && !errors.Is(rollbackErr, sql.ErrTxDone) {
			r.log().Error("Failed to rollback transaction", "op", op, "table", table, "error", rollbackErr)
			err = errors.Join(err, rollbackErr)
		}
	}(tx)

	if err = fn(tx); err != nil {
		err = classify(op, table, err)
		if errors.Is(err, ErrNotFound) {
			r.log().Debug("No matching row", "op", op, "table", table)
		} else {
			r.log().Warn("Statement failed", "op", op, "table", table, "error", err)
		}
		return err
	}

	if err = tx.Commit(); err != nil {
		err = newOpError(op, table, ErrConnection, err)
		r.log().Warn("Failed to commit transaction", "op", op, "table", table, "error", err)
		return err
	}
	committed = true
	r.log().Debug("Statement committed", "op", op, "table", table, "duration", time.Since(start))
	return nil
}
