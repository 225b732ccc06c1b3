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

package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun/dialect/feature"
	"github.com/uptrace/bun/dialect/pgdialect"
	bunschema "github.com/uptrace/bun/schema"

	"github.com/tomoncle/mapper/model"
	"github.com/tomoncle/mapper/schema"
	"github.com/tomoncle/mapper/types"
)

type user struct {
	model.Base
	FullName      types.Value
	Password      types.Value
	Email         types.Value
	IsAdmin       types.Value
	RememberToken types.Value
}

func (u *user) Field(slot string) *types.Value {
	switch slot {
	case "FullName":
		return &u.FullName
	case "Password":
		return &u.Password
	case "Email":
		return &u.Email
	case "IsAdmin":
		return &u.IsAdmin
	case "RememberToken":
		return &u.RememberToken
	}
	return nil
}

var users = schema.Describe(schema.Definition{
	Type:       "User",
	Primary:    "username",
	Attributes: []string{"fullName", "password", "email", "isAdmin", "rememberToken"},
	Defaults: map[string]types.Value{
		"isAdmin":       types.Bool(false),
		"rememberToken": types.String(""),
	},
})

var (
	pg       = pgdialect.New()
	pgFmt    = bunschema.NewFormatter(pg)
	plain    = pgdialect.New(pgdialect.WithoutFeature(feature.DefaultPlaceholder | feature.InsertReturning))
	plainFmt = bunschema.NewFormatter(plain)
)

func jdoe(t *testing.T) *user {
	u, err := model.New(users, func() *user { return &user{} }, types.Params{
		"username": types.String("jdoe"),
		"fullName": types.String("John Doe"),
		"password": types.String("secret"),
		"email":    types.String("jdoe@example.com"),
	})
	require.NoError(t, err)
	return u
}

func TestFetchOne(t *testing.T) {
	stmt, err := FetchOne(users, types.String("jdoe"), nil)
	require.NoError(t, err)
	assert.Equal(t, OpFetchOne, stmt.Op)
	assert.Equal(t, "SELECT username, full_name, password, email, is_admin, remember_token FROM users WHERE username = ?username", stmt.SQL)
	assert.Equal(t,
		"SELECT username, full_name, password, email, is_admin, remember_token FROM users WHERE username = 'jdoe'",
		stmt.Format(pgFmt))
	assert.True(t, stmt.Reads())
}

func TestFetchOneWithFilter(t *testing.T) {
	f := types.NewFilter("is_admin = ?admin OR email = ?email", "admin", true, "email", "x'y")
	stmt, err := FetchOne(users, types.String("jdoe"), f)
	require.NoError(t, err)
	assert.Equal(t,
		"SELECT username, full_name, password, email, is_admin, remember_token FROM users WHERE username = 'jdoe' AND (is_admin = TRUE OR email = 'x''y')",
		stmt.Format(pgFmt))
	assert.Equal(t, []string{"admin", "email", "username"}, stmt.Params.Names())

	_, err = FetchOne(users, types.String("jdoe"), types.NewFilter("username <> ?username", "username", "x"))
	assert.ErrorIs(t, err, ErrParamConflict)
}

func TestFetchAll(t *testing.T) {
	stmt, err := FetchAll(users, nil)
	require.NoError(t, err)
	assert.Equal(t, "SELECT username, full_name, password, email, is_admin, remember_token FROM users", stmt.Format(pgFmt))

	stmt, err = FetchAll(users, types.NewFilter("is_admin = ?admin", "admin", false))
	require.NoError(t, err)
	assert.Equal(t,
		"SELECT username, full_name, password, email, is_admin, remember_token FROM users WHERE is_admin = FALSE",
		stmt.Format(pgFmt))

	stmt, err = FetchAll(users, &types.Filter{})
	require.NoError(t, err)
	assert.NotContains(t, stmt.SQL, "WHERE")
}

func TestInsertForced(t *testing.T) {
	stmt := Insert(users, jdoe(t), true, pg.Features())
	assert.Equal(t, "INSERT INTO users (username, full_name, password, email, is_admin, remember_token) VALUES (?username, ?full_name, ?password, ?email, ?is_admin, ?remember_token)", stmt.SQL)
	assert.Equal(t,
		"INSERT INTO users (username, full_name, password, email, is_admin, remember_token) VALUES ('jdoe', 'John Doe', 'secret', 'jdoe@example.com', FALSE, '')",
		stmt.Format(pgFmt))
	assert.False(t, stmt.Returning)
	assert.False(t, stmt.Generated)
	assert.False(t, stmt.Reads())
}

func TestInsertGeneratedKey(t *testing.T) {
	u := jdoe(t)
	u.SetKey(types.Null())

	stmt := Insert(users, u, false, pg.Features())
	assert.Equal(t,
		"INSERT INTO users (username, full_name, password, email, is_admin, remember_token) VALUES (DEFAULT, 'John Doe', 'secret', 'jdoe@example.com', FALSE, '') RETURNING username",
		stmt.Format(pgFmt))
	assert.True(t, stmt.Returning)

	stmt = Insert(users, u, false, plain.Features())
	assert.Equal(t,
		"INSERT INTO users (username, full_name, password, email, is_admin, remember_token) VALUES (NULL, 'John Doe', 'secret', 'jdoe@example.com', FALSE, '')",
		stmt.Format(plainFmt))
	assert.False(t, stmt.Returning)

	u.SetKey(types.Int(0))
	stmt = Insert(users, u, false, plain.Features())
	assert.Contains(t, stmt.Format(plainFmt), "VALUES (NULL, ")

	stmt = Insert(users, u, true, plain.Features())
	assert.Contains(t, stmt.Format(plainFmt), "VALUES (0, ")
	assert.False(t, stmt.Generated)

	u.SetKey(types.Null())
	stmt = Insert(users, u, true, pg.Features())
	assert.True(t, stmt.Generated)
	assert.True(t, stmt.Returning)
	assert.Contains(t, stmt.Format(pgFmt), "VALUES (DEFAULT, ")
}

func TestUpdate(t *testing.T) {
	stmt, err := Update(users, jdoe(t))
	require.NoError(t, err)
	assert.Equal(t, "UPDATE users SET full_name = ?full_name, password = ?password, email = ?email, is_admin = ?is_admin, remember_token = ?remember_token WHERE username = ?username", stmt.SQL)
	assert.Equal(t,
		"UPDATE users SET full_name = 'John Doe', password = 'secret', email = 'jdoe@example.com', is_admin = FALSE, remember_token = '' WHERE username = 'jdoe'",
		stmt.Format(pgFmt))

	bare := schema.Describe(schema.Definition{Type: "Tag"})
	_, err = Update(bare, jdoe(t))
	assert.ErrorIs(t, err, ErrNothingToUpdate)
}

func TestDelete(t *testing.T) {
	stmt := Delete(users, types.String("jdoe"))
	assert.Equal(t, "DELETE FROM users WHERE username = ?username", stmt.SQL)
	assert.Equal(t, "DELETE FROM users WHERE username = 'jdoe'", stmt.Format(pgFmt))
}

func TestBind(t *testing.T) {
	args := Bind(users, jdoe(t))
	assert.Equal(t, Args{
		"username":       types.String("jdoe"),
		"full_name":      types.String("John Doe"),
		"password":       types.String("secret"),
		"email":          types.String("jdoe@example.com"),
		"is_admin":       types.Bool(false),
		"remember_token": types.String(""),
	}, args)
}

func TestArgsUnknownNameIsKept(t *testing.T) {
	stmt := &Statement{SQL: "SELECT ?missing, ?known", Params: Args{"known": types.Int(1)}}
	assert.Equal(t, "SELECT ?missing, 1", stmt.Format(pgFmt))
}
