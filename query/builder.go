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
	"errors"
	"fmt"
	"strings"

	"github.com/uptrace/bun/dialect/feature"

	"github.com/tomoncle/mapper/model"
	"github.com/tomoncle/mapper/schema"
	"github.com/tomoncle/mapper/types"
)

var (
	// ErrParamConflict is returned when a filter binds a name the generated
	// statement already uses.
	ErrParamConflict = errors.New("query: filter parameter conflicts with a generated parameter")
	// ErrNothingToUpdate is returned for types without non-key columns.
	ErrNothingToUpdate = errors.New("query: no columns to update")
)

// Bind reads every column's value from e: the key column from the key,
// other columns from the slot named by camel-casing the column.
func Bind(d *schema.Descriptor, e model.Entity) Args {
	row := model.EntityToRow(d, e)
	args := make(Args, len(row))
	for col, v := range row {
		args[col] = v
	}
	return args
}

// FetchOne builds
//
//	SELECT <key>, <cols> FROM <table> WHERE <key> = ?<key> [AND (<filter>)]
func FetchOne(d *schema.Descriptor, key types.Value, f *types.Filter) (*Statement, error) {
	params := Args{d.KeyColumn(): key}
	var b strings.Builder
	writeSelect(&b, d)
	b.WriteString(" WHERE ")
	writeKeyMatch(&b, d)
	if !f.Empty() {
		if err := merge(params, f); err != nil {
			return nil, err
		}
		b.WriteString(" AND (")
		b.WriteString(f.Where)
		b.WriteString(")")
	}
	return &Statement{Op: OpFetchOne, Table: d.Table(), SQL: b.String(), Params: params}, nil
}

// FetchAll builds
//
//	SELECT <key>, <cols> FROM <table> [WHERE <filter>]
func FetchAll(d *schema.Descriptor, f *types.Filter) (*Statement, error) {
	params := Args{}
	var b strings.Builder
	writeSelect(&b, d)
	if !f.Empty() {
		if err := merge(params, f); err != nil {
			return nil, err
		}
		b.WriteString(" WHERE ")
		b.WriteString(f.Where)
	}
	return &Statement{Op: OpFetchAll, Table: d.Table(), SQL: b.String(), Params: params}, nil
}

// Insert builds
//
//	INSERT INTO <table> (<key>, <cols>) VALUES (?<key>, ?<col>, ...) [RETURNING <key>]
//
// A null key is absent, and unless forced so is a zero key. An absent key
// is written as DEFAULT on dialects that support the placeholder and as
// NULL otherwise, and is returned as a row when the dialect supports
// INSERT ... RETURNING.
func Insert(d *schema.Descriptor, e model.Entity, forced bool, features feature.Feature) *Statement {
	params := Bind(d, e)
	key := e.Key()
	absent := key.IsNull() || (!forced && key.IsZero())

	var b strings.Builder
	b.WriteString("INSERT INTO ")
	b.WriteString(d.Table())
	b.WriteString(" (")
	b.WriteString(strings.Join(d.AllColumns(), ", "))
	b.WriteString(") VALUES (")
	switch {
	case absent && features.Has(feature.DefaultPlaceholder):
		b.WriteString("DEFAULT")
		delete(params, d.KeyColumn())
	case absent:
		params[d.KeyColumn()] = types.Null()
		writePlaceholder(&b, d.KeyColumn())
	default:
		writePlaceholder(&b, d.KeyColumn())
	}
	for _, col := range d.Columns() {
		b.WriteString(", ")
		writePlaceholder(&b, col)
	}
	b.WriteString(")")

	stmt := &Statement{Op: OpInsert, Table: d.Table(), Params: params, Generated: absent}
	if absent && features.Has(feature.InsertReturning) {
		b.WriteString(" RETURNING ")
		b.WriteString(d.KeyColumn())
		stmt.Returning = true
	}
	stmt.SQL = b.String()
	return stmt
}

// Update builds
//
//	UPDATE <table> SET <col> = ?<col>, ... WHERE <key> = ?<key>
func Update(d *schema.Descriptor, e model.Entity) (*Statement, error) {
	cols := d.Columns()
	if len(cols) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNothingToUpdate, d.Table())
	}
	var b strings.Builder
	b.WriteString("UPDATE ")
	b.WriteString(d.Table())
	b.WriteString(" SET ")
	for i, col := range cols {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(col)
		b.WriteString(" = ")
		writePlaceholder(&b, col)
	}
	b.WriteString(" WHERE ")
	writeKeyMatch(&b, d)
	return &Statement{Op: OpUpdate, Table: d.Table(), SQL: b.String(), Params: Bind(d, e)}, nil
}

// Delete builds
//
//	DELETE FROM <table> WHERE <key> = ?<key>
func Delete(d *schema.Descriptor, key types.Value) *Statement {
	var b strings.Builder
	b.WriteString("DELETE FROM ")
	b.WriteString(d.Table())
	b.WriteString(" WHERE ")
	writeKeyMatch(&b, d)
	return &Statement{Op: OpDelete, Table: d.Table(), SQL: b.String(), Params: Args{d.KeyColumn(): key}}
}

func writeSelect(b *strings.Builder, d *schema.Descriptor) {
	b.WriteString("SELECT ")
	b.WriteString(strings.Join(d.AllColumns(), ", "))
	b.WriteString(" FROM ")
	b.WriteString(d.Table())
}

func writeKeyMatch(b *strings.Builder, d *schema.Descriptor) {
	b.WriteString(d.KeyColumn())
	b.WriteString(" = ")
	writePlaceholder(b, d.KeyColumn())
}

func writePlaceholder(b *strings.Builder, name string) {
	b.WriteByte('?')
	b.WriteString(name)
}

func merge(params Args, f *types.Filter) error {
	for name, v := range f.Params {
		if _, ok := params[name]; ok {
			return fmt.Errorf("%w: %q", ErrParamConflict, name)
		}
		params[name] = v
	}
	return nil
}
