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
	"fmt"
	"time"

	"github.com/uptrace/bun"

	"github.com/tomoncle/mapper/database"
	"github.com/tomoncle/mapper/model"
	"github.com/tomoncle/mapper/query"
	"github.com/tomoncle/mapper/schema"
	"github.com/tomoncle/mapper/types"
)

// Repository runs the persistence operations of one entity type. It holds
// no connection: every operation takes the bun.IDB to run on and opens its
// own transaction there, a savepoint when the handle is already a bun.Tx.
type Repository[T model.Entity] struct {
	desc    *schema.Descriptor
	factory func() T
	logger  database.Logger
}

// New returns a repository for d. factory must return a fresh, zero
// instance on every call.
func New[T model.Entity](d *schema.Descriptor, factory func() T) *Repository[T] {
	return &Repository[T]{desc: d, factory: factory}
}

// Register describes def, checks that factory's type has a slot for every
// column and adds the descriptor to the default registry.
func Register[T model.Entity](def schema.Definition, factory func() T) (*Repository[T], error) {
	d := schema.Describe(def)
	if err := d.Validate(); err != nil {
		return nil, err
	}
	if err := model.Check(d, factory()); err != nil {
		return nil, err
	}
	if err := schema.Register(d); err != nil {
		return nil, err
	}
	return New(d, factory), nil
}

// MustRegister is like Register but panics on error. It is meant for
// package-level variables.
func MustRegister[T model.Entity](def schema.Definition, factory func() T) *Repository[T] {
	r, err := Register(def, factory)
	if err != nil {
		panic(fmt.Sprintf("mapper: register %s: %v", def.Type, err))
	}
	return r
}

// WithLogger sets the logger used instead of database.GetLogger.
func (r *Repository[T]) WithLogger(logger database.Logger) *Repository[T] {
	r.logger = logger
	return r
}

func (r *Repository[T]) log() database.Logger {
	if r.logger != nil {
		return r.logger
	}
	return database.GetLogger()
}

func (r *Repository[T]) Descriptor() *schema.Descriptor { return r.desc }

// NewEntity returns a Transient entity with defaults applied, then
// overrides. Overrides are keyed by attribute name; the primary attribute
// sets the key.
func (r *Repository[T]) NewEntity(overrides types.Params) (T, error) {
	return model.New(r.desc, r.factory, overrides)
}

// FetchOne returns the entity whose key equals key and which also matches
// filter, if one is given. When several rows match, the first is used.
func (r *Repository[T]) FetchOne(ctx context.Context, db bun.IDB, key types.Value, filter *types.Filter) (T, error) {
	var out T
	stmt, err := query.FetchOne(r.desc, key, filter)
	if err != nil {
		return out, r.rejected(query.OpFetchOne, err)
	}
	err = r.inTx(ctx, db, stmt.Op, func(tx bun.Tx) error {
		found, err := r.scan(ctx, tx, stmt)
		if err != nil {
			return err
		}
		if len(found) == 0 {
			return newOpError(stmt.Op, r.desc.Table(), ErrNotFound, nil)
		}
		out = found[0]
		return nil
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return out, nil
}

// FetchAll returns every entity matching filter in store order. No match
// is an empty slice, not an error.
func (r *Repository[T]) FetchAll(ctx context.Context, db bun.IDB, filter *types.Filter) ([]T, error) {
	stmt, err := query.FetchAll(r.desc, filter)
	if err != nil {
		return nil, r.rejected(query.OpFetchAll, err)
	}
	out := []T{}
	err = r.inTx(ctx, db, stmt.Op, func(tx bun.Tx) error {
		found, err := r.scan(ctx, tx, stmt)
		if err != nil {
			return err
		}
		out = append(out, found...)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *Repository[T]) scan(ctx context.Context, tx bun.Tx, stmt *query.Statement) ([]T, error) {
	rows, err := tx.QueryContext(ctx, stmt.SQL, stmt.Args()...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, err
	}
	var out []T
	for rows.Next() {
		vals := make([]types.Value, len(cols))
		dest := make([]interface{}, len(cols))
		for i := range vals {
			dest[i] = &vals[i]
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, err
		}
		row := make(model.Row, len(cols))
		for i, col := range cols {
			row[col] = vals[i]
		}
		e, err := model.RowToEntity(r.desc, r.factory, row)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// Save writes e. With force it always inserts e with its current key, or
// with a store-generated key when the key is null. Otherwise it updates
// when e is Persisted or has a non-zero key, and inserts with a
// store-generated key when it has none. On success e is Persisted.
func (r *Repository[T]) Save(ctx context.Context, db bun.IDB, e T, force bool) error {
	switch {
	case force:
		return r.insert(ctx, db, e, true)
	case e.State() == types.Persisted || !e.Key().IsZero():
		return r.update(ctx, db, e)
	default:
		return r.insert(ctx, db, e, false)
	}
}

func (r *Repository[T]) insert(ctx context.Context, db bun.IDB, e T, forced bool) error {
	stmt := query.Insert(r.desc, e, forced, db.Dialect().Features())
	var generated types.Value
	err := r.inTx(ctx, db, stmt.Op, func(tx bun.Tx) error {
		if stmt.Returning {
			err := tx.QueryRowContext(ctx, stmt.SQL, stmt.Args()...).Scan(&generated)
			if errors.Is(err, sql.ErrNoRows) {
				return newOpError(stmt.Op, r.desc.Table(), ErrStatement, err)
			}
			return err
		}
		res, err := tx.ExecContext(ctx, stmt.SQL, stmt.Args()...)
		if err != nil {
			return err
		}
		if !stmt.Generated {
			return nil
		}
		id, err := res.LastInsertId()
		if err != nil {
			r.log().Debug("Generated key unavailable", "table", r.desc.Table(), "error", err)
			return nil
		}
		generated = types.Int(id)
		return nil
	})
	if err != nil {
		return err
	}
	if stmt.Generated {
		key, err := r.keyOf(generated)
		if err != nil {
			return newOpError(stmt.Op, r.desc.Table(), ErrStatement, err)
		}
		e.SetKey(key)
	}
	e.SetState(types.Persisted)
	return nil
}

func (r *Repository[T]) keyOf(v types.Value) (types.Value, error) {
	if kind, ok := r.desc.Kind(r.desc.Primary()); ok {
		return v.Convert(kind)
	}
	return v, nil
}

func (r *Repository[T]) update(ctx context.Context, db bun.IDB, e T) error {
	stmt, err := query.Update(r.desc, e)
	if errors.Is(err, query.ErrNothingToUpdate) {
		e.SetState(types.Persisted)
		return nil
	}
	if err != nil {
		return r.rejected(query.OpUpdate, err)
	}
	if e.Key().IsNull() {
		return r.rejected(query.OpUpdate, ErrMissingKey)
	}
	err = r.inTx(ctx, db, stmt.Op, func(tx bun.Tx) error {
		_, err := tx.ExecContext(ctx, stmt.SQL, stmt.Args()...)
		return err
	})
	if err != nil {
		return err
	}
	e.SetState(types.Persisted)
	return nil
}

// Destroy deletes e's row. An entity whose key is null, empty, not
// positive or boolean fails with ErrInvalidDeleteTarget before any
// statement runs. On success e's key is null and e is Deleted.
func (r *Repository[T]) Destroy(ctx context.Context, db bun.IDB, e T) error {
	key := e.Key()
	if !Deletable(key) {
		err := newOpError(query.OpDelete, r.desc.Table(), ErrInvalidDeleteTarget, nil)
		observe(r.desc.Table(), query.OpDelete, time.Now(), err)
		r.log().Warn("Refusing to delete entity without a key", "table", r.desc.Table(), "key", key)
		return err
	}
	stmt := query.Delete(r.desc, key)
	err := r.inTx(ctx, db, stmt.Op, func(tx bun.Tx) error {
		_, err := tx.ExecContext(ctx, stmt.SQL, stmt.Args()...)
		return err
	})
	if err != nil {
		return err
	}
	e.SetKey(types.Null())
	e.SetState(types.Deleted)
	return nil
}

// Deletable reports whether key can address a row for deletion.
func Deletable(key types.Value) bool {
	switch key.Kind() {
	case types.KindString:
		s, _ := key.AsString()
		return s != ""
	case types.KindInt:
		i, _ := key.AsInt()
		return i > 0
	case types.KindFloat:
		f, _ := key.AsFloat()
		return f > 0
	}
	return false
}

// rejected reports a statement that could not be built or whose result
// could not be applied. It is counted and logged like a store failure.
func (r *Repository[T]) rejected(op query.Op, err error) error {
	opErr := newOpError(op, r.desc.Table(), ErrStatement, err)
	observe(r.desc.Table(), op, time.Now(), opErr)
	r.log().Warn("Statement rejected", "op", op, "table", r.desc.Table(), "error", err)
	return opErr
}

func (r *Repository[T]) ToMap(e T) *model.Record { return model.ToMap(r.desc, e) }

func (r *Repository[T]) ToJSON(e T) ([]byte, error) { return model.ToJSON(r.desc, e) }

func (r *Repository[T]) ToMsgpack(e T) ([]byte, error) { return model.ToMsgpack(r.desc, e) }

func (r *Repository[T]) Name(e T) string { return model.Name(r.desc, e) }

// Debug is a plain-text dump of e for logs.
func (r *Repository[T]) Debug(e T) string { return model.Debug(r.desc, e) }
