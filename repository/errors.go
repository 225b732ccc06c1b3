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
	"errors"
	"fmt"

	"github.com/tomoncle/mapper/database"
	"github.com/tomoncle/mapper/query"
)

var (
	// ErrNotFound is returned when a fetch by key matches no row.
	ErrNotFound = errors.New("mapper: entity not found")

	// ErrConstraint is returned when the store rejects a write for a
	// uniqueness, not-null, foreign-key or check constraint.
	ErrConstraint = errors.New("mapper: constraint violation")

	// ErrConnection is returned when the store is unreachable or a
	// transaction cannot be started or committed.
	ErrConnection = errors.New("mapper: connection failure")

	// ErrStatement is returned for any other statement the store rejects.
	ErrStatement = errors.New("mapper: statement rejected")

	// ErrInvalidDeleteTarget is returned by Destroy for an entity without a
	// usable key. The store is not contacted.
	ErrInvalidDeleteTarget = errors.New("mapper: invalid delete target")

	// ErrMissingKey is returned, wrapped in ErrStatement, when a persisted
	// entity without a key is saved. The store is not contacted.
	ErrMissingKey = errors.New("mapper: persisted entity has no key")
)

// OpError describes a failed persistence operation. errors.Is matches its
// Kind sentinel and errors.As reaches the driver error.
type OpError struct {
	Op    query.Op
	Table string
	Kind  error
	Err   error
}

func (e *OpError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s %s: %v", e.Op, e.Table, e.Kind)
	}
	return fmt.Sprintf("%s %s: %v: %v", e.Op, e.Table, e.Kind, e.Err)
}

func (e *OpError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

func newOpError(op query.Op, table string, kind, err error) *OpError {
	return &OpError{Op: op, Table: table, Kind: kind, Err: err}
}

// classify wraps a driver error in an OpError whose Kind follows
// database.Classify.
func classify(op query.Op, table string, err error) *OpError {
	var opErr *OpError
	if errors.As(err, &opErr) {
		return opErr
	}
	return newOpError(op, table, kindOf(err), err)
}

func kindOf(err error) error {
	switch database.Classify(err) {
	case database.ClassNotFound:
		return ErrNotFound
	case database.ClassConstraint:
		return ErrConstraint
	case database.ClassConnection:
		return ErrConnection
	}
	return ErrStatement
}

// outcome is the metrics label of an operation result.
func outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrConstraint):
		return "constraint"
	case errors.Is(err, ErrConnection):
		return "connection"
	case errors.Is(err, ErrInvalidDeleteTarget):
		return "invalid_target"
	}
	return "error"
}

// IsNotFound reports whether err is, or wraps, ErrNotFound.
func IsNotFound(err error) bool { return errors.Is(err, ErrNotFound) }

// IsConstraint reports whether err is, or wraps, ErrConstraint.
func IsConstraint(err error) bool { return errors.Is(err, ErrConstraint) }

// IsConnection reports whether err is, or wraps, ErrConnection.
func IsConnection(err error) bool { return errors.Is(err, ErrConnection) }
