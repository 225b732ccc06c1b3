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
	"sort"

	bunschema "github.com/uptrace/bun/schema"

	"github.com/tomoncle/mapper/types"
)

// Op names the statement shapes.
type Op string

const (
	OpFetchOne Op = "fetch_one"
	OpFetchAll Op = "fetch_all"
	OpInsert   Op = "insert"
	OpUpdate   Op = "update"
	OpDelete   Op = "delete"
)

// Args holds named parameter values. It implements bun's
// NamedArgAppender, so ?name placeholders are rendered by the
// connection's dialect when the statement runs.
type Args map[string]types.Value

var _ bunschema.NamedArgAppender = Args(nil)

func (a Args) AppendNamedArg(fmter bunschema.Formatter, b []byte, name string) ([]byte, bool) {
	v, ok := a[name]
	if !ok {
		return b, false
	}
	out, err := v.AppendQuery(fmter, b)
	if err != nil {
		return b, false
	}
	return out, true
}

// Names returns the parameter names sorted.
func (a Args) Names() []string {
	names := make([]string, 0, len(a))
	for k := range a {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// Statement is generated SQL text with its named parameters.
type Statement struct {
	Op     Op
	Table  string
	SQL    string
	Params Args
	// Generated is set on inserts that leave the key to the store.
	Generated bool
	// Returning is set when the statement yields the generated key as a
	// result row.
	Returning bool
}

// Args is the argument list to pass with SQL to a bun connection.
func (s *Statement) Args() []interface{} {
	return []interface{}{s.Params}
}

// Format renders the statement with parameters inlined for fmter's
// dialect, the same text bun sends to the driver.
func (s *Statement) Format(fmter bunschema.Formatter) string {
	return fmter.FormatQuery(s.SQL, s.Args()...)
}

// Reads reports whether the statement produces rows.
func (s *Statement) Reads() bool {
	return s.Op == OpFetchOne || s.Op == OpFetchAll || s.Returning
}

func (s *Statement) String() string { return s.SQL }
