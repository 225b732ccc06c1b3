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

package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/uptrace/bun/dialect/mysqldialect"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	bunschema "github.com/uptrace/bun/schema"

	_ "github.com/tomoncle/mapper/example"
	"github.com/tomoncle/mapper/model"
	"github.com/tomoncle/mapper/query"
	"github.com/tomoncle/mapper/schema"
	"github.com/tomoncle/mapper/types"
)

func (c *appFlags) describeCommand() *cobra.Command {
	cmd := &cobra.Command{}
	cmd.Use = "describe [type]..."
	cmd.Short = "Show table, key and columns of registered types"
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		descs, err := lookup(args)
		if err != nil {
			return err
		}
		for _, d := range descs {
			describe(cmd.OutOrStdout(), d)
		}
		return nil
	}
	return cmd
}

func (c *appFlags) sqlCommand() *cobra.Command {
	cmd := &cobra.Command{}
	cmd.Use = "sql [type]..."
	cmd.Short = "Print the statements generated for registered types"
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		dialect, err := dialectFor(c.dialect)
		if err != nil {
			return err
		}
		descs, err := lookup(args)
		if err != nil {
			return err
		}
		for _, d := range descs {
			if err := statements(cmd.OutOrStdout(), d, dialect, strings.ToLower(c.dialect)); err != nil {
				return err
			}
		}
		return nil
	}
	return cmd
}

func lookup(names []string) ([]*schema.Descriptor, error) {
	if len(names) == 0 {
		return schema.Registered(), nil
	}
	out := make([]*schema.Descriptor, 0, len(names))
	for _, name := range names {
		d, ok := schema.Lookup(name)
		if !ok {
			return nil, fmt.Errorf("unknown type %q", name)
		}
		out = append(out, d)
	}
	return out, nil
}

func dialectFor(name string) (bunschema.Dialect, error) {
	switch strings.ToLower(name) {
	case "pg", "postgres", "postgresql":
		return pgdialect.New(), nil
	case "mysql":
		return mysqldialect.New(), nil
	case "sqlite", "sqlite3":
		return sqlitedialect.New(), nil
	}
	return nil, fmt.Errorf("unsupported dialect %q", name)
}

func describe(w io.Writer, d *schema.Descriptor) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	defer tw.Flush()

	fmt.Fprintf(tw, "%s\ttable %s\n", d.Type(), d.Table())
	fmt.Fprintf(tw, "  %s\t%s\tkey%s\n", d.KeyColumn(), d.Primary(), kindNote(d, d.Primary()))
	for i, col := range d.Columns() {
		attr := d.Attributes()[i]
		note := kindNote(d, attr)
		if v, ok := d.Default(attr); ok {
			note += " default " + v.String()
		}
		fmt.Fprintf(tw, "  %s\t%s\t%s\n", col, attr, strings.TrimSpace(note))
	}
}

func kindNote(d *schema.Descriptor, attr string) string {
	if k, ok := d.Kind(attr); ok {
		return " " + k.String()
	}
	return ""
}

// slotEntity is an Entity with one slot per declared column, used to
// render statements for types whose Go struct is not at hand.
type slotEntity struct {
	model.Base
	slots map[string]*types.Value
}

func newSlotEntity(d *schema.Descriptor) *slotEntity {
	e := &slotEntity{slots: make(map[string]*types.Value, len(d.Columns()))}
	for _, attr := range d.Attributes() {
		e.slots[d.SlotOf(attr)] = new(types.Value)
	}
	return e
}

func (e *slotEntity) Field(slot string) *types.Value { return e.slots[slot] }

func statements(w io.Writer, d *schema.Descriptor, dialect bunschema.Dialect, label string) error {
	e := newSlotEntity(d)
	if err := model.Init(d, e); err != nil {
		return err
	}

	var stmts []*query.Statement
	one, err := query.FetchOne(d, types.Null(), nil)
	if err != nil {
		return err
	}
	all, err := query.FetchAll(d, nil)
	if err != nil {
		return err
	}
	stmts = append(stmts, one, all,
		query.Insert(d, e, true, dialect.Features()),
		query.Insert(d, e, false, dialect.Features()))
	if update, err := query.Update(d, e); err == nil {
		stmts = append(stmts, update)
	}
	stmts = append(stmts, query.Delete(d, types.Null()))

	fmt.Fprintf(w, "-- %s (%s)\n", d.Type(), label)
	for _, s := range stmts {
		fmt.Fprintf(w, "%-9s %s;\n", s.Op, s.SQL)
	}
	return nil
}
