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

package schema

import (
	"errors"
	"fmt"
	"regexp"

	"github.com/tomoncle/mapper/types"
	"github.com/tomoncle/mapper/utils"
)

// DefaultPrimary is the primary-key attribute used when a definition
// leaves Primary empty.
const DefaultPrimary = "id"

// ErrInvalidDefinition is wrapped by every Validate failure.
var ErrInvalidDefinition = errors.New("schema: invalid definition")

var identPattern = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_]*$`)

// Definition is the static declaration an entity type supplies.
type Definition struct {
	// Type is the entity type name; the table is its lower-case plural.
	Type string
	// Primary is the key attribute, DefaultPrimary when empty.
	Primary string
	// Attributes are the non-key attributes in column order.
	Attributes []string
	// Defaults are applied at construction, keyed by attribute name.
	Defaults map[string]types.Value
	// Kinds optionally pins the kind an attribute (or the key) is converted
	// to when read from the store.
	Kinds map[string]types.Kind
}

// Descriptor is the metadata derived once from a Definition. It is
// immutable and safe for concurrent use.
type Descriptor struct {
	def        Definition
	table      string
	primary    string
	keyColumn  string
	attributes []string
	columns    []string
	slots      map[string]string
	defaults   map[string]types.Value
	kinds      map[string]types.Kind
}

// Describe derives a Descriptor from def. It never fails: an empty
// definition produces empty column lists. An attribute that maps to the
// key column is dropped from the attribute list.
func Describe(def Definition) *Descriptor {
	primary := def.Primary
	if primary == "" {
		primary = DefaultPrimary
	}
	d := &Descriptor{
		def:       def,
		table:     utils.TableName(def.Type),
		primary:   primary,
		keyColumn: utils.ToSnake(primary),
		slots:     make(map[string]string, len(def.Attributes)+1),
		defaults:  make(map[string]types.Value, len(def.Defaults)),
		kinds:     make(map[string]types.Kind, len(def.Kinds)),
	}
	d.slots[d.keyColumn] = utils.ToCamel(d.keyColumn)
	for _, attr := range def.Attributes {
		col := utils.ToSnake(attr)
		if col == d.keyColumn {
			continue
		}
		d.attributes = append(d.attributes, attr)
		d.columns = append(d.columns, col)
		d.slots[col] = utils.ToCamel(col)
	}
	for k, v := range def.Defaults {
		d.defaults[k] = v
	}
	for k, v := range def.Kinds {
		d.kinds[k] = v
	}
	return d
}

// Validate reports definitions that would produce unusable SQL: bad
// identifiers, attributes colliding on one column, and defaults or kinds
// for attributes that were never declared.
func (d *Descriptor) Validate() error {
	if !identPattern.MatchString(d.def.Type) {
		return fmt.Errorf("%w: type name %q", ErrInvalidDefinition, d.def.Type)
	}
	if !identPattern.MatchString(d.primary) {
		return fmt.Errorf("%w: %s primary %q", ErrInvalidDefinition, d.def.Type, d.primary)
	}
	seen := map[string]string{d.keyColumn: d.primary}
	for _, attr := range d.def.Attributes {
		if !identPattern.MatchString(attr) {
			return fmt.Errorf("%w: %s attribute %q", ErrInvalidDefinition, d.def.Type, attr)
		}
		col := utils.ToSnake(attr)
		if prev, ok := seen[col]; ok {
			return fmt.Errorf("%w: %s attributes %q and %q both map to column %q",
				ErrInvalidDefinition, d.def.Type, prev, attr, col)
		}
		seen[col] = attr
	}
	for attr := range d.defaults {
		if !d.declared(attr) {
			return fmt.Errorf("%w: %s default for undeclared attribute %q", ErrInvalidDefinition, d.def.Type, attr)
		}
	}
	for attr, kind := range d.kinds {
		if attr != d.primary && !d.declared(attr) {
			return fmt.Errorf("%w: %s kind for undeclared attribute %q", ErrInvalidDefinition, d.def.Type, attr)
		}
		if kind > types.KindBool {
			return fmt.Errorf("%w: %s attribute %q has kind %d", ErrInvalidDefinition, d.def.Type, attr, kind)
		}
	}
	return nil
}

func (d *Descriptor) declared(attr string) bool {
	for _, a := range d.attributes {
		if a == attr {
			return true
		}
	}
	return false
}

func (d *Descriptor) Type() string { return d.def.Type }

func (d *Descriptor) Table() string { return d.table }

// Primary is the declared key attribute name.
func (d *Descriptor) Primary() string { return d.primary }

func (d *Descriptor) KeyColumn() string { return d.keyColumn }

// Attributes returns the declared non-key attributes in order.
func (d *Descriptor) Attributes() []string {
	return append([]string(nil), d.attributes...)
}

// Columns returns the non-key columns in attribute order.
func (d *Descriptor) Columns() []string {
	return append([]string(nil), d.columns...)
}

// AllColumns returns the key column followed by Columns.
func (d *Descriptor) AllColumns() []string {
	out := make([]string, 0, len(d.columns)+1)
	out = append(out, d.keyColumn)
	return append(out, d.columns...)
}

// Slot returns the attribute slot name for a column. The second result is
// false for columns the type does not declare.
func (d *Descriptor) Slot(column string) (string, bool) {
	s, ok := d.slots[column]
	return s, ok
}

// SlotOf returns the slot name for a declared attribute.
func (d *Descriptor) SlotOf(attr string) string {
	return utils.ToCamel(utils.ToSnake(attr))
}

// Default returns the declared default for attr.
func (d *Descriptor) Default(attr string) (types.Value, bool) {
	v, ok := d.defaults[attr]
	return v, ok
}

// Defaults returns a copy of the declared defaults.
func (d *Descriptor) Defaults() map[string]types.Value {
	out := make(map[string]types.Value, len(d.defaults))
	for k, v := range d.defaults {
		out[k] = v
	}
	return out
}

// Kind returns the store-boundary kind pinned for attr, if any. The key
// is looked up by its primary attribute name.
func (d *Descriptor) Kind(attr string) (types.Kind, bool) {
	k, ok := d.kinds[attr]
	return k, ok
}

// AttributeOf maps a column back to its declared attribute name.
func (d *Descriptor) AttributeOf(column string) (string, bool) {
	if column == d.keyColumn {
		return d.primary, true
	}
	for i, c := range d.columns {
		if c == column {
			return d.attributes[i], true
		}
	}
	return "", false
}

func (d *Descriptor) String() string {
	return fmt.Sprintf("%s(table=%s, key=%s, columns=%v)", d.def.Type, d.table, d.keyColumn, d.columns)
}
