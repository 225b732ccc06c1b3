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

package model

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/tomoncle/mapper/schema"
	"github.com/tomoncle/mapper/types"
	"github.com/tomoncle/mapper/utils"
)

// NullKey is what ToMap reports for an entity whose key is null, empty
// or zero.
const NullKey = "NULL"

// Row maps column names to values.
type Row map[string]types.Value

// Check verifies that e has a slot for every attribute d declares.
func Check(d *schema.Descriptor, e Entity) error {
	for _, attr := range d.Attributes() {
		if e.Field(d.SlotOf(attr)) == nil {
			return fmt.Errorf("%w: %s.%s (slot %s)", ErrMissingSlot, d.Type(), attr, d.SlotOf(attr))
		}
	}
	return nil
}

// Init resets e to a fresh Transient entity: null key, every attribute
// null, then the declared defaults.
func Init(d *schema.Descriptor, e Entity) error {
	e.SetKey(types.Null())
	e.SetState(types.Transient)
	for _, attr := range d.Attributes() {
		slot := e.Field(d.SlotOf(attr))
		if slot == nil {
			return fmt.Errorf("%w: %s.%s", ErrMissingSlot, d.Type(), attr)
		}
		*slot = types.Null()
		if v, ok := d.Default(attr); ok {
			*slot = v
		}
	}
	return nil
}

// New builds an entity with defaults applied and then overrides, which
// are keyed by attribute name. The primary attribute name sets the key.
func New[T Entity](d *schema.Descriptor, factory func() T, overrides types.Params) (T, error) {
	e := factory()
	if err := Init(d, e); err != nil {
		var zero T
		return zero, err
	}
	for attr, v := range overrides {
		if err := Set(d, e, attr, v); err != nil {
			var zero T
			return zero, err
		}
	}
	return e, nil
}

// Set assigns one attribute (or the key, by primary name).
func Set(d *schema.Descriptor, e Entity, attr string, v types.Value) error {
	if attr == d.Primary() {
		e.SetKey(v)
		return nil
	}
	if !declared(d, attr) {
		return fmt.Errorf("%w: %s.%s", ErrUnknownAttribute, d.Type(), attr)
	}
	slot := e.Field(d.SlotOf(attr))
	if slot == nil {
		return fmt.Errorf("%w: %s.%s", ErrMissingSlot, d.Type(), attr)
	}
	*slot = v
	return nil
}

// Get reads one attribute (or the key, by primary name).
func Get(d *schema.Descriptor, e Entity, attr string) (types.Value, error) {
	if attr == d.Primary() {
		return e.Key(), nil
	}
	if !declared(d, attr) {
		return types.Null(), fmt.Errorf("%w: %s.%s", ErrUnknownAttribute, d.Type(), attr)
	}
	slot := e.Field(d.SlotOf(attr))
	if slot == nil {
		return types.Null(), fmt.Errorf("%w: %s.%s", ErrMissingSlot, d.Type(), attr)
	}
	return *slot, nil
}

func declared(d *schema.Descriptor, attr string) bool {
	for _, a := range d.Attributes() {
		if a == attr {
			return true
		}
	}
	return false
}

// RowToEntity builds a Persisted entity from a row. The key column goes
// to the key; every other column goes to the slot named by camel-casing
// it. Columns without a slot are ignored. Values are converted to the
// kind pinned in the descriptor, if any.
func RowToEntity[T Entity](d *schema.Descriptor, factory func() T, row Row) (T, error) {
	var zero T
	e := factory()
	if err := Init(d, e); err != nil {
		return zero, err
	}
	for col, v := range row {
		attr, ok := d.AttributeOf(col)
		if !ok {
			continue
		}
		if kind, ok := d.Kind(attr); ok {
			cv, err := v.Convert(kind)
			if err != nil {
				return zero, fmt.Errorf("%s.%s: %w", d.Table(), col, err)
			}
			v = cv
		}
		if col == d.KeyColumn() {
			e.SetKey(v)
			continue
		}
		slotName, _ := d.Slot(col)
		slot := e.Field(slotName)
		if slot == nil {
			continue
		}
		*slot = v
	}
	e.SetState(types.Persisted)
	return e, nil
}

// EntityToRow is the inverse of RowToEntity: every column of d with the
// value read from the matching slot.
func EntityToRow(d *schema.Descriptor, e Entity) Row {
	row := make(Row, len(d.Columns())+1)
	row[d.KeyColumn()] = e.Key()
	for _, col := range d.Columns() {
		slotName, _ := d.Slot(col)
		if slot := e.Field(slotName); slot != nil {
			row[col] = *slot
		} else {
			row[col] = types.Null()
		}
	}
	return row
}

// ToMap is the serialisable view of e: the key column first, holding the
// key or NullKey when the key is null, empty or zero, then each attribute
// under its lower-camel name with its native value.
func ToMap(d *schema.Descriptor, e Entity) *Record {
	r := NewRecord(len(d.Attributes()) + 1)
	if key := e.Key(); key.IsZero() {
		r.Set(d.KeyColumn(), NullKey)
	} else {
		r.Set(d.KeyColumn(), key.Interface())
	}
	for _, attr := range d.Attributes() {
		var v interface{}
		if slot := e.Field(d.SlotOf(attr)); slot != nil {
			v = slot.Interface()
		}
		r.Set(utils.LowerFirst(attr), v)
	}
	return r
}

// ToJSON encodes ToMap with keys in descriptor order.
func ToJSON(d *schema.Descriptor, e Entity) ([]byte, error) {
	return json.Marshal(ToMap(d, e))
}

// ToMsgpack encodes ToMap as a MessagePack map in descriptor order.
func ToMsgpack(d *schema.Descriptor, e Entity) ([]byte, error) {
	return msgpack.Marshal(ToMap(d, e))
}

// Name returns e's Namer name, or the key text.
func Name(d *schema.Descriptor, e Entity) string {
	if n, ok := e.(Namer); ok {
		return n.Name()
	}
	return e.Key().Text()
}

// Debug renders a plain-text dump of e, one column per line.
func Debug(d *schema.Descriptor, e Entity) string {
	var b strings.Builder
	fmt.Fprintf(&b, "---- Debug : %s (%s)\n", strings.ToLower(d.Type()), e.State())
	fmt.Fprintf(&b, "%s : %s\n", d.KeyColumn(), e.Key())
	row := EntityToRow(d, e)
	for _, col := range d.Columns() {
		fmt.Fprintf(&b, "%s : %s\n", col, row[col])
	}
	b.WriteString("End Debug ----\n")
	return b.String()
}
