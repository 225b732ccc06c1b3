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
	"errors"

	"github.com/tomoncle/mapper/types"
)

var (
	// ErrMissingSlot means an entity type has no field for a declared
	// attribute.
	ErrMissingSlot = errors.New("model: entity has no slot for attribute")
	// ErrUnknownAttribute means an override names an undeclared attribute.
	ErrUnknownAttribute = errors.New("model: unknown attribute")
)

// Entity is implemented by every mapped type. Field returns the address
// of the statically declared slot for an upper-camel slot name such as
// "FullName", or nil when the type has no such slot.
type Entity interface {
	Key() types.Value
	SetKey(types.Value)
	State() types.State
	SetState(types.State)
	Field(slot string) *types.Value
}

// Namer is implemented by entities with a human-readable name.
type Namer interface {
	Name() string
}

// Base carries the key and lifecycle state. Embed it in entity structs:
//
//	type User struct {
//		model.Base
//		FullName types.Value
//	}
type Base struct {
	key   types.Value
	state types.State
}

func (b *Base) Key() types.Value { return b.key }

func (b *Base) SetKey(v types.Value) { b.key = v }

func (b *Base) State() types.State { return b.state }

func (b *Base) SetState(s types.State) { b.state = s }
