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

package types

// Common illegal/default values used by enums.
const (
	IllegalValue = -1
	IllegalName  = "unknown"
	IllegalDesc  = "unknown"
)

// BaseEnum represents a basic enum contract used by domain types.
type BaseEnum interface {
	IsValid() bool
	Number() int
	String() string
	Desc() string
	Name() string
}

// State is the lifecycle position of an entity relative to its table.
type State int

const (
	// Transient entities have never been written.
	Transient State = iota
	// Persisted entities were read from, or written to, the store.
	Persisted
	// Deleted entities had their row removed and their key cleared.
	Deleted
)

var _ BaseEnum = Transient

var stateNames = [...]string{"transient", "persisted", "deleted"}

var stateDescs = [...]string{
	"never written to the store",
	"backed by a row in the store",
	"row removed, key cleared",
}

func (s State) IsValid() bool { return s >= Transient && s <= Deleted }

func (s State) Number() int {
	if !s.IsValid() {
		return IllegalValue
	}
	return int(s)
}

func (s State) String() string { return s.Name() }

func (s State) Name() string {
	if !s.IsValid() {
		return IllegalName
	}
	return stateNames[s]
}

func (s State) Desc() string {
	if !s.IsValid() {
		return IllegalDesc
	}
	return stateDescs[s]
}
