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
	"fmt"
	"sort"
	"sync"
)

var defaultRegistry = NewRegistry()

// Registry holds one descriptor per entity type name.
type Registry interface {
	Register(d *Descriptor) error
	Lookup(typeName string) (*Descriptor, bool)
	Descriptors() []*Descriptor
}

type registry struct {
	descriptors map[string]*Descriptor
	mutex       sync.RWMutex
}

func NewRegistry() Registry {
	return &registry{descriptors: make(map[string]*Descriptor)}
}

// Register validates d and stores it. A type name can be registered once.
func (r *registry) Register(d *Descriptor) error {
	if d == nil {
		return fmt.Errorf("%w: nil descriptor", ErrInvalidDefinition)
	}
	if err := d.Validate(); err != nil {
		return err
	}
	r.mutex.Lock()
	defer r.mutex.Unlock()
	if _, ok := r.descriptors[d.Type()]; ok {
		return fmt.Errorf("%w: type %q already registered", ErrInvalidDefinition, d.Type())
	}
	r.descriptors[d.Type()] = d
	return nil
}

func (r *registry) Lookup(typeName string) (*Descriptor, bool) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()
	d, ok := r.descriptors[typeName]
	return d, ok
}

// Descriptors returns every registered descriptor sorted by type name.
func (r *registry) Descriptors() []*Descriptor {
	r.mutex.RLock()
	result := make([]*Descriptor, 0, len(r.descriptors))
	for _, d := range r.descriptors {
		result = append(result, d)
	}
	r.mutex.RUnlock()
	sort.Slice(result, func(i, j int) bool {
		return result[i].Type() < result[j].Type()
	})
	return result
}

// Register adds d to the default registry.
func Register(d *Descriptor) error {
	return defaultRegistry.Register(d)
}

// Lookup finds a descriptor in the default registry.
func Lookup(typeName string) (*Descriptor, bool) {
	return defaultRegistry.Lookup(typeName)
}

// Registered returns the default registry's descriptors sorted by type.
func Registered() []*Descriptor {
	return defaultRegistry.Descriptors()
}
