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

// Params maps placeholder names to bound values.
type Params map[string]Value

// Filter is an extra WHERE fragment appended to generated fetch queries.
// The fragment is trusted SQL text; values must be referenced through
// named placeholders (?name) and supplied in Params.
type Filter struct {
	Where  string
	Params Params
}

// NewFilter creates a filter from a fragment and alternating name/value
// pairs. Values go through FromAny; a value it rejects panics, so pass
// Value literals for anything unusual.
func NewFilter(where string, pairs ...interface{}) *Filter {
	f := &Filter{Where: where, Params: make(Params, len(pairs)/2)}
	for i := 0; i+1 < len(pairs); i += 2 {
		name, ok := pairs[i].(string)
		if !ok {
			continue
		}
		f.Params[name] = MustFromAny(pairs[i+1])
	}
	return f
}

// With binds one more named value and returns f.
func (f *Filter) With(name string, v Value) *Filter {
	if f.Params == nil {
		f.Params = Params{}
	}
	f.Params[name] = v
	return f
}

// Empty reports whether the filter carries no fragment.
func (f *Filter) Empty() bool {
	return f == nil || f.Where == ""
}
