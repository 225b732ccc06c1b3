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
	"bytes"
	"encoding/json"

	"github.com/vmihailenco/msgpack/v5"
)

// Record is an insertion-ordered string-keyed map. It encodes to JSON and
// MessagePack with its keys in insertion order.
type Record struct {
	keys   []string
	values map[string]interface{}
}

var (
	_ json.Marshaler        = (*Record)(nil)
	_ msgpack.CustomEncoder = (*Record)(nil)
)

func NewRecord(size int) *Record {
	return &Record{keys: make([]string, 0, size), values: make(map[string]interface{}, size)}
}

// Set stores v under k, keeping the position of an existing key.
func (r *Record) Set(k string, v interface{}) {
	if _, ok := r.values[k]; !ok {
		r.keys = append(r.keys, k)
	}
	r.values[k] = v
}

func (r *Record) Get(k string) (interface{}, bool) {
	v, ok := r.values[k]
	return v, ok
}

func (r *Record) Keys() []string { return append([]string(nil), r.keys...) }

func (r *Record) Len() int { return len(r.keys) }

// Map returns an unordered copy.
func (r *Record) Map() map[string]interface{} {
	out := make(map[string]interface{}, len(r.values))
	for k, v := range r.values {
		out[k] = v
	}
	return out
}

func (r *Record) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range r.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		kb, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		buf.Write(kb)
		buf.WriteByte(':')
		vb, err := json.Marshal(r.values[k])
		if err != nil {
			return nil, err
		}
		buf.Write(vb)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (r *Record) EncodeMsgpack(enc *msgpack.Encoder) error {
	if err := enc.EncodeMapLen(len(r.keys)); err != nil {
		return err
	}
	for _, k := range r.keys {
		if err := enc.EncodeString(k); err != nil {
			return err
		}
		if err := enc.Encode(r.values[k]); err != nil {
			return err
		}
	}
	return nil
}
