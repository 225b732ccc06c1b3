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

import (
	"bytes"
	"database/sql"
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/uptrace/bun/schema"
	"github.com/vmihailenco/msgpack/v5"
)

// ErrConversion is returned when a value cannot be represented in the
// requested kind.
var ErrConversion = errors.New("types: value conversion failed")

// Kind enumerates the closed set of attribute value types.
type Kind uint8

const (
	KindNull Kind = iota
	KindString
	KindInt
	KindFloat
	KindBool
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindString:
		return "string"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindBool:
		return "bool"
	default:
		return IllegalName
	}
}

// Value is an attribute or key value. The zero Value is null.
type Value struct {
	kind Kind
	s    string
	i    int64
	f    float64
	b    bool
}

var (
	_ driver.Valuer         = Value{}
	_ sql.Scanner           = (*Value)(nil)
	_ schema.QueryAppender  = Value{}
	_ json.Marshaler        = Value{}
	_ msgpack.CustomEncoder = Value{}
	_ msgpack.CustomDecoder = (*Value)(nil)
)

func Null() Value { return Value{} }

func String(s string) Value { return Value{kind: KindString, s: s} }

func Int(i int64) Value { return Value{kind: KindInt, i: i} }

func Float(f float64) Value { return Value{kind: KindFloat, f: f} }

func Bool(b bool) Value { return Value{kind: KindBool, b: b} }

// FromAny converts a native Go or driver value into a Value. Times are
// kept as RFC 3339 text and byte slices as strings.
func FromAny(v interface{}) (Value, error) {
	switch v := v.(type) {
	case nil:
		return Null(), nil
	case Value:
		return v, nil
	case *Value:
		if v == nil {
			return Null(), nil
		}
		return *v, nil
	case string:
		return String(v), nil
	case []byte:
		return String(string(v)), nil
	case bool:
		return Bool(v), nil
	case int:
		return Int(int64(v)), nil
	case int8:
		return Int(int64(v)), nil
	case int16:
		return Int(int64(v)), nil
	case int32:
		return Int(int64(v)), nil
	case int64:
		return Int(v), nil
	case uint:
		return Int(int64(v)), nil
	case uint8:
		return Int(int64(v)), nil
	case uint16:
		return Int(int64(v)), nil
	case uint32:
		return Int(int64(v)), nil
	case uint64:
		if v > 1<<63-1 {
			return Null(), fmt.Errorf("%w: %d overflows int64", ErrConversion, v)
		}
		return Int(int64(v)), nil
	case float32:
		return Float(float64(v)), nil
	case float64:
		return Float(v), nil
	case time.Time:
		return String(v.Format(time.RFC3339Nano)), nil
	default:
		return Null(), fmt.Errorf("%w: unsupported type %T", ErrConversion, v)
	}
}

// MustFromAny is FromAny for literals known to be supported.
func MustFromAny(v interface{}) Value {
	val, err := FromAny(v)
	if err != nil {
		panic(err)
	}
	return val
}

func (v Value) Kind() Kind { return v.kind }

func (v Value) IsNull() bool { return v.kind == KindNull }

// IsZero reports whether v is null, an empty string, a numeric zero or
// false.
func (v Value) IsZero() bool {
	switch v.kind {
	case KindString:
		return v.s == ""
	case KindInt:
		return v.i == 0
	case KindFloat:
		return v.f == 0
	case KindBool:
		return !v.b
	default:
		return true
	}
}

// Interface returns the native representation: nil, string, int64,
// float64 or bool.
func (v Value) Interface() interface{} {
	switch v.kind {
	case KindString:
		return v.s
	case KindInt:
		return v.i
	case KindFloat:
		return v.f
	case KindBool:
		return v.b
	default:
		return nil
	}
}

func (v Value) AsString() (string, bool) { return v.s, v.kind == KindString }

func (v Value) AsInt() (int64, bool) { return v.i, v.kind == KindInt }

func (v Value) AsFloat() (float64, bool) { return v.f, v.kind == KindFloat }

func (v Value) AsBool() (bool, bool) { return v.b, v.kind == KindBool }

// Text is the plain textual form; null is the empty string.
func (v Value) Text() string {
	switch v.kind {
	case KindString:
		return v.s
	case KindInt:
		return strconv.FormatInt(v.i, 10)
	case KindFloat:
		return strconv.FormatFloat(v.f, 'f', -1, 64)
	case KindBool:
		return strconv.FormatBool(v.b)
	default:
		return ""
	}
}

func (v Value) String() string {
	switch v.kind {
	case KindNull:
		return "NULL"
	case KindString:
		return strconv.Quote(v.s)
	default:
		return v.Text()
	}
}

// Convert returns v represented as kind. Null converts to null for every
// kind. Strings are parsed with strconv, numbers are widened or narrowed
// when no precision is lost, and bools map to 0/1.
func (v Value) Convert(kind Kind) (Value, error) {
	switch {
	case kind == KindNull:
		return Null(), nil
	case v.kind == kind, v.kind == KindNull:
		return v, nil
	}
	fail := func(err error) (Value, error) {
		if err != nil {
			return Null(), fmt.Errorf("%w: %s %s to %s: %v", ErrConversion, v.kind, v, kind, err)
		}
		return Null(), fmt.Errorf("%w: %s %s to %s", ErrConversion, v.kind, v, kind)
	}
	switch kind {
	case KindString:
		return String(v.Text()), nil
	case KindInt:
		switch v.kind {
		case KindString:
			i, err := strconv.ParseInt(v.s, 10, 64)
			if err != nil {
				return fail(err)
			}
			return Int(i), nil
		case KindFloat:
			if v.f != float64(int64(v.f)) {
				return fail(nil)
			}
			return Int(int64(v.f)), nil
		case KindBool:
			if v.b {
				return Int(1), nil
			}
			return Int(0), nil
		}
	case KindFloat:
		switch v.kind {
		case KindString:
			f, err := strconv.ParseFloat(v.s, 64)
			if err != nil {
				return fail(err)
			}
			return Float(f), nil
		case KindInt:
			return Float(float64(v.i)), nil
		case KindBool:
			if v.b {
				return Float(1), nil
			}
			return Float(0), nil
		}
	case KindBool:
		switch v.kind {
		case KindString:
			b, err := strconv.ParseBool(v.s)
			if err != nil {
				return fail(err)
			}
			return Bool(b), nil
		case KindInt:
			return Bool(v.i != 0), nil
		case KindFloat:
			return Bool(v.f != 0), nil
		}
	}
	return fail(nil)
}

// Value implements driver.Valuer.
func (v Value) Value() (driver.Value, error) {
	return v.Interface(), nil
}

// Scan implements sql.Scanner.
func (v *Value) Scan(src interface{}) error {
	val, err := FromAny(src)
	if err != nil {
		return err
	}
	*v = val
	return nil
}

// AppendQuery renders v as an SQL literal of the formatter's dialect.
func (v Value) AppendQuery(fmter schema.Formatter, b []byte) ([]byte, error) {
	return schema.Append(fmter, b, v.Interface()), nil
}

func (v Value) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.Interface())
}

// UnmarshalJSON accepts null, strings, numbers and booleans. Numbers
// without a fraction or exponent become ints.
func (v *Value) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var raw interface{}
	if err := dec.Decode(&raw); err != nil {
		return err
	}
	if n, ok := raw.(json.Number); ok {
		if i, err := n.Int64(); err == nil {
			*v = Int(i)
			return nil
		}
		f, err := n.Float64()
		if err != nil {
			return fmt.Errorf("%w: %v", ErrConversion, err)
		}
		*v = Float(f)
		return nil
	}
	val, err := FromAny(raw)
	if err != nil {
		return err
	}
	*v = val
	return nil
}

func (v Value) EncodeMsgpack(enc *msgpack.Encoder) error {
	switch v.kind {
	case KindString:
		return enc.EncodeString(v.s)
	case KindInt:
		return enc.EncodeInt(v.i)
	case KindFloat:
		return enc.EncodeFloat64(v.f)
	case KindBool:
		return enc.EncodeBool(v.b)
	default:
		return enc.EncodeNil()
	}
}

func (v *Value) DecodeMsgpack(dec *msgpack.Decoder) error {
	raw, err := dec.DecodeInterfaceLoose()
	if err != nil {
		return err
	}
	val, err := FromAny(raw)
	if err != nil {
		return err
	}
	*v = val
	return nil
}
