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
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/schema"
	"github.com/vmihailenco/msgpack/v5"
)

func TestFromAny(t *testing.T) {
	tests := []struct {
		in   interface{}
		want Value
	}{
		{nil, Null()},
		{"jdoe", String("jdoe")},
		{[]byte("raw"), String("raw")},
		{true, Bool(true)},
		{42, Int(42)},
		{int32(-7), Int(-7)},
		{uint16(9), Int(9)},
		{1.5, Float(1.5)},
		{float32(0.5), Float(0.5)},
		{Int(3), Int(3)},
		{time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC), String("2025-01-02T03:04:05Z")},
	}
	for _, tt := range tests {
		got, err := FromAny(tt.in)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}

	_, err := FromAny(struct{}{})
	assert.ErrorIs(t, err, ErrConversion)
	_, err = FromAny(uint64(1 << 63))
	assert.ErrorIs(t, err, ErrConversion)
}

func TestValueZeroAndText(t *testing.T) {
	assert.True(t, Value{}.IsNull())
	assert.True(t, Null().IsZero())
	assert.True(t, String("").IsZero())
	assert.True(t, Int(0).IsZero())
	assert.False(t, Int(-1).IsZero())
	assert.False(t, String("0").IsZero())

	assert.Equal(t, "", Null().Text())
	assert.Equal(t, "NULL", Null().String())
	assert.Equal(t, `"a"`, String("a").String())
	assert.Equal(t, "2.25", Float(2.25).Text())
	assert.Equal(t, "false", Bool(false).Text())
}

func TestValueConvert(t *testing.T) {
	tests := []struct {
		in   Value
		kind Kind
		want Value
	}{
		{Int(1), KindBool, Bool(true)},
		{Int(0), KindBool, Bool(false)},
		{String("1"), KindBool, Bool(true)},
		{String("f"), KindBool, Bool(false)},
		{String("12"), KindInt, Int(12)},
		{Float(3), KindInt, Int(3)},
		{Bool(true), KindInt, Int(1)},
		{String("0.25"), KindFloat, Float(0.25)},
		{Int(2), KindFloat, Float(2)},
		{Int(5), KindString, String("5")},
		{Null(), KindInt, Null()},
		{String("x"), KindString, String("x")},
		{String("x"), KindNull, Null()},
	}
	for _, tt := range tests {
		got, err := tt.in.Convert(tt.kind)
		require.NoError(t, err, "%s -> %s", tt.in, tt.kind)
		assert.Equal(t, tt.want, got)
	}

	for _, bad := range []struct {
		in   Value
		kind Kind
	}{
		{String("yes please"), KindBool},
		{String("1.5"), KindInt},
		{Float(1.5), KindInt},
		{Bool(true), Kind(99)},
	} {
		_, err := bad.in.Convert(bad.kind)
		assert.ErrorIs(t, err, ErrConversion)
	}
}

func TestValueAppendQuery(t *testing.T) {
	fmter := schema.NewFormatter(pgdialect.New())
	tests := []struct {
		in   Value
		want string
	}{
		{Null(), "NULL"},
		{String("O'Brien"), "'O''Brien'"},
		{Int(-3), "-3"},
		{Float(1.5), "1.5"},
		{Bool(true), "TRUE"},
	}
	for _, tt := range tests {
		b, err := tt.in.AppendQuery(fmter, nil)
		require.NoError(t, err)
		assert.Equal(t, tt.want, string(b))
	}
}

func TestValueSQLAndJSON(t *testing.T) {
	var v Value
	require.NoError(t, v.Scan(int64(7)))
	assert.Equal(t, Int(7), v)
	dv, err := v.Value()
	require.NoError(t, err)
	assert.Equal(t, int64(7), dv)

	b, err := json.Marshal([]Value{Null(), String("a"), Int(1), Float(0.5), Bool(false)})
	require.NoError(t, err)
	assert.JSONEq(t, `[null,"a",1,0.5,false]`, string(b))

	var back []Value
	require.NoError(t, json.Unmarshal(b, &back))
	assert.Equal(t, []Value{Null(), String("a"), Int(1), Float(0.5), Bool(false)}, back)
}

func TestValueMsgpack(t *testing.T) {
	in := map[string]Value{
		"name":  String("jdoe"),
		"age":   Int(40),
		"score": Float(2.5),
		"admin": Bool(true),
		"token": Null(),
	}
	b, err := msgpack.Marshal(in)
	require.NoError(t, err)

	var out map[string]Value
	require.NoError(t, msgpack.Unmarshal(b, &out))
	assert.Equal(t, in, out)
}

func TestStateEnum(t *testing.T) {
	assert.Equal(t, "persisted", Persisted.String())
	assert.Equal(t, 2, Deleted.Number())
	assert.False(t, State(7).IsValid())
	assert.Equal(t, IllegalName, State(7).Name())
	assert.Equal(t, IllegalValue, State(-1).Number())
}

func TestNewFilter(t *testing.T) {
	f := NewFilter("email = ?email AND is_admin = ?admin", "email", "a@b.c", "admin", true)
	assert.Equal(t, Params{"email": String("a@b.c"), "admin": Bool(true)}, f.Params)
	f.With("extra", Int(1))
	assert.Equal(t, Int(1), f.Params["extra"])
	assert.False(t, f.Empty())

	var nilFilter *Filter
	assert.True(t, nilFilter.Empty())
}
