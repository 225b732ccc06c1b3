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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tomoncle/mapper/types"
)

func userDefinition() Definition {
	return Definition{
		Type:       "User",
		Primary:    "username",
		Attributes: []string{"fullName", "password", "email", "isAdmin", "rememberToken"},
		Defaults: map[string]types.Value{
			"isAdmin":       types.Bool(false),
			"rememberToken": types.String(""),
		},
		Kinds: map[string]types.Kind{"isAdmin": types.KindBool},
	}
}

func TestDescribeUser(t *testing.T) {
	d := Describe(userDefinition())
	require.NoError(t, d.Validate())

	assert.Equal(t, "User", d.Type())
	assert.Equal(t, "users", d.Table())
	assert.Equal(t, "username", d.Primary())
	assert.Equal(t, "username", d.KeyColumn())
	assert.Equal(t, []string{"full_name", "password", "email", "is_admin", "remember_token"}, d.Columns())
	assert.Equal(t, []string{"username", "full_name", "password", "email", "is_admin", "remember_token"}, d.AllColumns())
	assert.Equal(t, []string{"fullName", "password", "email", "isAdmin", "rememberToken"}, d.Attributes())

	slot, ok := d.Slot("remember_token")
	assert.True(t, ok)
	assert.Equal(t, "RememberToken", slot)
	assert.Equal(t, "IsAdmin", d.SlotOf("isAdmin"))
	_, ok = d.Slot("unknown")
	assert.False(t, ok)

	def, ok := d.Default("isAdmin")
	assert.True(t, ok)
	assert.Equal(t, types.Bool(false), def)
	_, ok = d.Default("email")
	assert.False(t, ok)

	kind, ok := d.Kind("isAdmin")
	assert.True(t, ok)
	assert.Equal(t, types.KindBool, kind)

	attr, ok := d.AttributeOf("full_name")
	assert.True(t, ok)
	assert.Equal(t, "fullName", attr)
	attr, ok = d.AttributeOf("username")
	assert.True(t, ok)
	assert.Equal(t, "username", attr)
}

func TestDescribeDefaults(t *testing.T) {
	d := Describe(Definition{Type: "Note"})
	assert.Equal(t, "notes", d.Table())
	assert.Equal(t, "id", d.KeyColumn())
	assert.Empty(t, d.Columns())
	assert.Equal(t, []string{"id"}, d.AllColumns())
	require.NoError(t, d.Validate())
}

func TestDescribeDropsKeyAttribute(t *testing.T) {
	d := Describe(Definition{Type: "Tag", Attributes: []string{"id", "label"}})
	assert.Equal(t, []string{"label"}, d.Columns())
	assert.ErrorIs(t, d.Validate(), ErrInvalidDefinition)
}

func TestDescriptorCopies(t *testing.T) {
	d := Describe(userDefinition())
	cols := d.Columns()
	cols[0] = "mutated"
	assert.Equal(t, "full_name", d.Columns()[0])
}

func TestValidate(t *testing.T) {
	bad := []Definition{
		{Type: "", Attributes: []string{"a"}},
		{Type: "User;DROP", Attributes: []string{"a"}},
		{Type: "User", Primary: "user name"},
		{Type: "User", Attributes: []string{"full name"}},
		{Type: "User", Attributes: []string{"fullName", "full_name"}},
		{Type: "User", Attributes: []string{"a"}, Defaults: map[string]types.Value{"b": types.Int(1)}},
		{Type: "User", Attributes: []string{"a"}, Kinds: map[string]types.Kind{"b": types.KindInt}},
		{Type: "User", Attributes: []string{"a"}, Kinds: map[string]types.Kind{"a": types.Kind(42)}},
	}
	for _, def := range bad {
		assert.ErrorIs(t, Describe(def).Validate(), ErrInvalidDefinition, "%+v", def)
	}
	ok := Definition{Type: "User", Attributes: []string{"a"}, Kinds: map[string]types.Kind{"id": types.KindInt}}
	assert.NoError(t, Describe(ok).Validate())
}

func TestRegistry(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(Describe(userDefinition())))
	require.NoError(t, r.Register(Describe(Definition{Type: "Note", Attributes: []string{"body"}})))

	err := r.Register(Describe(userDefinition()))
	assert.ErrorIs(t, err, ErrInvalidDefinition)
	assert.ErrorIs(t, r.Register(nil), ErrInvalidDefinition)
	assert.ErrorIs(t, r.Register(Describe(Definition{Type: "bad type"})), ErrInvalidDefinition)

	d, ok := r.Lookup("User")
	require.True(t, ok)
	assert.Equal(t, "users", d.Table())
	_, ok = r.Lookup("Missing")
	assert.False(t, ok)

	all := r.Descriptors()
	require.Len(t, all, 2)
	assert.Equal(t, "Note", all[0].Type())
	assert.Equal(t, "User", all[1].Type())
}
