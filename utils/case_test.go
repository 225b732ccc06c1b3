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

package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToSnake(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"fullName", "full_name"},
		{"FullName", "full_name"},
		{"rememberToken", "remember_token"},
		{"isAdmin", "is_admin"},
		{"username", "username"},
		{"id", "id"},
		{"ABC", "a_b_c"},
		{"already_snake", "already_snake"},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ToSnake(tt.in), tt.in)
	}
}

func TestToCamel(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"full_name", "FullName"},
		{"remember_token", "RememberToken"},
		{"id", "Id"},
		{"a__b", "AB"},
		{"_leading", "Leading"},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ToCamel(tt.in), tt.in)
	}
}

func TestCaseRoundTrip(t *testing.T) {
	for _, name := range []string{"FullName", "Password", "IsAdmin", "RememberToken", "A", "HTTPServer", "Email"} {
		assert.Equal(t, name, ToCamel(ToSnake(name)), name)
	}
	for _, name := range []string{"fullName", "password", "isAdmin", "rememberToken", "email"} {
		assert.Equal(t, name, LowerFirst(ToCamel(ToSnake(name))), name)
		assert.Equal(t, UpperFirst(name), ToCamel(ToSnake(name)), name)
	}
}

func TestFirstLetter(t *testing.T) {
	assert.Equal(t, "fullName", LowerFirst("FullName"))
	assert.Equal(t, "fullName", LowerFirst("fullName"))
	assert.Equal(t, "FullName", UpperFirst("fullName"))
	assert.Equal(t, "9lives", UpperFirst("9lives"))
	assert.Equal(t, "", LowerFirst(""))
}

func TestTableName(t *testing.T) {
	assert.Equal(t, "users", TableName("User"))
	assert.Equal(t, "blogposts", TableName("BlogPost"))
}
