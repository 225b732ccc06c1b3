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

import "strings"

// ToSnake converts an attribute name to its column name: an underscore is
// inserted before every upper-case ASCII letter that follows a word
// character, then the result is lower-cased.
//
//	fullName      -> full_name
//	RememberToken -> remember_token
//	userID        -> user_i_d
func ToSnake(name string) string {
	var b strings.Builder
	b.Grow(len(name) + 4)
	for i := 0; i < len(name); i++ {
		c := name[i]
		if isUpper(c) && i > 0 && isWord(name[i-1]) {
			b.WriteByte('_')
		}
		b.WriteByte(toLower(c))
	}
	return b.String()
}

// ToCamel converts a column name to its attribute slot name: the name is
// split on underscores, each segment gets an upper-case first letter and
// the segments are concatenated. Empty segments are dropped.
//
//	full_name -> FullName
//	id        -> Id
func ToCamel(name string) string {
	var b strings.Builder
	b.Grow(len(name))
	for _, seg := range strings.Split(name, "_") {
		if seg == "" {
			continue
		}
		b.WriteString(UpperFirst(seg))
	}
	return b.String()
}

// UpperFirst upper-cases the first ASCII letter of name.
func UpperFirst(name string) string {
	if name == "" || !isLower(name[0]) {
		return name
	}
	return string(name[0]-'a'+'A') + name[1:]
}

// LowerFirst lower-cases the first ASCII letter of name.
func LowerFirst(name string) string {
	if name == "" || !isUpper(name[0]) {
		return name
	}
	return string(toLower(name[0])) + name[1:]
}

// TableName derives the table for a type: lower-case name plus "s".
func TableName(typeName string) string {
	return strings.ToLower(typeName) + "s"
}

func isUpper(c byte) bool { return c >= 'A' && c <= 'Z' }

func isLower(c byte) bool { return c >= 'a' && c <= 'z' }

func isWord(c byte) bool {
	return isUpper(c) || isLower(c) || (c >= '0' && c <= '9') || c == '_'
}

func toLower(c byte) byte {
	if isUpper(c) {
		return c - 'A' + 'a'
	}
	return c
}
