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

package example

import (
	"github.com/tomoncle/mapper/model"
	"github.com/tomoncle/mapper/repository"
	"github.com/tomoncle/mapper/schema"
	"github.com/tomoncle/mapper/types"
)

// User is keyed by its user name.
type User struct {
	model.Base
	FullName      types.Value
	Password      types.Value
	Email         types.Value
	IsAdmin       types.Value
	RememberToken types.Value
}

var UserDefinition = schema.Definition{
	Type:       "User",
	Primary:    "username",
	Attributes: []string{"fullName", "password", "email", "isAdmin", "rememberToken"},
	Defaults: map[string]types.Value{
		"isAdmin":       types.Bool(false),
		"rememberToken": types.String(""),
	},
	Kinds: map[string]types.Kind{"isAdmin": types.KindBool},
}

var Users = repository.MustRegister(UserDefinition, func() *User { return &User{} })

// NewUser returns a Transient user. Its key is set by hand, so it must be
// written with a forced save.
func NewUser(username, fullName, password, email string) (*User, error) {
	return Users.NewEntity(types.Params{
		"username": types.String(username),
		"fullName": types.String(fullName),
		"password": types.String(password),
		"email":    types.String(email),
	})
}

func (u *User) Field(slot string) *types.Value {
	switch slot {
	case "FullName":
		return &u.FullName
	case "Password":
		return &u.Password
	case "Email":
		return &u.Email
	case "IsAdmin":
		return &u.IsAdmin
	case "RememberToken":
		return &u.RememberToken
	}
	return nil
}

func (u *User) Name() string { return u.Key().Text() }
