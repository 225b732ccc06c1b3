// Package mapper maps entity types onto tables: one row per entity, one
// column per declared attribute, one key column.
//
// A type declares its attributes once and gets a repository:
//
//	var Users = repository.MustRegister(schema.Definition{
//		Type:       "User",
//		Primary:    "username",
//		Attributes: []string{"fullName", "password", "email"},
//	}, func() *User { return &User{} })
//
// Every operation runs in its own transaction on the bun.IDB it is given.
package mapper
