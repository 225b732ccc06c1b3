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

// Note has a store-generated integer key.
type Note struct {
	model.Base
	Title  types.Value
	Body   types.Value
	Author types.Value
}

var NoteDefinition = schema.Definition{
	Type:       "Note",
	Attributes: []string{"title", "body", "author"},
	Defaults:   map[string]types.Value{"body": types.String("")},
	Kinds:      map[string]types.Kind{"id": types.KindInt},
}

var Notes = repository.MustRegister(NoteDefinition, func() *Note { return &Note{} })

func NewNote(title, body, author string) (*Note, error) {
	return Notes.NewEntity(types.Params{
		"title":  types.String(title),
		"body":   types.String(body),
		"author": types.String(author),
	})
}

func (n *Note) Field(slot string) *types.Value {
	switch slot {
	case "Title":
		return &n.Title
	case "Body":
		return &n.Body
	case "Author":
		return &n.Author
	}
	return nil
}

func (n *Note) Name() string { return n.Title.Text() }
