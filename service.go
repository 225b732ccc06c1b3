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

package mapper

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"

	"github.com/tomoncle/mapper/model"
	"github.com/tomoncle/mapper/repository"
	"github.com/tomoncle/mapper/types"
)

// Service binds a repository to one database handle so call sites read as
// entity operations.
type Service[T model.Entity] interface {
	// New returns a Transient entity with defaults, then overrides, applied.
	New(overrides types.Params) (T, error)

	// Get returns the entity whose key equals key.
	Get(ctx context.Context, key any) (T, error)

	// Find returns the entity whose key equals key and which matches filter.
	Find(ctx context.Context, key any, filter *types.Filter) (T, error)

	// All returns every entity.
	All(ctx context.Context) ([]T, error)

	// List returns the entities that match filter.
	List(ctx context.Context, filter *types.Filter) ([]T, error)

	// Save updates an entity that has a key and inserts one that has none.
	Save(ctx context.Context, entity T) error

	// Create inserts an entity with the key it carries.
	Create(ctx context.Context, entity T) error

	// Destroy deletes an entity and clears its key.
	Destroy(ctx context.Context, entity T) error

	// WithDB returns a service running on db, for example a bun.Tx.
	WithDB(db bun.IDB) Service[T]

	ToJSON(entity T) ([]byte, error)

	Repository() *repository.Repository[T]
}

type baseServiceImpl[T model.Entity] struct {
	repo *repository.Repository[T]
	db   bun.IDB
}

// NewService returns the default Service implementation.
func NewService[T model.Entity](db bun.IDB, repo *repository.Repository[T]) Service[T] {
	return &baseServiceImpl[T]{repo: repo, db: db}
}

func (s *baseServiceImpl[T]) New(overrides types.Params) (T, error) {
	return s.repo.NewEntity(overrides)
}

func (s *baseServiceImpl[T]) Get(ctx context.Context, key any) (T, error) {
	return s.Find(ctx, key, nil)
}

func (s *baseServiceImpl[T]) Find(ctx context.Context, key any, filter *types.Filter) (T, error) {
	k, err := types.FromAny(key)
	if err != nil {
		var zero T
		return zero, fmt.Errorf("mapper: key of %s: %w", s.repo.Descriptor().Type(), err)
	}
	return s.repo.FetchOne(ctx, s.db, k, filter)
}

func (s *baseServiceImpl[T]) All(ctx context.Context) ([]T, error) {
	return s.repo.FetchAll(ctx, s.db, nil)
}

func (s *baseServiceImpl[T]) List(ctx context.Context, filter *types.Filter) ([]T, error) {
	return s.repo.FetchAll(ctx, s.db, filter)
}

func (s *baseServiceImpl[T]) Save(ctx context.Context, entity T) error {
	return s.repo.Save(ctx, s.db, entity, false)
}

func (s *baseServiceImpl[T]) Create(ctx context.Context, entity T) error {
	return s.repo.Save(ctx, s.db, entity, true)
}

func (s *baseServiceImpl[T]) Destroy(ctx context.Context, entity T) error {
	return s.repo.Destroy(ctx, s.db, entity)
}

func (s *baseServiceImpl[T]) WithDB(db bun.IDB) Service[T] {
	return &baseServiceImpl[T]{repo: s.repo, db: db}
}

func (s *baseServiceImpl[T]) ToJSON(entity T) ([]byte, error) {
	return s.repo.ToJSON(entity)
}

func (s *baseServiceImpl[T]) Repository() *repository.Repository[T] {
	return s.repo
}
