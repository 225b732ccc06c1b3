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
	"github.com/tomoncle/mapper/query"
	"github.com/tomoncle/mapper/repository"
	"github.com/tomoncle/mapper/types"
)

var (
	ErrNotFound            = repository.ErrNotFound
	ErrConstraint          = repository.ErrConstraint
	ErrConnection          = repository.ErrConnection
	ErrStatement           = repository.ErrStatement
	ErrInvalidDeleteTarget = repository.ErrInvalidDeleteTarget
	ErrMissingKey          = repository.ErrMissingKey
	ErrParamConflict       = query.ErrParamConflict
	ErrConversion          = types.ErrConversion
)

// OpError describes a failed persistence operation.
type OpError = repository.OpError

func IsNotFound(err error) bool { return repository.IsNotFound(err) }

func IsConstraint(err error) bool { return repository.IsConstraint(err) }

func IsConnection(err error) bool { return repository.IsConnection(err) }
