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

package repository

import (
	"context"

	"github.com/tomoncle/ledger/types"
)

// Repository is the per-entity data access contract. E is the entity struct
// and K its key type. Implementations are not safe for concurrent use; scope
// one instance to one unit of work.
type Repository[E any, K comparable] interface {
	// GetByID returns the row with the given key, or nil when there is none.
	// Soft-deleted rows are returned too.
	GetByID(ctx context.Context, id K) (*E, error)

	// GetAll returns every row that is not soft-deleted. There is no implicit
	// limit; prefer Page for large tables.
	GetAll(ctx context.Context) ([]*E, error)

	// Page returns one sorted page of rows that are not soft-deleted.
	Page(ctx context.Context, opts *types.QueryOptions) (*types.PagedResult[E], error)

	// Add stamps creation audit fields and inserts the entity.
	Add(ctx context.Context, entity *E) (*E, error)

	// Update stamps modification audit fields and overwrites every column of
	// the stored row with the entity's values. Load the full entity before
	// mutating it; zero values are written as-is.
	Update(ctx context.Context, entity *E) (*E, error)

	// Delete soft-deletes deletable entities and removes the others. It
	// reports false when no row has the key.
	Delete(ctx context.Context, id K) (bool, error)
}
