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

package ledger

import (
	"context"
	"sync"

	"github.com/uptrace/bun"

	"github.com/tomoncle/ledger/database"
	"github.com/tomoncle/ledger/entity"
	"github.com/tomoncle/ledger/repository"
	"github.com/tomoncle/ledger/types"
)

// Service is the application-facing facade over a repository bound to the
// global database.
type Service[E any, K comparable] interface {
	// Get returns the entity with the given key, or nil when there is none.
	Get(ctx context.Context, id K) (*E, error)

	// All returns every entity that is not soft-deleted.
	All(ctx context.Context) ([]*E, error)

	// Page returns one page of entities that are not soft-deleted.
	Page(ctx context.Context, opts *types.QueryOptions) (*types.PagedResult[E], error)

	// Save stamps creation audit fields and inserts the entity.
	Save(ctx context.Context, model *E) (*E, error)

	// Update stamps modification audit fields and overwrites the stored row.
	Update(ctx context.Context, model *E) (*E, error)

	// Delete soft-deletes or removes the entity, reporting whether it existed.
	Delete(ctx context.Context, id K) (bool, error)
}

type baseService[E any, K comparable, P entity.Ptr[E, K]] struct {
	opts []repository.Option[K]
	mu   sync.Mutex
	db   *bun.DB
	repo repository.Repository[E, K]
}

// NewService returns a Service whose repository is created on first use
// from database.GetDB, so it may be constructed before database.InitDB.
// Calls made before InitDB fail with ErrNotInitialized. The repository is
// rebuilt whenever InitDB replaces the global connection.
func NewService[E any, K comparable, P entity.Ptr[E, K]](opts ...repository.Option[K]) Service[E, K] {
	return &baseService[E, K, P]{opts: opts}
}

func (s *baseService[E, K, P]) baseRepo() (repository.Repository[E, K], error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	db := database.GetDB()
	if db == nil {
		return nil, ErrNotInitialized
	}
	if s.repo != nil && s.db == db {
		return s.repo, nil
	}
	repo, err := repository.New[E, K, P](db, s.opts...)
	if err != nil {
		return nil, err
	}
	s.db, s.repo = db, repo
	return repo, nil
}

func (s *baseService[E, K, P]) Get(ctx context.Context, id K) (*E, error) {
	repo, err := s.baseRepo()
	if err != nil {
		return nil, err
	}
	return repo.GetByID(ctx, id)
}

func (s *baseService[E, K, P]) All(ctx context.Context) ([]*E, error) {
	repo, err := s.baseRepo()
	if err != nil {
		return nil, err
	}
	return repo.GetAll(ctx)
}

func (s *baseService[E, K, P]) Page(ctx context.Context, opts *types.QueryOptions) (*types.PagedResult[E], error) {
	repo, err := s.baseRepo()
	if err != nil {
		return nil, err
	}
	return repo.Page(ctx, opts)
}

func (s *baseService[E, K, P]) Save(ctx context.Context, model *E) (*E, error) {
	repo, err := s.baseRepo()
	if err != nil {
		return nil, err
	}
	return repo.Add(ctx, model)
}

func (s *baseService[E, K, P]) Update(ctx context.Context, model *E) (*E, error) {
	repo, err := s.baseRepo()
	if err != nil {
		return nil, err
	}
	return repo.Update(ctx, model)
}

func (s *baseService[E, K, P]) Delete(ctx context.Context, id K) (bool, error) {
	repo, err := s.baseRepo()
	if err != nil {
		return false, err
	}
	return repo.Delete(ctx, id)
}
