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
	"database/sql"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/uptrace/bun"

	"github.com/tomoncle/ledger/database"
	"github.com/tomoncle/ledger/entity"
	"github.com/tomoncle/ledger/types"
	"github.com/tomoncle/ledger/usercontext"
)

var _ Repository[noEntity, int] = (*BaseRepository[noEntity, int, *noEntity])(nil)

type noEntity struct{}

func (*noEntity) GetID() int { return 0 }

// BaseRepository is the default Repository implementation. Embed it to
// override individual methods.
type BaseRepository[E any, K comparable, P entity.Ptr[E, K]] struct {
	db     bun.IDB
	users  usercontext.UserContext[K]
	now    func() time.Time
	logger database.Logger

	caps      entity.Capabilities
	table     string
	pk        string
	deletedOn string
	columns   map[string]string // lower-cased column or field name -> column
}

// New returns a repository for E keyed by K on the given storage session,
// which stays owned by the caller. E must map to a Bun table with exactly one
// primary key column.
func New[E any, K comparable, P entity.Ptr[E, K]](db bun.IDB, opts ...Option[K]) (*BaseRepository[E, K, P], error) {
	if db == nil {
		return nil, fmt.Errorf("%w: storage session is nil", ErrInvalidArgument)
	}
	cfg := newConfig(opts)
	r := &BaseRepository[E, K, P]{
		db:      db,
		users:   cfg.users,
		now:     cfg.now,
		logger:  cfg.logger,
		caps:    entity.Detect[E, K, P](),
		columns: make(map[string]string),
	}

	table := db.Dialect().Tables().Get(reflect.TypeFor[E]())
	r.table = table.Name
	if len(table.PKs) != 1 {
		return nil, fmt.Errorf("%w: table %s must have exactly one primary key, got %d",
			ErrInvalidArgument, table.Name, len(table.PKs))
	}
	r.pk = table.PKs[0].Name
	for _, f := range table.Fields {
		r.columns[strings.ToLower(f.Name)] = f.Name
		r.columns[strings.ToLower(f.GoName)] = f.Name
		if f.GoName == "DeletedOn" {
			r.deletedOn = f.Name
		}
	}
	if r.caps.Deletable && r.deletedOn == "" {
		return nil, fmt.Errorf("%w: table %s is deletable but has no DeletedOn column",
			ErrInvalidArgument, table.Name)
	}
	r.logger.Debug("Repository created", "table", r.table,
		"creatable", r.caps.Creatable, "modifiable", r.caps.Modifiable, "deletable", r.caps.Deletable)
	return r, nil
}

// Capabilities reports the audit capabilities detected for E.
func (r *BaseRepository[E, K, P]) Capabilities() entity.Capabilities { return r.caps }

// DB returns the storage session the repository was built with.
func (r *BaseRepository[E, K, P]) DB() bun.IDB { return r.db }

func (r *BaseRepository[E, K, P]) GetByID(ctx context.Context, id K) (*E, error) {
	row := new(E)
	err := r.db.NewSelect().
		Model(row).
		Where("?TableAlias.? = ?", bun.Ident(r.pk), id).
		Limit(1).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return row, nil
}

func (r *BaseRepository[E, K, P]) GetAll(ctx context.Context) ([]*E, error) {
	entities := make([]*E, 0)
	err := r.notDeleted(r.db.NewSelect().Model(&entities)).Scan(ctx)
	if err != nil {
		return nil, err
	}
	return entities, nil
}

func (r *BaseRepository[E, K, P]) Page(ctx context.Context, opts *types.QueryOptions) (*types.PagedResult[E], error) {
	if opts == nil {
		return nil, fmt.Errorf("%w: query options are nil", ErrInvalidArgument)
	}
	var sortColumn string
	if opts.SortBy != "" {
		column, ok := r.columns[strings.ToLower(opts.SortBy)]
		if !ok {
			return nil, fmt.Errorf("%w: unknown sort key %q for table %s", ErrInvalidArgument, opts.SortBy, r.table)
		}
		sortColumn = column
	}

	entities := make([]*E, 0)
	query := r.notDeleted(r.db.NewSelect().Model(&entities))
	total, err := query.Count(ctx)
	if err != nil {
		return nil, err
	}

	page, pageSize := 1, total
	if opts.IsPaged() {
		page, pageSize = opts.GetPage(), opts.GetPageSize()
		query = query.Offset(opts.GetOffset()).Limit(pageSize)
	}
	result := types.NewPagedResult(entities, total, page, pageSize)
	if total == 0 {
		return result, nil
	}

	if sortColumn != "" {
		direction := "ASC"
		if opts.SortDescending {
			direction = "DESC"
		}
		query = query.OrderExpr("?TableAlias.? "+direction, bun.Ident(sortColumn))
	}
	if sortColumn != r.pk {
		// Offset paging needs a total order.
		query = query.OrderExpr("?TableAlias.? ASC", bun.Ident(r.pk))
	}
	if err := query.Scan(ctx); err != nil {
		return nil, err
	}
	result.Items = entities
	return result, nil
}

func (r *BaseRepository[E, K, P]) Add(ctx context.Context, e *E) (*E, error) {
	if e == nil {
		return nil, fmt.Errorf("%w: entity is nil", ErrInvalidArgument)
	}
	if r.caps.Creatable {
		c := any(P(e)).(entity.Creatable[K])
		c.SetCreatedOn(r.now().UTC())
		if id, ok := r.currentUser(ctx); ok {
			c.SetCreatedByID(id)
		}
	}
	if _, err := r.db.NewInsert().Model(e).Exec(ctx); err != nil {
		return nil, err
	}
	return e, nil
}

func (r *BaseRepository[E, K, P]) Update(ctx context.Context, e *E) (*E, error) {
	if e == nil {
		return nil, fmt.Errorf("%w: entity is nil", ErrInvalidArgument)
	}
	id := P(e).GetID()
	exists, err := r.db.NewSelect().
		Model((*E)(nil)).
		Where("?TableAlias.? = ?", bun.Ident(r.pk), id).
		Exists(ctx)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, fmt.Errorf("%w: %s %v", ErrNotFound, r.table, id)
	}
	if r.caps.Modifiable {
		m := any(P(e)).(entity.Modifiable[K])
		m.SetModifiedOn(r.now().UTC())
		if actor, ok := r.currentUser(ctx); ok {
			m.SetModifiedByID(actor)
		}
	}
	if _, err := r.db.NewUpdate().Model(e).WherePK().Exec(ctx); err != nil {
		return nil, err
	}
	return e, nil
}

func (r *BaseRepository[E, K, P]) Delete(ctx context.Context, id K) (bool, error) {
	row, err := r.GetByID(ctx, id)
	if err != nil {
		return false, err
	}
	if row == nil {
		return false, nil
	}

	if !r.caps.Deletable {
		if _, err := r.db.NewDelete().Model(row).WherePK().Exec(ctx); err != nil {
			return false, err
		}
		r.logger.Debug("Entity removed", "table", r.table, "id", id)
		return true, nil
	}

	// Already-deleted rows are stamped again.
	d := any(P(row)).(entity.Deletable[K])
	d.SetDeletedOn(r.now().UTC())
	if actor, ok := r.currentUser(ctx); ok {
		d.SetDeletedByID(actor)
	}
	if _, err := r.db.NewUpdate().Model(row).WherePK().Exec(ctx); err != nil {
		return false, err
	}
	r.logger.Debug("Entity soft-deleted", "table", r.table, "id", id)
	return true, nil
}

func (r *BaseRepository[E, K, P]) notDeleted(q *bun.SelectQuery) *bun.SelectQuery {
	if !r.caps.Deletable {
		return q
	}
	return q.Where("?TableAlias.? IS NULL", bun.Ident(r.deletedOn))
}

func (r *BaseRepository[E, K, P]) currentUser(ctx context.Context) (K, bool) {
	if r.users == nil {
		var zero K
		return zero, false
	}
	return r.users.CurrentUserID(ctx)
}
