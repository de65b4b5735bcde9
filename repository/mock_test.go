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

package repository_test

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"

	"github.com/tomoncle/ledger/repository"
	"github.com/tomoncle/ledger/types"
)

var errDisk = errors.New("disk I/O error")

func newMockDB(t *testing.T) (*bun.DB, sqlmock.Sqlmock) {
	t.Helper()
	sqldb, mock, err := sqlmock.New()
	require.NoError(t, err)
	db := bun.NewDB(sqldb, sqlitedialect.New())
	t.Cleanup(func() { _ = db.Close() })
	return db, mock
}

func TestPageIssuesCountThenData(t *testing.T) {
	db, mock := newMockDB(t)
	repo := newCategories(t, db)

	mock.ExpectQuery(`SELECT count\(\*\) FROM "categories"`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(5))
	mock.ExpectQuery(`SELECT .+ FROM "categories" AS "c" ORDER BY "c"\."name" DESC, "c"\."id" ASC LIMIT 2 OFFSET 2`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).
			AddRow(3, "cat-03").
			AddRow(2, "cat-02"))

	result, err := repo.Page(context.Background(), types.NewQueryOptions().WithPage(2, 2).WithSort("name", true))
	require.NoError(t, err)
	assert.Equal(t, []string{"cat-03", "cat-02"}, names(result.Items))
	assert.Equal(t, 5, result.TotalCount)
	assert.Equal(t, 3, result.TotalPages())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPageSortedByKeySkipsTiebreak(t *testing.T) {
	db, mock := newMockDB(t)
	repo := newCategories(t, db)

	mock.ExpectQuery(`SELECT count\(\*\)`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectQuery(`ORDER BY "c"\."id" DESC LIMIT 10`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).AddRow(1, "cat-01"))

	result, err := repo.Page(context.Background(), types.NewQueryOptions().WithPage(1, 10).WithSort("id", true))
	require.NoError(t, err)
	assert.Len(t, result.Items, 1)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPageEmptySkipsDataQuery(t *testing.T) {
	db, mock := newMockDB(t)
	repo := newCategories(t, db)

	mock.ExpectQuery(`SELECT count\(\*\)`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

	result, err := repo.Page(context.Background(), types.NewQueryOptions().WithPage(3, 10))
	require.NoError(t, err)
	assert.Empty(t, result.Items)
	assert.Equal(t, 3, result.PageNumber)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestInvalidArgumentsDoNoIO(t *testing.T) {
	ctx := context.Background()
	db, mock := newMockDB(t)
	repo := newCategories(t, db)

	_, err := repo.Page(ctx, types.NewQueryOptions().WithSort("missing", false))
	require.ErrorIs(t, err, repository.ErrInvalidArgument)
	_, err = repo.Page(ctx, nil)
	require.ErrorIs(t, err, repository.ErrInvalidArgument)
	_, err = repo.Add(ctx, nil)
	require.ErrorIs(t, err, repository.ErrInvalidArgument)
	_, err = repo.Update(ctx, nil)
	require.ErrorIs(t, err, repository.ErrInvalidArgument)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestHardDeleteRoundTrips(t *testing.T) {
	db, mock := newMockDB(t)
	repo := newCategories(t, db)

	mock.ExpectQuery(`SELECT .+ FROM "categories" AS "c" WHERE \("c"\."id" = 7\) LIMIT 1`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).AddRow(7, "cat-07"))
	mock.ExpectExec(`DELETE FROM "categories"`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	ok, err := repo.Delete(context.Background(), 7)
	require.NoError(t, err)
	assert.True(t, ok)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestStorageErrorsPropagate(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name   string
		expect func(mock sqlmock.Sqlmock)
		call   func(repo repository.Repository[Category, int64]) error
	}{
		{
			name:   "get by id",
			expect: func(mock sqlmock.Sqlmock) { mock.ExpectQuery(`SELECT`).WillReturnError(errDisk) },
			call: func(repo repository.Repository[Category, int64]) error {
				_, err := repo.GetByID(ctx, 1)
				return err
			},
		},
		{
			name:   "get all",
			expect: func(mock sqlmock.Sqlmock) { mock.ExpectQuery(`SELECT`).WillReturnError(errDisk) },
			call: func(repo repository.Repository[Category, int64]) error {
				_, err := repo.GetAll(ctx)
				return err
			},
		},
		{
			name:   "page count",
			expect: func(mock sqlmock.Sqlmock) { mock.ExpectQuery(`SELECT count`).WillReturnError(errDisk) },
			call: func(repo repository.Repository[Category, int64]) error {
				_, err := repo.Page(ctx, types.NewQueryOptions().WithPage(1, 10))
				return err
			},
		},
		{
			name: "page data",
			expect: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`SELECT count`).WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(4))
				mock.ExpectQuery(`SELECT`).WillReturnError(errDisk)
			},
			call: func(repo repository.Repository[Category, int64]) error {
				_, err := repo.Page(ctx, types.NewQueryOptions())
				return err
			},
		},
		{
			name:   "update existence check",
			expect: func(mock sqlmock.Sqlmock) { mock.ExpectQuery(`SELECT EXISTS`).WillReturnError(errDisk) },
			call: func(repo repository.Repository[Category, int64]) error {
				_, err := repo.Update(ctx, &Category{ID: 1, Name: "x"})
				return err
			},
		},
		{
			name:   "delete lookup",
			expect: func(mock sqlmock.Sqlmock) { mock.ExpectQuery(`SELECT`).WillReturnError(errDisk) },
			call: func(repo repository.Repository[Category, int64]) error {
				_, err := repo.Delete(ctx, 1)
				return err
			},
		},
		{
			name: "delete statement",
			expect: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`SELECT`).WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).AddRow(1, "cat-01"))
				mock.ExpectExec(`DELETE`).WillReturnError(errDisk)
			},
			call: func(repo repository.Repository[Category, int64]) error {
				_, err := repo.Delete(ctx, 1)
				return err
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock := newMockDB(t)
			tt.expect(mock)

			err := tt.call(newCategories(t, db))
			assert.Equal(t, errDisk, err)
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}
