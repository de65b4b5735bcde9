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

package database

import (
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/go-sql-driver/mysql"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want SQLError
	}{
		{"nil", nil, UnknownErr},
		{"no rows", sql.ErrNoRows, NoRowsErr},
		{"wrapped no rows", fmt.Errorf("load: %w", sql.ErrNoRows), NoRowsErr},
		{"mysql duplicate", &mysql.MySQLError{Number: 1062, Message: "Duplicate entry"}, DuplicateKeyErr},
		{"mysql not null", &mysql.MySQLError{Number: 1048}, NotNullViolationErr},
		{"mysql foreign key", &mysql.MySQLError{Number: 1452}, ForeignKeyViolationErr},
		{"mysql no table", &mysql.MySQLError{Number: 1146}, NoTableErr},
		{"mysql other", &mysql.MySQLError{Number: 1205}, UnknownErr},
		{"postgres duplicate", &pq.Error{Code: "23505"}, DuplicateKeyErr},
		{"postgres not null", &pq.Error{Code: "23502"}, NotNullViolationErr},
		{"postgres foreign key", &pq.Error{Code: "23503"}, ForeignKeyViolationErr},
		{"postgres check", &pq.Error{Code: "23514"}, CheckConstraintViolationErr},
		{"postgres wrapped", fmt.Errorf("insert: %w", &pq.Error{Code: "42P01"}), NoTableErr},
		{"sqlite duplicate", errors.New("constraint failed: UNIQUE constraint failed: products.id (1555)"), DuplicateKeyErr},
		{"sqlite not null", errors.New("NOT NULL constraint failed: products.name"), NotNullViolationErr},
		{"sqlite no table", errors.New("SQL logic error: no such table: products (1)"), NoTableErr},
		{"sqlite no column", errors.New("no such column: p.colour"), NoColumnErr},
		{"other", errors.New("connection refused"), UnknownErr},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.err))
		})
	}
}

func TestClassifyHelpers(t *testing.T) {
	assert.True(t, IsDuplicateKey(&pq.Error{Code: "23505"}))
	assert.False(t, IsDuplicateKey(errors.New("boom")))
	assert.True(t, IsNotNullViolation(&mysql.MySQLError{Number: 1048}))
	assert.True(t, IsForeignKeyViolation(errors.New("FOREIGN KEY constraint failed")))
	assert.Equal(t, "duplicate_key", DuplicateKeyErr.String())
	assert.Equal(t, "unknown", SQLError(99).String())
}
