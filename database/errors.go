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
	"strings"

	"github.com/go-sql-driver/mysql"
	"github.com/lib/pq"
)

// SQLError is a driver-independent category of storage failure.
type SQLError int

const (
	UnknownErr SQLError = iota
	NoRowsErr
	NoColumnErr
	NoTableErr
	ExistTableErr
	DuplicateKeyErr
	NotNullViolationErr
	ForeignKeyViolationErr
	CheckConstraintViolationErr
	DataTruncatedErr
)

func (e SQLError) String() string {
	switch e {
	case NoRowsErr:
		return "no_rows"
	case NoColumnErr:
		return "no_column"
	case NoTableErr:
		return "no_table"
	case ExistTableErr:
		return "exist_table"
	case DuplicateKeyErr:
		return "duplicate_key"
	case NotNullViolationErr:
		return "not_null_violation"
	case ForeignKeyViolationErr:
		return "foreign_key_violation"
	case CheckConstraintViolationErr:
		return "check_constraint_violation"
	case DataTruncatedErr:
		return "data_truncated"
	default:
		return "unknown"
	}
}

// Classify maps a storage error from MySQL, PostgreSQL or SQLite to a
// SQLError. It returns UnknownErr for nil and unrecognized errors.
func Classify(err error) SQLError {
	if err == nil {
		return UnknownErr
	}
	if errors.Is(err, sql.ErrNoRows) {
		return NoRowsErr
	}

	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) {
		switch mysqlErr.Number {
		case 1054:
			return NoColumnErr
		case 1146:
			return NoTableErr
		case 1050:
			return ExistTableErr
		case 1062:
			return DuplicateKeyErr
		case 1048:
			return NotNullViolationErr
		case 1216, 1217, 1451, 1452:
			return ForeignKeyViolationErr
		case 3819:
			return CheckConstraintViolationErr
		case 1265, 1406:
			return DataTruncatedErr
		default:
			return UnknownErr
		}
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case "42703":
			return NoColumnErr
		case "42P01":
			return NoTableErr
		case "42P07":
			return ExistTableErr
		case "23505":
			return DuplicateKeyErr
		case "23502":
			return NotNullViolationErr
		case "23503":
			return ForeignKeyViolationErr
		case "23514":
			return CheckConstraintViolationErr
		case "22001":
			return DataTruncatedErr
		default:
			return UnknownErr
		}
	}

	s := strings.ToLower(err.Error())
	switch {
	case strings.Contains(s, "no such column"):
		return NoColumnErr
	case strings.Contains(s, "no such table"):
		return NoTableErr
	case strings.Contains(s, "already exists") && strings.Contains(s, "table"):
		return ExistTableErr
	case strings.Contains(s, "unique constraint failed"):
		return DuplicateKeyErr
	case strings.Contains(s, "not null constraint failed"):
		return NotNullViolationErr
	case strings.Contains(s, "foreign key constraint failed"):
		return ForeignKeyViolationErr
	case strings.Contains(s, "check constraint failed"):
		return CheckConstraintViolationErr
	}
	return UnknownErr
}

func IsDuplicateKey(err error) bool {
	return Classify(err) == DuplicateKeyErr
}

func IsNotNullViolation(err error) bool {
	return Classify(err) == NotNullViolationErr
}

func IsForeignKeyViolation(err error) bool {
	return Classify(err) == ForeignKeyViolationErr
}
