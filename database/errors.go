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
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"net"
	"strings"

	"github.com/go-sql-driver/mysql"
	"github.com/lib/pq"
)

// Kind groups failures by how a caller is expected to react to them.
type Kind int

const (
	KindUnknown Kind = iota
	// KindConnectivity: the connection cannot be opened or used.
	KindConnectivity
	// KindStatement: malformed statement, type mismatch and similar.
	KindStatement
	// KindConstraint: duplicate key, foreign key, not null or check violation.
	KindConstraint
	// KindNotFound: the target row of an update or delete does not exist.
	KindNotFound
	// KindTransaction: commit or rollback failed, connection state is uncertain.
	KindTransaction
)

func (k Kind) String() string {
	switch k {
	case KindConnectivity:
		return "connectivity"
	case KindStatement:
		return "statement"
	case KindConstraint:
		return "constraint"
	case KindNotFound:
		return "not found"
	case KindTransaction:
		return "transaction"
	default:
		return "unknown"
	}
}

var (
	ErrNoRows         = sql.ErrNoRows
	ErrNotFound       = errors.New("record not found")
	ErrTxInProgress   = errors.New("transaction already in progress on this connection")
	ErrTxAborted      = errors.New("transaction was rolled back by a failed statement")
	ErrCommitFailed   = errors.New("commit failed")
	ErrRollbackFailed = errors.New("rollback failed")
)

// Error is the error type returned by the manager, executor and
// transaction coordinator.
type Error struct {
	Kind Kind
	Op   string
	Err  error
}

// NewError wraps err with a kind and the name of the failed operation.
func NewError(kind Kind, op string, err error) *Error {
	return &Error{Kind: kind, Op: op, Err: err}
}

// NotFound builds a KindNotFound error describing the missing target.
func NotFound(op string, format string, args ...interface{}) *Error {
	return &Error{Kind: KindNotFound, Op: op, Err: fmt.Errorf("%w: %s", ErrNotFound, fmt.Sprintf(format, args...))}
}

func (e *Error) Error() string {
	if e.Op == "" {
		return fmt.Sprintf("%s error: %v", e.Kind, e.Err)
	}
	return fmt.Sprintf("%s: %s error: %v", e.Op, e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// KindOf returns the Kind of the first *Error in err's chain.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

func IsNotFound(err error) bool {
	return KindOf(err) == KindNotFound || errors.Is(err, ErrNotFound)
}

func IsConstraint(err error) bool {
	return KindOf(err) == KindConstraint
}

// Classify maps a driver error onto a Kind.
func Classify(err error) Kind {
	if err == nil {
		return KindUnknown
	}
	if errors.Is(err, sql.ErrNoRows) {
		return KindNotFound
	}
	if errors.Is(err, sql.ErrTxDone) {
		return KindTransaction
	}
	if errors.Is(err, driver.ErrBadConn) || errors.Is(err, sql.ErrConnDone) ||
		errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return KindConnectivity
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return KindConnectivity
	}
	if ok, sqlErr := IsSqlError(err); ok {
		switch sqlErr {
		case DuplicateKeyErr, NotNullViolationErr, ForeignKeyViolationErr, CheckConstraintViolationErr:
			return KindConstraint
		case ConnectionErr:
			return KindConnectivity
		}
	}
	return KindStatement
}

type SQLError int

const (
	UnknownErr SQLError = iota
	NoRowsErr
	NoColumnErr
	NoTableErr
	DuplicateKeyErr
	NotNullViolationErr
	ForeignKeyViolationErr
	CheckConstraintViolationErr
	DataTruncatedErr
	InvalidTypeCastErr
	ConnectionErr
)

// IsSqlError reports whether err came from the database driver and, if so,
// which SQLError it corresponds to.
func IsSqlError(err error) (is bool, sqlErr SQLError) {
	if errors.Is(err, sql.ErrNoRows) {
		return true, NoRowsErr
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case "23505":
			return true, DuplicateKeyErr
		case "23502":
			return true, NotNullViolationErr
		case "23503":
			return true, ForeignKeyViolationErr
		case "23514":
			return true, CheckConstraintViolationErr
		case "22001":
			return true, DataTruncatedErr
		case "42804", "22P02", "22007", "22008":
			return true, InvalidTypeCastErr
		case "42703":
			return true, NoColumnErr
		case "42P01":
			return true, NoTableErr
		}
		switch pqErr.Code.Class() {
		case "08", "28", "3D", "57":
			return true, ConnectionErr
		}
		return true, UnknownErr
	}
	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) {
		switch mysqlErr.Number {
		case 1054:
			return true, NoColumnErr
		case 1146:
			return true, NoTableErr
		case 1062:
			return true, DuplicateKeyErr
		case 1048:
			return true, NotNullViolationErr
		case 1216, 1217, 1451, 1452:
			return true, ForeignKeyViolationErr
		case 3819:
			return true, CheckConstraintViolationErr
		case 1265, 1406:
			return true, DataTruncatedErr
		case 1045, 1049:
			return true, ConnectionErr
		default:
			return true, UnknownErr
		}
	}
	s := strings.ToLower(err.Error())
	switch {
	case strings.Contains(s, "no such column"):
		return true, NoColumnErr
	case strings.Contains(s, "no such table"):
		return true, NoTableErr
	case strings.Contains(s, "unique constraint failed"):
		return true, DuplicateKeyErr
	case strings.Contains(s, "not null constraint failed"):
		return true, NotNullViolationErr
	case strings.Contains(s, "foreign key constraint failed"):
		return true, ForeignKeyViolationErr
	case strings.Contains(s, "check constraint failed"):
		return true, CheckConstraintViolationErr
	case strings.Contains(s, "datatype mismatch"):
		return true, InvalidTypeCastErr
	}
	return false, UnknownErr
}
