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
	"bytes"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"reflect"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/feature"
)

type fetchKind int

const (
	fetchNone fetchKind = iota
	fetchOne
	fetchAll
	fetchMany
)

// FetchMode selects how many rows Fetch reads back.
type FetchMode struct {
	kind fetchKind
	n    int
}

var (
	FetchNone = FetchMode{kind: fetchNone}
	FetchOne  = FetchMode{kind: fetchOne}
	FetchAll  = FetchMode{kind: fetchAll}
)

// FetchMany reads at most n rows. n < 1 is treated as 1.
func FetchMany(n int) FetchMode {
	if n < 1 {
		n = 1
	}
	return FetchMode{kind: fetchMany, n: n}
}

func (m FetchMode) String() string {
	switch m.kind {
	case fetchOne:
		return "one"
	case fetchAll:
		return "all"
	case fetchMany:
		return fmt.Sprintf("many(%d)", m.n)
	default:
		return "none"
	}
}

// Executor runs statements inside the transaction opened by RunInTx.
//
// Values are always passed as arguments and formatted by bun with
// dialect-aware quoting; '?' is a positional placeholder. Identifiers that
// come from the server, such as cursor names, are passed as bun.Ident.
//
// The first failing statement rolls the transaction back before its error
// is returned. Every later call fails with ErrTxAborted.
type Executor struct {
	db          *bun.DB
	tx          bun.Tx
	logger      Logger
	finished    bool
	rolledBack  bool
	rollbackErr error
}

// HasFeature reports whether the connected dialect supports f.
func (e *Executor) HasFeature(f feature.Feature) bool {
	return e.tx.Dialect().Features().Has(f)
}

// Exec runs a statement that returns no rows.
func (e *Executor) Exec(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	if err := e.usable("exec"); err != nil {
		return nil, err
	}
	res, err := e.tx.ExecContext(ctx, query, args...)
	if err != nil {
		return nil, e.fail("exec", query, err)
	}
	return res, nil
}

// Fetch runs query and scans the result into dest according to mode.
//
// dest follows bun's scanning rules: a pointer to a struct or scalar for
// FetchOne, a pointer to a slice for FetchAll and FetchMany. FetchMany
// stops reading once it has n rows. FetchOne returns ErrNoRows, without
// rolling back, when the query yields nothing.
func (e *Executor) Fetch(ctx context.Context, mode FetchMode, dest interface{}, query string, args ...interface{}) error {
	if mode.kind == fetchNone {
		_, err := e.Exec(ctx, query, args...)
		return err
	}
	if err := e.usable("fetch"); err != nil {
		return err
	}
	if mode.kind == fetchMany {
		return e.fetchRows(ctx, mode.n, dest, query, args...)
	}

	err := e.tx.NewRaw(query, args...).Scan(ctx, dest)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) && mode.kind == fetchOne {
			return NewError(KindNotFound, "fetch", ErrNoRows)
		}
		return e.fail("fetch", query, err)
	}
	return nil
}

// fetchRows scans at most n rows into the slice dest points to.
func (e *Executor) fetchRows(ctx context.Context, n int, dest interface{}, query string, args ...interface{}) error {
	slice := reflect.ValueOf(dest)
	if slice.Kind() != reflect.Ptr || slice.IsNil() || slice.Elem().Kind() != reflect.Slice {
		return NewError(KindStatement, "fetch", fmt.Errorf("fetch many needs a pointer to a slice, got %T", dest))
	}
	slice = slice.Elem()

	rows, err := e.tx.QueryContext(ctx, query, args...)
	if err != nil {
		return e.fail("fetch", query, err)
	}
	out := reflect.MakeSlice(slice.Type(), 0, n)
	for out.Len() < n && rows.Next() {
		elem, err := e.scanRow(ctx, rows, slice.Type().Elem())
		if err != nil {
			_ = rows.Close()
			return e.fail("fetch", query, err)
		}
		out = reflect.Append(out, elem)
	}
	if err := rows.Err(); err != nil {
		_ = rows.Close()
		return e.fail("fetch", query, err)
	}
	if err := rows.Close(); err != nil {
		return e.fail("fetch", query, err)
	}
	slice.Set(out)
	return nil
}

func (e *Executor) scanRow(ctx context.Context, rows *sql.Rows, typ reflect.Type) (reflect.Value, error) {
	base := typ
	if typ.Kind() == reflect.Ptr {
		base = typ.Elem()
	}

	if base.Kind() == reflect.Map {
		if base != mapRowType {
			return reflect.Value{}, fmt.Errorf("fetch many: unsupported map type %s", base)
		}
		m, err := scanMap(rows)
		if err != nil {
			return reflect.Value{}, err
		}
		if typ.Kind() == reflect.Ptr {
			return reflect.ValueOf(&m), nil
		}
		return reflect.ValueOf(m), nil
	}

	v := reflect.New(base)
	if err := e.db.ScanRow(ctx, rows, v.Interface()); err != nil {
		return reflect.Value{}, err
	}
	if typ.Kind() == reflect.Ptr {
		return v, nil
	}
	return v.Elem(), nil
}

var mapRowType = reflect.TypeOf(map[string]interface{}(nil))

// scanMap reads the current row keyed by column name. Byte values are
// copied since the driver may reuse them on the next row.
func scanMap(rows *sql.Rows) (map[string]interface{}, error) {
	cols, err := rows.ColumnTypes()
	if err != nil {
		return nil, err
	}
	vals := make([]interface{}, len(cols))
	ptrs := make([]interface{}, len(cols))
	for i := range vals {
		ptrs[i] = &vals[i]
	}
	if err := rows.Scan(ptrs...); err != nil {
		return nil, err
	}

	m := make(map[string]interface{}, len(cols))
	for i, col := range cols {
		v := vals[i]
		if b, ok := v.([]byte); ok {
			if st := col.ScanType(); st != nil && st.Kind() == reflect.String {
				v = string(b)
			} else {
				v = bytes.Clone(b)
			}
		}
		m[col.Name()] = v
	}
	return m, nil
}

// FetchCursor calls a function returning a ref cursor and materializes all
// of the cursor's rows into dest. Both statements run in the current
// transaction, which a cursor requires.
func (e *Executor) FetchCursor(ctx context.Context, dest interface{}, call string, args ...interface{}) error {
	var cursor string
	if err := e.Fetch(ctx, FetchOne, &cursor, call, args...); err != nil {
		return err
	}
	if cursor == "" {
		return e.fail("fetch cursor", call, errors.New("function returned an empty cursor name"))
	}
	return e.Fetch(ctx, FetchAll, dest, "FETCH ALL IN ?", bun.Ident(cursor))
}

func (e *Executor) usable(op string) error {
	if e.rolledBack {
		return NewError(KindTransaction, op, ErrTxAborted)
	}
	if e.finished {
		return NewError(KindTransaction, op, sql.ErrTxDone)
	}
	return nil
}

// fail rolls back immediately and returns the classified statement error.
func (e *Executor) fail(op, query string, err error) error {
	kind := Classify(err)
	e.logger.Error("Statement failed, rolling back", "op", op, "kind", kind, "query", query, "error", err)
	if rbErr := e.rollback(); rbErr != nil {
		e.logger.Error("Rollback failed", "op", op, "error", rbErr)
		return NewError(KindConnectivity, op, errors.Join(err, ErrRollbackFailed, rbErr))
	}
	return NewError(kind, op, err)
}

// rollback issues at most one rollback per transaction. Later calls report
// the outcome of that first attempt.
func (e *Executor) rollback() error {
	if e.finished {
		return e.rollbackErr
	}
	e.finished = true
	e.rolledBack = true
	if err := e.tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
		e.rollbackErr = err
	}
	return e.rollbackErr
}

func (e *Executor) commit() error {
	if e.finished {
		return sql.ErrTxDone
	}
	e.finished = true
	return e.tx.Commit()
}
