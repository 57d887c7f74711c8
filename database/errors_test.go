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

package database_test

import (
	"database/sql"
	"errors"
	"fmt"
	"net"
	"testing"

	"github.com/go-sql-driver/mysql"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/tomoncle/gymdesk/database"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want database.Kind
	}{
		{"pq unique", &pq.Error{Code: "23505"}, database.KindConstraint},
		{"pq foreign key", &pq.Error{Code: "23503"}, database.KindConstraint},
		{"pq not null", &pq.Error{Code: "23502"}, database.KindConstraint},
		{"pq check", &pq.Error{Code: "23514"}, database.KindConstraint},
		{"pq syntax", &pq.Error{Code: "42601"}, database.KindStatement},
		{"pq auth", &pq.Error{Code: "28P01"}, database.KindConnectivity},
		{"pq wrapped", fmt.Errorf("insert: %w", &pq.Error{Code: "23505"}), database.KindConstraint},
		{"mysql duplicate", &mysql.MySQLError{Number: 1062}, database.KindConstraint},
		{"mysql fk", &mysql.MySQLError{Number: 1452}, database.KindConstraint},
		{"sqlite unique", errors.New("constraint failed: UNIQUE constraint failed: person.pid (1555)"), database.KindConstraint},
		{"sqlite fk", errors.New("FOREIGN KEY constraint failed"), database.KindConstraint},
		{"sqlite syntax", errors.New(`near "SELEC": syntax error`), database.KindStatement},
		{"no rows", sql.ErrNoRows, database.KindNotFound},
		{"tx done", sql.ErrTxDone, database.KindTransaction},
		{"conn done", sql.ErrConnDone, database.KindConnectivity},
		{"net", &net.OpError{Op: "dial", Err: errors.New("refused")}, database.KindConnectivity},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, database.Classify(tt.err))
		})
	}
}

func TestIsSqlError(t *testing.T) {
	ok, code := database.IsSqlError(&pq.Error{Code: "42703"})
	assert.True(t, ok)
	assert.Equal(t, database.NoColumnErr, code)

	ok, code = database.IsSqlError(errors.New("no such table: widgets"))
	assert.True(t, ok)
	assert.Equal(t, database.NoTableErr, code)

	ok, _ = database.IsSqlError(errors.New("something else"))
	assert.False(t, ok)
}

func TestErrorKindHelpers(t *testing.T) {
	nf := database.NotFound("delete", "worker %d", 7)
	wrapped := fmt.Errorf("handler: %w", nf)

	assert.True(t, database.IsNotFound(wrapped))
	assert.ErrorIs(t, wrapped, database.ErrNotFound)
	assert.Equal(t, database.KindNotFound, database.KindOf(wrapped))
	assert.Contains(t, nf.Error(), "worker 7")
	assert.Contains(t, nf.Error(), "delete")

	ce := database.NewError(database.KindConstraint, "insert", &pq.Error{Code: "23505"})
	assert.True(t, database.IsConstraint(ce))
	assert.False(t, database.IsNotFound(ce))
	assert.Equal(t, database.KindUnknown, database.KindOf(errors.New("plain")))
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "connectivity", database.KindConnectivity.String())
	assert.Equal(t, "not found", database.KindNotFound.String())
	assert.Equal(t, "unknown", database.Kind(99).String())
}
