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
	"bytes"
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/tomoncle/gymdesk/database"
	"github.com/uptrace/bun"
)

func TestStatementHookReportsFailures(t *testing.T) {
	var buf bytes.Buffer
	hook := database.NewStatementHook(0, nil).WithWriter(&buf)

	hook.AfterQuery(context.Background(), &bun.QueryEvent{
		Query:     "INSERT INTO person (pid) VALUES (1)",
		StartTime: time.Now(),
		Err:       errors.New("UNIQUE constraint failed: person.pid"),
	})
	assert.Contains(t, buf.String(), "FAILED")
	assert.Contains(t, buf.String(), "INSERT INTO person")
}

func TestStatementHookReportsSlowStatements(t *testing.T) {
	var buf bytes.Buffer
	hook := database.NewStatementHook(time.Millisecond, nil).WithWriter(&buf)

	hook.AfterQuery(context.Background(), &bun.QueryEvent{
		Query:     "SELECT * FROM equipment",
		StartTime: time.Now().Add(-time.Second),
	})
	assert.Contains(t, buf.String(), "[SLOW]")
}

func TestStatementHookIgnoresNoRows(t *testing.T) {
	var buf bytes.Buffer
	hook := database.NewStatementHook(time.Hour, nil).WithWriter(&buf)

	hook.AfterQuery(context.Background(), &bun.QueryEvent{
		Query:     "SELECT * FROM worker WHERE pid = 1",
		StartTime: time.Now(),
		Err:       sql.ErrNoRows,
	})
	assert.Empty(t, buf.String())
}
