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

// Package testdb opens throwaway in-memory SQLite databases carrying the
// gym tables.
package testdb

import (
	"context"
	"embed"
	"io/fs"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/tomoncle/gymdesk/database"
)

//go:embed schema/*.sql
var schemaFS embed.FS

// Schema returns the embedded schema scripts.
func Schema() fs.FS {
	sub, err := fs.Sub(schemaFS, "schema")
	if err != nil {
		panic(err)
	}
	return sub
}

// Open connects a fresh in-memory database, creates the tables and closes
// it when the test ends.
func Open(t testing.TB) *database.TxManager {
	t.Helper()
	ctx := context.Background()

	manager := database.NewManager(&database.ConnectionConfig{
		Type:           "sqlite",
		DBName:         ":memory:",
		ConnectTimeout: 5 * time.Second,
	})
	require.NoError(t, manager.Connect(ctx))
	t.Cleanup(func() { _ = manager.Disconnect() })

	tx := database.NewTxManager(manager)
	_, err := database.NewScriptRunner(tx, Schema(), "").Run(ctx)
	require.NoError(t, err)
	return tx
}

// Count returns the number of rows of table matching where.
func Count(t testing.TB, tx *database.TxManager, table, where string, args ...interface{}) int64 {
	t.Helper()
	var n int64
	query := "SELECT COUNT(*) FROM " + table
	if where != "" {
		query += " WHERE " + where
	}
	require.NoError(t, tx.Execute(context.Background(), database.FetchOne, &n, query, args...))
	return n
}
