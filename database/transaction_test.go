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
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tomoncle/gymdesk/database"
	"github.com/tomoncle/gymdesk/internal/testdb"
)

const insertPerson = "INSERT INTO person (pid, firstname, lastname) VALUES (?, ?, ?)"

func TestRunInTxCommits(t *testing.T) {
	tx := testdb.Open(t)
	ctx := context.Background()

	err := tx.RunInTx(ctx, func(ctx context.Context, ex *database.Executor) error {
		_, err := ex.Exec(ctx, insertPerson, 1, "Dana", "Levi")
		return err
	})
	require.NoError(t, err)
	assert.Equal(t, database.TxCommitted, tx.State())
	assert.EqualValues(t, 1, testdb.Count(t, tx, "person", ""))
}

func TestRunInTxRollsBackOnCallbackError(t *testing.T) {
	tx := testdb.Open(t)
	ctx := context.Background()
	boom := errors.New("boom")

	err := tx.RunInTx(ctx, func(ctx context.Context, ex *database.Executor) error {
		if _, err := ex.Exec(ctx, insertPerson, 1, "Dana", "Levi"); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)
	assert.Equal(t, database.TxRolledBack, tx.State())
	assert.Zero(t, testdb.Count(t, tx, "person", ""))
}

func TestFailedSecondStatementLeavesNothing(t *testing.T) {
	tx := testdb.Open(t)
	ctx := context.Background()

	err := tx.RunInTx(ctx, func(ctx context.Context, ex *database.Executor) error {
		if _, err := ex.Exec(ctx, insertPerson, 501, "Noa", "Cohen"); err != nil {
			return err
		}
		// pid 999 has no person row
		_, err := ex.Exec(ctx, "INSERT INTO worker (pid, job) VALUES (?, ?)", 999, "Trainer")
		return err
	})
	require.Error(t, err)
	assert.Equal(t, database.KindConstraint, database.KindOf(err))
	assert.Equal(t, database.TxRolledBack, tx.State())
	assert.Zero(t, testdb.Count(t, tx, "person", ""))
	assert.Zero(t, testdb.Count(t, tx, "worker", ""))
}

func TestExecutorRefusesWorkAfterFailure(t *testing.T) {
	tx := testdb.Open(t)
	ctx := context.Background()

	var second error
	err := tx.RunInTx(ctx, func(ctx context.Context, ex *database.Executor) error {
		_, _ = ex.Exec(ctx, "INSERT INTO no_such_table VALUES (1)")
		_, second = ex.Exec(ctx, insertPerson, 1, "Dana", "Levi")
		return nil
	})
	require.ErrorIs(t, second, database.ErrTxAborted)
	require.ErrorIs(t, err, database.ErrTxAborted)
	assert.Equal(t, database.KindTransaction, database.KindOf(err))
	assert.Zero(t, testdb.Count(t, tx, "person", ""))
}

func TestRunInTxRejectsReentry(t *testing.T) {
	tx := testdb.Open(t)
	ctx := context.Background()

	var inner error
	err := tx.RunInTx(ctx, func(ctx context.Context, ex *database.Executor) error {
		inner = tx.RunInTx(ctx, func(ctx context.Context, ex *database.Executor) error {
			return nil
		})
		return nil
	})
	require.NoError(t, err)
	require.ErrorIs(t, inner, database.ErrTxInProgress)
}

func TestRunInTxRollsBackAndRepanics(t *testing.T) {
	tx := testdb.Open(t)
	ctx := context.Background()

	assert.PanicsWithValue(t, "kaboom", func() {
		_ = tx.RunInTx(ctx, func(ctx context.Context, ex *database.Executor) error {
			if _, err := ex.Exec(ctx, insertPerson, 1, "Dana", "Levi"); err != nil {
				return err
			}
			panic("kaboom")
		})
	})
	assert.Equal(t, database.TxRolledBack, tx.State())
	assert.Zero(t, testdb.Count(t, tx, "person", ""))

	// the connection is usable again
	require.NoError(t, tx.Execute(ctx, database.FetchNone, nil, insertPerson, 2, "Omer", "Katz"))
	assert.EqualValues(t, 1, testdb.Count(t, tx, "person", ""))
}

func TestStateTracksUnit(t *testing.T) {
	tx := testdb.Open(t)
	ctx := context.Background()
	assert.Equal(t, database.TxIdle, tx.State())

	require.NoError(t, tx.RunInTx(ctx, func(ctx context.Context, ex *database.Executor) error {
		assert.Equal(t, database.TxRunning, tx.State())
		return nil
	}))
	assert.Equal(t, database.TxCommitted, tx.State())

	_ = tx.RunInTx(ctx, func(ctx context.Context, ex *database.Executor) error {
		assert.Equal(t, database.TxRunning, tx.State())
		return errors.New("stop")
	})
	assert.Equal(t, database.TxRolledBack, tx.State())
}

func TestCommitFailureRollsBack(t *testing.T) {
	tx := testdb.Open(t)
	ctx := context.Background()

	// the dangling worker row is only rejected at COMMIT
	err := tx.RunInTx(ctx, func(ctx context.Context, ex *database.Executor) error {
		if _, err := ex.Exec(ctx, "PRAGMA defer_foreign_keys = ON"); err != nil {
			return err
		}
		_, err := ex.Exec(ctx, "INSERT INTO worker (pid, job) VALUES (?, ?)", 999, "x")
		return err
	})
	require.ErrorIs(t, err, database.ErrCommitFailed)
	assert.NotErrorIs(t, err, database.ErrRollbackFailed)
	assert.Equal(t, database.KindTransaction, database.KindOf(err))
	assert.Equal(t, database.TxRolledBack, tx.State())
	assert.Zero(t, testdb.Count(t, tx, "worker", ""))

	// no transaction was left open on the connection
	require.NoError(t, tx.RunInTx(ctx, func(ctx context.Context, ex *database.Executor) error {
		_, err := ex.Exec(ctx, insertPerson, 1, "Dana", "Levi")
		return err
	}))
	assert.Equal(t, database.TxCommitted, tx.State())
	assert.EqualValues(t, 1, testdb.Count(t, tx, "person", ""))
}

func TestCommitFailureWithoutOpenTransaction(t *testing.T) {
	tx := testdb.Open(t)
	ctx := context.Background()

	err := tx.RunInTx(ctx, func(ctx context.Context, ex *database.Executor) error {
		_, err := ex.Exec(ctx, "ROLLBACK")
		return err
	})
	require.ErrorIs(t, err, database.ErrCommitFailed)
	assert.NotErrorIs(t, err, database.ErrRollbackFailed)
	assert.Equal(t, database.TxRolledBack, tx.State())
}

func TestRollbackFailureIsReported(t *testing.T) {
	tx := testdb.Open(t)
	ctx := context.Background()
	boom := errors.New("boom")

	err := tx.RunInTx(ctx, func(ctx context.Context, ex *database.Executor) error {
		if _, err := ex.Exec(ctx, "ROLLBACK"); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, database.ErrRollbackFailed)
	require.ErrorIs(t, err, boom)
	assert.Equal(t, database.KindConnectivity, database.KindOf(err))
	assert.Equal(t, database.TxUncertain, tx.State())
	assert.Equal(t, "uncertain", tx.State().String())

	require.NoError(t, tx.Execute(ctx, database.FetchNone, nil, insertPerson, 1, "Dana", "Levi"))
	assert.Equal(t, database.TxCommitted, tx.State())
}

func TestRunInTxWithoutConnection(t *testing.T) {
	tx := database.NewTxManager(database.NewManager(&database.ConnectionConfig{Type: "sqlite", DBName: ":memory:"}))

	err := tx.RunInTx(context.Background(), func(ctx context.Context, ex *database.Executor) error {
		t.Fatal("callback must not run")
		return nil
	})
	require.ErrorIs(t, err, database.ErrNotConnected)
	assert.Equal(t, database.KindConnectivity, database.KindOf(err))
}

func TestFetchModes(t *testing.T) {
	tx := testdb.Open(t)
	ctx := context.Background()

	require.NoError(t, tx.RunInTx(ctx, func(ctx context.Context, ex *database.Executor) error {
		for i, name := range []string{"Dana", "Omer", "Yael"} {
			if _, err := ex.Exec(ctx, insertPerson, i+1, name, "Test"); err != nil {
				return err
			}
		}
		return nil
	}))

	type row struct {
		PID       int64  `bun:"pid"`
		FirstName string `bun:"firstname"`
	}
	const query = "SELECT pid, firstname FROM person ORDER BY pid"

	var all []row
	require.NoError(t, tx.Execute(ctx, database.FetchAll, &all, query))
	assert.Len(t, all, 3)

	var some []row
	require.NoError(t, tx.Execute(ctx, database.FetchMany(2), &some, query))
	require.Len(t, some, 2)
	assert.Equal(t, "Omer", some[1].FirstName)

	var one row
	require.NoError(t, tx.Execute(ctx, database.FetchOne, &one, "SELECT pid, firstname FROM person WHERE pid = ?", 3))
	assert.Equal(t, "Yael", one.FirstName)

	var maps []map[string]interface{}
	require.NoError(t, tx.Execute(ctx, database.FetchAll, &maps, query))
	assert.Len(t, maps, 3)

	var firstMaps []map[string]interface{}
	require.NoError(t, tx.Execute(ctx, database.FetchMany(2), &firstMaps, query))
	require.Len(t, firstMaps, 2)
	assert.EqualValues(t, 1, firstMaps[0]["pid"])
	assert.Equal(t, "Omer", firstMaps[1]["firstname"])

	var ptrs []*row
	require.NoError(t, tx.Execute(ctx, database.FetchMany(5), &ptrs, query))
	require.Len(t, ptrs, 3)
	assert.Equal(t, "Yael", ptrs[2].FirstName)

	var pids []int64
	require.NoError(t, tx.Execute(ctx, database.FetchMany(1), &pids, "SELECT pid FROM person ORDER BY pid DESC"))
	assert.Equal(t, []int64{3}, pids)

	err := tx.Execute(ctx, database.FetchOne, &one, "SELECT pid, firstname FROM person WHERE pid = ?", 42)
	require.ErrorIs(t, err, database.ErrNoRows)
	assert.True(t, database.IsNotFound(err))
}

func TestParametersAreNotInterpolated(t *testing.T) {
	tx := testdb.Open(t)
	ctx := context.Background()

	hostile := "x'); DROP TABLE person; --"
	require.NoError(t, tx.Execute(ctx, database.FetchNone, nil, insertPerson, 7, hostile, "Test"))

	var name string
	require.NoError(t, tx.Execute(ctx, database.FetchOne, &name, "SELECT firstname FROM person WHERE pid = ?", 7))
	assert.Equal(t, hostile, name)
	assert.EqualValues(t, 1, testdb.Count(t, tx, "person", ""))
}

func TestFetchModeString(t *testing.T) {
	assert.Equal(t, "none", database.FetchNone.String())
	assert.Equal(t, "one", database.FetchOne.String())
	assert.Equal(t, "all", database.FetchAll.String())
	assert.Equal(t, "many(5)", database.FetchMany(5).String())
	assert.Equal(t, "many(1)", database.FetchMany(0).String())
}
