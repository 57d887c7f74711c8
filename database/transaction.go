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
	"errors"
	"strings"
	"sync/atomic"
	"time"

	"github.com/uptrace/bun"
)

// rollbackTimeout bounds the plain ROLLBACK sent after a failed commit.
const rollbackTimeout = 5 * time.Second

// TxState is the state of the most recent unit of work on a TxManager.
type TxState int32

const (
	TxIdle TxState = iota
	TxRunning
	TxCommitted
	TxRolledBack
	// TxUncertain means a rollback could not be confirmed; the connection
	// may still hold an open transaction.
	TxUncertain
)

func (s TxState) String() string {
	switch s {
	case TxRunning:
		return "running"
	case TxCommitted:
		return "committed"
	case TxRolledBack:
		return "rolled_back"
	case TxUncertain:
		return "uncertain"
	default:
		return "idle"
	}
}

// TxFunc is a unit of work. Returning an error rolls it back.
type TxFunc func(ctx context.Context, ex *Executor) error

// TxManager groups statements into atomic units on the managed connection.
// Units never nest and never overlap: a call made while another unit is
// running fails with ErrTxInProgress instead of interleaving statements.
type TxManager struct {
	manager *Manager
	logger  Logger
	busy    atomic.Bool
	state   atomic.Int32
}

func NewTxManager(manager *Manager) *TxManager {
	return &TxManager{manager: manager, logger: manager.logger}
}

func (t *TxManager) Manager() *Manager {
	return t.manager
}

// State is TxRunning while a unit is in flight and the outcome of the most
// recent unit otherwise; TxIdle only before the first unit.
func (t *TxManager) State() TxState {
	return TxState(t.state.Load())
}

// RunInTx begins a transaction, runs fn, then commits exactly once on
// success or rolls back exactly once on error or panic. A panic is
// re-raised after the rollback.
func (t *TxManager) RunInTx(ctx context.Context, fn TxFunc) (err error) {
	if !t.busy.CompareAndSwap(false, true) {
		return NewError(KindTransaction, "begin", ErrTxInProgress)
	}
	defer t.busy.Store(false)

	db := t.manager.DB()
	if db == nil {
		return NewError(KindConnectivity, "begin", ErrNotConnected)
	}

	// The unit keeps its own connection so that a failed commit can still
	// be rolled back on it.
	conn, err := db.Conn(ctx)
	if err != nil {
		return t.beginFailed(err)
	}
	defer conn.Close()

	tx, err := conn.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return t.beginFailed(err)
	}
	t.state.Store(int32(TxRunning))

	ex := &Executor{db: db, tx: tx, logger: t.logger}
	defer func() {
		if p := recover(); p != nil {
			if rbErr := ex.rollback(); rbErr != nil {
				t.logger.Error("Rollback after panic failed", "error", rbErr)
				t.state.Store(int32(TxUncertain))
			} else {
				t.state.Store(int32(TxRolledBack))
			}
			panic(p)
		}
	}()

	if err = fn(ctx, ex); err != nil {
		if rbErr := ex.rollback(); rbErr != nil {
			t.state.Store(int32(TxUncertain))
			if errors.Is(err, ErrRollbackFailed) {
				return err
			}
			t.logger.Error("Rollback failed", "error", rbErr, "cause", err)
			return NewError(KindConnectivity, "rollback", errors.Join(ErrRollbackFailed, rbErr, err))
		}
		t.state.Store(int32(TxRolledBack))
		return err
	}

	if ex.rolledBack {
		// fn swallowed a statement error
		if ex.rollbackErr != nil {
			t.state.Store(int32(TxUncertain))
			return NewError(KindConnectivity, "rollback", errors.Join(ErrRollbackFailed, ex.rollbackErr))
		}
		t.state.Store(int32(TxRolledBack))
		return NewError(KindTransaction, "commit", ErrTxAborted)
	}

	if cErr := ex.commit(); cErr != nil {
		t.logger.Error("Commit failed", "error", cErr)
		if rbErr := rollbackConn(conn); rbErr != nil {
			t.logger.Error("Rollback after failed commit failed", "error", rbErr)
			t.state.Store(int32(TxUncertain))
			return NewError(KindConnectivity, "commit", errors.Join(ErrCommitFailed, cErr, ErrRollbackFailed, rbErr))
		}
		t.state.Store(int32(TxRolledBack))
		return NewError(KindTransaction, "commit", errors.Join(ErrCommitFailed, cErr))
	}
	t.state.Store(int32(TxCommitted))
	return nil
}

func (t *TxManager) beginFailed(err error) error {
	t.logger.Error("Failed to begin transaction", "error", err)
	kind := Classify(err)
	if kind == KindStatement || kind == KindUnknown {
		kind = KindTransaction
	}
	return NewError(kind, "begin", err)
}

// rollbackConn ends whatever a failed COMMIT left open on conn. database/sql
// treats the transaction as finished once Commit returns, so the rollback
// goes out as a plain statement. PostgreSQL and MySQL answer a ROLLBACK
// without a transaction with a warning, SQLite with "no transaction is
// active"; either confirms the connection is clean.
func rollbackConn(conn bun.Conn) error {
	ctx, cancel := context.WithTimeout(context.Background(), rollbackTimeout)
	defer cancel()
	_, err := conn.ExecContext(ctx, "ROLLBACK")
	if err != nil && strings.Contains(strings.ToLower(err.Error()), "no transaction is active") {
		return nil
	}
	return err
}

// Execute runs a single statement as its own unit of work.
func (t *TxManager) Execute(ctx context.Context, mode FetchMode, dest interface{}, query string, args ...interface{}) error {
	return t.RunInTx(ctx, func(ctx context.Context, ex *Executor) error {
		return ex.Fetch(ctx, mode, dest, query, args...)
	})
}
