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

package repository

import (
	"context"
	"database/sql"

	"github.com/tomoncle/gymdesk/database"
	"github.com/tomoncle/gymdesk/models"
	"github.com/uptrace/bun"
)

type baseRepository struct {
	tx *database.TxManager
}

func (r baseRepository) run(ctx context.Context, fn database.TxFunc) error {
	return r.tx.RunInTx(ctx, fn)
}

// all runs a single read statement and scans every row into dest.
func (r baseRepository) all(ctx context.Context, dest interface{}, query string, args ...interface{}) error {
	return r.tx.Execute(ctx, database.FetchAll, dest, query, args...)
}

// one runs a single read statement and reports a missing row as not found.
func (r baseRepository) one(ctx context.Context, what string, dest interface{}, query string, args ...interface{}) error {
	err := r.tx.Execute(ctx, database.FetchOne, dest, query, args...)
	if database.IsNotFound(err) {
		return database.NotFound("get", "%s", what)
	}
	return err
}

// expectAffected turns an update or delete that touched no row into a
// not-found error.
func expectAffected(res sql.Result, op string, format string, args ...interface{}) error {
	n, err := res.RowsAffected()
	if err != nil {
		return database.NewError(database.KindStatement, op, err)
	}
	if n == 0 {
		return database.NotFound(op, format, args...)
	}
	return nil
}

// exists reports whether query, a SELECT COUNT(*), counts at least one row.
func exists(ctx context.Context, ex *database.Executor, query string, args ...interface{}) (bool, error) {
	var n int64
	if err := ex.Fetch(ctx, database.FetchOne, &n, query, args...); err != nil {
		return false, err
	}
	return n > 0, nil
}

const insertPerson = `INSERT INTO person (pid, firstname, lastname, dateofb, address, phone, email)
VALUES (?, ?, ?, ?, ?, ?, ?)`

const updatePerson = `UPDATE person
SET firstname = ?, lastname = ?, dateofb = ?, address = ?, phone = ?, email = ?
WHERE pid = ?`

// ensurePerson inserts p unless a person with the same pid already exists.
// An existing person is left untouched since other roles may share it.
func ensurePerson(ctx context.Context, ex *database.Executor, p *models.Person) (created bool, err error) {
	found, err := exists(ctx, ex, "SELECT COUNT(*) FROM person WHERE pid = ?", p.PID)
	if err != nil || found {
		return false, err
	}
	if _, err := ex.Exec(ctx, insertPerson,
		p.PID, p.FirstName, p.LastName, p.DateOfBirth, p.Address, p.Phone, p.Email); err != nil {
		return false, err
	}
	return true, nil
}

func savePerson(ctx context.Context, ex *database.Executor, pid int64, p *models.Person) error {
	res, err := ex.Exec(ctx, updatePerson,
		p.FirstName, p.LastName, p.DateOfBirth, p.Address, p.Phone, p.Email, pid)
	if err != nil {
		return err
	}
	return expectAffected(res, "update", "person %d", pid)
}

// deleteRole removes the supply rows of pid and then its role row. The
// person row is kept.
func deleteRole(ctx context.Context, ex *database.Executor, table string, pid int64) error {
	found, err := exists(ctx, ex, "SELECT COUNT(*) FROM ? WHERE pid = ?", bun.Ident(table), pid)
	if err != nil {
		return err
	}
	if !found {
		return database.NotFound("delete", "%s %d", table, pid)
	}
	if _, err := ex.Exec(ctx, "DELETE FROM equipment_supplier WHERE pid = ?", pid); err != nil {
		return err
	}
	res, err := ex.Exec(ctx, "DELETE FROM ? WHERE pid = ?", bun.Ident(table), pid)
	if err != nil {
		return err
	}
	return expectAffected(res, "delete", "%s %d", table, pid)
}
