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

	"github.com/tomoncle/gymdesk/database"
	"github.com/tomoncle/gymdesk/models"
)

type personRepository struct {
	baseRepository
}

func NewPersonRepository(tx *database.TxManager) PersonRepository {
	return &personRepository{baseRepository{tx: tx}}
}

func (r *personRepository) List(ctx context.Context) ([]models.Person, error) {
	var people []models.Person
	err := r.all(ctx, &people, `SELECT pid, firstname, lastname, dateofb, address, phone, email
FROM person ORDER BY pid`)
	return people, err
}

func (r *personRepository) Exists(ctx context.Context, pid int64) (bool, error) {
	var found bool
	err := r.run(ctx, func(ctx context.Context, ex *database.Executor) (err error) {
		found, err = exists(ctx, ex, "SELECT COUNT(*) FROM person WHERE pid = ?", pid)
		return err
	})
	return found, err
}

// NextPID suggests the next free person id.
func (r *personRepository) NextPID(ctx context.Context) (int64, error) {
	var next int64
	err := r.tx.Execute(ctx, database.FetchOne, &next, "SELECT COALESCE(MAX(pid), 0) + 1 FROM person")
	return next, err
}
