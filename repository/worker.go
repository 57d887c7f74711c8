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

const selectWorkers = `SELECT p.pid, p.firstname, p.lastname, p.dateofb, p.address, p.phone, p.email,
       w.job, w.contract, w.dateofeployment
FROM worker w
JOIN person p ON p.pid = w.pid`

type workerRepository struct {
	baseRepository
}

func NewWorkerRepository(tx *database.TxManager) WorkerRepository {
	return &workerRepository{baseRepository{tx: tx}}
}

func (r *workerRepository) List(ctx context.Context) ([]models.Worker, error) {
	var workers []models.Worker
	err := r.all(ctx, &workers, selectWorkers+" ORDER BY p.pid")
	return workers, err
}

func (r *workerRepository) Get(ctx context.Context, pid int64) (*models.Worker, error) {
	var w models.Worker
	if err := r.one(ctx, "worker", &w, selectWorkers+" WHERE w.pid = ?", pid); err != nil {
		return nil, err
	}
	return &w, nil
}

// Add inserts the person row when the pid is new, then the worker row, in
// one transaction.
func (r *workerRepository) Add(ctx context.Context, worker *models.Worker) error {
	if err := models.Validate(worker); err != nil {
		return err
	}
	return r.run(ctx, func(ctx context.Context, ex *database.Executor) error {
		if _, err := ensurePerson(ctx, ex, &worker.Person); err != nil {
			return err
		}
		_, err := ex.Exec(ctx, `INSERT INTO worker (pid, job, contract, dateofeployment) VALUES (?, ?, ?, ?)`,
			worker.PID, worker.Job, worker.Contract, worker.EmployedOn)
		return err
	})
}

// Update replaces the worker and person columns of pid. The pid itself is
// not changed.
func (r *workerRepository) Update(ctx context.Context, pid int64, worker *models.Worker) error {
	worker.PID = pid
	if err := models.Validate(worker); err != nil {
		return err
	}
	return r.run(ctx, func(ctx context.Context, ex *database.Executor) error {
		res, err := ex.Exec(ctx, `UPDATE worker SET job = ?, contract = ?, dateofeployment = ? WHERE pid = ?`,
			worker.Job, worker.Contract, worker.EmployedOn, pid)
		if err != nil {
			return err
		}
		if err := expectAffected(res, "update", "worker %d", pid); err != nil {
			return err
		}
		return savePerson(ctx, ex, pid, &worker.Person)
	})
}

func (r *workerRepository) Delete(ctx context.Context, pid int64) error {
	return r.run(ctx, func(ctx context.Context, ex *database.Executor) error {
		return deleteRole(ctx, ex, "worker", pid)
	})
}
