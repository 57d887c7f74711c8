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

const selectSuppliers = `SELECT p.pid, p.firstname, p.lastname, p.dateofb, p.address, p.phone, p.email
FROM supplier s
JOIN person p ON p.pid = s.pid`

type supplierRepository struct {
	baseRepository
}

func NewSupplierRepository(tx *database.TxManager) SupplierRepository {
	return &supplierRepository{baseRepository{tx: tx}}
}

func (r *supplierRepository) List(ctx context.Context) ([]models.Supplier, error) {
	var suppliers []models.Supplier
	err := r.all(ctx, &suppliers, selectSuppliers+" ORDER BY s.pid")
	return suppliers, err
}

func (r *supplierRepository) Get(ctx context.Context, pid int64) (*models.Supplier, error) {
	var s models.Supplier
	if err := r.one(ctx, "supplier", &s, selectSuppliers+" WHERE s.pid = ?", pid); err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *supplierRepository) Add(ctx context.Context, supplier *models.Supplier) error {
	if err := models.Validate(supplier); err != nil {
		return err
	}
	return r.run(ctx, func(ctx context.Context, ex *database.Executor) error {
		if _, err := ensurePerson(ctx, ex, &supplier.Person); err != nil {
			return err
		}
		_, err := ex.Exec(ctx, "INSERT INTO supplier (pid) VALUES (?)", supplier.PID)
		return err
	})
}

// Update replaces the person columns of an existing supplier.
func (r *supplierRepository) Update(ctx context.Context, pid int64, supplier *models.Supplier) error {
	supplier.PID = pid
	if err := models.Validate(supplier); err != nil {
		return err
	}
	return r.run(ctx, func(ctx context.Context, ex *database.Executor) error {
		found, err := exists(ctx, ex, "SELECT COUNT(*) FROM supplier WHERE pid = ?", pid)
		if err != nil {
			return err
		}
		if !found {
			return database.NotFound("update", "supplier %d", pid)
		}
		return savePerson(ctx, ex, pid, &supplier.Person)
	})
}

func (r *supplierRepository) Delete(ctx context.Context, pid int64) error {
	return r.run(ctx, func(ctx context.Context, ex *database.Executor) error {
		return deleteRole(ctx, ex, "supplier", pid)
	})
}
