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

const personRoleColumn = `CASE
    WHEN w.pid IS NOT NULL AND s.pid IS NOT NULL THEN 'Worker & Supplier'
    WHEN w.pid IS NOT NULL THEN 'Worker'
    WHEN s.pid IS NOT NULL THEN 'Supplier'
    ELSE 'Person'
END AS person_role`

const selectSupplyViews = `SELECT es.equipment_id, e.name AS equipment_name, e.category,
       es.pid, p.firstname || ' ' || p.lastname AS person_name,
       ` + personRoleColumn + `,
       es.quantity, es.supply_date
FROM equipment_supplier es
JOIN equipment e ON es.equipment_id = e.equipment_id
JOIN person p ON es.pid = p.pid
LEFT JOIN worker w ON es.pid = w.pid
LEFT JOIN supplier s ON es.pid = s.pid
ORDER BY es.supply_date DESC, es.equipment_id, es.pid`

type supplyRepository struct {
	baseRepository
}

func NewSupplyRepository(tx *database.TxManager) SupplyRepository {
	return &supplyRepository{baseRepository{tx: tx}}
}

// List returns every relationship, newest supply first.
func (r *supplyRepository) List(ctx context.Context) ([]models.SupplyView, error) {
	var rows []models.SupplyView
	err := r.all(ctx, &rows, selectSupplyViews)
	return rows, err
}

// Recent returns at most n relationships, newest supply first.
func (r *supplyRepository) Recent(ctx context.Context, n int) ([]models.SupplyView, error) {
	var rows []models.SupplyView
	if n < 1 {
		n = 1
	}
	err := r.tx.Execute(ctx, database.FetchMany(n), &rows, selectSupplyViews+"\nLIMIT ?", n)
	return rows, err
}

func (r *supplyRepository) Get(ctx context.Context, key models.SupplyKey) (*models.Supply, error) {
	var s models.Supply
	err := r.one(ctx, key.String(), &s, `SELECT equipment_id, pid, quantity, supply_date
FROM equipment_supplier WHERE equipment_id = ? AND pid = ?`, key.EquipmentID, key.PID)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *supplyRepository) Add(ctx context.Context, supply *models.Supply) error {
	if err := models.Validate(supply); err != nil {
		return err
	}
	return r.run(ctx, func(ctx context.Context, ex *database.Executor) error {
		_, err := ex.Exec(ctx, `INSERT INTO equipment_supplier (equipment_id, pid, quantity, supply_date)
VALUES (?, ?, ?, ?)`, supply.EquipmentID, supply.PID, supply.Quantity, supply.SupplyDate)
		return err
	})
}

// Update targets the row at original even when supply carries other key
// values; only quantity and supply date change.
func (r *supplyRepository) Update(ctx context.Context, original models.SupplyKey, supply *models.Supply) error {
	supply.SupplyKey = original
	if err := models.Validate(supply); err != nil {
		return err
	}
	return r.run(ctx, func(ctx context.Context, ex *database.Executor) error {
		res, err := ex.Exec(ctx, `UPDATE equipment_supplier SET quantity = ?, supply_date = ?
WHERE equipment_id = ? AND pid = ?`, supply.Quantity, supply.SupplyDate, original.EquipmentID, original.PID)
		if err != nil {
			return err
		}
		return expectAffected(res, "update", "supply %s", original)
	})
}

func (r *supplyRepository) Delete(ctx context.Context, key models.SupplyKey) error {
	return r.run(ctx, func(ctx context.Context, ex *database.Executor) error {
		res, err := ex.Exec(ctx, "DELETE FROM equipment_supplier WHERE equipment_id = ? AND pid = ?",
			key.EquipmentID, key.PID)
		if err != nil {
			return err
		}
		return expectAffected(res, "delete", "supply %s", key)
	})
}

func (r *supplyRepository) EquipmentOptions(ctx context.Context) ([]models.EquipmentOption, error) {
	var opts []models.EquipmentOption
	err := r.all(ctx, &opts, "SELECT equipment_id, name, category FROM equipment ORDER BY name")
	return opts, err
}

// PersonOptions lists the people that can be recorded as suppliers.
func (r *supplyRepository) PersonOptions(ctx context.Context) ([]models.PersonOption, error) {
	var opts []models.PersonOption
	err := r.all(ctx, &opts, `SELECT p.pid, p.firstname, p.lastname
FROM person p
JOIN supplier s ON p.pid = s.pid
ORDER BY p.firstname`)
	return opts, err
}
