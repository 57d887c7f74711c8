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
	"github.com/uptrace/bun/dialect/feature"
)

const selectEquipment = `SELECT equipment_id, name, category, purchase_date, warranty_expiry, brand
FROM equipment`

type equipmentRepository struct {
	baseRepository
}

func NewEquipmentRepository(tx *database.TxManager) EquipmentRepository {
	return &equipmentRepository{baseRepository{tx: tx}}
}

func (r *equipmentRepository) List(ctx context.Context) ([]models.Equipment, error) {
	var items []models.Equipment
	err := r.all(ctx, &items, selectEquipment+" ORDER BY equipment_id")
	return items, err
}

func (r *equipmentRepository) Get(ctx context.Context, id int64) (*models.Equipment, error) {
	var e models.Equipment
	if err := r.one(ctx, "equipment", &e, selectEquipment+" WHERE equipment_id = ?", id); err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *equipmentRepository) Add(ctx context.Context, equipment *models.Equipment) error {
	if err := models.Validate(equipment); err != nil {
		return err
	}
	const insert = `INSERT INTO equipment (name, category, purchase_date, warranty_expiry, brand)
VALUES (?, ?, ?, ?, ?)`
	args := []interface{}{
		equipment.Name, equipment.Category, equipment.PurchaseDate, equipment.WarrantyExpiry, equipment.Brand,
	}
	return r.run(ctx, func(ctx context.Context, ex *database.Executor) error {
		if ex.HasFeature(feature.InsertReturning) {
			var id int64
			if err := ex.Fetch(ctx, database.FetchOne, &id, insert+" RETURNING equipment_id", args...); err != nil {
				return err
			}
			equipment.ID = id
			return nil
		}
		res, err := ex.Exec(ctx, insert, args...)
		if err != nil {
			return err
		}
		id, err := res.LastInsertId()
		if err != nil {
			return database.NewError(database.KindStatement, "insert", err)
		}
		equipment.ID = id
		return nil
	})
}

func (r *equipmentRepository) Update(ctx context.Context, id int64, equipment *models.Equipment) error {
	equipment.ID = id
	if err := models.Validate(equipment); err != nil {
		return err
	}
	return r.run(ctx, func(ctx context.Context, ex *database.Executor) error {
		res, err := ex.Exec(ctx, `UPDATE equipment
SET name = ?, category = ?, purchase_date = ?, warranty_expiry = ?, brand = ?
WHERE equipment_id = ?`,
			equipment.Name, equipment.Category, equipment.PurchaseDate, equipment.WarrantyExpiry, equipment.Brand, id)
		if err != nil {
			return err
		}
		return expectAffected(res, "update", "equipment %d", id)
	})
}

// Delete removes the supply rows of the equipment, by equipment id only,
// and then the equipment row.
func (r *equipmentRepository) Delete(ctx context.Context, id int64) error {
	return r.run(ctx, func(ctx context.Context, ex *database.Executor) error {
		found, err := exists(ctx, ex, "SELECT COUNT(*) FROM equipment WHERE equipment_id = ?", id)
		if err != nil {
			return err
		}
		if !found {
			return database.NotFound("delete", "equipment %d", id)
		}
		if _, err := ex.Exec(ctx, "DELETE FROM equipment_supplier WHERE equipment_id = ?", id); err != nil {
			return err
		}
		res, err := ex.Exec(ctx, "DELETE FROM equipment WHERE equipment_id = ?", id)
		if err != nil {
			return err
		}
		return expectAffected(res, "delete", "equipment %d", id)
	})
}
