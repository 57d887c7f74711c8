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
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/tomoncle/gymdesk/database"
	"github.com/tomoncle/gymdesk/models"
	"github.com/tomoncle/gymdesk/types"
)

// Search builders emit '?' placeholders, which the executor binds as
// positional arguments.

func likeAny(text string, columns ...string) sq.Sqlizer {
	pattern := "%" + strings.ToLower(strings.TrimSpace(text)) + "%"
	or := make(sq.Or, 0, len(columns))
	for _, col := range columns {
		or = append(or, sq.Like{"LOWER(COALESCE(" + col + ", ''))": pattern})
	}
	return or
}

func applyWhere(b sq.SelectBuilder, f SearchFilter, categoryCol string, textCols ...string) sq.SelectBuilder {
	if strings.TrimSpace(f.Text) != "" {
		b = b.Where(likeAny(f.Text, textCols...))
	}
	if f.Category != "" {
		b = b.Where(sq.Eq{categoryCol: string(f.Category)})
	}
	return b
}

func applyFilter(b sq.SelectBuilder, f SearchFilter, categoryCol string, textCols ...string) sq.SelectBuilder {
	b = applyWhere(b, f, categoryCol, textCols...)
	if f.Limit > 0 {
		b = b.Limit(uint64(f.Limit))
	}
	return b
}

var equipmentSearchColumns = []string{"name", "category", "brand"}

func selectEquipmentBuilder() sq.SelectBuilder {
	return sq.Select("equipment_id", "name", "category", "purchase_date", "warranty_expiry", "brand").
		From("equipment").
		OrderBy("equipment_id")
}

// Search matches name, category and brand.
func (r *equipmentRepository) Search(ctx context.Context, filter SearchFilter) ([]models.Equipment, error) {
	query, args, err := applyFilter(selectEquipmentBuilder(), filter, "category", equipmentSearchColumns...).ToSql()
	if err != nil {
		return nil, database.NewError(database.KindStatement, "search", err)
	}
	var items []models.Equipment
	err = r.all(ctx, &items, query, args...)
	return items, err
}

// Page returns one page of the items matching filter; filter.Limit is
// ignored. Count and rows are read in the same transaction.
func (r *equipmentRepository) Page(ctx context.Context, filter SearchFilter, page types.PageRequest) (*types.Pagination[models.Equipment], error) {
	countQuery, countArgs, err := applyWhere(sq.Select("COUNT(*)").From("equipment"), filter, "category", equipmentSearchColumns...).ToSql()
	if err != nil {
		return nil, database.NewError(database.KindStatement, "page", err)
	}
	query, args, err := applyWhere(selectEquipmentBuilder(), filter, "category", equipmentSearchColumns...).
		Limit(uint64(page.GetPageSize())).
		Offset(uint64(page.GetOffset())).
		ToSql()
	if err != nil {
		return nil, database.NewError(database.KindStatement, "page", err)
	}

	var (
		total int64
		items []models.Equipment
	)
	err = r.run(ctx, func(ctx context.Context, ex *database.Executor) error {
		if err := ex.Fetch(ctx, database.FetchOne, &total, countQuery, countArgs...); err != nil {
			return err
		}
		return ex.Fetch(ctx, database.FetchAll, &items, query, args...)
	})
	if err != nil {
		return nil, err
	}
	return types.NewPagination(page, total, items), nil
}

// Search matches equipment name, category and person name.
func (r *supplyRepository) Search(ctx context.Context, filter SearchFilter) ([]models.SupplyView, error) {
	query, args, err := applyFilter(
		sq.Select(
			"es.equipment_id", "e.name AS equipment_name", "e.category",
			"es.pid", "p.firstname || ' ' || p.lastname AS person_name",
			personRoleColumn,
			"es.quantity", "es.supply_date",
		).
			From("equipment_supplier es").
			Join("equipment e ON es.equipment_id = e.equipment_id").
			Join("person p ON es.pid = p.pid").
			LeftJoin("worker w ON es.pid = w.pid").
			LeftJoin("supplier s ON es.pid = s.pid").
			OrderBy("es.supply_date DESC", "es.equipment_id", "es.pid"),
		filter, "e.category", "e.name", "e.category", "p.firstname || ' ' || p.lastname",
	).ToSql()
	if err != nil {
		return nil, database.NewError(database.KindStatement, "search", err)
	}
	var rows []models.SupplyView
	err = r.all(ctx, &rows, query, args...)
	return rows, err
}
