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
	"time"

	"github.com/tomoncle/gymdesk/database"
	"github.com/tomoncle/gymdesk/models"
	"github.com/tomoncle/gymdesk/types"
)

// Report queries use PostgreSQL syntax (STRING_AGG, DATE_TRUNC, INTERVAL)
// except Dashboard and ContractCandidates. The routines called here live in
// the database and their result rows are passed through unchanged.

type reportRepository struct {
	baseRepository
}

func NewReportRepository(tx *database.TxManager) ReportRepository {
	return &reportRepository{baseRepository{tx: tx}}
}

func (r *reportRepository) Dashboard(ctx context.Context) (*models.Dashboard, error) {
	var d models.Dashboard
	err := r.tx.Execute(ctx, database.FetchOne, &d, `SELECT
    (SELECT COUNT(*) FROM worker) AS workers,
    (SELECT COUNT(*) FROM supplier) AS suppliers,
    (SELECT COUNT(*) FROM equipment) AS equipment,
    (SELECT COUNT(*) FROM equipment_supplier) AS supplies`)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *reportRepository) EquipmentByPerson(ctx context.Context) ([]models.EquipmentByPerson, error) {
	var rows []models.EquipmentByPerson
	err := r.all(ctx, &rows, `SELECT
    p.firstname || ' ' || p.lastname AS person_name,
    CASE
        WHEN w.pid IS NOT NULL THEN 'Worker'
        WHEN s.pid IS NOT NULL THEN 'Supplier'
        ELSE 'Person'
    END AS person_type,
    COUNT(DISTINCT e.equipment_id) AS equipment_count,
    STRING_AGG(DISTINCT e.name, ', ') AS equipment_list,
    SUM(es.quantity) AS total_quantity
FROM person p
LEFT JOIN worker w ON p.pid = w.pid
LEFT JOIN supplier s ON p.pid = s.pid
LEFT JOIN equipment_supplier es ON p.pid = es.pid
LEFT JOIN equipment e ON es.equipment_id = e.equipment_id
GROUP BY p.pid, p.firstname, p.lastname, w.pid, s.pid
HAVING COUNT(DISTINCT e.equipment_id) > 0
ORDER BY equipment_count DESC`)
	return rows, err
}

func (r *reportRepository) PersonSummary(ctx context.Context) ([]models.PersonSummary, error) {
	var rows []models.PersonSummary
	err := r.all(ctx, &rows, `SELECT
    p.pid,
    p.firstname || ' ' || p.lastname AS full_name,
    p.dateofb,
    p.phone,
    p.email,
    CASE
        WHEN w.pid IS NOT NULL AND s.pid IS NOT NULL THEN 'Worker & Supplier'
        WHEN w.pid IS NOT NULL THEN 'Worker'
        WHEN s.pid IS NOT NULL THEN 'Supplier'
        ELSE 'Person Only'
    END AS roles,
    w.job,
    w.contract,
    COUNT(es.equipment_id) AS equipment_relations
FROM person p
LEFT JOIN worker w ON p.pid = w.pid
LEFT JOIN supplier s ON p.pid = s.pid
LEFT JOIN equipment_supplier es ON p.pid = es.pid
GROUP BY p.pid, p.firstname, p.lastname, p.dateofb, p.phone, p.email, w.pid, s.pid, w.job, w.contract
ORDER BY p.pid`)
	return rows, err
}

func (r *reportRepository) EquipmentStats(ctx context.Context) ([]models.EquipmentStats, error) {
	var rows []models.EquipmentStats
	err := r.all(ctx, &rows, `SELECT
    e.category,
    COUNT(*) AS equipment_count,
    COUNT(DISTINCT es.pid) AS people_involved,
    SUM(es.quantity) AS total_quantity_supplied,
    MIN(e.purchase_date) AS oldest_purchase,
    MAX(e.purchase_date) AS newest_purchase,
    COUNT(CASE WHEN e.warranty_expiry < CURRENT_DATE THEN 1 END) AS expired_warranty,
    STRING_AGG(DISTINCT e.brand, ', ') AS brands
FROM equipment e
LEFT JOIN equipment_supplier es ON e.equipment_id = es.equipment_id
GROUP BY e.category
ORDER BY equipment_count DESC`)
	return rows, err
}

// SupplyTimeline covers the twelve most recent months with supplies.
func (r *reportRepository) SupplyTimeline(ctx context.Context) ([]models.SupplyMonth, error) {
	var rows []models.SupplyMonth
	err := r.all(ctx, &rows, `SELECT
    DATE_TRUNC('month', es.supply_date) AS supply_month,
    COUNT(*) AS supply_count,
    COUNT(DISTINCT es.equipment_id) AS unique_equipment,
    COUNT(DISTINCT es.pid) AS unique_people,
    SUM(es.quantity) AS total_quantity,
    STRING_AGG(DISTINCT e.category, ', ') AS categories
FROM equipment_supplier es
JOIN equipment e ON es.equipment_id = e.equipment_id
WHERE es.supply_date IS NOT NULL
GROUP BY DATE_TRUNC('month', es.supply_date)
ORDER BY supply_month DESC
LIMIT 12`)
	return rows, err
}

// TopWorkersByHours ranks the ten workers with most shift hours.
func (r *reportRepository) TopWorkersByHours(ctx context.Context) ([]models.WorkerHours, error) {
	var rows []models.WorkerHours
	err := r.all(ctx, &rows, `SELECT p.firstname || ' ' || p.lastname AS worker_name,
       w.job,
       COUNT(s.pid) AS total_shifts,
       SUM(EXTRACT(EPOCH FROM (s.clock_out - s.clock_in)) / 3600) AS total_hours
FROM person p
JOIN worker w ON p.pid = w.pid
LEFT JOIN shift s ON p.pid = s.pid
GROUP BY p.pid, p.firstname, p.lastname, w.job
HAVING SUM(EXTRACT(EPOCH FROM (s.clock_out - s.clock_in)) / 3600) > 0
ORDER BY total_hours DESC
LIMIT 10`)
	return rows, err
}

func (r *reportRepository) MaintenanceNeeds(ctx context.Context) ([]models.MaintenanceNeed, error) {
	var rows []models.MaintenanceNeed
	err := r.all(ctx, &rows, `SELECT e.name, e.category, e.brand, e.warranty_expiry,
       CASE
           WHEN e.warranty_expiry < CURRENT_DATE THEN 'Expired'
           WHEN e.warranty_expiry < CURRENT_DATE + INTERVAL '30 days' THEN 'Expiring Soon'
           ELSE 'Valid'
       END AS warranty_status,
       COUNT(m.contract_id) AS maintenance_count
FROM equipment e
LEFT JOIN maintenance m ON e.equipment_id = m.equipment_id
GROUP BY e.equipment_id, e.name, e.category, e.brand, e.warranty_expiry
ORDER BY e.warranty_expiry ASC`)
	return rows, err
}

func (r *reportRepository) ContractCandidates(ctx context.Context) ([]models.ContractCandidate, error) {
	var rows []models.ContractCandidate
	err := r.all(ctx, &rows, `SELECT p.pid, p.firstname || ' ' || p.lastname AS full_name, w.job, w.contract
FROM person p
JOIN worker w ON p.pid = w.pid
ORDER BY p.firstname`)
	return rows, err
}

// WorkerShiftSummary calls get_worker_shift_summary(pid) and returns its
// single row.
func (r *reportRepository) WorkerShiftSummary(ctx context.Context, pid int64) (types.Row, error) {
	var rows []map[string]interface{}
	if err := r.tx.Execute(ctx, database.FetchMany(1), &rows, "SELECT * FROM get_worker_shift_summary(?)", pid); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, database.NotFound("call", "shift summary for worker %d", pid)
	}
	return types.Row(rows[0]), nil
}

// MaintenanceStatus calls get_equipment_maintenance_status(), which returns
// a ref cursor, and fetches every row of that cursor.
func (r *reportRepository) MaintenanceStatus(ctx context.Context) (types.Rows, error) {
	var rows []map[string]interface{}
	err := r.run(ctx, func(ctx context.Context, ex *database.Executor) error {
		return ex.FetchCursor(ctx, &rows, "SELECT get_equipment_maintenance_status()")
	})
	if err != nil {
		return nil, err
	}
	return toRows(rows), nil
}

func (r *reportRepository) UpdateWorkerContract(ctx context.Context, update models.ContractUpdate) error {
	if err := models.Validate(&update); err != nil {
		return err
	}
	return r.run(ctx, func(ctx context.Context, ex *database.Executor) error {
		_, err := ex.Exec(ctx, "CALL update_worker_contract(?, ?, ?, ?)",
			update.WorkerID, update.JobTitle, update.ContractType, update.WageIncrease)
		return err
	})
}

func (r *reportRepository) ProcessEquipmentOrders(ctx context.Context, supplierID int64, orderDate time.Time) error {
	return r.run(ctx, func(ctx context.Context, ex *database.Executor) error {
		_, err := ex.Exec(ctx, "CALL process_equipment_orders(?, ?::date)", supplierID, orderDate.Format("2006-01-02"))
		return err
	})
}

func toRows(in []map[string]interface{}) types.Rows {
	out := make(types.Rows, len(in))
	for i, m := range in {
		out[i] = types.Row(m)
	}
	return out
}
