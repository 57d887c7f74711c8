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

	"github.com/tomoncle/gymdesk/models"
	"github.com/tomoncle/gymdesk/types"
)

// Every repository operation runs as one transaction on the shared
// connection. Update and Delete on a missing target return an error for
// which database.IsNotFound is true; constraint violations surface as
// database.KindConstraint after the rollback.

// SearchFilter narrows a listing. Text matches any of the searchable
// columns as a case-insensitive substring; empty fields match everything.
type SearchFilter struct {
	Text     string
	Category models.Category
	Limit    int
}

type PersonRepository interface {
	List(ctx context.Context) ([]models.Person, error)
	Exists(ctx context.Context, pid int64) (bool, error)
	NextPID(ctx context.Context) (int64, error)
}

type WorkerRepository interface {
	List(ctx context.Context) ([]models.Worker, error)
	Get(ctx context.Context, pid int64) (*models.Worker, error)
	Add(ctx context.Context, worker *models.Worker) error
	Update(ctx context.Context, pid int64, worker *models.Worker) error
	Delete(ctx context.Context, pid int64) error
}

type SupplierRepository interface {
	List(ctx context.Context) ([]models.Supplier, error)
	Get(ctx context.Context, pid int64) (*models.Supplier, error)
	Add(ctx context.Context, supplier *models.Supplier) error
	Update(ctx context.Context, pid int64, supplier *models.Supplier) error
	Delete(ctx context.Context, pid int64) error
}

type EquipmentRepository interface {
	List(ctx context.Context) ([]models.Equipment, error)
	Get(ctx context.Context, id int64) (*models.Equipment, error)
	// Add stores equipment and sets its generated ID.
	Add(ctx context.Context, equipment *models.Equipment) error
	Update(ctx context.Context, id int64, equipment *models.Equipment) error
	Delete(ctx context.Context, id int64) error
	Search(ctx context.Context, filter SearchFilter) ([]models.Equipment, error)
	Page(ctx context.Context, filter SearchFilter, page types.PageRequest) (*types.Pagination[models.Equipment], error)
}

type SupplyRepository interface {
	List(ctx context.Context) ([]models.SupplyView, error)
	Recent(ctx context.Context, n int) ([]models.SupplyView, error)
	Get(ctx context.Context, key models.SupplyKey) (*models.Supply, error)
	Add(ctx context.Context, supply *models.Supply) error
	// Update changes quantity and supply date of the row at original. Key
	// fields carried by supply are ignored.
	Update(ctx context.Context, original models.SupplyKey, supply *models.Supply) error
	Delete(ctx context.Context, key models.SupplyKey) error
	Search(ctx context.Context, filter SearchFilter) ([]models.SupplyView, error)
	EquipmentOptions(ctx context.Context) ([]models.EquipmentOption, error)
	PersonOptions(ctx context.Context) ([]models.PersonOption, error)
}

type ReportRepository interface {
	Dashboard(ctx context.Context) (*models.Dashboard, error)
	EquipmentByPerson(ctx context.Context) ([]models.EquipmentByPerson, error)
	PersonSummary(ctx context.Context) ([]models.PersonSummary, error)
	EquipmentStats(ctx context.Context) ([]models.EquipmentStats, error)
	SupplyTimeline(ctx context.Context) ([]models.SupplyMonth, error)
	TopWorkersByHours(ctx context.Context) ([]models.WorkerHours, error)
	MaintenanceNeeds(ctx context.Context) ([]models.MaintenanceNeed, error)
	ContractCandidates(ctx context.Context) ([]models.ContractCandidate, error)
	WorkerShiftSummary(ctx context.Context, pid int64) (types.Row, error)
	MaintenanceStatus(ctx context.Context) (types.Rows, error)
	UpdateWorkerContract(ctx context.Context, update models.ContractUpdate) error
	ProcessEquipmentOrders(ctx context.Context, supplierID int64, orderDate time.Time) error
}
