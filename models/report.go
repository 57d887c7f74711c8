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

package models

import (
	"github.com/aarondl/null/v8"
)

// EquipmentByPerson lists, per person with supplies, what they supplied.
type EquipmentByPerson struct {
	PersonName     string      `bun:"person_name" json:"person_name"`
	PersonType     string      `bun:"person_type" json:"person_type"`
	EquipmentCount int64       `bun:"equipment_count" json:"equipment_count"`
	EquipmentList  null.String `bun:"equipment_list" json:"equipment_list"`
	TotalQuantity  null.Int    `bun:"total_quantity" json:"total_quantity"`
}

// PersonSummary is one person with their roles and relationship count.
type PersonSummary struct {
	PID                int64       `bun:"pid" json:"pid"`
	FullName           string      `bun:"full_name" json:"full_name"`
	DateOfBirth        null.Time   `bun:"dateofb" json:"dateofb"`
	Phone              null.String `bun:"phone" json:"phone"`
	Email              null.String `bun:"email" json:"email"`
	Roles              string      `bun:"roles" json:"roles"`
	Job                null.String `bun:"job" json:"job"`
	Contract           null.String `bun:"contract" json:"contract"`
	EquipmentRelations int64       `bun:"equipment_relations" json:"equipment_relations"`
}

// EquipmentStats aggregates equipment by category.
type EquipmentStats struct {
	Category              null.String `bun:"category" json:"category"`
	EquipmentCount        int64       `bun:"equipment_count" json:"equipment_count"`
	PeopleInvolved        int64       `bun:"people_involved" json:"people_involved"`
	TotalQuantitySupplied null.Int    `bun:"total_quantity_supplied" json:"total_quantity_supplied"`
	OldestPurchase        null.Time   `bun:"oldest_purchase" json:"oldest_purchase"`
	NewestPurchase        null.Time   `bun:"newest_purchase" json:"newest_purchase"`
	ExpiredWarranty       int64       `bun:"expired_warranty" json:"expired_warranty"`
	Brands                null.String `bun:"brands" json:"brands"`
}

// SupplyMonth aggregates supply events per calendar month.
type SupplyMonth struct {
	SupplyMonth     null.Time   `bun:"supply_month" json:"supply_month"`
	SupplyCount     int64       `bun:"supply_count" json:"supply_count"`
	UniqueEquipment int64       `bun:"unique_equipment" json:"unique_equipment"`
	UniquePeople    int64       `bun:"unique_people" json:"unique_people"`
	TotalQuantity   null.Int    `bun:"total_quantity" json:"total_quantity"`
	Categories      null.String `bun:"categories" json:"categories"`
}

// Dashboard holds the row counts shown on the overview.
type Dashboard struct {
	Workers   int64 `bun:"workers" json:"workers"`
	Suppliers int64 `bun:"suppliers" json:"suppliers"`
	Equipment int64 `bun:"equipment" json:"equipment"`
	Supplies  int64 `bun:"supplies" json:"supplies"`
}

// WorkerHours ranks workers by hours recorded in shifts.
type WorkerHours struct {
	WorkerName  string       `bun:"worker_name" json:"worker_name"`
	Job         null.String  `bun:"job" json:"job"`
	TotalShifts int64        `bun:"total_shifts" json:"total_shifts"`
	TotalHours  null.Float64 `bun:"total_hours" json:"total_hours"`
}

// MaintenanceNeed is the warranty and maintenance status of one item.
type MaintenanceNeed struct {
	Name             string      `bun:"name" json:"name"`
	Category         null.String `bun:"category" json:"category"`
	Brand            null.String `bun:"brand" json:"brand"`
	WarrantyExpiry   null.Time   `bun:"warranty_expiry" json:"warranty_expiry"`
	WarrantyStatus   string      `bun:"warranty_status" json:"warranty_status"`
	MaintenanceCount int64       `bun:"maintenance_count" json:"maintenance_count"`
}

// ContractCandidate is a worker that can be passed to the contract
// update procedure.
type ContractCandidate struct {
	PID      int64       `bun:"pid" json:"pid"`
	FullName string      `bun:"full_name" json:"full_name"`
	Job      null.String `bun:"job" json:"job"`
	Contract null.String `bun:"contract" json:"contract"`
}

// ContractUpdate holds the arguments of the contract update procedure.
type ContractUpdate struct {
	WorkerID     int64   `json:"worker_id" validate:"required,gt=0"`
	JobTitle     string  `json:"job_title" validate:"required,max=50"`
	ContractType string  `json:"contract_type" validate:"required,max=50"`
	WageIncrease float64 `json:"wage_increase" validate:"gte=0"`
}
