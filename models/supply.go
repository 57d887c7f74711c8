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
	"fmt"

	"github.com/aarondl/null/v8"
	"github.com/tomoncle/gymdesk/types"
)

// SupplyKey identifies one equipment_supplier row. Its components are not
// editable in place.
type SupplyKey struct {
	EquipmentID int64 `bun:"equipment_id" json:"equipment_id" validate:"required,gt=0"`
	PID         int64 `bun:"pid" json:"pid" validate:"required,gt=0"`
}

func (k SupplyKey) String() string {
	return fmt.Sprintf("equipment %d / person %d", k.EquipmentID, k.PID)
}

// Supply is one supply event linking equipment to a person.
type Supply struct {
	SupplyKey
	Quantity   null.Int   `bun:"quantity" json:"quantity" validate:"omitempty,gte=0"`
	SupplyDate types.Date `bun:"supply_date" json:"supply_date"`
}

// SupplyView is a supply row joined with equipment and person names.
type SupplyView struct {
	Supply
	EquipmentName string   `bun:"equipment_name" json:"equipment_name"`
	Category      Category `bun:"category" json:"category"`
	PersonName    string   `bun:"person_name" json:"person_name"`
	PersonRole    string   `bun:"person_role" json:"person_role"`
}
