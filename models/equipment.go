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
	"strings"

	"github.com/aarondl/null/v8"
	"github.com/tomoncle/gymdesk/types"
)

// Category is the equipment category. The vocabulary is open: the known
// values are suggestions and the database accepts any text.
type Category string

const (
	CategoryStrength    Category = "Strength"
	CategoryCardio      Category = "Cardio"
	CategoryFlexibility Category = "Flexibility"
	CategoryOther       Category = "Other"
)

var _ types.BaseEnum = CategoryStrength

var categories = []struct {
	value Category
	desc  string
}{
	{CategoryStrength, "Weights, racks and resistance machines"},
	{CategoryCardio, "Treadmills, bikes, rowers"},
	{CategoryFlexibility, "Mats, bands and stretching aids"},
	{CategoryOther, "Everything else"},
}

// Categories returns the suggested category values.
func Categories() []Category {
	out := make([]Category, len(categories))
	for i, c := range categories {
		out[i] = c.value
	}
	return out
}

// ParseCategory matches s against the suggested values ignoring case and
// keeps unknown text as is.
func ParseCategory(s string) Category {
	if c, ok := types.LookupEnum(Categories(), s); ok {
		return c
	}
	return Category(strings.TrimSpace(s))
}

// IsValid reports whether c is one of the suggested values.
func (c Category) IsValid() bool {
	return c.Number() != types.IllegalValue
}

func (c Category) Number() int {
	for i, v := range categories {
		if v.value == c {
			return i
		}
	}
	return types.IllegalValue
}

func (c Category) String() string { return string(c) }

func (c Category) Name() string {
	if !c.IsValid() {
		return types.IllegalName
	}
	return strings.ToLower(string(c))
}

func (c Category) Desc() string {
	if n := c.Number(); n != types.IllegalValue {
		return categories[n].desc
	}
	return types.IllegalDesc
}

// Equipment is a piece of gym equipment; ID is assigned by the database.
type Equipment struct {
	ID             int64       `bun:"equipment_id" json:"equipment_id"`
	Name           string      `bun:"name" json:"name" validate:"required,max=100"`
	Category       Category    `bun:"category" json:"category" validate:"max=50"`
	PurchaseDate   types.Date  `bun:"purchase_date" json:"purchase_date"`
	WarrantyExpiry types.Date  `bun:"warranty_expiry" json:"warranty_expiry"`
	Brand          null.String `bun:"brand" json:"brand" validate:"omitempty,max=50"`
}

// EquipmentOption is a short equipment row used by pickers.
type EquipmentOption struct {
	ID       int64    `bun:"equipment_id" json:"equipment_id"`
	Name     string   `bun:"name" json:"name"`
	Category Category `bun:"category" json:"category"`
}
