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
	"github.com/tomoncle/gymdesk/types"
)

// Person is the identity record shared by the worker and supplier roles.
// The pid is chosen by the caller, never generated by the database.
type Person struct {
	PID         int64       `bun:"pid" json:"pid" validate:"required,gt=0"`
	FirstName   string      `bun:"firstname" json:"firstname" validate:"required,max=50"`
	LastName    string      `bun:"lastname" json:"lastname" validate:"required,max=50"`
	DateOfBirth types.Date  `bun:"dateofb" json:"dateofb"`
	Address     null.String `bun:"address" json:"address" validate:"omitempty,max=100"`
	Phone       null.String `bun:"phone" json:"phone" validate:"omitempty,max=20"`
	Email       null.String `bun:"email" json:"email" validate:"omitempty,email,max=100"`
}

func (p Person) FullName() string {
	return p.FirstName + " " + p.LastName
}

// Worker extends Person through the shared pid.
type Worker struct {
	Person
	Job        null.String `bun:"job" json:"job" validate:"omitempty,max=50"`
	Contract   null.String `bun:"contract" json:"contract" validate:"omitempty,max=50"`
	EmployedOn types.Date  `bun:"dateofeployment" json:"dateofeployment"`
}

// Supplier extends Person through the shared pid and adds nothing else.
type Supplier struct {
	Person
}

// PersonOption is a short person row used by pickers.
type PersonOption struct {
	PID       int64  `bun:"pid" json:"pid"`
	FirstName string `bun:"firstname" json:"firstname"`
	LastName  string `bun:"lastname" json:"lastname"`
}
