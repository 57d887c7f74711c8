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

package repository_test

import (
	"context"
	"testing"

	"github.com/aarondl/null/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tomoncle/gymdesk/database"
	"github.com/tomoncle/gymdesk/internal/testdb"
	"github.com/tomoncle/gymdesk/models"
	"github.com/tomoncle/gymdesk/repository"
	"github.com/tomoncle/gymdesk/types"
)

type repos struct {
	tx        *database.TxManager
	people    repository.PersonRepository
	workers   repository.WorkerRepository
	suppliers repository.SupplierRepository
	equipment repository.EquipmentRepository
	supplies  repository.SupplyRepository
	reports   repository.ReportRepository
}

func setup(t *testing.T) *repos {
	t.Helper()
	tx := testdb.Open(t)
	return &repos{
		tx:        tx,
		people:    repository.NewPersonRepository(tx),
		workers:   repository.NewWorkerRepository(tx),
		suppliers: repository.NewSupplierRepository(tx),
		equipment: repository.NewEquipmentRepository(tx),
		supplies:  repository.NewSupplyRepository(tx),
		reports:   repository.NewReportRepository(tx),
	}
}

func date(s string) types.Date {
	d, err := types.ParseDate(s)
	if err != nil {
		panic(err)
	}
	return d
}

func person(pid int64, first, last string) models.Person {
	return models.Person{PID: pid, FirstName: first, LastName: last}
}

func TestWorkerLifecycle(t *testing.T) {
	ctx := context.Background()
	r := setup(t)

	w := &models.Worker{
		Person:     person(501, "Ana", "Silva"),
		Job:        null.StringFrom("Trainer"),
		Contract:   null.StringFrom("Full-time"),
		EmployedOn: date("2023-03-01"),
	}
	require.NoError(t, r.workers.Add(ctx, w))

	got, err := r.workers.Get(ctx, 501)
	require.NoError(t, err)
	assert.Equal(t, "Ana Silva", got.FullName())
	assert.Equal(t, "Trainer", got.Job.String)
	assert.Equal(t, "Full-time", got.Contract.String)

	w.Job = null.StringFrom("Head Trainer")
	w.Phone = null.StringFrom("555-0101")
	require.NoError(t, r.workers.Update(ctx, 501, w))

	got, err = r.workers.Get(ctx, 501)
	require.NoError(t, err)
	assert.Equal(t, "Head Trainer", got.Job.String)
	assert.Equal(t, "555-0101", got.Phone.String)

	list, err := r.workers.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)

	require.NoError(t, r.workers.Delete(ctx, 501))
	_, err = r.workers.Get(ctx, 501)
	assert.True(t, database.IsNotFound(err))

	// the person survives the role
	found, err := r.people.Exists(ctx, 501)
	require.NoError(t, err)
	assert.True(t, found)
}

func TestAddRoleToExistingPerson(t *testing.T) {
	ctx := context.Background()
	r := setup(t)

	require.NoError(t, r.workers.Add(ctx, &models.Worker{Person: person(7, "Rui", "Costa"), Job: null.StringFrom("Cleaner")}))
	// a different name on an existing pid leaves the person row alone
	require.NoError(t, r.suppliers.Add(ctx, &models.Supplier{Person: person(7, "Other", "Name")}))

	assert.Equal(t, int64(1), testdb.Count(t, r.tx, "person", "pid = ?", 7))
	s, err := r.suppliers.Get(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, "Rui", s.FirstName)
}

func TestAddWorkerRollsBackPersonOnFailure(t *testing.T) {
	ctx := context.Background()
	r := setup(t)
	require.NoError(t, r.tx.Execute(ctx, database.FetchNone, nil, "DROP TABLE worker"))

	err := r.workers.Add(ctx, &models.Worker{Person: person(42, "Eva", "Lopes")})
	require.Error(t, err)
	assert.Equal(t, database.KindStatement, database.KindOf(err))
	assert.Zero(t, testdb.Count(t, r.tx, "person", "pid = ?", 42))
}

func TestAddDuplicateIsConstraintViolation(t *testing.T) {
	ctx := context.Background()
	r := setup(t)

	w := &models.Worker{Person: person(3, "Ines", "Mota")}
	require.NoError(t, r.workers.Add(ctx, w))
	err := r.workers.Add(ctx, w)
	require.Error(t, err)
	assert.True(t, database.IsConstraint(err))
	assert.Equal(t, int64(1), testdb.Count(t, r.tx, "worker", ""))
}

func TestAddRejectsInvalidInput(t *testing.T) {
	ctx := context.Background()
	r := setup(t)

	err := r.workers.Add(ctx, &models.Worker{Person: models.Person{PID: 0, FirstName: "No"}})
	require.Error(t, err)
	assert.True(t, models.IsValidationError(err))
	assert.Zero(t, testdb.Count(t, r.tx, "person", ""))
}

func TestMissingTargetsAreNotFound(t *testing.T) {
	ctx := context.Background()
	r := setup(t)

	tests := []struct {
		name string
		fn   func() error
	}{
		{"update worker", func() error {
			return r.workers.Update(ctx, 99, &models.Worker{Person: person(99, "A", "B")})
		}},
		{"delete worker", func() error { return r.workers.Delete(ctx, 99) }},
		{"update supplier", func() error {
			return r.suppliers.Update(ctx, 99, &models.Supplier{Person: person(99, "A", "B")})
		}},
		{"delete supplier", func() error { return r.suppliers.Delete(ctx, 99) }},
		{"update equipment", func() error {
			return r.equipment.Update(ctx, 99, &models.Equipment{Name: "Bench"})
		}},
		{"delete equipment", func() error { return r.equipment.Delete(ctx, 99) }},
		{"update supply", func() error {
			return r.supplies.Update(ctx, models.SupplyKey{EquipmentID: 1, PID: 1}, &models.Supply{})
		}},
		{"delete supply", func() error { return r.supplies.Delete(ctx, models.SupplyKey{EquipmentID: 1, PID: 1}) }},
		{"get equipment", func() error {
			_, err := r.equipment.Get(ctx, 99)
			return err
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.fn()
			require.Error(t, err)
			assert.True(t, database.IsNotFound(err), err.Error())
		})
	}
}

func TestSupplierUpdateAndDelete(t *testing.T) {
	ctx := context.Background()
	r := setup(t)

	require.NoError(t, r.suppliers.Add(ctx, &models.Supplier{Person: person(20, "Luis", "Reis")}))
	upd := &models.Supplier{Person: person(0, "Luis", "Reis")}
	upd.Email = null.StringFrom("luis@example.com")
	require.NoError(t, r.suppliers.Update(ctx, 20, upd))

	s, err := r.suppliers.Get(ctx, 20)
	require.NoError(t, err)
	assert.Equal(t, int64(20), s.PID)
	assert.Equal(t, "luis@example.com", s.Email.String)

	eq := &models.Equipment{Name: "Rower"}
	require.NoError(t, r.equipment.Add(ctx, eq))
	require.NoError(t, r.supplies.Add(ctx, &models.Supply{SupplyKey: models.SupplyKey{EquipmentID: eq.ID, PID: 20}}))

	require.NoError(t, r.suppliers.Delete(ctx, 20))
	assert.Zero(t, testdb.Count(t, r.tx, "supplier", ""))
	assert.Zero(t, testdb.Count(t, r.tx, "equipment_supplier", ""))
	assert.Equal(t, int64(1), testdb.Count(t, r.tx, "person", "pid = ?", 20))
	assert.Equal(t, int64(1), testdb.Count(t, r.tx, "equipment", ""))
}

func TestEquipmentLifecycle(t *testing.T) {
	ctx := context.Background()
	r := setup(t)

	first := &models.Equipment{Name: "Treadmill", Category: models.CategoryCardio, Brand: null.StringFrom("Technogym")}
	second := &models.Equipment{Name: "Squat Rack", Category: models.CategoryStrength}
	require.NoError(t, r.equipment.Add(ctx, first))
	require.NoError(t, r.equipment.Add(ctx, second))
	assert.Positive(t, first.ID)
	assert.Greater(t, second.ID, first.ID)

	second.WarrantyExpiry = date("2027-06-30")
	require.NoError(t, r.equipment.Update(ctx, second.ID, second))

	got, err := r.equipment.Get(ctx, second.ID)
	require.NoError(t, err)
	assert.Equal(t, "Squat Rack", got.Name)
	assert.Equal(t, models.CategoryStrength, got.Category)
	assert.True(t, got.WarrantyExpiry.Valid)
	assert.False(t, got.Brand.Valid)

	list, err := r.equipment.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, first.ID, list[0].ID)

	opts, err := r.supplies.EquipmentOptions(ctx)
	require.NoError(t, err)
	require.Len(t, opts, 2)
	assert.Equal(t, "Squat Rack", opts[0].Name)
}

func TestEquipmentDeleteCascadesByEquipmentOnly(t *testing.T) {
	ctx := context.Background()
	r := setup(t)

	require.NoError(t, r.suppliers.Add(ctx, &models.Supplier{Person: person(1, "Ana", "Silva")}))
	a := &models.Equipment{Name: "Bike"}
	b := &models.Equipment{Name: "Mat"}
	require.NoError(t, r.equipment.Add(ctx, a))
	require.NoError(t, r.equipment.Add(ctx, b))
	require.NoError(t, r.supplies.Add(ctx, &models.Supply{SupplyKey: models.SupplyKey{EquipmentID: a.ID, PID: 1}}))
	require.NoError(t, r.supplies.Add(ctx, &models.Supply{SupplyKey: models.SupplyKey{EquipmentID: b.ID, PID: 1}}))

	require.NoError(t, r.equipment.Delete(ctx, a.ID))

	assert.Zero(t, testdb.Count(t, r.tx, "equipment_supplier", "equipment_id = ?", a.ID))
	assert.Equal(t, int64(1), testdb.Count(t, r.tx, "equipment_supplier", "equipment_id = ?", b.ID))
	assert.Equal(t, int64(1), testdb.Count(t, r.tx, "supplier", ""))
}

func TestSupplyUpdateUsesOriginalKey(t *testing.T) {
	ctx := context.Background()
	r := setup(t)

	require.NoError(t, r.suppliers.Add(ctx, &models.Supplier{Person: person(1, "Ana", "Silva")}))
	require.NoError(t, r.suppliers.Add(ctx, &models.Supplier{Person: person(2, "Rui", "Costa")}))
	eq := &models.Equipment{Name: "Kettlebell"}
	require.NoError(t, r.equipment.Add(ctx, eq))

	key := models.SupplyKey{EquipmentID: eq.ID, PID: 1}
	require.NoError(t, r.supplies.Add(ctx, &models.Supply{SupplyKey: key, Quantity: null.IntFrom(5), SupplyDate: date("2024-01-01")}))

	// the new data points at another person; only quantity and date apply
	change := &models.Supply{
		SupplyKey:  models.SupplyKey{EquipmentID: eq.ID, PID: 2},
		Quantity:   null.IntFrom(8),
		SupplyDate: date("2024-02-01"),
	}
	require.NoError(t, r.supplies.Update(ctx, key, change))

	got, err := r.supplies.Get(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, 8, got.Quantity.Int)
	assert.Equal(t, "2024-02-01", got.SupplyDate.String())

	_, err = r.supplies.Get(ctx, models.SupplyKey{EquipmentID: eq.ID, PID: 2})
	assert.True(t, database.IsNotFound(err))

	require.NoError(t, r.supplies.Delete(ctx, key))
	assert.Zero(t, testdb.Count(t, r.tx, "equipment_supplier", ""))
}

func TestSupplyConstraints(t *testing.T) {
	ctx := context.Background()
	r := setup(t)

	require.NoError(t, r.suppliers.Add(ctx, &models.Supplier{Person: person(1, "Ana", "Silva")}))
	eq := &models.Equipment{Name: "Bench"}
	require.NoError(t, r.equipment.Add(ctx, eq))

	err := r.supplies.Add(ctx, &models.Supply{SupplyKey: models.SupplyKey{EquipmentID: eq.ID, PID: 404}})
	require.Error(t, err)
	assert.True(t, database.IsConstraint(err))

	key := models.SupplyKey{EquipmentID: eq.ID, PID: 1}
	require.NoError(t, r.supplies.Add(ctx, &models.Supply{SupplyKey: key}))
	err = r.supplies.Add(ctx, &models.Supply{SupplyKey: key})
	require.Error(t, err)
	assert.True(t, database.IsConstraint(err))
}

func TestEndToEndScenario(t *testing.T) {
	ctx := context.Background()
	r := setup(t)

	require.NoError(t, r.workers.Add(ctx, &models.Worker{Person: person(501, "Ana", "Silva"), Job: null.StringFrom("Trainer")}))
	eq := &models.Equipment{Name: "Treadmill"}
	require.NoError(t, r.equipment.Add(ctx, eq))
	require.NoError(t, r.supplies.Add(ctx, &models.Supply{
		SupplyKey:  models.SupplyKey{EquipmentID: eq.ID, PID: 501},
		Quantity:   null.IntFrom(2),
		SupplyDate: date("2024-01-15"),
	}))

	rows, err := r.supplies.List(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, eq.ID, rows[0].EquipmentID)
	assert.Equal(t, int64(501), rows[0].PID)
	assert.Equal(t, 2, rows[0].Quantity.Int)
	assert.Equal(t, "2024-01-15", rows[0].SupplyDate.String())
	assert.Equal(t, "Treadmill", rows[0].EquipmentName)
	assert.Equal(t, "Ana Silva", rows[0].PersonName)
	assert.Equal(t, "Worker", rows[0].PersonRole)

	require.NoError(t, r.workers.Delete(ctx, 501))

	rows, err = r.supplies.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, rows)

	people, err := r.people.List(ctx)
	require.NoError(t, err)
	require.Len(t, people, 1)
	assert.Equal(t, int64(501), people[0].PID)
}

func TestRecentSuppliesAndPickers(t *testing.T) {
	ctx := context.Background()
	r := setup(t)

	require.NoError(t, r.suppliers.Add(ctx, &models.Supplier{Person: person(2, "Zoe", "Dias")}))
	require.NoError(t, r.suppliers.Add(ctx, &models.Supplier{Person: person(1, "Bea", "Melo")}))
	require.NoError(t, r.workers.Add(ctx, &models.Worker{Person: person(3, "Ana", "Worker")}))

	for i, d := range []string{"2024-01-01", "2024-03-01", "2024-02-01"} {
		eq := &models.Equipment{Name: "Item " + d}
		require.NoError(t, r.equipment.Add(ctx, eq))
		pid := int64(1 + i%2)
		require.NoError(t, r.supplies.Add(ctx, &models.Supply{SupplyKey: models.SupplyKey{EquipmentID: eq.ID, PID: pid}, SupplyDate: date(d)}))
	}

	recent, err := r.supplies.Recent(ctx, 2)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, "2024-03-01", recent[0].SupplyDate.String())
	assert.Equal(t, "2024-02-01", recent[1].SupplyDate.String())

	latest, err := r.supplies.Recent(ctx, 0)
	require.NoError(t, err)
	require.Len(t, latest, 1)
	assert.Equal(t, "2024-03-01", latest[0].SupplyDate.String())

	opts, err := r.supplies.PersonOptions(ctx)
	require.NoError(t, err)
	require.Len(t, opts, 2)
	assert.Equal(t, "Bea", opts[0].FirstName)
	assert.Equal(t, "Zoe", opts[1].FirstName)

	next, err := r.people.NextPID(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(4), next)
}

func TestNextPIDOnEmptyTable(t *testing.T) {
	r := setup(t)
	next, err := r.people.NextPID(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1), next)
}

func TestSearch(t *testing.T) {
	ctx := context.Background()
	r := setup(t)

	require.NoError(t, r.suppliers.Add(ctx, &models.Supplier{Person: person(1, "Ana", "Silva")}))
	items := []*models.Equipment{
		{Name: "Treadmill", Category: models.CategoryCardio, Brand: null.StringFrom("Technogym")},
		{Name: "Rowing Machine", Category: models.CategoryCardio},
		{Name: "Squat Rack", Category: models.CategoryStrength, Brand: null.StringFrom("Rogue")},
	}
	for _, e := range items {
		require.NoError(t, r.equipment.Add(ctx, e))
	}
	require.NoError(t, r.supplies.Add(ctx, &models.Supply{SupplyKey: models.SupplyKey{EquipmentID: items[2].ID, PID: 1}}))

	found, err := r.equipment.Search(ctx, repository.SearchFilter{Text: "TECHNO"})
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "Treadmill", found[0].Name)

	found, err = r.equipment.Search(ctx, repository.SearchFilter{Category: models.CategoryCardio, Limit: 1})
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, items[0].ID, found[0].ID)

	found, err = r.equipment.Search(ctx, repository.SearchFilter{Text: "'; DROP TABLE equipment; --"})
	require.NoError(t, err)
	assert.Empty(t, found)
	assert.Equal(t, int64(3), testdb.Count(t, r.tx, "equipment", ""))

	rows, err := r.supplies.Search(ctx, repository.SearchFilter{Text: "silva"})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Squat Rack", rows[0].EquipmentName)
	assert.Equal(t, "Supplier", rows[0].PersonRole)

	rows, err = r.supplies.Search(ctx, repository.SearchFilter{Category: models.CategoryCardio})
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestEquipmentPage(t *testing.T) {
	ctx := context.Background()
	r := setup(t)

	for _, name := range []string{"Bench", "Bike", "Rower", "Mat", "Rack"} {
		require.NoError(t, r.equipment.Add(ctx, &models.Equipment{Name: name}))
	}

	page, err := r.equipment.Page(ctx, repository.SearchFilter{}, types.NewPageRequest(2, 2))
	require.NoError(t, err)
	assert.Equal(t, int64(5), page.Total)
	assert.Equal(t, 3, page.Pages())
	require.Len(t, page.Items, 2)
	assert.Equal(t, "Rower", page.Items[0].Name)
	assert.Equal(t, "Mat", page.Items[1].Name)

	page, err = r.equipment.Page(ctx, repository.SearchFilter{Text: "b"}, types.NewPageRequest(1, 10))
	require.NoError(t, err)
	assert.Equal(t, int64(2), page.Total)
	assert.Len(t, page.Items, 2)

	page, err = r.equipment.Page(ctx, repository.SearchFilter{}, types.NewPageRequest(9, 10))
	require.NoError(t, err)
	assert.Equal(t, int64(5), page.Total)
	assert.Empty(t, page.Items)
	assert.Equal(t, database.TxCommitted, r.tx.State())
}
