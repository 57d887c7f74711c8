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

// Package gymdesk wires the connection manager, the transaction coordinator
// and the entity repositories of the gym database into one Store.
package gymdesk

import (
	"context"
	"fmt"

	"github.com/tomoncle/gymdesk/database"
	"github.com/tomoncle/gymdesk/repository"
)

// Store bundles the repositories that share one connection. It is not safe
// for concurrent use; callers serialize access.
type Store struct {
	manager *database.Manager
	tx      *database.TxManager

	People    repository.PersonRepository
	Workers   repository.WorkerRepository
	Suppliers repository.SupplierRepository
	Equipment repository.EquipmentRepository
	Supplies  repository.SupplyRepository
	Reports   repository.ReportRepository
}

// NewStore builds a Store over an existing transaction manager.
func NewStore(tx *database.TxManager) *Store {
	return &Store{
		manager:   tx.Manager(),
		tx:        tx,
		People:    repository.NewPersonRepository(tx),
		Workers:   repository.NewWorkerRepository(tx),
		Suppliers: repository.NewSupplierRepository(tx),
		Equipment: repository.NewEquipmentRepository(tx),
		Supplies:  repository.NewSupplyRepository(tx),
		Reports:   repository.NewReportRepository(tx),
	}
}

// Open connects using cfg and returns a ready Store.
func Open(ctx context.Context, cfg *database.ConnectionConfig) (*Store, error) {
	manager, err := database.NewManagerFromConfig(cfg)
	if err != nil {
		return nil, err
	}
	if err := manager.Connect(ctx); err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return NewStore(database.NewTxManager(manager)), nil
}

func (s *Store) Manager() *database.Manager { return s.manager }

func (s *Store) Tx() *database.TxManager { return s.tx }

// Close disconnects; calling it twice is harmless.
func (s *Store) Close() error {
	return s.manager.Disconnect()
}
