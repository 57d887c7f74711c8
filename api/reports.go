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

package api

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/tomoncle/gymdesk/models"
	"github.com/tomoncle/gymdesk/repository"
	"github.com/tomoncle/gymdesk/types"
)

// ReportFunc runs one named tabular report.
type ReportFunc func(ctx context.Context, reports repository.ReportRepository) (interface{}, error)

// Reports lists the tabular reports by the name used in URLs and on the
// command line.
var Reports = map[string]ReportFunc{
	"equipment-by-person": func(ctx context.Context, rr repository.ReportRepository) (interface{}, error) {
		return rr.EquipmentByPerson(ctx)
	},
	"person-summary": func(ctx context.Context, rr repository.ReportRepository) (interface{}, error) {
		return rr.PersonSummary(ctx)
	},
	"equipment-stats": func(ctx context.Context, rr repository.ReportRepository) (interface{}, error) {
		return rr.EquipmentStats(ctx)
	},
	"supply-timeline": func(ctx context.Context, rr repository.ReportRepository) (interface{}, error) {
		return rr.SupplyTimeline(ctx)
	},
	"top-workers": func(ctx context.Context, rr repository.ReportRepository) (interface{}, error) {
		return rr.TopWorkersByHours(ctx)
	},
	"maintenance-needs": func(ctx context.Context, rr repository.ReportRepository) (interface{}, error) {
		return rr.MaintenanceNeeds(ctx)
	},
	"contract-candidates": func(ctx context.Context, rr repository.ReportRepository) (interface{}, error) {
		return rr.ContractCandidates(ctx)
	},
	"maintenance-status": func(ctx context.Context, rr repository.ReportRepository) (interface{}, error) {
		return rr.MaintenanceStatus(ctx)
	},
}

type orderRequest struct {
	SupplierID int64      `json:"supplier_id" validate:"required,gt=0"`
	OrderDate  types.Date `json:"order_date"`
}

func (s *Server) dashboard(w http.ResponseWriter, r *http.Request) {
	d, err := s.store.Reports.Dashboard(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, d)
}

func (s *Server) report(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	fn, ok := Reports[name]
	if !ok {
		s.jsonError(w, "unknown report "+name, http.StatusNotFound)
		return
	}
	rows, err := fn(r.Context(), s.store.Reports)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, rows)
}

func (s *Server) maintenanceStatus(w http.ResponseWriter, r *http.Request) {
	rows, err := s.store.Reports.MaintenanceStatus(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, rows)
}

func (s *Server) workerShiftSummary(w http.ResponseWriter, r *http.Request) {
	pid, err := pathID(r, "pid")
	if err != nil {
		s.jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}
	row, err := s.store.Reports.WorkerShiftSummary(r.Context(), pid)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, row)
}

func (s *Server) contractCandidates(w http.ResponseWriter, r *http.Request) {
	rows, err := s.store.Reports.ContractCandidates(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if rows == nil {
		rows = []models.ContractCandidate{}
	}
	s.writeJSON(w, http.StatusOK, rows)
}

func (s *Server) updateContract(w http.ResponseWriter, r *http.Request) {
	var update models.ContractUpdate
	if err := decode(r, &update); err != nil {
		s.jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := s.store.Reports.UpdateWorkerContract(r.Context(), update); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.jsonMessage(w, "Contract updated")
}

func (s *Server) processOrders(w http.ResponseWriter, r *http.Request) {
	var req orderRequest
	if err := decode(r, &req); err != nil {
		s.jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := models.Validate(&req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if !req.OrderDate.Valid {
		s.jsonError(w, "order_date is required", http.StatusBadRequest)
		return
	}
	if err := s.store.Reports.ProcessEquipmentOrders(r.Context(), req.SupplierID, req.OrderDate.Time); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.jsonMessage(w, "Orders processed")
}
