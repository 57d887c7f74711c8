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
	"net/http"

	"github.com/tomoncle/gymdesk/models"
)

func (s *Server) listPeople(w http.ResponseWriter, r *http.Request) {
	people, err := s.store.People.List(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if people == nil {
		people = []models.Person{}
	}
	s.writeJSON(w, http.StatusOK, people)
}

func (s *Server) nextPID(w http.ResponseWriter, r *http.Request) {
	next, err := s.store.People.NextPID(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]int64{"pid": next})
}

func (s *Server) listWorkers(w http.ResponseWriter, r *http.Request) {
	workers, err := s.store.Workers.List(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if workers == nil {
		workers = []models.Worker{}
	}
	s.writeJSON(w, http.StatusOK, workers)
}

func (s *Server) createWorker(w http.ResponseWriter, r *http.Request) {
	var worker models.Worker
	if err := decode(r, &worker); err != nil {
		s.jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := s.store.Workers.Add(r.Context(), &worker); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, worker)
}

func (s *Server) getWorker(w http.ResponseWriter, r *http.Request) {
	pid, err := pathID(r, "pid")
	if err != nil {
		s.jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}
	worker, err := s.store.Workers.Get(r.Context(), pid)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, worker)
}

func (s *Server) updateWorker(w http.ResponseWriter, r *http.Request) {
	pid, err := pathID(r, "pid")
	if err != nil {
		s.jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}
	var worker models.Worker
	if err := decode(r, &worker); err != nil {
		s.jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := s.store.Workers.Update(r.Context(), pid, &worker); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, worker)
}

func (s *Server) deleteWorker(w http.ResponseWriter, r *http.Request) {
	pid, err := pathID(r, "pid")
	if err != nil {
		s.jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := s.store.Workers.Delete(r.Context(), pid); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.jsonMessage(w, "Deleted successfully")
}

func (s *Server) listSuppliers(w http.ResponseWriter, r *http.Request) {
	suppliers, err := s.store.Suppliers.List(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if suppliers == nil {
		suppliers = []models.Supplier{}
	}
	s.writeJSON(w, http.StatusOK, suppliers)
}

func (s *Server) createSupplier(w http.ResponseWriter, r *http.Request) {
	var supplier models.Supplier
	if err := decode(r, &supplier); err != nil {
		s.jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := s.store.Suppliers.Add(r.Context(), &supplier); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, supplier)
}

func (s *Server) getSupplier(w http.ResponseWriter, r *http.Request) {
	pid, err := pathID(r, "pid")
	if err != nil {
		s.jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}
	supplier, err := s.store.Suppliers.Get(r.Context(), pid)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, supplier)
}

func (s *Server) updateSupplier(w http.ResponseWriter, r *http.Request) {
	pid, err := pathID(r, "pid")
	if err != nil {
		s.jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}
	var supplier models.Supplier
	if err := decode(r, &supplier); err != nil {
		s.jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := s.store.Suppliers.Update(r.Context(), pid, &supplier); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, supplier)
}

func (s *Server) deleteSupplier(w http.ResponseWriter, r *http.Request) {
	pid, err := pathID(r, "pid")
	if err != nil {
		s.jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := s.store.Suppliers.Delete(r.Context(), pid); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.jsonMessage(w, "Deleted successfully")
}
