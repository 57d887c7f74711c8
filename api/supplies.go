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
	"strconv"

	"github.com/tomoncle/gymdesk/models"
)

func supplyKey(r *http.Request) (models.SupplyKey, error) {
	equipmentID, err := pathID(r, "equipmentID")
	if err != nil {
		return models.SupplyKey{}, err
	}
	pid, err := pathID(r, "pid")
	if err != nil {
		return models.SupplyKey{}, err
	}
	return models.SupplyKey{EquipmentID: equipmentID, PID: pid}, nil
}

// listSupplies returns every relationship, the matches of ?q= and
// ?category=, or the newest ?limit=n.
func (s *Server) listSupplies(w http.ResponseWriter, r *http.Request) {
	var (
		rows []models.SupplyView
		err  error
	)
	if filter, ok := searchFilter(r); ok {
		rows, err = s.store.Supplies.Search(r.Context(), filter)
	} else if raw := r.URL.Query().Get("limit"); raw != "" {
		n, convErr := strconv.Atoi(raw)
		if convErr != nil || n < 1 {
			s.jsonError(w, "limit must be a positive integer", http.StatusBadRequest)
			return
		}
		rows, err = s.store.Supplies.Recent(r.Context(), n)
	} else {
		rows, err = s.store.Supplies.List(r.Context())
	}
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if rows == nil {
		rows = []models.SupplyView{}
	}
	s.writeJSON(w, http.StatusOK, rows)
}

func (s *Server) createSupply(w http.ResponseWriter, r *http.Request) {
	var supply models.Supply
	if err := decode(r, &supply); err != nil {
		s.jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := s.store.Supplies.Add(r.Context(), &supply); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, supply)
}

func (s *Server) getSupply(w http.ResponseWriter, r *http.Request) {
	key, err := supplyKey(r)
	if err != nil {
		s.jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}
	supply, err := s.store.Supplies.Get(r.Context(), key)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, supply)
}

// updateSupply edits the row addressed by the URL; key fields in the body
// are ignored.
func (s *Server) updateSupply(w http.ResponseWriter, r *http.Request) {
	key, err := supplyKey(r)
	if err != nil {
		s.jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}
	var supply models.Supply
	if err := decode(r, &supply); err != nil {
		s.jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := s.store.Supplies.Update(r.Context(), key, &supply); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, supply)
}

func (s *Server) deleteSupply(w http.ResponseWriter, r *http.Request) {
	key, err := supplyKey(r)
	if err != nil {
		s.jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := s.store.Supplies.Delete(r.Context(), key); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.jsonMessage(w, "Deleted successfully")
}

func (s *Server) equipmentOptions(w http.ResponseWriter, r *http.Request) {
	opts, err := s.store.Supplies.EquipmentOptions(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if opts == nil {
		opts = []models.EquipmentOption{}
	}
	s.writeJSON(w, http.StatusOK, opts)
}

func (s *Server) personOptions(w http.ResponseWriter, r *http.Request) {
	opts, err := s.store.Supplies.PersonOptions(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if opts == nil {
		opts = []models.PersonOption{}
	}
	s.writeJSON(w, http.StatusOK, opts)
}
