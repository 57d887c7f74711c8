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
	"fmt"
	"net/http"
	"strconv"

	"github.com/tomoncle/gymdesk/models"
	"github.com/tomoncle/gymdesk/repository"
	"github.com/tomoncle/gymdesk/types"
)

func searchFilter(r *http.Request) (repository.SearchFilter, bool) {
	q := r.URL.Query()
	filter := repository.SearchFilter{Text: q.Get("q")}
	if c := q.Get("category"); c != "" {
		filter.Category = models.ParseCategory(c)
	}
	return filter, filter.Text != "" || filter.Category != ""
}

// pageRequest reads ?page= and ?page_size=; ok is false when neither is set.
func pageRequest(r *http.Request) (page types.PageRequest, ok bool, err error) {
	q := r.URL.Query()
	for _, p := range []struct {
		name string
		dest *int
	}{{"page", &page.Page}, {"page_size", &page.PageSize}} {
		v := q.Get(p.name)
		if v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return page, false, fmt.Errorf("invalid %s %q", p.name, v)
		}
		*p.dest = n
		ok = true
	}
	return page, ok, nil
}

// listEquipment returns every item, or the matches of ?q= and ?category=.
// With ?page= or ?page_size= the response is one page wrapped with the
// total count.
func (s *Server) listEquipment(w http.ResponseWriter, r *http.Request) {
	page, paged, err := pageRequest(r)
	if err != nil {
		s.jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}
	filter, filtered := searchFilter(r)
	if paged {
		result, err := s.store.Equipment.Page(r.Context(), filter, page)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		s.writeJSON(w, http.StatusOK, result)
		return
	}

	var items []models.Equipment
	if filtered {
		items, err = s.store.Equipment.Search(r.Context(), filter)
	} else {
		items, err = s.store.Equipment.List(r.Context())
	}
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if items == nil {
		items = []models.Equipment{}
	}
	s.writeJSON(w, http.StatusOK, items)
}

func (s *Server) createEquipment(w http.ResponseWriter, r *http.Request) {
	var e models.Equipment
	if err := decode(r, &e); err != nil {
		s.jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}
	e.Category = models.ParseCategory(string(e.Category))
	if err := s.store.Equipment.Add(r.Context(), &e); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, e)
}

func (s *Server) getEquipment(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}
	e, err := s.store.Equipment.Get(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, e)
}

func (s *Server) updateEquipment(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}
	var e models.Equipment
	if err := decode(r, &e); err != nil {
		s.jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}
	e.Category = models.ParseCategory(string(e.Category))
	if err := s.store.Equipment.Update(r.Context(), id, &e); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, e)
}

func (s *Server) deleteEquipment(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := s.store.Equipment.Delete(r.Context(), id); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.jsonMessage(w, "Deleted successfully")
}
