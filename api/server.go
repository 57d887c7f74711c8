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
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"
	"github.com/tomoncle/gymdesk"
	"github.com/tomoncle/gymdesk/utils"
)

// Server exposes the store over HTTP. Requests are handled one at a time
// because every repository call shares the single database connection.
type Server struct {
	store  *gymdesk.Store
	config gymdesk.ServerConfig
	router *chi.Mux
	logger *logrus.Logger
	mu     sync.Mutex
}

func NewServer(store *gymdesk.Store, config gymdesk.ServerConfig) *Server {
	s := &Server{
		store:  store,
		config: config,
		router: chi.NewRouter(),
		logger: utils.NewLogger("API"),
	}
	s.setupRoutes()
	return s
}

// Handler returns the root handler, mostly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) setupRoutes() {
	r := s.router

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(chimiddleware.Recoverer)
	r.Use(s.serialize)
	if s.config.WriteTimeout > 0 {
		r.Use(chimiddleware.Timeout(s.config.WriteTimeout))
	}

	r.Get("/healthz", s.health)

	r.Route("/equipment", func(r chi.Router) {
		r.Get("/", s.listEquipment)
		r.Post("/", s.createEquipment)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.getEquipment)
			r.Put("/", s.updateEquipment)
			r.Delete("/", s.deleteEquipment)
		})
	})

	r.Get("/people", s.listPeople)
	r.Get("/people/next-pid", s.nextPID)

	r.Route("/workers", func(r chi.Router) {
		r.Get("/", s.listWorkers)
		r.Post("/", s.createWorker)
		r.Route("/{pid}", func(r chi.Router) {
			r.Get("/", s.getWorker)
			r.Put("/", s.updateWorker)
			r.Delete("/", s.deleteWorker)
		})
	})

	r.Route("/suppliers", func(r chi.Router) {
		r.Get("/", s.listSuppliers)
		r.Post("/", s.createSupplier)
		r.Route("/{pid}", func(r chi.Router) {
			r.Get("/", s.getSupplier)
			r.Put("/", s.updateSupplier)
			r.Delete("/", s.deleteSupplier)
		})
	})

	r.Route("/supplies", func(r chi.Router) {
		r.Get("/", s.listSupplies)
		r.Post("/", s.createSupply)
		r.Get("/options/equipment", s.equipmentOptions)
		r.Get("/options/people", s.personOptions)
		r.Route("/{equipmentID}/{pid}", func(r chi.Router) {
			r.Get("/", s.getSupply)
			r.Put("/", s.updateSupply)
			r.Delete("/", s.deleteSupply)
		})
	})

	r.Route("/reports", func(r chi.Router) {
		r.Get("/dashboard", s.dashboard)
		r.Get("/maintenance-status", s.maintenanceStatus)
		r.Get("/workers/{pid}/shifts", s.workerShiftSummary)
		r.Get("/contracts", s.contractCandidates)
		r.Post("/contracts", s.updateContract)
		r.Post("/orders", s.processOrders)
		r.Get("/{name}", s.report)
	})
}

// serialize admits one request at a time.
func (s *Server) serialize(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		defer s.mu.Unlock()
		next.ServeHTTP(w, r)
	})
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.WithFields(logrus.Fields{
			"method":     r.Method,
			"path":       r.URL.Path,
			"status":     ww.Status(),
			"bytes":      ww.BytesWritten(),
			"duration":   time.Since(start).Round(time.Microsecond),
			"request_id": chimiddleware.GetReqID(r.Context()),
		}).Debug("HTTP request")
	})
}

// Start serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	server := &http.Server{
		Addr:         s.config.Addr,
		Handler:      s.router,
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout + 5*time.Second,
		IdleTimeout:  120 * time.Second,
	}

	errChan := make(chan error, 1)
	go func() {
		s.logger.WithField("addr", s.config.Addr).Info("Starting HTTP server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
	}()

	select {
	case <-ctx.Done():
		s.logger.Info("Shutting down HTTP server")
		timeout := s.config.ShutdownTimeout
		if timeout <= 0 {
			timeout = 10 * time.Second
		}
		shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	case err := <-errChan:
		return err
	}
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	status := s.store.Manager().HealthCheck(r.Context())
	status.TxState = s.store.Tx().State().String()
	code := http.StatusOK
	if !status.Healthy {
		code = http.StatusServiceUnavailable
	}
	s.writeJSON(w, code, map[string]interface{}{
		"database": status,
		"stats":    s.store.Manager().Stats(),
	})
}
