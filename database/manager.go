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

package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/mysqldialect"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
	"github.com/uptrace/bun/extra/bundebug"
)

// ErrNotConnected is returned when an operation needs an open connection
// and Connect has not succeeded yet.
var ErrNotConnected = errors.New("database not connected")

// Manager owns the lifecycle of exactly one database connection. It never
// reconnects on its own; after a failure the caller must invoke Connect.
type Manager struct {
	config *ConnectionConfig
	db     *bun.DB
	logger Logger
	mu     sync.RWMutex
}

// NewManager returns a Manager for config. A nil config falls back to
// DefaultConnectionConfig.
func NewManager(config *ConnectionConfig) *Manager {
	if config == nil {
		config = DefaultConnectionConfig()
	}
	return &Manager{config: config, logger: GetLogger()}
}

// Config returns the connection parameters the manager was built with.
func (m *Manager) Config() *ConnectionConfig {
	return m.config
}

func (m *Manager) SetLogger(logger Logger) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if logger != nil {
		m.logger = logger
	}
}

// Connect opens and verifies the connection. Calling it while connected is a
// no-op. Every failure is reported as a KindConnectivity error.
func (m *Manager) Connect(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.db != nil {
		return nil
	}

	if m.config.ConnectTimeout <= 0 {
		m.config.ConnectTimeout = 30 * time.Second
	}

	db, err := m.open()
	if err != nil {
		m.logger.Error("Database connection failed", "type", m.config.Type, "host", m.config.Host, "error", err)
		return NewError(KindConnectivity, "connect", err)
	}

	ctxTimeout, cancel := context.WithTimeout(ctx, m.config.ConnectTimeout)
	defer cancel()

	if err := db.PingContext(ctxTimeout); err != nil {
		_ = db.Close()
		m.logger.Error("Database connection failed", "type", m.config.Type, "host", m.config.Host, "dbname", m.config.DBName, "error", err)
		return NewError(KindConnectivity, "connect", fmt.Errorf("cannot reach %s database %q on %s: %w",
			m.config.Type, m.config.DBName, m.address(), err))
	}

	if m.isSQLite() {
		if _, err := db.ExecContext(ctxTimeout, "PRAGMA foreign_keys = ON"); err != nil {
			_ = db.Close()
			return NewError(KindConnectivity, "connect", err)
		}
	}

	m.db = db
	m.logger.Info("Database connected successfully:", "type", m.config.Type, "host", m.config.Host, "dbname", m.config.DBName)
	return nil
}

func (m *Manager) open() (*bun.DB, error) {
	var (
		sqlDB *sql.DB
		db    *bun.DB
		err   error
	)

	switch m.config.Type {
	case "mysql":
		sqlDB, err = sql.Open("mysql", m.mysqlDSN())
		if err == nil {
			db = bun.NewDB(sqlDB, mysqldialect.New())
		}
	case "postgres", "postgresql":
		sqlDB, err = sql.Open("postgres", m.postgresDSN())
		if err == nil {
			db = bun.NewDB(sqlDB, pgdialect.New())
		}
	case "sqlite", "sqlite3":
		sqlDB, err = sql.Open(sqliteshim.ShimName, m.sqliteDSN())
		if err == nil {
			db = bun.NewDB(sqlDB, sqlitedialect.New())
		}
	default:
		return nil, fmt.Errorf("unsupported database type: %s", m.config.Type)
	}
	if err != nil {
		return nil, err
	}

	// one connection, kept for the whole session
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)
	sqlDB.SetConnMaxLifetime(0)
	sqlDB.SetConnMaxIdleTime(0)

	if m.config.EnableQueryLog {
		db.AddQueryHook(bundebug.NewQueryHook(
			bundebug.WithVerbose(true),
			bundebug.FromEnv("BUNDEBUG"),
		))
	}
	db.AddQueryHook(NewStatementHook(m.config.SlowQueryTime, m.logger))

	return db, nil
}

func (m *Manager) mysqlDSN() string {
	// clientFoundRows makes RowsAffected count matched rows, not changed rows
	return fmt.Sprintf("%s:%s@tcp(%s)/%s?charset=utf8mb4&parseTime=True&loc=Local&clientFoundRows=true&timeout=%s&readTimeout=%s&writeTimeout=%s",
		m.config.Username,
		m.config.Password,
		m.address(),
		m.config.DBName,
		m.config.ConnectTimeout,
		m.config.ReadTimeout,
		m.config.WriteTimeout,
	)
}

func (m *Manager) postgresDSN() string {
	sslMode := m.config.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(m.config.Username, m.config.Password),
		Host:   m.address(),
		Path:   "/" + m.config.DBName,
	}
	q := url.Values{}
	q.Set("sslmode", sslMode)
	q.Set("connect_timeout", fmt.Sprintf("%d", int(m.config.ConnectTimeout.Seconds())))
	u.RawQuery = q.Encode()
	return u.String()
}

func (m *Manager) sqliteDSN() string {
	name := m.config.DBName
	switch {
	case name == "" || name == ":memory:":
		return "file::memory:"
	case strings.HasPrefix(name, "file:"), strings.HasSuffix(name, ".db"), strings.HasSuffix(name, ".sqlite"):
		return name
	default:
		return name + ".db"
	}
}

func (m *Manager) address() string {
	if m.config.Port > 0 {
		return fmt.Sprintf("%s:%d", m.config.Host, m.config.Port)
	}
	return m.config.Host
}

func (m *Manager) isSQLite() bool {
	return m.config.Type == "sqlite" || m.config.Type == "sqlite3"
}

// Disconnect closes the connection if it is open. It is safe to call on a
// closed manager.
func (m *Manager) Disconnect() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.db == nil {
		return nil
	}

	err := m.db.Close()
	m.db = nil
	if err != nil {
		m.logger.Error("Failed to close database connection", "error", err)
		return NewError(KindConnectivity, "disconnect", err)
	}
	m.logger.Info("Database connection closed")
	return nil
}

func (m *Manager) Connected() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.db != nil
}

func (m *Manager) Ping(ctx context.Context) error {
	db := m.DB()
	if db == nil {
		return NewError(KindConnectivity, "ping", ErrNotConnected)
	}
	if err := db.PingContext(ctx); err != nil {
		return NewError(KindConnectivity, "ping", err)
	}
	return nil
}

// DB returns the Bun handle, or nil when not connected.
func (m *Manager) DB() *bun.DB {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.db
}

// HealthCheck pings the connection and reports the outcome. It does not
// attempt to reconnect.
func (m *Manager) HealthCheck(ctx context.Context) *HealthStatus {
	start := time.Now()
	status := &HealthStatus{
		LastCheckTime: start,
		Type:          m.config.Type,
		Connected:     m.Connected(),
	}
	if !status.Connected {
		status.LastError = ErrNotConnected.Error()
		return status
	}

	ctxTimeout, cancel := context.WithTimeout(ctx, time.Second*5)
	defer cancel()

	err := m.Ping(ctxTimeout)
	status.ResponseTime = time.Since(start)
	if err != nil {
		status.LastError = err.Error()
		return status
	}
	status.Healthy = true
	return status
}

func (m *Manager) Stats() *DBStats {
	db := m.DB()
	if db == nil {
		return &DBStats{}
	}
	stats := db.DB.Stats()
	return &DBStats{
		MaxOpenConns: stats.MaxOpenConnections,
		OpenConns:    stats.OpenConnections,
		InUse:        stats.InUse,
		Idle:         stats.Idle,
		WaitCount:    stats.WaitCount,
		WaitDuration: stats.WaitDuration,
	}
}
