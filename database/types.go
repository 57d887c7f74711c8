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
	"time"
)

// HealthStatus holds the result of a health check against the connection.
type HealthStatus struct {
	Healthy       bool          `json:"healthy"`
	Connected     bool          `json:"connected"`
	Type          string        `json:"type"`
	ResponseTime  time.Duration `json:"response_time"`
	TxState       string        `json:"tx_state,omitempty"`
	LastError     string        `json:"last_error,omitempty"`
	LastCheckTime time.Time     `json:"last_check_time"`
}

// DBStats mirrors database/sql stats for the single managed connection.
type DBStats struct {
	MaxOpenConns int           `json:"max_open_conns"`
	OpenConns    int           `json:"open_conns"`
	InUse        int           `json:"in_use"`
	Idle         int           `json:"idle"`
	WaitCount    int64         `json:"wait_count"`
	WaitDuration time.Duration `json:"wait_duration"`
}

// ConnectionConfig describes the fixed parameters of the single connection.
type ConnectionConfig struct {
	Type           string        `json:"type" yaml:"type"` // postgres、mysql、sqlite
	Host           string        `json:"host" yaml:"host"`
	Port           int           `json:"port" yaml:"port"`
	Username       string        `json:"username" yaml:"username"`
	Password       string        `json:"-" yaml:"password"`
	DBName         string        `json:"dbname" yaml:"dbname"`
	SSLMode        string        `json:"sslmode" yaml:"sslmode"`
	ConnectTimeout time.Duration `json:"connect_timeout" yaml:"connect_timeout"`
	ReadTimeout    time.Duration `json:"read_timeout" yaml:"read_timeout"`
	WriteTimeout   time.Duration `json:"write_timeout" yaml:"write_timeout"`
	EnableQueryLog bool          `json:"enable_query_log" yaml:"enable_query_log"`
	SlowQueryTime  time.Duration `json:"slow_query_time" yaml:"slow_query_time"`
}

// ScriptConfig points the script runner at a directory of .sql files.
type ScriptConfig struct {
	Dir         string `json:"dir" yaml:"dir"`
	Environment string `json:"environment" yaml:"environment"`
}

// DefaultConnectionConfig returns a postgres config with sensible defaults.
func DefaultConnectionConfig() *ConnectionConfig {
	return &ConnectionConfig{
		Type:           "postgres",
		Host:           "localhost",
		Port:           5432,
		Username:       "postgres",
		DBName:         "gym",
		SSLMode:        "disable",
		ConnectTimeout: time.Second * 10,
		ReadTimeout:    time.Second * 30,
		WriteTimeout:   time.Second * 30,
		EnableQueryLog: false,
		SlowQueryTime:  time.Second * 2,
	}
}
