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

package gymdesk

import (
	"fmt"
	"os"
	"time"

	"github.com/tomoncle/gymdesk/database"
	"github.com/tomoncle/gymdesk/utils"
	"gopkg.in/yaml.v3"
)

// ServerConfig configures the REST adapter.
type ServerConfig struct {
	Addr            string        `yaml:"addr"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// LogConfig configures the named loggers.
type LogConfig struct {
	Level  string              `yaml:"level"`
	Format string              `yaml:"format"`
	File   utils.FileLogConfig `yaml:"file"`
}

// Config is the gymctl configuration file.
type Config struct {
	Database database.ConnectionConfig `yaml:"database"`
	Scripts  database.ScriptConfig     `yaml:"scripts"`
	Server   ServerConfig              `yaml:"server"`
	Log      LogConfig                 `yaml:"log"`
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() *Config {
	return &Config{
		Database: *database.DefaultConnectionConfig(),
		Scripts:  database.ScriptConfig{Dir: "configs/sql", Environment: "dev"},
		Server: ServerConfig{
			Addr:            ":8000",
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    30 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		Log: LogConfig{Level: "info", Format: "text"},
	}
}

// LoadConfig reads a YAML file over DefaultConfig. An empty path returns
// the defaults.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return cfg, nil
}

// ApplyLogging configures the utils loggers from c.Log.
func (c *Config) ApplyLogging() {
	utils.ConfigureLogLevel(c.Log.Level)
	utils.ConfigureConsoleLogFormat(c.Log.Format)
	utils.ConfigureFileLogFormat(c.Log.Format)
	utils.ConfigureFileLog(c.Log.File)
}
