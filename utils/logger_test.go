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

package utils

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func entry(msg string, fields logrus.Fields) *logrus.Entry {
	e := logrus.NewEntry(logrus.New()).WithFields(fields)
	e.Time = time.Date(2024, 1, 15, 8, 30, 0, 0, time.UTC)
	e.Level = logrus.WarnLevel
	e.Message = msg
	return e
}

func TestLog4jFormatter(t *testing.T) {
	f := &Log4jColorFormatter{LoggerName: "DATABASE", NameWidth: 10}
	out, err := f.Format(entry("Slow statement", logrus.Fields{"query": "SELECT 1", "duration": "3s"}))
	require.NoError(t, err)

	line := string(out)
	assert.True(t, strings.HasPrefix(line, "2024-01-15 08:30:00.000 WARNING "))
	assert.Contains(t, line, "[  DATABASE] : Slow statement duration=3s query=SELECT 1")
	assert.NotContains(t, line, "\x1b[")
}

func TestJSONFormatter(t *testing.T) {
	f := &JSONLogFormatter{LoggerName: "API"}
	out, err := f.Format(entry("Request failed", logrus.Fields{"error": errors.New("boom")}))
	require.NoError(t, err)

	var rec map[string]interface{}
	require.NoError(t, json.Unmarshal(out, &rec))
	assert.Equal(t, "API", rec["logger"])
	assert.Equal(t, "warning", rec["level"])
	assert.Equal(t, map[string]interface{}{"error": "boom"}, rec["fields"])
}

func TestNamedLoggerWritesConsoleAndFile(t *testing.T) {
	var console bytes.Buffer
	SetConsoleOutput(&console)
	t.Cleanup(func() { SetConsoleOutput(os.Stdout) })

	path := filepath.Join(t.TempDir(), "logs", "test.log")
	ConfigureFileLog(FileLogConfig{Enabled: true, Path: path})
	t.Cleanup(func() { ConfigureFileLog(FileLogConfig{}) })

	log := NewLogger("UTILS-TEST")
	assert.Same(t, log, NewLogger("UTILS-TEST"))
	log.WithField("pid", 501).Error("worker missing")

	assert.Contains(t, console.String(), "worker missing")
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "worker missing pid=501")
}

func TestParseLogLevel(t *testing.T) {
	assert.Equal(t, logrus.DebugLevel, ParseLogLevel("DEBUG"))
	assert.Equal(t, logrus.WarnLevel, ParseLogLevel("warning"))
	assert.Equal(t, logrus.InfoLevel, ParseLogLevel("nonsense"))
}

func TestEnvDefaults(t *testing.T) {
	t.Setenv("GYM_TEST_BOOL", "true")
	t.Setenv("GYM_TEST_DURATION", "90s")
	assert.True(t, EnvDefaultBool("GYM_TEST_BOOL", false))
	assert.Equal(t, 90*time.Second, EnvDefaultDuration("GYM_TEST_DURATION", time.Second))
	assert.Equal(t, "fallback", EnvDefaultString("GYM_TEST_UNSET", "fallback"))
}
