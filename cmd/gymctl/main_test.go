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

package main

import (
	"bytes"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/tomoncle/gymdesk/database"
	"github.com/tomoncle/gymdesk/internal/testdb"
)

type cli struct {
	t      *testing.T
	config string
}

// newCLI writes a config pointing at a file-backed SQLite database and
// seeds the tables through the seed command.
func newCLI(t *testing.T) *cli {
	dir := t.TempDir()

	scripts := filepath.Join(dir, "sql")
	require.NoError(t, os.MkdirAll(scripts, 0o755))
	require.NoError(t, fs.WalkDir(testdb.Schema(), ".", func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		data, err := fs.ReadFile(testdb.Schema(), path)
		if err != nil {
			return err
		}
		return os.WriteFile(filepath.Join(scripts, path), data, 0o644)
	}))

	config := filepath.Join(dir, "gymdesk.yaml")
	require.NoError(t, os.WriteFile(config, []byte(`
database:
  type: sqlite
  dbname: `+filepath.Join(dir, "gym.db")+`
  connect_timeout: 5s
scripts:
  dir: `+scripts+`
  environment: ""
log:
  level: error
`), 0o644))

	c := &cli{t: t, config: config}
	c.ok("seed")
	return c
}

func (c *cli) run(args ...string) (string, error) {
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append([]string{"--config", c.config, "--env-file", ""}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func (c *cli) ok(args ...string) string {
	c.t.Helper()
	out, err := c.run(args...)
	require.NoError(c.t, err, "gymctl %s", strings.Join(args, " "))
	return out
}

func TestWorkerCommands(t *testing.T) {
	c := newCLI(t)

	out := c.ok("workers", "add", "--first", "Ana", "--last", "Silva", "--job", "Trainer", "--employed", "2023-03-01")
	assert.Contains(t, out, "Trainer")

	out = c.ok("workers", "list")
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "PID")
	assert.Contains(t, lines[1], "Ana")
	assert.Contains(t, lines[1], "2023-03-01")

	c.ok("workers", "update", "1", "--first", "Ana", "--last", "Costa", "--job", "Manager")
	assert.Contains(t, c.ok("workers", "get", "1"), "Costa")

	assert.Equal(t, "2\n", c.ok("people", "next-pid"))

	c.ok("workers", "delete", "1")
	_, err := c.run("workers", "delete", "1")
	require.Error(t, err)
	assert.True(t, database.IsNotFound(err))

	// the person row survives the role
	assert.Contains(t, c.ok("people"), "Costa")
}

func TestEquipmentAndSupplyCommands(t *testing.T) {
	c := newCLI(t)

	c.ok("suppliers", "add", "--pid", "501", "--first", "Rui", "--last", "Matos")
	out := c.ok("equipment", "add", "--name", "Treadmill", "--category", "cardio", "--brand", "Technogym")
	assert.Contains(t, out, "Cardio")

	c.ok("supplies", "add", "--equipment", "1", "--pid", "501", "--quantity", "2", "--date", "2024-01-15")
	out = c.ok("supplies", "list")
	assert.Contains(t, out, "Treadmill")
	assert.Contains(t, out, "Rui Matos")
	assert.Contains(t, out, "2024-01-15")

	c.ok("supplies", "update", "1", "501", "--quantity", "5", "--date", "2024-02-01")
	assert.Contains(t, c.ok("supplies", "list", "--limit", "1"), "2024-02-01")
	assert.Contains(t, c.ok("supplies", "list", "-q", "tread"), "Treadmill")
	assert.NotContains(t, c.ok("equipment", "list", "--category", "Strength"), "Treadmill")
	assert.Contains(t, c.ok("equipment", "list", "--page", "1", "--page-size", "5"), "page 1 of 1 (1 items)")

	_, err := c.run("supplies", "add", "--equipment", "9", "--pid", "501")
	require.Error(t, err)
	assert.True(t, database.IsConstraint(err))

	c.ok("equipment", "delete", "1")
	assert.NotContains(t, c.ok("supplies", "list"), "Treadmill")
}

func TestReportCommands(t *testing.T) {
	c := newCLI(t)
	c.ok("workers", "add", "--pid", "101", "--first", "Ana", "--last", "Silva", "--contract", "Full-time")

	names := c.ok("reports")
	assert.Contains(t, names, "contract-candidates")
	assert.Contains(t, names, "equipment-stats")

	_, err := c.run("reports", "nope")
	assert.Error(t, err)

	out := c.ok("dashboard")
	assert.Equal(t, []string{"1", "0", "0", "0"}, strings.Fields(strings.Split(strings.TrimSpace(out), "\n")[1]))

	path := filepath.Join(t.TempDir(), "candidates.xlsx")
	c.ok("reports", "contract-candidates", "--xlsx", path)

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()
	rows, err := f.GetRows("contract-candidates")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"pid", "full_name", "job", "contract"}, rows[0])
	assert.Equal(t, "Ana Silva", rows[1][1])
}

func TestJSONOutputAndStatus(t *testing.T) {
	c := newCLI(t)

	out := c.ok("-o", "json", "dashboard")
	assert.JSONEq(t, `{"workers":0,"suppliers":0,"equipment":0,"supplies":0}`, out)

	out = c.ok("status")
	assert.Contains(t, out, "HEALTHY")
	assert.Contains(t, out, "true")
}
