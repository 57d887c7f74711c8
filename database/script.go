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
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"text/template"
	"time"
)

var scriptOrderPattern = regexp.MustCompile(`^(\d+)_`)

// ScriptRunner executes .sql files from a file system, one transaction per
// file. It has no notion of applied versions: every Run executes every file.
//
// Layout: files directly under the root, then common/, then
// environments/<environment>/. Within a directory files run in the order
// given by their numeric prefix ("010_people.sql"); unprefixed files last.
type ScriptRunner struct {
	tx          *TxManager
	fsys        fs.FS
	environment string
	logger      Logger
}

// ScriptFile describes a script discovered by the runner.
type ScriptFile struct {
	Path        string
	Name        string
	Order       int
	Environment string
}

// ScriptResult contains the outcome of executing a single file.
type ScriptResult struct {
	File         string
	Statements   int
	RowsAffected int64
	Duration     time.Duration
}

func NewScriptRunner(tx *TxManager, fsys fs.FS, environment string) *ScriptRunner {
	return &ScriptRunner{
		tx:          tx,
		fsys:        fsys,
		environment: environment,
		logger:      tx.logger,
	}
}

// Run executes all discovered files and stops at the first failure.
func (s *ScriptRunner) Run(ctx context.Context) ([]ScriptResult, error) {
	files, err := s.Files()
	if err != nil {
		return nil, fmt.Errorf("failed to list SQL files: %w", err)
	}
	if len(files) == 0 {
		s.logger.Info("No SQL files found to execute")
		return nil, nil
	}

	results := make([]ScriptResult, 0, len(files))
	for _, file := range files {
		result, err := s.RunFile(ctx, file.Path)
		if err != nil {
			s.logger.Error("SQL file execution failed", "file", file.Path, "error", err)
			return results, fmt.Errorf("SQL file execution failed %s: %w", file.Path, err)
		}
		s.logger.Info("SQL file executed successfully",
			"file", result.File,
			"statements", result.Statements,
			"rows_affected", result.RowsAffected,
			"duration", result.Duration.String(),
		)
		results = append(results, result)
	}
	return results, nil
}

// Files returns the scripts in execution order.
func (s *ScriptRunner) Files() ([]ScriptFile, error) {
	var files []ScriptFile
	dirs := []struct{ dir, env string }{
		{".", ""},
		{"common", "common"},
	}
	if s.environment != "" {
		dirs = append(dirs, struct{ dir, env string }{path.Join("environments", s.environment), s.environment})
	}

	for _, d := range dirs {
		entries, err := fs.ReadDir(s.fsys, d.dir)
		if err != nil {
			if d.dir != "." && errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return nil, err
		}
		var group []ScriptFile
		for _, entry := range entries {
			if entry.IsDir() || !strings.HasSuffix(strings.ToLower(entry.Name()), ".sql") {
				continue
			}
			group = append(group, ScriptFile{
				Path:        path.Join(d.dir, entry.Name()),
				Name:        entry.Name(),
				Order:       parseScriptOrder(entry.Name()),
				Environment: d.env,
			})
		}
		sort.SliceStable(group, func(i, j int) bool {
			if group[i].Order != group[j].Order {
				return group[i].Order < group[j].Order
			}
			return group[i].Name < group[j].Name
		})
		files = append(files, group...)
	}
	return files, nil
}

// RunFile executes every statement of one file in a single transaction.
func (s *ScriptRunner) RunFile(ctx context.Context, name string) (ScriptResult, error) {
	start := time.Now()
	result := ScriptResult{File: name}

	content, err := fs.ReadFile(s.fsys, name)
	if err != nil {
		return result, fmt.Errorf("failed to read file: %w", err)
	}
	text := string(content)
	if strings.Contains(text, "{{") {
		if text, err = s.expand(text); err != nil {
			return result, err
		}
	}

	statements := SplitStatements(text)
	result.Statements = len(statements)
	if len(statements) == 0 {
		result.Duration = time.Since(start)
		return result, nil
	}

	err = s.tx.RunInTx(ctx, func(ctx context.Context, ex *Executor) error {
		var total int64
		for _, stmt := range statements {
			res, err := ex.Exec(ctx, stmt)
			if err != nil {
				return err
			}
			if n, err := res.RowsAffected(); err == nil {
				total += n
			}
		}
		result.RowsAffected = total
		return nil
	})
	result.Duration = time.Since(start)
	return result, err
}

// expand renders {{.NAME}} references to environment variables.
func (s *ScriptRunner) expand(content string) (string, error) {
	tmpl, err := template.New("sql").Option("missingkey=zero").Parse(content)
	if err != nil {
		return "", fmt.Errorf("failed to parse template: %w", err)
	}

	vars := make(map[string]string)
	for _, env := range os.Environ() {
		if k, v, ok := strings.Cut(env, "="); ok {
			vars[k] = v
		}
	}
	vars["ENVIRONMENT"] = s.environment
	vars["TIMESTAMP"] = time.Now().Format("2006-01-02 15:04:05")

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, vars); err != nil {
		return "", fmt.Errorf("failed to execute template: %w", err)
	}
	return buf.String(), nil
}

// SplitStatements splits a script on lines ending with ';'. Lines starting
// with "--" are dropped. Text between $$ markers is kept intact so function
// bodies survive.
func SplitStatements(content string) []string {
	var (
		statements []string
		current    strings.Builder
		inBody     bool
	)

	scanner := bufio.NewScanner(strings.NewReader(content))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		raw := scanner.Text()
		line := strings.TrimSpace(raw)
		if !inBody && (line == "" || strings.HasPrefix(line, "--")) {
			continue
		}

		if inBody {
			current.WriteString(raw)
			current.WriteString("\n")
		} else {
			current.WriteString(line)
			current.WriteString(" ")
		}
		if strings.Count(line, "$$")%2 == 1 {
			inBody = !inBody
		}

		if !inBody && strings.HasSuffix(line, ";") {
			if stmt := strings.TrimSpace(current.String()); stmt != "" {
				statements = append(statements, stmt)
			}
			current.Reset()
		}
	}

	if stmt := strings.TrimSpace(current.String()); stmt != "" {
		statements = append(statements, stmt)
	}
	return statements
}

func parseScriptOrder(filename string) int {
	if m := scriptOrderPattern.FindStringSubmatch(filename); len(m) > 1 {
		if order, err := strconv.Atoi(m[1]); err == nil {
			return order
		}
	}
	return 999
}
