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
	"io"
	"os"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/uptrace/bun"
)

var (
	slowLabel   = color.New(color.FgYellow, color.Bold).SprintFunc()
	failedLabel = color.New(color.FgWhite, color.BgRed).SprintFunc()
	opColors    = map[string]*color.Color{
		"SELECT": color.New(color.FgGreen),
		"INSERT": color.New(color.FgBlue),
		"UPDATE": color.New(color.FgYellow),
		"DELETE": color.New(color.FgMagenta),
	}
)

// StatementHook reports slow and failed statements. It writes a colored
// line to its writer and a structured record to the logger.
type StatementHook struct {
	slowTime time.Duration
	logger   Logger
	writer   io.Writer
	silent   bool
}

var _ bun.QueryHook = (*StatementHook)(nil)

// NewStatementHook reports statements slower than slowTime; zero disables
// slow statement reporting. Setting DB_HOOK_SILENT=1 mutes the console line.
func NewStatementHook(slowTime time.Duration, logger Logger) *StatementHook {
	return &StatementHook{
		slowTime: slowTime,
		logger:   logger,
		writer:   os.Stderr,
		silent:   strings.TrimSpace(os.Getenv("DB_HOOK_SILENT")) == "1",
	}
}

// WithWriter redirects the console line, mostly for tests.
func (h *StatementHook) WithWriter(w io.Writer) *StatementHook {
	h.writer = w
	h.silent = false
	return h
}

func (h *StatementHook) BeforeQuery(ctx context.Context, event *bun.QueryEvent) context.Context {
	return ctx
}

func (h *StatementHook) AfterQuery(ctx context.Context, event *bun.QueryEvent) {
	duration := time.Since(event.StartTime)

	switch {
	case event.Err != nil && !errors.Is(event.Err, sql.ErrNoRows) && !errors.Is(event.Err, sql.ErrTxDone):
		h.print(failedLabel(" FAILED "), duration, event)
		if h.logger != nil {
			h.logger.Warn("Statement failed", "duration", duration, "query", event.Query, "error", event.Err)
		}
	case h.slowTime > 0 && duration > h.slowTime:
		h.print(slowLabel("[SLOW]"), duration, event)
		if h.logger != nil {
			h.logger.Warn("Slow statement detected", "duration", duration, "slow_threshold", h.slowTime, "query", event.Query)
		}
	}
}

func (h *StatementHook) print(label string, duration time.Duration, event *bun.QueryEvent) {
	if h.silent || h.writer == nil {
		return
	}
	query := event.Query
	if c, ok := opColors[event.Operation()]; ok {
		query = c.Sprint(query)
	}
	_, _ = fmt.Fprintln(h.writer,
		time.Now().Format("2006-01-02 15:04:05.000"),
		label,
		fmt.Sprintf("%12s", duration.Round(time.Microsecond)),
		query,
	)
}
