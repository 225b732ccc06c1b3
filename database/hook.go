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
	"os"
	"sync/atomic"
	"time"

	"github.com/fatih/color"
	"github.com/uptrace/bun"
)

// DebugEnv toggles statement tracing: "1" logs every statement, "0"
// disables it.
const DebugEnv = "MAPPER_DEBUG"

var silent atomic.Bool

// SetSilent mutes every StatementHook.
func SetSilent(b bool) {
	silent.Store(b)
}

var opColors = map[string]*color.Color{
	"SELECT": color.New(color.BgGreen, color.FgHiWhite),
	"INSERT": color.New(color.BgBlue, color.FgHiWhite),
	"UPDATE": color.New(color.BgYellow, color.FgHiWhite),
	"DELETE": color.New(color.BgMagenta, color.FgHiWhite),
}

var otherOpColor = color.New(color.BgRed, color.FgHiWhite)

// OperationLabel renders the statement verb as a colored badge.
func OperationLabel(op string) string {
	c, ok := opColors[op]
	if !ok {
		c = otherOpColor
	}
	return c.Sprintf(" %s ", op)
}

// StatementHook logs statements at Debug when tracing is on and warns
// about successful statements slower than the threshold.
type StatementHook struct {
	envName  string
	enabled  bool
	slowTime time.Duration
	logger   Logger
}

var _ bun.QueryHook = (*StatementHook)(nil)

// NewStatementHook returns a hook writing to logger. A zero slowTime
// disables slow statement warnings.
func NewStatementHook(slowTime time.Duration, logger Logger) *StatementHook {
	if logger == nil {
		logger = GetLogger()
	}
	return &StatementHook{envName: DebugEnv, slowTime: slowTime, logger: logger}
}

// WithTracing sets the tracing default used when the env var is unset.
func (h *StatementHook) WithTracing(enabled bool) *StatementHook {
	h.enabled = enabled
	return h
}

func (h *StatementHook) BeforeQuery(ctx context.Context, event *bun.QueryEvent) context.Context {
	return ctx
}

func (h *StatementHook) AfterQuery(ctx context.Context, event *bun.QueryEvent) {
	if silent.Load() {
		return
	}
	duration := time.Since(event.StartTime)

	failed := event.Err != nil && !errors.Is(event.Err, sql.ErrNoRows)
	if h.tracing() {
		fields := []interface{}{"duration", duration.Round(time.Microsecond), "query", event.Query}
		if failed {
			fields = append(fields, "error", event.Err)
		}
		h.logger.Debug(OperationLabel(event.Operation()), fields...)
	}

	if !failed && h.slowTime > 0 && duration > h.slowTime {
		h.logger.Warn("Slow statement detected",
			"duration", duration.Round(time.Microsecond),
			"slow_threshold", h.slowTime,
			"query", event.Query,
		)
	}
}

func (h *StatementHook) tracing() bool {
	if env, ok := os.LookupEnv(h.envName); ok {
		return env != "" && env != "0"
	}
	return h.enabled
}
