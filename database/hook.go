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
	"os"
	"strings"
	"sync/atomic"
	"time"

	"github.com/fatih/color"
	"github.com/uptrace/bun"
)

// SlowQueryEnv overrides the slow-query hook at runtime: "1" enables it,
// any other value disables it.
const SlowQueryEnv = "LEDGER_SLOW_QUERY"

var querySilent atomic.Bool

// SetQuerySilent mutes the slow-query hook.
func SetQuerySilent(b bool) {
	querySilent.Store(b)
}

type slowQueryHook struct {
	threshold time.Duration
	logger    Logger
}

var _ bun.QueryHook = (*slowQueryHook)(nil)

func newSlowQueryHook(threshold time.Duration, logger Logger) *slowQueryHook {
	if logger == nil {
		logger = GetLogger()
	}
	return &slowQueryHook{threshold: threshold, logger: logger}
}

func (h *slowQueryHook) BeforeQuery(ctx context.Context, _ *bun.QueryEvent) context.Context {
	return ctx
}

func (h *slowQueryHook) AfterQuery(_ context.Context, event *bun.QueryEvent) {
	if !h.enabled() || event.Err != nil {
		return
	}
	elapsed := time.Since(event.StartTime)
	if elapsed <= h.threshold {
		return
	}
	h.logger.Warn("Slow query",
		"elapsed", elapsed.Round(time.Microsecond),
		"threshold", h.threshold,
		"query", operationColor(event.Operation()).Sprint(event.Query))
}

func (h *slowQueryHook) enabled() bool {
	if querySilent.Load() {
		return false
	}
	if env, ok := os.LookupEnv(SlowQueryEnv); ok {
		return strings.TrimSpace(env) == "1"
	}
	return true
}

func operationColor(operation string) *color.Color {
	switch operation {
	case "SELECT":
		return color.New(color.FgGreen)
	case "INSERT":
		return color.New(color.FgBlue)
	case "UPDATE":
		return color.New(color.FgYellow)
	case "DELETE":
		return color.New(color.FgMagenta)
	default:
		return color.New(color.FgRed)
	}
}
