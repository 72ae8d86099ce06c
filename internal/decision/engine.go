/*
MIT License

Copyright (c) 2025 mthm112

Permission is hereby granted, free of charge, to any person obtaining a copy
of this software and associated documentation files (the "Software"), to deal
in the Software without restriction, including without limitation the rights
to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
copies of the Software, and to permit persons to whom the Software is
furnished to do so, subject to the following conditions:

The above copyright notice and this permission notice shall be included in all
copies or substantial portions of the Software.

THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
SOFTWARE.
*/

package decision

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-logr/logr"

	"github.com/mthm112/scythe/internal/github"
	"github.com/mthm112/scythe/internal/schedule"
	"github.com/mthm112/scythe/internal/store"
)

// Defaults applied by New for zero-valued Config fields.
const (
	// DefaultThreshold is how long an assistant must sit unused before it
	// becomes eligible for teardown.
	DefaultThreshold = 2 * time.Hour
	// DefaultLockMaxAge is how long an activation lock blocks teardown
	// before it is considered stale.
	DefaultLockMaxAge = 25 * time.Minute
)

// Config carries the policy knobs for the safety gates.
type Config struct {
	// Window is the protected-hours calendar.
	Window schedule.Window
	// Matcher selects the workflow runs that conflict with teardown.
	Matcher github.RunMatcher
	// LockMaxAge is the activation lock staleness limit.
	LockMaxAge time.Duration
	// Threshold is the default idle threshold, overridable per request.
	Threshold time.Duration
	// Clock supplies the current time. Defaults to time.Now.
	Clock func() time.Time
}

// Request describes one evaluation.
type Request struct {
	// Assistant is the assistant name to evaluate.
	Assistant string
	// Threshold overrides the configured idle threshold when positive.
	Threshold time.Duration
	// Force bypasses the protected-hours gate.
	Force bool
}

// Engine runs the safety gates against live dependency state.
type Engine struct {
	cfg     Config
	runs    github.Client
	records store.Store
}

// New creates an evaluation engine. Zero-valued durations in cfg take their
// defaults; the window must be well formed.
func New(runs github.Client, records store.Store, cfg Config) (*Engine, error) {
	if runs == nil {
		return nil, fmt.Errorf("decision: workflow client is required")
	}
	if records == nil {
		return nil, fmt.Errorf("decision: record store is required")
	}
	if err := cfg.Window.Validate(); err != nil {
		return nil, err
	}
	if cfg.Threshold <= 0 {
		cfg.Threshold = DefaultThreshold
	}
	if cfg.LockMaxAge <= 0 {
		cfg.LockMaxAge = DefaultLockMaxAge
	}
	if cfg.Clock == nil {
		cfg.Clock = time.Now
	}
	return &Engine{cfg: cfg, runs: runs, records: records}, nil
}

// Evaluate runs the gates in order and returns the verdict of the first one
// that settles the question. The calendar gate runs before any network call,
// and every gate that cannot be evaluated blocks teardown with Err set.
func (e *Engine) Evaluate(ctx context.Context, req Request) Verdict {
	logger := logr.FromContextOrDiscard(ctx).WithValues("assistant", req.Assistant)

	now := e.cfg.Clock().UTC()
	threshold := req.Threshold
	if threshold <= 0 {
		threshold = e.cfg.Threshold
	}

	v := Verdict{
		Assistant:   req.Assistant,
		EvaluatedAt: now,
		Threshold:   threshold,
	}

	if req.Force {
		v.Forced = true
		logger.Info("forced evaluation requested")
	}

	// Gate 1: protected hours.
	if e.cfg.Window.Contains(now) {
		if !req.Force {
			v.Reason = ReasonBusinessHours
			v.Detail = e.cfg.Window.Explain(now)
			logger.Info("inside protected hours, keeping assistant", "window", e.cfg.Window.String())
			return v
		}
		logger.Info("protected hours bypassed by force", "window", e.cfg.Window.String())
	}

	// Gate 2: conflicting workflow activity.
	runs, err := e.runs.ListRecentRuns(ctx)
	if err != nil {
		v.Reason = ReasonWorkflowCheckFailed
		v.Err = fmt.Errorf("workflow activity check: %w", err)
		v.Detail = "workflow activity unknown, keeping assistant"
		logger.Error(err, "workflow activity check failed")
		return v
	}
	for _, run := range runs {
		if e.cfg.Matcher.Matches(run) && run.IsActive() {
			v.ActiveRuns = append(v.ActiveRuns, run)
		}
	}
	if len(v.ActiveRuns) > 0 {
		v.Reason = ReasonActiveWorkflow
		v.Detail = fmt.Sprintf("workflow %q has %d active run(s)", e.cfg.Matcher.Name, len(v.ActiveRuns))
		logger.Info("conflicting workflow is active, keeping assistant", "activeRuns", len(v.ActiveRuns))
		return v
	}

	// Gate 3: fresh activation locks.
	cutoff := now.Add(-e.cfg.LockMaxAge)
	locks, err := e.records.LocksSince(ctx, req.Assistant, cutoff)
	if err != nil {
		v.Reason = ReasonLockCheckFailed
		v.Err = fmt.Errorf("activation lock check: %w", err)
		v.Detail = "activation lock state unknown, keeping assistant"
		logger.Error(err, "activation lock check failed")
		return v
	}
	if len(locks) > 0 {
		v.FreshLocks = locks
		v.Reason = ReasonActivationInProgress
		v.Detail = fmt.Sprintf("%d activation lock(s) younger than %s", len(locks), e.cfg.LockMaxAge)
		logger.Info("activation in progress, keeping assistant", "freshLocks", len(locks))
		return v
	}

	// Gate 4: last recorded usage against the idle threshold.
	record, err := e.records.LastUsage(ctx, req.Assistant)
	if errors.Is(err, store.ErrNoUsageData) {
		v.Reason = ReasonNoUsageHistory
		v.Detail = "no usage history recorded, assistant may be newly created"
		logger.Info("no usage history, keeping assistant")
		return v
	}
	if err != nil {
		v.Reason = ReasonUsageCheckFailed
		v.Err = fmt.Errorf("usage check: %w", err)
		v.Detail = "usage history unknown, keeping assistant"
		logger.Error(err, "usage check failed")
		return v
	}

	v.LastUsedAt = record.Timestamp
	v.Idle = now.Sub(record.Timestamp)
	if v.Idle < threshold {
		v.Remaining = threshold - v.Idle
		v.Reason = ReasonRecentlyUsed
		v.Detail = fmt.Sprintf("last used %d minutes ago, eligible for deletion in %d minutes",
			int(v.Idle.Minutes()), int(v.Remaining.Minutes()))
		logger.Info("recently used, keeping assistant", "idle", v.Idle, "remaining", v.Remaining)
		return v
	}

	v.Proceed = true
	v.Reason = ReasonIdleBeyondThreshold
	v.Detail = fmt.Sprintf("idle for %.1f hours, past the %.1f hour threshold",
		v.Idle.Hours(), threshold.Hours())
	logger.Info("assistant eligible for teardown", "idle", v.Idle, "threshold", threshold)
	return v
}
