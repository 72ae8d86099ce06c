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

package cleanup

import (
	"context"
	"fmt"
	"time"

	"github.com/go-logr/logr"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/mthm112/scythe/internal/cost"
	"github.com/mthm112/scythe/internal/decision"
	"github.com/mthm112/scythe/internal/pinecone"
	"github.com/mthm112/scythe/internal/reaper"
	"github.com/mthm112/scythe/internal/report"
)

const tracerName = "github.com/mthm112/scythe/internal/cleanup"

// Evaluator decides whether an assistant may be torn down.
type Evaluator interface {
	Evaluate(ctx context.Context, req decision.Request) decision.Verdict
}

// Teardown deletes an assistant and verifies it is gone.
type Teardown interface {
	Reap(ctx context.Context, assistant string) *reaper.Outcome
}

// Request describes one tick.
type Request struct {
	// Assistant is the assistant name to evaluate and possibly delete.
	Assistant string
	// Threshold overrides the engine's idle threshold when positive.
	Threshold time.Duration
	// DryRun suppresses every mutating call. The gates still run and the
	// report says what a live run would have done.
	DryRun bool
	// Force bypasses the protected-hours gate.
	Force bool
}

// Result is the outcome of one tick.
type Result struct {
	// RunID identifies the tick in logs, traces, and the report.
	RunID string
	// DryRun reports whether mutations were suppressed.
	DryRun bool
	// Verdict is the safety evaluation result.
	Verdict decision.Verdict
	// Outcome is the live teardown result, nil when no teardown ran.
	Outcome *reaper.Outcome
	// Report is the rendered human-readable summary.
	Report string
}

// ExitCode maps the result onto a process exit code. A gate that could not
// be evaluated exits non-zero so the scheduler surfaces it; every policy
// outcome, including exhausted delete retries, is a normal run because the
// next tick retries naturally.
func (r *Result) ExitCode() int {
	if r.Verdict.DependencyFailure() {
		return 1
	}
	return 0
}

// Options tunes a Runner beyond its collaborators.
type Options struct {
	// Window is the protected-hours description shown in reports.
	Window string
	// NewRunID overrides run ID generation. Defaults to uuid.NewString.
	NewRunID func() string
	// Clock supplies report timestamps. Defaults to time.Now.
	Clock func() time.Time
}

// Runner executes one cleanup tick end to end.
type Runner struct {
	engine     Evaluator
	teardown   Teardown
	assistants pinecone.Client
	estimator  *cost.Estimator
	opts       Options
}

// NewRunner creates a tick runner. A nil estimator gets the default pricing.
func NewRunner(engine Evaluator, teardown Teardown, assistants pinecone.Client, estimator *cost.Estimator, opts Options) (*Runner, error) {
	if engine == nil {
		return nil, fmt.Errorf("cleanup: evaluator is required")
	}
	if teardown == nil {
		return nil, fmt.Errorf("cleanup: teardown is required")
	}
	if assistants == nil {
		return nil, fmt.Errorf("cleanup: assistant client is required")
	}
	if estimator == nil {
		estimator = cost.NewEstimator(nil)
	}
	if opts.NewRunID == nil {
		opts.NewRunID = uuid.NewString
	}
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	return &Runner{
		engine:     engine,
		teardown:   teardown,
		assistants: assistants,
		estimator:  estimator,
		opts:       opts,
	}, nil
}

// Run executes one tick: gates, then teardown or dry-run probe, then report.
func (r *Runner) Run(ctx context.Context, req Request) (*Result, error) {
	if req.Assistant == "" {
		return nil, fmt.Errorf("cleanup: assistant name is required")
	}

	runID := r.opts.NewRunID()
	logger := logr.FromContextOrDiscard(ctx).WithValues("runID", runID, "assistant", req.Assistant)
	ctx = logr.NewContext(ctx, logger)

	tracer := otel.Tracer(tracerName)
	ctx, span := tracer.Start(ctx, "cleanup.tick", trace.WithAttributes(
		attribute.String("scythe.run_id", runID),
		attribute.String("scythe.assistant", req.Assistant),
		attribute.Bool("scythe.dry_run", req.DryRun),
		attribute.Bool("scythe.force", req.Force),
	))
	defer span.End()

	logger.Info("cleanup tick starting", "dryRun", req.DryRun, "force", req.Force)

	res := &Result{RunID: runID, DryRun: req.DryRun}

	ectx, espan := tracer.Start(ctx, "decision.evaluate")
	res.Verdict = r.engine.Evaluate(ectx, decision.Request{
		Assistant: req.Assistant,
		Threshold: req.Threshold,
		Force:     req.Force,
	})
	espan.SetAttributes(
		attribute.String("scythe.reason", string(res.Verdict.Reason)),
		attribute.Bool("scythe.proceed", res.Verdict.Proceed),
	)
	espan.End()

	data := report.Data{
		RunID:       runID,
		GeneratedAt: r.opts.Clock(),
		DryRun:      req.DryRun,
		Window:      r.opts.Window,
		Verdict:     res.Verdict,
	}

	switch {
	case !res.Verdict.Proceed:
		logger.Info("keeping assistant", "reason", res.Verdict.Reason)

	case req.DryRun:
		// Non-mutating existence probe so the report can say what a live
		// run would have done.
		_, err := r.assistants.GetAssistant(ctx, req.Assistant)
		switch {
		case pinecone.IsNotFound(err):
			data.AlreadyAbsent = true
			logger.Info("dry run: assistant already absent")
		case err != nil:
			data.ExistsErr = err
			logger.Error(err, "dry run: existence check failed")
		default:
			logger.Info("dry run: would delete assistant")
		}
		data.Savings = r.estimator.EstimateSavings(res.Verdict.Idle)

	default:
		rctx, rspan := tracer.Start(ctx, "reaper.reap")
		res.Outcome = r.teardown.Reap(rctx, req.Assistant)
		rspan.SetAttributes(
			attribute.Bool("scythe.succeeded", res.Outcome.Succeeded),
			attribute.Int("scythe.attempts", len(res.Outcome.Attempts)),
		)
		rspan.End()

		data.Outcome = res.Outcome
		if res.Outcome.Succeeded {
			data.Savings = r.estimator.EstimateSavings(res.Verdict.Idle)
		} else {
			logger.Error(res.Outcome.Err, "teardown failed, assistant left for the next tick",
				"attempts", len(res.Outcome.Attempts))
		}
	}

	res.Report = report.Render(data)
	span.SetAttributes(attribute.Int("scythe.exit_code", res.ExitCode()))
	logger.Info("cleanup tick finished", "reason", res.Verdict.Reason, "exitCode", res.ExitCode())
	return res, nil
}
