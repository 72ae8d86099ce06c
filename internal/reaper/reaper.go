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

package reaper

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-logr/logr"

	"github.com/mthm112/scythe/internal/pinecone"
)

// Defaults applied by New for zero-valued Config fields.
const (
	// DefaultMaxAttempts bounds the delete retries per run.
	DefaultMaxAttempts = 2
	// DefaultAttemptTimeout is the wall-clock bound on one delete attempt,
	// including its settle delay and verification read.
	DefaultAttemptTimeout = 120 * time.Second
	// DefaultRetryDelay is the pause between attempts.
	DefaultRetryDelay = 5 * time.Second
	// DefaultSettleDelay is the pause between the delete call and its
	// verification read.
	DefaultSettleDelay = 2 * time.Second
)

// ErrStillPresent reports a delete call that the API accepted but whose
// verification read still found the assistant.
var ErrStillPresent = errors.New("assistant still present after delete")

// Config bounds the delete and verify sequence.
type Config struct {
	MaxAttempts    int
	AttemptTimeout time.Duration
	RetryDelay     time.Duration
	SettleDelay    time.Duration
}

// Attempt records one delete try.
type Attempt struct {
	// Number is the 1-based attempt index.
	Number int
	// Err is nil when the attempt deleted and verified, otherwise the
	// failure that consumed the attempt.
	Err error
	// Elapsed is how long the attempt took.
	Elapsed time.Duration
}

// Outcome is the result of one teardown run.
type Outcome struct {
	// Assistant is the target assistant name.
	Assistant string
	// Succeeded reports whether the assistant is verified gone.
	Succeeded bool
	// AlreadyAbsent reports that the pre-flight read found no assistant,
	// so no delete was issued.
	AlreadyAbsent bool
	// Attempts lists the delete tries, in order.
	Attempts []Attempt
	// Err is the most recent failure when Succeeded is false.
	Err error
}

// Reaper deletes assistants through the lifecycle API with retries and
// post-delete verification.
type Reaper struct {
	assistants pinecone.Client
	cfg        Config
}

// New creates a reaper. Zero-valued config fields take their defaults.
func New(assistants pinecone.Client, cfg Config) (*Reaper, error) {
	if assistants == nil {
		return nil, fmt.Errorf("reaper: assistant client is required")
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = DefaultMaxAttempts
	}
	if cfg.AttemptTimeout <= 0 {
		cfg.AttemptTimeout = DefaultAttemptTimeout
	}
	if cfg.RetryDelay <= 0 {
		cfg.RetryDelay = DefaultRetryDelay
	}
	if cfg.SettleDelay <= 0 {
		cfg.SettleDelay = DefaultSettleDelay
	}
	return &Reaper{assistants: assistants, cfg: cfg}, nil
}

// Reap deletes the named assistant and verifies it is gone. An assistant
// that is already absent counts as success with zero attempts. Exhausting
// every attempt returns an Outcome carrying the last error; it is the
// caller's job to report it, not to escalate.
func (r *Reaper) Reap(ctx context.Context, assistant string) *Outcome {
	logger := logr.FromContextOrDiscard(ctx).WithValues("assistant", assistant)
	out := &Outcome{Assistant: assistant}

	// Pre-flight read. The previous run may have deleted the assistant
	// after its verification window closed, or it may never have existed.
	_, err := r.assistants.GetAssistant(ctx, assistant)
	if pinecone.IsNotFound(err) {
		out.Succeeded = true
		out.AlreadyAbsent = true
		logger.Info("assistant already absent, nothing to delete")
		return out
	}
	if err != nil {
		out.Err = fmt.Errorf("existence check: %w", err)
		logger.Error(err, "existence check failed")
		return out
	}

	for number := 1; number <= r.cfg.MaxAttempts; number++ {
		if number > 1 {
			if err := sleep(ctx, r.cfg.RetryDelay); err != nil {
				out.Err = err
				logger.Error(err, "canceled while waiting to retry")
				return out
			}
		}

		attempt := r.attempt(ctx, assistant, number)
		out.Attempts = append(out.Attempts, attempt)
		if attempt.Err == nil {
			out.Succeeded = true
			out.Err = nil
			logger.Info("assistant deleted and verified", "attempt", number, "elapsed", attempt.Elapsed)
			return out
		}
		out.Err = attempt.Err
		logger.Error(attempt.Err, "delete attempt failed", "attempt", number, "elapsed", attempt.Elapsed)
	}

	logger.Info("delete attempts exhausted", "attempts", len(out.Attempts))
	return out
}

// attempt issues one delete and verifies it, all under the attempt timeout.
// A delete that reports not-found still goes through verification, since
// the goal is confirmed absence rather than a successful delete call.
func (r *Reaper) attempt(ctx context.Context, assistant string, number int) Attempt {
	start := time.Now()
	attempt := Attempt{Number: number}

	actx, cancel := context.WithTimeout(ctx, r.cfg.AttemptTimeout)
	defer cancel()

	if err := r.assistants.DeleteAssistant(actx, assistant); err != nil && !pinecone.IsNotFound(err) {
		attempt.Err = fmt.Errorf("delete: %w", err)
		attempt.Elapsed = time.Since(start)
		return attempt
	}

	if err := sleep(actx, r.cfg.SettleDelay); err != nil {
		attempt.Err = fmt.Errorf("settle: %w", err)
		attempt.Elapsed = time.Since(start)
		return attempt
	}

	_, err := r.assistants.GetAssistant(actx, assistant)
	switch {
	case pinecone.IsNotFound(err):
		// Verified gone.
	case err != nil:
		attempt.Err = fmt.Errorf("verify: %w", err)
	default:
		attempt.Err = ErrStillPresent
	}
	attempt.Elapsed = time.Since(start)
	return attempt
}

// sleep waits for d or until ctx is done, whichever comes first.
func sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
