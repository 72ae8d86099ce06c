// MIT License
//
// Copyright (c) 2025 mthm112
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.

package github

import (
	"context"
	"strings"
	"time"
)

// Client interface defines the contract for reading workflow activity
type Client interface {
	// ListRecentRuns retrieves the most recent workflow runs for the
	// configured repository, newest first
	ListRecentRuns(ctx context.Context) ([]*WorkflowRun, error)
}

// WorkflowRun represents a GitHub Actions workflow run
type WorkflowRun struct {
	ID         int64
	Name       string
	Status     string // queued, in_progress, completed
	Conclusion string // success, failure, cancelled; empty until completed
	Branch     string
	URL        string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Run status values as reported by the GitHub Actions API
const (
	// StatusQueued indicates the run is waiting for a runner
	StatusQueued = "queued"
	// StatusInProgress indicates the run is executing
	StatusInProgress = "in_progress"
	// StatusCompleted indicates the run reached a terminal state
	StatusCompleted = "completed"
)

// IsActive reports whether the run occupies the pipeline right now. Only
// queued and in_progress count; other transitional statuses the API may
// report do not block teardown.
func (r *WorkflowRun) IsActive() bool {
	return r.Status == StatusQueued || r.Status == StatusInProgress
}

// RunMatcher selects the workflow runs whose activity conflicts with
// teardown
type RunMatcher struct {
	// Name is the workflow name to match against.
	Name string
	// Exact requires the full name to match. When false, a
	// case-insensitive substring match is used instead.
	Exact bool
}

// Matches reports whether the matcher selects the given run. An empty
// matcher name selects nothing.
func (m RunMatcher) Matches(run *WorkflowRun) bool {
	if run == nil || m.Name == "" {
		return false
	}
	if m.Exact {
		return run.Name == m.Name
	}
	return strings.Contains(strings.ToLower(run.Name), strings.ToLower(m.Name))
}
