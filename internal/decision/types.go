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
	"time"

	"github.com/mthm112/scythe/internal/github"
	"github.com/mthm112/scythe/internal/store"
)

// Reason identifies the gate that settled an evaluation.
type Reason string

const (
	// ReasonBusinessHours means the evaluation fell inside protected hours.
	ReasonBusinessHours Reason = "business-hours"
	// ReasonActiveWorkflow means a conflicting workflow run is queued or
	// executing.
	ReasonActiveWorkflow Reason = "active-workflow"
	// ReasonWorkflowCheckFailed means workflow activity could not be read.
	ReasonWorkflowCheckFailed Reason = "workflow-check-failed"
	// ReasonActivationInProgress means a fresh activation lock exists.
	ReasonActivationInProgress Reason = "activation-in-progress"
	// ReasonLockCheckFailed means the lock store could not be read.
	ReasonLockCheckFailed Reason = "lock-check-failed"
	// ReasonNoUsageHistory means the store holds no usage record for the
	// assistant, which usually means it was created very recently.
	ReasonNoUsageHistory Reason = "no-usage-history"
	// ReasonUsageCheckFailed means the usage store could not be read.
	ReasonUsageCheckFailed Reason = "usage-check-failed"
	// ReasonRecentlyUsed means the assistant was used inside the idle
	// threshold.
	ReasonRecentlyUsed Reason = "recently-used"
	// ReasonIdleBeyondThreshold means every gate passed and the assistant
	// is eligible for teardown.
	ReasonIdleBeyondThreshold Reason = "idle-beyond-threshold"
)

// Verdict is the outcome of one safety evaluation. Exactly one gate settles
// each verdict; the remaining fields describe what that gate saw.
type Verdict struct {
	// Assistant is the evaluated assistant name.
	Assistant string
	// EvaluatedAt is the UTC instant the gates ran against.
	EvaluatedAt time.Time
	// Proceed reports whether teardown may go ahead.
	Proceed bool
	// Forced reports whether the protected-hours gate was bypassed on
	// explicit request.
	Forced bool
	// Reason names the gate that settled the verdict.
	Reason Reason
	// Detail is a one-line human account of the verdict.
	Detail string
	// Err is set when a gate could not be evaluated. The verdict still
	// blocks teardown; Err records why the evaluation was inconclusive.
	Err error
	// Threshold is the idle threshold the evaluation used.
	Threshold time.Duration
	// LastUsedAt is the newest recorded usage, when the usage gate ran.
	LastUsedAt time.Time
	// Idle is the elapsed time since LastUsedAt, when the usage gate ran.
	Idle time.Duration
	// Remaining is how much longer the assistant must stay idle before it
	// becomes eligible, when blocked by recent use.
	Remaining time.Duration
	// ActiveRuns holds the conflicting runs seen by the workflow gate.
	ActiveRuns []*github.WorkflowRun
	// FreshLocks holds the activation locks seen by the lock gate.
	FreshLocks []store.ActivationLock
}

// DependencyFailure reports whether the verdict was settled by a gate that
// could not be evaluated rather than by policy. Runs ending this way should
// signal failure to the invoking scheduler.
func (v Verdict) DependencyFailure() bool {
	return v.Err != nil
}
