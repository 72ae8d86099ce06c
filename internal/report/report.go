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

package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/mthm112/scythe/internal/cost"
	"github.com/mthm112/scythe/internal/decision"
	"github.com/mthm112/scythe/internal/reaper"
)

// consoleURL is where an operator cleans up by hand when deletion fails.
const consoleURL = "https://app.pinecone.io"

// Data carries everything one rendered report draws on.
type Data struct {
	// RunID identifies the cleanup run.
	RunID string
	// GeneratedAt is when the report was produced.
	GeneratedAt time.Time
	// DryRun reports whether mutations were suppressed.
	DryRun bool
	// Window describes the protected-hours calendar, already formatted.
	Window string
	// Verdict is the safety evaluation result.
	Verdict decision.Verdict
	// Outcome is the live teardown result, nil when no teardown ran.
	Outcome *reaper.Outcome
	// AlreadyAbsent reports that the dry-run existence probe found no
	// assistant to delete.
	AlreadyAbsent bool
	// ExistsErr is the dry-run existence probe failure, if any.
	ExistsErr error
	// Savings estimates what teardown saves, nil when nothing was or
	// would be deleted.
	Savings *cost.Estimate
}

// Render lays Data out as the run report.
func Render(d Data) string {
	var b strings.Builder
	rule := strings.Repeat("=", 60)

	fmt.Fprintln(&b, rule)
	fmt.Fprintln(&b, "Assistant Cleanup Report")
	fmt.Fprintln(&b, rule)
	fmt.Fprintf(&b, "Run ID:     %s\n", d.RunID)
	fmt.Fprintf(&b, "Generated:  %s\n", d.GeneratedAt.UTC().Format(time.RFC3339))
	fmt.Fprintf(&b, "Assistant:  %s\n", d.Verdict.Assistant)
	fmt.Fprintf(&b, "Mode:       %s\n", mode(d))
	if d.Window != "" {
		fmt.Fprintf(&b, "Window:     %s\n", d.Window)
	}
	fmt.Fprintf(&b, "Threshold:  %s\n", d.Verdict.Threshold)
	fmt.Fprintln(&b)
	fmt.Fprintf(&b, "Verdict:    %s\n", verdictWord(d.Verdict))
	fmt.Fprintf(&b, "Reason:     %s\n", d.Verdict.Reason)
	if d.Verdict.Detail != "" {
		fmt.Fprintf(&b, "Detail:     %s\n", d.Verdict.Detail)
	}
	if !d.Verdict.LastUsedAt.IsZero() {
		fmt.Fprintf(&b, "Last used:  %s (%.1f hours ago)\n",
			d.Verdict.LastUsedAt.UTC().Format(time.RFC3339), d.Verdict.Idle.Hours())
	}
	if d.Verdict.Reason == decision.ReasonRecentlyUsed {
		fmt.Fprintf(&b, "Eligible:   in %d minutes\n", int(d.Verdict.Remaining.Minutes()))
	}

	if len(d.Verdict.ActiveRuns) > 0 {
		fmt.Fprintln(&b)
		fmt.Fprintln(&b, "Active workflow runs:")
		for _, run := range d.Verdict.ActiveRuns {
			fmt.Fprintf(&b, "  - run %d %q %s, started %s\n",
				run.ID, run.Name, run.Status, run.CreatedAt.UTC().Format(time.RFC3339))
		}
	}

	if len(d.Verdict.FreshLocks) > 0 {
		fmt.Fprintln(&b)
		fmt.Fprintln(&b, "Fresh activation locks:")
		for _, lock := range d.Verdict.FreshLocks {
			fmt.Fprintf(&b, "  - %s locked at %s by %s (%s)\n",
				lock.AssistantName, lock.LockedAt.UTC().Format(time.RFC3339), lock.LockedBy, lock.Status)
		}
	}

	if d.Verdict.Err != nil {
		fmt.Fprintln(&b)
		fmt.Fprintf(&b, "Gate error: %v\n", d.Verdict.Err)
		fmt.Fprintln(&b, "The run exits non-zero so the scheduler can surface it.")
	}

	if d.Outcome != nil {
		fmt.Fprintln(&b)
		fmt.Fprintln(&b, "Teardown:")
		if d.Outcome.AlreadyAbsent {
			fmt.Fprintln(&b, "  Assistant already absent, nothing to delete.")
		}
		for _, attempt := range d.Outcome.Attempts {
			if attempt.Err != nil {
				fmt.Fprintf(&b, "  Attempt %d failed after %s: %v\n", attempt.Number, attempt.Elapsed, attempt.Err)
			} else {
				fmt.Fprintf(&b, "  Attempt %d verified deletion after %s.\n", attempt.Number, attempt.Elapsed)
			}
		}
		if d.Outcome.Succeeded {
			fmt.Fprintln(&b, "  Result: deleted and verified.")
		} else {
			fmt.Fprintf(&b, "  Result: FAILED: %v\n", d.Outcome.Err)
			fmt.Fprintln(&b, "  Manual intervention may be required, check the Pinecone console:")
			fmt.Fprintf(&b, "  %s\n", consoleURL)
		}
	}

	if d.DryRun && d.Verdict.Proceed {
		fmt.Fprintln(&b)
		switch {
		case d.ExistsErr != nil:
			fmt.Fprintf(&b, "Dry run: existence check failed: %v\n", d.ExistsErr)
		case d.AlreadyAbsent:
			fmt.Fprintln(&b, "Dry run: assistant is already absent, nothing would be deleted.")
		default:
			fmt.Fprintf(&b, "Dry run: would delete %s.\n", d.Verdict.Assistant)
		}
	}

	if d.Savings != nil {
		fmt.Fprintln(&b)
		if d.DryRun {
			fmt.Fprintln(&b, "Potential savings if deleted:")
		} else {
			fmt.Fprintln(&b, "Cost savings:")
		}
		if d.Savings.IdleSpend != "" {
			fmt.Fprintf(&b, "  Idle spend: $%s\n", d.Savings.IdleSpend)
		}
		fmt.Fprintf(&b, "  Per hour:   $%s\n", d.Savings.HourlyRate)
		fmt.Fprintf(&b, "  Per day:    $%s\n", d.Savings.DailySavings)
		fmt.Fprintf(&b, "  Per month:  $%s\n", d.Savings.MonthlySavings)
	}

	fmt.Fprintln(&b)
	fmt.Fprintln(&b, rule)
	return b.String()
}

func mode(d Data) string {
	if d.DryRun {
		return "dry run"
	}
	return "live"
}

func verdictWord(v decision.Verdict) string {
	word := "KEEP"
	if v.Proceed {
		word = "DELETE"
	}
	if v.Forced {
		word += " (forced)"
	}
	return word
}
