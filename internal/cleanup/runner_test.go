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
	"errors"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/mthm112/scythe/internal/decision"
	"github.com/mthm112/scythe/internal/github"
	"github.com/mthm112/scythe/internal/pinecone"
	"github.com/mthm112/scythe/internal/reaper"
	"github.com/mthm112/scythe/internal/schedule"
	"github.com/mthm112/scythe/internal/store"
)

const testAssistant = "tbsg-tender-tool"

// Saturday 06:00 UTC, well outside the Mon-Fri protected window.
var saturday = time.Date(2026, 3, 7, 6, 0, 0, 0, time.UTC)

type fakeRuns struct {
	runs []*github.WorkflowRun
	err  error
}

func (f *fakeRuns) ListRecentRuns(ctx context.Context) ([]*github.WorkflowRun, error) {
	return f.runs, f.err
}

type fakeStore struct {
	usage    *store.UsageRecord
	usageErr error
	locks    []store.ActivationLock
	locksErr error
}

func (f *fakeStore) LastUsage(ctx context.Context, assistant string) (*store.UsageRecord, error) {
	if f.usageErr != nil {
		return nil, f.usageErr
	}
	return f.usage, nil
}

func (f *fakeStore) LocksSince(ctx context.Context, assistant string, cutoff time.Time) ([]store.ActivationLock, error) {
	if f.locksErr != nil {
		return nil, f.locksErr
	}
	var fresh []store.ActivationLock
	for _, lock := range f.locks {
		if lock.LockedAt.After(cutoff) {
			fresh = append(fresh, lock)
		}
	}
	return fresh, nil
}

func (f *fakeStore) Close() {}

// fakeLifecycle implements pinecone.Client with an assistant that exists
// until deleted. Counters track every mutating and non-mutating call.
type fakeLifecycle struct {
	present     bool
	getErr      error
	getCalls    int
	deleteCalls int
}

func (f *fakeLifecycle) GetAssistant(ctx context.Context, name string) (*pinecone.Assistant, error) {
	f.getCalls++
	if f.getErr != nil {
		return nil, f.getErr
	}
	if !f.present {
		return nil, pinecone.ErrNotFound
	}
	return &pinecone.Assistant{Name: name, Status: "Ready"}, nil
}

func (f *fakeLifecycle) DeleteAssistant(ctx context.Context, name string) error {
	f.deleteCalls++
	f.present = false
	return nil
}

func buildRunner(runs *fakeRuns, records *fakeStore, lifecycle *fakeLifecycle) *Runner {
	engine, err := decision.New(runs, records, decision.Config{
		Window:  schedule.DefaultWindow(),
		Matcher: github.RunMatcher{Name: "FTP to Pinecone Process"},
		Clock:   func() time.Time { return saturday },
	})
	Expect(err).NotTo(HaveOccurred())

	rp, err := reaper.New(lifecycle, reaper.Config{
		RetryDelay:  time.Millisecond,
		SettleDelay: time.Millisecond,
	})
	Expect(err).NotTo(HaveOccurred())

	runner, err := NewRunner(engine, rp, lifecycle, nil, Options{
		Window:   schedule.DefaultWindow().String(),
		NewRunID: func() string { return "test-run" },
		Clock:    func() time.Time { return saturday },
	})
	Expect(err).NotTo(HaveOccurred())
	return runner
}

var _ = Describe("Runner", func() {
	var (
		runs      *fakeRuns
		records   *fakeStore
		lifecycle *fakeLifecycle
		runner    *Runner
		ctx       context.Context
	)

	BeforeEach(func() {
		ctx = context.Background()
		runs = &fakeRuns{}
		records = &fakeStore{
			usage: &store.UsageRecord{
				AssistantName: testAssistant,
				Action:        "chat",
				Timestamp:     saturday.Add(-3 * time.Hour),
			},
		}
		lifecycle = &fakeLifecycle{present: true}
		runner = buildRunner(runs, records, lifecycle)
	})

	Context("when the assistant is idle past the threshold", func() {
		It("deletes it and verifies it is gone", func() {
			res, err := runner.Run(ctx, Request{Assistant: testAssistant})
			Expect(err).NotTo(HaveOccurred())

			Expect(res.Verdict.Proceed).To(BeTrue())
			Expect(res.Verdict.Reason).To(Equal(decision.ReasonIdleBeyondThreshold))
			Expect(res.Outcome).NotTo(BeNil())
			Expect(res.Outcome.Succeeded).To(BeTrue())
			Expect(res.Outcome.Attempts).To(HaveLen(1))
			Expect(lifecycle.deleteCalls).To(Equal(1))
			Expect(res.ExitCode()).To(Equal(0))
			Expect(res.Report).To(ContainSubstring("Result: deleted and verified."))
		})

		It("reports savings for the deleted assistant", func() {
			res, err := runner.Run(ctx, Request{Assistant: testAssistant})
			Expect(err).NotTo(HaveOccurred())
			Expect(res.Report).To(ContainSubstring("Cost savings:"))
			Expect(res.Report).To(ContainSubstring("Per hour:   $0.0500"))
		})
	})

	Context("when an activation lock is fresh", func() {
		BeforeEach(func() {
			records.locks = []store.ActivationLock{{
				AssistantName: testAssistant,
				LockedBy:      "activation-workflow",
				Status:        "activating",
				LockedAt:      saturday.Add(-10 * time.Minute),
			}}
		})

		It("keeps the assistant and never invokes the reaper", func() {
			res, err := runner.Run(ctx, Request{Assistant: testAssistant})
			Expect(err).NotTo(HaveOccurred())

			Expect(res.Verdict.Proceed).To(BeFalse())
			Expect(res.Verdict.Reason).To(Equal(decision.ReasonActivationInProgress))
			Expect(res.Outcome).To(BeNil())
			Expect(lifecycle.deleteCalls).To(BeZero())
			Expect(lifecycle.getCalls).To(BeZero())
			Expect(res.ExitCode()).To(Equal(0))
		})
	})

	Context("lock staleness boundary", func() {
		lockAged := func(age time.Duration) {
			records.locks = []store.ActivationLock{{
				AssistantName: testAssistant,
				LockedBy:      "activation-workflow",
				Status:        "activating",
				LockedAt:      saturday.Add(-age),
			}}
		}

		It("blocks on a lock 24 minutes old", func() {
			lockAged(24 * time.Minute)
			res, err := runner.Run(ctx, Request{Assistant: testAssistant})
			Expect(err).NotTo(HaveOccurred())
			Expect(res.Verdict.Reason).To(Equal(decision.ReasonActivationInProgress))
			Expect(lifecycle.deleteCalls).To(BeZero())
		})

		It("ignores a lock exactly 25 minutes old", func() {
			lockAged(25 * time.Minute)
			res, err := runner.Run(ctx, Request{Assistant: testAssistant})
			Expect(err).NotTo(HaveOccurred())
			Expect(res.Verdict.Proceed).To(BeTrue())
		})

		It("ignores a lock 26 minutes old", func() {
			lockAged(26 * time.Minute)
			res, err := runner.Run(ctx, Request{Assistant: testAssistant})
			Expect(err).NotTo(HaveOccurred())
			Expect(res.Verdict.Proceed).To(BeTrue())
			Expect(res.Verdict.Reason).To(Equal(decision.ReasonIdleBeyondThreshold))
		})
	})

	Context("when the conflicting workflow is running", func() {
		BeforeEach(func() {
			runs.runs = []*github.WorkflowRun{{
				ID:     42,
				Name:   "FTP to Pinecone Process",
				Status: github.StatusInProgress,
			}}
		})

		It("keeps the assistant", func() {
			res, err := runner.Run(ctx, Request{Assistant: testAssistant})
			Expect(err).NotTo(HaveOccurred())
			Expect(res.Verdict.Reason).To(Equal(decision.ReasonActiveWorkflow))
			Expect(lifecycle.deleteCalls).To(BeZero())
		})
	})

	Context("in dry-run mode", func() {
		It("never mutates even when the verdict allows teardown", func() {
			res, err := runner.Run(ctx, Request{Assistant: testAssistant, DryRun: true})
			Expect(err).NotTo(HaveOccurred())

			Expect(res.Verdict.Proceed).To(BeTrue())
			Expect(res.Outcome).To(BeNil())
			Expect(lifecycle.deleteCalls).To(BeZero())
			Expect(lifecycle.present).To(BeTrue())
			Expect(res.Report).To(ContainSubstring("Dry run: would delete " + testAssistant))
			Expect(res.Report).To(ContainSubstring("Potential savings if deleted:"))
		})

		It("reports an assistant that is already absent", func() {
			lifecycle.present = false
			res, err := runner.Run(ctx, Request{Assistant: testAssistant, DryRun: true})
			Expect(err).NotTo(HaveOccurred())
			Expect(lifecycle.deleteCalls).To(BeZero())
			Expect(res.Report).To(ContainSubstring("already absent"))
		})

		It("surfaces an existence probe failure without mutating", func() {
			lifecycle.getErr = errors.New("pinecone unreachable")
			res, err := runner.Run(ctx, Request{Assistant: testAssistant, DryRun: true})
			Expect(err).NotTo(HaveOccurred())
			Expect(lifecycle.deleteCalls).To(BeZero())
			Expect(res.Report).To(ContainSubstring("existence check failed"))
		})
	})

	Context("when a dependency cannot be read", func() {
		It("exits non-zero for a workflow guard failure", func() {
			runs.err = errors.New("github api unreachable")
			res, err := runner.Run(ctx, Request{Assistant: testAssistant})
			Expect(err).NotTo(HaveOccurred())

			Expect(res.Verdict.Proceed).To(BeFalse())
			Expect(res.Verdict.DependencyFailure()).To(BeTrue())
			Expect(res.ExitCode()).To(Equal(1))
			Expect(lifecycle.deleteCalls).To(BeZero())
		})

		It("exits non-zero for a lock store failure", func() {
			records.locksErr = errors.New("supabase unreachable")
			res, err := runner.Run(ctx, Request{Assistant: testAssistant})
			Expect(err).NotTo(HaveOccurred())
			Expect(res.ExitCode()).To(Equal(1))
			Expect(lifecycle.deleteCalls).To(BeZero())
		})

		It("exits non-zero for a usage store failure", func() {
			records.usageErr = errors.New("supabase unreachable")
			res, err := runner.Run(ctx, Request{Assistant: testAssistant})
			Expect(err).NotTo(HaveOccurred())
			Expect(res.ExitCode()).To(Equal(1))
			Expect(lifecycle.deleteCalls).To(BeZero())
		})
	})

	Context("when the assistant is already gone", func() {
		It("reports success with zero attempts", func() {
			lifecycle.present = false
			res, err := runner.Run(ctx, Request{Assistant: testAssistant})
			Expect(err).NotTo(HaveOccurred())

			Expect(res.Outcome).NotTo(BeNil())
			Expect(res.Outcome.AlreadyAbsent).To(BeTrue())
			Expect(res.Outcome.Succeeded).To(BeTrue())
			Expect(res.Outcome.Attempts).To(BeEmpty())
			Expect(lifecycle.deleteCalls).To(BeZero())
		})
	})

	Context("input validation", func() {
		It("rejects an empty assistant name", func() {
			_, err := runner.Run(ctx, Request{})
			Expect(err).To(HaveOccurred())
		})

		It("rejects a nil evaluator", func() {
			_, err := NewRunner(nil, &reaper.Reaper{}, lifecycle, nil, Options{})
			Expect(err).To(HaveOccurred())
		})
	})
})
