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

package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/go-logr/logr"
	"github.com/spf13/cobra"

	"github.com/mthm112/scythe/internal/cleanup"
	"github.com/mthm112/scythe/internal/config"
	"github.com/mthm112/scythe/internal/cost"
	"github.com/mthm112/scythe/internal/decision"
	"github.com/mthm112/scythe/internal/github"
	"github.com/mthm112/scythe/internal/logging"
	"github.com/mthm112/scythe/internal/pinecone"
	"github.com/mthm112/scythe/internal/reaper"
	"github.com/mthm112/scythe/internal/store"
	"github.com/mthm112/scythe/internal/telemetry"
)

// RunOptions holds flags for the run command.
type RunOptions struct {
	*RootOptions
	Assistant string
	Threshold time.Duration
	DryRun    bool
	Force     bool
}

// NewRunCommand creates the run command, which executes one cleanup tick.
func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RunOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Evaluate the safety gates and delete the assistant if idle",
		Long: `Run one cleanup tick: evaluate protected hours, workflow activity, the
activation lock, and recorded usage in order, then delete and verify the
assistant when every gate allows it.

The command exits 0 for every policy outcome, including a skip and an
exhausted delete retry (the next tick retries naturally). It exits 1 when a
gate dependency could not be queried, so the invoking scheduler can alert on
a broken integration.

Example:
  scythe run
  scythe run --assistant tbsg-tender-tool --threshold 3h --dry-run`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTick(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.Assistant, "assistant", "", "assistant name (defaults to SCYTHE_ASSISTANT)")
	cmd.Flags().DurationVar(&opts.Threshold, "threshold", 0, "idle threshold override, e.g. 3h (defaults to SCYTHE_INACTIVITY_THRESHOLD)")
	cmd.Flags().BoolVar(&opts.DryRun, "dry-run", false, "evaluate and report without deleting anything")
	cmd.Flags().BoolVar(&opts.Force, "force", false, "bypass the protected-hours gate")

	return cmd
}

func runTick(cmd *cobra.Command, opts *RunOptions) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if opts.Assistant == "" {
		opts.Assistant = cfg.Assistant
	}

	logger, err := logging.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	ctx = logr.NewContext(ctx, logger)

	shutdown, err := telemetry.Init(ctx, cfg.OTELEndpoint, cfg.ServiceName, opts.Version, cfg.OTELInsecure)
	if err != nil {
		return err
	}
	defer func() { _ = shutdown(context.Background()) }()

	runner, cleanupFn, err := buildRunner(ctx, cfg)
	if err != nil {
		return err
	}
	defer cleanupFn()

	res, err := runner.Run(ctx, cleanup.Request{
		Assistant: opts.Assistant,
		Threshold: opts.Threshold,
		DryRun:    opts.DryRun,
		Force:     opts.Force,
	})
	if err != nil {
		return err
	}

	fmt.Fprint(cmd.OutOrStdout(), res.Report)

	if res.ExitCode() != 0 {
		return fmt.Errorf("dependency check failed: %w", res.Verdict.Err)
	}
	return nil
}

// buildRunner assembles the gate clients, engine, and reaper from config.
// The returned cleanup function closes the store connections.
func buildRunner(ctx context.Context, cfg config.Config) (*cleanup.Runner, func(), error) {
	records, err := store.Open(ctx, store.Config{
		DatabaseURL: cfg.DatabaseURL,
		SupabaseURL: cfg.SupabaseURL,
		SupabaseKey: cfg.SupabaseKey,
	})
	if err != nil {
		return nil, nil, err
	}

	assistants, err := pinecone.NewClient(cfg.PineconeBaseURL, cfg.PineconeAPIKey)
	if err != nil {
		records.Close()
		return nil, nil, err
	}

	runs, err := newWorkflowClient(ctx, cfg)
	if err != nil {
		records.Close()
		return nil, nil, err
	}

	window, err := cfg.ProtectedWindow()
	if err != nil {
		records.Close()
		return nil, nil, err
	}

	engine, err := decision.New(runs, records, decision.Config{
		Window:     window,
		Matcher:    github.RunMatcher{Name: cfg.SyncWorkflow, Exact: cfg.SyncWorkflowExact},
		LockMaxAge: cfg.LockMaxAge,
		Threshold:  cfg.InactivityThreshold,
	})
	if err != nil {
		records.Close()
		return nil, nil, err
	}

	rp, err := reaper.New(assistants, reaper.Config{
		MaxAttempts:    cfg.DeleteAttempts,
		AttemptTimeout: cfg.DeleteTimeout,
		RetryDelay:     cfg.RetryDelay,
		SettleDelay:    cfg.SettleDelay,
	})
	if err != nil {
		records.Close()
		return nil, nil, err
	}

	estimator := cost.NewEstimator(&cost.Config{
		Currency:             "USD",
		AssistantCostPerHour: cfg.CostPerHour,
	})

	runner, err := cleanup.NewRunner(engine, rp, assistants, estimator, cleanup.Options{
		Window: window.String(),
	})
	if err != nil {
		records.Close()
		return nil, nil, err
	}

	return runner, records.Close, nil
}

func newWorkflowClient(ctx context.Context, cfg config.Config) (github.Client, error) {
	if cfg.UseAppAuth() {
		pem, err := os.ReadFile(cfg.GitHubAppPrivateKeyPath)
		if err != nil {
			return nil, fmt.Errorf("read GitHub App private key: %w", err)
		}
		return github.NewAppClient(ctx, github.AppConfig{
			AppID:          cfg.GitHubAppID,
			InstallationID: cfg.GitHubAppInstallationID,
			PrivateKeyPEM:  pem,
		}, cfg.GitHubOwner, cfg.GitHubRepo, cfg.RunLimit)
	}
	return github.NewClient(cfg.GitHubToken, cfg.GitHubOwner, cfg.GitHubRepo, cfg.RunLimit)
}
