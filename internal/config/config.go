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

// Package config loads and validates application configuration from
// environment variables.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/mthm112/scythe/internal/schedule"
)

// Config holds all application configuration. Every timeout and threshold
// the engine and reaper use lives here, so tests can construct them without
// touching the environment.
type Config struct {
	// Target assistant.
	Assistant           string
	InactivityThreshold time.Duration

	// Protected-hours window. The offset is an explicit number of hours
	// from UTC; the window never reads the system timezone. The original
	// UK deployment approximated business hours with a raw UTC range and
	// drifted every summer, so the offset is spelled out here instead.
	WindowStartHour int
	WindowEndHour   int
	WindowUTCOffset int
	WindowWeekdays  string

	// GitHub workflow guard. Token auth by default; the App fields switch
	// to installation-token auth when all three are set.
	GitHubToken             string
	GitHubOwner             string
	GitHubRepo              string
	GitHubAppID             int64
	GitHubAppInstallationID int64
	GitHubAppPrivateKeyPath string
	SyncWorkflow            string
	SyncWorkflowExact       bool
	RunLimit                int

	// Usage and activation lock store. DATABASE_URL selects the direct
	// Postgres backend; otherwise the Supabase REST backend is used.
	DatabaseURL string
	SupabaseURL string
	SupabaseKey string
	LockMaxAge  time.Duration

	// Pinecone lifecycle API.
	PineconeAPIKey  string
	PineconeBaseURL string

	// Reaper bounds.
	DeleteAttempts int
	DeleteTimeout  time.Duration
	RetryDelay     time.Duration
	SettleDelay    time.Duration

	// Savings estimation.
	CostPerHour float64

	// OTEL settings.
	OTELEndpoint string
	OTELInsecure bool
	ServiceName  string

	// Logging.
	LogLevel  string
	LogFormat string
}

// Load reads configuration from environment variables with sensible defaults.
func Load() (Config, error) {
	cfg := Config{
		Assistant:               envStr("SCYTHE_ASSISTANT", "tbsg-tender-tool"),
		InactivityThreshold:     envDuration("SCYTHE_INACTIVITY_THRESHOLD", 2*time.Hour),
		WindowStartHour:         envInt("SCYTHE_WINDOW_START_HOUR", 9),
		WindowEndHour:           envInt("SCYTHE_WINDOW_END_HOUR", 17),
		WindowUTCOffset:         envInt("SCYTHE_WINDOW_UTC_OFFSET", 0),
		WindowWeekdays:          envStr("SCYTHE_WINDOW_WEEKDAYS", "Mon,Tue,Wed,Thu,Fri"),
		GitHubToken:             envStr("GITHUB_TOKEN", ""),
		GitHubOwner:             envStr("GITHUB_OWNER", ""),
		GitHubRepo:              envStr("GITHUB_REPO", ""),
		GitHubAppID:             envInt64("GITHUB_APP_ID", 0),
		GitHubAppInstallationID: envInt64("GITHUB_APP_INSTALLATION_ID", 0),
		GitHubAppPrivateKeyPath: envStr("GITHUB_APP_PRIVATE_KEY_PATH", ""),
		SyncWorkflow:            envStr("SCYTHE_SYNC_WORKFLOW", "FTP to Pinecone Process"),
		SyncWorkflowExact:       envBool("SCYTHE_SYNC_WORKFLOW_EXACT", false),
		RunLimit:                envInt("SCYTHE_RUN_LIMIT", 20),
		DatabaseURL:             envStr("DATABASE_URL", ""),
		SupabaseURL:             envStr("SUPABASE_URL", ""),
		SupabaseKey:             envStr("SUPABASE_KEY", ""),
		LockMaxAge:              envDuration("SCYTHE_LOCK_MAX_AGE", 25*time.Minute),
		PineconeAPIKey:          envStr("PINECONE_API_KEY", ""),
		PineconeBaseURL:         envStr("PINECONE_BASE_URL", ""),
		DeleteAttempts:          envInt("SCYTHE_DELETE_ATTEMPTS", 2),
		DeleteTimeout:           envDuration("SCYTHE_DELETE_TIMEOUT", 120*time.Second),
		RetryDelay:              envDuration("SCYTHE_RETRY_DELAY", 5*time.Second),
		SettleDelay:             envDuration("SCYTHE_SETTLE_DELAY", 2*time.Second),
		CostPerHour:             envFloat("SCYTHE_COST_PER_HOUR", 0.05),
		OTELEndpoint:            envStr("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
		OTELInsecure:            envBool("OTEL_EXPORTER_OTLP_INSECURE", false),
		ServiceName:             envStr("OTEL_SERVICE_NAME", "scythe"),
		LogLevel:                envStr("SCYTHE_LOG_LEVEL", "info"),
		LogFormat:               envStr("SCYTHE_LOG_FORMAT", "json"),
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks that required configuration is present and coherent.
func (c Config) Validate() error {
	if c.Assistant == "" {
		return fmt.Errorf("config: SCYTHE_ASSISTANT is required")
	}
	if c.InactivityThreshold <= 0 {
		return fmt.Errorf("config: SCYTHE_INACTIVITY_THRESHOLD must be positive")
	}
	if c.LockMaxAge <= 0 {
		return fmt.Errorf("config: SCYTHE_LOCK_MAX_AGE must be positive")
	}
	if c.DeleteAttempts < 1 {
		return fmt.Errorf("config: SCYTHE_DELETE_ATTEMPTS must be at least 1")
	}
	if c.PineconeAPIKey == "" {
		return fmt.Errorf("config: PINECONE_API_KEY is required")
	}
	if c.GitHubOwner == "" || c.GitHubRepo == "" {
		return fmt.Errorf("config: GITHUB_OWNER and GITHUB_REPO are required")
	}
	if c.DatabaseURL == "" && (c.SupabaseURL == "" || c.SupabaseKey == "") {
		return fmt.Errorf("config: set DATABASE_URL or both SUPABASE_URL and SUPABASE_KEY")
	}
	if c.SyncWorkflow == "" {
		return fmt.Errorf("config: SCYTHE_SYNC_WORKFLOW is required")
	}
	if _, err := c.ProtectedWindow(); err != nil {
		return err
	}
	return nil
}

// ProtectedWindow builds the configured calendar window.
func (c Config) ProtectedWindow() (schedule.Window, error) {
	days, err := schedule.ParseWeekdays(c.WindowWeekdays)
	if err != nil {
		return schedule.Window{}, fmt.Errorf("config: SCYTHE_WINDOW_WEEKDAYS: %w", err)
	}
	w := schedule.Window{
		StartHour:      c.WindowStartHour,
		EndHour:        c.WindowEndHour,
		UTCOffsetHours: c.WindowUTCOffset,
		Weekdays:       days,
	}
	if err := w.Validate(); err != nil {
		return schedule.Window{}, err
	}
	return w, nil
}

// UseAppAuth reports whether GitHub App credentials are fully configured.
func (c Config) UseAppAuth() bool {
	return c.GitHubAppID != 0 && c.GitHubAppInstallationID != 0 && c.GitHubAppPrivateKeyPath != ""
}

func envStr(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func envInt(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return defaultVal
}

func envInt64(key string, defaultVal int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return defaultVal
}

func envFloat(key string, defaultVal float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return defaultVal
}

func envBool(key string, defaultVal bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return defaultVal
}

func envDuration(key string, defaultVal time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return defaultVal
}
