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

package store

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrNoUsageData indicates an assistant has no rows in the usage table at
// all, as opposed to the table being unreachable.
var ErrNoUsageData = errors.New("store: no usage data")

// Store interface defines the contract for reading the tracking tables
type Store interface {
	// LastUsage returns the most recent usage observation for the named
	// assistant. Returns an error wrapping ErrNoUsageData when the
	// assistant has never been recorded.
	LastUsage(ctx context.Context, assistant string) (*UsageRecord, error)
	// LocksSince returns activation locks for the assistant created
	// strictly after cutoff, newest first.
	LocksSince(ctx context.Context, assistant string, cutoff time.Time) ([]ActivationLock, error)
	// Close releases backend connections.
	Close()
}

// UsageRecord is one observation from the assistant_usage table
type UsageRecord struct {
	AssistantName string    `json:"assistant_name"`
	Action        string    `json:"action"`
	Timestamp     time.Time `json:"timestamp"`
}

// ActivationLock marks an activation in flight. The table is keyed by
// assistant name, so there is at most one lock row per assistant.
type ActivationLock struct {
	AssistantName string    `json:"assistant_name"`
	LockedBy      string    `json:"locked_by"`
	WorkflowRunID string    `json:"workflow_run_id"`
	Status        string    `json:"status"`
	LockedAt      time.Time `json:"locked_at"`
}

// Age returns how long the lock has been held as of now.
func (l ActivationLock) Age(now time.Time) time.Duration {
	return now.Sub(l.LockedAt)
}

// Config selects and configures a backend.
type Config struct {
	// DatabaseURL is a Postgres connection string for the direct backend.
	DatabaseURL string
	// SupabaseURL and SupabaseKey configure the PostgREST backend.
	SupabaseURL string
	SupabaseKey string
}

// Open builds the Store for the given configuration. A DatabaseURL selects
// the direct Postgres backend; otherwise the Supabase REST backend is used.
func Open(ctx context.Context, cfg Config) (Store, error) {
	if cfg.DatabaseURL != "" {
		return NewPostgres(ctx, cfg.DatabaseURL)
	}
	if cfg.SupabaseURL != "" || cfg.SupabaseKey != "" {
		return NewSupabase(cfg.SupabaseURL, cfg.SupabaseKey)
	}
	return nil, fmt.Errorf("store: no backend configured: set DATABASE_URL or SUPABASE_URL and SUPABASE_KEY")
}
