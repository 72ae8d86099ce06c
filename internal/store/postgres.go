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

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Postgres reads the tracking tables over a direct connection pool
type Postgres struct {
	pool *pgxpool.Pool
}

var _ Store = (*Postgres)(nil)

const lastUsageSQL = `
SELECT assistant_name, action, timestamp
FROM assistant_usage
WHERE assistant_name = $1
ORDER BY timestamp DESC
LIMIT 1`

// Strict inequality: a lock exactly as old as the staleness limit is expired.
const locksSinceSQL = `
SELECT assistant_name, COALESCE(locked_by, ''), COALESCE(workflow_run_id, ''), COALESCE(status, ''), locked_at
FROM assistant_activation_lock
WHERE assistant_name = $1 AND locked_at > $2
ORDER BY locked_at DESC`

// NewPostgres connects a pool to the given database URL and verifies it with
// a ping before returning.
func NewPostgres(ctx context.Context, dsn string) (*Postgres, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("store: parse database url: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("store: create pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("store: ping database: %w", err)
	}

	return &Postgres{pool: pool}, nil
}

// LastUsage returns the most recent usage observation for the named assistant
func (p *Postgres) LastUsage(ctx context.Context, assistant string) (*UsageRecord, error) {
	var rec UsageRecord
	err := p.pool.QueryRow(ctx, lastUsageSQL, assistant).
		Scan(&rec.AssistantName, &rec.Action, &rec.Timestamp)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("store: assistant %q: %w", assistant, ErrNoUsageData)
	}
	if err != nil {
		return nil, fmt.Errorf("store: last usage for %q: %w", assistant, err)
	}

	return &rec, nil
}

// LocksSince returns activation locks created strictly after cutoff
func (p *Postgres) LocksSince(ctx context.Context, assistant string, cutoff time.Time) ([]ActivationLock, error) {
	rows, err := p.pool.Query(ctx, locksSinceSQL, assistant, cutoff)
	if err != nil {
		return nil, fmt.Errorf("store: locks for %q: %w", assistant, err)
	}
	defer rows.Close()

	var locks []ActivationLock
	for rows.Next() {
		var l ActivationLock
		if err := rows.Scan(&l.AssistantName, &l.LockedBy, &l.WorkflowRunID, &l.Status, &l.LockedAt); err != nil {
			return nil, fmt.Errorf("store: scan lock row: %w", err)
		}
		locks = append(locks, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("store: iterate lock rows: %w", err)
	}

	return locks, nil
}

// Close releases the pool.
func (p *Postgres) Close() {
	p.pool.Close()
}
