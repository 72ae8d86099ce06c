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
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Supabase reads the tracking tables through the PostgREST API
type Supabase struct {
	baseURL    string
	key        string
	httpClient *http.Client
}

var _ Store = (*Supabase)(nil)

// NewSupabase creates the REST backend for the given project URL and
// service key.
func NewSupabase(baseURL, key string) (*Supabase, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("store: supabase url is required")
	}
	if key == "" {
		return nil, fmt.Errorf("store: supabase key is required")
	}

	return &Supabase{
		baseURL: strings.TrimRight(baseURL, "/"),
		key:     key,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}, nil
}

// LastUsage returns the most recent usage observation for the named assistant
func (s *Supabase) LastUsage(ctx context.Context, assistant string) (*UsageRecord, error) {
	query := url.Values{}
	query.Set("assistant_name", "eq."+assistant)
	query.Set("order", "timestamp.desc")
	query.Set("limit", "1")

	var rows []UsageRecord
	if err := s.get(ctx, "/rest/v1/assistant_usage", query, &rows); err != nil {
		return nil, fmt.Errorf("store: last usage for %q: %w", assistant, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("store: assistant %q: %w", assistant, ErrNoUsageData)
	}

	return &rows[0], nil
}

// LocksSince returns activation locks created strictly after cutoff
func (s *Supabase) LocksSince(ctx context.Context, assistant string, cutoff time.Time) ([]ActivationLock, error) {
	query := url.Values{}
	query.Set("assistant_name", "eq."+assistant)
	query.Set("locked_at", "gt."+cutoff.UTC().Format(time.RFC3339))
	query.Set("order", "locked_at.desc")

	var rows []ActivationLock
	if err := s.get(ctx, "/rest/v1/assistant_activation_lock", query, &rows); err != nil {
		return nil, fmt.Errorf("store: locks for %q: %w", assistant, err)
	}

	return rows, nil
}

// Close is a no-op: the REST backend holds no connections.
func (s *Supabase) Close() {}

func (s *Supabase) get(ctx context.Context, path string, query url.Values, out any) error {
	endpoint := s.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("apikey", s.key)
	req.Header.Set("Authorization", "Bearer "+s.key)
	req.Header.Set("Accept", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		msg := strings.TrimSpace(string(body))
		if msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		return fmt.Errorf("status %d: %s", resp.StatusCode, msg)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}

	return nil
}
