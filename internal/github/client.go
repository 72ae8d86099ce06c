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
	"fmt"
	"math/rand"
	"net/http"
	"strconv"
	"time"

	"github.com/google/go-github/v66/github"
)

// DefaultRecentRunLimit bounds how many recent runs one guard query reads.
// The conflicting sync workflow runs at most a few times per day, so the
// newest twenty runs always include any active one.
const DefaultRecentRunLimit = 20

// RetryConfig defines the retry behavior for API calls
type RetryConfig struct {
	MaxRetries     int
	InitialBackoff time.Duration
	MaxBackoff     time.Duration
	BackoffFactor  float64
}

func defaultRetryConfig() *RetryConfig {
	return &RetryConfig{
		MaxRetries:     3,
		InitialBackoff: 100 * time.Millisecond,
		MaxBackoff:     30 * time.Second,
		BackoffFactor:  2.0,
	}
}

// githubClient implements the Client interface using go-github
type githubClient struct {
	client      *github.Client
	owner       string
	repo        string
	perPage     int
	retryConfig *RetryConfig
}

// NewClient creates a GitHub client for the given repository. An empty token
// yields an unauthenticated client, which still works against public
// repositories at reduced rate limits.
func NewClient(token, owner, repo string, perPage int) (Client, error) {
	if owner == "" || repo == "" {
		return nil, fmt.Errorf("github: owner and repo are required")
	}
	if perPage <= 0 {
		perPage = DefaultRecentRunLimit
	}

	client := github.NewClient(nil)
	if token != "" {
		client = client.WithAuthToken(token)
	}

	return &githubClient{
		client:      client,
		owner:       owner,
		repo:        repo,
		perPage:     perPage,
		retryConfig: defaultRetryConfig(),
	}, nil
}

// ListRecentRuns retrieves the most recent workflow runs for the repository
func (c *githubClient) ListRecentRuns(ctx context.Context) ([]*WorkflowRun, error) {
	opts := &github.ListWorkflowRunsOptions{
		ListOptions: github.ListOptions{
			PerPage: c.perPage,
		},
	}

	var runs *github.WorkflowRuns
	var err error

	err = c.executeWithRetry(ctx, func() error {
		runs, _, err = c.client.Actions.ListRepositoryWorkflowRuns(ctx, c.owner, c.repo, opts)
		return err
	})

	if err != nil {
		return nil, fmt.Errorf("failed to list workflow runs: %w", err)
	}

	result := make([]*WorkflowRun, 0, len(runs.WorkflowRuns))
	for _, run := range runs.WorkflowRuns {
		if converted := c.convertWorkflowRun(run); converted != nil {
			result = append(result, converted)
		}
	}

	return result, nil
}

// executeWithRetry executes an operation with exponential backoff retry
func (c *githubClient) executeWithRetry(ctx context.Context, operation func() error) error {
	var lastErr error

	for attempt := 0; attempt <= c.retryConfig.MaxRetries; attempt++ {
		// Check if context is cancelled before attempting
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		lastErr = operation()

		// Success
		if lastErr == nil {
			return nil
		}

		// Check if error is retryable
		if !c.isRetryableError(lastErr) {
			return lastErr
		}

		// Don't retry if we've exhausted attempts
		if attempt == c.retryConfig.MaxRetries {
			break
		}

		// Calculate backoff with jitter
		backoff := c.calculateBackoff(attempt)

		// Wait with context cancellation support
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff):
			// Continue to next retry
		}
	}

	return fmt.Errorf("operation failed after %d retries: %w", c.retryConfig.MaxRetries, lastErr)
}

// isRetryableError determines if an error should trigger a retry
func (c *githubClient) isRetryableError(err error) bool {
	if err == nil {
		return false
	}

	// Check for GitHub API errors
	if ghErr, ok := err.(*github.ErrorResponse); ok {
		switch ghErr.Response.StatusCode {
		case http.StatusTooManyRequests,
			http.StatusBadGateway,
			http.StatusServiceUnavailable,
			http.StatusGatewayTimeout:
			return true
		case http.StatusForbidden:
			// Check if it's a rate limit error
			if ghErr.Message == "API rate limit exceeded" {
				return true
			}
		}
	}

	return false
}

// calculateBackoff calculates the backoff duration for a retry attempt
func (c *githubClient) calculateBackoff(attempt int) time.Duration {
	// Exponential backoff with jitter
	multiplier := 1 << uint(attempt) // 2^attempt
	base := float64(c.retryConfig.InitialBackoff) * float64(multiplier)

	// Add jitter (±20%)
	jitter := (rand.Float64() * 0.4) - 0.2 // -0.2 to +0.2
	backoff := time.Duration(base * (1 + jitter))

	// Cap at max backoff
	if backoff > c.retryConfig.MaxBackoff {
		backoff = c.retryConfig.MaxBackoff
	}

	return backoff
}

// checkRateLimit checks response headers for rate limit information
func (c *githubClient) checkRateLimit(resp *http.Response) (bool, time.Duration) {
	if resp == nil {
		return false, 0
	}

	// Check primary rate limit
	remaining := resp.Header.Get("X-RateLimit-Remaining")
	if remaining != "" {
		if rem, err := strconv.Atoi(remaining); err == nil && rem == 0 {
			// Rate limited - calculate wait time
			resetStr := resp.Header.Get("X-RateLimit-Reset")
			if resetStr != "" {
				if resetTime, err := strconv.ParseInt(resetStr, 10, 64); err == nil {
					waitTime := time.Until(time.Unix(resetTime, 0))
					if waitTime > 0 {
						return true, waitTime
					}
				}
			}
		}
	}

	// Check for secondary rate limit (403 without rate limit headers)
	if resp.StatusCode == http.StatusForbidden {
		// Default wait for secondary rate limit
		return true, 60 * time.Second
	}

	return false, 0
}

// convertWorkflowRun converts a GitHub workflow run to our domain model
func (c *githubClient) convertWorkflowRun(run *github.WorkflowRun) *WorkflowRun {
	if run == nil {
		return nil
	}

	return &WorkflowRun{
		ID:         run.GetID(),
		Name:       run.GetName(),
		Status:     run.GetStatus(),
		Conclusion: run.GetConclusion(),
		Branch:     run.GetHeadBranch(),
		URL:        run.GetHTMLURL(),
		CreatedAt:  run.GetCreatedAt().Time,
		UpdatedAt:  run.GetUpdatedAt().Time,
	}
}
