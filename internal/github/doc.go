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

// Package github reads GitHub Actions activity for the workflow guard.
//
// The ingest workflow rebuilds the assistant it syncs into, so deleting the
// assistant mid-run would strand the sync. This package answers a single
// question: which workflow runs are on the board right now. Callers pick out
// the conflicting runs with a RunMatcher and treat queued or in-progress
// matches as occupancy.
//
// Key features:
//   - Recent workflow run listing for a single repository
//   - Retry logic with exponential backoff and jitter
//   - Rate limit handling (429 and 5xx are retried, other 4xx are not)
//   - Token and GitHub App installation authentication
//
// Authentication:
//
// A personal access token with the repo scope is the simple path. Deployments
// that prefer short-lived credentials configure a GitHub App instead: an
// RS256 app JWT is exchanged for an installation token once per process,
// which comfortably outlives a cleanup pass.
//
// Example usage:
//
//	client, err := github.NewClient(token, "mthm112", "TBSG_Tenders", 0)
//	if err != nil {
//	    return err
//	}
//
//	runs, err := client.ListRecentRuns(ctx)
//	if err != nil {
//	    return err
//	}
//	matcher := github.RunMatcher{Name: "FTP to Pinecone Process", Exact: true}
//	for _, run := range runs {
//	    if matcher.Matches(run) && run.IsActive() {
//	        fmt.Printf("run %d is still going\n", run.ID)
//	    }
//	}
//
// Retry Logic:
//
// Failed requests are retried with exponential backoff:
//   - Initial backoff: 100 milliseconds
//   - Maximum backoff: 30 seconds
//   - Maximum retries: 3
//   - Backoff factor: 2.0
//
// Retries are performed for transient errors (network issues, rate limits,
// 5xx errors). Client errors (4xx except 429) are not retried.
package github
