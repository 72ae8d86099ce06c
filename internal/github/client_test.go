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
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/go-github/v66/github"
)

// newTestClient points a githubClient at an httptest server
func newTestClient(t *testing.T, serverURL, owner, repo string, perPage int) *githubClient {
	t.Helper()

	client := &githubClient{
		client:      github.NewClient(nil),
		owner:       owner,
		repo:        repo,
		perPage:     perPage,
		retryConfig: defaultRetryConfig(),
	}
	client.client.BaseURL, _ = client.client.BaseURL.Parse(serverURL + "/")
	return client
}

// TestNewClient tests the creation of a new GitHub client
func TestNewClient(t *testing.T) {
	tests := []struct {
		name      string
		token     string
		owner     string
		repo      string
		perPage   int
		wantError bool
	}{
		{
			name:      "Valid token creates client",
			token:     "github_pat_test123",
			owner:     "mthm112",
			repo:      "TBSG_Tenders",
			perPage:   20,
			wantError: false,
		},
		{
			name:      "Empty token creates unauthenticated client",
			token:     "",
			owner:     "mthm112",
			repo:      "TBSG_Tenders",
			perPage:   20,
			wantError: false,
		},
		{
			name:      "Zero perPage falls back to default",
			token:     "github_pat_test123",
			owner:     "mthm112",
			repo:      "TBSG_Tenders",
			perPage:   0,
			wantError: false,
		},
		{
			name:      "Missing owner is rejected",
			token:     "github_pat_test123",
			owner:     "",
			repo:      "TBSG_Tenders",
			perPage:   20,
			wantError: true,
		},
		{
			name:      "Missing repo is rejected",
			token:     "github_pat_test123",
			owner:     "mthm112",
			repo:      "",
			perPage:   20,
			wantError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, err := NewClient(tt.token, tt.owner, tt.repo, tt.perPage)
			if tt.wantError && err == nil {
				t.Errorf("NewClient() expected error, got nil")
			}
			if !tt.wantError && err != nil {
				t.Errorf("NewClient() unexpected error: %v", err)
			}
			if !tt.wantError && client == nil {
				t.Errorf("NewClient() returned nil client")
			}
		})
	}
}

// TestListRecentRuns tests fetching recent workflow runs
func TestListRecentRuns(t *testing.T) {
	createdAt := time.Date(2026, 3, 2, 5, 0, 0, 0, time.UTC)
	updatedAt := time.Date(2026, 3, 2, 5, 4, 0, 0, time.UTC)

	tests := []struct {
		name       string
		owner      string
		repo       string
		mockRuns   *github.WorkflowRuns
		wantRuns   []*WorkflowRun
		wantError  bool
		statusCode int
	}{
		{
			name:  "Successfully fetches workflow runs",
			owner: "mthm112",
			repo:  "TBSG_Tenders",
			mockRuns: &github.WorkflowRuns{
				TotalCount: github.Int(2),
				WorkflowRuns: []*github.WorkflowRun{
					{
						ID:         github.Int64(101),
						Name:       github.String("FTP to Pinecone Process"),
						Status:     github.String("in_progress"),
						HeadBranch: github.String("main"),
						HTMLURL:    github.String("https://github.com/mthm112/TBSG_Tenders/actions/runs/101"),
						CreatedAt:  &github.Timestamp{Time: createdAt},
						UpdatedAt:  &github.Timestamp{Time: updatedAt},
					},
					{
						ID:         github.Int64(100),
						Name:       github.String("CI"),
						Status:     github.String("completed"),
						Conclusion: github.String("success"),
						HeadBranch: github.String("main"),
						HTMLURL:    github.String("https://github.com/mthm112/TBSG_Tenders/actions/runs/100"),
						CreatedAt:  &github.Timestamp{Time: createdAt.Add(-time.Hour)},
						UpdatedAt:  &github.Timestamp{Time: updatedAt.Add(-time.Hour)},
					},
				},
			},
			wantRuns: []*WorkflowRun{
				{
					ID:        101,
					Name:      "FTP to Pinecone Process",
					Status:    "in_progress",
					Branch:    "main",
					URL:       "https://github.com/mthm112/TBSG_Tenders/actions/runs/101",
					CreatedAt: createdAt,
					UpdatedAt: updatedAt,
				},
				{
					ID:         100,
					Name:       "CI",
					Status:     "completed",
					Conclusion: "success",
					Branch:     "main",
					URL:        "https://github.com/mthm112/TBSG_Tenders/actions/runs/100",
					CreatedAt:  createdAt.Add(-time.Hour),
					UpdatedAt:  updatedAt.Add(-time.Hour),
				},
			},
			wantError:  false,
			statusCode: http.StatusOK,
		},
		{
			name:  "Handles empty run list",
			owner: "mthm112",
			repo:  "TBSG_Tenders",
			mockRuns: &github.WorkflowRuns{
				TotalCount:   github.Int(0),
				WorkflowRuns: []*github.WorkflowRun{},
			},
			wantRuns:   []*WorkflowRun{},
			wantError:  false,
			statusCode: http.StatusOK,
		},
		{
			name:       "Handles not found error",
			owner:      "mthm112",
			repo:       "does-not-exist",
			mockRuns:   nil,
			wantRuns:   nil,
			wantError:  true,
			statusCode: http.StatusNotFound,
		},
		{
			name:       "Handles bad credentials error",
			owner:      "mthm112",
			repo:       "TBSG_Tenders",
			mockRuns:   nil,
			wantRuns:   nil,
			wantError:  true,
			statusCode: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Create test server
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				expectedPath := fmt.Sprintf("/repos/%s/%s/actions/runs", tt.owner, tt.repo)
				if r.URL.Path != expectedPath {
					t.Errorf("Expected path %s, got %s", expectedPath, r.URL.Path)
				}
				if got := r.URL.Query().Get("per_page"); got != "20" {
					t.Errorf("Expected per_page=20, got %q", got)
				}

				if tt.statusCode != http.StatusOK {
					w.WriteHeader(tt.statusCode)
					switch tt.statusCode {
					case http.StatusNotFound:
						w.Write([]byte(`{"message":"Not Found"}`))
					case http.StatusUnauthorized:
						w.Write([]byte(`{"message":"Bad credentials"}`))
					}
					return
				}

				w.WriteHeader(http.StatusOK)
				json.NewEncoder(w).Encode(tt.mockRuns)
			}))
			defer server.Close()

			client := newTestClient(t, server.URL, tt.owner, tt.repo, 20)

			// Execute test
			runs, err := client.ListRecentRuns(context.Background())

			// Verify results
			if tt.wantError && err == nil {
				t.Errorf("ListRecentRuns() expected error, got nil")
			}
			if !tt.wantError && err != nil {
				t.Errorf("ListRecentRuns() unexpected error: %v", err)
			}
			if tt.wantError {
				return
			}
			if runs == nil {
				t.Fatalf("ListRecentRuns() returned nil runs")
			}
			if len(runs) != len(tt.wantRuns) {
				t.Fatalf("ListRecentRuns() returned %d runs, want %d", len(runs), len(tt.wantRuns))
			}
			for i, run := range runs {
				want := tt.wantRuns[i]
				if run.ID != want.ID {
					t.Errorf("Run[%d].ID = %d, want %d", i, run.ID, want.ID)
				}
				if run.Name != want.Name {
					t.Errorf("Run[%d].Name = %s, want %s", i, run.Name, want.Name)
				}
				if run.Status != want.Status {
					t.Errorf("Run[%d].Status = %s, want %s", i, run.Status, want.Status)
				}
				if run.Conclusion != want.Conclusion {
					t.Errorf("Run[%d].Conclusion = %s, want %s", i, run.Conclusion, want.Conclusion)
				}
				if run.Branch != want.Branch {
					t.Errorf("Run[%d].Branch = %s, want %s", i, run.Branch, want.Branch)
				}
				if run.URL != want.URL {
					t.Errorf("Run[%d].URL = %s, want %s", i, run.URL, want.URL)
				}
				if !run.CreatedAt.Equal(want.CreatedAt) {
					t.Errorf("Run[%d].CreatedAt = %v, want %v", i, run.CreatedAt, want.CreatedAt)
				}
			}
		})
	}
}

// TestListRecentRunsPerPage verifies the configured limit reaches the API
func TestListRecentRunsPerPage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("per_page"); got != "5" {
			t.Errorf("Expected per_page=5, got %q", got)
		}
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(&github.WorkflowRuns{
			TotalCount:   github.Int(0),
			WorkflowRuns: []*github.WorkflowRun{},
		})
	}))
	defer server.Close()

	client := newTestClient(t, server.URL, "mthm112", "TBSG_Tenders", 5)

	runs, err := client.ListRecentRuns(context.Background())
	if err != nil {
		t.Fatalf("ListRecentRuns() unexpected error: %v", err)
	}
	if len(runs) != 0 {
		t.Errorf("ListRecentRuns() returned %d runs, want 0", len(runs))
	}
}

// TestWorkflowRunIsActive tests the activity classification of run statuses
func TestWorkflowRunIsActive(t *testing.T) {
	tests := []struct {
		name   string
		status string
		want   bool
	}{
		{name: "Queued run is active", status: StatusQueued, want: true},
		{name: "In-progress run is active", status: StatusInProgress, want: true},
		{name: "Completed run is not active", status: StatusCompleted, want: false},
		{name: "Waiting run is not active", status: "waiting", want: false},
		{name: "Pending run is not active", status: "pending", want: false},
		{name: "Empty status is not active", status: "", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			run := &WorkflowRun{ID: 1, Name: "FTP to Pinecone Process", Status: tt.status}
			if got := run.IsActive(); got != tt.want {
				t.Errorf("IsActive() = %v, want %v", got, tt.want)
			}
		})
	}
}

// TestRunMatcherMatches tests workflow run selection
func TestRunMatcherMatches(t *testing.T) {
	tests := []struct {
		name    string
		matcher RunMatcher
		run     *WorkflowRun
		want    bool
	}{
		{
			name:    "Exact match on full name",
			matcher: RunMatcher{Name: "FTP to Pinecone Process", Exact: true},
			run:     &WorkflowRun{Name: "FTP to Pinecone Process"},
			want:    true,
		},
		{
			name:    "Exact match rejects different case",
			matcher: RunMatcher{Name: "FTP to Pinecone Process", Exact: true},
			run:     &WorkflowRun{Name: "ftp to pinecone process"},
			want:    false,
		},
		{
			name:    "Exact match rejects substring",
			matcher: RunMatcher{Name: "FTP to Pinecone Process", Exact: true},
			run:     &WorkflowRun{Name: "FTP to Pinecone Process (legacy)"},
			want:    false,
		},
		{
			name:    "Substring match ignores case",
			matcher: RunMatcher{Name: "pinecone", Exact: false},
			run:     &WorkflowRun{Name: "FTP to Pinecone Process"},
			want:    true,
		},
		{
			name:    "Substring match rejects unrelated workflow",
			matcher: RunMatcher{Name: "pinecone", Exact: false},
			run:     &WorkflowRun{Name: "CI"},
			want:    false,
		},
		{
			name:    "Empty matcher name selects nothing",
			matcher: RunMatcher{Name: "", Exact: false},
			run:     &WorkflowRun{Name: "FTP to Pinecone Process"},
			want:    false,
		},
		{
			name:    "Nil run never matches",
			matcher: RunMatcher{Name: "FTP to Pinecone Process", Exact: true},
			run:     nil,
			want:    false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.matcher.Matches(tt.run); got != tt.want {
				t.Errorf("Matches() = %v, want %v", got, tt.want)
			}
		})
	}
}
