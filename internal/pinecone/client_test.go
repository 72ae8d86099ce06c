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

package pinecone

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestNewClient(t *testing.T) {
	tests := []struct {
		name    string
		baseURL string
		apiKey  string
		wantErr bool
	}{
		{
			name:    "valid configuration",
			baseURL: "https://api.example.com",
			apiKey:  "key",
			wantErr: false,
		},
		{
			name:    "empty base URL falls back to default",
			baseURL: "",
			apiKey:  "key",
			wantErr: false,
		},
		{
			name:    "missing api key",
			baseURL: "https://api.example.com",
			apiKey:  "",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, err := NewClient(tt.baseURL, tt.apiKey)
			if (err != nil) != tt.wantErr {
				t.Fatalf("NewClient() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && client == nil {
				t.Fatal("NewClient() returned nil client")
			}
		})
	}
}

func TestGetAssistant(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Api-Key"); got != "test-key" {
			t.Errorf("Api-Key header = %q, want test-key", got)
		}
		if r.Method != http.MethodGet {
			t.Errorf("method = %s, want GET", r.Method)
		}

		switch r.URL.Path {
		case "/assistant/assistants/tender-helper":
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte(`{
				"name": "tender-helper",
				"status": "Ready",
				"created_on": "2026-03-01T05:00:00Z",
				"updated_on": "2026-03-02T08:30:00Z"
			}`))
		case "/assistant/assistants/missing":
			w.WriteHeader(http.StatusNotFound)
		default:
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = w.Write([]byte(`{"error":"upstream exploded"}`))
		}
	}))
	defer server.Close()

	client, err := NewClient(server.URL, "test-key")
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}

	t.Run("existing assistant", func(t *testing.T) {
		assistant, err := client.GetAssistant(context.Background(), "tender-helper")
		if err != nil {
			t.Fatalf("GetAssistant() error = %v", err)
		}
		if assistant.Name != "tender-helper" {
			t.Errorf("Name = %q, want tender-helper", assistant.Name)
		}
		if assistant.Status != "Ready" {
			t.Errorf("Status = %q, want Ready", assistant.Status)
		}
		want := time.Date(2026, time.March, 1, 5, 0, 0, 0, time.UTC)
		if !assistant.CreatedOn.Equal(want) {
			t.Errorf("CreatedOn = %v, want %v", assistant.CreatedOn, want)
		}
	})

	t.Run("missing assistant", func(t *testing.T) {
		_, err := client.GetAssistant(context.Background(), "missing")
		if !IsNotFound(err) {
			t.Fatalf("GetAssistant() error = %v, want ErrNotFound", err)
		}
	})

	t.Run("server error is not a not-found", func(t *testing.T) {
		_, err := client.GetAssistant(context.Background(), "broken")
		if err == nil {
			t.Fatal("GetAssistant() expected error")
		}
		if IsNotFound(err) {
			t.Fatalf("GetAssistant() error %v classified as not-found", err)
		}
	})
}

func TestDeleteAssistant(t *testing.T) {
	var deleteCalls int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodDelete {
			t.Errorf("method = %s, want DELETE", r.Method)
		}
		deleteCalls++

		switch r.URL.Path {
		case "/assistant/assistants/tender-helper":
			w.WriteHeader(http.StatusOK)
		case "/assistant/assistants/missing":
			w.WriteHeader(http.StatusNotFound)
		default:
			w.WriteHeader(http.StatusServiceUnavailable)
		}
	}))
	defer server.Close()

	client, err := NewClient(server.URL, "test-key")
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}

	t.Run("successful delete", func(t *testing.T) {
		if err := client.DeleteAssistant(context.Background(), "tender-helper"); err != nil {
			t.Fatalf("DeleteAssistant() error = %v", err)
		}
	})

	t.Run("already absent", func(t *testing.T) {
		err := client.DeleteAssistant(context.Background(), "missing")
		if !IsNotFound(err) {
			t.Fatalf("DeleteAssistant() error = %v, want ErrNotFound", err)
		}
	})

	t.Run("server error", func(t *testing.T) {
		err := client.DeleteAssistant(context.Background(), "broken")
		if err == nil {
			t.Fatal("DeleteAssistant() expected error")
		}
		if IsNotFound(err) {
			t.Fatalf("DeleteAssistant() error %v classified as not-found", err)
		}
	})

	if deleteCalls != 3 {
		t.Errorf("server saw %d delete calls, want 3", deleteCalls)
	}
}

func TestDeleteAssistantHonorsContext(t *testing.T) {
	started := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		close(started)
		<-r.Context().Done()
	}))
	defer server.Close()

	client, err := NewClient(server.URL, "test-key")
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() {
		errCh <- client.DeleteAssistant(ctx, "tender-helper")
	}()

	<-started
	cancel()

	select {
	case err := <-errCh:
		if err == nil {
			t.Fatal("DeleteAssistant() expected context error")
		}
	case <-time.After(5 * time.Second):
		t.Fatal("DeleteAssistant() did not return after cancellation")
	}
}
