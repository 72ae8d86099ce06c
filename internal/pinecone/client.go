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
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// DefaultBaseURL is the public endpoint of the Pinecone API.
const DefaultBaseURL = "https://api.pinecone.io"

// ErrNotFound indicates the named assistant does not exist.
var ErrNotFound = errors.New("pinecone: assistant not found")

// IsNotFound reports whether err means the assistant does not exist.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// assistantClient implements the Client interface over the REST API
type assistantClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewClient creates a lifecycle client authenticated with the given API key.
// An empty baseURL falls back to DefaultBaseURL.
func NewClient(baseURL, apiKey string) (Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("pinecone: api key is required")
	}
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	return &assistantClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}, nil
}

// GetAssistant retrieves the named assistant
func (c *assistantClient) GetAssistant(ctx context.Context, name string) (*Assistant, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, c.assistantPath(name))
	if err != nil {
		return nil, fmt.Errorf("pinecone: describe assistant %q: %w", name, err)
	}
	defer resp.Body.Close() //nolint:errcheck

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, fmt.Errorf("pinecone: assistant %q: %w", name, ErrNotFound)
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return nil, c.apiError("describe assistant", name, resp)
	}

	var assistant Assistant
	if err := json.NewDecoder(resp.Body).Decode(&assistant); err != nil {
		return nil, fmt.Errorf("pinecone: decode assistant %q: %w", name, err)
	}

	return &assistant, nil
}

// DeleteAssistant tears the named assistant down
func (c *assistantClient) DeleteAssistant(ctx context.Context, name string) error {
	resp, err := c.doRequest(ctx, http.MethodDelete, c.assistantPath(name))
	if err != nil {
		return fmt.Errorf("pinecone: delete assistant %q: %w", name, err)
	}
	defer resp.Body.Close() //nolint:errcheck

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("pinecone: assistant %q: %w", name, ErrNotFound)
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return c.apiError("delete assistant", name, resp)
	}

	// Drain so the connection can be reused
	_, _ = io.Copy(io.Discard, resp.Body)

	return nil
}

func (c *assistantClient) assistantPath(name string) string {
	return "/assistant/assistants/" + url.PathEscape(name)
}

func (c *assistantClient) doRequest(ctx context.Context, method, path string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Api-Key", c.apiKey)
	req.Header.Set("Accept", "application/json")

	return c.httpClient.Do(req)
}

// apiError builds an error carrying the status code and a trimmed body excerpt
func (c *assistantClient) apiError(op, name string, resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
	msg := strings.TrimSpace(string(body))
	if msg == "" {
		msg = http.StatusText(resp.StatusCode)
	}
	return fmt.Errorf("pinecone: %s %q: status %d: %s", op, name, resp.StatusCode, msg)
}
