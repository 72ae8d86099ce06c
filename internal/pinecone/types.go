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
	"time"
)

// Client interface defines the contract for the assistant lifecycle API
type Client interface {
	// GetAssistant retrieves the named assistant. Returns an error
	// wrapping ErrNotFound when the assistant does not exist.
	GetAssistant(ctx context.Context, name string) (*Assistant, error)
	// DeleteAssistant tears the named assistant down. Returns an error
	// wrapping ErrNotFound when the assistant does not exist.
	DeleteAssistant(ctx context.Context, name string) error
}

// Assistant represents a hosted assistant as reported by the API
type Assistant struct {
	Name      string    `json:"name"`
	Status    string    `json:"status"`
	CreatedOn time.Time `json:"created_on"`
	UpdatedOn time.Time `json:"updated_on"`
}
