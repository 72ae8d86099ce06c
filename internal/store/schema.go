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

const schemaSQL = `-- Run this SQL in your Supabase SQL Editor to create the tracking tables

CREATE TABLE IF NOT EXISTS assistant_usage (
    id BIGSERIAL PRIMARY KEY,
    assistant_name TEXT NOT NULL,
    action TEXT NOT NULL,
    timestamp TIMESTAMPTZ DEFAULT NOW()
);

-- Create index for fast lookups
CREATE INDEX IF NOT EXISTS idx_assistant_usage_name_time
ON assistant_usage(assistant_name, timestamp DESC);

COMMENT ON TABLE assistant_usage IS 'Tracks Pinecone assistant usage for automatic cleanup';

-- Create activation lock table
CREATE TABLE IF NOT EXISTS assistant_activation_lock (
    assistant_name TEXT PRIMARY KEY,
    locked_at TIMESTAMPTZ DEFAULT NOW(),
    locked_by TEXT,
    workflow_run_id TEXT,
    status TEXT DEFAULT 'activating'
);

-- Create index for fast lookups
CREATE INDEX IF NOT EXISTS idx_activation_lock_time
ON assistant_activation_lock(locked_at);

COMMENT ON TABLE assistant_activation_lock IS 'Prevents duplicate assistant activations';
`

// Schema returns the SQL that creates the tracking tables.
func Schema() string {
	return schemaSQL
}
