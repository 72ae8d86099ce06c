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

// Package store reads the usage and activation-lock tracking tables.
//
// Every assistant interaction is recorded in the assistant_usage table by the
// serving side, and workflows that are mid-activation hold a row in
// assistant_activation_lock. Cleanup only ever reads these tables; writing
// usage rows and taking locks belongs to the systems doing the work.
//
// Key features:
//   - Latest-usage lookup per assistant, with a distinct no-data signal
//   - Fresh activation-lock lookup bounded by a caller-supplied cutoff
//   - Two interchangeable backends behind one Store interface
//
// Backends:
//
// The Supabase backend talks to the PostgREST API with the project service
// key, matching how the rest of the pipeline reaches these tables. The
// Postgres backend connects straight to the database with a pgx pool for
// deployments that have direct network access. Open picks the backend from
// the configuration: a DATABASE_URL wins over a Supabase URL/key pair.
//
// Freshness Semantics:
//
// LocksSince returns rows created strictly after the cutoff. A lock whose
// age equals the staleness limit exactly is treated as expired, so an
// abandoned lock can never block cleanup for longer than the limit.
//
// Example usage:
//
//	st, err := store.Open(ctx, store.Config{
//	    SupabaseURL: "https://project.supabase.co",
//	    SupabaseKey: key,
//	})
//	if err != nil {
//	    return err
//	}
//	defer st.Close()
//
//	rec, err := st.LastUsage(ctx, "tbsg-tender-tool")
package store
