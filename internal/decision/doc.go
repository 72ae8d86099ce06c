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

// Package decision implements the ordered safety evaluation that decides
// whether an idle assistant may be torn down.
//
// Gates run in a fixed order: protected hours, conflicting workflow
// activity, fresh activation locks, then last recorded usage against the
// idle threshold. The first gate that settles the question wins, and a gate
// that cannot be evaluated keeps the assistant rather than allowing
// deletion on missing evidence. The free calendar check runs ahead of every
// network call, so when several gates would block, the reported reason is
// the most actionable one.
//
// A forced request bypasses the protected-hours gate only. The gates that
// watch live activity still apply, so force cannot delete an assistant out
// from under a running sync.
package decision
