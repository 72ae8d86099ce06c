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

// Package cost provides savings estimation for hosted assistants.
//
// A hosted assistant bills for every hour it exists, used or not. This
// package quantifies what an idle assistant has already cost and what
// deleting it saves, so each cleanup run can report the money it moved.
//
// Key features:
//   - Calculates spend burned across an idle stretch
//   - Projects hourly, daily, and monthly savings from teardown
//   - Configurable flat hourly rate and currency
//   - Thread-safe calculations
//
// Savings Calculation:
//
// All figures derive from the flat hourly assistant rate:
//
//	Idle Spend = (Idle Hours) × (Rate Per Hour)
//	Daily Savings = Rate Per Hour × 24
//	Monthly Savings = Daily Savings × 30
//
// Default Pricing:
//
//   - Assistant: $0.05 per hour
//
// Example usage:
//
//	estimator := cost.NewEstimator(cost.DefaultConfig())
//
//	estimate := estimator.EstimateSavings(3 * time.Hour)
//	fmt.Printf("Burned while idle: %s %s\n", estimate.Currency, estimate.IdleSpend)
//	fmt.Printf("Monthly savings: %s %s\n", estimate.Currency, estimate.MonthlySavings)
package cost
