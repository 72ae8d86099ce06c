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

// Package cost provides savings estimation for reaped assistants
package cost

import (
	"fmt"
	"sync"
	"time"
)

// Config defines the pricing configuration for savings estimation
type Config struct {
	Currency             string
	AssistantCostPerHour float64
}

// DefaultConfig returns the default pricing configuration
func DefaultConfig() *Config {
	return &Config{
		AssistantCostPerHour: 0.05, // $0.05 per assistant-hour
		Currency:             "USD",
	}
}

// Estimate summarizes the money burned by an idle assistant and the savings
// unlocked by deleting it
type Estimate struct {
	Currency       string
	HourlyRate     string
	IdleSpend      string
	DailySavings   string
	MonthlySavings string
}

// Estimator calculates uptime spend for hosted assistants
type Estimator struct {
	config *Config
	mu     sync.RWMutex
}

// NewEstimator creates a new savings estimator with the given configuration.
// If config is nil, default configuration is used.
func NewEstimator(config *Config) *Estimator {
	if config == nil {
		config = DefaultConfig()
	}
	return &Estimator{
		config: config,
	}
}

// CalculateIdleSpend calculates the money already burned while the assistant
// sat idle for the given duration. Negative durations count as zero.
func (e *Estimator) CalculateIdleSpend(idle time.Duration) float64 {
	e.mu.RLock()
	defer e.mu.RUnlock()

	hours := idle.Hours()
	if hours < 0 {
		hours = 0
	}
	return hours * e.config.AssistantCostPerHour
}

// CalculateDailySavings calculates the daily savings from keeping one
// assistant torn down
func (e *Estimator) CalculateDailySavings() float64 {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.config.AssistantCostPerHour * 24
}

// CalculateMonthlySavings calculates the projected monthly savings (30 days)
// from keeping one assistant torn down
func (e *Estimator) CalculateMonthlySavings() float64 {
	return e.CalculateDailySavings() * 30
}

// EstimateSavings builds the full savings summary for an assistant that has
// been idle for the given duration
func (e *Estimator) EstimateSavings(idle time.Duration) *Estimate {
	e.mu.RLock()
	currency := e.config.Currency
	rate := e.config.AssistantCostPerHour
	e.mu.RUnlock()

	return &Estimate{
		Currency:       currency,
		HourlyRate:     formatCost(rate),
		IdleSpend:      formatCost(e.CalculateIdleSpend(idle)),
		DailySavings:   formatCost(e.CalculateDailySavings()),
		MonthlySavings: formatCost(e.CalculateMonthlySavings()),
	}
}

// formatCost formats a cost value as a string with 4 decimal places for transparency
func formatCost(cost float64) string {
	return fmt.Sprintf("%.4f", cost)
}

// GetConfig returns the current pricing configuration
func (e *Estimator) GetConfig() *Config {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.config
}

// UpdateConfig updates the pricing configuration
func (e *Estimator) UpdateConfig(config *Config) {
	if config != nil {
		e.mu.Lock()
		defer e.mu.Unlock()
		e.config = config
	}
}
