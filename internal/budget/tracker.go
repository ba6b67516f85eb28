// Package budget accumulates per-task token usage and dollar cost across the
// API calls a sub-agent makes during its step loop.
package budget

import (
	"sync"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/shopspring/decimal"
)

// MaxDecimal is a sentinel for an effectively unlimited remaining budget.
var MaxDecimal = decimal.New(1, 18) // 1e18

// Usage holds token counts for a single API call.
type Usage struct {
	InputTokens      int64
	OutputTokens     int64
	CacheReadTokens  int64
	CacheWriteTokens int64
}

func (u Usage) totalInput() int64 {
	return u.InputTokens + u.CacheReadTokens + u.CacheWriteTokens
}

// Tracker accumulates token usage and cost across API calls. One Tracker
// serves one sub-agent task; it is safe for concurrent use.
type Tracker struct {
	maxCost decimal.Decimal // zero = unlimited
	pricing map[anthropic.Model]ModelPricing

	mu    sync.Mutex
	cost  decimal.Decimal
	usage Usage
}

// NewTracker creates a tracker. A maxCost of zero means unlimited.
func NewTracker(maxCost decimal.Decimal, pricing map[anthropic.Model]ModelPricing) *Tracker {
	return &Tracker{
		maxCost: maxCost,
		pricing: pricing,
		cost:    decimal.Zero,
	}
}

// Record adds one API call's usage and updates the cumulative cost. Calls
// against models missing from the pricing table count tokens but add no cost.
func (t *Tracker) Record(model anthropic.Model, u Usage) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.usage.InputTokens += u.InputTokens
	t.usage.OutputTokens += u.OutputTokens
	t.usage.CacheReadTokens += u.CacheReadTokens
	t.usage.CacheWriteTokens += u.CacheWriteTokens

	pricing, ok := t.pricing[model]
	if !ok {
		return
	}
	t.cost = t.cost.Add(pricing.InputCost(u)).Add(pricing.OutputCost(u))
}

// Cost returns the cumulative cost across all recorded calls.
func (t *Tracker) Cost() decimal.Decimal {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.cost
}

// TokenUsage returns the cumulative token usage across all recorded calls.
func (t *Tracker) TokenUsage() Usage {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.usage
}

// Remaining returns the budget left. Unlimited trackers return MaxDecimal.
func (t *Tracker) Remaining() decimal.Decimal {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.maxCost.IsZero() {
		return MaxDecimal
	}
	return t.maxCost.Sub(t.cost)
}

// Exhausted reports whether the cumulative cost has reached maxCost.
// Unlimited trackers are never exhausted.
func (t *Tracker) Exhausted() bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.maxCost.IsZero() {
		return false
	}
	return t.cost.GreaterThanOrEqual(t.maxCost)
}
