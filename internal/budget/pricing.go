package budget

import (
	"github.com/anthropics/anthropic-sdk-go"
	"github.com/shopspring/decimal"
)

// ModelPricing holds per-model token prices in USD per million tokens.
type ModelPricing struct {
	InputPerMTok         decimal.Decimal
	OutputPerMTok        decimal.Decimal
	LongInputPerMTok     decimal.Decimal // premium rate when total input > LongContextThreshold
	LongOutputPerMTok    decimal.Decimal
	CacheWritePerMTok    decimal.Decimal
	CacheReadPerMTok     decimal.Decimal
	LongContextThreshold int64 // input token count that triggers long-context pricing; 0 = none
}

var million = decimal.NewFromInt(1_000_000)

// InputCost prices one call's input side. Cache reads and writes carry their
// own rates; the long-context premium is decided by the call's total input.
func (p ModelPricing) InputCost(u Usage) decimal.Decimal {
	rate := p.InputPerMTok
	if p.LongContextThreshold > 0 && u.totalInput() > p.LongContextThreshold {
		rate = p.LongInputPerMTok
	}

	cost := decimal.NewFromInt(u.InputTokens).Mul(rate).Div(million)
	cost = cost.Add(decimal.NewFromInt(u.CacheReadTokens).Mul(p.CacheReadPerMTok).Div(million))
	cost = cost.Add(decimal.NewFromInt(u.CacheWriteTokens).Mul(p.CacheWritePerMTok).Div(million))
	return cost
}

// OutputCost prices one call's output side. The long-context premium depends
// on the call's total input, not on the output size.
func (p ModelPricing) OutputCost(u Usage) decimal.Decimal {
	rate := p.OutputPerMTok
	if p.LongContextThreshold > 0 && u.totalInput() > p.LongContextThreshold {
		rate = p.LongOutputPerMTok
	}
	return decimal.NewFromInt(u.OutputTokens).Mul(rate).Div(million)
}

// DefaultPricing contains built-in pricing for Claude models (USD per
// million tokens).
var DefaultPricing = map[anthropic.Model]ModelPricing{
	anthropic.ModelClaudeOpus4_6: {
		InputPerMTok:         decimal.NewFromFloat(5),
		OutputPerMTok:        decimal.NewFromFloat(25),
		LongInputPerMTok:     decimal.NewFromFloat(10),
		LongOutputPerMTok:    decimal.NewFromFloat(37.5),
		CacheWritePerMTok:    decimal.NewFromFloat(6.25),
		CacheReadPerMTok:     decimal.NewFromFloat(0.5),
		LongContextThreshold: 200_000,
	},
	anthropic.ModelClaudeSonnet4_5: {
		InputPerMTok:         decimal.NewFromFloat(3),
		OutputPerMTok:        decimal.NewFromFloat(15),
		LongInputPerMTok:     decimal.NewFromFloat(6),
		LongOutputPerMTok:    decimal.NewFromFloat(22.5),
		CacheWritePerMTok:    decimal.NewFromFloat(3.75),
		CacheReadPerMTok:     decimal.NewFromFloat(0.3),
		LongContextThreshold: 200_000,
	},
	anthropic.ModelClaudeHaiku4_5: {
		InputPerMTok:      decimal.NewFromFloat(1),
		OutputPerMTok:     decimal.NewFromFloat(5),
		CacheWritePerMTok: decimal.NewFromFloat(1.25),
		CacheReadPerMTok:  decimal.NewFromFloat(0.1),
	},
}
