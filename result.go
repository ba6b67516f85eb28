package aish

import (
	"strings"

	"github.com/shopspring/decimal"
)

// AbortReason classifies why an orchestration call did not run to completion.
type AbortReason int

const (
	// AbortNone means the call was not aborted.
	AbortNone AbortReason = iota
	// AbortDepthLimit means the recursion ceiling rejected the call.
	AbortDepthLimit
	// AbortParseError means the task batch could not be parsed.
	AbortParseError
	// AbortEmptyTaskList means a batch was supplied but contained no tasks.
	AbortEmptyTaskList
	// AbortOther covers cooperative aborts and runner faults.
	AbortOther
)

// String returns a short identifier for the abort reason.
func (r AbortReason) String() string {
	switch r {
	case AbortNone:
		return "none"
	case AbortDepthLimit:
		return "depth_limit"
	case AbortParseError:
		return "parse_error"
	case AbortEmptyTaskList:
		return "empty_task_list"
	default:
		return "other"
	}
}

// Usage holds token counts accumulated over one task run.
type Usage struct {
	InputTokens  int64
	OutputTokens int64
}

// AgentResult is the outward-facing outcome of one orchestration call or one
// task within it. Every failure path produces a structured AgentResult rather
// than an unhandled fault.
type AgentResult struct {
	// Success is true only if every task in the call succeeded.
	Success bool

	// AbortReason is AbortNone for completed calls.
	AbortReason AbortReason

	// Summary is a short human-readable account of the outcome.
	Summary string

	// Output is the result text, or a pattern identifying the problem for
	// validation failures.
	Output string

	// Usage and Cost aggregate the provider spend for this call.
	Usage Usage
	Cost  decimal.Decimal

	// TaskResults is the per-task breakdown when a batch was run. Callers
	// needing partial-success semantics inspect this list; the aggregate
	// Success stays all-or-nothing.
	TaskResults []AgentResult
}

// Aggregate combines per-task results into one top-level result. Success is
// true only if every task succeeded; usage and cost are summed; outputs are
// joined in input order.
func Aggregate(results []AgentResult) AgentResult {
	agg := AgentResult{Success: true, Cost: decimal.Zero}

	var outputs []string
	failed := 0
	for _, r := range results {
		if !r.Success {
			agg.Success = false
			failed++
			if agg.AbortReason == AbortNone {
				agg.AbortReason = r.AbortReason
			}
		}
		if r.Output != "" {
			outputs = append(outputs, r.Output)
		}
		agg.Usage.InputTokens += r.Usage.InputTokens
		agg.Usage.OutputTokens += r.Usage.OutputTokens
		agg.Cost = agg.Cost.Add(r.Cost)
	}

	agg.Output = strings.Join(outputs, "\n\n")
	if agg.Success {
		agg.Summary = summaryForCount(len(results))
	} else {
		agg.Summary = summaryForFailures(len(results), failed)
	}
	agg.TaskResults = results
	return agg
}

func summaryForCount(n int) string {
	if n == 1 {
		return "task completed"
	}
	return "all tasks completed"
}

func summaryForFailures(total, failed int) string {
	if total == 1 {
		return "task failed"
	}
	if failed == total {
		return "all tasks failed"
	}
	return "some tasks failed"
}
