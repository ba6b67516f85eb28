package aish

import (
	"context"

	"aish/memory"
)

// TaskRequest is everything a Runner needs to execute one task.
type TaskRequest struct {
	// ID uniquely identifies this task execution (GenerateID with PrefixTask).
	ID string

	// Description is the natural-language task handed to the sub-agent.
	Description string

	// MaxSteps is the step budget: the maximum number of reasoning/tool-call
	// iterations allotted to this task.
	MaxSteps int

	// Provider names the LLM provider configuration to use.
	Provider string

	// Depth is the recursion level this task runs at (root call tasks run
	// at depth 1).
	Depth int

	// Memory is the result scope resolved for this task's depth. The runner
	// may read sibling results from it; the dispatcher writes the task's own
	// result after completion.
	Memory *memory.Scope
}

// Runner executes one task's reasoning/tool-call loop up to its step budget.
// Implementations may themselves issue tool calls, including recursive
// spawn_agent calls that re-enter the orchestration core at a deeper level.
//
// A returned error marks the task as failed; the orchestrator converts it
// into a failed AgentResult rather than propagating it.
type Runner interface {
	RunTask(ctx context.Context, req TaskRequest) (*AgentResult, error)
}

// RunnerFunc adapts a plain function to the Runner interface (for tests and
// simple embedders).
type RunnerFunc func(ctx context.Context, req TaskRequest) (*AgentResult, error)

// RunTask calls f.
func (f RunnerFunc) RunTask(ctx context.Context, req TaskRequest) (*AgentResult, error) {
	return f(ctx, req)
}
