package spawn

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"aish"
	"aish/memory"
	"aish/provider"
)

// Request carries the spawn_agent tool parameters. Every field is optional.
type Request struct {
	// Task is a single task description.
	Task string

	// Tasks is a JSON array of {task, max_steps?, provider?} objects.
	// When present it takes precedence over Task.
	Tasks string

	// Parallel runs a batch concurrently. Results stay index-aligned with
	// the batch either way.
	Parallel bool

	// MaxSteps is the step budget applied to tasks that do not carry their
	// own; 0 means aish.DefaultMaxSteps.
	MaxSteps int

	// Memory is an advisory hint only: the effective scope is always derived
	// from the recursion depth at call time.
	Memory string

	// Silent suppresses publishing the aggregate into the orchestrator's
	// last-result slot. The structured result is still returned, and the
	// depth cleanup still runs.
	Silent bool
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithMaxDepth overrides the recursion ceiling (default aish.MaxDepth).
func WithMaxDepth(n int) Option {
	return func(o *Orchestrator) { o.guard = NewGuard(n) }
}

// WithAbortSignal installs a shared abort signal. Useful when the embedding
// shell wires its interrupt handling to the same flag.
func WithAbortSignal(sig *AbortSignal) Option {
	return func(o *Orchestrator) { o.abort = sig }
}

// Orchestrator is the spawn_agent entry point. One Orchestrator serves a
// whole process; concurrent Spawn calls share its depth guard and memory
// store.
type Orchestrator struct {
	guard     *Guard
	store     *memory.Store
	runner    aish.Runner
	providers *provider.Registry
	abort     *AbortSignal

	mu   sync.Mutex
	last *aish.AgentResult
}

// NewOrchestrator creates an Orchestrator around the given runner, memory
// store and provider registry. A nil registry disables provider resolution
// (every task reaches the runner unchecked).
func NewOrchestrator(runner aish.Runner, store *memory.Store, providers *provider.Registry, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		guard:     NewGuard(aish.MaxDepth),
		store:     store,
		runner:    runner,
		providers: providers,
		abort:     NewAbortSignal(),
	}
	for _, fn := range opts {
		fn(o)
	}
	return o
}

// Spawn runs one orchestration call: Validating → DepthChecking → Running →
// Completed|Aborted|Failed. Every failure path yields a structured
// AgentResult, and the depth counter is restored on every exit path,
// including runner panics.
func (o *Orchestrator) Spawn(ctx context.Context, req Request) aish.AgentResult {
	// Validating. Failures return before any state mutation.
	specs, err := ParseSpecs(req.Task, req.Tasks, req.MaxSteps)
	if err != nil {
		reason := aish.AbortParseError
		var verr *ValidationError
		if errors.As(err, &verr) {
			reason = verr.Reason
		}
		return o.publish(req, aish.AgentResult{
			AbortReason: reason,
			Summary:     "invalid spawn_agent input",
			Output:      err.Error(),
		})
	}

	// DepthChecking. A rejected call leaves the counter unchanged.
	depth, ok := o.guard.TryEnter()
	if !ok {
		return o.publish(req, aish.AgentResult{
			AbortReason: aish.AbortDepthLimit,
			Summary:     fmt.Sprintf("depth limit reached (max %d)", o.guard.MaxDepth()),
			Output:      "spawn_agent rejected: recursion depth limit",
		})
	}
	// Exiting: paired with the TryEnter above; runs on success, validation
	// failure after entry, runner fault and abort alike.
	defer o.guard.Leave()

	// Entering: the memory scope is derived from depth at call time and not
	// mutated afterward. Depths 0 and 1 share one global scope; deeper
	// subtrees get a fresh isolated scope discarded when this call returns.
	scope := o.store.Shared()
	if depth > 1 {
		scope = o.store.NewIsolated()
	}

	// Running. Tasks may recursively re-enter Spawn through the runner.
	disp := &dispatcher{runner: o.runner, providers: o.providers, abort: o.abort}
	results := disp.run(ctx, specs, depth, scope, req.Parallel)

	return o.publish(req, aish.Aggregate(results))
}

// Abort returns the orchestrator's abort signal.
func (o *Orchestrator) Abort() *AbortSignal {
	return o.abort
}

// Depth returns the current recursion level (for inspection).
func (o *Orchestrator) Depth() int {
	return o.guard.Depth()
}

// LastResult returns the most recently published aggregate, if any. Silent
// calls never publish here; the return value of Spawn is authoritative
// regardless.
func (o *Orchestrator) LastResult() (aish.AgentResult, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.last == nil {
		return aish.AgentResult{}, false
	}
	return *o.last, true
}

func (o *Orchestrator) publish(req Request, res aish.AgentResult) aish.AgentResult {
	if !req.Silent {
		o.mu.Lock()
		o.last = &res
		o.mu.Unlock()
	}
	return res
}
