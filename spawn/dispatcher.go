package spawn

import (
	"context"
	"fmt"
	"sync"

	"aish"
	"aish/memory"
	"aish/provider"
)

// dispatcher runs a validated task batch against the agent runner.
type dispatcher struct {
	runner    aish.Runner
	providers *provider.Registry // nil skips provider resolution
	abort     *AbortSignal
}

// run executes specs at the given depth and returns one result per spec,
// index-aligned with the input regardless of completion order.
//
// In sequential mode tasks run strictly in input order and one task's failure
// does not stop its siblings. In parallel mode tasks run concurrently with no
// ordering guarantee on completion. Either way, once the abort signal is set
// (or ctx is cancelled) no new task starts: in-flight tasks finish and the
// remainder is marked aborted.
func (d *dispatcher) run(ctx context.Context, specs []TaskSpec, depth int, scope *memory.Scope, parallel bool) []aish.AgentResult {
	results := make([]aish.AgentResult, len(specs))

	if parallel {
		var wg sync.WaitGroup
		for i, spec := range specs {
			if d.aborted(ctx) {
				results[i] = abortedResult(spec)
				continue
			}
			wg.Add(1)
			go func(slot int, spec TaskSpec) {
				defer wg.Done()
				results[slot] = d.runOne(ctx, spec, depth, scope)
			}(i, spec)
		}
		wg.Wait()
		return results
	}

	for i, spec := range specs {
		if d.aborted(ctx) {
			results[i] = abortedResult(spec)
			continue
		}
		results[i] = d.runOne(ctx, spec, depth, scope)
	}
	return results
}

// runOne executes a single task and writes its result into the scope computed
// for the task's own depth. Runner panics are recovered here and converted
// into a failed per-task result so a fault in one task can neither kill its
// siblings nor skip the orchestrator's depth cleanup.
func (d *dispatcher) runOne(ctx context.Context, spec TaskSpec, depth int, scope *memory.Scope) (res aish.AgentResult) {
	defer func() {
		if r := recover(); r != nil {
			res = aish.AgentResult{
				AbortReason: aish.AbortOther,
				Summary:     "task failed",
				Output:      fmt.Sprintf("runner fault: %v", r),
			}
		}
	}()

	providerName := spec.Provider
	if d.providers != nil {
		cfg, ok := d.providers.Resolve(spec.Provider)
		if !ok {
			return aish.AgentResult{
				AbortReason: aish.AbortOther,
				Summary:     "task failed",
				Output:      fmt.Sprintf("%s: %q", aish.ErrProviderUnknown.Error(), spec.Provider),
			}
		}
		providerName = cfg.Name
	}

	out, err := d.runner.RunTask(ctx, aish.TaskRequest{
		ID:          aish.GenerateID(aish.PrefixTask),
		Description: spec.Description,
		MaxSteps:    spec.MaxSteps,
		Provider:    providerName,
		Depth:       depth,
		Memory:      scope,
	})
	if err != nil {
		return aish.AgentResult{
			AbortReason: aish.AbortOther,
			Summary:     "task failed",
			Output:      err.Error(),
		}
	}
	if out == nil {
		return aish.AgentResult{
			AbortReason: aish.AbortOther,
			Summary:     "task failed",
			Output:      "runner returned no result",
		}
	}

	res = *out
	scope.Write(memory.NamespacedKey(spec.Description), res)
	return res
}

func (d *dispatcher) aborted(ctx context.Context) bool {
	return d.abort.Aborted() || ctx.Err() != nil
}

func abortedResult(spec TaskSpec) aish.AgentResult {
	return aish.AgentResult{
		AbortReason: aish.AbortOther,
		Summary:     "aborted before start",
		Output:      fmt.Sprintf("task %q was not started: abort requested", spec.Description),
	}
}
