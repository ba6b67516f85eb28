// Package spawn is the sub-agent orchestration engine behind the spawn_agent
// tool: a depth-bounded recursive task spawner. An orchestration call parses
// its task batch, enters the depth guard, dispatches tasks against the agent
// runner (sequentially or in parallel), writes results into the memory scope
// for its depth, and aggregates per-task outcomes into one AgentResult. Any
// task may re-enter the orchestrator through a recursive spawn_agent call,
// subject to the same guard at the deeper level.
package spawn

import (
	"sync"

	"aish"
)

// Guard bounds orchestration recursion. One Guard is shared by every
// orchestration call in the process, so the check and the increment happen
// under a single lock: concurrent calls cannot race past the ceiling.
type Guard struct {
	mu       sync.Mutex
	depth    int
	maxDepth int
}

// NewGuard creates a Guard with the given recursion ceiling.
// A ceiling of 2 admits levels 0, 1 and 2; a call that would create level 3
// is rejected. Non-positive values fall back to aish.MaxDepth.
func NewGuard(maxDepth int) *Guard {
	if maxDepth <= 0 {
		maxDepth = aish.MaxDepth
	}
	return &Guard{maxDepth: maxDepth}
}

// TryEnter admits a new orchestration call. It returns the depth the call
// runs at and true when admitted. When the counter has already reached the
// ceiling it returns the current depth and false; a rejected call leaves the
// counter unchanged.
func (g *Guard) TryEnter() (int, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.depth >= g.maxDepth {
		return g.depth, false
	}
	g.depth++
	return g.depth, true
}

// Leave releases one recursion level. It is applied on every exit path, even
// when the call body failed, and floors at zero so that repeated or premature
// releases can never drive the counter negative.
func (g *Guard) Leave() {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.depth > 0 {
		g.depth--
	}
}

// Depth returns the current recursion level.
func (g *Guard) Depth() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.depth
}

// MaxDepth returns the recursion ceiling.
func (g *Guard) MaxDepth() int {
	return g.maxDepth
}
