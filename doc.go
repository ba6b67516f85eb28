// Package aish is the core of a personal AI-shell assistant: natural-language
// requests are routed to an agent that calls tools, and any tool call may
// delegate work to recursively spawned sub-agents.
//
// The interesting machinery lives in the spawn package: a depth-bounded
// orchestrator behind the spawn_agent tool that guarantees bounded recursion,
// index-aligned results for parallel task batches, shared-vs-isolated memory
// across recursion levels, and a depth counter that survives every failure
// mode.
//
// # Quick Start
//
//	store := memory.NewStore()
//	orch := spawn.NewOrchestrator(myRunner, store, providers)
//	result := orch.Spawn(ctx, spawn.Request{Task: "summarize the repo"})
//	fmt.Println(result.Output)
//
// # Sub-packages
//
//   - spawn is the sub-agent orchestration engine (depth guard, task batch
//     parsing, sequential/parallel dispatch, result aggregation).
//   - memory provides the shared and per-subtree isolated result stores.
//   - provider resolves named LLM provider configurations.
//   - runner is the Anthropic-backed step-budget task runner.
//   - gate is the command-safety confirmation gate.
//   - tools provides the spawn_agent, shell, and search tools.
package aish
