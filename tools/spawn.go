// Package tools provides the built-in assistant tools: spawning sub-agents,
// running shell commands and searching the filesystem.
package tools

import (
	"context"
	"encoding/json"
	"fmt"

	"aish"
	"aish/spawn"
)

// SpawnInput defines the input for the spawn_agent tool.
type SpawnInput struct {
	Task     string `json:"task,omitempty" jsonschema:"description=A single task description for the sub-agent"`
	Tasks    string `json:"tasks,omitempty" jsonschema:"description=JSON array of task objects with task and optional max_steps and provider fields"`
	Parallel bool   `json:"parallel,omitempty" jsonschema:"description=Run batch tasks concurrently"`
	MaxSteps int    `json:"max_steps,omitempty" jsonschema:"description=Step budget for tasks that do not carry their own"`
	Memory   string `json:"memory,omitempty" jsonschema:"description=Memory scope hint: shared or isolated"`
	Silent   bool   `json:"silent,omitempty" jsonschema:"description=Do not publish the result to the conversation"`
}

// SpawnTool exposes the orchestration core as a tool, letting a running agent
// delegate work to sub-agents. Recursive use is bounded by the orchestrator's
// depth guard.
type SpawnTool struct {
	orch *spawn.Orchestrator
}

var _ aish.Tool[SpawnInput] = (*SpawnTool)(nil)

// NewSpawnTool wraps an orchestrator as the spawn_agent tool.
func NewSpawnTool(orch *spawn.Orchestrator) *SpawnTool {
	return &SpawnTool{orch: orch}
}

func (t *SpawnTool) Name() string { return "spawn_agent" }
func (t *SpawnTool) Description() string {
	return "Delegate one task or a batch of tasks to sub-agents and collect their results"
}

func (t *SpawnTool) Execute(ctx context.Context, input SpawnInput) (*aish.ToolResult, error) {
	res := t.orch.Spawn(ctx, spawn.Request{
		Task:     input.Task,
		Tasks:    input.Tasks,
		Parallel: input.Parallel,
		MaxSteps: input.MaxSteps,
		Memory:   input.Memory,
		Silent:   input.Silent,
	})

	text, err := renderResult(res)
	if err != nil {
		return aish.ErrorResult(fmt.Sprintf("failed to render result: %s", err.Error())), nil
	}

	result := aish.TextResult(text)
	result.IsError = !res.Success
	result.Metadata = map[string]any{
		"abort_reason": res.AbortReason.String(),
		"tasks":        len(res.TaskResults),
	}
	return result, nil
}

// renderResult flattens an aggregate into the text handed back to the model:
// the summary line, then each task's output.
func renderResult(res aish.AgentResult) (string, error) {
	type taskView struct {
		Success bool   `json:"success"`
		Summary string `json:"summary,omitempty"`
		Output  string `json:"output,omitempty"`
	}
	view := struct {
		Success bool       `json:"success"`
		Summary string     `json:"summary"`
		Output  string     `json:"output,omitempty"`
		Tasks   []taskView `json:"tasks,omitempty"`
	}{
		Success: res.Success,
		Summary: res.Summary,
		Output:  res.Output,
	}
	for _, tr := range res.TaskResults {
		view.Tasks = append(view.Tasks, taskView{
			Success: tr.Success,
			Summary: tr.Summary,
			Output:  tr.Output,
		})
	}

	data, err := json.MarshalIndent(view, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}
