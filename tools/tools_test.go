package tools

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aish"
	"aish/memory"
	"aish/spawn"
)

// --- Tests for SpawnTool ---

func okOrchestrator() *spawn.Orchestrator {
	runner := aish.RunnerFunc(func(ctx context.Context, req aish.TaskRequest) (*aish.AgentResult, error) {
		return &aish.AgentResult{Success: true, Summary: "task completed", Output: "done: " + req.Description}, nil
	})
	return spawn.NewOrchestrator(runner, memory.NewStore(), nil)
}

func TestSpawnTool_SingleTask(t *testing.T) {
	tool := NewSpawnTool(okOrchestrator())

	res, err := tool.Execute(context.Background(), SpawnInput{Task: "research Notion features"})
	require.NoError(t, err)

	assert.False(t, res.IsError)
	text := res.Content[0].OfText.Text
	assert.Contains(t, text, "done: research Notion features")
	assert.Equal(t, "none", res.Metadata["abort_reason"])
	assert.Equal(t, 1, res.Metadata["tasks"])
}

func TestSpawnTool_ValidationFailure(t *testing.T) {
	tool := NewSpawnTool(okOrchestrator())

	res, err := tool.Execute(context.Background(), SpawnInput{})
	require.NoError(t, err)

	assert.True(t, res.IsError)
	assert.Equal(t, "empty_task_list", res.Metadata["abort_reason"])
}

func TestSpawnTool_BatchRendersPerTaskResults(t *testing.T) {
	tool := NewSpawnTool(okOrchestrator())

	res, err := tool.Execute(context.Background(), SpawnInput{
		Tasks:    `[{"task":"research X"},{"task":"research Y"}]`,
		Parallel: true,
	})
	require.NoError(t, err)
	require.False(t, res.IsError)

	var view struct {
		Success bool `json:"success"`
		Tasks   []struct {
			Success bool   `json:"success"`
			Output  string `json:"output"`
		} `json:"tasks"`
	}
	require.NoError(t, json.Unmarshal([]byte(res.Content[0].OfText.Text), &view))
	assert.True(t, view.Success)
	require.Len(t, view.Tasks, 2)
	assert.Equal(t, "done: research X", view.Tasks[0].Output)
	assert.Equal(t, "done: research Y", view.Tasks[1].Output)
}

func TestSpawnTool_RegistersWithSchema(t *testing.T) {
	reg := aish.NewToolRegistry()
	aish.RegisterTool(reg, NewSpawnTool(okOrchestrator()))

	assert.Equal(t, []string{"spawn_agent"}, reg.Names())

	api := reg.ListForAPI()
	require.Len(t, api, 1)
	props, ok := api[0].OfTool.InputSchema.Properties.(map[string]any)
	require.True(t, ok)
	assert.Contains(t, props, "task")
	assert.Contains(t, props, "tasks")
	assert.Contains(t, props, "parallel")
	assert.Contains(t, props, "max_steps")
}

// --- Tests for ShellTool ---

func TestShellTool_Echo(t *testing.T) {
	tool := &ShellTool{}

	res, err := tool.Execute(context.Background(), ShellInput{Command: "echo hello"})
	require.NoError(t, err)

	assert.False(t, res.IsError)
	assert.Contains(t, res.Content[0].OfText.Text, "hello")
	assert.Equal(t, 0, res.Metadata["exit_code"])
}

func TestShellTool_NonZeroExit(t *testing.T) {
	tool := &ShellTool{}

	res, err := tool.Execute(context.Background(), ShellInput{Command: "exit 3"})
	require.NoError(t, err)

	assert.True(t, res.IsError)
	assert.Equal(t, 3, res.Metadata["exit_code"])
}

func TestShellTool_EmptyCommand(t *testing.T) {
	tool := &ShellTool{}

	res, err := tool.Execute(context.Background(), ShellInput{})
	require.NoError(t, err)
	assert.True(t, res.IsError)
}

func TestShellTool_WorkDirFromContext(t *testing.T) {
	dir := t.TempDir()
	ctx := aish.WithWorkDir(context.Background(), dir)

	tool := &ShellTool{}
	res, err := tool.Execute(ctx, ShellInput{Command: "pwd"})
	require.NoError(t, err)

	resolved, _ := filepath.EvalSymlinks(dir)
	assert.Contains(t, res.Content[0].OfText.Text, filepath.Base(resolved))
}

// --- Tests for SearchTool ---

func TestSearchTool_MatchesPattern(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.go"), []byte("package a"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.txt"), []byte("text"), 0o644))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "sub"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "sub", "c.go"), []byte("package c"), 0o644))

	tool := &SearchTool{}
	res, err := tool.Execute(context.Background(), SearchInput{Pattern: "**/*.go", Path: dir})
	require.NoError(t, err)
	require.False(t, res.IsError)

	out := res.Content[0].OfText.Text
	assert.Contains(t, out, "a.go")
	assert.Contains(t, out, "c.go")
	assert.NotContains(t, out, "b.txt")
}

func TestSearchTool_NoMatches(t *testing.T) {
	tool := &SearchTool{}

	res, err := tool.Execute(context.Background(), SearchInput{Pattern: "*.nope", Path: t.TempDir()})
	require.NoError(t, err)
	assert.Contains(t, res.Content[0].OfText.Text, "No files matched")
}

func TestSearchTool_MissingPattern(t *testing.T) {
	tool := &SearchTool{}

	res, err := tool.Execute(context.Background(), SearchInput{})
	require.NoError(t, err)
	assert.True(t, res.IsError)
}
