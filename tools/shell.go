package tools

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os/exec"
	"time"

	"github.com/creack/pty"

	"aish"
)

const (
	defaultShellTimeoutMs = 120_000
	maxShellTimeoutMs     = 600_000
	maxShellOutputBytes   = 30_000
)

// ShellInput defines the input for the shell tool.
type ShellInput struct {
	Command     string `json:"command" jsonschema:"required,description=The command to execute"`
	Description string `json:"description,omitempty" jsonschema:"description=What this command does"`
	Timeout     *int   `json:"timeout,omitempty" jsonschema:"description=Timeout in milliseconds (max 600000)"`
}

// ShellTool executes shell commands under a PTY so interactive programs
// produce realistic output.
type ShellTool struct{}

var _ aish.Tool[ShellInput] = (*ShellTool)(nil)

func (t *ShellTool) Name() string        { return "shell" }
func (t *ShellTool) Description() string { return "Execute a shell command" }

func (t *ShellTool) Execute(ctx context.Context, input ShellInput) (*aish.ToolResult, error) {
	if input.Command == "" {
		return aish.ErrorResult("command is required"), nil
	}

	timeoutMs := defaultShellTimeoutMs
	if input.Timeout != nil {
		timeoutMs = *input.Timeout
		if timeoutMs <= 0 {
			timeoutMs = defaultShellTimeoutMs
		}
		if timeoutMs > maxShellTimeoutMs {
			timeoutMs = maxShellTimeoutMs
		}
	}

	cmdCtx, cancel := context.WithTimeout(ctx, time.Duration(timeoutMs)*time.Millisecond)
	defer cancel()

	cmd := exec.CommandContext(cmdCtx, "bash", "-c", input.Command)
	if dir := aish.WorkDir(ctx); dir != "" {
		cmd.Dir = dir
	}

	ptmx, err := pty.Start(cmd)
	if err != nil {
		return t.executeWithoutPTY(cmdCtx, cmd.Dir, input.Command)
	}
	defer ptmx.Close()

	var buf bytes.Buffer
	_, _ = io.Copy(&buf, ptmx) // PTY read returns EIO on process exit, ignore

	waitErr := cmd.Wait()

	output := buf.String()
	if len(output) > maxShellOutputBytes {
		output = output[:maxShellOutputBytes] + "\n... [output truncated]"
	}

	exitCode := 0
	if waitErr != nil {
		if exitErr, ok := waitErr.(*exec.ExitError); ok {
			exitCode = exitErr.ExitCode()
		} else if cmdCtx.Err() == context.DeadlineExceeded {
			return aish.ErrorResult(fmt.Sprintf("command timed out after %dms", timeoutMs)), nil
		} else {
			exitCode = -1
		}
	}

	result := aish.TextResult(output)
	result.Metadata = map[string]any{"exit_code": exitCode}
	if exitCode != 0 {
		result.IsError = true
	}
	return result, nil
}

func (t *ShellTool) executeWithoutPTY(ctx context.Context, dir, command string) (*aish.ToolResult, error) {
	cmd := exec.CommandContext(ctx, "bash", "-c", command)
	cmd.Dir = dir
	output, err := cmd.CombinedOutput()

	text := string(output)
	if len(text) > maxShellOutputBytes {
		text = text[:maxShellOutputBytes] + "\n... [output truncated]"
	}

	exitCode := 0
	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			exitCode = exitErr.ExitCode()
		} else if ctx.Err() == context.DeadlineExceeded {
			return aish.ErrorResult("command timed out"), nil
		} else {
			exitCode = -1
		}
	}

	result := aish.TextResult(text)
	result.Metadata = map[string]any{"exit_code": exitCode}
	if exitCode != 0 {
		result.IsError = true
	}
	return result, nil
}
