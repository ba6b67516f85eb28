package spawn

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/kaptinlin/jsonrepair"

	"aish"
)

// TaskSpec is one normalized unit of work to hand to the agent runner.
type TaskSpec struct {
	// Description is the task text. Non-empty after trimming.
	Description string

	// MaxSteps is the step budget for this task, always >= 1.
	MaxSteps int

	// Provider optionally names the provider configuration; empty means the
	// process-wide default.
	Provider string
}

// ValidationError reports invalid spawn_agent input. It is produced once at
// the parse boundary, before any state mutation.
type ValidationError struct {
	Reason aish.AbortReason
	Msg    string
}

func (e *ValidationError) Error() string { return e.Msg }

// batchEntry is the wire shape of one element in the tasks JSON array.
type batchEntry struct {
	Task     string  `json:"task"`
	MaxSteps flexInt `json:"max_steps"`
	Provider string  `json:"provider"`
}

// flexInt accepts a JSON number or a numeric string. LLM-produced batches are
// loose about the distinction.
type flexInt int

func (f *flexInt) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if s == "null" {
		*f = 0
		return nil
	}
	s = strings.TrimSpace(strings.Trim(s, `"`))
	if s == "" {
		*f = 0
		return nil
	}
	if n, err := strconv.Atoi(s); err == nil {
		*f = flexInt(n)
		return nil
	}
	fl, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("max_steps is not a number: %q", s)
	}
	*f = flexInt(fl)
	return nil
}

// ParseSpecs normalizes spawn_agent input into a task batch.
//
// Exactly one of the two arguments carries the work: tasksArg, when present,
// is a JSON array of {task, max_steps?, provider?} objects and takes
// precedence; otherwise taskArg becomes a single-element batch. Tasks without
// an explicit step budget get defaultMaxSteps.
func ParseSpecs(taskArg, tasksArg string, defaultMaxSteps int) ([]TaskSpec, error) {
	taskArg = strings.TrimSpace(taskArg)
	tasksArg = strings.TrimSpace(tasksArg)
	if defaultMaxSteps < 1 {
		defaultMaxSteps = aish.DefaultMaxSteps
	}

	if taskArg == "" && tasksArg == "" {
		return nil, &ValidationError{
			Reason: aish.AbortEmptyTaskList,
			Msg:    "either a single task or a tasks batch is required",
		}
	}

	if tasksArg == "" {
		return []TaskSpec{{Description: taskArg, MaxSteps: defaultMaxSteps}}, nil
	}

	entries, err := decodeBatch(tasksArg)
	if err != nil {
		return nil, &ValidationError{
			Reason: aish.AbortParseError,
			Msg:    fmt.Sprintf("Failed to parse tasks JSON: %s", err.Error()),
		}
	}
	if len(entries) == 0 {
		return nil, &ValidationError{
			Reason: aish.AbortEmptyTaskList,
			Msg:    "No tasks provided in batch",
		}
	}

	specs := make([]TaskSpec, 0, len(entries))
	for i, e := range entries {
		desc := strings.TrimSpace(e.Task)
		if desc == "" {
			return nil, &ValidationError{
				Reason: aish.AbortParseError,
				Msg:    fmt.Sprintf("Failed to parse tasks JSON: element %d has an empty task", i),
			}
		}
		steps := int(e.MaxSteps)
		if steps < 1 {
			steps = defaultMaxSteps
		}
		specs = append(specs, TaskSpec{
			Description: desc,
			MaxSteps:    steps,
			Provider:    strings.TrimSpace(e.Provider),
		})
	}
	return specs, nil
}

// decodeBatch unmarshals the tasks array, trying a jsonrepair pass before
// giving up: models frequently emit almost-JSON (trailing commas, single
// quotes) that the repairer can fix. The original unmarshal error is the one
// reported, since the repaired text is not what the caller sent.
func decodeBatch(raw string) ([]batchEntry, error) {
	var entries []batchEntry
	strictErr := json.Unmarshal([]byte(raw), &entries)
	if strictErr == nil {
		return entries, nil
	}

	repaired, err := jsonrepair.JSONRepair(raw)
	if err != nil {
		return nil, strictErr
	}
	if err := json.Unmarshal([]byte(repaired), &entries); err != nil {
		return nil, strictErr
	}
	return entries, nil
}
