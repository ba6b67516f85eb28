package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sampleInput struct {
	Task     string `json:"task,omitempty" jsonschema:"description=Task description"`
	MaxSteps *int   `json:"max_steps,omitempty" jsonschema:"description=Step budget"`
	Parallel bool   `json:"parallel,omitempty" jsonschema:"description=Run batch concurrently"`
}

type requiredInput struct {
	Command string `json:"command" jsonschema:"required,description=The command to execute"`
}

func TestGenerate_Properties(t *testing.T) {
	s := Generate[sampleInput]()

	require.NotNil(t, s.Properties)
	props, ok := s.Properties.(map[string]any)
	require.True(t, ok)

	task, ok := props["task"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "string", task["type"])
	assert.Equal(t, "Task description", task["description"])

	// Pointer fields resolve to their non-null type.
	steps, ok := props["max_steps"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "integer", steps["type"])

	par, ok := props["parallel"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "boolean", par["type"])
}

func TestGenerate_Required(t *testing.T) {
	s := Generate[requiredInput]()

	assert.Contains(t, s.Required, "command")
}

func TestGenerate_EmptyStruct(t *testing.T) {
	type empty struct{}
	s := Generate[empty]()

	assert.Empty(t, s.Properties)
}
