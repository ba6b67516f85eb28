package spawn

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aish"
)

func TestParseSpecs_NeitherArgument(t *testing.T) {
	_, err := ParseSpecs("", "", 10)
	require.Error(t, err)

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, aish.AbortEmptyTaskList, verr.Reason)
	assert.Contains(t, err.Error(), "task")
	assert.Contains(t, err.Error(), "tasks")
}

func TestParseSpecs_WhitespaceOnlyArguments(t *testing.T) {
	_, err := ParseSpecs("   ", "\n\t", 10)
	require.Error(t, err)
}

func TestParseSpecs_SingleTask(t *testing.T) {
	specs, err := ParseSpecs("summarize the repo", "", 0)
	require.NoError(t, err)
	require.Len(t, specs, 1)
	assert.Equal(t, "summarize the repo", specs[0].Description)
	assert.Equal(t, aish.DefaultMaxSteps, specs[0].MaxSteps)
	assert.Empty(t, specs[0].Provider)
}

func TestParseSpecs_SingleTaskCustomDefaultBudget(t *testing.T) {
	specs, err := ParseSpecs("do the thing", "", 4)
	require.NoError(t, err)
	require.Len(t, specs, 1)
	assert.Equal(t, 4, specs[0].MaxSteps)
}

func TestParseSpecs_MalformedBatch(t *testing.T) {
	_, err := ParseSpecs("", "not valid json", 10)
	require.Error(t, err)

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, aish.AbortParseError, verr.Reason)
	assert.Contains(t, err.Error(), "Failed to parse")
}

func TestParseSpecs_EmptyBatch(t *testing.T) {
	_, err := ParseSpecs("", "[]", 10)
	require.Error(t, err)

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, aish.AbortEmptyTaskList, verr.Reason)
	assert.Contains(t, err.Error(), "No tasks")
}

func TestParseSpecs_Batch(t *testing.T) {
	tasks := `[{"task":"research X","max_steps":5},{"task":"research Y","max_steps":8}]`

	specs, err := ParseSpecs("", tasks, 10)
	require.NoError(t, err)
	require.Len(t, specs, 2)
	assert.Equal(t, "research X", specs[0].Description)
	assert.Equal(t, 5, specs[0].MaxSteps)
	assert.Equal(t, "research Y", specs[1].Description)
	assert.Equal(t, 8, specs[1].MaxSteps)
}

func TestParseSpecs_BatchTakesPrecedenceOverTask(t *testing.T) {
	specs, err := ParseSpecs("ignored", `[{"task":"kept"}]`, 10)
	require.NoError(t, err)
	require.Len(t, specs, 1)
	assert.Equal(t, "kept", specs[0].Description)
}

func TestParseSpecs_MaxStepsDefaultsWhenAbsentOrFalsy(t *testing.T) {
	tasks := `[{"task":"a"},{"task":"b","max_steps":0},{"task":"c","max_steps":null}]`

	specs, err := ParseSpecs("", tasks, 10)
	require.NoError(t, err)
	require.Len(t, specs, 3)
	for _, spec := range specs {
		assert.Equal(t, 10, spec.MaxSteps)
	}
}

func TestParseSpecs_MaxStepsPermissiveCoercion(t *testing.T) {
	tasks := `[{"task":"a","max_steps":"7"},{"task":"b","max_steps":5.9}]`

	specs, err := ParseSpecs("", tasks, 10)
	require.NoError(t, err)
	require.Len(t, specs, 2)
	assert.Equal(t, 7, specs[0].MaxSteps)
	assert.Equal(t, 5, specs[1].MaxSteps)
}

func TestParseSpecs_NonNumericMaxStepsIsParseError(t *testing.T) {
	_, err := ParseSpecs("", `[{"task":"a","max_steps":"lots"}]`, 10)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Failed to parse")
}

func TestParseSpecs_EmptyTaskElement(t *testing.T) {
	_, err := ParseSpecs("", `[{"task":"  "}]`, 10)
	require.Error(t, err)

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, aish.AbortParseError, verr.Reason)
}

func TestParseSpecs_ProviderField(t *testing.T) {
	specs, err := ParseSpecs("", `[{"task":"a","provider":"haiku"}]`, 10)
	require.NoError(t, err)
	require.Len(t, specs, 1)
	assert.Equal(t, "haiku", specs[0].Provider)
}

func TestParseSpecs_RepairsAlmostJSON(t *testing.T) {
	// Trailing comma: strict JSON rejects it, the repair pass fixes it.
	specs, err := ParseSpecs("", `[{"task":"a","max_steps":3},]`, 10)
	require.NoError(t, err)
	require.Len(t, specs, 1)
	assert.Equal(t, "a", specs[0].Description)
	assert.Equal(t, 3, specs[0].MaxSteps)
}

func TestParseSpecs_TrimsDescriptions(t *testing.T) {
	specs, err := ParseSpecs("  padded task  ", "", 10)
	require.NoError(t, err)
	assert.Equal(t, "padded task", specs[0].Description)
}
