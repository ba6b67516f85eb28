package aish

// Orchestration and runner defaults.
const (
	// DefaultMaxSteps is the step budget per task when unspecified.
	DefaultMaxSteps = 10

	// MaxDepth is the recursion ceiling: levels 0, 1 and 2 may run; a call
	// that would create level 3 is rejected.
	MaxDepth = 2

	// DefaultModel is used when a provider config does not name one.
	DefaultModel = "claude-opus-4-6"

	// DefaultMaxOutputTokens is the default maximum output tokens per response.
	DefaultMaxOutputTokens = 16_384
)
