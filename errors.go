package aish

import "errors"

// Sentinel errors returned by the orchestration core and its collaborators.
var (
	ErrDepthLimit      = errors.New("aish: depth limit reached")
	ErrProviderUnknown = errors.New("aish: provider not configured")
	ErrAborted         = errors.New("aish: aborted")
	ErrMaxSteps        = errors.New("aish: step budget exhausted")
)
