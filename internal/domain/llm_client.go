package domain

import "context"

// ModelProfile selects the generation model and sampling behaviour for one
// call. Profiles are derived from the request's quality tier.
type ModelProfile struct {
	Model       string
	Temperature float64
	MaxTokens   int
}

// LLMResponse carries the raw generation output and whether it finished.
type LLMResponse struct {
	Text string
	Done bool
}

// LLMClient defines the capability to send a prompt to a text-generation
// backend. Callers treat the output as opaque text; no well-formedness is
// assumed.
type LLMClient interface {
	Complete(ctx context.Context, prompt string, profile ModelProfile) (*LLMResponse, error)
}
