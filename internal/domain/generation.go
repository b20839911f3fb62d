package domain

import "context"

// Generator is the shared text generation contract between layers.
type Generator interface {
	Generate(ctx context.Context, prompt string) (GenerationResult, error)
}

// HealthChecker verifies generation provider availability.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// GenerationResult carries the completion text and token usage through the
// decorator chain.
type GenerationResult struct {
	Text         string
	PromptTokens int
	TotalTokens  int
}
