package analysis

import (
	"context"

	"github.com/Amishaj13/bug-hunter/internal/domain"
)

// Generator produces a completion for a prompt.
type Generator interface {
	Generate(ctx context.Context, prompt string) (domain.GenerationResult, error)
}
