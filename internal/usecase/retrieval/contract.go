package retrieval

import (
	"context"

	"github.com/Amishaj13/bug-hunter/internal/domain"
)

// Searcher queries the documentation index with a single query string.
// Empty result sets and transport errors are both expected outcomes.
type Searcher interface {
	Search(ctx context.Context, query string) ([]domain.ScoredDocument, error)
}

// Generator produces a completion for a prompt. Used by the planner for
// keyword extraction.
type Generator interface {
	Generate(ctx context.Context, prompt string) (domain.GenerationResult, error)
}
