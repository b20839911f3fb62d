package retrieval

import (
	"context"
	"sync"

	"github.com/Amishaj13/bug-hunter/internal/domain"
)

type mockSearcher struct {
	mu      sync.Mutex
	results map[string][]domain.ScoredDocument
	errs    map[string]error
	calls   []string
}

func (m *mockSearcher) Search(_ context.Context, query string) ([]domain.ScoredDocument, error) {
	m.mu.Lock()
	m.calls = append(m.calls, query)
	m.mu.Unlock()

	if err, ok := m.errs[query]; ok {
		return nil, err
	}
	return m.results[query], nil
}

func (m *mockSearcher) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.calls)
}

type mockGenerator struct {
	text       string
	tokens     int
	err        error
	calls      int
	lastPrompt string
}

func (m *mockGenerator) Generate(_ context.Context, prompt string) (domain.GenerationResult, error) {
	m.calls++
	m.lastPrompt = prompt
	if m.err != nil {
		return domain.GenerationResult{}, m.err
	}
	return domain.GenerationResult{Text: m.text, TotalTokens: m.tokens}, nil
}

func doc(text string, score float64) domain.ScoredDocument {
	return domain.NewScoredDocument(text, score, "")
}
