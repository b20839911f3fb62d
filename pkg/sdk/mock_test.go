package bughunter

import (
	"context"
	"sync"
)

// fakeGenerator is a scripted completion provider.
type fakeGenerator struct {
	mu      sync.Mutex
	text    string
	tokens  int
	err     error
	prompts []string
}

func (f *fakeGenerator) Generate(_ context.Context, prompt string) (Completion, error) {
	f.mu.Lock()
	f.prompts = append(f.prompts, prompt)
	f.mu.Unlock()

	if f.err != nil {
		return Completion{}, f.err
	}
	return Completion{Text: f.text, TotalTokens: f.tokens}, nil
}

func (f *fakeGenerator) promptCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.prompts)
}

// fakeSearcher maps queries to canned documents. Unknown queries return
// nothing. Searches run concurrently, so access is locked.
type fakeSearcher struct {
	mu      sync.Mutex
	docs    map[string][]Document
	err     error
	queries []string
}

func (f *fakeSearcher) Search(_ context.Context, query string) ([]Document, error) {
	f.mu.Lock()
	f.queries = append(f.queries, query)
	f.mu.Unlock()

	if f.err != nil {
		return nil, f.err
	}
	return f.docs[query], nil
}

func (f *fakeSearcher) seen() map[string]bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make(map[string]bool, len(f.queries))
	for _, q := range f.queries {
		out[q] = true
	}
	return out
}
