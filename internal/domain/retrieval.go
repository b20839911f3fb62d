package domain

// RetrievalResult is the outcome of one documentation retrieval run.
type RetrievalResult struct {
	selected   []ScoredDocument
	synthesized string
	totalFound int
}

// NewRetrievalResult creates a retrieval result.
func NewRetrievalResult(selected []ScoredDocument, synthesized string, totalFound int) RetrievalResult {
	return RetrievalResult{selected: selected, synthesized: synthesized, totalFound: totalFound}
}

// SelectedDocuments returns the top-ranked documents kept for the caller.
func (r RetrievalResult) SelectedDocuments() []ScoredDocument { return r.selected }

// SynthesizedContext returns the formatted documentation digest.
func (r RetrievalResult) SynthesizedContext() string { return r.synthesized }

// TotalFound returns the deduplicated hit count across all queries.
func (r RetrievalResult) TotalFound() int { return r.totalFound }
