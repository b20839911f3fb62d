package bughunter

import "context"

// Bug is a single defect reported by upstream detection.
type Bug struct {
	BugType     string
	Description string
}

// BugReport is the detection output for one code sample.
type BugReport struct {
	BugsFound []Bug
}

// Document is a scored documentation snippet.
type Document struct {
	Text   string
	Score  float64
	Source string
}

// RetrievalResult is the outcome of a documentation retrieval run.
type RetrievalResult struct {
	SelectedDocuments  []Document
	SynthesizedContext string
	TotalFound         int
}

// Complexity is a coarse code complexity estimate.
type Complexity string

// Complexity constants.
const (
	ComplexityLow     Complexity = "low"
	ComplexityMedium  Complexity = "medium"
	ComplexityHigh    Complexity = "high"
	ComplexityUnknown Complexity = "unknown"
)

// Analysis is a structural breakdown of a code sample.
type Analysis struct {
	Functions       []string
	Variables       []string
	LineCount       int
	Complexity      Complexity
	PotentialIssues []string
	Summary         string
}

// PatternReport is a free-form pattern and anti-pattern analysis.
type PatternReport struct {
	Analysis string
}

// Completion is a single model completion with token usage.
type Completion struct {
	Text         string
	PromptTokens int
	TotalTokens  int
}

// Generator is a pluggable completion provider.
type Generator interface {
	Generate(ctx context.Context, prompt string) (Completion, error)
}

// Searcher is a pluggable documentation index backend.
type Searcher interface {
	Search(ctx context.Context, query string) ([]Document, error)
}
