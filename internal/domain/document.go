package domain

// ScoredDocument is a retrieved documentation snippet with its relevance
// score. A backend that reports no score leaves it at the zero value.
type ScoredDocument struct {
	text   string
	score  float64
	source string
}

// NewScoredDocument creates a scored document.
func NewScoredDocument(text string, score float64, source string) ScoredDocument {
	return ScoredDocument{text: text, score: score, source: source}
}

// Text returns the snippet content.
func (d ScoredDocument) Text() string { return d.text }

// Score returns the relevance score.
func (d ScoredDocument) Score() float64 { return d.score }

// Source returns the snippet origin (backend identifier, file, collection).
func (d ScoredDocument) Source() string { return d.source }
