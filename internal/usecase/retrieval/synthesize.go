package retrieval

import (
	"fmt"
	"strings"

	"github.com/Amishaj13/bug-hunter/internal/domain"
)

// NoDocumentationFound is returned by Synthesize when there is nothing to
// digest. Callers and downstream prompts key off this exact string.
const NoDocumentationFound = "No relevant documentation found."

// Synthesizer folds ranked documents into a bounded context digest.
type Synthesizer struct {
	docCap  int
	charCap int
}

// NewSynthesizer creates a synthesizer taking the top docCap documents at
// charCap characters each.
func NewSynthesizer(cfg Config) *Synthesizer {
	cfg = cfg.withDefaults()
	return &Synthesizer{docCap: cfg.SynthesisDocuments, charCap: cfg.SynthesisChars}
}

// Synthesize formats the top documents into labelled excerpt blocks. The
// trailing ellipsis is appended unconditionally, truncated or not.
func (s *Synthesizer) Synthesize(ranked []domain.ScoredDocument) string {
	if len(ranked) == 0 {
		return NoDocumentationFound
	}

	top := ranked
	if len(top) > s.docCap {
		top = top[:s.docCap]
	}

	parts := make([]string, 0, len(top))
	for i, doc := range top {
		parts = append(parts, fmt.Sprintf("[Document %d, relevance: %.2f]\n%s...",
			i+1, doc.Score(), headRunes(doc.Text(), s.charCap)))
	}
	return strings.Join(parts, "\n\n")
}
