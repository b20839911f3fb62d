package retrieval

import (
	"strings"
	"testing"

	"github.com/Amishaj13/bug-hunter/internal/domain"
)

func TestSynthesize_Empty(t *testing.T) {
	s := NewSynthesizer(Config{})

	if got := s.Synthesize(nil); got != NoDocumentationFound {
		t.Errorf("Synthesize(nil) = %q, want sentinel", got)
	}
}

func TestSynthesize_Format(t *testing.T) {
	s := NewSynthesizer(Config{})

	got := s.Synthesize([]domain.ScoredDocument{
		doc("dangling pointers cause use-after-free", 0.875),
		doc("second doc", 0.5),
	})

	want := "[Document 1, relevance: 0.88]\ndangling pointers cause use-after-free...\n\n" +
		"[Document 2, relevance: 0.50]\nsecond doc..."
	if got != want {
		t.Errorf("Synthesize() = %q, want %q", got, want)
	}
}

func TestSynthesize_TakesTopThree(t *testing.T) {
	s := NewSynthesizer(Config{})

	got := s.Synthesize([]domain.ScoredDocument{
		doc("one", 0.9), doc("two", 0.8), doc("three", 0.7), doc("four", 0.6),
	})

	if strings.Count(got, "[Document ") != 3 {
		t.Errorf("Synthesize() rendered %d blocks, want 3:\n%s", strings.Count(got, "[Document "), got)
	}
	if strings.Contains(got, "four") {
		t.Error("fourth document leaked into the digest")
	}
}

func TestSynthesize_TruncatesTo300Runes(t *testing.T) {
	s := NewSynthesizer(Config{})

	long := strings.Repeat("z", 400)
	got := s.Synthesize([]domain.ScoredDocument{doc(long, 1)})

	if strings.Contains(got, strings.Repeat("z", 301)) {
		t.Error("excerpt exceeds 300 characters")
	}
	if !strings.HasSuffix(got, strings.Repeat("z", 300)+"...") {
		t.Error("excerpt should contain exactly 300 characters and the marker")
	}
}

func TestSynthesize_MarkerAppendedToShortDocs(t *testing.T) {
	s := NewSynthesizer(Config{})

	got := s.Synthesize([]domain.ScoredDocument{doc("tiny", 0.33)})

	if !strings.HasSuffix(got, "tiny...") {
		t.Errorf("Synthesize() = %q, want trailing marker even without truncation", got)
	}
}

func TestSynthesize_BoundedOutput(t *testing.T) {
	s := NewSynthesizer(Config{})

	docs := make([]domain.ScoredDocument, 50)
	for i := range docs {
		docs[i] = doc(strings.Repeat("w", 1000), 0.5)
	}
	got := s.Synthesize(docs)

	// 3 blocks x (300 chars + label overhead) + separators.
	const maxLen = 3*(300+40) + 2*2
	if len(got) > maxLen {
		t.Errorf("digest length %d exceeds bound %d", len(got), maxLen)
	}
}
