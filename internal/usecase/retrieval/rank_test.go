package retrieval

import (
	"testing"

	"github.com/Amishaj13/bug-hunter/internal/domain"
)

func TestRank_DescendingByScore(t *testing.T) {
	docs := Rank([]domain.ScoredDocument{
		doc("low", 0.1),
		doc("high", 0.9),
		doc("mid", 0.5),
	})

	for i := 1; i < len(docs); i++ {
		if docs[i].Score() > docs[i-1].Score() {
			t.Fatalf("scores not non-increasing at %d: %.2f > %.2f", i, docs[i].Score(), docs[i-1].Score())
		}
	}
	if docs[0].Text() != "high" || docs[2].Text() != "low" {
		t.Errorf("unexpected order: %v, %v, %v", docs[0].Text(), docs[1].Text(), docs[2].Text())
	}
}

func TestRank_StableForEqualScores(t *testing.T) {
	docs := Rank([]domain.ScoredDocument{
		doc("first", 0.5),
		doc("second", 0.5),
		doc("third", 0.5),
	})

	if docs[0].Text() != "first" || docs[1].Text() != "second" || docs[2].Text() != "third" {
		t.Errorf("equal scores reordered: %v, %v, %v", docs[0].Text(), docs[1].Text(), docs[2].Text())
	}
}

func TestRank_MissingScoreSortsLast(t *testing.T) {
	docs := Rank([]domain.ScoredDocument{
		domain.NewScoredDocument("unscored", 0, ""),
		doc("scored", 0.2),
	})

	if docs[0].Text() != "scored" {
		t.Errorf("docs[0] = %q, want the scored document first", docs[0].Text())
	}
}
