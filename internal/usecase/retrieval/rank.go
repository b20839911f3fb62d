package retrieval

import (
	"sort"

	"github.com/Amishaj13/bug-hunter/internal/domain"
)

// Rank orders documents by descending score in place and returns the slice.
// The sort is stable so equal scores keep their deduplicated input order.
func Rank(docs []domain.ScoredDocument) []domain.ScoredDocument {
	sort.SliceStable(docs, func(i, j int) bool {
		return docs[i].Score() > docs[j].Score()
	})
	return docs
}
