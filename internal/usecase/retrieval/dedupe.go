package retrieval

import (
	"crypto/sha256"

	"github.com/Amishaj13/bug-hunter/internal/domain"
)

// fingerprintRunes is how much of a document's text identifies it for
// deduplication. Not configurable: changing it silently changes which
// documents survive a merge.
const fingerprintRunes = 200

// Dedupe removes documents whose text prefix was already seen, keeping the
// first occurrence in input order. A later duplicate is dropped even when it
// carries a higher score; ranking happens after deduplication, not before.
func Dedupe(docs []domain.ScoredDocument) []domain.ScoredDocument {
	seen := make(map[[32]byte]struct{}, len(docs))
	unique := make([]domain.ScoredDocument, 0, len(docs))

	for _, doc := range docs {
		fp := sha256.Sum256([]byte(headRunes(doc.Text(), fingerprintRunes)))
		if _, ok := seen[fp]; ok {
			continue
		}
		seen[fp] = struct{}{}
		unique = append(unique, doc)
	}
	return unique
}
