package analysis

import (
	"encoding/json"
	"strings"

	"github.com/Amishaj13/bug-hunter/internal/domain"
)

// analysisRecord mirrors the JSON shape the model is instructed to return.
type analysisRecord struct {
	Functions       []string `json:"functions"`
	Variables       []string `json:"variables"`
	LineCount       int      `json:"line_count"`
	Complexity      string   `json:"complexity"`
	PotentialIssues []string `json:"potential_issues"`
	CodeSummary     string   `json:"code_summary"`
}

// ParseAnalysis decodes a model response into a CodeAnalysis, tolerating
// fence markers around the JSON. On a malformed response it returns the
// fallback record built from the original code sample and ok=false; it
// never fails.
//
// The two leading-marker checks run sequentially and independently: a
// response opening with a tagged fence directly followed by a bare one
// loses both markers.
func ParseAnalysis(raw, code string) (_ domain.CodeAnalysis, ok bool) {
	text := strings.TrimSpace(raw)
	if strings.HasPrefix(text, "```json") {
		text = text[7:]
	}
	if strings.HasPrefix(text, "```") {
		text = text[3:]
	}
	if strings.HasSuffix(text, "```") {
		text = text[:len(text)-3]
	}
	text = strings.TrimSpace(text)

	var rec analysisRecord
	if err := json.Unmarshal([]byte(text), &rec); err != nil {
		return domain.FallbackAnalysis(code), false
	}

	return domain.NewCodeAnalysis(
		orEmpty(rec.Functions),
		orEmpty(rec.Variables),
		rec.LineCount,
		domain.ParseComplexity(rec.Complexity),
		orEmpty(rec.PotentialIssues),
		rec.CodeSummary,
	), true
}

func orEmpty(list []string) []string {
	if list == nil {
		return []string{}
	}
	return list
}
