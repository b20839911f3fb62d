package domain

import "testing"

func TestParseComplexity(t *testing.T) {
	tests := []struct {
		in   string
		want Complexity
	}{
		{"low", ComplexityLow},
		{"medium", ComplexityMedium},
		{"high", ComplexityHigh},
		{"HIGH", ComplexityHigh},
		{"  Medium ", ComplexityMedium},
		{"", ComplexityUnknown},
		{"moderate", ComplexityUnknown},
		{"unknown", ComplexityUnknown},
	}
	for _, tt := range tests {
		if got := ParseComplexity(tt.in); got != tt.want {
			t.Errorf("ParseComplexity(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFallbackAnalysis(t *testing.T) {
	a := FallbackAnalysis("int main() {\n  return 0;\n}")

	if a.LineCount() != 3 {
		t.Errorf("LineCount() = %d, want 3", a.LineCount())
	}
	if a.Complexity() != ComplexityUnknown {
		t.Errorf("Complexity() = %q", a.Complexity())
	}
	if a.Summary() != "Unable to parse code structure" {
		t.Errorf("Summary() = %q", a.Summary())
	}
	if len(a.Functions()) != 0 || len(a.Variables()) != 0 || len(a.PotentialIssues()) != 0 {
		t.Error("fallback lists should be empty")
	}
	if a.Functions() == nil || a.Variables() == nil || a.PotentialIssues() == nil {
		t.Error("fallback lists should be empty, not nil")
	}
}

func TestFallbackAnalysis_EmptyCode(t *testing.T) {
	// Splitting "" on newlines yields one element, same as the original count.
	if got := FallbackAnalysis("").LineCount(); got != 1 {
		t.Errorf("LineCount() = %d, want 1", got)
	}
}

func TestFallbackPatternReport(t *testing.T) {
	if got := FallbackPatternReport().Analysis(); got != "Unable to identify patterns" {
		t.Errorf("Analysis() = %q", got)
	}
}
