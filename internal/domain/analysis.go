package domain

import "strings"

// Complexity is the model's coarse complexity estimate for a code sample.
type Complexity string

// Complexity levels.
const (
	ComplexityLow     Complexity = "low"
	ComplexityMedium  Complexity = "medium"
	ComplexityHigh    Complexity = "high"
	ComplexityUnknown Complexity = "unknown"
)

// ParseComplexity normalizes a free-form complexity string. Anything outside
// the known levels maps to ComplexityUnknown.
func ParseComplexity(s string) Complexity {
	switch Complexity(strings.ToLower(strings.TrimSpace(s))) {
	case ComplexityLow:
		return ComplexityLow
	case ComplexityMedium:
		return ComplexityMedium
	case ComplexityHigh:
		return ComplexityHigh
	default:
		return ComplexityUnknown
	}
}

// CodeAnalysis is the structural summary of a code sample.
type CodeAnalysis struct {
	functions       []string
	variables       []string
	lineCount       int
	complexity      Complexity
	potentialIssues []string
	summary         string
}

// NewCodeAnalysis creates a code analysis.
func NewCodeAnalysis(
	functions, variables []string, lineCount int,
	complexity Complexity, issues []string, summary string,
) CodeAnalysis {
	return CodeAnalysis{
		functions:       functions,
		variables:       variables,
		lineCount:       lineCount,
		complexity:      complexity,
		potentialIssues: issues,
		summary:         summary,
	}
}

// FallbackAnalysis is the degraded analysis used when model output cannot be
// decoded. Line count is taken from the original code sample, not the output.
func FallbackAnalysis(code string) CodeAnalysis {
	return CodeAnalysis{
		functions:       []string{},
		variables:       []string{},
		lineCount:       len(strings.Split(code, "\n")),
		complexity:      ComplexityUnknown,
		potentialIssues: []string{},
		summary:         "Unable to parse code structure",
	}
}

// Functions returns the detected function names.
func (a CodeAnalysis) Functions() []string { return a.functions }

// Variables returns the detected variable names.
func (a CodeAnalysis) Variables() []string { return a.variables }

// LineCount returns the number of lines in the sample.
func (a CodeAnalysis) LineCount() int { return a.lineCount }

// Complexity returns the complexity estimate.
func (a CodeAnalysis) Complexity() Complexity { return a.complexity }

// PotentialIssues returns the model's issue hints.
func (a CodeAnalysis) PotentialIssues() []string { return a.potentialIssues }

// Summary returns the one-paragraph code summary.
func (a CodeAnalysis) Summary() string { return a.summary }

// PatternReport is free-form commentary on idioms and anti-patterns.
type PatternReport struct {
	analysis string
}

// NewPatternReport creates a pattern report.
func NewPatternReport(analysis string) PatternReport {
	return PatternReport{analysis: analysis}
}

// FallbackPatternReport is the degraded report used when pattern analysis fails.
func FallbackPatternReport() PatternReport {
	return PatternReport{analysis: "Unable to identify patterns"}
}

// Analysis returns the commentary text.
func (p PatternReport) Analysis() string { return p.analysis }
