package analysis

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/Amishaj13/bug-hunter/internal/domain"
	"github.com/Amishaj13/bug-hunter/internal/metrics"
)

// SystemPrompt is the persona pinned on analysis completions.
const SystemPrompt = `You are a C++ code analysis expert. Your role is to:
1. Parse C++ code and identify its structure
2. Extract functions, variables, and control flow
3. Identify line-by-line code elements
4. Detect potential problem areas

Provide detailed, structured analysis in JSON format.`

const analyzeTemplate = "Analyze the following C++ code snippet and provide a structured analysis.\n\n" +
	"Code:\n```cpp\n%s\n```\n\n" +
	"Context: %s\n\n" +
	"Provide your analysis in the following JSON format:\n" +
	"{\n" +
	"    \"functions\": [\"list of function names\"],\n" +
	"    \"variables\": [\"list of variable names\"],\n" +
	"    \"line_count\": number,\n" +
	"    \"complexity\": \"low/medium/high\",\n" +
	"    \"potential_issues\": [\"list of potential problem areas\"],\n" +
	"    \"code_summary\": \"brief summary of what the code does\"\n" +
	"}\n\n" +
	"Return ONLY the JSON, no additional text."

const patternsTemplate = "Identify C++ patterns and idioms in this code:\n\n" +
	"```cpp\n%s\n```\n\n" +
	"List any patterns you recognize (e.g., RAII, smart pointers, iterators, etc.)\n" +
	"Also note any anti-patterns or code smells.\n\n" +
	"Provide a concise analysis."

// defaultContext fills the template when the caller supplies no context.
const defaultContext = "No additional context provided"

// Service runs model-backed structural code analysis.
type Service struct {
	gen    Generator
	logger *zap.Logger
}

// New creates an analysis service.
func New(gen Generator, logger *zap.Logger) *Service {
	return &Service{gen: gen, logger: logger}
}

// Analyze asks the model for a structured analysis of the code sample. A
// malformed model response degrades to the fallback record; only the
// completion call itself can fail.
func (s *Service) Analyze(ctx context.Context, code, codeContext string) (domain.CodeAnalysis, error) {
	if codeContext == "" {
		codeContext = defaultContext
	}

	res, err := s.gen.Generate(ctx, fmt.Sprintf(analyzeTemplate, code, codeContext))
	if err != nil {
		return domain.CodeAnalysis{}, fmt.Errorf("analyze code: %w", err)
	}
	domain.UsageFromContext(ctx).AddTokens(res.TotalTokens)

	parsed, ok := ParseAnalysis(res.Text, code)
	if ok {
		s.logger.Info("Successfully parsed code structure")
	} else {
		s.logger.Warn("Failed to parse analysis response, using fallback",
			zap.Int("response_bytes", len(res.Text)))
		metrics.AnalysisFallbacksTotal.WithLabelValues("parse").Inc()
	}
	return parsed, nil
}

// IdentifyPatterns asks the model for idiom and anti-pattern commentary.
// Any failure degrades to the fixed fallback report.
func (s *Service) IdentifyPatterns(ctx context.Context, code string) domain.PatternReport {
	res, err := s.gen.Generate(ctx, fmt.Sprintf(patternsTemplate, code))
	if err != nil {
		s.logger.Error("Error identifying patterns", zap.Error(err))
		metrics.AnalysisFallbacksTotal.WithLabelValues("patterns").Inc()
		return domain.FallbackPatternReport()
	}
	domain.UsageFromContext(ctx).AddTokens(res.TotalTokens)

	return domain.NewPatternReport(res.Text)
}
