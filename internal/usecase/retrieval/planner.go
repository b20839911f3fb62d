package retrieval

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/Amishaj13/bug-hunter/internal/domain"
)

// SystemPrompt is the persona pinned on the planner's keyword-extraction
// completions.
const SystemPrompt = `You are a documentation retrieval expert. Your role is to:
1. Formulate effective search queries for bug documentation
2. Retrieve relevant information from the manual of known bugs
3. Synthesize retrieved information into useful context
4. Identify the most relevant documentation for specific bugs`

// keywordTemplate asks the model for search terms over a capped code excerpt.
const keywordTemplate = `Extract 2-3 key technical terms from this code that would be useful for searching bug documentation:

Code:
%s

Return only the terms, comma-separated.`

// Planner derives index queries from a code sample and its bug report.
type Planner struct {
	gen    Generator
	cfg    Config
	logger *zap.Logger
}

// NewPlanner creates a planner. gen may be nil, which disables the
// model-extracted keyword query.
func NewPlanner(gen Generator, cfg Config, logger *zap.Logger) *Planner {
	return &Planner{gen: gen, cfg: cfg.withDefaults(), logger: logger}
}

// Plan builds the query list: up to two type queries and one description
// query per reported bug, a generic language query, then a model-extracted
// keyword query. The list is cut to MaxQueries from the front, so the
// generic and keyword queries are the first to be dropped.
func (p *Planner) Plan(ctx context.Context, code string, report domain.BugReport) []string {
	queries := make([]string, 0, 3*p.cfg.MaxBugs+2)

	bugs := report.BugsFound
	if len(bugs) > p.cfg.MaxBugs {
		bugs = bugs[:p.cfg.MaxBugs]
	}
	for _, bug := range bugs {
		if bug.BugType != "" {
			queries = append(queries,
				fmt.Sprintf("%s %s", p.cfg.Language, bug.BugType),
				fmt.Sprintf("%s bug example", bug.BugType),
			)
		}
		if bug.Description != "" {
			queries = append(queries, headRunes(bug.Description, p.cfg.DescriptionLimit))
		}
	}

	queries = append(queries, fmt.Sprintf("%s common bugs", p.cfg.Language))

	if p.gen != nil {
		if terms, err := p.extractKeywords(ctx, code); err != nil {
			p.logger.Warn("Failed to extract search terms", zap.Error(err))
		} else if terms != "" {
			queries = append(queries, terms)
		}
	}

	if len(queries) > p.cfg.MaxQueries {
		queries = queries[:p.cfg.MaxQueries]
	}
	return queries
}

// extractKeywords asks the model for comma-separated search terms.
func (p *Planner) extractKeywords(ctx context.Context, code string) (string, error) {
	prompt := fmt.Sprintf(keywordTemplate, headRunes(code, p.cfg.KeywordCodeLimit))

	res, err := p.gen.Generate(ctx, prompt)
	if err != nil {
		return "", err
	}
	domain.UsageFromContext(ctx).AddTokens(res.TotalTokens)

	return strings.TrimSpace(res.Text), nil
}
