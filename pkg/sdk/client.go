package bughunter

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/Amishaj13/bug-hunter/internal/domain"
	"github.com/Amishaj13/bug-hunter/internal/repository/bleveindex"
	"github.com/Amishaj13/bug-hunter/internal/repository/httpindex"
	"github.com/Amishaj13/bug-hunter/internal/repository/mcpindex"
	openaiGen "github.com/Amishaj13/bug-hunter/internal/transport/openai"
	analysisuc "github.com/Amishaj13/bug-hunter/internal/usecase/analysis"
	generationuc "github.com/Amishaj13/bug-hunter/internal/usecase/generation"
	healthuc "github.com/Amishaj13/bug-hunter/internal/usecase/health"
	retrievaluc "github.com/Amishaj13/bug-hunter/internal/usecase/retrieval"
	usageuc "github.com/Amishaj13/bug-hunter/internal/usecase/usage"
)

const defaultIndexTimeout = 30 * time.Second

// Internal interfaces so tests can swap the services.
type retrievalUseCase interface {
	Retrieve(ctx context.Context, code string, report domain.BugReport) domain.RetrievalResult
}

type analysisUseCase interface {
	Analyze(ctx context.Context, code, codeContext string) (domain.CodeAnalysis, error)
	IdentifyPatterns(ctx context.Context, code string) domain.PatternReport
}

// Client is the bughunter SDK entry point.
type Client struct {
	retrievalSvc retrievalUseCase
	analysisSvc  analysisUseCase
	usageSvc     *usageuc.Service
	healthSvc    *healthuc.Service
	obs          *observer
	closeIndex   func() error
}

// New creates a bughunter Client. The index driver opens lazily or on
// creation depending on the backend; the provided context bounds any
// initial corpus load.
func New(_ context.Context, opts ...Option) (*Client, error) {
	cfg := &clientConfig{}
	for _, o := range opts {
		o.apply(cfg)
	}
	if cfg.indexTopK <= 0 {
		cfg.indexTopK = 5
	}

	if cfg.generator == nil && (cfg.apiKey == "" || cfg.model == "") {
		return nil, errors.New("bughunter: completion provider required (use WithOpenAI or WithGenerator)")
	}
	if cfg.searcher == nil && cfg.indexDriver == "" {
		return nil, errors.New("bughunter: documentation index required (use WithHTTPIndex, WithMCPIndex, WithLocalIndex or WithSearcher)")
	}

	obs, err := newObserver(cfg.logger, cfg.metricsReg)
	if err != nil {
		return nil, err
	}

	nop := zap.NewNop()

	var budget generationuc.BudgetChecker
	var budgetReader usageuc.BudgetReader
	if cfg.dailyTokenLimit > 0 || cfg.monthlyTokenLimit > 0 {
		action := generationuc.BudgetActionWarn
		if cfg.rejectOverBudget {
			action = generationuc.BudgetActionReject
		}
		bt := generationuc.NewBudgetTracker(
			"sdk", cfg.dailyTokenLimit, cfg.monthlyTokenLimit, action, nop,
		)
		budget = bt
		budgetReader = bt
	}

	queryGen, analysisGen, genChecker := createGenerators(cfg, budget, nop)

	searcher, indexChecker, closeIndex, err := createSearcher(cfg, nop)
	if err != nil {
		return nil, err
	}

	rcfg := retrievaluc.Config{Language: cfg.language}
	planner := retrievaluc.NewPlanner(queryGen, rcfg, nop)

	action := "warn"
	if cfg.rejectOverBudget {
		action = "reject"
	}

	return &Client{
		retrievalSvc: retrievaluc.New(planner, searcher, rcfg, nop),
		analysisSvc:  analysisuc.New(analysisGen, nop),
		usageSvc:     usageuc.New(budgetReader, cfg.model, action),
		healthSvc:    healthuc.New(nil, genChecker, indexChecker),
		obs:          obs,
		closeIndex:   closeIndex,
	}, nil
}

func createGenerators(
	cfg *clientConfig, budget generationuc.BudgetChecker, nop *zap.Logger,
) (queryGen, analysisGen domain.Generator, checker healthuc.GenerationChecker) {
	if cfg.generator != nil {
		g := &generatorAdapter{inner: cfg.generator}
		queryGen = generationuc.NewInstrumentedGenerator(g, "custom", cfg.model, budget, nop)
		analysisGen = queryGen
		return queryGen, analysisGen, nil
	}

	build := func(systemPrompt string) *openaiGen.Generator {
		return openaiGen.NewGenerator(&openaiGen.Config{
			APIKey:       cfg.apiKey,
			BaseURL:      cfg.baseURL,
			Model:        cfg.model,
			SystemPrompt: systemPrompt,
			Temperature:  cfg.temperature,
			MaxTokens:    cfg.maxTokens,
			Provider:     "openai",
			Logger:       nop,
		})
	}

	base := build(retrievaluc.SystemPrompt)
	queryGen = generationuc.NewInstrumentedGenerator(base, "openai", cfg.model, budget, nop)
	analysisGen = generationuc.NewInstrumentedGenerator(
		build(analysisuc.SystemPrompt), "openai", cfg.model, budget, nop,
	)
	return queryGen, analysisGen, base
}

func createSearcher(
	cfg *clientConfig, nop *zap.Logger,
) (retrievaluc.Searcher, healthuc.IndexChecker, func() error, error) {
	noClose := func() error { return nil }

	if cfg.searcher != nil {
		return &searcherAdapter{inner: cfg.searcher}, nil, noClose, nil
	}

	switch cfg.indexDriver {
	case "http":
		c := httpindex.New(&httpindex.Config{
			BaseURL: cfg.indexURL,
			APIKey:  cfg.indexAPIKey,
			Limit:   cfg.indexTopK,
			Timeout: defaultIndexTimeout,
			Logger:  nop,
		})
		return c, c, noClose, nil
	case "mcp":
		c := mcpindex.New(&mcpindex.Config{
			URL:     cfg.indexURL,
			Timeout: defaultIndexTimeout,
			Logger:  nop,
		})
		return c, c, c.Close, nil
	case "bleve":
		idx, err := bleveindex.New(&bleveindex.Config{
			Path:       cfg.indexPath,
			CorpusPath: cfg.corpusPath,
			Limit:      cfg.indexTopK,
			Logger:     nop,
		})
		if err != nil {
			return nil, nil, nil, fmt.Errorf("bughunter: open local index: %w", err)
		}
		return idx, idx, idx.Close, nil
	default:
		return nil, nil, nil, fmt.Errorf("bughunter: unknown index driver %q", cfg.indexDriver)
	}
}

// Close releases index resources.
func (c *Client) Close() error {
	if c.closeIndex != nil {
		return c.closeIndex()
	}
	return nil
}

// Retrieve runs the documentation retrieval pipeline for a code sample and
// its bug report. Retrieval degrades rather than fails: index and planner
// errors produce an empty result, never an error.
func (c *Client) Retrieve(ctx context.Context, code string, report BugReport) RetrievalResult {
	start := time.Now()
	defer func() { c.obs.observe("retrieve", start, nil) }()

	bugs := make([]domain.Bug, 0, len(report.BugsFound))
	for _, b := range report.BugsFound {
		bugs = append(bugs, domain.Bug{BugType: b.BugType, Description: b.Description})
	}

	res := c.retrievalSvc.Retrieve(ctx, code, domain.BugReport{BugsFound: bugs})

	docs := make([]Document, 0, len(res.SelectedDocuments()))
	for _, d := range res.SelectedDocuments() {
		docs = append(docs, Document{Text: d.Text(), Score: d.Score(), Source: d.Source()})
	}
	return RetrievalResult{
		SelectedDocuments:  docs,
		SynthesizedContext: res.SynthesizedContext(),
		TotalFound:         res.TotalFound(),
	}
}

// Analyze asks the model for a structural analysis of a code sample.
// codeContext may be empty. A malformed model response degrades to a
// fallback record; only the completion call itself can fail.
func (c *Client) Analyze(ctx context.Context, code, codeContext string) (_ Analysis, err error) {
	start := time.Now()
	defer func() { c.obs.observe("analyze", start, err) }()

	a, err := c.analysisSvc.Analyze(ctx, code, codeContext)
	if err != nil {
		return Analysis{}, err
	}
	return Analysis{
		Functions:       a.Functions(),
		Variables:       a.Variables(),
		LineCount:       a.LineCount(),
		Complexity:      Complexity(a.Complexity()),
		PotentialIssues: a.PotentialIssues(),
		Summary:         a.Summary(),
	}, nil
}

// IdentifyPatterns asks the model for a free-form pattern analysis of a
// code sample. Provider failures degrade to a fallback report.
func (c *Client) IdentifyPatterns(ctx context.Context, code string) PatternReport {
	start := time.Now()
	defer func() { c.obs.observe("patterns", start, nil) }()

	p := c.analysisSvc.IdentifyPatterns(ctx, code)
	return PatternReport{Analysis: p.Analysis()}
}

// generatorAdapter wraps the public Generator to satisfy domain.Generator.
type generatorAdapter struct {
	inner Generator
}

func (a *generatorAdapter) Generate(ctx context.Context, prompt string) (domain.GenerationResult, error) {
	r, err := a.inner.Generate(ctx, prompt)
	if err != nil {
		return domain.GenerationResult{}, fmt.Errorf("generate: %w", err)
	}
	return domain.GenerationResult{
		Text:         r.Text,
		PromptTokens: r.PromptTokens,
		TotalTokens:  r.TotalTokens,
	}, nil
}

// searcherAdapter wraps the public Searcher to satisfy the retrieval contract.
type searcherAdapter struct {
	inner Searcher
}

func (a *searcherAdapter) Search(ctx context.Context, query string) ([]domain.ScoredDocument, error) {
	docs, err := a.inner.Search(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}
	out := make([]domain.ScoredDocument, 0, len(docs))
	for _, d := range docs {
		out = append(out, domain.NewScoredDocument(d.Text, d.Score, d.Source))
	}
	return out, nil
}
