package retrieval

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/Amishaj13/bug-hunter/internal/domain"
)

// Config bounds query planning and context synthesis. Zero fields fall back
// to the stock agent limits.
type Config struct {
	Language           string // language tag used in canned queries
	MaxQueries         int
	MaxBugs            int
	DescriptionLimit   int
	KeywordCodeLimit   int
	MaxDocuments       int
	SynthesisDocuments int
	SynthesisChars     int
	SearchConcurrency  int
}

func (c Config) withDefaults() Config {
	if c.Language == "" {
		c.Language = "C++"
	}
	if c.MaxQueries <= 0 {
		c.MaxQueries = 5
	}
	if c.MaxBugs <= 0 {
		c.MaxBugs = 3
	}
	if c.DescriptionLimit <= 0 {
		c.DescriptionLimit = 100
	}
	if c.KeywordCodeLimit <= 0 {
		c.KeywordCodeLimit = 500
	}
	if c.MaxDocuments <= 0 {
		c.MaxDocuments = 5
	}
	if c.SynthesisDocuments <= 0 {
		c.SynthesisDocuments = 3
	}
	if c.SynthesisChars <= 0 {
		c.SynthesisChars = 300
	}
	if c.SearchConcurrency <= 0 {
		c.SearchConcurrency = 1
	}
	return c
}

// Service orchestrates the retrieval pipeline: plan queries, fan out index
// searches, deduplicate, rank, and synthesize a context digest.
type Service struct {
	planner  *Planner
	searcher Searcher
	synth    *Synthesizer
	cfg      Config
	logger   *zap.Logger
}

// New creates a retrieval service.
func New(planner *Planner, searcher Searcher, cfg Config, logger *zap.Logger) *Service {
	return &Service{
		planner:  planner,
		searcher: searcher,
		synth:    NewSynthesizer(cfg),
		cfg:      cfg.withDefaults(),
		logger:   logger,
	}
}

// Retrieve runs the full pipeline for one code sample and bug report. A
// failed query contributes zero documents and never aborts the others, so
// the worst case is an empty result with the sentinel digest, not an error.
func (s *Service) Retrieve(ctx context.Context, code string, report domain.BugReport) domain.RetrievalResult {
	queries := s.planner.Plan(ctx, code, report)

	all := s.searchAll(ctx, queries)

	unique := Rank(Dedupe(all))

	synthesized := s.synth.Synthesize(unique)

	selected := unique
	if len(selected) > s.cfg.MaxDocuments {
		selected = selected[:s.cfg.MaxDocuments]
	}

	s.logger.Debug("Retrieval completed",
		zap.Int("queries", len(queries)),
		zap.Int("documents_found", len(unique)),
		zap.Int("documents_selected", len(selected)),
	)

	return domain.NewRetrievalResult(selected, synthesized, len(unique))
}

// searchAll fans the queries out over the index with bounded concurrency.
// Results land in per-query slots and are flattened in submission order, so
// the downstream first-wins dedup stays deterministic regardless of which
// search finishes first.
func (s *Service) searchAll(ctx context.Context, queries []string) []domain.ScoredDocument {
	slots := make([][]domain.ScoredDocument, len(queries))

	var wg sync.WaitGroup
	sem := make(chan struct{}, s.cfg.SearchConcurrency)

	for i, query := range queries {
		wg.Add(1)
		go func(i int, query string) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			docs, err := s.searcher.Search(ctx, query)
			if err != nil {
				s.logger.Error("Error searching documents",
					zap.String("query", query), zap.Error(err))
				return
			}
			slots[i] = docs
		}(i, query)
	}
	wg.Wait()

	var all []domain.ScoredDocument
	for _, docs := range slots {
		all = append(all, docs...)
	}
	return all
}
