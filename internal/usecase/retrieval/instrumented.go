package retrieval

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/Amishaj13/bug-hunter/internal/domain"
	"github.com/Amishaj13/bug-hunter/internal/metrics"
)

// InstrumentedSearcher wraps a Searcher with per-driver metrics and logging.
// All index drivers sit behind this decorator so the pipeline records the
// same metric surface regardless of backend.
type InstrumentedSearcher struct {
	inner  Searcher
	driver string
	logger *zap.Logger
}

// NewInstrumentedSearcher wraps a searcher with observability.
func NewInstrumentedSearcher(inner Searcher, driver string, logger *zap.Logger) *InstrumentedSearcher {
	return &InstrumentedSearcher{inner: inner, driver: driver, logger: logger}
}

// Search delegates to the inner searcher and records request metrics.
func (s *InstrumentedSearcher) Search(ctx context.Context, query string) ([]domain.ScoredDocument, error) {
	start := time.Now()

	docs, err := s.inner.Search(ctx, query)

	duration := time.Since(start)

	if err != nil {
		metrics.SearchRequestsTotal.WithLabelValues(s.driver, "error").Inc()
		s.logger.Error("Index query failed",
			zap.String("driver", s.driver),
			zap.Duration("duration", duration),
			zap.Error(err),
		)
		return nil, fmt.Errorf("search: %w", err)
	}

	metrics.SearchRequestsTotal.WithLabelValues(s.driver, "success").Inc()
	metrics.SearchRequestDuration.WithLabelValues(s.driver).Observe(duration.Seconds())
	metrics.SearchDocumentsFound.WithLabelValues(s.driver).Observe(float64(len(docs)))

	s.logger.Debug("Index query completed",
		zap.String("driver", s.driver),
		zap.Duration("duration", duration),
		zap.Int("documents", len(docs)),
	)

	return docs, nil
}
