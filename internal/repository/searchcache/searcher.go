package searchcache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/Amishaj13/bug-hunter/internal/db"
	"github.com/Amishaj13/bug-hunter/internal/domain"
)


// Searcher is the index the cache sits in front of.
type Searcher interface {
	Search(ctx context.Context, query string) ([]domain.ScoredDocument, error)
}

// store is the consumer interface for the search cache.
type store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// cachedDoc is the stored form of a scored document.
type cachedDoc struct {
	Text   string  `json:"text"`
	Score  float64 `json:"score"`
	Source string  `json:"source"`
}

// CachedSearcher caches index query results in a key-value store. Cache
// failures degrade to the inner searcher, never to an error.
type CachedSearcher struct {
	inner      Searcher
	store      store
	ttl        time.Duration
	cacheTotal *prometheus.CounterVec
	logger     *zap.Logger
}

// New creates a caching decorator.
// cacheTotal is a counter vec with label "result" ("hit"/"miss"), passed explicitly.
func New(
	inner Searcher,
	s store,
	ttl time.Duration,
	cacheTotal *prometheus.CounterVec,
	logger *zap.Logger,
) *CachedSearcher {
	return &CachedSearcher{
		inner:      inner,
		store:      s,
		ttl:        ttl,
		cacheTotal: cacheTotal,
		logger:     logger,
	}
}

// Search returns cached results or queries the inner searcher.
func (c *CachedSearcher) Search(ctx context.Context, query string) ([]domain.ScoredDocument, error) {
	key := c.cacheKey(query)

	if docs, ok := c.getFromCache(ctx, key); ok {
		c.incCache("hit")
		return docs, nil
	}

	c.incCache("miss")

	docs, err := c.inner.Search(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("search index: %w", err)
	}

	c.putToCache(ctx, key, docs)
	return docs, nil
}

func (c *CachedSearcher) incCache(result string) {
	if c.cacheTotal != nil {
		c.cacheTotal.WithLabelValues(result).Inc()
	}
}

func (c *CachedSearcher) cacheKey(query string) string {
	h := sha256.Sum256([]byte(query))
	// KeyPrefix is read here rather than at package init so the
	// configuration override in main is picked up.
	return domain.KeyPrefix + "search_cache:" + hex.EncodeToString(h[:])
}

func (c *CachedSearcher) getFromCache(ctx context.Context, key string) ([]domain.ScoredDocument, bool) {
	data, err := c.store.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, db.ErrKeyNotFound) {
			c.logger.Warn("Failed to get cached search results", zap.String("key", key), zap.Error(err))
		}
		return nil, false
	}
	if len(data) == 0 {
		return nil, false
	}

	var cached []cachedDoc
	if err := json.Unmarshal(data, &cached); err != nil {
		c.logger.Warn("Failed to parse cached search results", zap.String("key", key), zap.Error(err))
		return nil, false
	}

	docs := make([]domain.ScoredDocument, 0, len(cached))
	for _, d := range cached {
		docs = append(docs, domain.NewScoredDocument(d.Text, d.Score, d.Source))
	}
	return docs, true
}

func (c *CachedSearcher) putToCache(ctx context.Context, key string, docs []domain.ScoredDocument) {
	cached := make([]cachedDoc, 0, len(docs))
	for _, d := range docs {
		cached = append(cached, cachedDoc{Text: d.Text(), Score: d.Score(), Source: d.Source()})
	}

	data, err := json.Marshal(cached)
	if err != nil {
		c.logger.Warn("Failed to encode search results for cache", zap.String("key", key), zap.Error(err))
		return
	}
	if err := c.store.SetWithTTL(ctx, key, data, c.ttl); err != nil {
		c.logger.Warn("Failed to cache search results", zap.String("key", key), zap.Error(err))
	}
}
