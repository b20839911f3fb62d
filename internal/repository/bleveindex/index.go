package bleveindex

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/standard"
	"github.com/blevesearch/bleve/v2/mapping"
	"go.uber.org/zap"

	"github.com/Amishaj13/bug-hunter/internal/domain"
)

// Config holds the local documentation index settings.
type Config struct {
	// Path is the index directory. Empty means an in-memory index.
	Path string
	// CorpusPath is a JSONL file of documents to load into a fresh index.
	CorpusPath string
	Limit      int
	Logger     *zap.Logger
}

// Index is a local full-text documentation index.
type Index struct {
	index  bleve.Index
	limit  int
	logger *zap.Logger
}

// corpusDoc is one line of the JSONL corpus file.
type corpusDoc struct {
	ID     string `json:"id"`
	Text   string `json:"text"`
	Source string `json:"source"`
}

// New opens or creates the index. A fresh index is populated from the
// corpus file; an existing one is reused as is, so re-syncing the corpus
// means removing the index directory first.
func New(cfg *Config) (*Index, error) {
	im := bleve.NewIndexMapping()

	docMapping := bleve.NewDocumentMapping()
	textFieldMapping := bleve.NewTextFieldMapping()
	// Standard analyzer: lowercase + tokenize without stemming, so exact
	// technical terms like "use-after-free" stay searchable.
	textFieldMapping.Analyzer = standard.Name
	docMapping.AddFieldMappingsAt("text", textFieldMapping)
	sourceFieldMapping := bleve.NewKeywordFieldMapping()
	docMapping.AddFieldMappingsAt("source", sourceFieldMapping)
	im.AddDocumentMapping("document", docMapping)
	im.DefaultType = "document"
	im.DefaultMapping = docMapping

	idx, fresh, err := openOrCreate(cfg.Path, im)
	if err != nil {
		return nil, err
	}

	b := &Index{index: idx, limit: cfg.Limit, logger: cfg.Logger}

	if fresh && cfg.CorpusPath != "" {
		if err := b.loadCorpus(cfg.CorpusPath); err != nil {
			_ = idx.Close()
			return nil, err
		}
	}
	return b, nil
}

func openOrCreate(path string, im mapping.IndexMapping) (bleve.Index, bool, error) {
	if path == "" {
		idx, err := bleve.NewMemOnly(im)
		if err != nil {
			return nil, false, fmt.Errorf("create in-memory index: %w", err)
		}
		return idx, true, nil
	}

	if _, err := os.Stat(path); err == nil {
		idx, openErr := bleve.Open(path)
		if openErr != nil {
			return nil, false, fmt.Errorf("open index: %w", openErr)
		}
		return idx, false, nil
	}

	idx, err := bleve.New(path, im)
	if err != nil {
		return nil, false, fmt.Errorf("create index: %w", err)
	}
	return idx, true, nil
}

// loadCorpus indexes every line of the JSONL corpus file.
func (b *Index) loadCorpus(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open corpus: %w", err)
	}
	defer func() { _ = f.Close() }()

	batch := b.index.NewBatch()
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 1024*1024), 1024*1024)

	var line, indexed int
	for scanner.Scan() {
		line++
		raw := scanner.Bytes()
		if len(raw) == 0 {
			continue
		}

		var doc corpusDoc
		if err := json.Unmarshal(raw, &doc); err != nil {
			b.logger.Warn("Skipping malformed corpus line",
				zap.Int("line", line), zap.Error(err))
			continue
		}
		if doc.ID == "" {
			doc.ID = strconv.Itoa(line)
		}

		if err := batch.Index(doc.ID, doc); err != nil {
			return fmt.Errorf("index corpus line %d: %w", line, err)
		}
		indexed++
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read corpus: %w", err)
	}

	if err := b.index.Batch(batch); err != nil {
		return fmt.Errorf("apply corpus batch: %w", err)
	}

	b.logger.Info("Documentation corpus loaded",
		zap.String("path", path),
		zap.Int("documents", indexed),
	)
	return nil
}

// Search runs a match query and returns up to the configured limit of
// scored documents with their stored fields.
func (b *Index) Search(ctx context.Context, query string) ([]domain.ScoredDocument, error) {
	q := bleve.NewMatchQuery(query)
	req := bleve.NewSearchRequest(q)
	req.Size = b.limit
	req.Fields = []string{"text", "source"}

	res, err := b.index.SearchInContext(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("bleve search: %w: %w", domain.ErrIndexUnavailable, err)
	}

	docs := make([]domain.ScoredDocument, 0, len(res.Hits))
	for _, hit := range res.Hits {
		text, _ := hit.Fields["text"].(string)
		source, _ := hit.Fields["source"].(string)
		docs = append(docs, domain.NewScoredDocument(text, hit.Score, source))
	}
	return docs, nil
}

// HealthCheck verifies the index is open and readable.
func (b *Index) HealthCheck(_ context.Context) error {
	if _, err := b.index.DocCount(); err != nil {
		return fmt.Errorf("doc count: %w", err)
	}
	return nil
}

// DocCount returns the number of indexed documents.
func (b *Index) DocCount() (uint64, error) {
	return b.index.DocCount()
}

// Close closes the underlying index.
func (b *Index) Close() error {
	return b.index.Close()
}
