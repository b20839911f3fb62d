package bughunter

import (
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
)

// Option configures the Client.
type Option interface {
	apply(*clientConfig)
}

// optionFunc adapts a function to the Option interface.
type optionFunc func(*clientConfig)

func (f optionFunc) apply(c *clientConfig) { f(c) }

type clientConfig struct {
	apiKey      string
	baseURL     string
	model       string
	temperature float32
	maxTokens   int

	indexDriver string // "http", "mcp" or "bleve"
	indexURL    string
	indexAPIKey string
	indexPath   string
	corpusPath  string
	indexTopK   int

	language string

	dailyTokenLimit   int64
	monthlyTokenLimit int64
	rejectOverBudget  bool

	generator Generator
	searcher  Searcher

	logger     *slog.Logger
	metricsReg prometheus.Registerer
}

// WithOpenAI configures an OpenAI-compatible completion provider.
func WithOpenAI(apiKey, model string) Option {
	return optionFunc(func(c *clientConfig) {
		c.apiKey = apiKey
		c.model = model
	})
}

// WithBaseURL overrides the completion provider endpoint.
// Use for OpenAI-compatible providers (Nebius, local gateways).
func WithBaseURL(url string) Option {
	return optionFunc(func(c *clientConfig) {
		c.baseURL = url
	})
}

// WithCompletionParams overrides sampling temperature and the max token count.
// Defaults: temperature 0.1, max tokens 8192.
func WithCompletionParams(temperature float32, maxTokens int) Option {
	return optionFunc(func(c *clientConfig) {
		c.temperature = temperature
		c.maxTokens = maxTokens
	})
}

// WithHTTPIndex configures a remote documentation index queried over HTTP.
func WithHTTPIndex(url, apiKey string) Option {
	return optionFunc(func(c *clientConfig) {
		c.indexDriver = "http"
		c.indexURL = url
		c.indexAPIKey = apiKey
	})
}

// WithMCPIndex configures a documentation index exposed as an MCP server tool.
func WithMCPIndex(url string) Option {
	return optionFunc(func(c *clientConfig) {
		c.indexDriver = "mcp"
		c.indexURL = url
	})
}

// WithLocalIndex configures an embedded full-text index. An empty path means
// an in-memory index; corpusPath is a JSONL corpus loaded into a fresh index.
func WithLocalIndex(path, corpusPath string) Option {
	return optionFunc(func(c *clientConfig) {
		c.indexDriver = "bleve"
		c.indexPath = path
		c.corpusPath = corpusPath
	})
}

// WithTopK sets how many documents a single index query returns. Default: 5.
func WithTopK(k int) Option {
	return optionFunc(func(c *clientConfig) {
		c.indexTopK = k
	})
}

// WithLanguage sets the language tag used in canned retrieval queries.
// Default: "C++".
func WithLanguage(lang string) Option {
	return optionFunc(func(c *clientConfig) {
		c.language = lang
	})
}

// WithBudget enables token budget tracking. Zero limits mean unlimited.
// When reject is true, requests over budget fail with
// ErrGenerationQuotaExceeded; otherwise they are logged and allowed.
func WithBudget(dailyTokens, monthlyTokens int64, reject bool) Option {
	return optionFunc(func(c *clientConfig) {
		c.dailyTokenLimit = dailyTokens
		c.monthlyTokenLimit = monthlyTokens
		c.rejectOverBudget = reject
	})
}

// WithGenerator sets a custom completion provider, replacing the OpenAI
// transport.
func WithGenerator(g Generator) Option {
	return optionFunc(func(c *clientConfig) {
		c.generator = g
	})
}

// WithSearcher sets a custom documentation index backend, replacing the
// built-in drivers.
func WithSearcher(s Searcher) Option {
	return optionFunc(func(c *clientConfig) {
		c.searcher = s
	})
}

// WithLogger enables structured logging for SDK operations.
// Pass nil to disable (default). Uses standard library slog.
func WithLogger(l *slog.Logger) Option {
	return optionFunc(func(c *clientConfig) {
		c.logger = l
	})
}

// WithPrometheus registers SDK metrics (operation counts and durations)
// on the given registerer. Pass nil to disable (default).
func WithPrometheus(reg prometheus.Registerer) Option {
	return optionFunc(func(c *clientConfig) {
		c.metricsReg = reg
	})
}
