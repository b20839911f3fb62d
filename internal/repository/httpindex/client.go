package httpindex

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/Amishaj13/bug-hunter/internal/domain"
)

const (
	maxRetries      = 3
	retryBackoff    = 500 * time.Millisecond
	retryMultiplier = 2
)

// Config holds the documentation index API settings.
type Config struct {
	BaseURL string
	APIKey  string
	Limit   int
	Timeout time.Duration
	Logger  *zap.Logger
}

// Client queries a documentation index over its HTTP JSON API.
type Client struct {
	baseURL string
	apiKey  string
	limit   int
	client  *http.Client
	logger  *zap.Logger
}

// New creates an HTTP index client.
func New(cfg *Config) *Client {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:  cfg.APIKey,
		limit:   cfg.Limit,
		client:  &http.Client{Timeout: timeout},
		logger:  cfg.Logger,
	}
}

type searchRequest struct {
	Query string `json:"query"`
	Limit int    `json:"limit,omitempty"`
}

type searchDoc struct {
	Text   string  `json:"text"`
	Score  float64 `json:"score"`
	Source string  `json:"source"`
}

type searchResponse struct {
	Documents []searchDoc `json:"documents"`
}

// Search runs one index query and returns scored documents.
func (c *Client) Search(ctx context.Context, query string) ([]domain.ScoredDocument, error) {
	payload, err := json.Marshal(searchRequest{Query: query, Limit: c.limit})
	if err != nil {
		return nil, fmt.Errorf("encode search request: %w", err)
	}

	resp, err := c.doWithRetry(ctx, http.MethodPost, c.baseURL+"/search", payload)
	if err != nil {
		return nil, fmt.Errorf("index search: %w: %w", domain.ErrIndexUnavailable, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("index search status %d: %s: %w",
			resp.StatusCode, strings.TrimSpace(string(body)), domain.ErrIndexUnavailable)
	}

	var parsed searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("decode search response: %w", err)
	}

	docs := make([]domain.ScoredDocument, 0, len(parsed.Documents))
	for _, d := range parsed.Documents {
		docs = append(docs, domain.NewScoredDocument(d.Text, d.Score, d.Source))
	}
	return docs, nil
}

// HealthCheck verifies the index API is reachable.
func (c *Client) HealthCheck(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return fmt.Errorf("build health request: %w", err)
	}
	c.setHeaders(req)

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("index health: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= http.StatusMultipleChoices {
		return fmt.Errorf("index health status %d", resp.StatusCode)
	}
	return nil
}

// doWithRetry executes the request with exponential backoff for network
// errors and 5xx responses. The request is rebuilt on each attempt so the
// body can be re-sent.
func (c *Client) doWithRetry(ctx context.Context, method, url string, payload []byte) (*http.Response, error) {
	backoff := retryBackoff

	var resp *http.Response
	var err error
	for attempt := 0; attempt <= maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(backoff):
				backoff *= retryMultiplier
			}
			c.logger.Debug("Retrying index request",
				zap.String("url", url),
				zap.Int("attempt", attempt),
			)
		}

		var req *http.Request
		req, err = http.NewRequestWithContext(ctx, method, url, bytes.NewReader(payload))
		if err != nil {
			return nil, fmt.Errorf("build request: %w", err)
		}
		c.setHeaders(req)

		resp, err = c.client.Do(req)
		if err != nil {
			// Network error, retry.
			continue
		}

		// Success or client error, don't retry.
		if resp.StatusCode < http.StatusInternalServerError {
			return resp, nil
		}

		_ = resp.Body.Close()
	}

	if err == nil && resp != nil {
		err = fmt.Errorf("request failed after %d retries: status %d", maxRetries, resp.StatusCode)
	}
	return nil, err
}

func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}
}
