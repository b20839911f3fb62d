package mcpindex

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"

	"github.com/Amishaj13/bug-hunter/internal/domain"
)

// defaultTool is the documentation search tool exposed by the MCP server.
const defaultTool = "search_documents"

// Config describes the MCP documentation server connection.
type Config struct {
	// URL is the MCP server URL (http(s):// or sse://).
	URL string
	// Tool overrides the search tool name.
	Tool string
	// MaxRetries controls reconnect attempts for streamable HTTP transport.
	MaxRetries int
	// Timeout bounds a single tool call.
	Timeout time.Duration
	// Transport overrides URL handling when provided (useful for tests).
	Transport mcp.Transport
	Logger    *zap.Logger
}

// Client queries a documentation index through an MCP server tool. The
// session is established lazily on first use and re-established after
// transport failures.
type Client struct {
	cfg     Config
	tool    string
	timeout time.Duration
	logger  *zap.Logger

	mu      sync.Mutex
	session *mcp.ClientSession
}

// New creates an MCP index client. No connection is made until the first
// call.
func New(cfg *Config) *Client {
	tool := cfg.Tool
	if tool == "" {
		tool = defaultTool
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	return &Client{cfg: *cfg, tool: tool, timeout: timeout, logger: cfg.Logger}
}

// indexDoc is the wire form of one search result.
type indexDoc struct {
	Text   string  `json:"text"`
	Score  float64 `json:"score"`
	Source string  `json:"source"`
}

// Search calls the search tool with the query and maps the results.
func (c *Client) Search(ctx context.Context, query string) ([]domain.ScoredDocument, error) {
	session, err := c.ensureSession(ctx)
	if err != nil {
		return nil, fmt.Errorf("mcp connect: %w: %w", domain.ErrIndexUnavailable, err)
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	result, err := session.CallTool(ctx, &mcp.CallToolParams{
		Name:      c.tool,
		Arguments: map[string]any{"query": query},
	})
	if err != nil {
		// Transport failure: drop the session so the next call reconnects.
		c.dropSession(session)
		return nil, fmt.Errorf("mcp call %s: %w: %w", c.tool, domain.ErrIndexUnavailable, err)
	}
	if result == nil {
		return nil, nil
	}
	if result.IsError {
		return nil, fmt.Errorf("mcp tool %s: %s: %w", c.tool, toolResultError(result), domain.ErrIndexUnavailable)
	}

	return parseToolResult(result)
}

// HealthCheck verifies the MCP session is alive.
func (c *Client) HealthCheck(ctx context.Context) error {
	session, err := c.ensureSession(ctx)
	if err != nil {
		return fmt.Errorf("mcp connect: %w", err)
	}
	if err := session.Ping(ctx, nil); err != nil {
		c.dropSession(session)
		return fmt.Errorf("mcp ping: %w", err)
	}
	return nil
}

// Close shuts down the session if one was established.
func (c *Client) Close() error {
	c.mu.Lock()
	session := c.session
	c.session = nil
	c.mu.Unlock()

	if session != nil {
		return session.Close()
	}
	return nil
}

func (c *Client) ensureSession(ctx context.Context) (*mcp.ClientSession, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.session != nil {
		return c.session, nil
	}

	transport, err := c.transport()
	if err != nil {
		return nil, err
	}

	client := mcp.NewClient(&mcp.Implementation{Name: "bug-hunter"}, nil)
	session, err := client.Connect(ctx, transport, nil)
	if err != nil {
		return nil, err
	}

	c.logger.Info("Connected to MCP documentation server", zap.String("url", c.cfg.URL))
	c.session = session
	return session, nil
}

// dropSession discards the session only if it is still the current one, so
// two concurrent failures don't close a freshly opened replacement.
func (c *Client) dropSession(session *mcp.ClientSession) {
	c.mu.Lock()
	if c.session == session {
		c.session = nil
	}
	c.mu.Unlock()

	_ = session.Close()
}

func (c *Client) transport() (mcp.Transport, error) {
	if c.cfg.Transport != nil {
		return c.cfg.Transport, nil
	}
	if strings.TrimSpace(c.cfg.URL) == "" {
		return nil, errors.New("mcp server URL is required")
	}

	parsed, err := url.Parse(c.cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("invalid mcp server URL: %w", err)
	}

	switch parsed.Scheme {
	case "http", "https":
		return &mcp.StreamableClientTransport{
			Endpoint:   c.cfg.URL,
			MaxRetries: c.cfg.MaxRetries,
		}, nil
	case "sse":
		parsed.Scheme = "http"
		return &mcp.SSEClientTransport{Endpoint: parsed.String()}, nil
	default:
		return nil, fmt.Errorf("unsupported mcp server URL scheme %q", parsed.Scheme)
	}
}

// parseToolResult maps a tool result to scored documents. Servers return
// either structured content or a JSON text block; both carry a document
// list, bare or wrapped in {"documents": [...]}.
func parseToolResult(result *mcp.CallToolResult) ([]domain.ScoredDocument, error) {
	if result.StructuredContent != nil {
		raw, err := json.Marshal(result.StructuredContent)
		if err != nil {
			return nil, fmt.Errorf("encode structured content: %w", err)
		}
		return decodeDocs(raw)
	}

	for _, content := range result.Content {
		text, ok := content.(*mcp.TextContent)
		if !ok || text.Text == "" {
			continue
		}
		docs, err := decodeDocs([]byte(text.Text))
		if err == nil {
			return docs, nil
		}
		// Not JSON: treat the block as one unscored document.
		return []domain.ScoredDocument{domain.NewScoredDocument(text.Text, 0, "mcp")}, nil
	}

	return nil, nil
}

func decodeDocs(raw []byte) ([]domain.ScoredDocument, error) {
	var list []indexDoc
	if err := json.Unmarshal(raw, &list); err != nil {
		var wrapped struct {
			Documents []indexDoc `json:"documents"`
		}
		if err := json.Unmarshal(raw, &wrapped); err != nil {
			return nil, fmt.Errorf("decode documents: %w", err)
		}
		list = wrapped.Documents
	}

	docs := make([]domain.ScoredDocument, 0, len(list))
	for _, d := range list {
		docs = append(docs, domain.NewScoredDocument(d.Text, d.Score, d.Source))
	}
	return docs, nil
}

func toolResultError(result *mcp.CallToolResult) string {
	for _, content := range result.Content {
		if text, ok := content.(*mcp.TextContent); ok && text.Text != "" {
			return text.Text
		}
	}
	if result.StructuredContent != nil {
		return fmt.Sprintf("%v", result.StructuredContent)
	}
	return "tool execution failed"
}
