package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds the bughunter API configuration.
type Config struct {
	HTTP      HTTPConfig      `yaml:"http"`
	LLM       LLMConfig       `yaml:"llm"`
	Index     IndexConfig     `yaml:"index"`
	Cache     CacheConfig     `yaml:"cache"`
	Retrieval RetrievalConfig `yaml:"retrieval"`
	Auth      AuthConfig      `yaml:"auth"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error (default: determined by env)
}

// AuthConfig holds API authentication settings.
type AuthConfig struct {
	APIKeys []string `yaml:"api_keys"`
}

// HTTPConfig holds HTTP server settings.
type HTTPConfig struct {
	Port            int `yaml:"port"`
	ReadTimeoutSec  int `yaml:"read_timeout_sec"`
	WriteTimeoutSec int `yaml:"write_timeout_sec"`
	ShutdownSec     int `yaml:"shutdown_timeout_sec"`
}

// LLMConfig holds completion provider settings.
type LLMConfig struct {
	APIKey      string       `yaml:"api_key"`
	BaseURL     string       `yaml:"base_url"`
	Model       string       `yaml:"model"`
	Temperature float32      `yaml:"temperature"`
	MaxTokens   int          `yaml:"max_tokens"`
	Budget      BudgetConfig `yaml:"budget"`
}

// BudgetConfig holds token budget settings.
type BudgetConfig struct {
	DailyTokenLimit   int64  `yaml:"daily_token_limit"`   // 0 = unlimited
	MonthlyTokenLimit int64  `yaml:"monthly_token_limit"` // 0 = unlimited
	Action            string `yaml:"action"`              // "reject" | "warn" (default)
}

// IndexConfig holds documentation index settings.
type IndexConfig struct {
	Driver     string `yaml:"driver"` // http, mcp, bleve (default: http)
	URL        string `yaml:"url"`
	APIKey     string `yaml:"api_key"`
	TimeoutSec int    `yaml:"timeout_sec"`
	TopK       int    `yaml:"top_k"` // documents requested per query
	// Path and CorpusPath configure the embedded bleve driver.
	Path       string `yaml:"path"`
	CorpusPath string `yaml:"corpus_path"`
}

// CacheConfig holds search result cache settings.
type CacheConfig struct {
	Enabled          bool     `yaml:"enabled"`
	Addrs            []string `yaml:"addrs"`
	Password         string   `yaml:"password"`
	TTLSec           int      `yaml:"ttl_sec"`
	ReadinessTimeout int      `yaml:"readiness_timeout_sec"`
	KeyPrefix        string   `yaml:"key_prefix"`
}

// RetrievalConfig holds retrieval pipeline limits. The defaults reproduce
// the stock agent behavior; override with care, the synthesis format is
// part of the observable output.
type RetrievalConfig struct {
	Language           string `yaml:"language"`
	MaxQueries         int    `yaml:"max_queries"`
	MaxBugs            int    `yaml:"max_bugs"`
	DescriptionLimit   int    `yaml:"description_limit"`
	KeywordCodeLimit   int    `yaml:"keyword_code_limit"`
	MaxDocuments       int    `yaml:"max_documents"`
	SynthesisDocuments int    `yaml:"synthesis_documents"`
	SynthesisChars     int    `yaml:"synthesis_chars"`
	SearchConcurrency  int    `yaml:"search_concurrency"`
}

// Load reads configuration from a YAML file by environment name (local, dev, prod).
func Load(env string) (Config, error) {
	configPath := findConfigPath(env)

	data, err := os.ReadFile(filepath.Clean(configPath))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", configPath, err)
	}

	// Substitute env variables of the form ${VAR}
	data = expandEnvVars(data)

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// MustLoad loads configuration or panics.
func MustLoad(env string) Config {
	cfg, err := Load(env)
	if err != nil {
		panic(err)
	}
	return cfg
}

// GetEnv returns the current environment from the ENV variable, defaulting to "local".
func GetEnv() string {
	if env := os.Getenv("ENV"); env != "" {
		return env
	}
	return "local"
}

// ApplyDefaults fills empty fields with default values.
func (c *Config) ApplyDefaults() {
	if c.HTTP.ReadTimeoutSec <= 0 {
		c.HTTP.ReadTimeoutSec = 10
	}
	if c.HTTP.WriteTimeoutSec <= 0 {
		// Completion calls dominate request latency; leave headroom.
		c.HTTP.WriteTimeoutSec = 120
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}
	if c.LLM.Temperature <= 0 {
		c.LLM.Temperature = 0.1
	}
	if c.LLM.MaxTokens <= 0 {
		c.LLM.MaxTokens = 8192
	}
	if c.Index.Driver == "" {
		c.Index.Driver = "http"
	}
	if c.Index.TimeoutSec <= 0 {
		c.Index.TimeoutSec = 30
	}
	if c.Index.TopK <= 0 {
		c.Index.TopK = 10
	}
	if c.LLM.Budget.Action == "" {
		c.LLM.Budget.Action = "warn"
	}
	if c.Cache.TTLSec <= 0 {
		c.Cache.TTLSec = 300
	}
	if c.Cache.ReadinessTimeout <= 0 {
		c.Cache.ReadinessTimeout = 10
	}
	if c.Cache.KeyPrefix == "" {
		c.Cache.KeyPrefix = "bughunter:"
	}
	if c.Retrieval.Language == "" {
		c.Retrieval.Language = "C++"
	}
	if c.Retrieval.MaxQueries <= 0 {
		c.Retrieval.MaxQueries = 5
	}
	if c.Retrieval.MaxBugs <= 0 {
		c.Retrieval.MaxBugs = 3
	}
	if c.Retrieval.DescriptionLimit <= 0 {
		c.Retrieval.DescriptionLimit = 100
	}
	if c.Retrieval.KeywordCodeLimit <= 0 {
		c.Retrieval.KeywordCodeLimit = 500
	}
	if c.Retrieval.MaxDocuments <= 0 {
		c.Retrieval.MaxDocuments = 5
	}
	if c.Retrieval.SynthesisDocuments <= 0 {
		c.Retrieval.SynthesisDocuments = 3
	}
	if c.Retrieval.SynthesisChars <= 0 {
		c.Retrieval.SynthesisChars = 300
	}
	if c.Retrieval.SearchConcurrency <= 0 {
		c.Retrieval.SearchConcurrency = 1
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}
	if c.LLM.Model == "" {
		return fmt.Errorf("llm.model is required")
	}
	switch c.LLM.Budget.Action {
	case "", "warn", "reject":
		// ok
	default:
		return fmt.Errorf(
			"llm.budget.action must be \"warn\" or \"reject\", got %q",
			c.LLM.Budget.Action,
		)
	}
	switch c.Index.Driver {
	case "http", "mcp":
		if c.Index.URL == "" {
			return fmt.Errorf("index.url is required for driver %q", c.Index.Driver)
		}
	case "bleve":
		// path empty means in-memory; nothing to validate
	default:
		return fmt.Errorf("index.driver must be \"http\", \"mcp\" or \"bleve\", got %q", c.Index.Driver)
	}
	if c.Cache.Enabled && len(c.Cache.Addrs) == 0 {
		return fmt.Errorf("cache.addrs is required when cache is enabled")
	}
	return nil
}

// findConfigPath locates the config file.
func findConfigPath(env string) string {
	filename := fmt.Sprintf("%s.yaml", env)

	// 1. Check ./config/
	if path := filepath.Join("config", filename); fileExists(path) {
		return path
	}

	// 2. Check relative to the source file
	_, b, _, _ := runtime.Caller(0)
	projectRoot := filepath.Dir(filepath.Dir(filepath.Dir(b))) // internal/config -> project root
	if path := filepath.Join(projectRoot, "config", filename); fileExists(path) {
		return path
	}

	// 3. Fallback to ./config/
	return filepath.Join("config", filename)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// expandEnvVars replaces ${VAR} and ${VAR:-default} with environment variable values.
var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

func expandEnvVars(data []byte) []byte {
	return envVarRegex.ReplaceAllFunc(data, func(match []byte) []byte {
		expr := string(match[2 : len(match)-1]) // strip ${ and }
		varName, defaultVal, hasDefault := strings.Cut(expr, ":-")
		val := os.Getenv(varName)
		if val == "" && hasDefault {
			val = defaultVal
		}
		return []byte(val)
	})
}
