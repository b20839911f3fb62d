package config

import (
	"os"
	"path/filepath"
	"testing"
)

func validConfig() Config {
	return Config{
		HTTP:  HTTPConfig{Port: 8080},
		LLM:   LLMConfig{APIKey: "test-key", Model: "gpt-4o-mini"},
		Index: IndexConfig{Driver: "http", URL: "http://localhost:9200"},
	}
}

func TestValidate_InvalidBudgetAction(t *testing.T) {
	cfg := validConfig()
	cfg.LLM.Budget = BudgetConfig{
		DailyTokenLimit: 1000000,
		Action:          "invalid_action",
	}

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error for invalid budget action")
	}

	expected := `llm.budget.action must be "warn" or "reject", got "invalid_action"`
	if err.Error() != expected {
		t.Errorf("unexpected error message:\ngot:  %q\nwant: %q", err.Error(), expected)
	}
}

func TestValidate_ValidBudgetActions(t *testing.T) {
	validActions := []string{"", "warn", "reject"}

	for _, action := range validActions {
		t.Run("action="+action, func(t *testing.T) {
			cfg := validConfig()
			cfg.LLM.Budget = BudgetConfig{Action: action}

			err := cfg.Validate()
			if err != nil {
				t.Fatalf("unexpected error for valid action %q: %v", action, err)
			}
		})
	}
}

func TestValidate_InvalidPort(t *testing.T) {
	cfg := validConfig()
	cfg.HTTP.Port = 0

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for invalid port")
	}
}

func TestValidate_MissingModel(t *testing.T) {
	cfg := validConfig()
	cfg.LLM.Model = ""

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for missing llm.model")
	}
}

func TestValidate_IndexDriver(t *testing.T) {
	tests := []struct {
		name    string
		driver  string
		url     string
		wantErr bool
	}{
		{name: "http with url", driver: "http", url: "http://localhost:9200"},
		{name: "http without url", driver: "http", wantErr: true},
		{name: "mcp with url", driver: "mcp", url: "http://localhost:8765/mcp"},
		{name: "mcp without url", driver: "mcp", wantErr: true},
		{name: "bleve without url", driver: "bleve"},
		{name: "unknown driver", driver: "chroma", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			cfg.Index = IndexConfig{Driver: tt.driver, URL: tt.url}

			err := cfg.Validate()
			if tt.wantErr && err == nil {
				t.Fatal("expected error")
			}
			if !tt.wantErr && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestValidate_CacheEnabledWithoutAddrs(t *testing.T) {
	cfg := validConfig()
	cfg.Cache.Enabled = true

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for enabled cache without addrs")
	}
}

func TestApplyDefaults(t *testing.T) {
	cfg := Config{}
	cfg.ApplyDefaults()

	if cfg.HTTP.ReadTimeoutSec != 10 {
		t.Errorf("expected ReadTimeoutSec=10, got %d", cfg.HTTP.ReadTimeoutSec)
	}
	if cfg.HTTP.WriteTimeoutSec != 120 {
		t.Errorf("expected WriteTimeoutSec=120, got %d", cfg.HTTP.WriteTimeoutSec)
	}
	if cfg.LLM.Temperature != 0.1 {
		t.Errorf("expected Temperature=0.1, got %v", cfg.LLM.Temperature)
	}
	if cfg.LLM.MaxTokens != 8192 {
		t.Errorf("expected MaxTokens=8192, got %d", cfg.LLM.MaxTokens)
	}
	if cfg.Index.Driver != "http" {
		t.Errorf("expected Driver='http', got %q", cfg.Index.Driver)
	}
	if cfg.Index.TimeoutSec != 30 {
		t.Errorf("expected TimeoutSec=30, got %d", cfg.Index.TimeoutSec)
	}
	if cfg.Cache.KeyPrefix != "bughunter:" {
		t.Errorf("expected KeyPrefix='bughunter:', got %q", cfg.Cache.KeyPrefix)
	}
	if cfg.Retrieval.Language != "C++" {
		t.Errorf("expected Language='C++', got %q", cfg.Retrieval.Language)
	}
	if cfg.Retrieval.MaxQueries != 5 {
		t.Errorf("expected MaxQueries=5, got %d", cfg.Retrieval.MaxQueries)
	}
	if cfg.Retrieval.MaxBugs != 3 {
		t.Errorf("expected MaxBugs=3, got %d", cfg.Retrieval.MaxBugs)
	}
	if cfg.Retrieval.DescriptionLimit != 100 {
		t.Errorf("expected DescriptionLimit=100, got %d", cfg.Retrieval.DescriptionLimit)
	}
	if cfg.Retrieval.KeywordCodeLimit != 500 {
		t.Errorf("expected KeywordCodeLimit=500, got %d", cfg.Retrieval.KeywordCodeLimit)
	}
	if cfg.Retrieval.MaxDocuments != 5 {
		t.Errorf("expected MaxDocuments=5, got %d", cfg.Retrieval.MaxDocuments)
	}
	if cfg.Retrieval.SynthesisDocuments != 3 {
		t.Errorf("expected SynthesisDocuments=3, got %d", cfg.Retrieval.SynthesisDocuments)
	}
	if cfg.Retrieval.SynthesisChars != 300 {
		t.Errorf("expected SynthesisChars=300, got %d", cfg.Retrieval.SynthesisChars)
	}
	if cfg.Retrieval.SearchConcurrency != 1 {
		t.Errorf("expected SearchConcurrency=1, got %d", cfg.Retrieval.SearchConcurrency)
	}
}

func TestApplyDefaults_NoOverride(t *testing.T) {
	cfg := Config{
		HTTP: HTTPConfig{ReadTimeoutSec: 30, WriteTimeoutSec: 60, ShutdownSec: 5},
		LLM:  LLMConfig{Temperature: 0.7, MaxTokens: 1024},
		Retrieval: RetrievalConfig{
			Language: "Rust", MaxQueries: 7, SynthesisChars: 400, SearchConcurrency: 4,
		},
	}
	cfg.ApplyDefaults()

	if cfg.HTTP.ReadTimeoutSec != 30 {
		t.Errorf("expected ReadTimeoutSec=30, got %d", cfg.HTTP.ReadTimeoutSec)
	}
	if cfg.HTTP.WriteTimeoutSec != 60 {
		t.Errorf("expected WriteTimeoutSec=60, got %d", cfg.HTTP.WriteTimeoutSec)
	}
	if cfg.LLM.Temperature != 0.7 {
		t.Errorf("expected Temperature=0.7, got %v", cfg.LLM.Temperature)
	}
	if cfg.Retrieval.Language != "Rust" {
		t.Errorf("expected Language='Rust', got %q", cfg.Retrieval.Language)
	}
	if cfg.Retrieval.MaxQueries != 7 {
		t.Errorf("expected MaxQueries=7, got %d", cfg.Retrieval.MaxQueries)
	}
	if cfg.Retrieval.SynthesisChars != 400 {
		t.Errorf("expected SynthesisChars=400, got %d", cfg.Retrieval.SynthesisChars)
	}
	if cfg.Retrieval.SearchConcurrency != 4 {
		t.Errorf("expected SearchConcurrency=4, got %d", cfg.Retrieval.SearchConcurrency)
	}
}

func TestLoad_ExpandsEnvVars(t *testing.T) {
	dir := t.TempDir()
	content := `
http:
  port: 8080
llm:
  api_key: ${BUGHUNTER_TEST_KEY}
  model: ${BUGHUNTER_TEST_MODEL:-gpt-4o-mini}
index:
  driver: bleve
`
	if err := os.MkdirAll(filepath.Join(dir, "config"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "config", "test.yaml"), []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	t.Setenv("BUGHUNTER_TEST_KEY", "secret-value")

	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	defer func() { _ = os.Chdir(wd) }()

	cfg, err := Load("test")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.LLM.APIKey != "secret-value" {
		t.Errorf("expected api key from env, got %q", cfg.LLM.APIKey)
	}
	if cfg.LLM.Model != "gpt-4o-mini" {
		t.Errorf("expected default model, got %q", cfg.LLM.Model)
	}
}
