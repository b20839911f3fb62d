package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/Amishaj13/bug-hunter/internal/config"
	"github.com/Amishaj13/bug-hunter/internal/db"
	dbRedis "github.com/Amishaj13/bug-hunter/internal/db/redis"
	"github.com/Amishaj13/bug-hunter/internal/domain"
	logpkg "github.com/Amishaj13/bug-hunter/internal/logger"
	"github.com/Amishaj13/bug-hunter/internal/metrics"
	"github.com/Amishaj13/bug-hunter/internal/repository/bleveindex"
	budgetrepo "github.com/Amishaj13/bug-hunter/internal/repository/budget"
	"github.com/Amishaj13/bug-hunter/internal/repository/httpindex"
	"github.com/Amishaj13/bug-hunter/internal/repository/mcpindex"
	"github.com/Amishaj13/bug-hunter/internal/repository/searchcache"
	chiTransport "github.com/Amishaj13/bug-hunter/internal/transport/chi"
	openaiGen "github.com/Amishaj13/bug-hunter/internal/transport/openai"
	"github.com/Amishaj13/bug-hunter/internal/version"

	analysisuc "github.com/Amishaj13/bug-hunter/internal/usecase/analysis"
	generationuc "github.com/Amishaj13/bug-hunter/internal/usecase/generation"
	healthuc "github.com/Amishaj13/bug-hunter/internal/usecase/health"
	retrievaluc "github.com/Amishaj13/bug-hunter/internal/usecase/retrieval"
	usageuc "github.com/Amishaj13/bug-hunter/internal/usecase/usage"
)

const llmProvider = "openai"

func main() {
	// Load configuration based on ENV
	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting bughunter API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("index_driver", cfg.Index.Driver),
		zap.String("llm_model", cfg.LLM.Model),
	)

	domain.KeyPrefix = cfg.Cache.KeyPrefix

	// Register Prometheus metrics explicitly (no init())
	metrics.RegisterGenerationMetrics()
	metrics.RegisterRetrievalMetrics()

	ctx := context.Background()

	// Optional cache store for search results and budget counters
	var store db.Store
	if cfg.Cache.Enabled {
		store, err = dbRedis.NewStore(dbRedis.Config{
			Addrs:    cfg.Cache.Addrs,
			Password: cfg.Cache.Password,
		})
		if err != nil {
			logger.Fatal("Failed to create cache store", zap.Error(err))
		}
		defer store.Close()

		readiness := time.Duration(cfg.Cache.ReadinessTimeout) * time.Second
		if err := store.WaitForReady(ctx, readiness); err != nil {
			logger.Fatal("Cache store not ready", zap.Error(err))
		}
		logger.Info("Connected to cache store", zap.Strings("addrs", cfg.Cache.Addrs))
	}

	// Single BudgetTracker shared across both generators and the usage service.
	var budget *generationuc.BudgetTracker
	budgetCfg := cfg.LLM.Budget
	if budgetCfg.DailyTokenLimit > 0 || budgetCfg.MonthlyTokenLimit > 0 {
		action := generationuc.BudgetActionWarn
		if budgetCfg.Action == "reject" {
			action = generationuc.BudgetActionReject
		}
		budget = generationuc.NewBudgetTracker(
			llmProvider, budgetCfg.DailyTokenLimit, budgetCfg.MonthlyTokenLimit, action, logger,
		)
		// Connect persistence store — loads current counters from the KV store.
		if store != nil {
			budgetStore := budgetrepo.New(store, 48*time.Hour, 62*24*time.Hour)
			budget.WithStore(ctx, budgetStore)
		}
	}

	// Pass nil interface (not typed nil pointer!) if budget is not configured.
	// Go gotcha: (*BudgetTracker)(nil) wrapped in BudgetChecker != nil.
	var budgetChecker generationuc.BudgetChecker
	if budget != nil {
		budgetChecker = budget
	}

	// Two generator chains with distinct personas: one for the retrieval
	// planner, one for structural code analysis.
	queryGen, queryBase := buildGenerator(cfg.LLM, retrievaluc.SystemPrompt, budgetChecker, logger)
	analysisGen, _ := buildGenerator(cfg.LLM, analysisuc.SystemPrompt, budgetChecker, logger)
	logger.Info("Generators created",
		zap.String("provider", llmProvider),
		zap.String("model", cfg.LLM.Model),
	)

	// Documentation index driver
	searcher, indexChecker, indexClose := buildSearcher(cfg.Index, logger)
	defer indexClose()

	if store != nil {
		ttl := time.Duration(cfg.Cache.TTLSec) * time.Second
		searcher = searchcache.New(searcher, store, ttl, metrics.SearchCacheTotal, logger)
	}
	searcher = retrievaluc.NewInstrumentedSearcher(searcher, cfg.Index.Driver, logger)

	rcfg := retrievaluc.Config{
		Language:           cfg.Retrieval.Language,
		MaxQueries:         cfg.Retrieval.MaxQueries,
		MaxBugs:            cfg.Retrieval.MaxBugs,
		DescriptionLimit:   cfg.Retrieval.DescriptionLimit,
		KeywordCodeLimit:   cfg.Retrieval.KeywordCodeLimit,
		MaxDocuments:       cfg.Retrieval.MaxDocuments,
		SynthesisDocuments: cfg.Retrieval.SynthesisDocuments,
		SynthesisChars:     cfg.Retrieval.SynthesisChars,
		SearchConcurrency:  cfg.Retrieval.SearchConcurrency,
	}

	planner := retrievaluc.NewPlanner(queryGen, rcfg, logger)
	retrievalSvc := retrievaluc.New(planner, searcher, rcfg, logger)
	analysisSvc := analysisuc.New(analysisGen, logger)

	// Usage service — reads from the shared BudgetTracker
	var budgetReader usageuc.BudgetReader
	if budget != nil {
		budgetReader = budget
	}
	usageSvc := usageuc.New(budgetReader, cfg.LLM.Model, budgetCfg.Action)

	// Health service; the cache pinger is absent when the cache is disabled
	var cachePinger healthuc.CachePinger
	if store != nil {
		cachePinger = store
	}
	healthSvc := healthuc.New(cachePinger, queryBase, indexChecker)

	// HTTP API
	server := chiTransport.NewServer(retrievalSvc, analysisSvc, usageSvc, healthSvc, logger)

	r := chi.NewRouter()
	r.Use(jsonRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(logger))
	r.Use(chiTransport.BearerAuthMiddleware(cfg.Auth.APIKeys))
	r.Use(metrics.Middleware())
	server.Register(r)

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
}

// buildGenerator assembles the decorator chain: OpenAI -> Instrumented.
// The base transport generator is returned alongside for health checks.
func buildGenerator(
	llmCfg config.LLMConfig,
	systemPrompt string,
	budget generationuc.BudgetChecker,
	logger *zap.Logger,
) (domain.Generator, *openaiGen.Generator) {
	base := openaiGen.NewGenerator(&openaiGen.Config{
		APIKey:       llmCfg.APIKey,
		BaseURL:      llmCfg.BaseURL,
		Model:        llmCfg.Model,
		SystemPrompt: systemPrompt,
		Temperature:  llmCfg.Temperature,
		MaxTokens:    llmCfg.MaxTokens,
		Provider:     llmProvider,
		Logger:       logger,
	})

	return generationuc.NewInstrumentedGenerator(base, llmProvider, llmCfg.Model, budget, logger), base
}

// buildSearcher creates the configured documentation index driver. The
// returned close func is a no-op for drivers without resources to release.
func buildSearcher(
	indexCfg config.IndexConfig,
	logger *zap.Logger,
) (retrievaluc.Searcher, healthuc.IndexChecker, func()) {
	switch indexCfg.Driver {
	case "http":
		c := httpindex.New(&httpindex.Config{
			BaseURL: indexCfg.URL,
			APIKey:  indexCfg.APIKey,
			Limit:   indexCfg.TopK,
			Timeout: time.Duration(indexCfg.TimeoutSec) * time.Second,
			Logger:  logger,
		})
		return c, c, func() {}
	case "mcp":
		c := mcpindex.New(&mcpindex.Config{
			URL:     indexCfg.URL,
			Timeout: time.Duration(indexCfg.TimeoutSec) * time.Second,
			Logger:  logger,
		})
		return c, c, func() { _ = c.Close() }
	case "bleve":
		idx, err := bleveindex.New(&bleveindex.Config{
			Path:       indexCfg.Path,
			CorpusPath: indexCfg.CorpusPath,
			Limit:      indexCfg.TopK,
			Logger:     logger,
		})
		if err != nil {
			logger.Fatal("Failed to open local index", zap.Error(err))
		}
		return idx, idx, func() { _ = idx.Close() }
	default:
		// config.Validate rejects unknown drivers before this point
		logger.Fatal("Unknown index driver", zap.String("driver", indexCfg.Driver))
		return nil, nil, nil
	}
}

// jsonRecoverer is a recovery middleware that returns JSON instead of a plain text stacktrace.
func jsonRecoverer(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rvr := recover(); rvr != nil {
					logger.Error("panic recovered",
						zap.Any("panic", rvr),
						zap.Stack("stacktrace"),
					)
					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					_ = json.NewEncoder(w).Encode(map[string]string{
						"code":    "internal_error",
						"message": "internal error",
					})
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// wideEventMiddleware emits a canonical log line per request and propagates X-Request-ID.
func wideEventMiddleware(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			// chi.middleware.RequestID already placed request_id in context
			requestID := chiMiddleware.GetReqID(r.Context())

			// Set X-Request-ID in response header
			if requestID != "" {
				w.Header().Set("X-Request-ID", requestID)
			}

			// Per-request logger with request_id
			reqLogger := logger.With(zap.String("request_id", requestID))
			ctx := logpkg.ContextWithLogger(r.Context(), reqLogger)

			ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(ctx))

			// Canonical log line — one line per request
			reqLogger.Info("http_request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Duration("latency", time.Since(start)),
				zap.String("ip", r.RemoteAddr),
				zap.Int64("content_length", r.ContentLength),
				zap.String("user_agent", r.UserAgent()),
				zap.Int("response_bytes", ww.BytesWritten()),
			)
		})
	}
}
