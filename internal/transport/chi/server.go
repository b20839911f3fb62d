package chi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/Amishaj13/bug-hunter/internal/domain"
	domusage "github.com/Amishaj13/bug-hunter/internal/domain/usage"
	healthuc "github.com/Amishaj13/bug-hunter/internal/usecase/health"
	usageuc "github.com/Amishaj13/bug-hunter/internal/usecase/usage"
)

// errorCode identifies a machine-readable error class in the response envelope.
type errorCode string

const (
	codeBadRequest              errorCode = "bad_request"
	codeUnauthorized            errorCode = "unauthorized"
	codeValidationFailed        errorCode = "validation_failed"
	codeRateLimited             errorCode = "rate_limited"
	codeGenerationQuotaExceeded errorCode = "generation_quota_exceeded"
	codeGenerationProviderError errorCode = "generation_provider_error"
	codeInternalError           errorCode = "internal_error"
)

type errorResponse struct {
	Code    errorCode `json:"code"`
	Message string    `json:"message"`
}

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Retriever runs the documentation retrieval pipeline.
type Retriever interface {
	Retrieve(ctx context.Context, code string, report domain.BugReport) domain.RetrievalResult
}

// Analyzer runs model-backed code analysis.
type Analyzer interface {
	Analyze(ctx context.Context, code, codeContext string) (domain.CodeAnalysis, error)
	IdentifyPatterns(ctx context.Context, code string) domain.PatternReport
}

// Server is the HTTP API for the retrieval and analysis services.
type Server struct {
	retrieval     Retriever
	analysis      Analyzer
	usage         *usageuc.Service
	health        *healthuc.Service
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(
	retrieval Retriever,
	analysis Analyzer,
	usage *usageuc.Service,
	health *healthuc.Service,
	logger *zap.Logger,
) *Server {
	s := &Server{
		retrieval: retrieval,
		analysis:  analysis,
		usage:     usage,
		health:    health,
		logger:    logger,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrInvalidArgument, http.StatusBadRequest, codeValidationFailed),
		sentinelHandler(domain.ErrRateLimited, http.StatusTooManyRequests, codeRateLimited),
		sentinelHandler(domain.ErrGenerationQuotaExceeded, http.StatusPaymentRequired, codeGenerationQuotaExceeded),
		sentinelHandler(domain.ErrGenerationProviderError, http.StatusBadGateway, codeGenerationProviderError),
	}
	return s
}

// Register mounts all API routes on the router.
func (s *Server) Register(r chi.Router) {
	r.Post("/v1/retrieve", s.RetrieveContext)
	r.Post("/v1/analyze", s.AnalyzeCode)
	r.Post("/v1/patterns", s.IdentifyPatterns)
	r.Get("/v1/usage", s.GetUsage)
	r.Get("/health", s.HealthCheck)
	r.Get("/metrics", s.Metrics)
}

type bugItem struct {
	BugType     string `json:"bug_type"`
	Description string `json:"description"`
}

type retrieveRequest struct {
	Code      string    `json:"code"`
	BugsFound []bugItem `json:"bugs_found"`
}

type scoredDocumentItem struct {
	Text   string  `json:"text"`
	Score  float64 `json:"score"`
	Source string  `json:"source,omitempty"`
}

type retrieveResponse struct {
	SelectedDocuments   []scoredDocumentItem `json:"selected_documents"`
	SynthesizedContext  string               `json:"synthesized_context"`
	TotalDocumentsFound int                  `json:"total_documents_found"`
}

// RetrieveContext handles POST /v1/retrieve.
func (s *Server) RetrieveContext(w http.ResponseWriter, r *http.Request) {
	var req retrieveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if req.Code == "" {
		writeError(w, http.StatusBadRequest, codeValidationFailed, "code is required")
		return
	}

	report := domain.BugReport{BugsFound: make([]domain.Bug, len(req.BugsFound))}
	for i, b := range req.BugsFound {
		report.BugsFound[i] = domain.Bug{BugType: b.BugType, Description: b.Description}
	}

	ctx, usage := domain.NewContextWithUsage(r.Context())
	result := s.retrieval.Retrieve(ctx, req.Code, report)

	docs := make([]scoredDocumentItem, len(result.SelectedDocuments()))
	for i, d := range result.SelectedDocuments() {
		docs[i] = scoredDocumentItem{Text: d.Text(), Score: d.Score(), Source: d.Source()}
	}

	setGenerationHeaders(w, usage)
	writeJSON(w, http.StatusOK, retrieveResponse{
		SelectedDocuments:   docs,
		SynthesizedContext:  result.SynthesizedContext(),
		TotalDocumentsFound: result.TotalFound(),
	})
}

type analyzeRequest struct {
	Code    string `json:"code"`
	Context string `json:"context"`
}

type analyzeResponse struct {
	Functions       []string `json:"functions"`
	Variables       []string `json:"variables"`
	LineCount       int      `json:"line_count"`
	Complexity      string   `json:"complexity"`
	PotentialIssues []string `json:"potential_issues"`
	CodeSummary     string   `json:"code_summary"`
}

// AnalyzeCode handles POST /v1/analyze.
func (s *Server) AnalyzeCode(w http.ResponseWriter, r *http.Request) {
	var req analyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if req.Code == "" {
		writeError(w, http.StatusBadRequest, codeValidationFailed, "code is required")
		return
	}

	ctx, usage := domain.NewContextWithUsage(r.Context())
	analysis, err := s.analysis.Analyze(ctx, req.Code, req.Context)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	setGenerationHeaders(w, usage)
	writeJSON(w, http.StatusOK, analyzeResponse{
		Functions:       emptyIfNil(analysis.Functions()),
		Variables:       emptyIfNil(analysis.Variables()),
		LineCount:       analysis.LineCount(),
		Complexity:      string(analysis.Complexity()),
		PotentialIssues: emptyIfNil(analysis.PotentialIssues()),
		CodeSummary:     analysis.Summary(),
	})
}

type patternsRequest struct {
	Code string `json:"code"`
}

type patternsResponse struct {
	PatternsAnalysis string `json:"patterns_analysis"`
}

// IdentifyPatterns handles POST /v1/patterns.
func (s *Server) IdentifyPatterns(w http.ResponseWriter, r *http.Request) {
	var req patternsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if req.Code == "" {
		writeError(w, http.StatusBadRequest, codeValidationFailed, "code is required")
		return
	}

	ctx, usage := domain.NewContextWithUsage(r.Context())
	report := s.analysis.IdentifyPatterns(ctx, req.Code)

	setGenerationHeaders(w, usage)
	writeJSON(w, http.StatusOK, patternsResponse{PatternsAnalysis: report.Analysis()})
}

type usageMetricsBody struct {
	CompletionRequests int `json:"completion_requests"`
	Tokens             int `json:"tokens"`
}

type budgetStatusBody struct {
	TokensLimit     int        `json:"tokens_limit"`
	TokensRemaining int        `json:"tokens_remaining"`
	IsExhausted     bool       `json:"is_exhausted"`
	Action          string     `json:"action,omitempty"`
	ResetsAt        *time.Time `json:"resets_at,omitempty"`
}

type usageResponse struct {
	Period        string           `json:"period"`
	PeriodStartAt *time.Time       `json:"period_start_at,omitempty"`
	PeriodEndAt   *time.Time       `json:"period_end_at,omitempty"`
	Model         string           `json:"model,omitempty"`
	Usage         usageMetricsBody `json:"usage"`
	Budget        budgetStatusBody `json:"budget"`
}

// GetUsage handles GET /v1/usage.
func (s *Server) GetUsage(w http.ResponseWriter, r *http.Request) {
	period := domusage.ParsePeriod(r.URL.Query().Get("period"))

	report := s.usage.GetReport(r.Context(), period)

	resp := usageResponse{
		Period: string(report.Period()),
		Model:  report.Model(),
		Usage: usageMetricsBody{
			CompletionRequests: report.Metrics().CompletionRequests(),
			Tokens:             report.Metrics().Tokens(),
		},
		Budget: budgetStatusBody{
			TokensLimit:     report.Budget().TokensLimit(),
			TokensRemaining: report.Budget().TokensRemaining(),
			IsExhausted:     report.Budget().IsExhausted(),
			Action:          report.Budget().Action(),
		},
	}

	if report.PeriodStart() > 0 {
		start := time.UnixMilli(report.PeriodStart()).UTC()
		end := time.UnixMilli(report.PeriodEnd()).UTC()
		resp.PeriodStartAt = &start
		resp.PeriodEndAt = &end
	}
	if report.Budget().ResetsAt() > 0 {
		resetsAt := time.UnixMilli(report.Budget().ResetsAt()).UTC()
		resp.Budget.ResetsAt = &resetsAt
	}

	writeJSON(w, http.StatusOK, resp)
}

type healthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, healthResponse{
		Status: string(report.Status),
		Checks: checks,
	})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

func setGenerationHeaders(w http.ResponseWriter, usage *domain.GenerationUsage) {
	if usage != nil && usage.Calls > 0 {
		w.Header().Set("X-Generation-Tokens", strconv.Itoa(usage.TotalTokens))
		w.Header().Set("X-Generation-Calls", strconv.Itoa(usage.Calls))
	}
}

// emptyIfNil keeps list fields as [] in JSON instead of null.
func emptyIfNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code errorCode, message string) {
	writeJSON(w, status, errorResponse{
		Code:    code,
		Message: message,
	})
}

// safeDomainMessage returns a sentinel error message for the client without exposing internals.
func safeDomainMessage(err error) string {
	sentinels := []error{
		domain.ErrInvalidArgument,
		domain.ErrRateLimited,
		domain.ErrGenerationQuotaExceeded,
		domain.ErrGenerationProviderError,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code errorCode) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	s.logger.Warn("domain error", zap.Error(err))
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	s.logger.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
}
