package health

import "context"

// Status represents the aggregated health status.
type Status string

const (
	// Healthy indicates all components are operational.
	Healthy Status = "ok"
	// Degraded indicates partial failure.
	Degraded Status = "degraded"
	// Unhealthy indicates total failure.
	Unhealthy Status = "error"
)

// CheckResult represents an individual component health check outcome.
type CheckResult string

const (
	// CheckOK indicates a passing health check.
	CheckOK CheckResult = "ok"
	// CheckError indicates a failing health check.
	CheckError CheckResult = "error"
)

// Report aggregates health check results.
type Report struct {
	Status Status
	Checks map[string]CheckResult
}

// Service coordinates health checks. Every component is optional; a nil
// component is simply absent from the report.
type Service struct {
	cache      CachePinger
	generation GenerationChecker
	index      IndexChecker
}

// New creates a Service.
func New(cache CachePinger, generation GenerationChecker, index IndexChecker) *Service {
	return &Service{cache: cache, generation: generation, index: index}
}

// Check runs health checks against all configured components.
func (s *Service) Check(ctx context.Context) Report {
	checks := make(map[string]CheckResult)

	if s.cache != nil {
		checks["cache"] = resultOf(s.cache.Ping(ctx))
	}
	if s.generation != nil {
		checks["generation"] = resultOf(s.generation.HealthCheck(ctx))
	}
	if s.index != nil {
		checks["index"] = resultOf(s.index.HealthCheck(ctx))
	}

	status := Healthy
	for _, v := range checks {
		if v == CheckError {
			status = Degraded
			break
		}
	}

	return Report{Status: status, Checks: checks}
}

func resultOf(err error) CheckResult {
	if err != nil {
		return CheckError
	}
	return CheckOK
}
