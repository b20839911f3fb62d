package usage

import (
	"context"
	"time"

	domusage "github.com/Amishaj13/bug-hunter/internal/domain/usage"
	"github.com/Amishaj13/bug-hunter/internal/domain/usage/budget"
	"github.com/Amishaj13/bug-hunter/internal/domain/usage/metrics"
)

// Service handles usage reporting.
type Service struct {
	br     BudgetReader
	model  string
	action string
}

// New creates a Service. br can be nil (unlimited mode). model and action
// come from configuration and are echoed in every report.
func New(br BudgetReader, model, action string) *Service {
	return &Service{br: br, model: model, action: action}
}

// GetReport builds a usage report for the given period.
func (s *Service) GetReport(_ context.Context, period domusage.Period) domusage.Report {
	now := time.Now().UTC()
	var start, end int64
	var limit, used, remaining, requests int64

	switch period {
	case domusage.PeriodDay:
		dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
		dayEnd := dayStart.Add(24 * time.Hour)
		start = dayStart.UnixMilli()
		end = dayEnd.UnixMilli()
		if s.br != nil {
			limit = s.br.DailyLimit()
			used = s.br.DailyUsed()
			remaining = s.br.RemainingDaily()
			requests = s.br.DailyRequests()
		}
	case domusage.PeriodMonth:
		monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
		monthEnd := monthStart.AddDate(0, 1, 0)
		start = monthStart.UnixMilli()
		end = monthEnd.UnixMilli()
		if s.br != nil {
			limit = s.br.MonthlyLimit()
			used = s.br.MonthlyUsed()
			remaining = s.br.RemainingMonthly()
			requests = s.br.MonthlyRequests()
		}
	default:
		// total -- monthly counters are the widest window tracked
		if s.br != nil {
			limit = s.br.MonthlyLimit()
			used = s.br.MonthlyUsed()
			remaining = s.br.RemainingMonthly()
			requests = s.br.MonthlyRequests()
		}
	}

	exhausted := limit > 0 && remaining <= 0
	resetsAt := end

	b := budget.New(int(limit), int(remaining), exhausted, s.action, resetsAt)
	m := metrics.New(int(requests), int(used))

	return domusage.NewReport(period, start, end, s.model, m, b)
}
