package usage

import (
	"github.com/Amishaj13/bug-hunter/internal/domain/usage/budget"
	"github.com/Amishaj13/bug-hunter/internal/domain/usage/metrics"
)

// Period is the aggregation granularity.
type Period string

// Aggregation period constants.
const (
	PeriodDay   Period = "day"
	PeriodMonth Period = "month"
	PeriodTotal Period = "total"
)

// ParsePeriod maps a query-string value to a Period. Empty and unknown
// values fall back to PeriodTotal.
func ParsePeriod(s string) Period {
	switch Period(s) {
	case PeriodDay:
		return PeriodDay
	case PeriodMonth:
		return PeriodMonth
	default:
		return PeriodTotal
	}
}

// Report is a generation API usage report for a time period.
type Report struct {
	period      Period
	periodStart int64
	periodEnd   int64
	model       string
	metrics     metrics.Metrics
	budget      budget.Budget
}

// NewReport creates a usage report.
func NewReport(period Period, start, end int64, model string, m metrics.Metrics, b budget.Budget) Report {
	return Report{
		period:      period,
		periodStart: start,
		periodEnd:   end,
		model:       model,
		metrics:     m,
		budget:      b,
	}
}

// Period returns the aggregation granularity.
func (r *Report) Period() Period { return r.period }

// PeriodStart returns the period start timestamp (unix millis).
func (r *Report) PeriodStart() int64 { return r.periodStart }

// PeriodEnd returns the period end timestamp (unix millis).
func (r *Report) PeriodEnd() int64 { return r.periodEnd }

// Model returns the generation model the report covers.
func (r *Report) Model() string { return r.model }

// Metrics returns the usage metrics.
func (r *Report) Metrics() metrics.Metrics { return r.metrics }

// Budget returns the budget status.
func (r *Report) Budget() budget.Budget { return r.budget }
