package bughunter

import (
	"context"
	"time"

	domusage "github.com/Amishaj13/bug-hunter/internal/domain/usage"
)

// UsagePeriod is the aggregation granularity for usage reports.
type UsagePeriod string

// UsagePeriod constants.
const (
	PeriodDay   UsagePeriod = "day"
	PeriodMonth UsagePeriod = "month"
	PeriodTotal UsagePeriod = "total"
)

// UsageReport contains completion usage statistics for a time period.
type UsageReport struct {
	Period      UsagePeriod
	PeriodStart time.Time
	PeriodEnd   time.Time
	Model       string
	Metrics     UsageMetrics
	Budget      BudgetStatus
}

// UsageMetrics tracks completion resource consumption.
type UsageMetrics struct {
	CompletionRequests int
	Tokens             int
}

// BudgetStatus tracks token quota state.
type BudgetStatus struct {
	TokensLimit     int
	TokensRemaining int
	IsExhausted     bool
	Action          string
	ResetsAt        time.Time
}

// Usage returns a completion usage report for the given period.
// Observer always records success — the underlying use-case is in-memory
// and does not produce errors.
func (c *Client) Usage(ctx context.Context, period UsagePeriod) UsageReport {
	start := time.Now()
	defer func() { c.obs.observe("usage", start, nil) }()

	report := c.usageSvc.GetReport(ctx, domusage.Period(period))
	m := report.Metrics()
	b := report.Budget()

	return UsageReport{
		Period:      UsagePeriod(report.Period()),
		PeriodStart: time.UnixMilli(report.PeriodStart()).UTC(),
		PeriodEnd:   time.UnixMilli(report.PeriodEnd()).UTC(),
		Model:       report.Model(),
		Metrics: UsageMetrics{
			CompletionRequests: m.CompletionRequests(),
			Tokens:             m.Tokens(),
		},
		Budget: BudgetStatus{
			TokensLimit:     b.TokensLimit(),
			TokensRemaining: b.TokensRemaining(),
			IsExhausted:     b.IsExhausted(),
			Action:          b.Action(),
			ResetsAt:        time.UnixMilli(b.ResetsAt()).UTC(),
		},
	}
}
