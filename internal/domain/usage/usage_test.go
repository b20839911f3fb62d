package usage

import (
	"testing"

	"github.com/Amishaj13/bug-hunter/internal/domain/usage/budget"
	"github.com/Amishaj13/bug-hunter/internal/domain/usage/metrics"
)

func TestNewReport(t *testing.T) {
	m := metrics.New(42, 384200)
	b := budget.New(1000000, 615800, false, "warn", 1700000000000)

	r := NewReport(PeriodMonth, 1700000000, 1702600000, "gemini-2.0-flash-exp", m, b)

	if r.Period() != PeriodMonth {
		t.Errorf("Period() = %q", r.Period())
	}
	if r.PeriodStart() != 1700000000 {
		t.Errorf("PeriodStart() = %d", r.PeriodStart())
	}
	if r.PeriodEnd() != 1702600000 {
		t.Errorf("PeriodEnd() = %d", r.PeriodEnd())
	}
	if r.Model() != "gemini-2.0-flash-exp" {
		t.Errorf("Model() = %q", r.Model())
	}
	if r.Metrics().CompletionRequests() != 42 {
		t.Errorf("Metrics().CompletionRequests() = %d", r.Metrics().CompletionRequests())
	}
	if r.Budget().TokensLimit() != 1000000 {
		t.Errorf("Budget().TokensLimit() = %d", r.Budget().TokensLimit())
	}
}

func TestParsePeriod(t *testing.T) {
	tests := []struct {
		in   string
		want Period
	}{
		{"day", PeriodDay},
		{"month", PeriodMonth},
		{"total", PeriodTotal},
		{"", PeriodTotal},
		{"week", PeriodTotal},
	}
	for _, tt := range tests {
		if got := ParsePeriod(tt.in); got != tt.want {
			t.Errorf("ParsePeriod(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
