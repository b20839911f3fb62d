package metrics

// Metrics holds generation API usage for a time period.
type Metrics struct {
	completionRequests int
	tokens             int
}

// New creates a Metrics snapshot.
func New(requests, tokens int) Metrics {
	return Metrics{completionRequests: requests, tokens: tokens}
}

// CompletionRequests returns the number of completion API calls.
// Counted in-process only, so the number restarts with the service.
func (m Metrics) CompletionRequests() int { return m.completionRequests }

// Tokens returns the total tokens consumed.
func (m Metrics) Tokens() int { return m.tokens }
