package domain

import "context"

type generationUsageKey struct{}

// GenerationUsage collects model token usage for a single HTTP request.
// The handler puts a mutable pointer into the context before calling the
// service; the service adds to it after each completion; the handler reads
// it back for response headers.
type GenerationUsage struct {
	TotalTokens int
	Calls       int
}

// NewContextWithUsage returns a context with an embedded usage collector.
func NewContextWithUsage(ctx context.Context) (context.Context, *GenerationUsage) {
	u := &GenerationUsage{}
	return context.WithValue(ctx, generationUsageKey{}, u), u
}

// UsageFromContext extracts the usage collector from context. Returns nil if not set.
func UsageFromContext(ctx context.Context) *GenerationUsage {
	u, _ := ctx.Value(generationUsageKey{}).(*GenerationUsage)
	return u
}

// AddTokens records consumed tokens for one completion call.
func (u *GenerationUsage) AddTokens(n int) {
	if u != nil {
		u.TotalTokens += n
		u.Calls++
	}
}
