package health

import "context"

// CachePinger checks cache store availability.
type CachePinger interface {
	Ping(ctx context.Context) error
}

// GenerationChecker checks completion provider availability.
type GenerationChecker interface {
	HealthCheck(ctx context.Context) error
}

// IndexChecker checks documentation index availability.
type IndexChecker interface {
	HealthCheck(ctx context.Context) error
}
