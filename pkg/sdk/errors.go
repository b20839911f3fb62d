package bughunter

import "github.com/Amishaj13/bug-hunter/internal/domain"

// Sentinel errors re-exported from the domain layer.
// Use errors.Is() to check.
var (
	ErrGenerationProviderError = domain.ErrGenerationProviderError
	ErrGenerationQuotaExceeded = domain.ErrGenerationQuotaExceeded
	ErrRateLimited             = domain.ErrRateLimited
	ErrEmptyCompletion         = domain.ErrEmptyCompletion
	ErrIndexUnavailable        = domain.ErrIndexUnavailable
	ErrInvalidArgument         = domain.ErrInvalidArgument
)
