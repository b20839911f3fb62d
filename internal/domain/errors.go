package domain

import "errors"

var (
	// ErrGenerationProviderError signals a text generation provider failure.
	ErrGenerationProviderError = errors.New("generation provider error")
	// ErrGenerationQuotaExceeded signals an exhausted generation token budget.
	ErrGenerationQuotaExceeded = errors.New("generation quota exceeded")
	// ErrRateLimited signals a rate limit hit.
	ErrRateLimited = errors.New("rate limited")
	// ErrEmptyCompletion signals a completion with no usable content.
	ErrEmptyCompletion = errors.New("empty completion")
	// ErrIndexUnavailable signals that the document index cannot be reached.
	ErrIndexUnavailable = errors.New("document index unavailable")
	// ErrInvalidArgument signals a malformed caller request.
	ErrInvalidArgument = errors.New("invalid argument")
)
