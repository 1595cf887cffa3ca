package domain

import "errors"

var (
	// ErrQuotaExceeded signals a completion provider rate or billing limit.
	// The only extraction failure class, together with ErrInvalidCredential,
	// that crosses the pipeline boundary instead of degrading to empty results.
	ErrQuotaExceeded = errors.New("completion quota exceeded")
	// ErrInvalidCredential signals a rejected completion provider API key.
	ErrInvalidCredential = errors.New("invalid completion credential")
	// ErrPipelineTimeout signals that the pipeline-level deadline elapsed.
	ErrPipelineTimeout = errors.New("pipeline deadline exceeded")
)
