package domain

import "errors"

// Error kinds. Wrap them with fmt.Errorf("...: %w", Err...) and classify with errors.Is.
var (
	// ErrInvalidInput marks missing or malformed caller parameters. Never retried.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUpstreamUnavailable marks a failing summarizer or article store collaborator.
	ErrUpstreamUnavailable = errors.New("upstream unavailable")

	// ErrNotFound marks an unknown user profile.
	ErrNotFound = errors.New("not found")
)
