package timeline

import "errors"

var (
	// ErrNoRootComposition is returned when the composition description
	// has no root element to resolve from.
	ErrNoRootComposition = errors.New("no root composition found")

	// ErrInvalidConfiguration is wrapped by all configuration validation
	// failures.
	ErrInvalidConfiguration = errors.New("invalid render configuration")
)
