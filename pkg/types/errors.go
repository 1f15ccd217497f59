package types

import "errors"

// Domain errors for type validation
var (
	// Search result errors
	ErrEmptyQuery       = errors.New("query cannot be empty")
	ErrMissingFilePath  = errors.New("file path is required")
	ErrInvalidLineRange = errors.New("start line must be before or equal to end line")
	ErrNegativeLine     = errors.New("line numbers must not be negative")
)
