package contracts

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidInput marks client errors at the transport boundary
	ErrInvalidInput = errors.New("invalid input")
	// ErrInvalidDocument marks a top-level document that is not a mapping
	ErrInvalidDocument = errors.New("invalid document")
)

// WrapError keeps the error kind visible to errors.Is while adding operation context
func WrapError(kind error, operation string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w: %w", operation, kind, err)
}

// IsKind reports whether err carries the given kind
func IsKind(err error, kind error) bool {
	return errors.Is(err, kind)
}
