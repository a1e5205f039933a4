package repositories

import "errors"

var (
	// ErrNotFound is returned when a requested record does not exist.
	ErrNotFound = errors.New("record not found")

	// ErrAlreadyExists is returned when a write violates a unique constraint.
	ErrAlreadyExists = errors.New("record already exists")
)

// IsNotFoundError reports whether err is, or wraps, a not-found error.
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsConflictError reports whether err is, or wraps, a unique violation.
func IsConflictError(err error) bool {
	return errors.Is(err, ErrAlreadyExists)
}
