package store

import (
	"errors"
	"fmt"
)

// Common store errors used across all store implementations.
var (
	// ErrNotFound is returned when a requested entity does not exist in the store.
	// This is a generic version of the entity-specific not found errors
	// (e.g., ErrStatsNotFound, ErrSelectionNotFound).
	ErrNotFound = errors.New("entity not found")

	// ErrDuplicate is returned when an operation would create a duplicate
	// of a unique entity. The daily selection upsert relies on it: a
	// concurrent insert for the same (user, day) surfaces as ErrDuplicate
	// and the caller re-reads the winning row.
	ErrDuplicate = errors.New("entity already exists")

	// ErrInvalidEntity is returned when an entity fails validation before
	// being stored. Check the wrapped error for specific validation details.
	ErrInvalidEntity = errors.New("invalid entity")

	// ErrTransactionFailed is returned when a database transaction fails
	// to commit or when an operation within a transaction fails.
	ErrTransactionFailed = errors.New("transaction failed")

	// Entity-specific "not found" errors

	// ErrStatsNotFound indicates that the user's challenge stats rollup
	// does not exist yet.
	ErrStatsNotFound = fmt.Errorf("%w: user challenge stats", ErrNotFound)

	// ErrChallengeNotFound indicates that the requested challenge does not exist.
	ErrChallengeNotFound = fmt.Errorf("%w: challenge", ErrNotFound)

	// ErrSelectionNotFound indicates that no daily selection exists for the
	// requested user and date.
	ErrSelectionNotFound = fmt.Errorf("%w: daily challenge selection", ErrNotFound)

	// ErrScoreNotFound indicates that the user has no score history yet.
	ErrScoreNotFound = fmt.Errorf("%w: echo score history", ErrNotFound)

	// Entity-specific "duplicate" errors

	// ErrSelectionExists indicates that a selection row already exists for
	// the user and date. Expected under concurrent selection requests on
	// day rollover; never user-visible.
	ErrSelectionExists = fmt.Errorf("%w: daily challenge selection", ErrDuplicate)
)

// IsNotFoundError checks if the error is any kind of "not found" error.
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsDuplicateError checks if the error is any kind of "duplicate" error.
func IsDuplicateError(err error) bool {
	return errors.Is(err, ErrDuplicate)
}

// StoreError is a custom error type for store-specific errors with additional context.
type StoreError struct {
	Entity    string // The entity type (e.g., "reading_event", "selection")
	Operation string // The operation that failed (e.g., "create", "list")
	Message   string // Error message
	Err       error  // Original error
}

// Error implements the error interface for StoreError.
func (e *StoreError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf(
			"%s operation on %s failed: %s: %v",
			e.Operation,
			e.Entity,
			e.Message,
			e.Err,
		)
	}
	return fmt.Sprintf("%s operation on %s failed: %s", e.Operation, e.Entity, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *StoreError) Unwrap() error {
	return e.Err
}

// NewStoreError creates a new StoreError with the given entity, operation,
// message, and wrapped error.
func NewStoreError(entity, operation, message string, err error) *StoreError {
	return &StoreError{
		Entity:    entity,
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}
