package store

import (
	"errors"
	"fmt"
)

// Common store errors used across all store implementations.
var (
	// ErrNotFound is returned when a requested entity does not exist in the
	// store. Entity-specific variants below wrap it so callers can check
	// either the generic or the specific error with errors.Is.
	ErrNotFound = errors.New("entity not found")

	// ErrDuplicate is returned when an operation would create a duplicate of
	// a unique entity (e.g., two teams with the same name in one guild).
	ErrDuplicate = errors.New("entity already exists")

	// ErrInvalidEntity is returned when an entity fails validation or a
	// constraint before being stored. Check the wrapped error for details.
	ErrInvalidEntity = errors.New("invalid entity")

	// ErrStaleStatus is returned when a task status transition is refused
	// because the record already left the pending state. Status transitions
	// are one-way; the first writer wins.
	ErrStaleStatus = errors.New("task status already terminal")

	// ErrTransactionFailed is returned when a database transaction fails to
	// commit or when an operation within a transaction fails.
	ErrTransactionFailed = errors.New("transaction failed")

	// Entity-specific "not found" errors.

	// ErrTaskNotFound indicates the requested task record does not exist.
	ErrTaskNotFound = fmt.Errorf("%w: task", ErrNotFound)

	// ErrComponentNotFound indicates no deferred component payload is stored
	// under the given key.
	ErrComponentNotFound = fmt.Errorf("%w: component payload", ErrNotFound)

	// ErrGuildNotFound indicates the requested guild row does not exist.
	ErrGuildNotFound = fmt.Errorf("%w: guild", ErrNotFound)

	// ErrTeamNotFound indicates the requested team does not exist.
	ErrTeamNotFound = fmt.Errorf("%w: team", ErrNotFound)

	// ErrPlayerNotFound indicates the requested player does not exist.
	ErrPlayerNotFound = fmt.Errorf("%w: player", ErrNotFound)
)

// IsNotFoundError checks if the error is any kind of "not found" error.
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// StoreError carries the entity and operation that failed alongside the
// underlying cause. It is used where a bare sentinel would lose too much
// context to be actionable in logs.
type StoreError struct {
	Entity    string // the entity type (e.g., "task", "team")
	Operation string // the operation that failed (e.g., "enqueue", "update")
	Message   string
	Err       error
}

// Error implements the error interface for StoreError.
func (e *StoreError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s operation on %s failed: %s: %v",
			e.Operation, e.Entity, e.Message, e.Err)
	}
	return fmt.Sprintf("%s operation on %s failed: %s", e.Operation, e.Entity, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *StoreError) Unwrap() error {
	return e.Err
}

// NewStoreError creates a new StoreError.
func NewStoreError(entity, operation, message string, err error) *StoreError {
	return &StoreError{
		Entity:    entity,
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}
