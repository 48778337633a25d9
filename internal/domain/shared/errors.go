// Package shared holds the cross-component vocabulary of the reconciliation
// engine: the error taxonomy, booking modes and the bulk run message types
// exchanged between the gateway and the worker.
package shared

import (
	"fmt"

	"github.com/google/uuid"
)

// ValidationError indicates bad or missing input. Caller's fault, never
// retried.
type ValidationError struct {
	Field  string
	Reason string
}

func (e ValidationError) Error() string {
	if e.Field == "" {
		return "validation failed: " + e.Reason
	}
	return fmt.Sprintf("validation failed on %s: %s", e.Field, e.Reason)
}

// Is matches any ValidationError when the target carries no detail
func (e ValidationError) Is(target error) bool {
	t, ok := target.(ValidationError)
	if !ok {
		return false
	}
	if t.Field == "" && t.Reason == "" {
		return true
	}
	return e == t
}

// AmbiguousPostingError indicates that reclassification could not identify a
// single non-cash line to repoint. Surfaced, never retried.
type AmbiguousPostingError struct {
	TransactionID uuid.UUID
}

func (e AmbiguousPostingError) Error() string {
	return "cannot identify the non-cash posting line for transaction: " + e.TransactionID.String()
}

// Is matches any AmbiguousPostingError when the target id is empty
func (e AmbiguousPostingError) Is(target error) bool {
	t, ok := target.(AmbiguousPostingError)
	if !ok {
		return false
	}
	if t.TransactionID == uuid.Nil {
		return true
	}
	return e.TransactionID == t.TransactionID
}

// StorageError indicates a persistence failure. Bookings are atomic units,
// so callers may retry the whole operation.
type StorageError struct {
	Op  string
	Err error
}

func (e StorageError) Error() string {
	return "storage failure during " + e.Op + ": " + e.Err.Error()
}

func (e StorageError) Unwrap() error { return e.Err }

// Is matches any StorageError regardless of operation or cause
func (e StorageError) Is(target error) bool {
	_, ok := target.(StorageError)
	return ok
}

// ExternalServiceError indicates the classification call failed. Treated as
// "no suggestion" in bulk mode, surfaced in interactive mode.
type ExternalServiceError struct {
	Service string
	Err     error
}

func (e ExternalServiceError) Error() string {
	return e.Service + " call failed: " + e.Err.Error()
}

func (e ExternalServiceError) Unwrap() error { return e.Err }

// Is matches any ExternalServiceError regardless of service or cause
func (e ExternalServiceError) Is(target error) bool {
	_, ok := target.(ExternalServiceError)
	return ok
}
