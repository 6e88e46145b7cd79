// Package service implements the business rules of the ledger: friendship
// lifecycle, expense creation and splitting, settlements, balances, groups
// and notifications. Services return typed errors; the API layer alone
// translates them into user-facing responses.
package service

import (
	"errors"
	"fmt"

	"github.com/divvyhq/divvy/internal/storage"
)

// Kind classifies an error for transport mapping.
type Kind int

const (
	// KindInternal is an unexpected failure (storage, encoding).
	KindInternal Kind = iota
	// KindValidation is malformed or inconsistent input; the ledger is left
	// untouched.
	KindValidation
	// KindNotFound is a reference to an entity that does not exist. Never
	// silently treated as zero.
	KindNotFound
	// KindConflict is a duplicate or contradictory request (e.g. a second
	// pending friend request for the same pair).
	KindConflict
	// KindPermission is an authenticated user acting on something that is
	// not theirs.
	KindPermission
)

// Error is a classified service error with a structured reason.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// Validationf builds a validation error.
func Validationf(format string, args ...any) *Error {
	return &Error{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

// NotFoundf builds a not-found error.
func NotFoundf(format string, args ...any) *Error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

// Conflictf builds a conflict error.
func Conflictf(format string, args ...any) *Error {
	return &Error{Kind: KindConflict, Message: fmt.Sprintf(format, args...)}
}

// Permissionf builds a permission error.
func Permissionf(format string, args ...any) *Error {
	return &Error{Kind: KindPermission, Message: fmt.Sprintf(format, args...)}
}

// KindOf classifies any error. Storage ErrNotFound counts as not-found even
// when it was not wrapped by a service.
func KindOf(err error) Kind {
	var svcErr *Error
	if errors.As(err, &svcErr) {
		return svcErr.Kind
	}
	if errors.Is(err, storage.ErrNotFound) {
		return KindNotFound
	}
	return KindInternal
}
