// Package errors provides centralized error definitions for mailpath.
//
// Every failure a path operation can report wraps one of the sentinels below,
// so callers classify results with Is:
//
//	if errors.Is(err, errors.ErrMissing) {
//	    // offer to create the mailbox
//	}
package errors

import (
	"errors"
	"fmt"
)

// Re-exported so backends only need to import this package.
var (
	Is   = errors.Is
	As   = errors.As
	New  = errors.New
	Join = errors.Join
)

// Outcome errors.
var (
	// ErrNotApplicable indicates the operation has no result for this path,
	// e.g. the parent of a compressed mailbox. It is not a failure of the path.
	ErrNotApplicable = errors.New("not applicable")

	// ErrMalformed indicates the string cannot be tidied or probed into any known kind.
	ErrMalformed = errors.New("malformed mailbox path")

	// ErrMissing indicates the filesystem object behind the path does not exist.
	ErrMissing = errors.New("no such mailbox")

	// ErrWrongShape indicates a filesystem object of the wrong type for the kind,
	// e.g. a directory where a single file was expected.
	ErrWrongShape = errors.New("wrong mailbox shape")

	// ErrInaccessible indicates the filesystem object behind the path could
	// not be examined for a reason other than its absence, e.g. a permission
	// error or a file used as a directory.
	ErrInaccessible = errors.New("mailbox not accessible")
)

// Programming errors.
var (
	// ErrContractViolation indicates an operation was called on a path in an
	// insufficient state. It signals a caller bug.
	ErrContractViolation = errors.New("mailpath contract violation")

	// ErrBackendNotRegistered indicates no backend is registered for the kind.
	ErrBackendNotRegistered = errors.New("backend not registered")
)

type wrapError struct {
	underlying error
	msg        string
	cause      error
}

var _ error = (*wrapError)(nil)

func (err *wrapError) Error() string {
	if err == nil {
		return "(*wrapError)(nil)"
	}
	message := err.underlying.Error() + ": " + err.msg
	if err.cause != nil {
		message += ": " + err.cause.Error()
	}
	return message
}

func (err *wrapError) Unwrap() []error {
	if err.cause == nil {
		return []error{err.underlying}
	}
	return []error{err.underlying, err.cause}
}

func wrap(underlying error, msg string, cause error) error {
	return &wrapError{underlying: underlying, msg: msg, cause: cause}
}

// NotApplicable returns an ErrNotApplicable carrying the path and a reason.
func NotApplicable(path, reason string) error {
	return wrap(ErrNotApplicable, fmt.Sprintf("%s: %s", path, reason), nil)
}

// Malformed returns an ErrMalformed for path with an optional cause.
func Malformed(path string, cause error) error {
	return wrap(ErrMalformed, path, cause)
}

// Missing returns an ErrMissing for path with an optional cause.
func Missing(path string, cause error) error {
	return wrap(ErrMissing, path, cause)
}

// Inaccessible returns an ErrInaccessible for path wrapping the stat error.
func Inaccessible(path string, cause error) error {
	return wrap(ErrInaccessible, path, cause)
}

// WrongShape returns an ErrWrongShape naming what was expected.
func WrongShape(path, want string) error {
	return wrap(ErrWrongShape, fmt.Sprintf("%s: want %s", path, want), nil)
}

// ContractViolation returns an ErrContractViolation for op on path.
func ContractViolation(op, path, reason string) error {
	return wrap(ErrContractViolation, fmt.Sprintf("%s(%q): %s", op, path, reason), nil)
}

// IsUserFacing reports whether err describes a condition worth showing to a
// user ("no such mailbox") rather than a programming error.
func IsUserFacing(err error) bool {
	if err == nil || errors.Is(err, ErrContractViolation) {
		return false
	}
	return errors.Is(err, ErrMalformed) ||
		errors.Is(err, ErrMissing) ||
		errors.Is(err, ErrWrongShape) ||
		errors.Is(err, ErrInaccessible)
}

// IsContractViolation reports whether err signals a caller bug.
func IsContractViolation(err error) bool {
	return errors.Is(err, ErrContractViolation)
}
