// Package apperr defines the closed set of failure kinds the API reports and
// a typed error carrying one of them.
package apperr

import (
	"errors"
	"fmt"
)

// Kind classifies a failure. Handlers map it to an HTTP status.
type Kind string

const (
	KindValidation   Kind = "validation"
	KindNotFound     Kind = "not_found"
	KindAccessDenied Kind = "access_denied"
	KindConflict     Kind = "conflict"
	KindInternal     Kind = "internal"
)

// Error is a failure with a kind and a client-facing message. Min and Max are
// set only for team-size violations.
type Error struct {
	Kind    Kind
	Code    string
	Message string
	Min     int
	Max     int
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// Codes distinguishing the conflict variants.
const (
	CodeRegistrationClosed = "registration_closed"
	CodeInvalidTeamSize    = "invalid_team_size"
	CodeAlreadyRegistered  = "already_registered"
	CodeHackathonMismatch  = "hackathon_mismatch"
)

func Validation(msg string) *Error { return &Error{Kind: KindValidation, Message: msg} }

func NotFound(msg string) *Error { return &Error{Kind: KindNotFound, Message: msg} }

func AccessDenied(msg string) *Error { return &Error{Kind: KindAccessDenied, Message: msg} }

func RegistrationClosed() *Error {
	return &Error{Kind: KindConflict, Code: CodeRegistrationClosed, Message: "Registration for this hackathon is closed."}
}

func InvalidTeamSize(min, max int) *Error {
	return &Error{
		Kind:    KindConflict,
		Code:    CodeInvalidTeamSize,
		Message: fmt.Sprintf("Team size must be between %d and %d members.", min, max),
		Min:     min,
		Max:     max,
	}
}

func AlreadyRegistered() *Error {
	return &Error{Kind: KindConflict, Code: CodeAlreadyRegistered, Message: "One or more members are already registered in a team for this hackathon."}
}

func HackathonMismatch() *Error {
	return &Error{Kind: KindConflict, Code: CodeHackathonMismatch, Message: "Team does not belong to this hackathon."}
}

// Internal wraps an unexpected storage or runtime failure.
func Internal(msg string, err error) *Error {
	return &Error{Kind: KindInternal, Message: msg, Err: err}
}

// KindOf returns the kind of err, or KindInternal for errors that are not an
// *Error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// As returns err as an *Error, wrapping foreign errors as internal.
func As(err error) *Error {
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return Internal("Something went wrong.", err)
}

// Is reports whether err is an *Error with the given code.
func Is(err error, code string) bool {
	var e *Error
	return errors.As(err, &e) && e.Code == code
}
