package domain

import (
	"errors"
	"fmt"
)

type NotFoundError struct {
	Resource string
	Err      error
}

func (e NotFoundError) Error() string {
	if e.Resource == "" {
		return "not found"
	}
	return fmt.Sprintf("%s not found", e.Resource)
}

func (e NotFoundError) Unwrap() error { return e.Err }

type ValidationError struct {
	Field string
	Msg   string
	Err   error
}

func (e ValidationError) Error() string {
	if e.Msg != "" && e.Field != "" {
		return fmt.Sprintf("%s: %s", e.Field, e.Msg)
	}
	if e.Msg != "" {
		return e.Msg
	}
	if e.Field != "" {
		return fmt.Sprintf("invalid %s", e.Field)
	}
	return "validation error"
}

func (e ValidationError) Unwrap() error { return e.Err }

type ConflictError struct {
	Resource string
	Msg      string
	Err      error
}

func (e ConflictError) Error() string {
	switch {
	case e.Msg != "" && e.Resource != "":
		return fmt.Sprintf("%s conflict: %s", e.Resource, e.Msg)
	case e.Msg != "":
		return e.Msg
	case e.Resource != "":
		return fmt.Sprintf("%s conflict", e.Resource)
	default:
		return "conflict"
	}
}

func (e ConflictError) Unwrap() error { return e.Err }

type InternalError struct {
	Msg string
	Err error
}

func (e InternalError) Error() string {
	if e.Msg != "" {
		return e.Msg
	}
	return "internal error"
}

func (e InternalError) Unwrap() error { return e.Err }

// UnauthorizedError hides which credential was wrong.
type UnauthorizedError struct {
	Msg string
}

func (e UnauthorizedError) Error() string {
	if e.Msg != "" {
		return e.Msg
	}
	return "unauthorized"
}

// UpstreamError reports a failed call to a collaborator (database, identity
// store, mail relay). The original cause stays reachable through Unwrap.
type UpstreamError struct {
	Collaborator string
	Err          error
}

func (e UpstreamError) Error() string {
	name := e.Collaborator
	if name == "" {
		name = "upstream"
	}
	if e.Err == nil {
		return name + " failure"
	}
	return fmt.Sprintf("%s failure: %v", name, e.Err)
}

func (e UpstreamError) Unwrap() error { return e.Err }

// TokenErrorKind names the recovery-token check that failed.
type TokenErrorKind string

const (
	TokenMalformed        TokenErrorKind = "malformed"
	TokenInvalidSignature TokenErrorKind = "invalid_signature"
	TokenInvalidIssuer    TokenErrorKind = "invalid_issuer"
	TokenExpired          TokenErrorKind = "expired"
	TokenEmailMismatch    TokenErrorKind = "email_mismatch"
	// TokenReused is raised by the recovery flow, never by the validator.
	TokenReused TokenErrorKind = "reused"
)

// TokenError is detailed on purpose; callers facing end users must render
// InvalidTokenMessage instead of Error().
type TokenError struct {
	Kind TokenErrorKind
	Err  error
}

// InvalidTokenMessage is the only text shown to clients for any TokenError.
const InvalidTokenMessage = "invalid or expired token"

func (e TokenError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("recovery token: %s", e.Kind)
	}
	return fmt.Sprintf("recovery token: %s: %v", e.Kind, e.Err)
}

func (e TokenError) Unwrap() error { return e.Err }

func IsNotFound(err error) bool {
	var target NotFoundError
	return errors.As(err, &target)
}

func IsValidation(err error) bool {
	var target ValidationError
	return errors.As(err, &target)
}

func IsConflict(err error) bool {
	var target ConflictError
	return errors.As(err, &target)
}

func IsInternal(err error) bool {
	var target InternalError
	return errors.As(err, &target)
}

func IsUnauthorized(err error) bool {
	var target UnauthorizedError
	return errors.As(err, &target)
}

func IsUpstream(err error) bool {
	var target UpstreamError
	return errors.As(err, &target)
}

// TokenErrorKindOf returns the kind of the TokenError in err's chain.
func TokenErrorKindOf(err error) (TokenErrorKind, bool) {
	var target TokenError
	if errors.As(err, &target) {
		return target.Kind, true
	}
	return "", false
}

func IsTokenError(err error) bool {
	_, ok := TokenErrorKindOf(err)
	return ok
}
