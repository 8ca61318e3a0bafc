// Package apperrors holds the error kinds the storefront layer reports to screens.
//
// Every failure is one of three kinds: a ValidationError raised locally before any
// I/O, an AuthError translated from the auth provider, or a FetchError wrapping a
// backend failure. None of them is fatal to the process.
package apperrors

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	ErrNotFound  = errors.New("not found")
	ErrConflict  = errors.New("conflict")
	ErrForbidden = errors.New("forbidden")
)

// Kind classifies an error for the screen layer.
type Kind string

const (
	KindNone       Kind = ""
	KindValidation Kind = "validation"
	KindAuth       Kind = "auth"
	KindFetch      Kind = "fetch"
	KindNotFound   Kind = "not_found"
	KindConflict   Kind = "conflict"
	KindForbidden  Kind = "forbidden"
	KindInternal   Kind = "internal"
)

// ValidationError is raised locally; no network call has been attempted.
type ValidationError struct {
	Message string
	Fields  map[string]string
}

// NewValidationError returns a ValidationError with a single message.
func NewValidationError(message string) *ValidationError {
	return &ValidationError{Message: message}
}

// NewFieldValidationError returns a ValidationError carrying per-field messages.
func NewFieldValidationError(fields map[string]string) *ValidationError {
	return &ValidationError{Message: "validation failed", Fields: fields}
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return e.Message
	}
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return e.Message + " (" + strings.Join(parts, "; ") + ")"
}

// AuthCategory is the user-facing category of an auth provider failure.
type AuthCategory string

const (
	AuthUnknownAccount AuthCategory = "unknown_account"
	AuthInvalidEmail   AuthCategory = "invalid_email"
	AuthRateLimited    AuthCategory = "rate_limited"
	AuthEmailInUse     AuthCategory = "email_in_use"
	AuthWrongPassword  AuthCategory = "wrong_password"
	AuthGeneric        AuthCategory = "generic"
)

var authMessages = map[AuthCategory]string{
	AuthUnknownAccount: "No account found with this email.",
	AuthInvalidEmail:   "The email address is not valid.",
	AuthRateLimited:    "Too many attempts. Please try again later.",
	AuthEmailInUse:     "An account with this email already exists.",
	AuthWrongPassword:  "The password is incorrect.",
	AuthGeneric:        "Something went wrong. Please try again.",
}

// AuthError is an auth provider failure translated into a user-facing category.
type AuthError struct {
	Category AuthCategory
	Code     string
	Err      error
}

// NewAuthError builds an AuthError for the given category and provider code.
func NewAuthError(category AuthCategory, code string, err error) *AuthError {
	if _, ok := authMessages[category]; !ok {
		category = AuthGeneric
	}
	return &AuthError{Category: category, Code: code, Err: err}
}

// Message returns the text shown to the user.
func (e *AuthError) Message() string {
	return authMessages[e.Category]
}

func (e *AuthError) Error() string {
	if e.Code == "" {
		return "auth: " + string(e.Category)
	}
	return fmt.Sprintf("auth: %s (%s)", e.Category, e.Code)
}

func (e *AuthError) Unwrap() error { return e.Err }

// FetchError wraps any failure reaching or querying the backend.
type FetchError struct {
	Op  string
	Err error
}

// NewFetchError wraps cause as a failure of op.
func NewFetchError(op string, cause error) *FetchError {
	return &FetchError{Op: op, Err: cause}
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch failed: %s: %v", e.Op, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// Retryable reports that the screen should offer a manual retry.
func (e *FetchError) Retryable() bool { return true }

// IsValidation reports whether err is or wraps a *ValidationError.
func IsValidation(err error) bool {
	var target *ValidationError
	return errors.As(err, &target)
}

// IsAuth reports whether err is or wraps an *AuthError.
func IsAuth(err error) bool {
	var target *AuthError
	return errors.As(err, &target)
}

// IsFetch reports whether err is or wraps a *FetchError.
func IsFetch(err error) bool {
	var target *FetchError
	return errors.As(err, &target)
}

// KindOf classifies err. The typed kinds win over the sentinels they may wrap.
func KindOf(err error) Kind {
	switch {
	case err == nil:
		return KindNone
	case IsValidation(err):
		return KindValidation
	case IsAuth(err):
		return KindAuth
	case errors.Is(err, ErrForbidden):
		return KindForbidden
	case errors.Is(err, ErrConflict):
		return KindConflict
	case errors.Is(err, ErrNotFound):
		return KindNotFound
	case IsFetch(err):
		return KindFetch
	default:
		return KindInternal
	}
}
