// Package authprovider talks to the account backend: the managed identity
// toolkit in production, or a self-hosted bcrypt/JWT store.
package authprovider

import (
	"errors"
	"fmt"
)

// Provider error codes. Both implementations report failures with these.
const (
	CodeEmailNotFound   = "EMAIL_NOT_FOUND"
	CodeInvalidEmail    = "INVALID_EMAIL"
	CodeTooManyAttempts = "TOO_MANY_ATTEMPTS_TRY_LATER"
	CodeEmailExists     = "EMAIL_EXISTS"
	CodeInvalidPassword = "INVALID_PASSWORD"
	CodeWeakPassword    = "WEAK_PASSWORD"
	CodeUserDisabled    = "USER_DISABLED"
)

// Account is the identity returned by a successful sign-in.
type Account struct {
	UID       string
	Email     string
	Anonymous bool
	IDToken   string
}

// Error is a failure reported by the provider.
type Error struct {
	Code string
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return "auth provider: " + e.Code
	}
	return fmt.Sprintf("auth provider: %s: %v", e.Code, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// CodeOf returns the provider code carried by err, or "" if there is none.
func CodeOf(err error) string {
	var perr *Error
	if errors.As(err, &perr) {
		return perr.Code
	}
	return ""
}
