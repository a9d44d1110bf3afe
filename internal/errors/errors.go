// Package errors defines the domain error vocabulary shared by every module.
// Use cases return these sentinels to express business outcomes; HTTP handlers
// translate them into status codes without inspecting infrastructure errors.
package errors

import (
	"errors"
	"fmt"
)

// Sentinels for the outcomes every domain module can produce. Repositories
// and use cases wrap these with context; handlers match on them with Is.
var (
	// ErrNotFound means the addressed resource does not exist.
	ErrNotFound = errors.New("not found")

	// ErrConflict means a uniqueness or state constraint was violated.
	ErrConflict = errors.New("conflict")

	// ErrInvalidInput means the request failed validation.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnauthorized means the request carried no valid credentials.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrForbidden means the caller is authenticated but not allowed.
	ErrForbidden = errors.New("forbidden")

	// ErrLocked means the resource is temporarily unusable, such as a client
	// locked out after failed authentications.
	ErrLocked = errors.New("locked")
)

// New mirrors errors.New so callers need only this package.
func New(message string) error {
	return errors.New(message)
}

// Wrap prefixes err with message, keeping the chain intact for Is and As.
// A nil err stays nil.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Wrapf is Wrap with a format string.
func Wrapf(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}

// Is mirrors errors.Is.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As mirrors errors.As.
func As(err error, target any) bool {
	return errors.As(err, target)
}
