package service

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation marks malformed or missing input. The message after the prefix is safe to show.
	ErrValidation = errors.New("validation error")
	// ErrNotFoundOrForbidden is returned for transactions that are missing or belong to someone else.
	// The two cases are deliberately indistinguishable.
	ErrNotFoundOrForbidden = errors.New("transaction not found")
	ErrNotFound            = errors.New("not found")
	ErrForbidden           = errors.New("forbidden")
	ErrProvider            = errors.New("suggestion provider failed")
	ErrProviderTimeout     = fmt.Errorf("%w: timed out", ErrProvider)
	// ErrContextUnavailable is reported, never returned: generation continues with partial context.
	ErrContextUnavailable = errors.New("context unavailable")

	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserExists         = errors.New("user already exists")
)

func validationError(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}
