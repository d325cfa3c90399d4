package member

import "errors"

var (
	// ErrUserNotFound indicates no profile exists for the given email.
	ErrUserNotFound = errors.New("user not found")
	// ErrInvalidInput indicates invalid membership input.
	ErrInvalidInput = errors.New("invalid membership input")
)
