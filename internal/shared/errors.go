package shared

import "errors"

var (
	// ErrNotFound indicates resource not found.
	ErrNotFound = errors.New("not found")
	// ErrInvalidCredentials indicates login failure.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrDuplicateRole occurs when creating a role whose name already exists.
	ErrDuplicateRole = errors.New("role already exists")
	// ErrDuplicateEmail occurs when registering an email already in use.
	ErrDuplicateEmail = errors.New("email already registered")
	// ErrDuplicateUsername occurs when registering a username already in use.
	ErrDuplicateUsername = errors.New("username already registered")
)
