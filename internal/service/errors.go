package service

import "errors"

var (
	// ErrValidation rejects malformed input before any store access.
	ErrValidation = errors.New("validation failed")

	// ErrUserExists means the username or email is already taken.
	ErrUserExists = errors.New("user already exists")

	// ErrInvalidCredentials is returned for an unknown email and for a
	// wrong password alike, so a caller cannot enumerate accounts.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrNotFound covers a missing entity and a malformed id.
	ErrNotFound = errors.New("not found")

	// ErrUpload wraps asset-host failures after compensating cleanup ran.
	ErrUpload = errors.New("asset upload failed")
)
