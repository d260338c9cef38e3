// Package errs contains sentinel errors and the failure taxonomy used across layers for stable error mapping.
package errs

import "errors"

// Common sentinels across validator/codec/repo/service layers.
var (
	// ErrValidation indicates input that failed a field or entity rule.
	ErrValidation = errors.New("validation failed")

	// ErrMissingField indicates a required field is absent, null or empty.
	ErrMissingField = errors.New("required field missing")

	// ErrTypeMismatch indicates a present field does not match its declared type.
	ErrTypeMismatch = errors.New("field type mismatch")

	// ErrInvalidID indicates an external identifier could not be converted to a storage id.
	ErrInvalidID = errors.New("invalid id")

	// ErrNotFound indicates the requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists indicates a unique constraint violation (e.g., email taken).
	ErrAlreadyExists = errors.New("already exists")

	// ErrNotConnected indicates the storage handle was used before it was established.
	ErrNotConnected = errors.New("storage not connected")
)
