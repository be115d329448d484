package domain

import "errors"

var (
	// ErrDenied is returned when the caller has no session or lacks the
	// required role. Both cases are reported identically.
	ErrDenied = errors.New("access denied")

	ErrNotFound            = errors.New("record not found")
	ErrStoreUnavailable    = errors.New("record store unavailable")
	ErrConflict            = errors.New("record already exists")
	ErrDuplicateSlug       = errors.New("slug already in use")
	ErrDuplicateSubmission = errors.New("form already submitted")
	ErrInvalidInput        = errors.New("invalid input")
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrInvalidBlockType    = errors.New("invalid block type")
	ErrInvalidStatus       = errors.New("invalid status")
)
