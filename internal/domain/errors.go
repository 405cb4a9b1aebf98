package domain

import "errors"

var (
	ErrNotFound          = errors.New("not found")
	ErrValidation        = errors.New("validation failed")
	ErrConflict          = errors.New("duplicate id")
	ErrStoreUnavailable  = errors.New("store unavailable")
	ErrIllegalTransition = errors.New("illegal status transition")
)
