package repository

import "errors"

// Sentinel errors shared by all repository implementations. The Mongo
// implementations translate driver errors into these so that usecases never
// depend on driver error types.
var (
	ErrNotFound       = errors.New("record not found")
	ErrDuplicateEmail = errors.New("email already registered")
)
