package entity

import "errors"

var (
	// ErrNotFound indicates that a referenced crop or interest does not exist.
	ErrNotFound = errors.New("entity not found")
	// ErrForbidden indicates an owner-only action attempted by a non-owner,
	// or an owner expressing interest in their own listing.
	ErrForbidden = errors.New("action forbidden")
	// ErrInvalidInput indicates malformed, missing or out-of-range input.
	ErrInvalidInput = errors.New("invalid input data")
	// ErrConflict indicates a duplicate interest, a decision on an already
	// decided interest, or a lost concurrency race.
	ErrConflict = errors.New("conflicting state")
	// ErrRepository indicates an unexpected persistence failure.
	ErrRepository = errors.New("repository error")
)
