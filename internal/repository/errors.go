package repository

import "errors"

var (
	ErrNotFound          = errors.New("entity not found")
	ErrInterestNotFound  = errors.New("interest not found")
	ErrDuplicateInterest = errors.New("interest already exists for this user and crop")
	ErrInterestDecided   = errors.New("interest already decided")
	ErrUpdateFailed      = errors.New("update failed")
	ErrConnectionFailed  = errors.New("database connection failed")
)
