package models

import "errors"

var (
	ErrConflictData     = errors.New("data conflicts with existing data")
	ErrDataNotFound     = errors.New("data not found")
	ErrValidation       = errors.New("missing or invalid required field")
	ErrRateLimited      = errors.New("rate limit exceeded")
	ErrGenerationFailed = errors.New("failed to generate book report")
	ErrOrderNotPending  = errors.New("order is not pending")
	ErrInternalError    = errors.New("internal error")
)
