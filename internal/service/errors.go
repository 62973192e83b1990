package service

import "errors"

var (
	ErrValidation      = errors.New("validation failed")
	ErrNotFound        = errors.New("account not found")
	ErrAlreadyVerified = errors.New("account already verified")
)
