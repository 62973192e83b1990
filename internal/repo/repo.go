package repo

import (
	"errors"

	"gorm.io/gorm"
)

var (
	ErrNotFound     = errors.New("record not found")
	ErrOtpInvalid   = errors.New("invalid or expired OTP")
	ErrTokenRotated = errors.New("refresh token already revoked")
)

// Store is the persistence facade shared by the auth core and the catalog
// handlers. All access goes through the injected *gorm.DB, no package state.
type Store struct {
	DB *gorm.DB
}

func NewStore(db *gorm.DB) *Store { return &Store{DB: db} }
