package service

import (
	"context"
	"fmt"

	"github.com/soniq/shop-backend/internal/models"
)

// Identity is the channel a caller authenticates through. Exactly two
// variants exist; consumers match exhaustively instead of branching on
// strings.
type Identity interface {
	AuthType() string
	isIdentity()
}

type EmailIdentity struct {
	Email string
}

func (EmailIdentity) AuthType() string { return models.AuthTypeEmail }
func (EmailIdentity) isIdentity()      {}

type MobileIdentity struct {
	CountryCode string
	Mobile      string
}

func (MobileIdentity) AuthType() string { return models.AuthTypeMobile }
func (MobileIdentity) isIdentity()      {}

func (s *AuthService) findAccount(ctx context.Context, id Identity) (*models.Account, error) {
	switch v := id.(type) {
	case EmailIdentity:
		return s.Store.FindAccountByEmail(ctx, v.Email)
	case MobileIdentity:
		return s.Store.FindAccountByPhone(ctx, v.CountryCode, v.Mobile)
	default:
		return nil, fmt.Errorf("unknown identity variant %T", id)
	}
}

func newAccount(id Identity, passwordHash, uid string) *models.Account {
	account := &models.Account{
		UID:          uid,
		AuthType:     id.AuthType(),
		PasswordHash: passwordHash,
		RoleName:     models.RoleCustomer,
		IsVerified:   false,
	}
	switch v := id.(type) {
	case EmailIdentity:
		email := v.Email
		account.Email = &email
	case MobileIdentity:
		cc, mobile := v.CountryCode, v.Mobile
		account.CountryCode = &cc
		account.PhoneNumber = &mobile
	}
	return account
}
