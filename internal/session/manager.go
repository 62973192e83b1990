package session

import (
	"context"
	"errors"
	"time"

	"github.com/soniq/shop-backend/internal/models"
	"github.com/soniq/shop-backend/internal/repo"
	"github.com/soniq/shop-backend/internal/tokens"
)

const (
	RefreshTokenTTL   = 7 * 24 * time.Hour
	rotationThreshold = 2 * 24 * time.Hour
)

var ErrInvalidOrExpired = errors.New("invalid or expired refresh token")

// Manager issues short-lived access tokens and device-bound refresh tokens.
// Refresh secrets leave this package exactly once, on issue; only their
// SHA-256 is persisted.
type Manager struct {
	Store     *repo.Store
	JWTSecret []byte
}

type RefreshResult struct {
	Account      *models.Account
	AccessToken  string
	RefreshToken string // empty unless the presented token was rotated
}

func (m *Manager) IssueAccessToken(account *models.Account) (string, error) {
	return tokens.SignAccessToken(account.ID, account.UID, account.RoleName, m.JWTSecret)
}

func (m *Manager) IssueRefreshToken(ctx context.Context, account *models.Account, deviceID, deviceType, ip string) (string, error) {
	secret, err := tokens.NewOpaqueSecret()
	if err != nil {
		return "", err
	}

	record := models.RefreshToken{
		UserID:      account.ID,
		DeviceID:    deviceID,
		DeviceType:  deviceType,
		Token:       tokens.Sha256Hex(secret),
		CreatedByIP: ip,
		ExpiresAt:   time.Now().Add(RefreshTokenTTL),
	}
	if err := m.Store.CreateRefreshToken(ctx, &record); err != nil {
		return "", err
	}
	return secret, nil
}

// Refresh exchanges a presented refresh secret for a new access token. When
// the row has two days or less to live it is rotated: the old row is revoked
// and a successor with a fresh 7-day expiry takes over the device binding.
// Outside that window the presented token stays valid and no new secret is
// returned.
func (m *Manager) Refresh(ctx context.Context, presented, deviceID, ip string) (*RefreshResult, error) {
	row, err := m.Store.FindActiveRefreshToken(ctx, tokens.Sha256Hex(presented), deviceID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrInvalidOrExpired
		}
		return nil, err
	}
	if time.Now().After(row.ExpiresAt) {
		return nil, ErrInvalidOrExpired
	}

	account, err := m.Store.FindAccountByID(ctx, row.UserID)
	if err != nil {
		return nil, err
	}

	accessToken, err := m.IssueAccessToken(account)
	if err != nil {
		return nil, err
	}

	result := &RefreshResult{Account: account, AccessToken: accessToken}

	if time.Until(row.ExpiresAt) <= rotationThreshold {
		secret, err := tokens.NewOpaqueSecret()
		if err != nil {
			return nil, err
		}
		successor := models.RefreshToken{
			UserID:      row.UserID,
			DeviceID:    deviceID,
			DeviceType:  row.DeviceType,
			Token:       tokens.Sha256Hex(secret),
			CreatedByIP: ip,
			ExpiresAt:   time.Now().Add(RefreshTokenTTL),
		}
		if err := m.Store.RotateRefreshToken(ctx, row, ip, &successor); err != nil {
			if errors.Is(err, repo.ErrTokenRotated) {
				return nil, ErrInvalidOrExpired
			}
			return nil, err
		}
		result.RefreshToken = secret
	}

	return result, nil
}

// Revoke invalidates a presented refresh token, e.g. on logout.
func (m *Manager) Revoke(ctx context.Context, presented, deviceID, ip string) error {
	row, err := m.Store.FindActiveRefreshToken(ctx, tokens.Sha256Hex(presented), deviceID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ErrInvalidOrExpired
		}
		return err
	}
	return m.Store.RevokeRefreshToken(ctx, row.ID, ip)
}
