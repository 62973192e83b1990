package repo

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/soniq/shop-backend/internal/models"
)

func (s *Store) CreateRefreshToken(ctx context.Context, token *models.RefreshToken) error {
	return s.DB.WithContext(ctx).Create(token).Error
}

// FindActiveRefreshToken looks up a non-revoked token by its at-rest hash and
// device binding. Expiry is checked by the caller.
func (s *Store) FindActiveRefreshToken(ctx context.Context, tokenHash, deviceID string) (*models.RefreshToken, error) {
	var token models.RefreshToken
	err := s.DB.WithContext(ctx).
		Where("token = ? AND device_id = ? AND is_revoked = ?", tokenHash, deviceID, false).
		First(&token).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &token, nil
}

// RotateRefreshToken revokes the presented row and inserts its successor in a
// single transaction. The revoke is conditional on is_revoked=false: of two
// concurrent rotations only one commits, the other gets ErrTokenRotated.
func (s *Store) RotateRefreshToken(ctx context.Context, old *models.RefreshToken, ip string, successor *models.RefreshToken) error {
	now := time.Now()
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.RefreshToken{}).
			Where("id = ? AND is_revoked = ?", old.ID, false).
			Updates(map[string]interface{}{
				"is_revoked":        true,
				"revoked_at":        now,
				"revoked_by_ip":     ip,
				"replaced_by_token": successor.Token,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrTokenRotated
		}
		return tx.Create(successor).Error
	})
}

func (s *Store) RevokeRefreshToken(ctx context.Context, id uint, ip string) error {
	now := time.Now()
	return s.DB.WithContext(ctx).Model(&models.RefreshToken{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"is_revoked":    true,
			"revoked_at":    now,
			"revoked_by_ip": ip,
		}).Error
}
