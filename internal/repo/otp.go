package repo

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/soniq/shop-backend/internal/models"
)

func (s *Store) CreateOtp(ctx context.Context, otp *models.OtpCode) error {
	return s.DB.WithContext(ctx).Create(otp).Error
}

// ConsumeOtp finds an outstanding code for the account and latches it
// verified. The flip is a conditional update keyed on is_verified=false, so
// two concurrent calls for the same row can never both succeed.
func (s *Store) ConsumeOtp(ctx context.Context, accountID uint, code string, now time.Time) (*models.OtpCode, error) {
	var record models.OtpCode
	err := s.DB.WithContext(ctx).
		Where("user_id = ? AND otp = ? AND is_verified = ? AND expires_at > ?",
			accountID, code, false, now).
		First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOtpInvalid
		}
		return nil, err
	}

	result := s.DB.WithContext(ctx).Model(&models.OtpCode{}).
		Where("id = ? AND is_verified = ?", record.ID, false).
		Updates(map[string]interface{}{
			"is_verified": true,
			"attempts":    gorm.Expr("attempts + 1"),
		})
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		// lost the race to another verifier
		return nil, ErrOtpInvalid
	}

	record.IsVerified = true
	record.Attempts++
	return &record, nil
}
