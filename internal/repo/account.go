package repo

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/soniq/shop-backend/internal/models"
)

func (s *Store) FindAccountByEmail(ctx context.Context, email string) (*models.Account, error) {
	var account models.Account
	if err := s.DB.WithContext(ctx).Where("email = ?", email).First(&account).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &account, nil
}

func (s *Store) FindAccountByPhone(ctx context.Context, countryCode, phoneNumber string) (*models.Account, error) {
	var account models.Account
	err := s.DB.WithContext(ctx).
		Where("country_code = ? AND phone_number = ?", countryCode, phoneNumber).
		First(&account).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &account, nil
}

func (s *Store) FindAccountByUID(ctx context.Context, uid string) (*models.Account, error) {
	var account models.Account
	if err := s.DB.WithContext(ctx).Where("uid = ?", uid).First(&account).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &account, nil
}

func (s *Store) FindAccountByID(ctx context.Context, id uint) (*models.Account, error) {
	var account models.Account
	if err := s.DB.WithContext(ctx).First(&account, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &account, nil
}

// CreateAccountWithOtp inserts the unverified account together with its first
// OTP row in one transaction, so a failed code insert never leaves a stray
// account behind.
func (s *Store) CreateAccountWithOtp(ctx context.Context, account *models.Account, otp *models.OtpCode) error {
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(account).Error; err != nil {
			return err
		}
		otp.UserID = account.ID
		return tx.Create(otp).Error
	})
}

// MarkAccountVerified flips is_verified and stamps the channel verification
// time. Idempotent: re-verifying an already verified account is a no-op.
func (s *Store) MarkAccountVerified(ctx context.Context, account *models.Account, authType string, now time.Time) error {
	updates := map[string]interface{}{
		"is_verified": true,
		"updated_at":  now,
	}
	switch authType {
	case models.AuthTypeEmail:
		updates["email_verify"] = now
	case models.AuthTypeMobile:
		updates["mobile_verify"] = now
	}

	err := s.DB.WithContext(ctx).Model(account).Updates(updates).Error
	if err != nil {
		return err
	}
	account.IsVerified = true
	switch authType {
	case models.AuthTypeEmail:
		account.EmailVerify = &now
	case models.AuthTypeMobile:
		account.MobileVerify = &now
	}
	return nil
}

func (s *Store) ListAccounts(ctx context.Context) ([]models.Account, error) {
	var accounts []models.Account
	if err := s.DB.WithContext(ctx).Order("id ASC").Find(&accounts).Error; err != nil {
		return nil, err
	}
	return accounts, nil
}

func (s *Store) CreateAccountLog(ctx context.Context, entry *models.AccountLog) error {
	return s.DB.WithContext(ctx).Create(entry).Error
}
