package otp

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"time"

	"github.com/soniq/shop-backend/internal/models"
	"github.com/soniq/shop-backend/internal/repo"
)

const (
	CodeLength = 6
	TTL        = 3 * time.Minute
)

// Engine issues and validates one-time codes. Issuing never invalidates
// earlier codes: every request inserts a fresh row and each outstanding row
// stays independently verifiable until it is used or expires.
type Engine struct {
	Store *repo.Store
}

type Issued struct {
	Code      string
	Duration  string
	ExpiresAt time.Time
}

func (e *Engine) Issue(ctx context.Context, account *models.Account, actionType string) (*Issued, error) {
	code, err := randomCode()
	if err != nil {
		return nil, err
	}

	now := time.Now()
	expiresAt := now.Add(TTL)

	record := models.OtpCode{
		UserID:     account.ID,
		Otp:        code,
		ActionType: actionType,
		IsVerified: false,
		Attempts:   0,
		ExpiresAt:  expiresAt,
	}
	if err := e.Store.CreateOtp(ctx, &record); err != nil {
		return nil, err
	}

	return &Issued{
		Code:      code,
		Duration:  formatDuration(expiresAt.Sub(now)),
		ExpiresAt: expiresAt,
	}, nil
}

// Prepare fills record with a fresh code and expiry without persisting it,
// for callers that insert the row inside a larger transaction.
func (e *Engine) Prepare(record *models.OtpCode) (*Issued, error) {
	code, err := randomCode()
	if err != nil {
		return nil, err
	}

	now := time.Now()
	record.Otp = code
	record.IsVerified = false
	record.Attempts = 0
	record.ExpiresAt = now.Add(TTL)

	return &Issued{
		Code:      code,
		Duration:  formatDuration(TTL),
		ExpiresAt: record.ExpiresAt,
	}, nil
}

// Verify reports one failure for every miss: wrong code, expired code and
// unknown code are indistinguishable to the caller.
func (e *Engine) Verify(ctx context.Context, accountID uint, code string) (*models.OtpCode, error) {
	return e.Store.ConsumeOtp(ctx, accountID, code, time.Now())
}

func randomCode() (string, error) {
	max := big.NewInt(1)
	for i := 0; i < CodeLength; i++ {
		max.Mul(max, big.NewInt(10))
	}
	n, err := rand.Int(rand.Reader, max)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%0*d", CodeLength, n), nil
}

// formatDuration renders "3:00 minutes" style strings for user messages.
func formatDuration(d time.Duration) string {
	total := int(d.Seconds())
	return fmt.Sprintf("%d:%02d minutes", total/60, total%60)
}
