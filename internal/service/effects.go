package service

import (
	"context"
	"net"
	"time"

	"github.com/soniq/shop-backend/internal/logging"
	"github.com/soniq/shop-backend/internal/mailer"
	"github.com/soniq/shop-backend/internal/models"
	"github.com/soniq/shop-backend/internal/otp"
)

// The helpers below are best effort: a failed email, SMS, geo lookup, audit
// row or kafka publish is logged and swallowed, never surfaced to the caller.

func (s *AuthService) deliverOtp(ctx context.Context, account *models.Account, issued *otp.Issued) {
	l := logging.FromContext(ctx)

	if account.Email != nil && *account.Email != "" {
		if s.Mailer == nil {
			l.Warn("otp email skipped: no mailer configured", "account_uid", account.UID)
			return
		}
		body, err := mailer.RenderOtpEmail(issued.Code, issued.Duration)
		if err == nil {
			err = s.Mailer.Send(*account.Email, mailer.OtpSubject, body)
		}
		if err != nil {
			l.Error("otp email delivery failed", "error", err, "account_uid", account.UID)
		}
		return
	}

	if account.PhoneNumber != nil && *account.PhoneNumber != "" {
		if s.SMS == nil {
			l.Warn("otp sms skipped: no sender configured", "account_uid", account.UID)
			return
		}
		cc := ""
		if account.CountryCode != nil {
			cc = *account.CountryCode
		}
		if err := s.SMS.Send(cc, *account.PhoneNumber, "Your OTP code is "+issued.Code); err != nil {
			l.Error("otp sms delivery failed", "error", err, "account_uid", account.UID)
		}
	}
}

func (s *AuthService) logAccountAction(ctx context.Context, accountID uint, action string, meta RequestMeta) {
	l := logging.FromContext(ctx)

	location := ""
	if s.Geo != nil && !isLoopback(meta.IP) {
		loc, err := s.Geo.Lookup(ctx, meta.IP)
		if err != nil {
			l.Warn("geo lookup failed", "error", err, "ip", meta.IP)
		} else {
			location = loc
		}
	}

	record := models.AccountLog{
		UserID:     accountID,
		Action:     action,
		IPAddress:  meta.IP,
		DeviceInfo: meta.UserAgent,
		Location:   location,
		CreatedAt:  time.Now(),
	}
	if err := s.Store.CreateAccountLog(ctx, &record); err != nil {
		l.Error("account log write failed", "error", err, "account_id", accountID)
	}
}

func (s *AuthService) publishEvent(ctx context.Context, account *models.Account, event string) {
	if s.Producer == nil {
		return
	}
	payload := map[string]any{
		"event":       event,
		"account_uid": account.UID,
		"role":        account.RoleName,
		"occurred_at": time.Now().UTC(),
	}
	if err := s.Producer.PublishEvent(ctx, "account-events", account.UID, payload); err != nil {
		logging.FromContext(ctx).Error("kafka publish failed", "error", err, "event", event)
	}
}

func isLoopback(ip string) bool {
	if ip == "" {
		return true
	}
	parsed := net.ParseIP(ip)
	return parsed != nil && parsed.IsLoopback()
}
