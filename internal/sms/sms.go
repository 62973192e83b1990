package sms

import "log/slog"

// Sender delivers one-time codes to mobile numbers. The production gateway
// is deployment-specific, so the default implementation only logs.
type Sender interface {
	Send(countryCode, phoneNumber, message string) error
}

type NoopSender struct {
	Logger *slog.Logger
}

func (s *NoopSender) Send(countryCode, phoneNumber, message string) error {
	if s.Logger != nil {
		s.Logger.Info("sms delivery skipped: no gateway configured",
			"country_code", countryCode, "phone_number", phoneNumber)
	}
	return nil
}
