package handlers

import (
	"net/http"
	"regexp"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/soniq/shop-backend/internal/service"
	"github.com/soniq/shop-backend/internal/session"
)

var (
	countryCodeRe = regexp.MustCompile(`^0\d{1,3}$`)
	msisdnRe      = regexp.MustCompile(`^\d{4,15}$`)
)

// RequestValidator plugs go-playground/validator into echo's c.Validate.
type RequestValidator struct {
	validate *validator.Validate
}

func NewRequestValidator() *RequestValidator {
	v := validator.New()
	// cc: dialing code with leading zero, e.g. 091
	v.RegisterValidation("cc", func(fl validator.FieldLevel) bool {
		return countryCodeRe.MatchString(fl.Field().String())
	})
	v.RegisterValidation("msisdn", func(fl validator.FieldLevel) bool {
		return msisdnRe.MatchString(fl.Field().String())
	})
	return &RequestValidator{validate: v}
}

func (v *RequestValidator) Validate(i interface{}) error {
	if err := v.validate.Struct(i); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return nil
}

const refreshCookieName = "refreshToken"

func CreateRefreshCookie(value string, expires time.Time) *http.Cookie {
	return &http.Cookie{
		Name:     refreshCookieName,
		Value:    value,
		Path:     "/",
		Expires:  expires,
		MaxAge:   int(time.Until(expires).Seconds()),
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteStrictMode,
	}
}

func setRefreshCookie(c echo.Context, token string) {
	c.SetCookie(CreateRefreshCookie(token, time.Now().Add(session.RefreshTokenTTL)))
}

func requestMeta(c echo.Context) service.RequestMeta {
	return service.RequestMeta{
		IP:        c.RealIP(),
		UserAgent: c.Request().UserAgent(),
	}
}
