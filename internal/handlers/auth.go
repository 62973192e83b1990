package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/soniq/shop-backend/internal/models"
	"github.com/soniq/shop-backend/internal/repo"
	"github.com/soniq/shop-backend/internal/service"
	"github.com/soniq/shop-backend/internal/session"
)

type AuthHandler struct {
	Svc *service.AuthService
}

type authenticateRequest struct {
	Action      string `json:"action"       validate:"required,oneof=sign_in sign_up"`
	AuthType    string `json:"auth_type"    validate:"required,oneof=email mobile"`
	Email       string `json:"email"        validate:"omitempty,email"`
	CountryCode string `json:"countryCode"  validate:"omitempty,cc"`
	Mobile      string `json:"mobile"       validate:"omitempty,msisdn"`
	Password    string `json:"password"     validate:"omitempty,min=6"`
	DeviceID    string `json:"device_id"    validate:"required"`
	DeviceType  string `json:"device_type"  validate:"required,oneof=MOBILE TABLET DESKTOP WEB"`
}

type verifyRequest struct {
	AuthType    string `json:"auth_type"   validate:"required,oneof=email mobile"`
	Email       string `json:"email"       validate:"omitempty,email"`
	CountryCode string `json:"countryCode" validate:"omitempty,cc"`
	Mobile      string `json:"mobile"      validate:"omitempty,msisdn"`
	Otp         string `json:"otp"         validate:"required,len=6,numeric"`
	DeviceID    string `json:"device_id"   validate:"required"`
	DeviceType  string `json:"device_type" validate:"required,oneof=MOBILE TABLET DESKTOP WEB"`
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken" validate:"required"`
	DeviceID     string `json:"deviceId"     validate:"required"`
}

type resendRequest struct {
	AuthType    string `json:"auth_type"   validate:"required,oneof=email mobile"`
	Email       string `json:"email"       validate:"omitempty,email"`
	CountryCode string `json:"countryCode" validate:"omitempty,cc"`
	Mobile      string `json:"mobile"      validate:"omitempty,msisdn"`
}

func identityFromRequest(authType, email, countryCode, mobile string) (service.Identity, error) {
	switch authType {
	case models.AuthTypeEmail:
		if email == "" {
			return nil, echo.NewHTTPError(http.StatusBadRequest, "email is required for auth_type email")
		}
		return service.EmailIdentity{Email: email}, nil
	case models.AuthTypeMobile:
		if countryCode == "" || mobile == "" {
			return nil, echo.NewHTTPError(http.StatusBadRequest, "countryCode and mobile are required for auth_type mobile")
		}
		return service.MobileIdentity{CountryCode: countryCode, Mobile: mobile}, nil
	default:
		return nil, echo.NewHTTPError(http.StatusBadRequest, "unsupported auth_type")
	}
}

func mapServiceError(err error) error {
	switch {
	case errors.Is(err, service.ErrValidation):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrAlreadyVerified):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, repo.ErrOtpInvalid):
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid or expired OTP")
	case errors.Is(err, session.ErrInvalidOrExpired):
		return echo.NewHTTPError(http.StatusUnauthorized, "Invalid or expired refresh token")
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}
}

func (h *AuthHandler) Authenticate(c echo.Context) error {
	var req authenticateRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	identity, err := identityFromRequest(req.AuthType, req.Email, req.CountryCode, req.Mobile)
	if err != nil {
		return err
	}

	res, err := h.Svc.Authenticate(c.Request().Context(), service.AuthenticateInput{
		Action:   req.Action,
		Identity: identity,
		Password: req.Password,
		Device:   service.Device{ID: req.DeviceID, Type: req.DeviceType},
		Meta:     requestMeta(c),
	})
	if err != nil {
		return mapServiceError(err)
	}

	if res.RefreshToken != "" {
		setRefreshCookie(c, res.RefreshToken)
	}

	body := echo.Map{"success": res.Success}
	if res.Message != "" {
		body["message"] = res.Message
	}
	if res.Duration != "" {
		body["duration"] = res.Duration
	}
	if res.Pending != nil {
		body["user"] = res.Pending
	}
	if res.Account != nil {
		body["user"] = res.Account
		body["jwt_token"] = res.JWTToken
		body["refresh_token"] = res.RefreshToken
	}
	return c.JSON(http.StatusOK, body)
}

func (h *AuthHandler) AuthenticatePass(c echo.Context) error {
	var req verifyRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	identity, err := identityFromRequest(req.AuthType, req.Email, req.CountryCode, req.Mobile)
	if err != nil {
		return err
	}

	res, err := h.Svc.VerifyOtp(c.Request().Context(), service.VerifyInput{
		Identity: identity,
		Otp:      req.Otp,
		Device:   service.Device{ID: req.DeviceID, Type: req.DeviceType},
		Meta:     requestMeta(c),
	})
	if err != nil {
		return mapServiceError(err)
	}

	setRefreshCookie(c, res.RefreshToken)

	return c.JSON(http.StatusOK, echo.Map{
		"success":       true,
		"user":          res.Account,
		"jwt_token":     res.JWTToken,
		"refresh_token": res.RefreshToken,
	})
}

func (h *AuthHandler) RefreshToken(c echo.Context) error {
	var req refreshRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	// the cookie is the usual carrier, the body field a fallback for
	// non-browser clients
	if req.RefreshToken == "" {
		if cookie, err := c.Cookie(refreshCookieName); err == nil {
			req.RefreshToken = cookie.Value
		}
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	out, err := h.Svc.Refresh(c.Request().Context(), service.RefreshInput{
		RefreshToken: req.RefreshToken,
		DeviceID:     req.DeviceID,
		IP:           c.RealIP(),
	})
	if err != nil {
		return mapServiceError(err)
	}

	var rotated interface{}
	if out.RefreshToken != "" {
		setRefreshCookie(c, out.RefreshToken)
		rotated = out.RefreshToken
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success":      true,
		"account":      out.Account,
		"accessToken":  out.AccessToken,
		"refreshToken": rotated,
	})
}

func (h *AuthHandler) Logout(c echo.Context) error {
	var req refreshRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if req.RefreshToken == "" {
		if cookie, err := c.Cookie(refreshCookieName); err == nil {
			req.RefreshToken = cookie.Value
		}
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	err := h.Svc.Logout(c.Request().Context(), service.RefreshInput{
		RefreshToken: req.RefreshToken,
		DeviceID:     req.DeviceID,
		IP:           c.RealIP(),
	})
	if err != nil {
		return mapServiceError(err)
	}

	c.SetCookie(CreateRefreshCookie("", time.Now().Add(-time.Hour)))
	return c.JSON(http.StatusOK, echo.Map{"success": true, "message": "logged out"})
}

func (h *AuthHandler) ResendOtp(c echo.Context) error {
	var req resendRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	identity, err := identityFromRequest(req.AuthType, req.Email, req.CountryCode, req.Mobile)
	if err != nil {
		return err
	}

	res, err := h.Svc.ResendOtp(c.Request().Context(), identity)
	if err != nil {
		return mapServiceError(err)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success":  true,
		"message":  res.Message,
		"duration": res.Duration,
		"user":     res.Pending,
	})
}

func (h *AuthHandler) ListAccounts(c echo.Context) error {
	accounts, err := h.Svc.ListAccounts(c.Request().Context())
	if err != nil {
		return mapServiceError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "users": accounts})
}

func (h *AuthHandler) GetAccount(c echo.Context) error {
	account, err := h.Svc.GetAccountByUID(c.Request().Context(), c.Param("uid"))
	if err != nil {
		return mapServiceError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "user": account})
}
