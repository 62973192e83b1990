package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/soniq/shop-backend/internal/models"
	"github.com/soniq/shop-backend/internal/repo"
	"github.com/soniq/shop-backend/internal/tokens"
)

const accountKey = "account"

type Auth struct {
	Store     *repo.Store
	JWTSecret []byte
}

func NewAuth(store *repo.Store, secret []byte) *Auth {
	return &Auth{Store: store, JWTSecret: secret}
}

// Authenticate checks the Bearer token and loads the account behind it into
// the request context.
func (m *Auth) Authenticate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		header := c.Request().Header.Get(echo.HeaderAuthorization)
		if !strings.HasPrefix(header, "Bearer ") {
			return echo.NewHTTPError(http.StatusUnauthorized, "missing bearer token")
		}

		claims, err := tokens.ParseAccessToken(strings.TrimPrefix(header, "Bearer "), m.JWTSecret)
		if err != nil {
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid or expired token")
		}

		account, err := m.Store.FindAccountByID(c.Request().Context(), claims.AccountID)
		if err != nil {
			return echo.NewHTTPError(http.StatusUnauthorized, "account no longer exists")
		}

		c.Set(accountKey, account)
		return next(c)
	}
}

func (m *Auth) AdminOnly(next echo.HandlerFunc) echo.HandlerFunc {
	return m.requireRole(next, models.RoleAdmin)
}

func (m *Auth) SellerOrAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return m.requireRole(next, models.RoleSeller, models.RoleAdmin)
}

func (m *Auth) requireRole(next echo.HandlerFunc, roles ...string) echo.HandlerFunc {
	return func(c echo.Context) error {
		account := AccountFromContext(c)
		if account == nil {
			return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
		}
		for _, role := range roles {
			if account.RoleName == role {
				return next(c)
			}
		}
		return echo.NewHTTPError(http.StatusForbidden, "insufficient role")
	}
}

func AccountFromContext(c echo.Context) *models.Account {
	account, _ := c.Get(accountKey).(*models.Account)
	return account
}
