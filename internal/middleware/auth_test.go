package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/soniq/shop-backend/internal/models"
	"github.com/soniq/shop-backend/internal/repo"
	"github.com/soniq/shop-backend/internal/tokens"
	"github.com/soniq/shop-backend/internal/uid"
)

var testSecret = []byte("test-jwt-secret")

func initTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to connect to in-memory db: %v", err)
	}
	if err := db.AutoMigrate(&models.Account{}); err != nil {
		t.Fatalf("failed to migrate tables: %v", err)
	}
	return db
}

func seedAccount(t *testing.T, db *gorm.DB, role string) *models.Account {
	t.Helper()
	email := role + "@example.com"
	account := models.Account{
		UID:          uid.New(),
		AuthType:     models.AuthTypeEmail,
		Email:        &email,
		PasswordHash: "x",
		RoleName:     role,
		IsVerified:   true,
	}
	require.NoError(t, db.Create(&account).Error)
	return &account
}

func bearerContext(e *echo.Echo, token string) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func okHandler(c echo.Context) error { return c.NoContent(http.StatusOK) }

func TestAuthenticate_LoadsAccount(t *testing.T) {
	db := initTestDB(t)
	account := seedAccount(t, db, models.RoleCustomer)
	m := NewAuth(repo.NewStore(db), testSecret)
	e := echo.New()

	token, err := tokens.SignAccessToken(account.ID, account.UID, account.RoleName, testSecret)
	require.NoError(t, err)

	c, rec := bearerContext(e, token)
	handler := m.Authenticate(func(c echo.Context) error {
		loaded := AccountFromContext(c)
		require.NotNil(t, loaded)
		assert.Equal(t, account.UID, loaded.UID)
		return c.NoContent(http.StatusOK)
	})
	require.NoError(t, handler(c))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAuthenticate_RejectsMissingAndBadTokens(t *testing.T) {
	db := initTestDB(t)
	m := NewAuth(repo.NewStore(db), testSecret)
	e := echo.New()

	for _, token := range []string{"", "garbage"} {
		c, _ := bearerContext(e, token)
		err := m.Authenticate(okHandler)(c)
		he, ok := err.(*echo.HTTPError)
		require.True(t, ok)
		assert.Equal(t, http.StatusUnauthorized, he.Code)
	}
}

func TestAuthenticate_RejectsDeletedAccount(t *testing.T) {
	db := initTestDB(t)
	account := seedAccount(t, db, models.RoleCustomer)
	m := NewAuth(repo.NewStore(db), testSecret)
	e := echo.New()

	token, err := tokens.SignAccessToken(account.ID, account.UID, account.RoleName, testSecret)
	require.NoError(t, err)
	require.NoError(t, db.Delete(account).Error)

	c, _ := bearerContext(e, token)
	err = m.Authenticate(okHandler)(c)
	he, ok := err.(*echo.HTTPError)
	require.True(t, ok)
	assert.Equal(t, http.StatusUnauthorized, he.Code)
}

func TestRoleGuards(t *testing.T) {
	db := initTestDB(t)
	m := NewAuth(repo.NewStore(db), testSecret)
	e := echo.New()

	cases := []struct {
		role  string
		guard func(echo.HandlerFunc) echo.HandlerFunc
		want  int
	}{
		{models.RoleAdmin, m.AdminOnly, http.StatusOK},
		{models.RoleCustomer, m.AdminOnly, http.StatusForbidden},
		{models.RoleSeller, m.SellerOrAdmin, http.StatusOK},
		{models.RoleAdmin, m.SellerOrAdmin, http.StatusOK},
		{models.RoleCustomer, m.SellerOrAdmin, http.StatusForbidden},
	}
	for _, tc := range cases {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		c.Set("account", &models.Account{UID: uid.New(), RoleName: tc.role})

		err := tc.guard(okHandler)(c)
		if tc.want == http.StatusOK {
			require.NoError(t, err, "role %s", tc.role)
		} else {
			he, ok := err.(*echo.HTTPError)
			require.True(t, ok)
			assert.Equal(t, tc.want, he.Code, "role %s", tc.role)
		}
	}
}

func TestRoleGuard_WithoutAccount(t *testing.T) {
	db := initTestDB(t)
	m := NewAuth(repo.NewStore(db), testSecret)
	e := echo.New()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	c := e.NewContext(req, httptest.NewRecorder())

	err := m.AdminOnly(okHandler)(c)
	he, ok := err.(*echo.HTTPError)
	require.True(t, ok)
	assert.Equal(t, http.StatusUnauthorized, he.Code)
}
