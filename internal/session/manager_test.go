package session

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/soniq/shop-backend/internal/models"
	"github.com/soniq/shop-backend/internal/repo"
	"github.com/soniq/shop-backend/internal/tokens"
	"github.com/soniq/shop-backend/internal/uid"
)

const (
	testDevice = "device-1"
	testIP     = "203.0.113.7"
)

func initTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to connect to in-memory db: %v", err)
	}
	if err := db.AutoMigrate(&models.Account{}, &models.RefreshToken{}); err != nil {
		t.Fatalf("failed to migrate tables: %v", err)
	}
	return db
}

func newTestManager(t *testing.T) (*Manager, *gorm.DB, *models.Account) {
	db := initTestDB(t)
	email := "session@example.com"
	account := models.Account{
		UID:          uid.New(),
		AuthType:     models.AuthTypeEmail,
		Email:        &email,
		PasswordHash: "x",
		RoleName:     models.RoleCustomer,
		IsVerified:   true,
	}
	require.NoError(t, db.Create(&account).Error)

	m := &Manager{Store: repo.NewStore(db), JWTSecret: []byte("test-jwt-secret")}
	return m, db, &account
}

func TestManager_IssueRefreshToken_StoresHashOnly(t *testing.T) {
	m, db, account := newTestManager(t)

	secret, err := m.IssueRefreshToken(context.Background(), account, testDevice, "WEB", testIP)
	require.NoError(t, err)
	require.NotEmpty(t, secret)

	var row models.RefreshToken
	require.NoError(t, db.First(&row).Error)
	assert.NotEqual(t, secret, row.Token)
	assert.Equal(t, tokens.Sha256Hex(secret), row.Token)
	assert.Equal(t, testDevice, row.DeviceID)
	assert.Equal(t, testIP, row.CreatedByIP)
	assert.WithinDuration(t, time.Now().Add(RefreshTokenTTL), row.ExpiresAt, 2*time.Second)
}

func TestManager_Refresh_NoRotationOutsideThreshold(t *testing.T) {
	m, db, account := newTestManager(t)

	secret, err := m.IssueRefreshToken(context.Background(), account, testDevice, "WEB", testIP)
	require.NoError(t, err)

	result, err := m.Refresh(context.Background(), secret, testDevice, testIP)
	require.NoError(t, err)
	assert.NotEmpty(t, result.AccessToken)
	assert.Empty(t, result.RefreshToken)
	assert.Equal(t, account.ID, result.Account.ID)

	// the presented token remains valid
	var row models.RefreshToken
	require.NoError(t, db.First(&row).Error)
	assert.False(t, row.IsRevoked)

	again, err := m.Refresh(context.Background(), secret, testDevice, testIP)
	require.NoError(t, err)
	assert.NotEmpty(t, again.AccessToken)
}

func TestManager_Refresh_RotatesInsideThreshold(t *testing.T) {
	m, db, account := newTestManager(t)

	secret, err := m.IssueRefreshToken(context.Background(), account, testDevice, "WEB", testIP)
	require.NoError(t, err)

	require.NoError(t, db.Model(&models.RefreshToken{}).
		Where("token = ?", tokens.Sha256Hex(secret)).
		Update("expires_at", time.Now().Add(24*time.Hour)).Error)

	result, err := m.Refresh(context.Background(), secret, testDevice, "198.51.100.9")
	require.NoError(t, err)
	require.NotEmpty(t, result.RefreshToken)
	assert.NotEqual(t, secret, result.RefreshToken)

	var old models.RefreshToken
	require.NoError(t, db.Where("token = ?", tokens.Sha256Hex(secret)).First(&old).Error)
	assert.True(t, old.IsRevoked)
	require.NotNil(t, old.RevokedAt)
	assert.Equal(t, "198.51.100.9", old.RevokedByIP)
	assert.Equal(t, tokens.Sha256Hex(result.RefreshToken), old.ReplacedByToken)

	var successor models.RefreshToken
	require.NoError(t, db.Where("token = ?", tokens.Sha256Hex(result.RefreshToken)).First(&successor).Error)
	assert.False(t, successor.IsRevoked)
	assert.Equal(t, testDevice, successor.DeviceID)
	assert.WithinDuration(t, time.Now().Add(RefreshTokenTTL), successor.ExpiresAt, 2*time.Second)

	// the revoked token no longer refreshes
	_, err = m.Refresh(context.Background(), secret, testDevice, testIP)
	assert.ErrorIs(t, err, ErrInvalidOrExpired)
}

func TestManager_Refresh_ExpiredAlwaysFails(t *testing.T) {
	m, db, account := newTestManager(t)

	secret, err := m.IssueRefreshToken(context.Background(), account, testDevice, "WEB", testIP)
	require.NoError(t, err)

	require.NoError(t, db.Model(&models.RefreshToken{}).
		Where("token = ?", tokens.Sha256Hex(secret)).
		Update("expires_at", time.Now().Add(-time.Minute)).Error)

	_, err = m.Refresh(context.Background(), secret, testDevice, testIP)
	assert.ErrorIs(t, err, ErrInvalidOrExpired)
}

func TestManager_Refresh_WrongDeviceFails(t *testing.T) {
	m, _, account := newTestManager(t)

	secret, err := m.IssueRefreshToken(context.Background(), account, testDevice, "WEB", testIP)
	require.NoError(t, err)

	_, err = m.Refresh(context.Background(), secret, "other-device", testIP)
	assert.ErrorIs(t, err, ErrInvalidOrExpired)
}

func TestManager_Refresh_ConcurrentRotationSingleWinner(t *testing.T) {
	m, db, account := newTestManager(t)

	secret, err := m.IssueRefreshToken(context.Background(), account, testDevice, "WEB", testIP)
	require.NoError(t, err)
	require.NoError(t, db.Model(&models.RefreshToken{}).
		Where("token = ?", tokens.Sha256Hex(secret)).
		Update("expires_at", time.Now().Add(12*time.Hour)).Error)

	const callers = 4
	var wg sync.WaitGroup
	results := make([]*RefreshResult, callers)
	errs := make([]error, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = m.Refresh(context.Background(), secret, testDevice, testIP)
		}(i)
	}
	wg.Wait()

	rotations := 0
	for i := range results {
		if errs[i] == nil && results[i].RefreshToken != "" {
			rotations++
		}
	}
	assert.Equal(t, 1, rotations)

	var active int64
	require.NoError(t, db.Model(&models.RefreshToken{}).
		Where("is_revoked = ?", false).Count(&active).Error)
	assert.EqualValues(t, 1, active)
}

func TestManager_Revoke(t *testing.T) {
	m, db, account := newTestManager(t)

	secret, err := m.IssueRefreshToken(context.Background(), account, testDevice, "WEB", testIP)
	require.NoError(t, err)

	require.NoError(t, m.Revoke(context.Background(), secret, testDevice, testIP))

	var row models.RefreshToken
	require.NoError(t, db.First(&row).Error)
	assert.True(t, row.IsRevoked)
	assert.Equal(t, testIP, row.RevokedByIP)

	_, err = m.Refresh(context.Background(), secret, testDevice, testIP)
	assert.ErrorIs(t, err, ErrInvalidOrExpired)
}
