package service

import (
	"context"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/soniq/shop-backend/internal/models"
	"github.com/soniq/shop-backend/internal/otp"
	"github.com/soniq/shop-backend/internal/repo"
	"github.com/soniq/shop-backend/internal/session"
)

const (
	testEmail    = "buyer@example.com"
	testPassword = "hunter2!"
	testDeviceID = "device-abc"
	testIP       = "203.0.113.9"
)

type recordingMailer struct {
	sent []string
}

func (m *recordingMailer) Send(to, subject, html string) error {
	m.sent = append(m.sent, to)
	return nil
}

func initTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to connect to in-memory db: %v", err)
	}
	err = db.AutoMigrate(
		&models.Account{},
		&models.OtpCode{},
		&models.RefreshToken{},
		&models.AccountLog{},
	)
	if err != nil {
		t.Fatalf("failed to migrate tables: %v", err)
	}
	return db
}

func newTestService(t *testing.T) (*AuthService, *gorm.DB, *recordingMailer) {
	db := initTestDB(t)
	store := repo.NewStore(db)
	m := &recordingMailer{}
	svc := &AuthService{
		Store:    store,
		OTP:      &otp.Engine{Store: store},
		Sessions: &session.Manager{Store: store, JWTSecret: []byte("test-jwt-secret")},
		Mailer:   m,
	}
	return svc, db, m
}

func emailSignUp() AuthenticateInput {
	return AuthenticateInput{
		Action:   models.ActionSignUp,
		Identity: EmailIdentity{Email: testEmail},
		Password: testPassword,
		Device:   Device{ID: testDeviceID, Type: "WEB"},
		Meta:     RequestMeta{IP: testIP, UserAgent: "go-test"},
	}
}

func emailSignIn() AuthenticateInput {
	in := emailSignUp()
	in.Action = models.ActionSignIn
	return in
}

// latestOtp reads the code straight out of the table; the tests stand in for
// the email recipient.
func latestOtp(t *testing.T, db *gorm.DB, accountID uint) string {
	var row models.OtpCode
	require.NoError(t, db.Where("user_id = ?", accountID).Order("id desc").First(&row).Error)
	return row.Otp
}

func accountByEmail(t *testing.T, db *gorm.DB) *models.Account {
	var account models.Account
	require.NoError(t, db.Where("email = ?", testEmail).First(&account).Error)
	return &account
}

func TestAuthenticate_SignUpCreatesUnverifiedAccountAndOtp(t *testing.T) {
	svc, db, m := newTestService(t)

	res, err := svc.Authenticate(context.Background(), emailSignUp())
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Equal(t, "OTP sent successfully", res.Message)
	assert.NotEmpty(t, res.Duration)
	require.NotNil(t, res.Pending)
	assert.Equal(t, testEmail, res.Pending.Email)
	assert.Equal(t, "otp", res.Pending.AuthType, "pending payloads are marked awaiting verification")
	assert.Empty(t, res.JWTToken, "no tokens before verification")

	account := accountByEmail(t, db)
	assert.False(t, account.IsVerified)
	assert.Equal(t, models.RoleCustomer, account.RoleName)
	assert.NotEqual(t, testPassword, account.PasswordHash)

	code := latestOtp(t, db, account.ID)
	assert.Len(t, code, otp.CodeLength)
	assert.Equal(t, []string{testEmail}, m.sent)
}

func TestAuthenticate_SignInWithoutAccount(t *testing.T) {
	svc, _, _ := newTestService(t)

	res, err := svc.Authenticate(context.Background(), emailSignIn())
	require.NoError(t, err)
	assert.False(t, res.Success)
	assert.Equal(t, "Account does not exist. Please sign up first.", res.Message)
}

func TestAuthenticate_SignInBeforeVerification(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, err := svc.Authenticate(context.Background(), emailSignUp())
	require.NoError(t, err)

	res, err := svc.Authenticate(context.Background(), emailSignIn())
	require.NoError(t, err)
	assert.False(t, res.Success)
	assert.Contains(t, res.Message, "not verified")
}

func TestAuthenticate_RepeatedSignUpResendsOtp(t *testing.T) {
	svc, db, m := newTestService(t)

	_, err := svc.Authenticate(context.Background(), emailSignUp())
	require.NoError(t, err)

	res, err := svc.Authenticate(context.Background(), emailSignUp())
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Equal(t, "OTP sent successfully", res.Message)

	var accounts int64
	require.NoError(t, db.Model(&models.Account{}).Count(&accounts).Error)
	assert.EqualValues(t, 1, accounts, "resend must not create a second account")

	var codes int64
	require.NoError(t, db.Model(&models.OtpCode{}).Count(&codes).Error)
	assert.EqualValues(t, 2, codes, "each send inserts a fresh code")
	assert.Len(t, m.sent, 2)
}

func TestVerifyOtp_VerifiesAndIssuesTokens(t *testing.T) {
	svc, db, _ := newTestService(t)

	_, err := svc.Authenticate(context.Background(), emailSignUp())
	require.NoError(t, err)
	account := accountByEmail(t, db)

	res, err := svc.VerifyOtp(context.Background(), VerifyInput{
		Identity: EmailIdentity{Email: testEmail},
		Otp:      latestOtp(t, db, account.ID),
		Device:   Device{ID: testDeviceID, Type: "WEB"},
		Meta:     RequestMeta{IP: testIP},
	})
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.NotEmpty(t, res.JWTToken)
	assert.NotEmpty(t, res.RefreshToken)

	account = accountByEmail(t, db)
	assert.True(t, account.IsVerified)
	assert.NotNil(t, account.EmailVerify)
}

func TestVerifyOtp_WrongCode(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, err := svc.Authenticate(context.Background(), emailSignUp())
	require.NoError(t, err)

	_, err = svc.VerifyOtp(context.Background(), VerifyInput{
		Identity: EmailIdentity{Email: testEmail},
		Otp:      "000000",
		Device:   Device{ID: testDeviceID},
	})
	assert.ErrorIs(t, err, repo.ErrOtpInvalid)
}

func TestVerifyOtp_UnknownAccount(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, err := svc.VerifyOtp(context.Background(), VerifyInput{
		Identity: EmailIdentity{Email: "nobody@example.com"},
		Otp:      "123456",
	})
	assert.ErrorIs(t, err, ErrNotFound)
}

func verifiedAccount(t *testing.T, svc *AuthService, db *gorm.DB) *models.Account {
	t.Helper()
	_, err := svc.Authenticate(context.Background(), emailSignUp())
	require.NoError(t, err)
	account := accountByEmail(t, db)
	_, err = svc.VerifyOtp(context.Background(), VerifyInput{
		Identity: EmailIdentity{Email: testEmail},
		Otp:      latestOtp(t, db, account.ID),
		Device:   Device{ID: testDeviceID, Type: "WEB"},
		Meta:     RequestMeta{IP: testIP},
	})
	require.NoError(t, err)
	return accountByEmail(t, db)
}

func TestAuthenticate_SignInAfterVerification(t *testing.T) {
	svc, db, _ := newTestService(t)
	verifiedAccount(t, svc, db)

	res, err := svc.Authenticate(context.Background(), emailSignIn())
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.NotEmpty(t, res.JWTToken)
	assert.NotEmpty(t, res.RefreshToken)
	require.NotNil(t, res.Account)
	assert.Equal(t, testEmail, *res.Account.Email)
}

func TestAuthenticate_SignInWrongPassword(t *testing.T) {
	svc, db, _ := newTestService(t)
	verifiedAccount(t, svc, db)

	in := emailSignIn()
	in.Password = "wrong-password"
	res, err := svc.Authenticate(context.Background(), in)
	require.NoError(t, err)
	assert.False(t, res.Success)
	assert.Empty(t, res.JWTToken)
}

func TestAuthenticate_SignUpOnVerifiedAccount(t *testing.T) {
	svc, db, _ := newTestService(t)
	verifiedAccount(t, svc, db)

	res, err := svc.Authenticate(context.Background(), emailSignUp())
	require.NoError(t, err)
	assert.False(t, res.Success)
	assert.Contains(t, res.Message, "Please login")
}

func TestAuthenticate_MobileSignUp(t *testing.T) {
	svc, db, m := newTestService(t)

	in := AuthenticateInput{
		Action:   models.ActionSignUp,
		Identity: MobileIdentity{CountryCode: "091", Mobile: "7700900123"},
		Password: testPassword,
		Device:   Device{ID: testDeviceID, Type: "MOBILE"},
		Meta:     RequestMeta{IP: testIP},
	}
	res, err := svc.Authenticate(context.Background(), in)
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Equal(t, "7700900123", res.Pending.Mobile)

	var account models.Account
	require.NoError(t, db.Where("phone_number = ?", "7700900123").First(&account).Error)
	assert.Equal(t, models.AuthTypeMobile, account.AuthType)
	assert.Empty(t, m.sent, "a mobile signup sends no email")
}

func TestRefresh_ReturnsNewAccessToken(t *testing.T) {
	svc, db, _ := newTestService(t)
	verifiedAccount(t, svc, db)

	res, err := svc.Authenticate(context.Background(), emailSignIn())
	require.NoError(t, err)

	out, err := svc.Refresh(context.Background(), RefreshInput{
		RefreshToken: res.RefreshToken,
		DeviceID:     testDeviceID,
		IP:           testIP,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, out.AccessToken)
	assert.Empty(t, out.RefreshToken, "a fresh token is not rotated")
	assert.Equal(t, testEmail, *out.Account.Email)
}

func TestRefresh_RejectsWrongDevice(t *testing.T) {
	svc, db, _ := newTestService(t)
	verifiedAccount(t, svc, db)

	res, err := svc.Authenticate(context.Background(), emailSignIn())
	require.NoError(t, err)

	_, err = svc.Refresh(context.Background(), RefreshInput{
		RefreshToken: res.RefreshToken,
		DeviceID:     "some-other-device",
		IP:           testIP,
	})
	assert.ErrorIs(t, err, session.ErrInvalidOrExpired)
}

func TestResendOtp_OnVerifiedAccount(t *testing.T) {
	svc, db, _ := newTestService(t)
	verifiedAccount(t, svc, db)

	_, err := svc.ResendOtp(context.Background(), EmailIdentity{Email: testEmail})
	assert.ErrorIs(t, err, ErrAlreadyVerified)
}

func TestResendOtp_IssuesFreshCode(t *testing.T) {
	svc, db, _ := newTestService(t)

	_, err := svc.Authenticate(context.Background(), emailSignUp())
	require.NoError(t, err)
	account := accountByEmail(t, db)
	first := latestOtp(t, db, account.ID)

	res, err := svc.ResendOtp(context.Background(), EmailIdentity{Email: testEmail})
	require.NoError(t, err)
	assert.True(t, res.Success)

	second := latestOtp(t, db, account.ID)
	assert.NotEqual(t, first, second)

	// the earlier code stays valid until used or expired
	_, err = svc.VerifyOtp(context.Background(), VerifyInput{
		Identity: EmailIdentity{Email: testEmail},
		Otp:      first,
		Device:   Device{ID: testDeviceID},
	})
	assert.NoError(t, err)
}

func TestAuthenticate_RejectsUnknownAction(t *testing.T) {
	svc, _, _ := newTestService(t)

	in := emailSignUp()
	in.Action = "reset"
	_, err := svc.Authenticate(context.Background(), in)
	assert.ErrorIs(t, err, ErrValidation)
}
