package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/soniq/shop-backend/internal/geoip"
	"github.com/soniq/shop-backend/internal/hash"
	"github.com/soniq/shop-backend/internal/logging"
	"github.com/soniq/shop-backend/internal/mailer"
	"github.com/soniq/shop-backend/internal/models"
	"github.com/soniq/shop-backend/internal/mykafka"
	"github.com/soniq/shop-backend/internal/otp"
	"github.com/soniq/shop-backend/internal/repo"
	"github.com/soniq/shop-backend/internal/session"
	"github.com/soniq/shop-backend/internal/sms"
	"github.com/soniq/shop-backend/internal/uid"
)

// AuthService drives the sign-up / sign-in / verify / refresh flows. It owns
// no state beyond its injected collaborators.
type AuthService struct {
	Store    *repo.Store
	OTP      *otp.Engine
	Sessions *session.Manager
	Mailer   mailer.Mailer
	SMS      sms.Sender
	Geo      geoip.Resolver
	Producer *mykafka.Producer
}

type Device struct {
	ID   string
	Type string
}

type RequestMeta struct {
	IP        string
	UserAgent string
}

type AuthenticateInput struct {
	Action   string
	Identity Identity
	Password string
	Device   Device
	Meta     RequestMeta
}

// pendingAuthType marks a payload as awaiting OTP verification; clients
// branch on it to show the code-entry screen.
const pendingAuthType = "otp"

// PendingUser is the payload returned while an OTP is outstanding.
type PendingUser struct {
	Email       string `json:"email,omitempty"`
	CountryCode string `json:"countryCode,omitempty"`
	Mobile      string `json:"mobile,omitempty"`
	AuthType    string `json:"auth_type"`
	DeviceID    string `json:"device_id,omitempty"`
	DeviceType  string `json:"device_type,omitempty"`
}

type AuthResult struct {
	Success      bool
	Message      string
	Duration     string
	Pending      *PendingUser
	Account      *models.Account
	JWTToken     string
	RefreshToken string
}

// Authenticate is the sign-up-or-sign-in entry point. The outcome is decided
// by (account exists, account verified, requested action); every cell of
// that table has exactly one branch here.
func (s *AuthService) Authenticate(ctx context.Context, in AuthenticateInput) (*AuthResult, error) {
	l := logging.FromContext(ctx).With("svc", "auth.authenticate", "action", in.Action)

	if in.Action != models.ActionSignIn && in.Action != models.ActionSignUp {
		return nil, fmt.Errorf("%w: action is required (sign_in or sign_up)", ErrValidation)
	}

	account, err := s.findAccount(ctx, in.Identity)
	if err != nil && !errors.Is(err, repo.ErrNotFound) {
		return nil, err
	}
	exists := account != nil

	switch {
	case !exists && in.Action == models.ActionSignUp:
		return s.signUpNewAccount(ctx, in)

	case exists && !account.IsVerified && in.Action == models.ActionSignUp:
		// repeated sign_up on an unverified account doubles as resend
		return s.reissueSignUpOtp(ctx, account, in)

	case exists && account.IsVerified && in.Action == models.ActionSignIn:
		return s.signIn(ctx, l, account, in)

	case exists && !account.IsVerified && in.Action == models.ActionSignIn:
		return &AuthResult{
			Success: false,
			Message: "Account exists but is not verified. Please verify using the OTP sent.",
		}, nil

	case !exists && in.Action == models.ActionSignIn:
		return &AuthResult{
			Success: false,
			Message: "Account does not exist. Please sign up first.",
		}, nil

	default: // exists && verified && sign_up
		return &AuthResult{
			Success: false,
			Message: "Account already exists. Please login...",
		}, nil
	}
}

func (s *AuthService) signUpNewAccount(ctx context.Context, in AuthenticateInput) (*AuthResult, error) {
	if in.Password == "" {
		return nil, fmt.Errorf("%w: password is required for new signup", ErrValidation)
	}

	passwordHash, err := hash.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	account := newAccount(in.Identity, passwordHash, uid.New())

	code := models.OtpCode{ActionType: models.ActionSignUp}
	issued, err := s.OTP.Prepare(&code)
	if err != nil {
		return nil, err
	}
	// account row and its first code commit or roll back together
	if err := s.Store.CreateAccountWithOtp(ctx, account, &code); err != nil {
		return nil, err
	}

	s.deliverOtp(ctx, account, issued)
	s.logAccountAction(ctx, account.ID, models.ActionSignUp, in.Meta)
	s.publishEvent(ctx, account, "account_registered")

	return &AuthResult{
		Success:  true,
		Message:  "OTP sent successfully",
		Duration: issued.Duration,
		Pending:  pendingUser(in.Identity, in.Device),
	}, nil
}

func (s *AuthService) reissueSignUpOtp(ctx context.Context, account *models.Account, in AuthenticateInput) (*AuthResult, error) {
	issued, err := s.OTP.Issue(ctx, account, models.ActionSignUp)
	if err != nil {
		return nil, err
	}

	s.deliverOtp(ctx, account, issued)
	s.logAccountAction(ctx, account.ID, models.ActionSignUp, in.Meta)

	return &AuthResult{
		Success:  true,
		Message:  "OTP sent successfully",
		Duration: issued.Duration,
		Pending:  pendingUser(in.Identity, in.Device),
	}, nil
}

func (s *AuthService) signIn(ctx context.Context, l *slog.Logger, account *models.Account, in AuthenticateInput) (*AuthResult, error) {
	if in.Password == "" {
		return nil, fmt.Errorf("%w: password required for login", ErrValidation)
	}

	if !hash.CheckPassword(account.PasswordHash, in.Password) {
		l.Warn("sign in rejected", "reason", "password mismatch", "account_uid", account.UID)
		return &AuthResult{
			Success: false,
			Message: "Invalid email/mobile or password",
		}, nil
	}

	jwtToken, err := s.Sessions.IssueAccessToken(account)
	if err != nil {
		return nil, err
	}
	refreshToken, err := s.Sessions.IssueRefreshToken(ctx, account, in.Device.ID, in.Device.Type, in.Meta.IP)
	if err != nil {
		return nil, err
	}

	s.logAccountAction(ctx, account.ID, models.ActionSignIn, in.Meta)
	s.publishEvent(ctx, account, "account_signed_in")

	return &AuthResult{
		Success:      true,
		Account:      account,
		JWTToken:     jwtToken,
		RefreshToken: refreshToken,
	}, nil
}

type VerifyInput struct {
	Identity Identity
	Otp      string
	Device   Device
	Meta     RequestMeta
}

// VerifyOtp is the authenticate-pass entry point. It doubles as channel
// verification and login: a valid code always yields a fresh token pair.
func (s *AuthService) VerifyOtp(ctx context.Context, in VerifyInput) (*AuthResult, error) {
	account, err := s.findAccount(ctx, in.Identity)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if in.Otp == "" {
		return nil, fmt.Errorf("%w: OTP is required", ErrValidation)
	}

	if _, err := s.OTP.Verify(ctx, account.ID, in.Otp); err != nil {
		return nil, err
	}

	if !account.IsVerified {
		if err := s.Store.MarkAccountVerified(ctx, account, in.Identity.AuthType(), time.Now()); err != nil {
			return nil, err
		}
		s.publishEvent(ctx, account, "account_verified")
	}

	jwtToken, err := s.Sessions.IssueAccessToken(account)
	if err != nil {
		return nil, err
	}
	refreshToken, err := s.Sessions.IssueRefreshToken(ctx, account, in.Device.ID, in.Device.Type, in.Meta.IP)
	if err != nil {
		return nil, err
	}

	s.logAccountAction(ctx, account.ID, models.ActionSignIn, in.Meta)

	return &AuthResult{
		Success:      true,
		Account:      account,
		JWTToken:     jwtToken,
		RefreshToken: refreshToken,
	}, nil
}

// ResendOtp issues a fresh code for a not-yet-verified account.
func (s *AuthService) ResendOtp(ctx context.Context, id Identity) (*AuthResult, error) {
	account, err := s.findAccount(ctx, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if account.IsVerified {
		return nil, ErrAlreadyVerified
	}

	issued, err := s.OTP.Issue(ctx, account, models.ActionSignUp)
	if err != nil {
		return nil, err
	}
	s.deliverOtp(ctx, account, issued)

	return &AuthResult{
		Success:  true,
		Message:  "OTP resent successfully",
		Duration: issued.Duration,
		Pending:  pendingUser(id, Device{}),
	}, nil
}

type RefreshInput struct {
	RefreshToken string
	DeviceID     string
	IP           string
}

type RefreshOutput struct {
	Account      *models.Account
	AccessToken  string
	RefreshToken string
}

func (s *AuthService) Refresh(ctx context.Context, in RefreshInput) (*RefreshOutput, error) {
	if in.RefreshToken == "" || in.DeviceID == "" {
		return nil, fmt.Errorf("%w: missing refreshToken or deviceId", ErrValidation)
	}

	result, err := s.Sessions.Refresh(ctx, in.RefreshToken, in.DeviceID, in.IP)
	if err != nil {
		return nil, err
	}

	return &RefreshOutput{
		Account:      result.Account,
		AccessToken:  result.AccessToken,
		RefreshToken: result.RefreshToken,
	}, nil
}

// Logout revokes the presented refresh token for its device.
func (s *AuthService) Logout(ctx context.Context, in RefreshInput) error {
	if in.RefreshToken == "" || in.DeviceID == "" {
		return fmt.Errorf("%w: missing refreshToken or deviceId", ErrValidation)
	}
	return s.Sessions.Revoke(ctx, in.RefreshToken, in.DeviceID, in.IP)
}

func (s *AuthService) ListAccounts(ctx context.Context) ([]models.Account, error) {
	return s.Store.ListAccounts(ctx)
}

func (s *AuthService) GetAccountByUID(ctx context.Context, accountUID string) (*models.Account, error) {
	account, err := s.Store.FindAccountByUID(ctx, accountUID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return account, nil
}

func pendingUser(id Identity, device Device) *PendingUser {
	user := &PendingUser{
		AuthType:   pendingAuthType,
		DeviceID:   device.ID,
		DeviceType: device.Type,
	}
	switch v := id.(type) {
	case EmailIdentity:
		user.Email = v.Email
	case MobileIdentity:
		user.CountryCode = v.CountryCode
		user.Mobile = v.Mobile
	}
	return user
}
