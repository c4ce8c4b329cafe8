package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopmobile/storefront_bff/internal/adapters/mailer"
	"github.com/shopmobile/storefront_bff/internal/apperrors"
	"github.com/shopmobile/storefront_bff/internal/core/domain"
	"github.com/shopmobile/storefront_bff/internal/core/ports/gateways"
	portsrepo "github.com/shopmobile/storefront_bff/internal/core/ports/repositories"
	portssvc "github.com/shopmobile/storefront_bff/internal/core/ports/services"
	"github.com/shopmobile/storefront_bff/internal/middleware"
	"github.com/shopmobile/storefront_bff/internal/utils"
)

// AuthService orchestrates the OTP and session lifecycle. It owns expiry
// policy: the repositories hand back rows as stored and this layer decides
// what is still usable.
type AuthService struct {
	otpRepo     portsrepo.OTPRepository
	sessionRepo portsrepo.SessionRepository
	userRepo    portsrepo.UserRepositoryFacade
	identitySvc portssvc.IdentitySvcFacade
	gateway     gateways.CustomerGateway
	mailSender  gateways.Mailer

	sessionSecret string
	sessionExpiry time.Duration
	sessionIssuer string
	otpExpiry     time.Duration
}

func NewAuthService(
	otpRepo portsrepo.OTPRepository,
	sessionRepo portsrepo.SessionRepository,
	userRepo portsrepo.UserRepositoryFacade,
	identitySvc portssvc.IdentitySvcFacade,
	gateway gateways.CustomerGateway,
	mailSender gateways.Mailer,
	sessionSecret string,
	sessionExpiry time.Duration,
	sessionIssuer string,
	otpExpiry time.Duration,
) *AuthService {
	return &AuthService{
		otpRepo:       otpRepo,
		sessionRepo:   sessionRepo,
		userRepo:      userRepo,
		identitySvc:   identitySvc,
		gateway:       gateway,
		mailSender:    mailSender,
		sessionSecret: sessionSecret,
		sessionExpiry: sessionExpiry,
		sessionIssuer: sessionIssuer,
		otpExpiry:     otpExpiry,
	}
}

// Ensure AuthService implements portssvc.AuthSvcFacade
var _ portssvc.AuthSvcFacade = (*AuthService)(nil)

func (s *AuthService) SendLoginOTP(ctx context.Context, email string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	// Existence gate: login codes only go to emails with an upstream customer.
	// Upstream failures are fatal here; without the gate anyone could probe
	// the mailbox of arbitrary addresses.
	exists, err := s.gateway.CustomerExists(ctx, email)
	if err != nil {
		return fmt.Errorf("failed to check customer existence: %w", err)
	}
	if !exists {
		logger.Info("Login OTP requested for unknown email", slog.String("email", email))
		return fmt.Errorf("no account found for this email: %w", apperrors.ErrNotFound)
	}

	return s.dispatchOTP(ctx, email)
}

func (s *AuthService) SendRegisterOTP(ctx context.Context, email string) error {
	return s.dispatchOTP(ctx, email)
}

func (s *AuthService) dispatchOTP(ctx context.Context, email string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	code, err := utils.GenerateOTPCode()
	if err != nil {
		return fmt.Errorf("failed to generate otp code: %w", err)
	}
	codeHash, err := utils.HashOTPCode(code)
	if err != nil {
		return fmt.Errorf("failed to hash otp code: %w", err)
	}

	expiresAt := time.Now().Add(s.otpExpiry)
	if err := s.otpRepo.StoreOTP(ctx, email, codeHash, expiresAt); err != nil {
		return fmt.Errorf("failed to store otp: %w", err)
	}

	if err := s.mailSender.SendHTMLEmail(ctx, email, mailer.OTPEmailSubject, mailer.OTPEmailHTML(code, s.otpExpiry)); err != nil {
		logger.Error("Failed to dispatch otp email", slog.String("email", email), slog.String("error", err.Error()))
		return err
	}

	logger.Info("OTP dispatched", slog.String("email", email))
	return nil
}

// verifyCode checks the latest stored code without consuming it. Deletion
// happens only after the whole flow succeeds, so a failed downstream step
// (user reconciliation, session mint) leaves the code usable for a retry.
func (s *AuthService) verifyCode(ctx context.Context, email, code string) error {
	otp, err := s.otpRepo.FindLatestOTP(ctx, email)
	if err != nil {
		return err
	}

	if otp.Expired(time.Now()) {
		// Expired codes are dead weight; clear them so the client gets a
		// consistent "expired" answer instead of flip-flopping with "invalid".
		if delErr := s.otpRepo.DeleteOTPs(ctx, email); delErr != nil {
			middleware.GetLoggerFromCtx(ctx).Warn("Failed to delete expired otps", slog.String("email", email), slog.String("error", delErr.Error()))
		}
		return apperrors.ErrOTPExpired
	}

	if !utils.CheckOTPCodeHash(code, otp.CodeHash) {
		// Mismatch keeps the row: the user can retype until the code expires.
		return apperrors.ErrOTPInvalid
	}
	return nil
}

func (s *AuthService) VerifyOTP(ctx context.Context, email, code string) (*portssvc.AuthGrant, error) {
	if err := s.verifyCode(ctx, email, code); err != nil {
		return nil, err
	}

	// Post-OTP reconciliation is authoritative: completeness matters right
	// after a login, so the Admin API is used.
	user, err := s.identitySvc.GetOrCreateUser(ctx, email, true)
	if err != nil {
		return nil, fmt.Errorf("failed to reconcile user after otp: %w", err)
	}

	return s.issueSession(ctx, user)
}

func (s *AuthService) Register(ctx context.Context, email, firstName, lastName, phone, code string) (*portssvc.AuthGrant, error) {
	if err := s.verifyCode(ctx, email, code); err != nil {
		return nil, err
	}

	user, err := s.identitySvc.RegisterUser(ctx, email, firstName, lastName, phone)
	if err != nil {
		return nil, err
	}

	return s.issueSession(ctx, user)
}

// issueSession mints the signed token, persists the session row and consumes
// the OTP rows for the email.
func (s *AuthService) issueSession(ctx context.Context, user *domain.User) (*portssvc.AuthGrant, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	token, err := utils.GenerateSessionToken(user.ID, s.sessionSecret, s.sessionExpiry, s.sessionIssuer)
	if err != nil {
		return nil, fmt.Errorf("failed to generate session token: %w", err)
	}

	session, err := s.sessionRepo.CreateSession(ctx, user.ID, token, time.Now().Add(s.sessionExpiry))
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	if err := s.otpRepo.DeleteOTPs(ctx, user.Email); err != nil {
		logger.Warn("Failed to delete consumed otps", slog.String("email", user.Email), slog.String("error", err.Error()))
	}

	logger.Info("Session issued", slog.Int64("user_id", user.ID), slog.Time("expires_at", session.ExpiresAt))
	return &portssvc.AuthGrant{
		Token:     session.Token,
		ExpiresAt: session.ExpiresAt,
		User:      *user,
	}, nil
}

func (s *AuthService) ValidateSession(ctx context.Context, token string) (*domain.User, error) {
	session, err := s.sessionRepo.FindSessionByToken(ctx, token)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("unknown or revoked session: %w", apperrors.ErrUnauthorized)
		}
		return nil, fmt.Errorf("failed to find session: %w", err)
	}

	if session.Expired(time.Now()) {
		// Revoke on sight so the row cannot flip back to valid if the clock
		// moves or the check is bypassed elsewhere.
		if revErr := s.sessionRepo.RevokeSession(ctx, token); revErr != nil {
			middleware.GetLoggerFromCtx(ctx).Warn("Failed to revoke expired session", slog.Int64("session_id", session.ID), slog.String("error", revErr.Error()))
		}
		return nil, apperrors.ErrSessionExpired
	}

	user, err := s.userRepo.FindUserByID(ctx, session.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to load session user: %w", err)
	}

	// Best-effort refresh through the lightweight storefront path; any
	// upstream trouble is absorbed inside the identity service.
	refreshed, err := s.identitySvc.GetOrCreateUser(ctx, user.Email, false)
	if err != nil {
		middleware.GetLoggerFromCtx(ctx).Warn("Session refresh failed, serving cached user", slog.Int64("user_id", user.ID), slog.String("error", err.Error()))
		return user, nil
	}
	return refreshed, nil
}

func (s *AuthService) Logout(ctx context.Context, token string) error {
	if err := s.sessionRepo.RevokeSession(ctx, token); err != nil {
		return fmt.Errorf("failed to revoke session: %w", err)
	}
	return nil
}
