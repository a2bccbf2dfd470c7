package identity

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pdv/backend/internal/domain/identity"
	"github.com/pdv/backend/internal/domain/shared"
	"github.com/pdv/backend/internal/infrastructure/auth"
	"github.com/pdv/backend/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// Authentication errors. Unknown email and wrong password share one message
// so the response does not reveal which accounts exist.
var (
	ErrInvalidCredentials = shared.NewDomainError("INVALID_CREDENTIALS", "Invalid email or password")
	ErrAccountDisabled    = shared.NewDomainError("ACCOUNT_DISABLED", "User account is disabled")
	ErrInvalidToken       = shared.NewDomainError("INVALID_TOKEN", "Invalid or expired token")
	ErrRefreshLimit       = shared.NewDomainError("REFRESH_LIMIT_EXCEEDED", "Session expired, please log in again")
)

// AuthService handles login, token refresh, logout and password changes
type AuthService struct {
	userRepo   identity.UserRepository
	jwtService *auth.JWTService
	blacklist  auth.TokenBlacklist
	metrics    *telemetry.BusinessMetrics
	logger     *zap.Logger
	now        func() time.Time

	// verifyMissing burns the password check for unknown emails
	verifyMissing func(password string) bool
}

// NewAuthService creates a new authentication service. metrics may be nil.
func NewAuthService(
	userRepo identity.UserRepository,
	jwtService *auth.JWTService,
	blacklist auth.TokenBlacklist,
	metrics *telemetry.BusinessMetrics,
	logger *zap.Logger,
) *AuthService {
	return &AuthService{
		userRepo:   userRepo,
		jwtService: jwtService,
		blacklist:  blacklist,
		metrics:    metrics,
		logger:     logger,
		now:        shared.Now,

		verifyMissing: identity.VerifyMissingUserPassword,
	}
}

// Login authenticates a user and returns a token pair
func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*TokenResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "auth", "login")
	defer span.End()

	email := strings.ToLower(strings.TrimSpace(req.Email))
	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			s.verifyMissing(req.Password)
			s.logger.Warn("Login attempt for unknown email", zap.String("email", email))
			s.metrics.RecordLogin(ctx, "unknown_user")
			return nil, ErrInvalidCredentials
		}
		telemetry.RecordError(span, err)
		return nil, err
	}

	if !user.VerifyPassword(req.Password) {
		s.logger.Warn("Invalid password attempt", zap.String("user_id", user.ID.String()))
		s.metrics.RecordLogin(ctx, "invalid_password")
		return nil, ErrInvalidCredentials
	}
	if err := user.CanLogin(); err != nil {
		s.logger.Warn("Login attempt for disabled account", zap.String("user_id", user.ID.String()))
		s.metrics.RecordLogin(ctx, "disabled")
		return nil, ErrAccountDisabled
	}

	pair, err := s.jwtService.GenerateTokenPair(subjectOf(user))
	if err != nil {
		s.logger.Error("Failed to generate token pair", zap.Error(err))
		telemetry.RecordError(span, err)
		return nil, err
	}

	now := s.now()
	user.RecordLogin(now)
	if err := s.userRepo.RecordLogin(ctx, user.ID, now); err != nil {
		// the login itself succeeded
		s.logger.Error("Failed to record last login", zap.String("user_id", user.ID.String()), zap.Error(err))
	}

	s.metrics.RecordLogin(ctx, "success")
	telemetry.SetAttributes(span, telemetry.SpanAttrUserID, user.ID.String())
	s.logger.Info("User logged in",
		zap.String("user_id", user.ID.String()),
		zap.String("role", user.Role.String()))

	return toTokenResponse(pair, user), nil
}

// Refresh exchanges a refresh token for a new pair. The presented refresh
// token is revoked so it cannot be replayed.
func (s *AuthService) Refresh(ctx context.Context, req RefreshRequest) (*TokenResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "auth", "refresh")
	defer span.End()

	claims, err := s.jwtService.ValidateRefreshToken(req.RefreshToken)
	if err != nil {
		s.logger.Debug("Refresh token rejected", zap.Error(err))
		return nil, ErrInvalidToken
	}
	if s.isRevoked(ctx, claims) {
		return nil, ErrInvalidToken
	}

	userID, err := claims.UserID()
	if err != nil {
		return nil, ErrInvalidToken
	}
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, err
	}
	if err := user.CanLogin(); err != nil {
		s.logger.Warn("Refresh attempt for disabled account", zap.String("user_id", user.ID.String()))
		return nil, ErrAccountDisabled
	}

	pair, err := s.jwtService.RefreshTokenPair(claims, subjectOf(user))
	if err != nil {
		if errors.Is(err, auth.ErrMaxRefreshExceeded) {
			s.logger.Info("Refresh limit reached", zap.String("user_id", user.ID.String()))
			return nil, ErrRefreshLimit
		}
		telemetry.RecordError(span, err)
		return nil, err
	}

	if err := s.blacklist.Revoke(ctx, claims.ID, claims.RemainingTTL()); err != nil {
		s.logger.Warn("Failed to revoke rotated refresh token", zap.Error(err))
	}

	return toTokenResponse(pair, user), nil
}

// Logout revokes the access token for its remaining lifetime and, when
// given, the refresh token of the same user.
func (s *AuthService) Logout(ctx context.Context, access *auth.Claims, req LogoutRequest) error {
	ctx, span := telemetry.StartServiceSpan(ctx, "auth", "logout")
	defer span.End()

	if access == nil || access.ID == "" {
		return ErrInvalidToken
	}
	if err := s.blacklist.Revoke(ctx, access.ID, access.RemainingTTL()); err != nil {
		telemetry.RecordError(span, err)
		return err
	}

	if req.RefreshToken != "" {
		refresh, err := s.jwtService.ValidateRefreshToken(req.RefreshToken)
		switch {
		case err != nil:
			s.logger.Debug("Ignoring invalid refresh token on logout", zap.Error(err))
		case refresh.Subject != access.Subject:
			s.logger.Warn("Refresh token on logout belongs to another user", zap.String("user_id", access.Subject))
		default:
			if err := s.blacklist.Revoke(ctx, refresh.ID, refresh.RemainingTTL()); err != nil {
				telemetry.RecordError(span, err)
				return err
			}
		}
	}

	s.logger.Info("User logged out", zap.String("user_id", access.Subject))
	return nil
}

// Me returns the authenticated user
func (s *AuthService) Me(ctx context.Context, userID uuid.UUID) (*UserResponse, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	resp := ToUserResponse(user)
	return &resp, nil
}

// ChangePassword replaces the password after checking the current one
func (s *AuthService) ChangePassword(ctx context.Context, userID uuid.UUID, req ChangePasswordRequest) error {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return err
	}
	if err := user.ChangePassword(req.CurrentPassword, req.NewPassword); err != nil {
		return err
	}
	if err := s.userRepo.UpdatePassword(ctx, user); err != nil {
		return err
	}
	s.logger.Info("Password changed", zap.String("user_id", user.ID.String()))
	return nil
}

// isRevoked checks the blacklist. Store errors are logged and treated as not revoked.
func (s *AuthService) isRevoked(ctx context.Context, claims *auth.Claims) bool {
	revoked, err := s.blacklist.IsRevoked(ctx, claims.ID)
	if err != nil {
		s.logger.Warn("Token blacklist lookup failed", zap.Error(err))
		return false
	}
	if revoked {
		return true
	}
	revoked, err = s.blacklist.IsUserRevoked(ctx, claims.Subject, claims.IssuedAtTime())
	if err != nil {
		s.logger.Warn("Token blacklist lookup failed", zap.Error(err))
		return false
	}
	return revoked
}

func subjectOf(u *identity.User) auth.Subject {
	return auth.Subject{UserID: u.ID, Email: u.Email, Role: u.Role}
}
