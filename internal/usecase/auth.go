package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/baltabekpro/tr-velMap/internal/core/domain"
	"github.com/baltabekpro/tr-velMap/internal/core/port"
	"github.com/baltabekpro/tr-velMap/internal/infra/logger"
	"github.com/baltabekpro/tr-velMap/internal/infra/security"
	"github.com/baltabekpro/tr-velMap/internal/infra/telemetry"
	"github.com/baltabekpro/tr-velMap/internal/repository"
)

var (
	// ErrInvalidCredentials indicates the provided identifier or password are incorrect.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrUserBanned indicates the account has been banned by an administrator.
	ErrUserBanned = errors.New("account is banned")
	// ErrUnauthenticated indicates no valid credential accompanied the request.
	ErrUnauthenticated = errors.New("authentication required")
	// ErrValidation indicates the request payload failed validation.
	ErrValidation = errors.New("validation failed")
	// ErrRateLimited indicates the caller exceeded the attempt budget.
	ErrRateLimited = errors.New("too many attempts")
)

// ValidationError wraps a field-level message so handlers can surface it while
// errors.Is still matches ErrValidation.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// Is reports that every ValidationError matches the ErrValidation sentinel.
func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

// NewValidationError builds a field validation failure.
func NewValidationError(format string, args ...any) error {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// AuthService coordinates login, identity resolution, logout and the
// profile operations of the authenticated user.
type AuthService struct {
	users     port.UserRepository
	sessions  port.SessionRepository
	hasher    port.PasswordHasher
	passwords port.PasswordPolicyValidator
	tokens    *security.TokenManager
	events    port.EventPublisher
	rateLimit *LoginRateLimiter

	sessionTTL         time.Duration
	sessionTokenLength int
	now                func() time.Time
}

// NewAuthService constructs an AuthService. The rate limiter is optional; nil
// disables login throttling.
func NewAuthService(
	users port.UserRepository,
	sessions port.SessionRepository,
	hasher port.PasswordHasher,
	passwords port.PasswordPolicyValidator,
	tokens *security.TokenManager,
	events port.EventPublisher,
	rateLimit *LoginRateLimiter,
	sessionTTL time.Duration,
	sessionTokenLength int,
) (*AuthService, error) {
	if tokens == nil {
		return nil, errors.New("token manager is required")
	}
	if sessionTTL <= 0 {
		return nil, errors.New("session ttl must be positive")
	}
	if sessionTokenLength < 16 {
		return nil, errors.New("session token length must be at least 16 bytes")
	}

	return &AuthService{
		users:              users,
		sessions:           sessions,
		hasher:             hasher,
		passwords:          passwords,
		tokens:             tokens,
		events:             events,
		rateLimit:          rateLimit,
		sessionTTL:         sessionTTL,
		sessionTokenLength: sessionTokenLength,
		now:                time.Now,
	}, nil
}

// WithClock overrides the time source, primarily for tests.
func (s *AuthService) WithClock(now func() time.Time) *AuthService {
	if now != nil {
		s.now = now
	}
	return s
}

// Login validates credentials and issues both a signed access token and an
// opaque session token. Unknown identifier and wrong password produce the same
// error so responses reveal nothing about account existence.
func (s *AuthService) Login(ctx context.Context, identifier, password, clientKey string) (*domain.User, *domain.AuthTokens, error) {
	if identifier == "" || password == "" {
		return nil, nil, NewValidationError("username and password are required")
	}

	if s.rateLimit != nil {
		if err := s.rateLimit.Check(ctx, clientKey); err != nil {
			return nil, nil, err
		}
	}

	user, err := s.users.GetByIdentifier(ctx, identifier)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.recordFailure(ctx, clientKey, "invalid_credentials")
			return nil, nil, ErrInvalidCredentials
		}
		telemetry.LoginAttempts.WithLabelValues("error").Inc()
		return nil, nil, fmt.Errorf("lookup user: %w", err)
	}

	ok, err := s.hasher.Verify(password, user.PasswordHash)
	if err != nil {
		telemetry.LoginAttempts.WithLabelValues("error").Inc()
		return nil, nil, fmt.Errorf("verify password: %w", err)
	}
	if !ok {
		s.recordFailure(ctx, clientKey, "invalid_credentials")
		return nil, nil, ErrInvalidCredentials
	}

	if user.IsBanned() {
		telemetry.LoginAttempts.WithLabelValues("banned").Inc()
		return nil, nil, ErrUserBanned
	}

	tokens, err := s.issueTokens(ctx, user)
	if err != nil {
		telemetry.LoginAttempts.WithLabelValues("error").Inc()
		return nil, nil, err
	}

	now := s.now().UTC()
	if err := s.users.UpdateLastLogin(ctx, user.ID, now); err != nil {
		logger.WithContext(ctx).Warn("stamp last login failed", zap.Error(err))
	}
	user.LastLoginAt = &now

	telemetry.LoginAttempts.WithLabelValues("success").Inc()

	sanitized := *user
	sanitized.PasswordHash = ""
	return &sanitized, tokens, nil
}

func (s *AuthService) recordFailure(ctx context.Context, clientKey, outcome string) {
	telemetry.LoginAttempts.WithLabelValues(outcome).Inc()
	if s.rateLimit != nil {
		if err := s.rateLimit.Record(ctx, clientKey); err != nil {
			logger.WithContext(ctx).Warn("record login attempt failed",
				zap.String("client", logger.MaskString(clientKey)),
				zap.Error(err))
		}
	}
}

// issueTokens signs an access token and creates a fresh session for the user.
func (s *AuthService) issueTokens(ctx context.Context, user *domain.User) (*domain.AuthTokens, error) {
	signed, expiresAt, err := s.tokens.Issue(*user)
	if err != nil {
		return nil, fmt.Errorf("issue access token: %w", err)
	}

	plaintext, err := security.GenerateSecureToken(s.sessionTokenLength)
	if err != nil {
		return nil, fmt.Errorf("generate session token: %w", err)
	}

	now := s.now().UTC()
	session := domain.Session{
		UserID:    user.ID,
		TokenHash: security.HashToken(plaintext),
		CreatedAt: now,
		ExpiresAt: now.Add(s.sessionTTL),
	}
	if err := s.sessions.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}

	return &domain.AuthTokens{
		AccessToken:  signed,
		SessionToken: plaintext,
		ExpiresAt:    expiresAt,
	}, nil
}

// VerifyAccessToken validates a signed token and re-checks the account against
// storage: a valid signature over a deleted account is still unauthenticated,
// and a banned account is rejected even before the token expires.
func (s *AuthService) VerifyAccessToken(ctx context.Context, tokenString string) (*domain.User, error) {
	claims, err := s.tokens.Parse(tokenString)
	if err != nil {
		return nil, ErrUnauthenticated
	}

	userID, err := claims.UserID()
	if err != nil {
		return nil, ErrUnauthenticated
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUnauthenticated
		}
		return nil, fmt.Errorf("lookup user: %w", err)
	}

	if user.IsBanned() {
		return nil, ErrUserBanned
	}

	return user, nil
}

// VerifySessionToken resolves an opaque session token to its owning user.
func (s *AuthService) VerifySessionToken(ctx context.Context, plaintext string) (*domain.User, error) {
	if plaintext == "" {
		return nil, ErrUnauthenticated
	}

	user, err := s.sessions.GetUserByTokenHash(ctx, security.HashToken(plaintext), s.now().UTC())
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUnauthenticated
		}
		return nil, fmt.Errorf("lookup session: %w", err)
	}

	if user.IsBanned() {
		return nil, ErrUserBanned
	}

	return user, nil
}

// ResolveIdentity resolves the caller from whichever credential is present,
// preferring the signed access token and falling back to the opaque session.
// Both empty yields ErrUnauthenticated.
func (s *AuthService) ResolveIdentity(ctx context.Context, accessToken, sessionToken string) (*domain.Identity, error) {
	if accessToken != "" {
		user, err := s.VerifyAccessToken(ctx, accessToken)
		if err == nil {
			return identityOf(user, "token"), nil
		}
		if !errors.Is(err, ErrUnauthenticated) {
			return nil, err
		}
		// Fall through to the session credential.
	}

	if sessionToken != "" {
		user, err := s.VerifySessionToken(ctx, sessionToken)
		if err != nil {
			return nil, err
		}
		return identityOf(user, "session"), nil
	}

	return nil, ErrUnauthenticated
}

func identityOf(user *domain.User, method string) *domain.Identity {
	return &domain.Identity{
		UserID:   user.ID,
		Username: user.Username,
		Email:    user.Email,
		Role:     user.Role,
		Method:   method,
	}
}

// Logout revokes the presented session token. Revoking an unknown or already
// revoked token succeeds; logout is idempotent.
func (s *AuthService) Logout(ctx context.Context, sessionToken string, userID int64) error {
	if sessionToken == "" {
		return nil
	}

	if err := s.sessions.DeleteByTokenHash(ctx, security.HashToken(sessionToken)); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}

	if s.events != nil {
		event := domain.SessionRevokedEvent{
			UserID:    userID,
			RevokedAt: s.now().UTC(),
			Reason:    "logout",
		}
		if err := s.events.PublishSessionRevoked(ctx, event); err != nil {
			logger.WithContext(ctx).Warn("publish session revoked failed", zap.Error(err))
		}
	}

	return nil
}

// Me returns the caller's profile with activity counters attached.
func (s *AuthService) Me(ctx context.Context, userID int64) (*domain.User, *domain.UserStats, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil, ErrUnauthenticated
		}
		return nil, nil, fmt.Errorf("lookup user: %w", err)
	}

	stats, err := s.users.GetStats(ctx, userID)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, nil, fmt.Errorf("lookup user stats: %w", err)
	}

	sanitized := *user
	sanitized.PasswordHash = ""
	return &sanitized, stats, nil
}

// UpdateProfile applies the provided profile fields to the caller's account.
func (s *AuthService) UpdateProfile(ctx context.Context, userID int64, update port.UserProfileUpdate) (*domain.User, error) {
	if update.Email != nil && !emailPattern.MatchString(*update.Email) {
		return nil, NewValidationError("invalid email format")
	}

	user, err := s.users.UpdateProfile(ctx, userID, update)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUnauthenticated
		}
		return nil, fmt.Errorf("update profile: %w", err)
	}

	sanitized := *user
	sanitized.PasswordHash = ""
	return &sanitized, nil
}

// ChangePassword verifies the current password, enforces the policy on the
// new one and revokes every other session of the account.
func (s *AuthService) ChangePassword(ctx context.Context, userID int64, current, next string) error {
	if current == "" || next == "" {
		return NewValidationError("current and new passwords are required")
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrUnauthenticated
		}
		return fmt.Errorf("lookup user: %w", err)
	}

	ok, err := s.hasher.Verify(current, user.PasswordHash)
	if err != nil {
		return fmt.Errorf("verify password: %w", err)
	}
	if !ok {
		return ErrInvalidCredentials
	}

	if s.passwords != nil {
		if err := s.passwords.Validate(next); err != nil {
			return &ValidationError{Message: err.Error()}
		}
	}
	if next == current {
		return NewValidationError("new password must be different from current password")
	}

	hash, err := s.hasher.Hash(next)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	if err := s.users.UpdatePassword(ctx, userID, hash); err != nil {
		return fmt.Errorf("update password: %w", err)
	}

	if revoked, err := s.sessions.DeleteAllForUser(ctx, userID); err != nil {
		logger.WithContext(ctx).Warn("revoke sessions after password change failed", zap.Error(err))
	} else if revoked > 0 {
		logger.WithContext(ctx).Info("revoked sessions after password change", zap.Int("count", revoked))
	}

	if s.events != nil {
		event := domain.PasswordChangedEvent{UserID: userID, ChangedAt: s.now().UTC()}
		if err := s.events.PublishPasswordChanged(ctx, event); err != nil {
			logger.WithContext(ctx).Warn("publish password changed failed", zap.Error(err))
		}
	}

	return nil
}
