package usecase

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"go.uber.org/zap"

	"github.com/baltabekpro/tr-velMap/internal/core/domain"
	"github.com/baltabekpro/tr-velMap/internal/core/port"
	"github.com/baltabekpro/tr-velMap/internal/infra/logger"
	"github.com/baltabekpro/tr-velMap/internal/repository"
)

// ErrDuplicateUser indicates the username or email is already taken.
var ErrDuplicateUser = errors.New("username or email already exists")

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// RegisterInput carries the registration payload.
type RegisterInput struct {
	Username string
	Email    string
	Password string
	FullName string
}

// RegistrationService creates accounts and issues the initial credentials.
type RegistrationService struct {
	users     port.UserRepository
	auth      *AuthService
	hasher    port.PasswordHasher
	passwords port.PasswordPolicyValidator
	events    port.EventPublisher
	now       func() time.Time
}

// NewRegistrationService constructs a RegistrationService.
func NewRegistrationService(
	users port.UserRepository,
	auth *AuthService,
	hasher port.PasswordHasher,
	passwords port.PasswordPolicyValidator,
	events port.EventPublisher,
) *RegistrationService {
	return &RegistrationService{
		users:     users,
		auth:      auth,
		hasher:    hasher,
		passwords: passwords,
		events:    events,
		now:       time.Now,
	}
}

// Register validates the payload, creates the account with its stats and
// privacy rows, and signs the new user in. The unique constraints in the
// database remain the authoritative duplicate check; the pre-check only
// provides a friendlier fast path.
func (s *RegistrationService) Register(ctx context.Context, input RegisterInput) (*domain.User, *domain.AuthTokens, error) {
	if input.Username == "" || input.Email == "" || input.Password == "" {
		return nil, nil, NewValidationError("username, email and password are required")
	}
	if !emailPattern.MatchString(input.Email) {
		return nil, nil, NewValidationError("invalid email format")
	}
	if s.passwords != nil {
		if err := s.passwords.Validate(input.Password); err != nil {
			return nil, nil, &ValidationError{Message: err.Error()}
		}
	}

	taken, err := s.users.ExistsByUsernameOrEmail(ctx, input.Username, input.Email)
	if err != nil {
		return nil, nil, fmt.Errorf("check duplicates: %w", err)
	}
	if taken {
		return nil, nil, ErrDuplicateUser
	}

	hash, err := s.hasher.Hash(input.Password)
	if err != nil {
		return nil, nil, fmt.Errorf("hash password: %w", err)
	}

	user := domain.User{
		Username:     input.Username,
		Email:        input.Email,
		PasswordHash: hash,
		Role:         domain.RoleUser,
		Status:       domain.UserStatusActive,
	}
	if input.FullName != "" {
		user.FullName = &input.FullName
	}

	created, err := s.users.Create(ctx, user)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, nil, ErrDuplicateUser
		}
		return nil, nil, fmt.Errorf("create user: %w", err)
	}

	tokens, err := s.auth.issueTokens(ctx, created)
	if err != nil {
		return nil, nil, err
	}

	if s.events != nil {
		event := domain.UserRegisteredEvent{
			UserID:       created.ID,
			Username:     created.Username,
			Email:        created.Email,
			RegisteredAt: s.now().UTC(),
		}
		if err := s.events.PublishUserRegistered(ctx, event); err != nil {
			logger.WithContext(ctx).Warn("publish user registered failed",
				zap.String("email", logger.MaskEmail(created.Email)),
				zap.Error(err))
		}
	}

	sanitized := *created
	sanitized.PasswordHash = ""
	return &sanitized, tokens, nil
}
