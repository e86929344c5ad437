package crew

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	apperrors "lunarbase-server/internal/shared/errors"
)

type Service struct {
	store      Store
	adminEmail string
	logger     *slog.Logger
}

// NewService creates the crew service. Accounts registered with adminEmail
// are given the admin role.
func NewService(store Store, adminEmail string, logger *slog.Logger) *Service {
	logger.Debug("Initializing crew service")

	return &Service{
		store:      store,
		adminEmail: strings.ToLower(adminEmail),
		logger:     logger,
	}
}

func (s *Service) roleFor(email string) Role {
	if s.adminEmail != "" && strings.EqualFold(email, s.adminEmail) {
		return RoleAdmin
	}
	return RoleUser
}

func (s *Service) GetByID(ctx context.Context, id int) (*User, error) {
	u, err := s.store.FindByID(ctx, id)
	if errors.Is(err, ErrUserNotFound) {
		return nil, apperrors.NotFoundf("user not found with id: %d", id)
	}
	if err != nil {
		return nil, apperrors.WrapInternal("failed to load user", err)
	}
	return u, nil
}

// FindByEmail returns ErrUserNotFound unwrapped so callers can tell a
// missing account from a storage failure.
func (s *Service) FindByEmail(ctx context.Context, email string) (*User, error) {
	return s.store.FindByEmail(ctx, email)
}

func (s *Service) List(ctx context.Context) ([]User, error) {
	users, err := s.store.List(ctx)
	if err != nil {
		return nil, apperrors.WrapInternal("failed to list users", err)
	}
	return users, nil
}

// Register creates a password account.
func (s *Service) Register(ctx context.Context, firstName, email, passwordHash string) (*User, error) {
	logger := s.logger.With("component", "crew_service", "operation", "register", "email", email)
	logger.Debug("Registering user")

	email = strings.ToLower(strings.TrimSpace(email))
	u, err := s.store.Create(ctx, NewUser{
		FirstName:    strings.TrimSpace(firstName),
		Email:        email,
		PasswordHash: &passwordHash,
		Role:         s.roleFor(email),
	})
	if errors.Is(err, ErrUserExists) {
		return nil, apperrors.Conflictf("a user with this email already exists")
	}
	if err != nil {
		return nil, apperrors.WrapInternal("failed to register user", err)
	}

	logger.Info("User registered", "user_id", u.ID, "role", u.Role)
	return u, nil
}

// FindOrCreateByOAuth returns the account owning email, creating it when
// missing. The configured admin email is promoted on every sign-in.
func (s *Service) FindOrCreateByOAuth(ctx context.Context, provider, email, name string, avatarURL *string) (*User, error) {
	logger := s.logger.With(
		"component", "crew_service",
		"operation", "find_or_create_oauth",
		"provider", provider,
		"email", email,
	)
	logger.Debug("Finding or creating user by OAuth")

	role := s.roleFor(email)
	u, err := s.store.FindByEmail(ctx, email)
	switch {
	case err == nil:
		if role == RoleAdmin && u.Role != RoleAdmin {
			logger.Info("Upgrading existing user to admin role", "user_id", u.ID)
			if err := s.store.UpdateRole(ctx, u.ID, RoleAdmin); err != nil {
				return nil, apperrors.WrapInternal("failed to upgrade user to admin", err)
			}
			u.Role = RoleAdmin
		}
		return u, nil
	case !errors.Is(err, ErrUserNotFound):
		return nil, apperrors.WrapInternal("failed to look up user", err)
	}

	firstName := strings.TrimSpace(name)
	if firstName == "" {
		firstName = nameFromEmail(email)
	}

	u, err = s.store.Create(ctx, NewUser{
		FirstName: firstName,
		Email:     email,
		AvatarURL: avatarURL,
		Role:      role,
	})
	if err != nil {
		return nil, apperrors.WrapInternal("failed to create user", err)
	}

	logger.Info("Created user via OAuth", "user_id", u.ID, "role", u.Role)
	return u, nil
}

func nameFromEmail(email string) string {
	if local, _, ok := strings.Cut(email, "@"); ok && local != "" {
		return local
	}
	return "crew"
}
