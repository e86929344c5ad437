package auth

import (
	"context"
	"errors"
	"log/slog"

	"lunarbase-server/internal/auth/providers"
	"lunarbase-server/internal/crew"
	apperrors "lunarbase-server/internal/shared/errors"

	"golang.org/x/crypto/bcrypt"
)

var errBadCredentials = apperrors.Unauthorized("invalid email or password")

type Service struct {
	users    *crew.Service
	links    ProviderLinks
	tokens   *TokenService
	hashCost int
	logger   *slog.Logger
}

func NewService(users *crew.Service, links ProviderLinks, tokens *TokenService, logger *slog.Logger) *Service {
	logger.Debug("Initializing auth service")

	return &Service{
		users:    users,
		links:    links,
		tokens:   tokens,
		hashCost: bcrypt.DefaultCost,
		logger:   logger,
	}
}

// Register creates a password account and signs the caller in.
func (s *Service) Register(ctx context.Context, req RegisterRequest) (*crew.User, string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.hashCost)
	if err != nil {
		return nil, "", apperrors.WrapInternal("failed to hash password", err)
	}

	u, err := s.users.Register(ctx, req.FirstName, req.Email, string(hash))
	if err != nil {
		return nil, "", err
	}
	return s.issue(u)
}

func (s *Service) Login(ctx context.Context, req LoginRequest) (*crew.User, string, error) {
	logger := s.logger.With("component", "auth_service", "operation", "login")

	u, err := s.users.FindByEmail(ctx, req.Email)
	if errors.Is(err, crew.ErrUserNotFound) {
		return nil, "", errBadCredentials
	}
	if err != nil {
		return nil, "", apperrors.WrapInternal("failed to look up user", err)
	}
	if u.PasswordHash == nil {
		logger.Debug("Password login attempted on OAuth-only account", "user_id", u.ID)
		return nil, "", errBadCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(*u.PasswordHash), []byte(req.Password)); err != nil {
		return nil, "", errBadCredentials
	}

	logger.Info("User logged in", "user_id", u.ID)
	return s.issue(u)
}

// OAuthLogin resolves a provider identity to a user, linking it on first use.
func (s *Service) OAuthLogin(ctx context.Context, provider string, info *providers.OAuthUser) (*crew.User, string, error) {
	logger := s.logger.With("component", "auth_service", "operation", "oauth_login", "provider", provider)

	email, ok := info.SignInEmail()
	if !ok {
		return nil, "", apperrors.Unauthorized("a verified email is required")
	}

	userID, err := s.links.FindUserByAuthProvider(ctx, provider, info.ID)
	switch {
	case err == nil:
		u, err := s.users.GetByID(ctx, userID)
		if err != nil {
			return nil, "", err
		}
		return s.issue(u)
	case !errors.Is(err, ErrProviderNotLinked):
		return nil, "", apperrors.WrapInternal("failed to look up auth provider", err)
	}

	var avatar *string
	if info.AvatarURL != "" {
		avatar = &info.AvatarURL
	}
	u, err := s.users.FindOrCreateByOAuth(ctx, provider, email, info.Name, avatar)
	if err != nil {
		return nil, "", err
	}
	if err := s.links.CreateAuthProvider(ctx, u.ID, provider, info.ID, email); err != nil {
		return nil, "", apperrors.WrapInternal("failed to link auth provider", err)
	}

	logger.Info("Linked OAuth identity", "user_id", u.ID)
	return s.issue(u)
}

func (s *Service) issue(u *crew.User) (*crew.User, string, error) {
	token, err := s.tokens.Generate(u.ID, u.Email, u.Role.String())
	if err != nil {
		return nil, "", apperrors.WrapInternal("failed to generate token", err)
	}
	return u, token, nil
}
