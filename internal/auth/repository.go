package auth

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"lunarbase-server/internal/shared/database"
)

var ErrProviderNotLinked = errors.New("auth provider not linked")

// ProviderLinks records which OAuth identity belongs to which user.
type ProviderLinks interface {
	CreateAuthProvider(ctx context.Context, userID int, provider, providerUserID, providerEmail string) error
	FindUserByAuthProvider(ctx context.Context, provider, providerUserID string) (int, error)
}

type Repository struct {
	db *database.DB
}

func NewRepository(db *database.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) CreateAuthProvider(ctx context.Context, userID int, provider, providerUserID, providerEmail string) error {
	query := `
		INSERT INTO user_auth_providers (user_id, provider, provider_user_id, provider_email)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (provider, provider_user_id) DO NOTHING
	`

	if _, err := r.db.ExecContext(ctx, query, userID, provider, providerUserID, providerEmail); err != nil {
		return fmt.Errorf("failed to create auth provider: %w", err)
	}
	return nil
}

func (r *Repository) FindUserByAuthProvider(ctx context.Context, provider, providerUserID string) (int, error) {
	query := `
		SELECT user_id
		FROM user_auth_providers
		WHERE provider = $1 AND provider_user_id = $2
	`

	var userID int
	err := r.db.QueryRowContext(ctx, query, provider, providerUserID).Scan(&userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, ErrProviderNotLinked
		}
		return 0, fmt.Errorf("failed to find user by auth provider: %w", err)
	}
	return userID, nil
}
