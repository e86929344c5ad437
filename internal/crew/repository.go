package crew

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"lunarbase-server/internal/shared/database"

	"github.com/lib/pq"
)

// Store persists user accounts.
type Store interface {
	Create(ctx context.Context, u NewUser) (*User, error)
	FindByID(ctx context.Context, id int) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	UpdateRole(ctx context.Context, id int, role Role) error
	List(ctx context.Context) ([]User, error)
}

const uniqueViolation = "23505"

type Repository struct {
	db     *database.DB
	logger *slog.Logger
}

func NewRepository(db *database.DB, logger *slog.Logger) *Repository {
	logger.Debug("Initializing crew repository")

	return &Repository{
		db:     db,
		logger: logger,
	}
}

const userColumns = `id, first_name, email, password_hash, avatar_url, role, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*User, error) {
	var u User
	var role string
	err := row.Scan(
		&u.ID,
		&u.FirstName,
		&u.Email,
		&u.PasswordHash,
		&u.AvatarURL,
		&role,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	u.Role = ParseRole(role)
	return &u, nil
}

func (r *Repository) Create(ctx context.Context, nu NewUser) (*User, error) {
	logger := r.logger.With(
		"component", "crew_repository",
		"operation", "create",
		"email", nu.Email,
	)
	logger.Info("Creating user")

	query := `
		INSERT INTO users (first_name, email, password_hash, avatar_url, role)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + userColumns

	u, err := scanUser(r.db.QueryRowContext(ctx, query,
		nu.FirstName, strings.ToLower(nu.Email), nu.PasswordHash, nu.AvatarURL, nu.Role.String()))
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			logger.Debug("Email already registered")
			return nil, ErrUserExists
		}
		logger.Error("Failed to create user", "error", err)
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	logger.Info("User created", "user_id", u.ID, "role", u.Role)
	return u, nil
}

func (r *Repository) FindByID(ctx context.Context, id int) (*User, error) {
	logger := r.logger.With("component", "crew_repository", "operation", "find_by_id", "user_id", id)
	logger.Debug("Finding user by ID")

	u, err := scanUser(r.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		logger.Error("Failed to find user", "error", err)
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return u, nil
}

func (r *Repository) FindByEmail(ctx context.Context, email string) (*User, error) {
	logger := r.logger.With("component", "crew_repository", "operation", "find_by_email", "email", email)
	logger.Debug("Finding user by email")

	u, err := scanUser(r.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE email = $1`, strings.ToLower(email)))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		logger.Error("Failed to find user", "error", err)
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return u, nil
}

func (r *Repository) UpdateRole(ctx context.Context, id int, role Role) error {
	logger := r.logger.With("component", "crew_repository", "operation", "update_role", "user_id", id, "role", role)
	logger.Info("Updating user role")

	res, err := r.db.ExecContext(ctx, `UPDATE users SET role = $1, updated_at = NOW() WHERE id = $2`, role.String(), id)
	if err != nil {
		logger.Error("Failed to update role", "error", err)
		return fmt.Errorf("failed to update role: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (r *Repository) List(ctx context.Context) ([]User, error) {
	logger := r.logger.With("component", "crew_repository", "operation", "list")
	logger.Debug("Listing users")

	rows, err := r.db.QueryContext(ctx, `SELECT `+userColumns+` FROM users ORDER BY created_at DESC`)
	if err != nil {
		logger.Error("Failed to query users", "error", err)
		return nil, fmt.Errorf("failed to query users: %w", err)
	}
	defer rows.Close()

	users := []User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			logger.Error("Failed to scan user row", "error", err)
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, *u)
	}

	if err := rows.Err(); err != nil {
		logger.Error("Error during rows iteration", "error", err)
		return nil, fmt.Errorf("error iterating users: %w", err)
	}

	logger.Debug("Users listed", "count", len(users))
	return users, nil
}
