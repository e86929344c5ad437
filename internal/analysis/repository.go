package analysis

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"lunarbase-server/internal/shared/database"
)

// Store persists site analyses.
type Store interface {
	Create(ctx context.Context, entries []Analysis) ([]Analysis, error)
	ListByUser(ctx context.Context, userID int) ([]Analysis, error)
	Delete(ctx context.Context, id, userID int) (bool, error)
}

type Repository struct {
	db     *database.DB
	logger *slog.Logger
}

func NewRepository(db *database.DB, logger *slog.Logger) *Repository {
	logger.Debug("Initializing analysis repository")

	return &Repository{
		db:     db,
		logger: logger,
	}
}

// Create inserts every entry in one transaction and returns them with their
// ids. A zero CreatedAt is left to the column default.
func (r *Repository) Create(ctx context.Context, entries []Analysis) ([]Analysis, error) {
	logger := r.logger.With("component", "analysis_repository", "operation", "create", "count", len(entries))
	logger.Debug("Storing analyses")

	tx, err := r.db.BeginTxContext(ctx)
	if err != nil {
		return nil, err
	}
	defer func() {
		if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
			logger.Error("Failed to rollback transaction", "error", rbErr)
		}
	}()

	created := make([]Analysis, 0, len(entries))
	for _, a := range entries {
		if err := insertAnalysis(ctx, tx, &a); err != nil {
			logger.Error("Failed to insert analysis", "error", err)
			return nil, err
		}
		created = append(created, a)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit analyses: %w", err)
	}

	logger.Info("Analyses stored")
	return created, nil
}

func insertAnalysis(ctx context.Context, exec database.Executor, a *Analysis) error {
	query := `
		INSERT INTO lunar_analysis
			(user_id, lat, lon, summary, helium3, titanium, silicon, craters, slopes, radioactivity, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, COALESCE($11, NOW()))
		RETURNING id, created_at
	`

	var createdAt *time.Time
	if !a.CreatedAt.IsZero() {
		createdAt = &a.CreatedAt
	}
	err := exec.QueryRowContext(ctx, query,
		a.UserID, a.Lat, a.Lon, a.Summary,
		a.Helium3, a.Titanium, a.Silicon,
		a.Craters, a.Slopes, a.Radioactivity,
		createdAt,
	).Scan(&a.ID, &a.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert analysis: %w", err)
	}
	return nil
}

func (r *Repository) ListByUser(ctx context.Context, userID int) ([]Analysis, error) {
	logger := r.logger.With("component", "analysis_repository", "operation", "list", "user_id", userID)

	query := `
		SELECT id, user_id, lat, lon, summary, helium3, titanium, silicon, craters, slopes, radioactivity, created_at
		FROM lunar_analysis
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC
	`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		logger.Error("Failed to query analyses", "error", err)
		return nil, fmt.Errorf("failed to query analyses: %w", err)
	}
	defer rows.Close()

	history := []Analysis{}
	for rows.Next() {
		var a Analysis
		if err := rows.Scan(
			&a.ID, &a.UserID, &a.Lat, &a.Lon, &a.Summary,
			&a.Helium3, &a.Titanium, &a.Silicon,
			&a.Craters, &a.Slopes, &a.Radioactivity,
			&a.CreatedAt,
		); err != nil {
			logger.Error("Failed to scan analysis row", "error", err)
			return nil, fmt.Errorf("failed to scan analysis: %w", err)
		}
		history = append(history, a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating analyses: %w", err)
	}
	return history, nil
}

// Delete removes one of the user's analyses. It reports false when no such
// record belongs to the user.
func (r *Repository) Delete(ctx context.Context, id, userID int) (bool, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM lunar_analysis WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return false, fmt.Errorf("failed to delete analysis: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to delete analysis: %w", err)
	}
	return n > 0, nil
}
