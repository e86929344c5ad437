package layout

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"lunarbase-server/internal/facility"
	"lunarbase-server/internal/shared/database"

	"github.com/goccy/go-json"
)

// Store persists saved layouts.
type Store interface {
	Save(ctx context.Context, userID int, objects []facility.Object, overallScore int) (*SavedLayout, error)
	GetByUserID(ctx context.Context, userID int) (*SavedLayout, error)
	List(ctx context.Context) ([]Summary, error)
}

type Repository struct {
	db     *database.DB
	logger *slog.Logger
}

func NewRepository(db *database.DB, logger *slog.Logger) *Repository {
	logger.Debug("Initializing layout repository")

	return &Repository{
		db:     db,
		logger: logger,
	}
}

// Save upserts the user's layout. The object array is stored as JSONB in
// placement order.
func (r *Repository) Save(ctx context.Context, userID int, objects []facility.Object, overallScore int) (*SavedLayout, error) {
	logger := r.logger.With(
		"component", "layout_repository",
		"operation", "save",
		"user_id", userID,
		"object_count", len(objects),
	)
	logger.Debug("Saving layout")

	if objects == nil {
		objects = []facility.Object{}
	}
	data, err := json.Marshal(objects)
	if err != nil {
		return nil, fmt.Errorf("failed to encode layout: %w", err)
	}

	query := `
		INSERT INTO layouts (user_id, data, overall_score)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id) DO UPDATE
		SET data = EXCLUDED.data, overall_score = EXCLUDED.overall_score, updated_at = NOW()
		RETURNING id, user_id, overall_score, created_at, updated_at
	`

	saved := SavedLayout{Objects: objects}
	err = r.db.QueryRowContext(ctx, query, userID, data, overallScore).Scan(
		&saved.ID,
		&saved.UserID,
		&saved.OverallScore,
		&saved.CreatedAt,
		&saved.UpdatedAt,
	)
	if err != nil {
		logger.Error("Failed to save layout", "error", err)
		return nil, fmt.Errorf("failed to save layout: %w", err)
	}

	logger.Info("Layout saved", "layout_id", saved.ID)
	return &saved, nil
}

func (r *Repository) GetByUserID(ctx context.Context, userID int) (*SavedLayout, error) {
	logger := r.logger.With("component", "layout_repository", "operation", "get_by_user", "user_id", userID)
	logger.Debug("Loading layout")

	query := `
		SELECT id, user_id, data, overall_score, created_at, updated_at
		FROM layouts
		WHERE user_id = $1
	`

	var saved SavedLayout
	var data []byte
	err := r.db.QueryRowContext(ctx, query, userID).Scan(
		&saved.ID,
		&saved.UserID,
		&data,
		&saved.OverallScore,
		&saved.CreatedAt,
		&saved.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			logger.Debug("No saved layout")
			return nil, ErrLayoutNotFound
		}
		logger.Error("Failed to load layout", "error", err)
		return nil, fmt.Errorf("failed to load layout: %w", err)
	}

	// Rows are written by Save, but entries are still filtered through the
	// same predicate as an import.
	objects, report, err := Import(data)
	if err != nil {
		logger.Error("Stored layout is not an array", "layout_id", saved.ID, "error", err)
		return nil, fmt.Errorf("failed to decode layout %d: %w", saved.ID, err)
	}
	if len(report.Dropped) > 0 {
		logger.Warn("Dropped invalid stored objects", "layout_id", saved.ID, "dropped", len(report.Dropped))
	}
	saved.Objects = objects

	logger.Debug("Layout loaded", "layout_id", saved.ID, "object_count", len(objects))
	return &saved, nil
}

// List returns every saved layout for the admin overview, newest first.
func (r *Repository) List(ctx context.Context) ([]Summary, error) {
	logger := r.logger.With("component", "layout_repository", "operation", "list")
	logger.Debug("Listing layouts")

	query := `
		SELECT l.id, l.user_id, u.email, jsonb_array_length(l.data), l.overall_score, l.updated_at
		FROM layouts l
		JOIN users u ON u.id = l.user_id
		ORDER BY l.updated_at DESC
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		logger.Error("Failed to query layouts", "error", err)
		return nil, fmt.Errorf("failed to query layouts: %w", err)
	}
	defer rows.Close()

	summaries := []Summary{}
	for rows.Next() {
		var s Summary
		if err := rows.Scan(&s.ID, &s.UserID, &s.OwnerEmail, &s.ObjectCount, &s.OverallScore, &s.UpdatedAt); err != nil {
			logger.Error("Failed to scan layout row", "error", err)
			return nil, fmt.Errorf("failed to scan layout: %w", err)
		}
		summaries = append(summaries, s)
	}

	if err := rows.Err(); err != nil {
		logger.Error("Error during rows iteration", "error", err)
		return nil, fmt.Errorf("error iterating layouts: %w", err)
	}

	logger.Debug("Layouts listed", "count", len(summaries))
	return summaries, nil
}
