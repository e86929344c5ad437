package route

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"lunarbase-server/internal/shared/database"

	"github.com/goccy/go-json"
)

// Store persists saved routes.
type Store interface {
	Create(ctx context.Context, nr NewRoute) (*Route, error)
	ListByLayout(ctx context.Context, userID, layoutID int) ([]Route, error)
	Rename(ctx context.Context, id int, name *string) (*Route, error)
	Delete(ctx context.Context, id int) error
	RouteOwner(ctx context.Context, id int) (ownerID int, found bool, err error)
}

type Repository struct {
	db     *database.DB
	logger *slog.Logger
}

func NewRepository(db *database.DB, logger *slog.Logger) *Repository {
	logger.Debug("Initializing route repository")

	return &Repository{
		db:     db,
		logger: logger,
	}
}

const routeColumns = `id, user_id, layout_id, path, name, description, transport, priority, created_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRoute(row rowScanner) (*Route, error) {
	var rt Route
	var path []byte
	var transport, priority string
	if err := row.Scan(
		&rt.ID,
		&rt.UserID,
		&rt.LayoutID,
		&path,
		&rt.Name,
		&rt.Description,
		&transport,
		&priority,
		&rt.CreatedAt,
	); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(path, &rt.Path); err != nil {
		return nil, fmt.Errorf("failed to decode path of route %d: %w", rt.ID, err)
	}
	rt.Transport = ParseTransport(transport)
	rt.Priority = ParsePriority(priority)
	return &rt, nil
}

func (r *Repository) Create(ctx context.Context, nr NewRoute) (*Route, error) {
	logger := r.logger.With(
		"component", "route_repository",
		"operation", "create",
		"user_id", nr.UserID,
		"layout_id", nr.LayoutID,
	)
	logger.Debug("Creating route")

	path, err := json.Marshal(nr.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to encode path: %w", err)
	}

	query := `
		INSERT INTO routes (user_id, layout_id, path, name, description, transport, priority)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING ` + routeColumns

	rt, err := scanRoute(r.db.QueryRowContext(ctx, query,
		nr.UserID, nr.LayoutID, path, nr.Name, nr.Description, string(nr.Transport), string(nr.Priority),
	))
	if err != nil {
		logger.Error("Failed to create route", "error", err)
		return nil, fmt.Errorf("failed to create route: %w", err)
	}

	logger.Info("Route created", "route_id", rt.ID)
	return rt, nil
}

// ListByLayout returns the user's routes on one layout, newest first. Rows
// that cannot be decoded are skipped.
func (r *Repository) ListByLayout(ctx context.Context, userID, layoutID int) ([]Route, error) {
	logger := r.logger.With("component", "route_repository", "operation", "list", "user_id", userID, "layout_id", layoutID)
	logger.Debug("Listing routes")

	query := `SELECT ` + routeColumns + `
		FROM routes
		WHERE user_id = $1 AND layout_id = $2
		ORDER BY created_at DESC, id DESC`

	rows, err := r.db.QueryContext(ctx, query, userID, layoutID)
	if err != nil {
		logger.Error("Failed to query routes", "error", err)
		return nil, fmt.Errorf("failed to query routes: %w", err)
	}
	defer rows.Close()

	routes := []Route{}
	for rows.Next() {
		rt, err := scanRoute(rows)
		if err != nil {
			logger.Warn("Skipping unreadable route row", "error", err)
			continue
		}
		routes = append(routes, *rt)
	}

	if err := rows.Err(); err != nil {
		logger.Error("Error during rows iteration", "error", err)
		return nil, fmt.Errorf("error iterating routes: %w", err)
	}

	logger.Debug("Routes listed", "count", len(routes))
	return routes, nil
}

func (r *Repository) Rename(ctx context.Context, id int, name *string) (*Route, error) {
	logger := r.logger.With("component", "route_repository", "operation", "rename", "route_id", id)

	query := `UPDATE routes SET name = $2 WHERE id = $1 RETURNING ` + routeColumns

	rt, err := scanRoute(r.db.QueryRowContext(ctx, query, id, name))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrRouteNotFound
	}
	if err != nil {
		logger.Error("Failed to rename route", "error", err)
		return nil, fmt.Errorf("failed to rename route: %w", err)
	}

	logger.Info("Route renamed")
	return rt, nil
}

func (r *Repository) Delete(ctx context.Context, id int) error {
	logger := r.logger.With("component", "route_repository", "operation", "delete", "route_id", id)

	result, err := r.db.ExecContext(ctx, `DELETE FROM routes WHERE id = $1`, id)
	if err != nil {
		logger.Error("Failed to delete route", "error", err)
		return fmt.Errorf("failed to delete route: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete route: %w", err)
	}
	if n == 0 {
		return ErrRouteNotFound
	}

	logger.Info("Route deleted")
	return nil
}

func (r *Repository) RouteOwner(ctx context.Context, id int) (int, bool, error) {
	var ownerID int
	err := r.db.QueryRowContext(ctx, `SELECT user_id FROM routes WHERE id = $1`, id).Scan(&ownerID)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("failed to look up route owner: %w", err)
	}
	return ownerID, true, nil
}
