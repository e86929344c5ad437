package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"path"
	"slices"
	"strings"
)

// migrationLockID keys the advisory lock that keeps two starting instances
// from applying the same migration.
const migrationLockID = 7_310_402

// RunMigrations applies the .sql files at the top level of fsys that are not
// yet recorded in schema_migrations, in lexical order. Each file runs in its
// own transaction.
func (db *DB) RunMigrations(ctx context.Context, fsys fs.FS) error {
	logger := slog.With("component", "migrations")
	logger.Info("Starting database migrations")

	files, err := migrationFiles(fsys)
	if err != nil {
		return fmt.Errorf("failed to list migrations: %w", err)
	}

	conn, err := db.Conn(ctx)
	if err != nil {
		return fmt.Errorf("failed to acquire connection: %w", err)
	}
	defer conn.Close()

	if _, err := conn.ExecContext(ctx, "SELECT pg_advisory_lock($1)", migrationLockID); err != nil {
		return fmt.Errorf("failed to take migration lock: %w", err)
	}
	defer func() {
		if _, err := conn.ExecContext(context.WithoutCancel(ctx), "SELECT pg_advisory_unlock($1)", migrationLockID); err != nil {
			logger.Warn("Failed to release migration lock", "error", err)
		}
	}()

	if _, err := conn.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version VARCHAR(255) PRIMARY KEY,
			applied_at TIMESTAMP DEFAULT NOW()
		)`); err != nil {
		return fmt.Errorf("failed to create migrations table: %w", err)
	}

	applied, err := appliedVersions(ctx, conn)
	if err != nil {
		return err
	}

	pending := slices.DeleteFunc(files, func(name string) bool { return applied[name] })
	logger.Info("Migrations found", "total", len(files)+len(applied), "pending", len(pending))

	for _, name := range pending {
		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("failed to read migration %s: %w", name, err)
		}
		if err := applyMigration(ctx, conn, name, string(content)); err != nil {
			logger.Error("Migration failed", "migration", name, "error", err)
			return fmt.Errorf("failed to run migration %s: %w", name, err)
		}
		logger.Info("Migration applied", "migration", name, "size_bytes", len(content))
	}

	logger.Info("Database schema up to date")
	return nil
}

func migrationFiles(fsys fs.FS) ([]string, error) {
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return nil, err
	}

	var files []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".sql") {
			files = append(files, path.Clean(e.Name()))
		}
	}
	slices.Sort(files)
	return files, nil
}

func appliedVersions(ctx context.Context, conn *sql.Conn) (map[string]bool, error) {
	rows, err := conn.QueryContext(ctx, "SELECT version FROM schema_migrations")
	if err != nil {
		return nil, fmt.Errorf("failed to read applied migrations: %w", err)
	}
	defer rows.Close()

	applied := make(map[string]bool)
	for rows.Next() {
		var version string
		if err := rows.Scan(&version); err != nil {
			return nil, fmt.Errorf("failed to scan migration version: %w", err)
		}
		applied[version] = true
	}
	return applied, rows.Err()
}

func applyMigration(ctx context.Context, conn *sql.Conn, name, content string) error {
	tx, err := conn.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err := tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
			slog.Error("Failed to rollback migration", "migration", name, "error", err)
		}
	}()

	if _, err := tx.ExecContext(ctx, content); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, "INSERT INTO schema_migrations (version) VALUES ($1)", name); err != nil {
		return err
	}
	return tx.Commit()
}
