package analysis

import (
	"context"
	"log/slog"

	apperrors "lunarbase-server/internal/shared/errors"
)

type Service struct {
	store  Store
	logger *slog.Logger
}

func NewService(store Store, logger *slog.Logger) *Service {
	logger.Debug("Initializing analysis service")

	return &Service{store: store, logger: logger}
}

// Analyze surveys a site and records the result for the user.
func (s *Service) Analyze(ctx context.Context, userID int, lat, lon float64) (*Analysis, error) {
	logger := s.logger.With("component", "analysis_service", "operation", "analyze", "user_id", userID)

	composition, hazards, summary := Survey(lat, lon)
	a := Analysis{
		UserID:      userID,
		Lat:         lat,
		Lon:         lon,
		Summary:     summary,
		Composition: composition,
		Hazards:     hazards,
	}
	created, err := s.store.Create(ctx, []Analysis{a})
	if err != nil {
		return nil, apperrors.WrapInternal("failed to store analysis", err)
	}

	logger.Info("Site analysed", "analysis_id", created[0].ID, "summary", summary)
	return &created[0], nil
}

func (s *Service) History(ctx context.Context, userID int) ([]Analysis, error) {
	history, err := s.store.ListByUser(ctx, userID)
	if err != nil {
		return nil, apperrors.WrapInternal("failed to load analysis history", err)
	}
	return history, nil
}

func (s *Service) Delete(ctx context.Context, id, userID int) error {
	found, err := s.store.Delete(ctx, id, userID)
	if err != nil {
		return apperrors.WrapInternal("failed to delete analysis", err)
	}
	if !found {
		return apperrors.NotFoundf("analysis not found with id: %d", id)
	}
	return nil
}

// Import stores the valid entries of data and returns the user's full history.
func (s *Service) Import(ctx context.Context, userID int, data []byte) ([]Analysis, error) {
	logger := s.logger.With("component", "analysis_service", "operation", "import", "user_id", userID)

	entries, err := ParseImport(data)
	if err != nil {
		return nil, apperrors.WrapValidation("no valid analyses to import", err)
	}
	for i := range entries {
		entries[i].UserID = userID
	}
	if _, err := s.store.Create(ctx, entries); err != nil {
		return nil, apperrors.WrapInternal("failed to import analyses", err)
	}

	logger.Info("Analyses imported", "count", len(entries))
	return s.History(ctx, userID)
}
