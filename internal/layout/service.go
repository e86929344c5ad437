package layout

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"lunarbase-server/internal/metrics"
	"lunarbase-server/internal/safety"
	apperrors "lunarbase-server/internal/shared/errors"
)

// Service owns the per-user layout sessions. Mutations for one user are
// serialised; different users never block each other.
type Service struct {
	store    Store
	sessions SessionStore
	ids      *IDGenerator
	locks    *userLocks
	logger   *slog.Logger
}

func NewService(store Store, sessions SessionStore, ids *IDGenerator, logger *slog.Logger) *Service {
	logger.Debug("Initializing layout service")

	return &Service{
		store:    store,
		sessions: sessions,
		ids:      ids,
		locks:    newUserLocks(),
		logger:   logger,
	}
}

// Current returns the user's session, loading the saved layout on first use.
func (s *Service) Current(ctx context.Context, userID int) (*Session, error) {
	unlock := s.locks.lock(userID)
	defer unlock()

	return s.current(ctx, userID)
}

func (s *Service) current(ctx context.Context, userID int) (*Session, error) {
	logger := s.logger.With("component", "layout_service", "operation", "current", "user_id", userID)

	sess, ok, err := s.sessions.Get(ctx, userID)
	if err != nil {
		return nil, apperrors.WrapExternal("session store unavailable", err)
	}
	if ok {
		return sess, nil
	}

	logger.Debug("No active session, restoring saved layout")
	sess = NewSession(userID)
	saved, err := s.store.GetByUserID(ctx, userID)
	switch {
	case errors.Is(err, ErrLayoutNotFound):
	case err != nil:
		return nil, apperrors.WrapInternal("failed to load saved layout", err)
	default:
		sess.LayoutID = saved.ID
		sess.Replace(saved.Objects)
	}

	if err := s.sessions.Put(ctx, sess); err != nil {
		return nil, apperrors.WrapExternal("session store unavailable", err)
	}
	return sess, nil
}

func (s *Service) Place(ctx context.Context, userID int, c Candidate) (*PlacementResult, error) {
	logger := s.logger.With("component", "layout_service", "operation", "place", "user_id", userID, "type", c.TypeKey)
	logger.Debug("Placing facility")

	unlock := s.locks.lock(userID)
	defer unlock()

	sess, err := s.current(ctx, userID)
	if err != nil {
		return nil, err
	}

	obj, err := sess.Place(c, s.ids)
	switch {
	case errors.Is(err, ErrInvalidCoordinates):
		metrics.Placements.WithLabelValues("invalid").Inc()
		return nil, apperrors.WrapValidation("coordinates must be three finite numbers", err)
	case errors.Is(err, ErrZoneOverlap):
		metrics.Placements.WithLabelValues("overlap").Inc()
		return nil, apperrors.WrapConflict("facility zone overlaps an existing facility", err)
	case err != nil:
		return nil, apperrors.WrapInternal("failed to place facility", err)
	}

	if err := s.sessions.Put(ctx, sess); err != nil {
		return nil, apperrors.WrapExternal("session store unavailable", err)
	}
	metrics.Placements.WithLabelValues("accepted").Inc()

	logger.Info("Facility placed", "object_id", obj.ID, "overall", sess.Metrics.Overall)
	return &PlacementResult{Object: obj, Metrics: sess.Metrics, Alerts: sess.Alerts}, nil
}

// Reset clears the working session. The saved layout is untouched.
func (s *Service) Reset(ctx context.Context, userID int) (*Session, error) {
	logger := s.logger.With("component", "layout_service", "operation", "reset", "user_id", userID)

	unlock := s.locks.lock(userID)
	defer unlock()

	sess, err := s.current(ctx, userID)
	if err != nil {
		return nil, err
	}
	sess.Reset()
	if err := s.sessions.Put(ctx, sess); err != nil {
		return nil, apperrors.WrapExternal("session store unavailable", err)
	}

	logger.Info("Layout reset")
	return sess, nil
}

// Discard drops the user's working session. The next request starts from the
// saved layout.
func (s *Service) Discard(ctx context.Context, userID int) error {
	logger := s.logger.With("component", "layout_service", "operation", "discard", "user_id", userID)

	unlock := s.locks.lock(userID)
	defer unlock()

	if err := s.sessions.Delete(ctx, userID); err != nil {
		return apperrors.WrapExternal("session store unavailable", err)
	}

	logger.Debug("Working session discarded")
	return nil
}

// Save persists the working objects. A failed save leaves the session as it was.
func (s *Service) Save(ctx context.Context, userID int) (*Session, error) {
	logger := s.logger.With("component", "layout_service", "operation", "save", "user_id", userID)

	unlock := s.locks.lock(userID)
	defer unlock()

	sess, err := s.current(ctx, userID)
	if err != nil {
		return nil, err
	}

	saved, err := s.store.Save(ctx, userID, sess.Objects, sess.Metrics.Overall)
	if err != nil {
		return nil, apperrors.WrapInternal("failed to save layout", err)
	}
	sess.LayoutID = saved.ID
	if err := s.sessions.Put(ctx, sess); err != nil {
		return nil, apperrors.WrapExternal("session store unavailable", err)
	}
	metrics.SavedOverallScore.Observe(float64(sess.Metrics.Overall))

	logger.Info("Layout saved", "layout_id", saved.ID, "object_count", len(sess.Objects))
	return sess, nil
}

// Load replaces the working session with the saved layout.
func (s *Service) Load(ctx context.Context, userID int) (*Session, error) {
	logger := s.logger.With("component", "layout_service", "operation", "load", "user_id", userID)

	unlock := s.locks.lock(userID)
	defer unlock()

	saved, err := s.store.GetByUserID(ctx, userID)
	if errors.Is(err, ErrLayoutNotFound) {
		return nil, apperrors.NotFound("no saved layout")
	}
	if err != nil {
		return nil, apperrors.WrapInternal("failed to load saved layout", err)
	}

	sess := NewSession(userID)
	sess.LayoutID = saved.ID
	sess.Replace(saved.Objects)
	if err := s.sessions.Put(ctx, sess); err != nil {
		return nil, apperrors.WrapExternal("session store unavailable", err)
	}

	logger.Info("Layout loaded", "layout_id", saved.ID, "object_count", len(sess.Objects))
	return sess, nil
}

func (s *Service) Export(ctx context.Context, userID int) ([]byte, error) {
	sess, err := s.Current(ctx, userID)
	if err != nil {
		return nil, err
	}
	data, err := Export(sess.Objects)
	if err != nil {
		return nil, apperrors.WrapInternal("failed to export layout", err)
	}
	return data, nil
}

// Import replaces the working objects with the valid entries of data.
func (s *Service) Import(ctx context.Context, userID int, data []byte) (*ImportResult, error) {
	logger := s.logger.With("component", "layout_service", "operation", "import", "user_id", userID)

	objects, report, err := Import(data)
	if err != nil {
		return nil, apperrors.WrapValidation("layout file must be a JSON array", err)
	}

	unlock := s.locks.lock(userID)
	defer unlock()

	sess, err := s.current(ctx, userID)
	if err != nil {
		return nil, err
	}
	sess.Replace(objects)
	if err := s.sessions.Put(ctx, sess); err != nil {
		return nil, apperrors.WrapExternal("session store unavailable", err)
	}

	metrics.LayoutImports.WithLabelValues("imported").Add(float64(report.Imported))
	metrics.LayoutImports.WithLabelValues("dropped").Add(float64(len(report.Dropped)))

	logger.Info("Layout imported", "imported", report.Imported, "dropped", len(report.Dropped))
	return &ImportResult{Report: report, Session: sess.Snapshot()}, nil
}

func (s *Service) Safety(ctx context.Context, userID int) (*safety.Report, error) {
	sess, err := s.Current(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &safety.Report{Metrics: sess.Metrics, Alerts: sess.Alerts}, nil
}

func (s *Service) List(ctx context.Context) ([]Summary, error) {
	summaries, err := s.store.List(ctx)
	if err != nil {
		return nil, apperrors.WrapInternal("failed to list layouts", err)
	}
	return summaries, nil
}

// userLocks hands out one mutex per user, dropping it once no caller holds
// or waits for it.
type userLocks struct {
	mu    sync.Mutex
	locks map[int]*userLock
}

type userLock struct {
	sync.Mutex
	refs int
}

func newUserLocks() *userLocks {
	return &userLocks{locks: make(map[int]*userLock)}
}

func (u *userLocks) lock(userID int) (unlock func()) {
	u.mu.Lock()
	l, ok := u.locks[userID]
	if !ok {
		l = &userLock{}
		u.locks[userID] = l
	}
	l.refs++
	u.mu.Unlock()

	l.Lock()
	return func() {
		l.Unlock()
		u.mu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(u.locks, userID)
		}
		u.mu.Unlock()
	}
}
