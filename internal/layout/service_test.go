package layout

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"lunarbase-server/internal/facility"
	apperrors "lunarbase-server/internal/shared/errors"
)

// memoryLayouts is a Store backed by a map.
type memoryLayouts struct {
	mu      sync.Mutex
	byUser  map[int]SavedLayout
	nextID  int
	saveErr error
}

func newMemoryLayouts() *memoryLayouts {
	return &memoryLayouts{byUser: make(map[int]SavedLayout), nextID: 1}
}

func (m *memoryLayouts) Save(_ context.Context, userID int, objects []facility.Object, overallScore int) (*SavedLayout, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.saveErr != nil {
		return nil, m.saveErr
	}
	saved, ok := m.byUser[userID]
	if !ok {
		saved = SavedLayout{ID: m.nextID, UserID: userID, CreatedAt: time.Now()}
		m.nextID++
	}
	saved.Objects = append([]facility.Object(nil), objects...)
	saved.OverallScore = overallScore
	saved.UpdatedAt = time.Now()
	m.byUser[userID] = saved
	return &saved, nil
}

func (m *memoryLayouts) GetByUserID(_ context.Context, userID int) (*SavedLayout, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	saved, ok := m.byUser[userID]
	if !ok {
		return nil, ErrLayoutNotFound
	}
	saved.Objects = append([]facility.Object(nil), saved.Objects...)
	return &saved, nil
}

func (m *memoryLayouts) List(context.Context) ([]Summary, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	summaries := []Summary{}
	for _, saved := range m.byUser {
		summaries = append(summaries, Summary{
			ID:           saved.ID,
			UserID:       saved.UserID,
			ObjectCount:  len(saved.Objects),
			OverallScore: saved.OverallScore,
			UpdatedAt:    saved.UpdatedAt,
		})
	}
	return summaries, nil
}

func newTestService() (*Service, *memoryLayouts) {
	store := newMemoryLayouts()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewService(store, NewMemoryStore(), NewIDGenerator(100000), logger), store
}

func TestServicePlaceErrors(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	if _, err := svc.Place(ctx, 1, Candidate{TypeKey: "module", Point: pt(1, 0, 0)}); err != nil {
		t.Fatal(err)
	}

	_, err := svc.Place(ctx, 1, Candidate{TypeKey: "power", Point: pt(0.96, 0, 0.27)})
	if apperrors.GetType(err) != apperrors.ErrorTypeConflict {
		t.Errorf("overlap: expected conflict, got %v", err)
	}
	if !errors.Is(err, ErrZoneOverlap) {
		t.Errorf("overlap should wrap ErrZoneOverlap")
	}

	_, err = svc.Place(ctx, 1, Candidate{TypeKey: "power", Point: Point{}})
	if apperrors.GetType(err) != apperrors.ErrorTypeValidation {
		t.Errorf("missing point: expected validation, got %v", err)
	}

	sess, err := svc.Current(ctx, 1)
	if err != nil {
		t.Fatal(err)
	}
	if len(sess.Objects) != 1 {
		t.Errorf("rejected placements changed the layout: %d objects", len(sess.Objects))
	}
}

func TestServiceSessionsArePerUser(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	if _, err := svc.Place(ctx, 1, Candidate{TypeKey: "module", Point: pt(1, 0, 0)}); err != nil {
		t.Fatal(err)
	}
	// Same spot, other user: no overlap with user 1's module.
	if _, err := svc.Place(ctx, 2, Candidate{TypeKey: "module", Point: pt(1, 0, 0)}); err != nil {
		t.Errorf("users must not share a layout: %v", err)
	}
}

func TestServiceSaveLoadReset(t *testing.T) {
	svc, store := newTestService()
	ctx := context.Background()

	if _, err := svc.Load(ctx, 1); apperrors.GetType(err) != apperrors.ErrorTypeNotFound {
		t.Errorf("load without save: expected not found, got %v", err)
	}

	if _, err := svc.Place(ctx, 1, Candidate{TypeKey: "module", Point: pt(1, 0, 0)}); err != nil {
		t.Fatal(err)
	}
	saved, err := svc.Save(ctx, 1)
	if err != nil {
		t.Fatal(err)
	}
	if saved.LayoutID == 0 {
		t.Errorf("save should record the layout id")
	}
	if store.byUser[1].OverallScore != saved.Metrics.Overall {
		t.Errorf("overall score not persisted")
	}

	reset, err := svc.Reset(ctx, 1)
	if err != nil {
		t.Fatal(err)
	}
	if len(reset.Objects) != 0 {
		t.Errorf("reset should empty the session")
	}

	loaded, err := svc.Load(ctx, 1)
	if err != nil {
		t.Fatal(err)
	}
	if len(loaded.Objects) != 1 || loaded.Metrics != saved.Metrics {
		t.Errorf("load did not restore the saved layout: %+v", loaded)
	}
}

func TestServiceSaveFailureKeepsSession(t *testing.T) {
	svc, store := newTestService()
	ctx := context.Background()

	if _, err := svc.Place(ctx, 1, Candidate{TypeKey: "lab", Point: pt(0, 1, 0)}); err != nil {
		t.Fatal(err)
	}
	store.saveErr = errors.New("connection refused")

	if _, err := svc.Save(ctx, 1); apperrors.GetType(err) != apperrors.ErrorTypeInternal {
		t.Errorf("expected internal error, got %v", err)
	}

	sess, err := svc.Current(ctx, 1)
	if err != nil {
		t.Fatal(err)
	}
	if len(sess.Objects) != 1 || sess.LayoutID != 0 {
		t.Errorf("failed save mutated the session: %+v", sess)
	}
}

func TestServiceCurrentRestoresSaved(t *testing.T) {
	svc, store := newTestService()
	ctx := context.Background()

	store.byUser[3] = SavedLayout{ID: 9, UserID: 3, Objects: []facility.Object{{ID: 1, TypeKey: "storage", X: 1}}}

	sess, err := svc.Current(ctx, 3)
	if err != nil {
		t.Fatal(err)
	}
	if sess.LayoutID != 9 || len(sess.Objects) != 1 {
		t.Errorf("expected saved layout to seed the session, got %+v", sess)
	}
}

func TestServiceImport(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	result, err := svc.Import(ctx, 1, []byte(`[
		{"id": 1, "typeKey": "module", "x": 1, "y": 0, "z": 0},
		{"id": 2, "typeKey": "lab"}
	]`))
	if err != nil {
		t.Fatal(err)
	}
	if result.Report.Imported != 1 || len(result.Report.Dropped) != 1 {
		t.Errorf("unexpected report %+v", result.Report)
	}
	if len(result.Session.Objects) != 1 {
		t.Errorf("session not replaced")
	}

	if _, err := svc.Import(ctx, 1, []byte(`{}`)); apperrors.GetType(err) != apperrors.ErrorTypeValidation {
		t.Errorf("malformed file: expected validation, got %v", err)
	}

	data, err := svc.Export(ctx, 1)
	if err != nil {
		t.Fatal(err)
	}
	objects, _, err := Import(data)
	if err != nil || len(objects) != 1 || objects[0].ID != 1 {
		t.Errorf("export did not round-trip the imported layout: %v %+v", err, objects)
	}
}

func TestServiceConcurrentPlacements(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	// Every candidate overlaps every other, so exactly one may win.
	var wg sync.WaitGroup
	for i := range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = svc.Place(ctx, 1, Candidate{TypeKey: "module", Point: pt(1, float64(i)*0.001, 0)})
		}()
	}
	wg.Wait()

	sess, err := svc.Current(ctx, 1)
	if err != nil {
		t.Fatal(err)
	}
	if len(sess.Objects) != 1 {
		t.Errorf("expected exactly one accepted placement, got %d", len(sess.Objects))
	}
}

type brokenSessions struct{ *MemoryStore }

func (brokenSessions) Delete(context.Context, int) error { return errors.New("connection refused") }

func TestServiceDiscard(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	if _, err := svc.Place(ctx, 1, Candidate{TypeKey: "module", Point: pt(1, 0, 0)}); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Save(ctx, 1); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Place(ctx, 1, Candidate{TypeKey: "lab", Point: pt(0, 1, 0)}); err != nil {
		t.Fatal(err)
	}

	if err := svc.Discard(ctx, 1); err != nil {
		t.Fatal(err)
	}
	sess, err := svc.Current(ctx, 1)
	if err != nil {
		t.Fatal(err)
	}
	if len(sess.Objects) != 1 || sess.Objects[0].TypeKey != "module" {
		t.Errorf("expected the saved layout back, got %+v", sess.Objects)
	}

	// Nothing saved for user 2: discarding leaves an empty session.
	if _, err := svc.Place(ctx, 2, Candidate{TypeKey: "lab", Point: pt(0, 1, 0)}); err != nil {
		t.Fatal(err)
	}
	if err := svc.Discard(ctx, 2); err != nil {
		t.Fatal(err)
	}
	if sess, _ := svc.Current(ctx, 2); len(sess.Objects) != 0 {
		t.Errorf("expected an empty session, got %+v", sess.Objects)
	}
}

func TestServiceDiscardStoreFailure(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := NewService(newMemoryLayouts(), brokenSessions{NewMemoryStore()}, NewIDGenerator(10), logger)

	err := svc.Discard(context.Background(), 1)
	if apperrors.GetType(err) != apperrors.ErrorTypeExternal {
		t.Errorf("expected external error, got %v", err)
	}
}
