package route

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"lunarbase-server/internal/facility"
	"lunarbase-server/internal/geo"
	"lunarbase-server/internal/layout"
	apperrors "lunarbase-server/internal/shared/errors"
)

type fakeLayouts struct {
	sessions map[int]*layout.Session
}

func (f *fakeLayouts) Current(_ context.Context, userID int) (*layout.Session, error) {
	if s, ok := f.sessions[userID]; ok {
		return s, nil
	}
	return layout.NewSession(userID), nil
}

type memoryRoutes struct {
	mu     sync.Mutex
	routes map[int]Route
	nextID int
}

func newMemoryRoutes() *memoryRoutes {
	return &memoryRoutes{routes: make(map[int]Route), nextID: 1}
}

func (m *memoryRoutes) Create(_ context.Context, nr NewRoute) (*Route, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	rt := Route{
		ID:          m.nextID,
		UserID:      nr.UserID,
		LayoutID:    nr.LayoutID,
		Path:        nr.Path,
		Name:        nr.Name,
		Description: nr.Description,
		Transport:   nr.Transport,
		Priority:    nr.Priority,
		CreatedAt:   time.Unix(int64(m.nextID), 0),
	}
	m.routes[rt.ID] = rt
	m.nextID++
	return &rt, nil
}

func (m *memoryRoutes) ListByLayout(_ context.Context, userID, layoutID int) ([]Route, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []Route
	for id := m.nextID - 1; id > 0; id-- {
		if rt, ok := m.routes[id]; ok && rt.UserID == userID && rt.LayoutID == layoutID {
			out = append(out, rt)
		}
	}
	return out, nil
}

func (m *memoryRoutes) Rename(_ context.Context, id int, name *string) (*Route, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	rt, ok := m.routes[id]
	if !ok {
		return nil, ErrRouteNotFound
	}
	rt.Name = name
	m.routes[id] = rt
	return &rt, nil
}

func (m *memoryRoutes) Delete(_ context.Context, id int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.routes[id]; !ok {
		return ErrRouteNotFound
	}
	delete(m.routes, id)
	return nil
}

func (m *memoryRoutes) RouteOwner(_ context.Context, id int) (int, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	rt, ok := m.routes[id]
	return rt.UserID, ok, nil
}

func savedSession(userID, layoutID int) *layout.Session {
	s := layout.NewSession(userID)
	s.LayoutID = layoutID
	s.Replace([]facility.Object{
		{ID: 100, TypeKey: "module", X: 1},
		{ID: 200, TypeKey: "power", Z: 1},
		{ID: 300, TypeKey: "module", X: -1},
	})
	return s
}

func newTestService(sessions map[int]*layout.Session) (*Service, *memoryRoutes) {
	store := newMemoryRoutes()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewService(store, &fakeLayouts{sessions: sessions}, 32, logger), store
}

func TestBuildPreview(t *testing.T) {
	svc, _ := newTestService(map[int]*layout.Session{1: savedSession(1, 5)})

	preview, err := svc.Build(context.Background(), 1, BuildRequest{FromID: 100, ToID: 200, Transport: "rover"})
	if err != nil {
		t.Fatal(err)
	}
	if len(preview.Points) != 33 {
		t.Errorf("expected 33 points, got %d", len(preview.Points))
	}
	if preview.Transport != TransportRover || preview.EstimatedMinutes <= 0 {
		t.Errorf("unexpected travel estimate %+v", preview)
	}
	if preview.FromLabel != "Habitat module #1 (id:100)" || preview.ToLabel != "Power plant" {
		t.Errorf("unexpected labels %q -> %q", preview.FromLabel, preview.ToLabel)
	}
}

func TestBuildUnresolvedEndpoint(t *testing.T) {
	svc, _ := newTestService(map[int]*layout.Session{1: savedSession(1, 5)})

	_, err := svc.Build(context.Background(), 1, BuildRequest{FromID: 100, ToID: 999})
	if !errors.Is(err, ErrUnresolvedEndpoint) {
		t.Errorf("expected ErrUnresolvedEndpoint, got %v", err)
	}
	if apperrors.GetType(err) != apperrors.ErrorTypeValidation {
		t.Errorf("expected validation error, got %v", apperrors.GetType(err))
	}
}

func TestCreateRequiresSavedLayout(t *testing.T) {
	unsaved := savedSession(1, 0)
	svc, store := newTestService(map[int]*layout.Session{1: unsaved})

	_, err := svc.Create(context.Background(), 1, CreateRequest{BuildRequest: BuildRequest{FromID: 100, ToID: 200}})
	if apperrors.GetType(err) != apperrors.ErrorTypeValidation {
		t.Errorf("expected validation error, got %v", err)
	}
	if len(store.routes) != 0 {
		t.Errorf("nothing should be stored")
	}
}

func TestCreateListRenameDelete(t *testing.T) {
	svc, store := newTestService(map[int]*layout.Session{1: savedSession(1, 5)})
	ctx := context.Background()

	first, err := svc.Create(ctx, 1, CreateRequest{
		BuildRequest: BuildRequest{FromID: 100, ToID: 200, Transport: "shuttle"},
		Name:         "  Supply run ",
		Priority:     "high",
	})
	if err != nil {
		t.Fatal(err)
	}
	if first.Name == nil || *first.Name != "Supply run" || first.Description != nil {
		t.Errorf("unexpected name/description %v %v", first.Name, first.Description)
	}
	if first.Priority != PriorityHigh || first.LayoutID != 5 {
		t.Errorf("unexpected route %+v", first.Route)
	}

	if _, err := svc.Create(ctx, 1, CreateRequest{BuildRequest: BuildRequest{FromID: 200, ToID: 300}}); err != nil {
		t.Fatal(err)
	}

	// A stored path too short to draw.
	store.Create(ctx, NewRoute{UserID: 1, LayoutID: 5, Path: []geo.Vec3{{X: 1}}})

	views, err := svc.List(ctx, 1)
	if err != nil {
		t.Fatal(err)
	}
	if len(views) != 2 {
		t.Fatalf("expected 2 drawable routes, got %d", len(views))
	}
	if views[0].ID != 2 || views[1].ID != 1 {
		t.Errorf("expected newest first, got %d, %d", views[0].ID, views[1].ID)
	}
	if views[1].FromLabel != "Habitat module #1 (id:100)" || views[1].ToLabel != "Power plant" {
		t.Errorf("unexpected nearest labels %q -> %q", views[1].FromLabel, views[1].ToLabel)
	}
	if !approxEqual(views[1].DistanceKm, first.DistanceKm, 1e-9) {
		t.Errorf("listed distance %v differs from saved %v", views[1].DistanceKm, first.DistanceKm)
	}

	renamed, err := svc.Rename(ctx, first.ID, "   ")
	if err != nil {
		t.Fatal(err)
	}
	if renamed.Name != nil {
		t.Errorf("blank rename should clear the name")
	}

	if err := svc.Delete(ctx, first.ID); err != nil {
		t.Fatal(err)
	}
	if err := svc.Delete(ctx, first.ID); apperrors.GetType(err) != apperrors.ErrorTypeNotFound {
		t.Errorf("second delete: expected not found, got %v", err)
	}
	if _, err := svc.Rename(ctx, 42, "x"); apperrors.GetType(err) != apperrors.ErrorTypeNotFound {
		t.Errorf("rename missing: expected not found, got %v", err)
	}
}

func TestListWithoutSavedLayout(t *testing.T) {
	svc, _ := newTestService(nil)

	views, err := svc.List(context.Background(), 1)
	if err != nil {
		t.Fatal(err)
	}
	if views == nil || len(views) != 0 {
		t.Errorf("expected empty list, got %v", views)
	}
}
