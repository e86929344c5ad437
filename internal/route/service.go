package route

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"lunarbase-server/internal/facility"
	"lunarbase-server/internal/geo"
	"lunarbase-server/internal/layout"
	"lunarbase-server/internal/metrics"
	apperrors "lunarbase-server/internal/shared/errors"
)

// Layouts yields the user's current working layout.
type Layouts interface {
	Current(ctx context.Context, userID int) (*layout.Session, error)
}

type Service struct {
	store    Store
	layouts  Layouts
	segments int
	logger   *slog.Logger
}

func NewService(store Store, layouts Layouts, segments int, logger *slog.Logger) *Service {
	logger.Debug("Initializing route service")

	return &Service{
		store:    store,
		layouts:  layouts,
		segments: segments,
		logger:   logger,
	}
}

// Build resolves both endpoints in the user's layout and returns the arc
// between them without saving it.
func (s *Service) Build(ctx context.Context, userID int, req BuildRequest) (*Preview, error) {
	sess, err := s.layouts.Current(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.build(sess, req)
}

func (s *Service) build(sess *layout.Session, req BuildRequest) (*Preview, error) {
	from, ok := sess.Find(req.FromID)
	if !ok {
		return nil, apperrors.WrapValidation(fmt.Sprintf("no placed object with id %d", req.FromID), ErrUnresolvedEndpoint)
	}
	to, ok := sess.Find(req.ToID)
	if !ok {
		return nil, apperrors.WrapValidation(fmt.Sprintf("no placed object with id %d", req.ToID), ErrUnresolvedEndpoint)
	}

	transport := ParseTransport(req.Transport)
	line := BuildArc(from, to, s.segments)
	km := line.Kilometers()
	metrics.RoutesBuilt.WithLabelValues(string(transport)).Inc()

	return &Preview{
		Points:           line.Points,
		Distance:         line.Distance,
		DistanceKm:       km,
		Transport:        transport,
		EstimatedMinutes: transport.EstimateMinutes(km),
		FromLabel:        facility.Label(from, sess.Objects),
		ToLabel:          facility.Label(to, sess.Objects),
	}, nil
}

// Create builds and saves a route. The layout must have been saved first so
// the route has a layout to belong to.
func (s *Service) Create(ctx context.Context, userID int, req CreateRequest) (*View, error) {
	logger := s.logger.With("component", "route_service", "operation", "create", "user_id", userID)
	logger.Debug("Creating route", "from", req.FromID, "to", req.ToID)

	sess, err := s.layouts.Current(ctx, userID)
	if err != nil {
		return nil, err
	}
	if sess.LayoutID == 0 {
		return nil, apperrors.Validation("save the layout before saving routes")
	}

	preview, err := s.build(sess, req.BuildRequest)
	if err != nil {
		return nil, err
	}

	rt, err := s.store.Create(ctx, NewRoute{
		UserID:      userID,
		LayoutID:    sess.LayoutID,
		Path:        preview.Points,
		Name:        optional(req.Name),
		Description: optional(req.Description),
		Transport:   preview.Transport,
		Priority:    ParsePriority(req.Priority),
	})
	if err != nil {
		return nil, apperrors.WrapInternal("failed to save route", err)
	}

	logger.Info("Route saved", "route_id", rt.ID, "distance_km", preview.DistanceKm)
	return &View{
		Route:            *rt,
		DistanceKm:       preview.DistanceKm,
		EstimatedMinutes: preview.EstimatedMinutes,
		FromLabel:        preview.FromLabel,
		ToLabel:          preview.ToLabel,
	}, nil
}

// List returns the routes of the user's saved layout, newest first. Paths
// with fewer than two points are left out.
func (s *Service) List(ctx context.Context, userID int) ([]View, error) {
	sess, err := s.layouts.Current(ctx, userID)
	if err != nil {
		return nil, err
	}
	if sess.LayoutID == 0 {
		return []View{}, nil
	}

	routes, err := s.store.ListByLayout(ctx, userID, sess.LayoutID)
	if err != nil {
		return nil, apperrors.WrapInternal("failed to list routes", err)
	}

	views := make([]View, 0, len(routes))
	for _, rt := range routes {
		if len(rt.Path) < 2 {
			continue
		}
		views = append(views, describe(rt, sess.Objects))
	}
	return views, nil
}

func describe(rt Route, objects []facility.Object) View {
	km := Line{Points: rt.Path, Distance: geo.PathLength(rt.Path)}.Kilometers()

	v := View{Route: rt, DistanceKm: km, EstimatedMinutes: rt.Transport.EstimateMinutes(km)}
	if obj, ok := Nearest(rt.Path[0], objects); ok {
		v.FromLabel = facility.Label(obj, objects)
	}
	if obj, ok := Nearest(rt.Path[len(rt.Path)-1], objects); ok {
		v.ToLabel = facility.Label(obj, objects)
	}
	return v
}

// Rename sets the route name. A blank name clears it.
func (s *Service) Rename(ctx context.Context, id int, name string) (*Route, error) {
	rt, err := s.store.Rename(ctx, id, optional(name))
	if errors.Is(err, ErrRouteNotFound) {
		return nil, apperrors.NotFoundf("route not found with id: %d", id)
	}
	if err != nil {
		return nil, apperrors.WrapInternal("failed to rename route", err)
	}
	return rt, nil
}

func (s *Service) Delete(ctx context.Context, id int) error {
	err := s.store.Delete(ctx, id)
	if errors.Is(err, ErrRouteNotFound) {
		return apperrors.NotFoundf("route not found with id: %d", id)
	}
	if err != nil {
		return apperrors.WrapInternal("failed to delete route", err)
	}

	s.logger.Info("Route deleted", "component", "route_service", "route_id", id)
	return nil
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
