package route

import (
	"errors"
	"time"

	"lunarbase-server/internal/geo"
)

var (
	ErrUnresolvedEndpoint = errors.New("route endpoint does not match a placed object")
	ErrRouteNotFound      = errors.New("route not found")
)

type BuildRequest struct {
	FromID    int    `json:"fromId"`
	ToID      int    `json:"toId"`
	Transport string `json:"transport" validate:"omitempty,oneof=walk rover shuttle"`
}

type CreateRequest struct {
	BuildRequest
	Name        string `json:"name" validate:"max=100"`
	Description string `json:"description" validate:"max=500"`
	Priority    string `json:"priority" validate:"omitempty,oneof=low standard high"`
}

type RenameRequest struct {
	Name string `json:"name" validate:"max=100"`
}

// Preview is an unsaved route between two placed objects.
type Preview struct {
	Points           []geo.Vec3 `json:"points"`
	Distance         float64    `json:"distance"`
	DistanceKm       float64    `json:"distance_km"`
	Transport        Transport  `json:"transport"`
	EstimatedMinutes int        `json:"estimated_minutes"`
	FromLabel        string     `json:"from_label"`
	ToLabel          string     `json:"to_label"`
}

// Route is a saved path attached to the owner's saved layout.
type Route struct {
	ID          int        `json:"id"`
	UserID      int        `json:"user_id"`
	LayoutID    int        `json:"layout_id"`
	Path        []geo.Vec3 `json:"path"`
	Name        *string    `json:"name"`
	Description *string    `json:"description"`
	Transport   Transport  `json:"transport"`
	Priority    Priority   `json:"priority"`
	CreatedAt   time.Time  `json:"created_at"`
}

// View is a saved route with its display figures.
type View struct {
	Route
	DistanceKm       float64 `json:"distance_km"`
	EstimatedMinutes int     `json:"estimated_minutes"`
	FromLabel        string  `json:"from_label"`
	ToLabel          string  `json:"to_label"`
}

type NewRoute struct {
	UserID      int
	LayoutID    int
	Path        []geo.Vec3
	Name        *string
	Description *string
	Transport   Transport
	Priority    Priority
}
