package layout

import (
	"errors"
	"time"

	"lunarbase-server/internal/facility"
	"lunarbase-server/internal/safety"
)

var ErrLayoutNotFound = errors.New("layout not found")

// SavedLayout is the persisted form of a session: one row per user.
type SavedLayout struct {
	ID           int               `json:"id"`
	UserID       int               `json:"user_id"`
	Objects      []facility.Object `json:"objects"`
	OverallScore int               `json:"overall_score"`
	CreatedAt    time.Time         `json:"created_at"`
	UpdatedAt    time.Time         `json:"updated_at"`
}

// Summary is one row of the admin overview.
type Summary struct {
	ID           int       `json:"id"`
	UserID       int       `json:"user_id"`
	OwnerEmail   string    `json:"owner_email"`
	ObjectCount  int       `json:"object_count"`
	OverallScore int       `json:"overall_score"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// PlacementResult answers a successful placement with the new object and
// the layout's updated safety picture.
type PlacementResult struct {
	Object  facility.Object `json:"object"`
	Metrics safety.Metrics  `json:"metrics"`
	Alerts  []safety.Alert  `json:"alerts"`
}

type ImportResult struct {
	Report  ImportReport `json:"report"`
	Session Session      `json:"session"`
}
