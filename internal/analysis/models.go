package analysis

import (
	"errors"
	"time"
)

var (
	ErrAnalysisNotFound = errors.New("analysis not found")
	ErrNoValidEntries   = errors.New("no valid entries to import")
)

const (
	SummaryLow      = "Low hazard"
	SummaryMedium   = "Medium hazard"
	SummaryHigh     = "High hazard"
	SummaryImported = "Imported"
)

// Composition is the estimated surface make-up in percent.
type Composition struct {
	Helium3  float64 `json:"helium3"`
	Titanium float64 `json:"titanium"`
	Silicon  float64 `json:"silicon"`
}

// Hazards are 0-100 scores for the terrain at a site.
type Hazards struct {
	Craters       int `json:"craters"`
	Slopes        int `json:"slopes"`
	Radioactivity int `json:"radioactivity"`
}

// Analysis is one stored site survey.
type Analysis struct {
	ID      int     `json:"id"`
	UserID  int     `json:"user_id"`
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
	Summary string  `json:"summary"`
	Composition
	Hazards
	CreatedAt time.Time `json:"created_at"`
}

type Request struct {
	Lat *float64 `json:"lat" validate:"required,latitude"`
	Lon *float64 `json:"lon" validate:"required,longitude"`
}
