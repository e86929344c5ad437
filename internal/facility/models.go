package facility

import (
	"errors"
	"fmt"

	"lunarbase-server/internal/geo"
)

type Type string

const (
	TypeModule  Type = "module"
	TypeLaunch  Type = "launch"
	TypeLab     Type = "lab"
	TypePower   Type = "power"
	TypeStorage Type = "storage"
)

func (t Type) String() string {
	return string(t)
}

func (t Type) IsValid() bool {
	_, ok := catalog[t]
	return ok
}

// Object is one placed facility. Lat/Lon are derived from the position and
// kept for display; X/Y/Z are authoritative.
type Object struct {
	ID      int     `json:"id"`
	TypeKey string  `json:"typeKey"`
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
	Z       float64 `json:"z"`
}

// Position returns the object's centre on the unit sphere.
func (o Object) Position() geo.Vec3 {
	return geo.Vec3{X: o.X, Y: o.Y, Z: o.Z}
}

// ZoneRadius returns the radius of the object's zone of influence.
func (o Object) ZoneRadius() float64 {
	return ZoneRadius(o.TypeKey)
}

var (
	ErrMissingTypeKey      = errors.New("typeKey is required")
	ErrNonFiniteCoordinate = errors.New("coordinates must be finite numbers")
)

// Valid checks the coordinates of an imported or persisted object. An empty
// type key is allowed and takes the default zone radius; the key's presence
// is checked where the object is decoded.
func (o Object) Valid() error {
	if !o.Position().IsFinite() {
		return fmt.Errorf("object %d: %w", o.ID, ErrNonFiniteCoordinate)
	}
	return nil
}

// TypeInfo describes a facility type for the planning UI.
type TypeInfo struct {
	Key         Type    `json:"key"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Footprint   string  `json:"footprint"`
	ZoneRadius  float64 `json:"zone_radius"`
	Color       string  `json:"color"`
}
