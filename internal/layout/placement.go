package layout

import (
	"errors"
	"math/rand/v2"
	"time"

	"lunarbase-server/internal/facility"
	"lunarbase-server/internal/geo"
)

var (
	ErrInvalidCoordinates = errors.New("invalid coordinates")
	ErrZoneOverlap        = errors.New("zone overlaps an existing facility")
)

// Point carries raw coordinates from the client. A nil field means the
// coordinate was missing.
type Point struct {
	X *float64 `json:"x"`
	Y *float64 `json:"y"`
	Z *float64 `json:"z"`
}

// Vec3 returns the point when all three coordinates are present and finite.
func (p Point) Vec3() (geo.Vec3, bool) {
	if p.X == nil || p.Y == nil || p.Z == nil {
		return geo.Vec3{}, false
	}
	v := geo.Vec3{X: *p.X, Y: *p.Y, Z: *p.Z}
	return v, v.IsFinite()
}

// PointOf wraps v for callers that already hold a complete position.
func PointOf(v geo.Vec3) Point {
	return Point{X: &v.X, Y: &v.Y, Z: &v.Z}
}

// Candidate is a placement request: a facility type at a surface point.
type Candidate struct {
	TypeKey string `json:"typeKey" validate:"required,max=32"`
	Point   Point  `json:"point"`
}

// TryPlace projects the candidate onto the unit sphere and accepts it if its
// zone does not intersect the zone of any existing object. Touching zones are
// allowed. existing is never modified.
func TryPlace(c Candidate, existing []facility.Object, ids *IDGenerator) (facility.Object, error) {
	pos, ok := c.Point.Vec3()
	if !ok || pos.Norm() == 0 {
		return facility.Object{}, ErrInvalidCoordinates
	}
	pos = pos.Normalize()

	if overlaps(pos, facility.ZoneRadius(c.TypeKey), existing) {
		return facility.Object{}, ErrZoneOverlap
	}

	lat, lon := geo.LatLon(pos)
	return facility.Object{
		ID:      ids.Next(existing),
		TypeKey: c.TypeKey,
		Lat:     lat,
		Lon:     lon,
		X:       pos.X,
		Y:       pos.Y,
		Z:       pos.Z,
	}, nil
}

// overlaps reports whether a zone of the given radius at pos intersects any
// existing zone. Distance equal to the sum of radii does not overlap.
func overlaps(pos geo.Vec3, radius float64, existing []facility.Object) bool {
	for _, obj := range existing {
		if pos.DistanceTo(obj.Position()) < radius+obj.ZoneRadius() {
			return true
		}
	}
	return false
}

// IDGenerator issues object ids from the wall clock in milliseconds plus a
// random offset, stepping past ids already used in the layout.
type IDGenerator struct {
	now    func() time.Time
	jitter func(n int) int
	span   int
}

func NewIDGenerator(span int) *IDGenerator {
	return &IDGenerator{now: time.Now, jitter: rand.IntN, span: max(span, 1)}
}

// Next returns an id unique within existing. At most len(existing)+1
// candidates are tried, and one of them is always free.
func (g *IDGenerator) Next(existing []facility.Object) int {
	taken := make(map[int]struct{}, len(existing))
	for _, obj := range existing {
		taken[obj.ID] = struct{}{}
	}

	id := int(g.now().UnixMilli()) + g.jitter(g.span)
	for range len(existing) + 1 {
		if _, used := taken[id]; !used {
			return id
		}
		id++
	}
	return id
}
