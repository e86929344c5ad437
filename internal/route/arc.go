package route

import (
	"lunarbase-server/internal/facility"
	"lunarbase-server/internal/geo"
)

// DefaultSegments is the arc resolution used when none is configured.
const DefaultSegments = 128

// Line is a polyline on the sphere. Distance is in sphere units.
type Line struct {
	Points   []geo.Vec3 `json:"points"`
	Distance float64    `json:"distance"`
}

// Kilometers returns the line length on the Moon's surface scale.
func (l Line) Kilometers() float64 {
	return geo.ToKilometers(l.Distance)
}

// BuildArc connects the zone boundaries of from and to with a great-circle
// arc of segments+1 points. The endpoints sit on each object's zone radius
// along the chord between the two centres.
func BuildArc(from, to facility.Object, segments int) Line {
	if segments <= 0 {
		segments = DefaultSegments
	}

	a, b := from.Position(), to.Position()
	start := a.Add(b.Sub(a).Normalize().Scale(from.ZoneRadius()))
	end := b.Add(a.Sub(b).Normalize().Scale(to.ZoneRadius()))

	points := make([]geo.Vec3, segments+1)
	for i := range points {
		points[i] = geo.Slerp(start, end, float64(i)/float64(segments))
	}
	return Line{Points: points, Distance: geo.PathLength(points)}
}

// Nearest returns the object closest to p. Ties go to the earlier object.
func Nearest(p geo.Vec3, objects []facility.Object) (facility.Object, bool) {
	if len(objects) == 0 {
		return facility.Object{}, false
	}
	best := objects[0]
	bestDist := p.DistanceTo(best.Position())
	for _, obj := range objects[1:] {
		if d := p.DistanceTo(obj.Position()); d < bestDist {
			best, bestDist = obj, d
		}
	}
	return best, true
}
