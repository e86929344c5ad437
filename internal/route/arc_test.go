package route

import (
	"math"
	"testing"

	"lunarbase-server/internal/facility"
	"lunarbase-server/internal/geo"
)

func approxEqual(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}

func TestBuildArcEndpointsOnZoneBoundary(t *testing.T) {
	from := facility.Object{ID: 1, TypeKey: "module", X: 1}
	to := facility.Object{ID: 2, TypeKey: "power", Z: 1}

	line := BuildArc(from, to, 0)
	if len(line.Points) != DefaultSegments+1 {
		t.Fatalf("expected %d points, got %d", DefaultSegments+1, len(line.Points))
	}

	first, last := line.Points[0], line.Points[len(line.Points)-1]
	if d := first.DistanceTo(from.Position()); !approxEqual(d, 0.21, 1e-12) {
		t.Errorf("start should sit on the module zone, got %v", d)
	}
	if d := last.DistanceTo(to.Position()); !approxEqual(d, 0.26, 1e-12) {
		t.Errorf("end should sit on the power zone, got %v", d)
	}
	if !approxEqual(line.Distance, geo.PathLength(line.Points), 1e-12) {
		t.Errorf("distance does not match the polyline length")
	}
	if !approxEqual(line.Kilometers(), line.Distance*geo.MoonRadiusKm, 1e-9) {
		t.Errorf("kilometres not scaled by the Moon radius")
	}
}

func TestBuildArcSegments(t *testing.T) {
	from := facility.Object{ID: 1, TypeKey: "lab", X: 1}
	to := facility.Object{ID: 2, TypeKey: "lab", Y: 1}

	if got := len(BuildArc(from, to, 8).Points); got != 9 {
		t.Errorf("expected 9 points, got %d", got)
	}
}

func TestBuildArcSameObject(t *testing.T) {
	obj := facility.Object{ID: 1, TypeKey: "storage", X: 0.6, Y: 0.8}

	line := BuildArc(obj, obj, 16)
	for i, p := range line.Points {
		if p != obj.Position() {
			t.Fatalf("point %d = %+v, expected the centre", i, p)
		}
	}
	if line.Distance != 0 {
		t.Errorf("expected zero length, got %v", line.Distance)
	}
}

func TestNearest(t *testing.T) {
	objects := []facility.Object{
		{ID: 1, X: 1},
		{ID: 2, Y: 1},
		{ID: 3, Y: 1},
	}

	if got, _ := Nearest(geo.Vec3{X: 0.9, Y: 0.1}, objects); got.ID != 1 {
		t.Errorf("expected 1, got %d", got.ID)
	}
	if got, _ := Nearest(geo.Vec3{Y: 0.9}, objects); got.ID != 2 {
		t.Errorf("tie should go to the earlier object, got %d", got.ID)
	}
	if _, ok := Nearest(geo.Vec3{}, nil); ok {
		t.Errorf("expected no match on an empty layout")
	}
}

func TestEstimateMinutes(t *testing.T) {
	tests := []struct {
		transport Transport
		km        float64
		want      int
	}{
		{TransportWalk, 10, 120},
		{TransportRover, 10, 48},
		{TransportShuttle, 10, 40},
		{TransportWalk, 0.01, 1},
		{TransportWalk, 0, 0},
		{Transport("hovercraft"), 10, 120},
	}
	for _, tt := range tests {
		if got := tt.transport.EstimateMinutes(tt.km); got != tt.want {
			t.Errorf("%s %.2f km: expected %d, got %d", tt.transport, tt.km, tt.want, got)
		}
	}
}

func TestParse(t *testing.T) {
	if ParseTransport("") != TransportWalk || ParseTransport("rover") != TransportRover {
		t.Errorf("unexpected transport parsing")
	}
	if ParsePriority("") != PriorityStandard || ParsePriority("high") != PriorityHigh || ParsePriority("urgent") != PriorityStandard {
		t.Errorf("unexpected priority parsing")
	}
}

func TestBuildArcAntipodalObjects(t *testing.T) {
	from := facility.Object{ID: 1, TypeKey: "module", X: 1}
	to := facility.Object{ID: 2, TypeKey: "lab", X: -1}

	line := BuildArc(from, to, 8)
	for i, p := range line.Points {
		if !p.IsFinite() || p.Norm() < 0.78-1e-9 || p.Norm() > 0.79+1e-9 {
			t.Fatalf("point %d off the arc: %+v", i, p)
		}
	}
	if d := line.Points[8].DistanceTo(geo.Vec3{X: -0.78}); d > 1e-9 {
		t.Errorf("end should sit on the lab zone, off by %v", d)
	}
	// Half circle of radius about 0.785, slightly shortened by the chords.
	if line.Distance < 2.3 || line.Distance > math.Pi*0.79 {
		t.Errorf("unexpected distance %v", line.Distance)
	}
}
