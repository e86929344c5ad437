package geo

import "math"

// MoonRadiusKm converts sphere units to kilometres for display.
const MoonRadiusKm = 1737.4

// Vec3 is a point or direction in sphere units, where the Moon has radius 1.
type Vec3 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Add returns v + o.
func (v Vec3) Add(o Vec3) Vec3 {
	return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z}
}

// Sub returns v - o.
func (v Vec3) Sub(o Vec3) Vec3 {
	return Vec3{v.X - o.X, v.Y - o.Y, v.Z - o.Z}
}

// Scale returns v * s.
func (v Vec3) Scale(s float64) Vec3 {
	return Vec3{v.X * s, v.Y * s, v.Z * s}
}

// Dot returns the dot product of v and o.
func (v Vec3) Dot(o Vec3) float64 {
	return v.X*o.X + v.Y*o.Y + v.Z*o.Z
}

// Norm returns the Euclidean length of the vector.
func (v Vec3) Norm() float64 {
	return math.Sqrt(v.Dot(v))
}

// DistanceTo returns the straight-line distance between two points.
func (v Vec3) DistanceTo(o Vec3) float64 {
	return v.Sub(o).Norm()
}

// Normalize returns the unit vector in the same direction.
// The zero vector normalizes to itself.
func (v Vec3) Normalize() Vec3 {
	l := v.Norm()
	if l == 0 {
		return Vec3{}
	}
	return v.Scale(1 / l)
}

// IsFinite reports whether every component is a finite number.
func (v Vec3) IsFinite() bool {
	return isFinite(v.X) && isFinite(v.Y) && isFinite(v.Z)
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// slerpEpsilon is the angle below which two vectors are treated as parallel.
const slerpEpsilon = 1e-9

// antipodalEpsilon is how close to pi the angle must be for the inputs to be
// treated as opposite, where the arc plane is no longer defined by a and b.
const antipodalEpsilon = 1e-6

// Slerp interpolates from a to b along the great-circle arc at constant
// angular speed. t=0 yields a and t=1 yields b. Parallel or zero-length
// inputs return a for every t. Opposite inputs take the half circle through
// Orthogonal(a).
func Slerp(a, b Vec3, t float64) Vec3 {
	la, lb := a.Norm(), b.Norm()
	if la == 0 || lb == 0 || a == b {
		return a
	}
	cos := a.Dot(b) / (la * lb)
	theta := math.Acos(math.Max(-1, math.Min(1, cos)))
	if math.Abs(theta) < slerpEpsilon {
		return a
	}
	if math.Pi-theta < antipodalEpsilon {
		u, p := a.Scale(1/la), Orthogonal(a)
		dir := u.Scale(math.Cos(t * math.Pi)).Add(p.Scale(math.Sin(t * math.Pi)))
		return dir.Scale(la + (lb-la)*t)
	}
	sinTheta := math.Sin(theta)
	w1 := math.Sin((1-t)*theta) / sinTheta
	w2 := math.Sin(t*theta) / sinTheta
	return a.Scale(w1).Add(b.Scale(w2))
}

// Orthogonal returns a unit vector perpendicular to v, built from the
// coordinate axis least aligned with it. The zero vector yields the zero vector.
func Orthogonal(v Vec3) Vec3 {
	u := v.Normalize()
	if u == (Vec3{}) {
		return Vec3{}
	}
	axis := Vec3{X: 1}
	switch ax, ay, az := math.Abs(u.X), math.Abs(u.Y), math.Abs(u.Z); {
	case ay <= ax && ay <= az:
		axis = Vec3{Y: 1}
	case az <= ax && az <= ay:
		axis = Vec3{Z: 1}
	}
	return axis.Sub(u.Scale(axis.Dot(u))).Normalize()
}

// PathLength sums the Euclidean distances between consecutive points.
func PathLength(points []Vec3) float64 {
	var total float64
	for i := 1; i < len(points); i++ {
		total += points[i-1].DistanceTo(points[i])
	}
	return total
}

// ToKilometers converts a length in sphere units to kilometres.
func ToKilometers(units float64) float64 {
	return units * MoonRadiusKm
}
