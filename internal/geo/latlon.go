package geo

import "math"

// LatLon returns the selenographic latitude and longitude of p in degrees,
// rounded to three decimals. Latitude is measured against the Y axis and
// longitude runs from +X towards +Z.
func LatLon(p Vec3) (lat, lon float64) {
	r := p.Norm()
	if r == 0 {
		return 0, 0
	}
	lat = math.Asin(math.Max(-1, math.Min(1, p.Y/r))) * 180 / math.Pi
	lon = math.Atan2(p.Z, p.X) * 180 / math.Pi
	return round3(lat), round3(lon)
}

// FromLatLon returns the unit-sphere point for the given latitude and
// longitude in degrees.
func FromLatLon(lat, lon float64) Vec3 {
	phi := lat * math.Pi / 180
	lambda := lon * math.Pi / 180
	return Vec3{
		X: math.Cos(phi) * math.Cos(lambda),
		Y: math.Sin(phi),
		Z: math.Cos(phi) * math.Sin(lambda),
	}
}

func round3(f float64) float64 {
	return math.Round(f*1000) / 1000
}
