package analysis

import "math"

// Survey derives a site's composition, hazards and summary from its
// coordinates in degrees. The model is a deterministic heuristic: the same
// site always yields the same figures.
func Survey(lat, lon float64) (Composition, Hazards, string) {
	la, lo := math.Abs(lat), math.Abs(lon)

	var c Composition
	c.Helium3 = round1(math.Abs(math.Sin(la*1.5+lo*0.7))*20 + 5)
	c.Titanium = round1(math.Abs(math.Cos(la*0.8-lo*1.1))*30 + 10)
	c.Silicon = round1(100 - c.Helium3 - c.Titanium)

	h := Hazards{
		Craters:       int(math.Round(math.Abs(math.Cos(la+lo)) * 100)),
		Slopes:        int(math.Round(math.Abs(math.Sin(la*0.5-lo)) * 100)),
		Radioactivity: int(math.Round(math.Abs(math.Sin(la*2+lo*3)) * 100)),
	}

	return c, h, Summarize(h)
}

// Summarize grades the weighted hazard score.
func Summarize(h Hazards) string {
	danger := float64(h.Craters)*0.3 + float64(h.Slopes)*0.5 + float64(h.Radioactivity)*0.2
	switch {
	case danger > 120:
		return SummaryHigh
	case danger > 70:
		return SummaryMedium
	default:
		return SummaryLow
	}
}

func round1(f float64) float64 {
	return math.Round(f*10) / 10
}
