package route

import "math"

type Transport string

const (
	TransportWalk    Transport = "walk"
	TransportRover   Transport = "rover"
	TransportShuttle Transport = "shuttle"
)

// speedKmh is the planning speed of each transport mode.
var speedKmh = map[Transport]float64{
	TransportWalk:    5,
	TransportRover:   12.5,
	TransportShuttle: 15,
}

func (t Transport) IsValid() bool {
	_, ok := speedKmh[t]
	return ok
}

// ParseTransport maps an empty or unknown mode to walking.
func ParseTransport(s string) Transport {
	if t := Transport(s); t.IsValid() {
		return t
	}
	return TransportWalk
}

// EstimateMinutes returns the whole minutes needed to cover km, with any
// non-zero trip taking at least one minute.
func (t Transport) EstimateMinutes(km float64) int {
	if km <= 0 {
		return 0
	}
	minutes := km / speedKmh[ParseTransport(string(t))] * 60
	return max(1, int(math.Round(minutes)))
}

type Priority string

const (
	PriorityLow      Priority = "low"
	PriorityStandard Priority = "standard"
	PriorityHigh     Priority = "high"
)

// ParsePriority maps an empty or unknown priority to standard.
func ParsePriority(s string) Priority {
	switch p := Priority(s); p {
	case PriorityLow, PriorityHigh:
		return p
	default:
		return PriorityStandard
	}
}
