// Package safety scores a facility layout. Every function here is pure: the
// same object set always yields the same metrics and alerts.
package safety

import (
	"math"

	"lunarbase-server/internal/facility"
)

const (
	// radiationProximity is the module-to-lab and module-to-power distance
	// under which a pair counts as dangerous.
	radiationProximity = 0.28
	// labPowerProximity is the stricter lab-to-power threshold.
	labPowerProximity = 0.1
	radiationPenalty  = 12.0
	labPowerPenalty   = 5.0
	radiationFloor    = 20.0

	emergencyRange       = 0.3
	minNeighbourTypes    = 2
	isolatedModuleWeight = 25

	missingTypePenalty    = 15
	overRepresentedWeight = 15
)

// mustHaveTypes are the types whose absence lowers the resource score.
var mustHaveTypes = []facility.Type{facility.TypeLab, facility.TypePower, facility.TypeStorage}

// Metrics is a snapshot of the four sub-scores and their weighted overall
// score, each in [0, 100].
type Metrics struct {
	Integrity int `json:"integrity"`
	Radiation int `json:"radiation"`
	Emergency int `json:"emergency"`
	Resource  int `json:"resource"`
	Overall   int `json:"overall"`
}

// Calculate scores the layout. An empty layout scores zero everywhere.
func Calculate(objects []facility.Object) Metrics {
	if len(objects) == 0 {
		return Metrics{}
	}

	integrity := integrityScore(objects)
	radiation := radiationScore(objects)
	emergency := emergencyScore(objects)
	resource := resourceScore(objects)

	// The overall score weighs the unrounded integrity.
	overall := roundHalfUp(integrity*0.4 + float64(radiation)*0.2 + float64(emergency)*0.2 + float64(resource)*0.2)

	return Metrics{
		Integrity: roundHalfUp(integrity),
		Radiation: radiation,
		Emergency: emergency,
		Resource:  resource,
		Overall:   overall,
	}
}

func integrityScore(objects []facility.Object) float64 {
	var totalPairs int
	var penalty float64
	for i := 0; i < len(objects); i++ {
		for j := i + 1; j < len(objects); j++ {
			totalPairs++
			minDist := objects[i].ZoneRadius() + objects[j].ZoneRadius()
			dist := objects[i].Position().DistanceTo(objects[j].Position())
			if dist < minDist {
				penalty += (minDist - dist) / minDist
			}
		}
	}
	return math.Max(0, 100-penalty/float64(max(totalPairs, 1))*100)
}

func radiationScore(objects []facility.Object) int {
	var dangerLab, dangerPower, countLab, countPower int
	for _, mod := range objects {
		if facility.Type(mod.TypeKey) != facility.TypeModule {
			continue
		}
		for _, other := range objects {
			switch facility.Type(other.TypeKey) {
			case facility.TypePower:
				countPower++
				if mod.Position().DistanceTo(other.Position()) < radiationProximity {
					dangerPower++
				}
			case facility.TypeLab:
				countLab++
				if mod.Position().DistanceTo(other.Position()) < radiationProximity {
					dangerLab++
				}
			}
		}
	}

	labPowerTooClose := false
	for _, lab := range objects {
		if facility.Type(lab.TypeKey) != facility.TypeLab {
			continue
		}
		for _, power := range objects {
			if facility.Type(power.TypeKey) == facility.TypePower &&
				lab.Position().DistanceTo(power.Position()) < labPowerProximity {
				labPowerTooClose = true
			}
		}
	}

	score := 100 - float64(dangerLab+dangerPower)*radiationPenalty/float64(max(countLab+countPower, 1))
	if labPowerTooClose {
		score -= labPowerPenalty
	}
	return max(int(radiationFloor), roundHalfUp(score))
}

func emergencyScore(objects []facility.Object) int {
	isolated := 0
	for i, mod := range objects {
		if facility.Type(mod.TypeKey) != facility.TypeModule {
			continue
		}
		neighbours := make(map[string]struct{})
		for j, other := range objects {
			if i == j {
				continue
			}
			if mod.Position().DistanceTo(other.Position()) < emergencyRange {
				neighbours[other.TypeKey] = struct{}{}
			}
		}
		if len(neighbours) < minNeighbourTypes {
			isolated++
		}
	}
	return max(0, 100-isolated*isolatedModuleWeight)
}

func resourceScore(objects []facility.Object) int {
	counts := make(map[string]int)
	for _, obj := range objects {
		counts[obj.TypeKey]++
	}

	score := 100
	for _, t := range mustHaveTypes {
		if counts[string(t)] == 0 {
			score -= missingTypePenalty
		}
	}
	half := float64(len(objects)) / 2
	for _, count := range counts {
		if float64(count) > half {
			score -= overRepresentedWeight
		}
	}
	return max(0, score)
}

// roundHalfUp rounds to the nearest integer with halves going up.
func roundHalfUp(f float64) int {
	return int(math.Floor(f + 0.5))
}
