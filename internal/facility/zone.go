package facility

import (
	"fmt"
)

// DefaultZoneRadius applies to type keys outside the catalog.
const DefaultZoneRadius = 0.21

// DefaultColor is rendered for type keys outside the catalog.
const DefaultColor = "#ff3333"

var catalog = map[Type]TypeInfo{
	TypeModule: {
		Key:         TypeModule,
		Name:        "Habitat module",
		Description: "Crew quarters and life support",
		Footprint:   "100-300 m²",
		ZoneRadius:  0.21,
		Color:       "#3b82f6",
	},
	TypeLaunch: {
		Key:         TypeLaunch,
		Name:        "Launch pad",
		Description: "Rocket launch and landing",
		Footprint:   "1000-2000 m²",
		ZoneRadius:  0.27,
		Color:       "#a855f7",
	},
	TypeLab: {
		Key:         TypeLab,
		Name:        "Research lab",
		Description: "Sample analysis and experiments",
		Footprint:   "200-500 m²",
		ZoneRadius:  0.22,
		Color:       "#22c55e",
	},
	TypePower: {
		Key:         TypePower,
		Name:        "Power plant",
		Description: "Energy generation",
		Footprint:   "300-1000 m²",
		ZoneRadius:  0.26,
		Color:       "#f59e42",
	},
	TypeStorage: {
		Key:         TypeStorage,
		Name:        "Storage depot",
		Description: "Warehousing",
		Footprint:   "150-400 m²",
		ZoneRadius:  0.22,
		Color:       "#f43f5e",
	},
}

// order is the display order of the catalog.
var order = []Type{TypeModule, TypeLaunch, TypeLab, TypePower, TypeStorage}

// ZoneRadius returns the zone-of-influence radius in sphere units for the
// given type key.
func ZoneRadius(typeKey string) float64 {
	if info, ok := catalog[Type(typeKey)]; ok {
		return info.ZoneRadius
	}
	return DefaultZoneRadius
}

// TypeColor returns the rendering colour for the given type key.
func TypeColor(typeKey string) string {
	if info, ok := catalog[Type(typeKey)]; ok {
		return info.Color
	}
	return DefaultColor
}

// Catalog lists every known facility type in display order.
func Catalog() []TypeInfo {
	types := make([]TypeInfo, 0, len(order))
	for _, t := range order {
		types = append(types, catalog[t])
	}
	return types
}

// Label names obj for lists and route endpoints. Objects sharing a type with
// others are numbered by their position among that type in all.
func Label(obj Object, all []Object) string {
	info, ok := catalog[Type(obj.TypeKey)]
	if !ok {
		return fmt.Sprintf("%s (id:%d)", obj.TypeKey, obj.ID)
	}

	index, count := 0, 0
	for _, o := range all {
		if o.TypeKey != obj.TypeKey {
			continue
		}
		count++
		if o.ID == obj.ID {
			index = count
		}
	}
	if count <= 1 {
		return info.Name
	}
	return fmt.Sprintf("%s #%d (id:%d)", info.Name, index, obj.ID)
}
