package facility

import (
	"errors"
	"math"
	"testing"
)

func TestZoneRadius(t *testing.T) {
	tests := []struct {
		typeKey string
		want    float64
	}{
		{"module", 0.21},
		{"launch", 0.27},
		{"lab", 0.22},
		{"power", 0.26},
		{"storage", 0.22},
		{"greenhouse", DefaultZoneRadius},
		{"", DefaultZoneRadius},
	}
	for _, tt := range tests {
		if got := ZoneRadius(tt.typeKey); got != tt.want {
			t.Errorf("ZoneRadius(%q) = %v, want %v", tt.typeKey, got, tt.want)
		}
	}
}

func TestTypeColor(t *testing.T) {
	if got := TypeColor("power"); got != "#f59e42" {
		t.Errorf("expected power colour #f59e42, got %s", got)
	}
	if got := TypeColor("unknown"); got != DefaultColor {
		t.Errorf("expected default colour, got %s", got)
	}
}

func TestCatalogOrder(t *testing.T) {
	types := Catalog()
	if len(types) != 5 {
		t.Fatalf("expected 5 types, got %d", len(types))
	}
	want := []Type{TypeModule, TypeLaunch, TypeLab, TypePower, TypeStorage}
	for i, info := range types {
		if info.Key != want[i] {
			t.Errorf("position %d: expected %s, got %s", i, want[i], info.Key)
		}
		if info.ZoneRadius != ZoneRadius(string(info.Key)) {
			t.Errorf("%s: catalog radius %v disagrees with ZoneRadius", info.Key, info.ZoneRadius)
		}
	}

	// Mutating the returned slice must not leak into the table.
	types[0].ZoneRadius = 9
	if ZoneRadius("module") != 0.21 {
		t.Error("catalog mutated through returned slice")
	}
}

func TestObjectValid(t *testing.T) {
	ok := Object{ID: 1, TypeKey: "lab", X: 1}
	if err := ok.Valid(); err != nil {
		t.Errorf("expected valid object, got %v", err)
	}

	if err := (Object{ID: 2, X: 1}).Valid(); err != nil {
		t.Errorf("empty type key should be valid, got %v", err)
	}

	bad := Object{ID: 3, TypeKey: "lab", X: math.NaN()}
	if err := bad.Valid(); !errors.Is(err, ErrNonFiniteCoordinate) {
		t.Errorf("expected ErrNonFiniteCoordinate, got %v", err)
	}
}

func TestLabel(t *testing.T) {
	all := []Object{
		{ID: 10, TypeKey: "module"},
		{ID: 11, TypeKey: "lab"},
		{ID: 12, TypeKey: "module"},
		{ID: 13, TypeKey: "crater-base"},
	}

	if got := Label(all[1], all); got != "Research lab" {
		t.Errorf("single lab: got %q", got)
	}
	if got := Label(all[2], all); got != "Habitat module #2 (id:12)" {
		t.Errorf("second module: got %q", got)
	}
	if got := Label(all[3], all); got != "crater-base (id:13)" {
		t.Errorf("unknown type: got %q", got)
	}
}
