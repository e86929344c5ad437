package analysis

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"
)

// ParseImport reads one analysis object or an array of them. Coordinates may
// be given as lat/lon or latitude/longitude, as numbers or numeric strings;
// entries without both are skipped. Missing figures default to zero.
func ParseImport(data []byte) ([]Analysis, error) {
	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}

	var items []any
	switch v := doc.(type) {
	case []any:
		items = v
	case map[string]any:
		items = []any{v}
	default:
		return nil, fmt.Errorf("expected an object or an array of objects")
	}

	entries := make([]Analysis, 0, len(items))
	for _, item := range items {
		m, ok := item.(map[string]any)
		if !ok {
			continue
		}
		lat, okLat := number(first(m, "lat", "latitude"))
		lon, okLon := number(first(m, "lon", "longitude"))
		if !okLat || !okLon {
			continue
		}

		a := Analysis{Lat: lat, Lon: lon, Summary: SummaryImported}
		if s, ok := m["summary"].(string); ok && strings.TrimSpace(s) != "" {
			a.Summary = s
		}
		a.Helium3, _ = number(m["helium3"])
		a.Titanium, _ = number(m["titanium"])
		a.Silicon, _ = number(m["silicon"])
		a.Craters = wholeNumber(m["craters"])
		a.Slopes = wholeNumber(m["slopes"])
		a.Radioactivity = wholeNumber(m["radioactivity"])
		if s, ok := m["created_at"].(string); ok {
			if t, err := time.Parse(time.RFC3339, s); err == nil {
				a.CreatedAt = t
			}
		}
		entries = append(entries, a)
	}

	if len(entries) == 0 {
		return nil, ErrNoValidEntries
	}
	return entries, nil
}

func first(m map[string]any, keys ...string) any {
	for _, k := range keys {
		if v, ok := m[k]; ok && v != nil {
			return v
		}
	}
	return nil
}

func number(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

func wholeNumber(v any) int {
	f, _ := number(v)
	return int(f)
}
