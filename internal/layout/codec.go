package layout

import (
	"errors"
	"fmt"
	"math"

	"lunarbase-server/internal/facility"
	"lunarbase-server/internal/geo"

	"github.com/goccy/go-json"
)

// ExportFilename is the download name of an exported layout.
const ExportFilename = "infrastructure_layout.json"

var ErrMalformedLayout = errors.New("layout file must be a JSON array of objects")

// DroppedEntry explains why one element of an imported array was skipped.
type DroppedEntry struct {
	Index  int    `json:"index"`
	Reason string `json:"reason"`
}

type ImportReport struct {
	Imported int            `json:"imported"`
	Dropped  []DroppedEntry `json:"dropped"`
}

// Export renders objects as an indented JSON array.
func Export(objects []facility.Object) ([]byte, error) {
	if objects == nil {
		objects = []facility.Object{}
	}
	return json.MarshalIndent(objects, "", "  ")
}

// rawObject keeps lat and lon undecoded: they are advisory and are derived
// from the position when either is not a finite number.
type rawObject struct {
	ID      *float64        `json:"id"`
	TypeKey *string         `json:"typeKey"`
	Lat     json.RawMessage `json:"lat"`
	Lon     json.RawMessage `json:"lon"`
	X       *float64        `json:"x"`
	Y       *float64        `json:"y"`
	Z       *float64        `json:"z"`
}

// Import parses an exported layout. Entries without an integer id, a string
// typeKey or three finite coordinates are dropped and reported, as are later
// entries repeating an id; the rest are kept in file order. Zones of imported
// objects are not checked for overlap.
func Import(data []byte) ([]facility.Object, ImportReport, error) {
	var entries []json.RawMessage
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, ImportReport{}, fmt.Errorf("%w: %v", ErrMalformedLayout, err)
	}

	objects := make([]facility.Object, 0, len(entries))
	seen := make(map[int]struct{}, len(entries))
	report := ImportReport{Dropped: []DroppedEntry{}}
	for i, entry := range entries {
		obj, err := decodeEntry(entry)
		if err == nil {
			if _, dup := seen[obj.ID]; dup {
				err = fmt.Errorf("duplicate id %d", obj.ID)
			}
		}
		if err != nil {
			report.Dropped = append(report.Dropped, DroppedEntry{Index: i, Reason: err.Error()})
			continue
		}
		seen[obj.ID] = struct{}{}
		objects = append(objects, obj)
	}
	report.Imported = len(objects)
	return objects, report, nil
}

func decodeEntry(entry json.RawMessage) (facility.Object, error) {
	var raw rawObject
	if err := json.Unmarshal(entry, &raw); err != nil {
		return facility.Object{}, errors.New("entry is not an object with the expected field types")
	}
	if raw.ID == nil || *raw.ID != math.Trunc(*raw.ID) || math.IsInf(*raw.ID, 0) {
		return facility.Object{}, errors.New("id must be an integer")
	}
	if raw.TypeKey == nil {
		return facility.Object{}, facility.ErrMissingTypeKey
	}
	pos, ok := Point{X: raw.X, Y: raw.Y, Z: raw.Z}.Vec3()
	if !ok {
		return facility.Object{}, facility.ErrNonFiniteCoordinate
	}

	obj := facility.Object{
		ID:      int(*raw.ID),
		TypeKey: *raw.TypeKey,
		X:       pos.X,
		Y:       pos.Y,
		Z:       pos.Z,
	}
	lat, latOK := finiteNumber(raw.Lat)
	lon, lonOK := finiteNumber(raw.Lon)
	if latOK && lonOK {
		obj.Lat, obj.Lon = lat, lon
	} else {
		obj.Lat, obj.Lon = geo.LatLon(pos)
	}
	if err := obj.Valid(); err != nil {
		return facility.Object{}, err
	}
	return obj, nil
}

func finiteNumber(raw json.RawMessage) (float64, bool) {
	var f float64
	if len(raw) == 0 || string(raw) == "null" || json.Unmarshal(raw, &f) != nil {
		return 0, false
	}
	return f, !math.IsNaN(f) && !math.IsInf(f, 0)
}
