package layout

import (
	"slices"
	"time"

	"lunarbase-server/internal/facility"
	"lunarbase-server/internal/safety"
)

// Session is one user's working layout. It owns the object list and keeps
// the safety metrics and alerts in step with it after every mutation.
type Session struct {
	UserID    int               `json:"user_id"`
	LayoutID  int               `json:"layout_id"`
	Objects   []facility.Object `json:"objects"`
	Metrics   safety.Metrics    `json:"metrics"`
	Alerts    []safety.Alert    `json:"alerts"`
	UpdatedAt time.Time         `json:"updated_at"`
}

func NewSession(userID int) *Session {
	s := &Session{UserID: userID}
	s.Reset()
	return s
}

// Place validates the candidate against the current objects and appends it
// on success. A rejected candidate leaves the session unchanged.
func (s *Session) Place(c Candidate, ids *IDGenerator) (facility.Object, error) {
	obj, err := TryPlace(c, s.Objects, ids)
	if err != nil {
		return facility.Object{}, err
	}
	s.Objects = append(s.Objects, obj)
	s.recompute()
	return obj, nil
}

func (s *Session) Reset() {
	s.Objects = []facility.Object{}
	s.recompute()
}

// Replace swaps in a whole object list, as on load or import.
func (s *Session) Replace(objects []facility.Object) {
	s.Objects = slices.Clone(objects)
	if s.Objects == nil {
		s.Objects = []facility.Object{}
	}
	s.recompute()
}

func (s *Session) Find(id int) (facility.Object, bool) {
	for _, obj := range s.Objects {
		if obj.ID == id {
			return obj, true
		}
	}
	return facility.Object{}, false
}

// Snapshot returns a copy that shares no slices with the session.
func (s *Session) Snapshot() Session {
	snap := *s
	snap.Objects = slices.Clone(s.Objects)
	snap.Alerts = slices.Clone(s.Alerts)
	return snap
}

func (s *Session) recompute() {
	report := safety.Evaluate(s.Objects)
	s.Metrics = report.Metrics
	s.Alerts = report.Alerts
	s.UpdatedAt = time.Now().UTC()
}
