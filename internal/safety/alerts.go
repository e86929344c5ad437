package safety

import (
	"lunarbase-server/internal/facility"
)

type Severity string

const (
	SeveritySuccess Severity = "success"
	SeverityWarning Severity = "warning"
	SeverityDanger  Severity = "danger"
)

type Alert struct {
	Severity Severity `json:"severity"`
	Code     string   `json:"code"`
	Message  string   `json:"message"`
}

// Report bundles the metrics with the alerts derived from them.
type Report struct {
	Metrics Metrics `json:"metrics"`
	Alerts  []Alert `json:"alerts"`
}

// Evaluate scores the layout and derives its alerts.
func Evaluate(objects []facility.Object) Report {
	m := Calculate(objects)
	return Report{Metrics: m, Alerts: Alerts(m, objects)}
}

// Alerts turns sub-score thresholds into messages, in the order integrity,
// radiation, emergency, resource. A layout with no warnings and a perfect
// overall score gets a single success alert. Empty layouts get none.
func Alerts(m Metrics, objects []facility.Object) []Alert {
	alerts := []Alert{}
	if len(objects) == 0 {
		return alerts
	}

	if m.Integrity < 90 {
		alerts = append(alerts, Alert{
			Severity: pick(m.Integrity < 75, SeverityDanger, SeverityWarning),
			Code:     "zone_overlap",
			Message:  "Facility zones overlap. Move the facilities further apart.",
		})
	}
	if m.Radiation < 80 {
		alerts = append(alerts, Alert{
			Severity: pick(m.Radiation < 60, SeverityDanger, SeverityWarning),
			Code:     "radiation",
			Message:  "Radiation safety is reduced: labs and power plants are sited too close to habitat modules.",
		})
	}
	if m.Emergency < 80 {
		alerts = append(alerts, Alert{
			Severity: SeverityWarning,
			Code:     "emergency_access",
			Message:  "Check emergency access: facilities are either too clustered or too far apart.",
		})
	}
	if m.Resource < 80 {
		alerts = append(alerts, Alert{
			Severity: SeverityWarning,
			Code:     "resource_distribution",
			Message:  "Resource distribution is uneven: too many facilities of one type or essential types missing.",
		})
	}
	if len(alerts) == 0 && m.Overall == 100 {
		alerts = append(alerts, Alert{
			Severity: SeveritySuccess,
			Code:     "optimal",
			Message:  "Layout is optimal.",
		})
	}
	return alerts
}

func pick(cond bool, ifTrue, ifFalse Severity) Severity {
	if cond {
		return ifTrue
	}
	return ifFalse
}
