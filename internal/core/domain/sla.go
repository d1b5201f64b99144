package domain

import (
	"fmt"
	"math"
	"time"
)

// nearBreachFraction is the tail of the SLA window that counts as the
// warning zone: the last quarter of the allotted hours.
const nearBreachFraction = 0.25

// SLAStatus is the derived timing state of a single grievance at a given instant.
type SLAStatus struct {
	HoursLeft    int    `json:"hours_left"`
	IsBreached   bool   `json:"is_breached"`
	IsNearBreach bool   `json:"is_near_breach"`
	Display      string `json:"display"`
}

// IsSLABreached reports whether the grievance is past its due date while
// still open. Terminal grievances are never breached regardless of timing.
func IsSLABreached(g *Grievance, now time.Time) bool {
	return now.After(g.DueDate) && !g.Status.IsTerminal()
}

// IsNearSLABreach reports whether the grievance is inside the warning zone:
// still before its due date, with no more than a quarter of the SLA window
// remaining. A breached grievance is never simultaneously near breach.
func IsNearSLABreach(g *Grievance, now time.Time) bool {
	left := g.DueDate.Sub(now)
	warning := time.Duration(float64(g.SLAHours) * nearBreachFraction * float64(time.Hour))
	return left > 0 && left <= warning
}

// SLATimeLeft derives the full timing state of a grievance, including the
// human-readable display string.
func SLATimeLeft(g *Grievance, now time.Time) SLAStatus {
	hoursLeft := int(math.Ceil(g.DueDate.Sub(now).Hours()))

	st := SLAStatus{
		HoursLeft:    hoursLeft,
		IsBreached:   IsSLABreached(g, now),
		IsNearBreach: IsNearSLABreach(g, now),
	}

	switch {
	case st.IsBreached:
		st.Display = fmt.Sprintf("Overdue by %dh", -hoursLeft)
	case hoursLeft <= 0:
		st.Display = "Due now"
	case hoursLeft < 24:
		st.Display = fmt.Sprintf("%dh left", hoursLeft)
	default:
		st.Display = fmt.Sprintf("%dd left", (hoursLeft+23)/24)
	}
	return st
}

// SLAMetrics aggregates SLA compliance over a set of grievances.
type SLAMetrics struct {
	Total      int    `json:"total"`
	WithinSLA  int    `json:"within_sla"`
	Breached   int    `json:"breached"`
	NearBreach int    `json:"near_breach"`
	// ComplianceRate is withinSLA/total as a percentage with one decimal,
	// "100" when the set is empty.
	ComplianceRate string `json:"sla_compliance_rate"`
}

// ComputeSLAMetrics evaluates each grievance against now and aggregates the
// results. Terminal grievances always count as within SLA.
func ComputeSLAMetrics(grievances []*Grievance, now time.Time) SLAMetrics {
	m := SLAMetrics{Total: len(grievances), ComplianceRate: "100"}

	for _, g := range grievances {
		if IsSLABreached(g, now) {
			m.Breached++
		} else {
			m.WithinSLA++
		}
		if IsNearSLABreach(g, now) {
			m.NearBreach++
		}
	}

	if m.Total > 0 {
		m.ComplianceRate = fmt.Sprintf("%.1f", float64(m.WithinSLA)/float64(m.Total)*100)
	}
	return m
}
