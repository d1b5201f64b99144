// Package metrics defines and registers all custom Prometheus metrics for the
// civic-stream grievance portal. It is the single source of truth for metric
// names, labels, and help strings.
//
// Metrics are registered with the default registry via promauto at package
// load; the /metrics endpoint exposes them.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "civicstream"

// GrievancesCreatedTotal counts newly raised grievances.
// Label:
//   - category: the grievance category (e.g. "water_supply")
var GrievancesCreatedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "grievances_created_total",
		Help:      "Total number of grievances raised, by category.",
	},
	[]string{"category"},
)

// EscalationsTotal counts grievances auto-escalated due to SLA breach.
// Label:
//   - from_status: the status the grievance held before escalation
var EscalationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "escalations_total",
		Help:      "Total number of grievances escalated due to SLA breach, by prior status.",
	},
	[]string{"from_status"},
)

// SweepDuration measures how long a full escalation sweep takes.
var SweepDuration = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "escalation_sweep_duration_seconds",
		Help:      "Duration of one escalation sweep over all grievances.",
		Buckets:   prometheus.DefBuckets,
	},
)

// SweepErrorsTotal counts per-record failures during escalation sweeps.
// Label:
//   - reason: short failure description (e.g. "not_found", "update_failed")
var SweepErrorsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "escalation_sweep_errors_total",
		Help:      "Total number of per-grievance failures during escalation sweeps.",
	},
	[]string{"reason"},
)

// GrievancesBreached tracks the number of currently breached grievances as
// observed by the most recent sweep.
var GrievancesBreached = promauto.NewGauge(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "grievances_breached",
		Help:      "Number of open grievances past their SLA due date at the last sweep.",
	},
)
