package domain

import (
	"errors"
	"time"
)

// GrievanceStatus represents the lifecycle state of a grievance.
type GrievanceStatus string

const (
	StatusSubmitted    GrievanceStatus = "submitted"
	StatusAcknowledged GrievanceStatus = "acknowledged"
	StatusInProgress   GrievanceStatus = "in_progress"
	StatusResolved     GrievanceStatus = "resolved"
	StatusRejected     GrievanceStatus = "rejected"
)

// validTransitions defines the allowed state machine transitions.
// Rejection is an administrative override reachable from any non-terminal state.
var validTransitions = map[GrievanceStatus][]GrievanceStatus{
	StatusSubmitted:    {StatusAcknowledged, StatusRejected},
	StatusAcknowledged: {StatusInProgress, StatusRejected},
	StatusInProgress:   {StatusResolved, StatusRejected},
}

// escalationFlow is the deterministic forward map used by auto-escalation.
var escalationFlow = map[GrievanceStatus]GrievanceStatus{
	StatusSubmitted:    StatusAcknowledged,
	StatusAcknowledged: StatusInProgress,
	StatusInProgress:   StatusResolved,
	StatusResolved:     StatusResolved,
	StatusRejected:     StatusRejected,
}

var ErrInvalidTransition = errors.New("invalid status transition")
var ErrGrievanceNotFound = errors.New("grievance not found")
var ErrUnknownCategory = errors.New("unknown grievance category")
var ErrForbidden = errors.New("access forbidden")

// CanTransitionTo reports whether a transition from current status to next is valid.
func (s GrievanceStatus) CanTransitionTo(next GrievanceStatus) bool {
	for _, allowed := range validTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// IsTerminal reports whether the status is absorbing: resolved and rejected
// grievances admit no further transition.
func (s GrievanceStatus) IsTerminal() bool {
	return s == StatusResolved || s == StatusRejected
}

// NextOnEscalate returns the single forward successor of the current status
// and whether escalation should proceed. Terminal statuses map to themselves
// with shouldEscalate=false.
func NextOnEscalate(current GrievanceStatus) (GrievanceStatus, bool) {
	return escalationFlow[current], !current.IsTerminal()
}

// Priority is the handling urgency of a grievance.
type Priority string

const (
	PriorityLow      Priority = "low"
	PriorityMedium   Priority = "medium"
	PriorityHigh     Priority = "high"
	PriorityCritical Priority = "critical"
)

// Escalate raises the priority one step. Critical is a ceiling.
func (p Priority) Escalate() Priority {
	switch p {
	case PriorityLow:
		return PriorityMedium
	case PriorityMedium:
		return PriorityHigh
	case PriorityHigh, PriorityCritical:
		return PriorityCritical
	}
	return p
}

// StatusHistoryEntry records a single status transition on a grievance.
// Entries are append-only; past entries are never mutated or removed.
type StatusHistoryEntry struct {
	Status        GrievanceStatus `json:"status" bson:"status"`
	Timestamp     time.Time       `json:"timestamp" bson:"timestamp"`
	UpdatedBy     string          `json:"updated_by" bson:"updated_by"`
	UpdatedByName string          `json:"updated_by_name" bson:"updated_by_name"`
	Remarks       string          `json:"remarks,omitempty" bson:"remarks,omitempty"`
	IsEscalation  bool            `json:"is_escalation,omitempty" bson:"is_escalation,omitempty"`
}

// Grievance is the core aggregate root.
type Grievance struct {
	ID             string               `json:"id" bson:"_id"`
	Title          string               `json:"title" bson:"title"`
	Description    string               `json:"description" bson:"description"`
	Category       Category             `json:"category" bson:"category"`
	Address        string               `json:"address" bson:"address"`
	Pincode        string               `json:"pincode" bson:"pincode"`
	CitizenID      string               `json:"citizen_id" bson:"citizen_id"`
	CitizenName    string               `json:"citizen_name" bson:"citizen_name"`
	CitizenPhone   string               `json:"citizen_phone" bson:"citizen_phone"`
	AssignedTo     string               `json:"assigned_to,omitempty" bson:"assigned_to,omitempty"`
	AssignedToName string               `json:"assigned_to_name,omitempty" bson:"assigned_to_name,omitempty"`
	Status         GrievanceStatus      `json:"status" bson:"status"`
	Priority       Priority             `json:"priority" bson:"priority"`
	IsEscalated    bool                 `json:"is_escalated" bson:"is_escalated"`
	SLAHours       int                  `json:"sla_hours" bson:"sla_hours"`
	CreatedAt      time.Time            `json:"created_at" bson:"created_at"`
	UpdatedAt      time.Time            `json:"updated_at" bson:"updated_at"`
	DueDate        time.Time            `json:"due_date" bson:"due_date"`
	StatusHistory  []StatusHistoryEntry `json:"status_history" bson:"status_history"`
}
