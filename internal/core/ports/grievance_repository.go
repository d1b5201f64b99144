package ports

import (
	"context"

	"github.com/kshitij-kamdi/civic-stream/internal/core/domain"
)

// ListGrievancesFilter carries all query parameters for listing grievances.
type ListGrievancesFilter struct {
	Status    string // optional: filter by lifecycle status
	Category  string // optional: filter by category
	Escalated *bool  // optional: filter by escalation flag
	Search    string // optional: partial match on id or title
	Page      int    // 1-based
	Limit     int    // max rows per page (capped at 100 by service)
}

// GrievanceUpdate is a partial update applied through UpdateWithHistory.
// Nil fields are left untouched.
type GrievanceUpdate struct {
	Status         *domain.GrievanceStatus
	Priority       *domain.Priority
	AssignedTo     *string
	AssignedToName *string
	IsEscalated    *bool
}

// GrievanceRepository defines persistence operations for grievances.
//
// All mutations go through UpdateWithHistory's read-modify-write contract.
// There is no compare-and-swap: the portal assumes a single logical writer
// per record, with the sweep serialized across replicas by a lock.
type GrievanceRepository interface {
	// Create inserts a grievance including its seeded status history.
	Create(ctx context.Context, g *domain.Grievance) error
	FindByID(ctx context.Context, id string) (*domain.Grievance, error)
	ListByCitizen(ctx context.Context, citizenID string) ([]*domain.Grievance, error)
	ListByOfficial(ctx context.Context, officialID string) ([]*domain.Grievance, error)
	ListAll(ctx context.Context) ([]*domain.Grievance, error)
	// List returns a page of grievances matching filter and the total count.
	List(ctx context.Context, filter ListGrievancesFilter) ([]*domain.Grievance, int64, error)

	// UpdateWithHistory applies a partial update attributed to an actor.
	// When the update changes the status, exactly one history entry is
	// appended carrying the new status, the actor, the remarks, and an
	// is_escalation flag set iff the update turns IsEscalated on for a
	// grievance that was not already escalated. Non-status changes append
	// nothing. UpdatedAt is refreshed on every successful update. Returns
	// domain.ErrGrievanceNotFound with no side effect when id is absent.
	UpdateWithHistory(ctx context.Context, id string, upd GrievanceUpdate, actorID, actorName, remarks string) (*domain.Grievance, error)
}
