package ports

import (
	"context"

	"github.com/kshitij-kamdi/civic-stream/internal/core/domain"
)

// Actor identifies who is performing an action, as injected by the auth layer.
type Actor struct {
	ID   string
	Name string
	Role string
}

// CreateGrievanceInput carries all data needed to raise a new grievance.
type CreateGrievanceInput struct {
	Title        string
	Description  string
	Category     string
	Address      string
	Pincode      string
	CitizenID    string
	CitizenName  string
	CitizenPhone string
}

// ReassignInput carries the target official for a reassignment.
type ReassignInput struct {
	OfficialID string
	Remarks    string
}

// ListGrievancesInput carries all parameters for the admin/official listing.
type ListGrievancesInput struct {
	Status    string
	Category  string
	Escalated *bool
	Search    string
	Page      int
	Limit     int
}

// ListGrievancesResult is returned by List.
type ListGrievancesResult struct {
	Items      []*domain.Grievance
	Total      int64
	Page       int
	Limit      int
	TotalPages int
}

// PortalStats aggregates headline counts for the admin dashboard.
type PortalStats struct {
	TotalGrievances     int   `json:"total_grievances"`
	PendingGrievances   int   `json:"pending_grievances"`
	ResolvedGrievances  int   `json:"resolved_grievances"`
	EscalatedGrievances int   `json:"escalated_grievances"`
	TotalCitizens       int64 `json:"total_citizens"`
	TotalOfficials      int64 `json:"total_officials"`
}

// GrievanceService defines use-case operations for grievances.
type GrievanceService interface {
	Create(ctx context.Context, input CreateGrievanceInput) (*domain.Grievance, error)
	// Get enforces role scoping: citizens can only read their own grievances.
	Get(ctx context.Context, id string, actor Actor) (*domain.Grievance, error)
	ListForCitizen(ctx context.Context, citizenID string) ([]*domain.Grievance, error)
	ListForOfficial(ctx context.Context, officialID string) ([]*domain.Grievance, error)
	List(ctx context.Context, input ListGrievancesInput) (*ListGrievancesResult, error)

	// Manual lifecycle actions. Each returns the updated grievance or
	// domain.ErrGrievanceNotFound / domain.ErrInvalidTransition.
	Acknowledge(ctx context.Context, id string, actor Actor, remarks string) (*domain.Grievance, error)
	Start(ctx context.Context, id string, actor Actor, remarks string) (*domain.Grievance, error)
	Resolve(ctx context.Context, id string, actor Actor, remarks string) (*domain.Grievance, error)
	Reject(ctx context.Context, id string, actor Actor, remarks string) (*domain.Grievance, error)
	// Reassign changes the assigned official without touching the status.
	Reassign(ctx context.Context, id string, input ReassignInput, actor Actor) (*domain.Grievance, error)

	SLAMetrics(ctx context.Context) (*domain.SLAMetrics, error)
	Stats(ctx context.Context) (*PortalStats, error)
}
