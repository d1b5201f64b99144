package handler

import (
	"time"

	"github.com/kshitij-kamdi/civic-stream/internal/core/domain"
)

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

// --- Request types ---

type createGrievanceRequest struct {
	Title       string `json:"title"       validate:"required,min=5,max=200"`
	Description string `json:"description" validate:"required,min=10"`
	Category    string `json:"category"    validate:"required,oneof=sanitation electricity water_supply roads public_transport healthcare education other"`
	Address     string `json:"address"     validate:"required"`
	Pincode     string `json:"pincode"     validate:"required,len=6"`
}

// actionRequest carries the optional remarks of a manual lifecycle action.
type actionRequest struct {
	Remarks string `json:"remarks"`
}

type reassignRequest struct {
	OfficialID string `json:"official_id" validate:"required"`
	Remarks    string `json:"remarks"`
}

// --- Response types ---
// Owned by the transport layer so the JSON contract is not coupled to
// internal service changes.

type historyEntryResponse struct {
	Status        string    `json:"status"`
	Timestamp     time.Time `json:"timestamp"`
	UpdatedBy     string    `json:"updated_by"`
	UpdatedByName string    `json:"updated_by_name"`
	Remarks       string    `json:"remarks,omitempty"`
	IsEscalation  bool      `json:"is_escalation,omitempty"`
}

type slaResponse struct {
	HoursLeft    int    `json:"hours_left"`
	IsBreached   bool   `json:"is_breached"`
	IsNearBreach bool   `json:"is_near_breach"`
	Display      string `json:"display"`
}

type grievanceResponse struct {
	ID             string                 `json:"id"`
	Title          string                 `json:"title"`
	Description    string                 `json:"description"`
	Category       string                 `json:"category"`
	CategoryLabel  string                 `json:"category_label"`
	Address        string                 `json:"address"`
	Pincode        string                 `json:"pincode"`
	CitizenID      string                 `json:"citizen_id"`
	CitizenName    string                 `json:"citizen_name"`
	CitizenPhone   string                 `json:"citizen_phone"`
	AssignedTo     string                 `json:"assigned_to,omitempty"`
	AssignedToName string                 `json:"assigned_to_name,omitempty"`
	Status         string                 `json:"status"`
	Priority       string                 `json:"priority"`
	IsEscalated    bool                   `json:"is_escalated"`
	SLAHours       int                    `json:"sla_hours"`
	CreatedAt      time.Time              `json:"created_at"`
	UpdatedAt      time.Time              `json:"updated_at"`
	DueDate        time.Time              `json:"due_date"`
	SLA            slaResponse            `json:"sla"`
	StatusHistory  []historyEntryResponse `json:"status_history"`
}

type listGrievancesResponse struct {
	Items      []grievanceResponse `json:"items"`
	Total      int64               `json:"total"`
	Page       int                 `json:"page"`
	Limit      int                 `json:"limit"`
	TotalPages int                 `json:"total_pages"`
}

// toGrievanceResponse maps the domain aggregate to the transport view,
// deriving the SLA timing state at now.
func toGrievanceResponse(g *domain.Grievance, now time.Time) grievanceResponse {
	sla := domain.SLATimeLeft(g, now)

	history := make([]historyEntryResponse, 0, len(g.StatusHistory))
	for _, h := range g.StatusHistory {
		history = append(history, historyEntryResponse{
			Status:        string(h.Status),
			Timestamp:     h.Timestamp,
			UpdatedBy:     h.UpdatedBy,
			UpdatedByName: h.UpdatedByName,
			Remarks:       h.Remarks,
			IsEscalation:  h.IsEscalation,
		})
	}

	return grievanceResponse{
		ID:             g.ID,
		Title:          g.Title,
		Description:    g.Description,
		Category:       string(g.Category),
		CategoryLabel:  domain.CategoryLabel(g.Category),
		Address:        g.Address,
		Pincode:        g.Pincode,
		CitizenID:      g.CitizenID,
		CitizenName:    g.CitizenName,
		CitizenPhone:   g.CitizenPhone,
		AssignedTo:     g.AssignedTo,
		AssignedToName: g.AssignedToName,
		Status:         string(g.Status),
		Priority:       string(g.Priority),
		IsEscalated:    g.IsEscalated,
		SLAHours:       g.SLAHours,
		CreatedAt:      g.CreatedAt,
		UpdatedAt:      g.UpdatedAt,
		DueDate:        g.DueDate,
		SLA: slaResponse{
			HoursLeft:    sla.HoursLeft,
			IsBreached:   sla.IsBreached,
			IsNearBreach: sla.IsNearBreach,
			Display:      sla.Display,
		},
		StatusHistory: history,
	}
}

func toGrievanceResponses(gs []*domain.Grievance, now time.Time) []grievanceResponse {
	out := make([]grievanceResponse, 0, len(gs))
	for _, g := range gs {
		out = append(out, toGrievanceResponse(g, now))
	}
	return out
}
