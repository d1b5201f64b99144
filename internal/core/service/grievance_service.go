package service

import (
	"context"
	"crypto/rand"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/kshitij-kamdi/civic-stream/internal/api/metrics"
	"github.com/kshitij-kamdi/civic-stream/internal/core/domain"
	"github.com/kshitij-kamdi/civic-stream/internal/core/ports"
)

const maxPageSize = 100

// GrievanceService implements the grievance lifecycle use cases.
type GrievanceService struct {
	repo     ports.GrievanceRepository
	userRepo ports.UserRepository
	clock    ports.Clock
	logger   zerolog.Logger
}

func NewGrievanceService(repo ports.GrievanceRepository, userRepo ports.UserRepository, clock ports.Clock, logger zerolog.Logger) *GrievanceService {
	return &GrievanceService{repo: repo, userRepo: userRepo, clock: clock, logger: logger}
}

// Create raises a new grievance. The SLA window is fixed from the category
// default at creation time and the due date is never recomputed afterwards.
// The submitted history entry is seeded atomically with the record.
func (s *GrievanceService) Create(ctx context.Context, input ports.CreateGrievanceInput) (*domain.Grievance, error) {
	category := domain.Category(input.Category)
	slaHours, err := domain.CategorySLAHours(category)
	if err != nil {
		return nil, fmt.Errorf("create grievance: %w", err)
	}

	now := s.clock.Now()
	g := &domain.Grievance{
		ID:           generateGrievanceID(),
		Title:        input.Title,
		Description:  input.Description,
		Category:     category,
		Address:      input.Address,
		Pincode:      input.Pincode,
		CitizenID:    input.CitizenID,
		CitizenName:  input.CitizenName,
		CitizenPhone: input.CitizenPhone,
		Status:       domain.StatusSubmitted,
		Priority:     domain.PriorityMedium,
		SLAHours:     slaHours,
		CreatedAt:    now,
		UpdatedAt:    now,
		DueDate:      now.Add(time.Duration(slaHours) * time.Hour),
		StatusHistory: []domain.StatusHistoryEntry{{
			Status:        domain.StatusSubmitted,
			Timestamp:     now,
			UpdatedBy:     input.CitizenID,
			UpdatedByName: input.CitizenName,
			Remarks:       "Grievance submitted",
		}},
	}

	if err := s.repo.Create(ctx, g); err != nil {
		s.logger.Error().Err(err).Msg("failed to create grievance")
		return nil, err
	}

	metrics.GrievancesCreatedTotal.WithLabelValues(string(category)).Inc()
	s.logger.Info().
		Str("grievance_id", g.ID).
		Str("category", string(category)).
		Int("sla_hours", slaHours).
		Msg("grievance created")

	return g, nil
}

// Get retrieves a grievance by id. Citizens may only read their own records.
func (s *GrievanceService) Get(ctx context.Context, id string, actor ports.Actor) (*domain.Grievance, error) {
	g, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if actor.Role == domain.RoleCitizen && g.CitizenID != actor.ID {
		return nil, domain.ErrForbidden
	}
	return g, nil
}

func (s *GrievanceService) ListForCitizen(ctx context.Context, citizenID string) ([]*domain.Grievance, error) {
	return s.repo.ListByCitizen(ctx, citizenID)
}

func (s *GrievanceService) ListForOfficial(ctx context.Context, officialID string) ([]*domain.Grievance, error) {
	return s.repo.ListByOfficial(ctx, officialID)
}

// List returns a filtered, paginated page of grievances for officials/admins.
func (s *GrievanceService) List(ctx context.Context, input ports.ListGrievancesInput) (*ports.ListGrievancesResult, error) {
	page := input.Page
	if page < 1 {
		page = 1
	}
	limit := input.Limit
	if limit <= 0 {
		limit = 20
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}

	items, total, err := s.repo.List(ctx, ports.ListGrievancesFilter{
		Status:    input.Status,
		Category:  input.Category,
		Escalated: input.Escalated,
		Search:    input.Search,
		Page:      page,
		Limit:     limit,
	})
	if err != nil {
		return nil, err
	}

	totalPages := int((total + int64(limit) - 1) / int64(limit))
	return &ports.ListGrievancesResult{
		Items:      items,
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: totalPages,
	}, nil
}

// Acknowledge moves a submitted grievance to acknowledged and assigns it to
// the acting official.
func (s *GrievanceService) Acknowledge(ctx context.Context, id string, actor ports.Actor, remarks string) (*domain.Grievance, error) {
	upd := ports.GrievanceUpdate{
		AssignedTo:     &actor.ID,
		AssignedToName: &actor.Name,
	}
	return s.transition(ctx, id, domain.StatusAcknowledged, upd, actor, defaultRemarks(remarks, "Acknowledge"))
}

// Start moves an acknowledged grievance to in_progress.
func (s *GrievanceService) Start(ctx context.Context, id string, actor ports.Actor, remarks string) (*domain.Grievance, error) {
	return s.transition(ctx, id, domain.StatusInProgress, ports.GrievanceUpdate{}, actor, defaultRemarks(remarks, "Start"))
}

// Resolve closes a grievance as resolved.
func (s *GrievanceService) Resolve(ctx context.Context, id string, actor ports.Actor, remarks string) (*domain.Grievance, error) {
	return s.transition(ctx, id, domain.StatusResolved, ports.GrievanceUpdate{}, actor, defaultRemarks(remarks, "Resolve"))
}

// Reject closes a grievance as rejected. Valid from any non-terminal state.
func (s *GrievanceService) Reject(ctx context.Context, id string, actor ports.Actor, remarks string) (*domain.Grievance, error) {
	return s.transition(ctx, id, domain.StatusRejected, ports.GrievanceUpdate{}, actor, defaultRemarks(remarks, "Reject"))
}

// Reassign hands the grievance to another official. The status is left
// untouched, so no history entry is produced.
func (s *GrievanceService) Reassign(ctx context.Context, id string, input ports.ReassignInput, actor ports.Actor) (*domain.Grievance, error) {
	official, err := s.userRepo.FindByID(ctx, input.OfficialID)
	if err != nil {
		return nil, fmt.Errorf("reassign: %w", err)
	}

	upd := ports.GrievanceUpdate{
		AssignedTo:     &official.ID,
		AssignedToName: &official.Name,
	}
	g, err := s.repo.UpdateWithHistory(ctx, id, upd, actor.ID, actor.Name, defaultRemarks(input.Remarks, "Reassign"))
	if err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("grievance_id", id).
		Str("assigned_to", official.ID).
		Str("actor", actor.ID).
		Msg("grievance reassigned")
	return g, nil
}

// SLAMetrics aggregates compliance metrics over all grievances.
func (s *GrievanceService) SLAMetrics(ctx context.Context) (*domain.SLAMetrics, error) {
	grievances, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	m := domain.ComputeSLAMetrics(grievances, s.clock.Now())
	return &m, nil
}

// Stats returns headline counts for the admin dashboard.
func (s *GrievanceService) Stats(ctx context.Context) (*ports.PortalStats, error) {
	grievances, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	stats := &ports.PortalStats{TotalGrievances: len(grievances)}
	for _, g := range grievances {
		if !g.Status.IsTerminal() {
			stats.PendingGrievances++
		}
		if g.Status == domain.StatusResolved {
			stats.ResolvedGrievances++
		}
		if g.IsEscalated {
			stats.EscalatedGrievances++
		}
	}

	if stats.TotalCitizens, err = s.userRepo.CountByRole(ctx, domain.RoleCitizen); err != nil {
		return nil, err
	}
	if stats.TotalOfficials, err = s.userRepo.CountByRole(ctx, domain.RoleOfficial); err != nil {
		return nil, err
	}
	return stats, nil
}

// transition validates the state machine move and applies it with history.
func (s *GrievanceService) transition(ctx context.Context, id string, target domain.GrievanceStatus, upd ports.GrievanceUpdate, actor ports.Actor, remarks string) (*domain.Grievance, error) {
	g, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !g.Status.CanTransitionTo(target) {
		return nil, fmt.Errorf("%w (from %s to %s)", domain.ErrInvalidTransition, g.Status, target)
	}

	upd.Status = &target
	updated, err := s.repo.UpdateWithHistory(ctx, id, upd, actor.ID, actor.Name, remarks)
	if err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("grievance_id", id).
		Str("from", string(g.Status)).
		Str("to", string(target)).
		Str("actor", actor.ID).
		Msg("grievance status updated")
	return updated, nil
}

func defaultRemarks(remarks, action string) string {
	if remarks != "" {
		return remarks
	}
	return action + " action performed"
}

// generateGrievanceID returns a unique grievance id in the format GRV-XXXXXXXX.
func generateGrievanceID() string {
	b := make([]byte, 4)
	if _, err := rand.Read(b); err != nil {
		// fallback: use current nanoseconds
		return fmt.Sprintf("GRV-%08X", time.Now().UnixNano()&0xFFFFFFFF)
	}
	return fmt.Sprintf("GRV-%08X", b)
}
