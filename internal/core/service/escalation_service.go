package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/kshitij-kamdi/civic-stream/internal/api/metrics"
	"github.com/kshitij-kamdi/civic-stream/internal/core/domain"
	"github.com/kshitij-kamdi/civic-stream/internal/core/ports"
)

// System identity attributed to automatic escalations in the status history.
const (
	escalationActorID   = "system"
	escalationActorName = "Auto-Escalation System"
)

// EscalationService finds grievances that breached their SLA and drives them
// one step forward through the lifecycle with raised priority.
type EscalationService struct {
	repo   ports.GrievanceRepository
	clock  ports.Clock
	logger zerolog.Logger
}

func NewEscalationService(repo ports.GrievanceRepository, clock ports.Clock, logger zerolog.Logger) *EscalationService {
	return &EscalationService{repo: repo, clock: clock, logger: logger}
}

// Sweep evaluates every grievance once. Breached, non-terminal, not-yet
// escalated grievances are advanced to their forward successor with
// IsEscalated set and priority raised one step. The escalated flag is
// monotonic, so a grievance is escalated at most once across sweeps.
//
// A failure to load the grievance set aborts the sweep (the next tick
// retries). Per-record failures are skipped: a grievance deleted between
// read and update is dropped silently, any other update error is logged and
// the sweep continues.
func (s *EscalationService) Sweep(ctx context.Context) ([]*domain.Grievance, error) {
	start := s.clock.Now()

	grievances, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("escalation sweep: %w", err)
	}

	now := s.clock.Now()
	var escalated []*domain.Grievance
	breached := 0

	for _, g := range grievances {
		if g.Status.IsTerminal() || !domain.IsSLABreached(g, now) {
			continue
		}
		breached++
		if g.IsEscalated {
			continue
		}

		next, shouldEscalate := domain.NextOnEscalate(g.Status)
		if !shouldEscalate {
			continue
		}

		flag := true
		priority := g.Priority.Escalate()
		remarks := fmt.Sprintf("Auto-escalated due to SLA breach. Status changed from %s to %s", g.Status, next)

		updated, err := s.repo.UpdateWithHistory(ctx, g.ID, ports.GrievanceUpdate{
			Status:      &next,
			Priority:    &priority,
			IsEscalated: &flag,
		}, escalationActorID, escalationActorName, remarks)
		if err != nil {
			if errors.Is(err, domain.ErrGrievanceNotFound) {
				// Deleted between read and update; nothing to record.
				metrics.SweepErrorsTotal.WithLabelValues("not_found").Inc()
				continue
			}
			metrics.SweepErrorsTotal.WithLabelValues("update_failed").Inc()
			s.logger.Error().Err(err).Str("grievance_id", g.ID).Msg("escalation update failed")
			continue
		}

		metrics.EscalationsTotal.WithLabelValues(string(g.Status)).Inc()
		s.logger.Warn().
			Str("grievance_id", g.ID).
			Str("from", string(g.Status)).
			Str("to", string(next)).
			Str("priority", string(priority)).
			Msg("grievance escalated due to SLA breach")
		escalated = append(escalated, updated)
	}

	metrics.GrievancesBreached.Set(float64(breached))
	metrics.SweepDuration.Observe(s.clock.Now().Sub(start).Seconds())
	return escalated, nil
}
