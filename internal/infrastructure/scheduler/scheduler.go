// Package scheduler drives the periodic SLA escalation sweep. A single
// ticker is the only background activity in the process; it stops when the
// context passed to Start is cancelled.
package scheduler

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/kshitij-kamdi/civic-stream/internal/core/domain"
	"github.com/kshitij-kamdi/civic-stream/internal/core/ports"
)

const defaultInterval = 30 * time.Second

// Lock serialises sweeps across portal replicas. A nil Lock means the
// scheduler sweeps unconditionally (single-instance deployments, tests).
type Lock interface {
	TryAcquire(ctx context.Context) (bool, error)
	Release(ctx context.Context) error
}

// Scheduler runs the escalation sweep on a fixed interval and forwards the
// escalated set to the notifier.
type Scheduler struct {
	interval time.Duration
	service  ports.EscalationService
	notifier ports.Notifier
	lock     Lock
	log      zerolog.Logger
}

// New creates a Scheduler. If interval <= 0, defaultInterval is used.
func New(interval time.Duration, service ports.EscalationService, notifier ports.Notifier, lock Lock, log zerolog.Logger) *Scheduler {
	if interval <= 0 {
		interval = defaultInterval
	}
	return &Scheduler{
		interval: interval,
		service:  service,
		notifier: notifier,
		lock:     lock,
		log:      log,
	}
}

// Start launches the ticker goroutine. It returns immediately; the loop
// stops when ctx is cancelled.
func (s *Scheduler) Start(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		s.log.Info().Dur("interval", s.interval).Msg("escalation scheduler started")
		for {
			select {
			case <-ctx.Done():
				s.log.Info().Msg("escalation scheduler stopped")
				return
			case <-ticker.C:
				s.runOnce(ctx)
			}
		}
	}()
}

// runOnce performs a single guarded sweep. Sweep failures are logged and
// left for the next tick; there is no retry within a tick.
func (s *Scheduler) runOnce(ctx context.Context) {
	if s.lock != nil {
		ok, err := s.lock.TryAcquire(ctx)
		if err != nil {
			s.log.Error().Err(err).Msg("sweep lock unavailable, skipping tick")
			return
		}
		if !ok {
			s.log.Debug().Msg("sweep held by another replica, skipping tick")
			return
		}
		defer func() {
			if err := s.lock.Release(ctx); err != nil {
				s.log.Warn().Err(err).Msg("failed to release sweep lock")
			}
		}()
	}

	escalated, err := s.service.Sweep(ctx)
	if err != nil {
		s.log.Error().Err(err).Msg("escalation sweep failed")
		return
	}
	if len(escalated) == 0 {
		return
	}

	s.notifier.NotifyEscalations(ctx, notices(escalated))
}

// notices maps escalated grievances to the notifier payload. The escalation
// appends exactly one history entry, so the prior status is the entry before
// the last one.
func notices(escalated []*domain.Grievance) []ports.EscalationNotice {
	out := make([]ports.EscalationNotice, 0, len(escalated))
	for _, g := range escalated {
		n := ports.EscalationNotice{
			GrievanceID: g.ID,
			ToStatus:    g.Status,
			Priority:    g.Priority,
			UpdatedAt:   g.UpdatedAt,
		}
		if len(g.StatusHistory) >= 2 {
			n.FromStatus = g.StatusHistory[len(g.StatusHistory)-2].Status
		}
		out = append(out, n)
	}
	return out
}
