package scheduler

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/kshitij-kamdi/civic-stream/internal/core/domain"
	"github.com/kshitij-kamdi/civic-stream/internal/core/ports"
)

type stubEscalationService struct {
	mu     sync.Mutex
	result []*domain.Grievance
	err    error
	calls  int
}

func (s *stubEscalationService) Sweep(context.Context) ([]*domain.Grievance, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	return s.result, s.err
}

func (s *stubEscalationService) sweepCalls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

type stubNotifier struct {
	notices [][]ports.EscalationNotice
}

func (n *stubNotifier) NotifyEscalations(_ context.Context, batch []ports.EscalationNotice) {
	n.notices = append(n.notices, batch)
}

type stubLock struct {
	acquired bool
	err      error
	releases int
}

func (l *stubLock) TryAcquire(context.Context) (bool, error) { return l.acquired, l.err }

func (l *stubLock) Release(context.Context) error {
	l.releases++
	return nil
}

func escalatedGrievance() *domain.Grievance {
	now := time.Date(2024, 5, 1, 18, 0, 0, 0, time.UTC)
	return &domain.Grievance{
		ID:          "GRV-AAAA0001",
		Status:      domain.StatusAcknowledged,
		Priority:    domain.PriorityHigh,
		IsEscalated: true,
		UpdatedAt:   now,
		StatusHistory: []domain.StatusHistoryEntry{
			{Status: domain.StatusSubmitted},
			{Status: domain.StatusAcknowledged, IsEscalation: true},
		},
	}
}

func TestRunOnce_NotifiesEscalations(t *testing.T) {
	svc := &stubEscalationService{result: []*domain.Grievance{escalatedGrievance()}}
	notifier := &stubNotifier{}

	s := New(time.Minute, svc, notifier, nil, zerolog.Nop())
	s.runOnce(context.Background())

	if svc.calls != 1 {
		t.Fatalf("sweep called %d times, want 1", svc.calls)
	}
	if len(notifier.notices) != 1 {
		t.Fatalf("notifier called %d times, want 1", len(notifier.notices))
	}

	batch := notifier.notices[0]
	if len(batch) != 1 {
		t.Fatalf("notice batch size = %d, want 1", len(batch))
	}
	n := batch[0]
	if n.GrievanceID != "GRV-AAAA0001" {
		t.Errorf("grievance id = %s", n.GrievanceID)
	}
	if n.FromStatus != domain.StatusSubmitted || n.ToStatus != domain.StatusAcknowledged {
		t.Errorf("transition = %s -> %s, want submitted -> acknowledged", n.FromStatus, n.ToStatus)
	}
	if n.Priority != domain.PriorityHigh {
		t.Errorf("priority = %s, want high", n.Priority)
	}
}

func TestRunOnce_NoEscalationsNoNotification(t *testing.T) {
	svc := &stubEscalationService{}
	notifier := &stubNotifier{}

	s := New(time.Minute, svc, notifier, nil, zerolog.Nop())
	s.runOnce(context.Background())

	if len(notifier.notices) != 0 {
		t.Fatalf("notifier must not be called for an empty sweep")
	}
}

func TestRunOnce_SweepErrorSwallowed(t *testing.T) {
	svc := &stubEscalationService{err: errors.New("mongo unavailable")}
	notifier := &stubNotifier{}

	s := New(time.Minute, svc, notifier, nil, zerolog.Nop())
	s.runOnce(context.Background())

	if len(notifier.notices) != 0 {
		t.Fatal("notifier must not be called when the sweep fails")
	}
}

func TestRunOnce_LockHeldElsewhereSkipsSweep(t *testing.T) {
	svc := &stubEscalationService{result: []*domain.Grievance{escalatedGrievance()}}
	lock := &stubLock{acquired: false}

	s := New(time.Minute, svc, &stubNotifier{}, lock, zerolog.Nop())
	s.runOnce(context.Background())

	if svc.calls != 0 {
		t.Fatal("sweep must not run when the lock is held by another replica")
	}
	if lock.releases != 0 {
		t.Fatal("an unacquired lock must not be released")
	}
}

func TestRunOnce_LockAcquiredAndReleased(t *testing.T) {
	svc := &stubEscalationService{}
	lock := &stubLock{acquired: true}

	s := New(time.Minute, svc, &stubNotifier{}, lock, zerolog.Nop())
	s.runOnce(context.Background())

	if svc.calls != 1 {
		t.Fatal("sweep must run when the lock is acquired")
	}
	if lock.releases != 1 {
		t.Fatalf("lock released %d times, want 1", lock.releases)
	}
}

func TestStart_StopsOnContextCancel(t *testing.T) {
	svc := &stubEscalationService{}
	s := New(5*time.Millisecond, svc, &stubNotifier{}, nil, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	s.Start(ctx)

	time.Sleep(30 * time.Millisecond)
	cancel()
	time.Sleep(10 * time.Millisecond)

	calls := svc.sweepCalls()
	if calls == 0 {
		t.Fatal("expected at least one sweep before cancellation")
	}
	time.Sleep(30 * time.Millisecond)
	if svc.sweepCalls() != calls {
		t.Fatal("scheduler kept sweeping after cancellation")
	}
}
