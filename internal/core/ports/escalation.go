package ports

import (
	"context"
	"time"

	"github.com/kshitij-kamdi/civic-stream/internal/core/domain"
)

// Clock supplies the current time. Abstracted so SLA evaluation and the
// escalation sweep can be driven deterministically in tests.
type Clock interface {
	Now() time.Time
}

// ClockFunc adapts a plain function to the Clock interface.
type ClockFunc func() time.Time

func (f ClockFunc) Now() time.Time { return f() }

// SystemClock returns a Clock backed by the wall clock (UTC).
func SystemClock() Clock {
	return ClockFunc(func() time.Time { return time.Now().UTC() })
}

// EscalationNotice carries enough information about one escalated grievance
// for a user-facing message.
type EscalationNotice struct {
	GrievanceID string                 `json:"grievance_id"`
	FromStatus  domain.GrievanceStatus `json:"from_status"`
	ToStatus    domain.GrievanceStatus `json:"to_status"`
	Priority    domain.Priority        `json:"priority"`
	UpdatedAt   time.Time              `json:"updated_at"`
}

// Notifier surfaces the escalations of the most recent sweep to the outside
// world. Implementations must not block the sweep on slow consumers.
type Notifier interface {
	NotifyEscalations(ctx context.Context, notices []EscalationNotice)
}

// EscalationService drives breached, non-escalated grievances one step
// forward through the lifecycle.
type EscalationService interface {
	// Sweep evaluates every grievance once and escalates those that breached
	// their SLA. It returns the grievances escalated during this invocation,
	// possibly empty. A failure to load the grievance set aborts the sweep;
	// per-record failures are skipped.
	Sweep(ctx context.Context) ([]*domain.Grievance, error)
}
