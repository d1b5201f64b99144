package notify

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/kshitij-kamdi/civic-stream/internal/core/ports"
)

// LogNotifier writes escalation notices to the structured log. Used when no
// Redis is configured and as a sink in tests.
type LogNotifier struct {
	log zerolog.Logger
}

func NewLogNotifier(log zerolog.Logger) *LogNotifier {
	return &LogNotifier{log: log}
}

func (n *LogNotifier) NotifyEscalations(_ context.Context, notices []ports.EscalationNotice) {
	if len(notices) == 0 {
		return
	}
	for _, notice := range notices {
		n.log.Warn().
			Str("grievance_id", notice.GrievanceID).
			Str("from", string(notice.FromStatus)).
			Str("to", string(notice.ToStatus)).
			Str("priority", string(notice.Priority)).
			Msg("grievance escalated due to SLA breach")
	}
	n.log.Info().Int("count", len(notices)).Msgf("%d grievance(s) escalated due to SLA breach", len(notices))
}
