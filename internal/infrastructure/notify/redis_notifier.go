// Package notify contains the delivery side of escalation notices. The core
// returns the set of grievances escalated per sweep; implementations here
// decide how that set reaches the user interface.
package notify

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/kshitij-kamdi/civic-stream/internal/core/ports"
)

const escalationChannel = "civicstream:escalations"

// RedisNotifier publishes escalation notices to a Redis pub/sub channel so
// UI processes can surface "N grievance(s) escalated due to SLA breach"
// toasts without polling.
type RedisNotifier struct {
	client *redis.Client
	log    zerolog.Logger
}

func NewRedisNotifier(client *redis.Client, log zerolog.Logger) *RedisNotifier {
	return &RedisNotifier{client: client, log: log}
}

// NotifyEscalations publishes one message carrying the whole batch. Delivery
// is best effort: a publish failure is logged, never propagated to the sweep.
func (n *RedisNotifier) NotifyEscalations(ctx context.Context, notices []ports.EscalationNotice) {
	if len(notices) == 0 {
		return
	}

	payload, err := json.Marshal(notices)
	if err != nil {
		n.log.Error().Err(err).Msg("failed to encode escalation notices")
		return
	}

	if err := n.client.Publish(ctx, escalationChannel, payload).Err(); err != nil {
		n.log.Error().Err(err).Int("count", len(notices)).Msg("failed to publish escalation notices")
		return
	}

	n.log.Info().Int("count", len(notices)).Msg("escalation notices published")
}
