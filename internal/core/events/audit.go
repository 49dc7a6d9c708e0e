package events

import (
	"context"
	"log/slog"
)

// RegisterAuditLog writes one structured audit record per domain event.
func RegisterAuditLog(bus *EventBus, logger *slog.Logger) {
	bus.SubscribeAll(func(ctx context.Context, event Event) error {
		logger.InfoContext(ctx, "audit",
			"event_id", event.EventID(),
			"event_type", event.EventType(),
			"occurred_at", event.OccurredAt(),
			"payload", event.Payload())
		return nil
	}, AllEventTypes...)
}
