package cmd

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/frahmantamala/simmas/internal/core/events"
	"github.com/frahmantamala/simmas/pkg/logger"
	"github.com/spf13/cobra"
)

var eventCmd = &cobra.Command{
	Use:   "event",
	Short: "Event management commands",
	Long:  `Inspect the in-process event bus: list event types, publish a test event through the audit log.`,
}

var listEventsCmd = &cobra.Command{
	Use:   "list",
	Short: "List the domain event types",
	Run: func(cmd *cobra.Command, args []string) {
		for _, t := range events.AllEventTypes {
			fmt.Println(t)
		}
	},
}

var publishEventCmd = &cobra.Command{
	Use:   "publish [event-type]",
	Short: "Publish a test event",
	Long:  `Publish a test event through the audit subscriber for debugging log pipelines`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return publishTestEvent(cmd.Context(), args[0])
	},
}

var eventData string

func publishTestEvent(ctx context.Context, eventType string) error {
	if !slices.Contains(events.AllEventTypes, eventType) {
		return fmt.Errorf("unknown event type %q, see `simmas event list`", eventType)
	}
	if ctx == nil {
		ctx = context.Background()
	}

	lg := logger.LoggerWrapper()
	bus := events.NewEventBus(lg)
	events.RegisterAuditLog(bus, lg)

	now := time.Now()
	testEvent := events.BaseEvent{
		ID:        events.NewEventID(now),
		Type:      eventType,
		Timestamp: now,
		Data: map[string]interface{}{
			"message": eventData,
			"source":  "cli-command",
		},
	}

	if err := bus.PublishSync(ctx, testEvent); err != nil {
		return fmt.Errorf("publish event: %w", err)
	}
	lg.Info("test event published", "event_type", eventType, "event_id", testEvent.ID)
	return nil
}

func init() {
	publishEventCmd.Flags().StringVar(&eventData, "data", "test message", "Event data message")

	eventCmd.AddCommand(listEventsCmd)
	eventCmd.AddCommand(publishEventCmd)

	rootCmd.AddCommand(eventCmd)
}
