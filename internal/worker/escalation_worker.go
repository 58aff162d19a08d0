package worker

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/ticket-prioritizer/internal/events"
	"github.com/spec-kit/ticket-prioritizer/internal/service"
)

const escalationQueueSize = 64

// StartEscalationWorker subscribes the escalation service to domain events
// and drains them on a background goroutine, so webhook and notification work
// never runs on the request path. When the queue is full arriving events are
// dropped with a warning rather than blocking the publisher. The goroutine
// stops when ctx is cancelled.
func StartEscalationWorker(ctx context.Context, dispatcher events.Dispatcher, escalationService *service.EscalationService, logger *zap.Logger) {
	if dispatcher == nil || escalationService == nil {
		return
	}
	queue := make(chan events.Event, escalationQueueSize)

	enqueue := func(ctx context.Context, event events.Event) error {
		select {
		case queue <- event:
		default:
			logger.Warn("escalation queue full, dropping event",
				zap.String("event_type", string(event.Type)),
				zap.String("ticket_id", event.TicketID))
		}
		return nil
	}
	for _, eventType := range service.EscalationEventTypes() {
		dispatcher.Subscribe(eventType, enqueue)
	}

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case event := <-queue:
				escalationService.HandleEvent(ctx, event)
			}
		}
	}()
}
