package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/ticket-prioritizer/internal/config"
	"github.com/spec-kit/ticket-prioritizer/internal/domain"
	"github.com/spec-kit/ticket-prioritizer/internal/events"
	"github.com/spec-kit/ticket-prioritizer/internal/observability"
)

// EscalationService watches domain events and surfaces queue changes that need
// human attention, such as a ticket landing in P0. Events are delivered to it
// by the escalation worker, off the request path.
type EscalationService struct {
	logger  *zap.Logger
	metrics *observability.Metrics
	cfg     config.EscalationConfig
}

// NewEscalationService creates the service.
func NewEscalationService(logger *zap.Logger, metrics *observability.Metrics, cfg config.EscalationConfig) *EscalationService {
	return &EscalationService{
		logger:  logger,
		metrics: metrics,
		cfg:     cfg,
	}
}

// EscalationEventTypes lists the event types the escalation service consumes.
func EscalationEventTypes() []events.EventType {
	return []events.EventType{
		events.EventPriorityCalculated,
		events.EventOverrideApplied,
		events.EventFeedbackSubmitted,
	}
}

// HandleEvent dispatches one event to the matching handler. Unknown event
// types are ignored.
func (e *EscalationService) HandleEvent(ctx context.Context, event events.Event) {
	switch event.Type {
	case events.EventPriorityCalculated:
		e.handlePriorityCalculated(ctx, event)
	case events.EventOverrideApplied:
		e.handleOverrideApplied(ctx, event)
	case events.EventFeedbackSubmitted:
		e.handleFeedbackSubmitted(ctx, event)
	}
}

func (e *EscalationService) handlePriorityCalculated(ctx context.Context, event events.Event) {
	payload, ok := event.Payload.(events.PriorityCalculatedPayload)
	if !ok {
		return
	}
	if payload.Band == domain.BandP0 {
		e.metrics.RecordEscalation(string(payload.Band))
		e.logger.Info("P0 escalation",
			zap.String("ticket_id", event.TicketID),
			zap.Float64("score", payload.Score),
			zap.Float64("sla_hours_remaining", payload.SLAHoursRemain))
		e.sendWebhookStub(ctx, event)
	}
	if payload.SignalsFailed {
		e.metrics.RecordSignalFailure()
		e.logger.Warn("priority computed without AI signals", zap.String("ticket_id", event.TicketID))
	}
}

func (e *EscalationService) handleOverrideApplied(ctx context.Context, event events.Event) {
	e.logger.Info("OverrideApplied", zap.String("ticket_id", event.TicketID), zap.Any("payload", event.Payload))
	e.sendWebhookStub(ctx, event)
}

func (e *EscalationService) handleFeedbackSubmitted(ctx context.Context, event events.Event) {
	e.logger.Info("FeedbackSubmitted", zap.String("ticket_id", event.TicketID), zap.Any("payload", event.Payload))
}

func (e *EscalationService) sendWebhookStub(ctx context.Context, event events.Event) {
	if e.cfg.WebhookURL == "" {
		return
	}
	// Stub: a real delivery mechanism would POST the event here.
	e.logger.Debug("webhook notification",
		zap.String("url", e.cfg.WebhookURL),
		zap.String("event_type", string(event.Type)),
		zap.String("ticket_id", event.TicketID))
}
