package events

import (
	"time"

	"github.com/spec-kit/ticket-prioritizer/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventTicketCreated      EventType = "ticket_created"
	EventPriorityCalculated EventType = "priority_calculated"
	EventOverrideApplied    EventType = "override_applied"
	EventOverrideRemoved    EventType = "override_removed"
	EventFeedbackSubmitted  EventType = "feedback_submitted"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	TicketID  string      `json:"ticket_id"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// TicketCreatedPayload payload.
type TicketCreatedPayload struct {
	CustomerTier      domain.CustomerTier `json:"customer_tier"`
	SLAHoursRemaining float64             `json:"sla_hours_remaining"`
	Summary           string              `json:"summary,omitempty"`
}

// PriorityCalculatedPayload payload.
type PriorityCalculatedPayload struct {
	Score          float64             `json:"score"`
	Band           domain.PriorityBand `json:"band"`
	SignalsFailed  bool                `json:"signals_failed"`
	SLAHoursRemain float64             `json:"sla_hours_remaining"`
}

// OverrideAppliedPayload payload.
type OverrideAppliedPayload struct {
	Priority float64 `json:"priority"`
	Reason   string  `json:"reason"`
	By       string  `json:"by"`
}

// OverrideRemovedPayload payload.
type OverrideRemovedPayload struct {
	By string `json:"by,omitempty"`
}

// FeedbackSubmittedPayload payload.
type FeedbackSubmittedPayload struct {
	Feedback domain.FeedbackValue `json:"feedback"`
	By       string               `json:"by"`
}
