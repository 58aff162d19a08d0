package service

import (
	"context"
	"math"
	"sort"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/ticket-prioritizer/internal/domain"
	"github.com/spec-kit/ticket-prioritizer/internal/events"
	"github.com/spec-kit/ticket-prioritizer/internal/priority"
	"github.com/spec-kit/ticket-prioritizer/internal/signals"
	"github.com/spec-kit/ticket-prioritizer/internal/store"
	apperrors "github.com/spec-kit/ticket-prioritizer/pkg/util"
)

// PrioritizationService orchestrates the signal source, engine, and store.
type PrioritizationService struct {
	store      *store.TicketStore
	engine     *priority.Engine
	source     signals.Source
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// Dependencies bundles collaborators for the service.
type Dependencies struct {
	Store      *store.TicketStore
	Engine     *priority.Engine
	Source     signals.Source
	Dispatcher events.Dispatcher
	Logger     *zap.Logger
}

// NewPrioritizationService constructs the service.
func NewPrioritizationService(deps Dependencies) *PrioritizationService {
	return &PrioritizationService{
		store:      deps.Store,
		engine:     deps.Engine,
		source:     deps.Source,
		dispatcher: deps.Dispatcher,
		logger:     deps.Logger,
	}
}

// AIPerformance summarizes agent feedback versus AI predictions.
type AIPerformance struct {
	TotalTickets         int
	TicketsWithFeedback  int
	FeedbackDistribution map[domain.FeedbackValue]int
	AccuracyRate         float64
	NoData               bool
}

// CreateTicket stores the ticket, generates signals, and runs the first
// scoring pass. Signal source failure never fails the operation.
func (s *PrioritizationService) CreateTicket(ctx context.Context, input store.TicketCreateInput) (*domain.Ticket, error) {
	ticket := s.store.Create(input)

	scored, err := s.scoreTicket(ctx, ticket.ID)
	if err != nil {
		return nil, err
	}

	s.publishEvent(ctx, events.Event{
		Type:     events.EventTicketCreated,
		TicketID: scored.ID,
		Payload: events.TicketCreatedPayload{
			CustomerTier:      scored.CustomerTier,
			SLAHoursRemaining: scored.SLAHoursRemaining,
			Summary:           signalSummary(scored.Signals),
		},
	})
	return scored, nil
}

// GetTicket fetches one ticket.
func (s *PrioritizationService) GetTicket(ctx context.Context, id string) (*domain.Ticket, error) {
	ticket, ok := s.store.Get(id)
	if !ok {
		return nil, apperrors.NewNotFound("ticket", map[string]any{"ticket_id": id})
	}
	return ticket, nil
}

// ListTickets returns tickets filtered by status, optionally sorted by
// effective priority descending. Sorting is a pure read: stored scores and
// breakdowns are reported as-is, never recomputed.
func (s *PrioritizationService) ListTickets(ctx context.Context, status domain.TicketStatus, sortByPriority bool) ([]domain.Ticket, error) {
	tickets := s.store.List(status)
	if sortByPriority {
		sort.SliceStable(tickets, func(i, j int) bool {
			return tickets[i].EffectivePriority() > tickets[j].EffectivePriority()
		})
	}
	return tickets, nil
}

// Queue returns the agent-facing view: open tickets by effective priority.
func (s *PrioritizationService) Queue(ctx context.Context) []domain.Ticket {
	return s.store.SortedQueue()
}

// UpdateTicket applies a partial update.
func (s *PrioritizationService) UpdateTicket(ctx context.Context, id string, update domain.TicketUpdate) (*domain.Ticket, error) {
	ticket, ok := s.store.Update(id, update)
	if !ok {
		return nil, apperrors.NewNotFound("ticket", map[string]any{"ticket_id": id})
	}
	return ticket, nil
}

// DeleteTicket removes a ticket.
func (s *PrioritizationService) DeleteTicket(ctx context.Context, id string) error {
	if !s.store.Delete(id) {
		return apperrors.NewNotFound("ticket", map[string]any{"ticket_id": id})
	}
	return nil
}

// Reprioritize regenerates signals and rescores one ticket. It is rejected
// while a manual override is active.
func (s *PrioritizationService) Reprioritize(ctx context.Context, id string) (*domain.Ticket, error) {
	ticket, ok := s.store.Get(id)
	if !ok {
		return nil, apperrors.NewNotFound("ticket", map[string]any{"ticket_id": id})
	}
	if ticket.ManualOverride {
		return nil, apperrors.NewPreconditionFailed(
			"cannot reprioritize - ticket has manual override, remove override first",
			map[string]any{"ticket_id": id})
	}
	return s.scoreTicket(ctx, id)
}

// ApplyOverride sets an agent-asserted priority. The computed score and
// breakdown stay on the ticket for comparison.
func (s *PrioritizationService) ApplyOverride(ctx context.Context, id string, value float64, reason, by string) (*domain.Ticket, error) {
	ticket, ok := s.store.Apply(id, func(t *domain.Ticket) {
		s.engine.ApplyManualOverride(t, value, reason, by)
	})
	if !ok {
		return nil, apperrors.NewNotFound("ticket", map[string]any{"ticket_id": id})
	}
	s.publishEvent(ctx, events.Event{
		Type:     events.EventOverrideApplied,
		TicketID: id,
		Payload:  events.OverrideAppliedPayload{Priority: value, Reason: reason, By: by},
	})
	return ticket, nil
}

// RemoveOverride clears the override and restores computed scoring from live
// signals. It is rejected when no override is active.
func (s *PrioritizationService) RemoveOverride(ctx context.Context, id string) (*domain.Ticket, error) {
	ticket, ok := s.store.Get(id)
	if !ok {
		return nil, apperrors.NewNotFound("ticket", map[string]any{"ticket_id": id})
	}
	if !ticket.ManualOverride {
		return nil, apperrors.NewPreconditionFailed(
			"ticket does not have a manual override",
			map[string]any{"ticket_id": id})
	}

	s.store.Apply(id, func(t *domain.Ticket) {
		s.engine.RemoveOverride(t)
	})
	s.publishEvent(ctx, events.Event{
		Type:     events.EventOverrideRemoved,
		TicketID: id,
		Payload:  events.OverrideRemovedPayload{},
	})
	return s.scoreTicket(ctx, id)
}

// Explanation reports how the ticket's current priority came to be.
func (s *PrioritizationService) Explanation(ctx context.Context, id string) (priority.Explanation, error) {
	ticket, ok := s.store.Get(id)
	if !ok {
		return priority.Explanation{}, apperrors.NewNotFound("ticket", map[string]any{"ticket_id": id})
	}
	return s.engine.Explain(ticket), nil
}

// SubmitFeedback records agent feedback on priority accuracy.
func (s *PrioritizationService) SubmitFeedback(ctx context.Context, id string, value domain.FeedbackValue, by string) (*domain.Ticket, error) {
	if !domain.ValidFeedback(value) {
		return nil, apperrors.NewValidationError("feedback must be one of too_high, correct, too_low", nil)
	}
	ticket, ok := s.store.Apply(id, func(t *domain.Ticket) {
		now := time.Now().UTC()
		t.Feedback = value
		t.FeedbackBy = by
		t.FeedbackAt = &now
		t.UpdatedAt = now
	})
	if !ok {
		return nil, apperrors.NewNotFound("ticket", map[string]any{"ticket_id": id})
	}
	s.publishEvent(ctx, events.Event{
		Type:     events.EventFeedbackSubmitted,
		TicketID: id,
		Payload:  events.FeedbackSubmittedPayload{Feedback: value, By: by},
	})
	return ticket, nil
}

// Statistics exposes the store's aggregate counts.
func (s *PrioritizationService) Statistics(ctx context.Context) store.Statistics {
	return s.store.Statistics()
}

// AIPerformance compares AI predictions with agent feedback. With no feedback
// yet it reports zero accuracy and an explicit no-data flag.
func (s *PrioritizationService) AIPerformance(ctx context.Context) AIPerformance {
	tickets := s.store.List("")

	perf := AIPerformance{
		TotalTickets: len(tickets),
		FeedbackDistribution: map[domain.FeedbackValue]int{
			domain.FeedbackTooHigh: 0,
			domain.FeedbackCorrect: 0,
			domain.FeedbackTooLow:  0,
		},
	}
	for i := range tickets {
		if tickets[i].Feedback == "" {
			continue
		}
		perf.TicketsWithFeedback++
		perf.FeedbackDistribution[tickets[i].Feedback]++
	}
	if perf.TicketsWithFeedback == 0 {
		perf.NoData = true
		return perf
	}
	perf.AccuracyRate = math.Round(float64(perf.FeedbackDistribution[domain.FeedbackCorrect])/
		float64(perf.TicketsWithFeedback)*100) / 100
	return perf
}

// Reset restores the fixed demo dataset and scores every sample ticket.
func (s *PrioritizationService) Reset(ctx context.Context) (int, error) {
	s.store.Clear()
	samples := store.SampleTickets()
	for _, sample := range samples {
		if _, err := s.CreateTicket(ctx, sample); err != nil {
			return 0, err
		}
	}
	return len(samples), nil
}

// scoreTicket generates fresh signals from a snapshot of the ticket's inputs,
// then writes signals, score, band, and breakdown back under the store lock.
// The signal source call happens outside the lock; the write-back recomputes
// from the record's current fields so a concurrent SLA or tier update is not
// lost.
func (s *PrioritizationService) scoreTicket(ctx context.Context, id string) (*domain.Ticket, error) {
	snapshot, ok := s.store.Get(id)
	if !ok {
		return nil, apperrors.NewNotFound("ticket", map[string]any{"ticket_id": id})
	}

	generated := s.source.Generate(ctx, snapshot.Text, snapshot.CustomerTier, snapshot.SLAHoursRemaining)
	if generated.Failed() {
		s.logger.Warn("signal source failed, scoring on safe defaults",
			zap.String("ticket_id", id),
			zap.String("reason", generated.Error))
	}

	var overridden bool
	ticket, ok := s.store.Apply(id, func(t *domain.Ticket) {
		// An override may have landed while signals were being generated.
		// An overridden ticket is never rescored implicitly; remove-override
		// clears the flag under the lock before its rescore, so its explicit
		// recompute still passes this check.
		if t.ManualOverride {
			overridden = true
			return
		}
		t.Signals = generated
		s.engine.CalculatePriority(t)
	})
	if !ok {
		// Deleted while signals were being generated.
		return nil, apperrors.NewNotFound("ticket", map[string]any{"ticket_id": id})
	}
	if overridden {
		return nil, apperrors.NewPreconditionFailed(
			"cannot reprioritize - ticket has manual override, remove override first",
			map[string]any{"ticket_id": id})
	}

	s.publishEvent(ctx, events.Event{
		Type:     events.EventPriorityCalculated,
		TicketID: ticket.ID,
		Payload: events.PriorityCalculatedPayload{
			Score:          ticket.EffectivePriority(),
			Band:           ticket.PriorityBand,
			SignalsFailed:  generated.Failed(),
			SLAHoursRemain: ticket.SLAHoursRemaining,
		},
	})
	return ticket, nil
}

func (s *PrioritizationService) publishEvent(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	_ = s.dispatcher.Publish(ctx, event)
}

func signalSummary(sig *domain.Signals) string {
	if sig == nil {
		return ""
	}
	return sig.Summary
}
