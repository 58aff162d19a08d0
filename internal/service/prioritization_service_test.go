package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/ticket-prioritizer/internal/config"
	"github.com/spec-kit/ticket-prioritizer/internal/domain"
	"github.com/spec-kit/ticket-prioritizer/internal/events"
	"github.com/spec-kit/ticket-prioritizer/internal/priority"
	"github.com/spec-kit/ticket-prioritizer/internal/signals"
	"github.com/spec-kit/ticket-prioritizer/internal/store"
	apperrors "github.com/spec-kit/ticket-prioritizer/pkg/util"
)

// stubSource returns a programmable signal result and counts calls.
type stubSource struct {
	next  *domain.Signals
	calls int
}

func (s *stubSource) Generate(ctx context.Context, text string, tier domain.CustomerTier, slaHoursRemaining float64) *domain.Signals {
	s.calls++
	if s.next != nil {
		copied := *s.next
		return &copied
	}
	return &domain.Signals{
		Urgency:     domain.UrgencyMedium,
		Confidence:  0.7,
		Sentiment:   domain.SentimentNeutral,
		GeneratedAt: time.Now().UTC(),
	}
}

// gatedSource blocks Generate while armed, so tests can interleave other
// operations with an in-flight signal pass.
type gatedSource struct {
	stubSource
	armed   bool
	entered chan struct{}
	gate    chan struct{}
}

func (g *gatedSource) Generate(ctx context.Context, text string, tier domain.CustomerTier, slaHoursRemaining float64) *domain.Signals {
	if g.armed {
		g.entered <- struct{}{}
		<-g.gate
	}
	return g.stubSource.Generate(ctx, text, tier, slaHoursRemaining)
}

func newService(source signals.Source) *PrioritizationService {
	return NewPrioritizationService(Dependencies{
		Store: store.NewTicketStore(),
		Engine: priority.NewEngine(config.ScoringConfig{
			WeightUrgency:      0.4,
			WeightSLA:          0.4,
			WeightCustomerTier: 0.2,
		}),
		Source:     source,
		Dispatcher: events.NewInMemoryDispatcher(),
		Logger:     zap.NewNop(),
	})
}

func createTicket(t *testing.T, svc *PrioritizationService, tier domain.CustomerTier, slaHours float64) *domain.Ticket {
	t.Helper()
	ticket, err := svc.CreateTicket(context.Background(), store.TicketCreateInput{
		Text:              "sample ticket",
		CustomerTier:      tier,
		SLAHoursRemaining: slaHours,
	})
	require.NoError(t, err)
	return ticket
}

func assertErrorCode(t *testing.T, err error, code string) {
	t.Helper()
	require.Error(t, err)
	domainErr := apperrors.ToDomainError(err)
	assert.Equal(t, code, domainErr.Code)
}

func TestCreateTicket_ScoresOnCreation(t *testing.T) {
	source := &stubSource{next: &domain.Signals{
		Urgency:     domain.UrgencyCritical,
		Confidence:  0.9,
		GeneratedAt: time.Now().UTC(),
	}}
	svc := newService(source)

	ticket := createTicket(t, svc, domain.TierEnterprise, 1.0)

	assert.Equal(t, 1, source.calls)
	require.NotNil(t, ticket.PriorityScore)
	assert.InDelta(t, 0.96, *ticket.PriorityScore, 1e-9)
	assert.Equal(t, domain.BandP0, ticket.PriorityBand)
	require.NotNil(t, ticket.Signals)
	assert.Equal(t, domain.UrgencyCritical, ticket.Signals.Urgency)
}

func TestCreateTicket_SignalFailureIsAbsorbed(t *testing.T) {
	source := &stubSource{next: domain.FailedSignals("timeout")}
	svc := newService(source)

	ticket := createTicket(t, svc, domain.TierEnterprise, 1.0)

	// Collaborator failure never fails the operation.
	require.NotNil(t, ticket.PriorityScore)
	assert.InDelta(t, 0.8, *ticket.PriorityScore, 1e-9)
	assert.Equal(t, domain.BandP0, ticket.PriorityBand)
	assert.True(t, ticket.Signals.Failed())
}

func TestGetTicket_NotFound(t *testing.T) {
	svc := newService(&stubSource{})
	_, err := svc.GetTicket(context.Background(), "TKT-MISSING")
	assertErrorCode(t, err, "NOT_FOUND")
}

func TestReprioritize_RegeneratesSignals(t *testing.T) {
	source := &stubSource{next: &domain.Signals{
		Urgency:     domain.UrgencyLow,
		Confidence:  0.6,
		GeneratedAt: time.Now().UTC(),
	}}
	svc := newService(source)
	ticket := createTicket(t, svc, domain.TierFree, 48)
	require.InDelta(t, 0.208, *ticket.PriorityScore, 1e-9)

	source.next = &domain.Signals{
		Urgency:     domain.UrgencyCritical,
		Confidence:  1.0,
		GeneratedAt: time.Now().UTC(),
	}
	updated, err := svc.Reprioritize(context.Background(), ticket.ID)
	require.NoError(t, err)

	assert.Equal(t, 2, source.calls)
	assert.InDelta(t, 0.56, *updated.PriorityScore, 1e-9)
}

func TestReprioritize_RejectedWhileOverridden(t *testing.T) {
	source := &stubSource{}
	svc := newService(source)
	ticket := createTicket(t, svc, domain.TierFree, 48)

	_, err := svc.ApplyOverride(context.Background(), ticket.ID, 0.95, "vip", "agent-1")
	require.NoError(t, err)

	callsBefore := source.calls
	_, err = svc.Reprioritize(context.Background(), ticket.ID)
	assertErrorCode(t, err, "PRECONDITION_FAILED")
	// The overridden ticket was not rescored, and the source was not invoked.
	assert.Equal(t, callsBefore, source.calls)
}

func TestReprioritize_OverrideDuringSignalGenerationIsRejected(t *testing.T) {
	source := &gatedSource{
		stubSource: stubSource{next: &domain.Signals{
			Urgency:     domain.UrgencyCritical,
			Confidence:  1.0,
			GeneratedAt: time.Now().UTC(),
		}},
		entered: make(chan struct{}),
		gate:    make(chan struct{}),
	}
	svc := newService(source)
	ticket := createTicket(t, svc, domain.TierFree, 48)
	require.NotNil(t, ticket.Breakdown)

	source.armed = true
	errCh := make(chan error, 1)
	go func() {
		_, err := svc.Reprioritize(context.Background(), ticket.ID)
		errCh <- err
	}()

	// The signal pass is in flight; land an override before it writes back.
	<-source.entered
	_, err := svc.ApplyOverride(context.Background(), ticket.ID, 0.95, "vip", "agent-1")
	require.NoError(t, err)
	close(source.gate)

	assertErrorCode(t, <-errCh, "PRECONDITION_FAILED")

	// The overridden ticket kept its score and breakdown untouched.
	after, err := svc.GetTicket(context.Background(), ticket.ID)
	require.NoError(t, err)
	assert.True(t, after.ManualOverride)
	assert.Equal(t, *ticket.PriorityScore, *after.PriorityScore)
	assert.Equal(t, ticket.Breakdown.CalculatedAt, after.Breakdown.CalculatedAt)
}

func TestListTickets_SortDoesNotRescore(t *testing.T) {
	source := &stubSource{next: &domain.Signals{
		Urgency:     domain.UrgencyLow,
		Confidence:  0.6,
		GeneratedAt: time.Now().UTC(),
	}}
	svc := newService(source)
	ctx := context.Background()
	ticket := createTicket(t, svc, domain.TierFree, 48)
	require.InDelta(t, 0.208, *ticket.PriorityScore, 1e-9)

	// Tighten the SLA so a fresh computation would yield a different score.
	sla := 1.0
	_, err := svc.UpdateTicket(ctx, ticket.ID, domain.TicketUpdate{SLAHoursRemaining: &sla})
	require.NoError(t, err)

	listed, err := svc.ListTickets(ctx, "", true)
	require.NoError(t, err)
	require.Len(t, listed, 1)

	// The sorted read reports the stored score, not a recomputed one.
	assert.Equal(t, 1, source.calls)
	assert.InDelta(t, 0.208, *listed[0].PriorityScore, 1e-9)
	assert.Equal(t, ticket.Breakdown.CalculatedAt, listed[0].Breakdown.CalculatedAt)

	fetched, err := svc.GetTicket(ctx, ticket.ID)
	require.NoError(t, err)
	assert.Equal(t, *fetched.PriorityScore, *listed[0].PriorityScore)
}

func TestApplyOverride_PreservesComputedScore(t *testing.T) {
	source := &stubSource{next: &domain.Signals{
		Urgency:     domain.UrgencyLow,
		Confidence:  0.6,
		GeneratedAt: time.Now().UTC(),
	}}
	svc := newService(source)
	ticket := createTicket(t, svc, domain.TierFree, 48)

	overridden, err := svc.ApplyOverride(context.Background(), ticket.ID, 0.95, "exec escalation", "agent-7")
	require.NoError(t, err)

	assert.True(t, overridden.ManualOverride)
	assert.Equal(t, 0.95, overridden.EffectivePriority())
	assert.InDelta(t, 0.208, *overridden.PriorityScore, 1e-9)

	// Queue position reflects the override value.
	other := createTicket(t, svc, domain.TierBusiness, 10)
	queue := svc.Queue(context.Background())
	require.Len(t, queue, 2)
	assert.Equal(t, overridden.ID, queue[0].ID)
	assert.Equal(t, other.ID, queue[1].ID)
}

func TestApplyOverride_NotFound(t *testing.T) {
	svc := newService(&stubSource{})
	_, err := svc.ApplyOverride(context.Background(), "TKT-MISSING", 0.5, "", "agent")
	assertErrorCode(t, err, "NOT_FOUND")
}

func TestRemoveOverride_RecalculatesFromLiveSignals(t *testing.T) {
	source := &stubSource{next: &domain.Signals{
		Urgency:     domain.UrgencyLow,
		Confidence:  0.6,
		GeneratedAt: time.Now().UTC(),
	}}
	svc := newService(source)
	ticket := createTicket(t, svc, domain.TierFree, 48)
	_, err := svc.ApplyOverride(context.Background(), ticket.ID, 0.95, "vip", "agent-1")
	require.NoError(t, err)

	restored, err := svc.RemoveOverride(context.Background(), ticket.ID)
	require.NoError(t, err)

	assert.False(t, restored.ManualOverride)
	assert.Nil(t, restored.OverridePriority)
	assert.InDelta(t, 0.208, *restored.PriorityScore, 1e-9)
	assert.InDelta(t, 0.208, restored.EffectivePriority(), 1e-9)
	// Removal triggers a fresh signal pass.
	assert.Equal(t, 2, source.calls)
}

func TestRemoveOverride_RejectedWithoutOverride(t *testing.T) {
	svc := newService(&stubSource{})
	ticket := createTicket(t, svc, domain.TierFree, 48)

	_, err := svc.RemoveOverride(context.Background(), ticket.ID)
	assertErrorCode(t, err, "PRECONDITION_FAILED")
}

func TestExplanation_ReflectsOverrideState(t *testing.T) {
	svc := newService(&stubSource{})
	ticket := createTicket(t, svc, domain.TierBusiness, 10)

	explanation, err := svc.Explanation(context.Background(), ticket.ID)
	require.NoError(t, err)
	assert.Equal(t, priority.ExplanationCalculated, explanation.Type)

	_, err = svc.ApplyOverride(context.Background(), ticket.ID, 0.9, "vip", "agent-2")
	require.NoError(t, err)

	explanation, err = svc.Explanation(context.Background(), ticket.ID)
	require.NoError(t, err)
	assert.Equal(t, priority.ExplanationManualOverride, explanation.Type)
	assert.Equal(t, ticket.PriorityScore, explanation.OriginalScore)
}

func TestSubmitFeedback(t *testing.T) {
	svc := newService(&stubSource{})
	ticket := createTicket(t, svc, domain.TierStandard, 10)

	updated, err := svc.SubmitFeedback(context.Background(), ticket.ID, domain.FeedbackCorrect, "agent-4")
	require.NoError(t, err)

	assert.Equal(t, domain.FeedbackCorrect, updated.Feedback)
	assert.Equal(t, "agent-4", updated.FeedbackBy)
	assert.NotNil(t, updated.FeedbackAt)
}

func TestSubmitFeedback_InvalidValue(t *testing.T) {
	svc := newService(&stubSource{})
	ticket := createTicket(t, svc, domain.TierStandard, 10)

	_, err := svc.SubmitFeedback(context.Background(), ticket.ID, domain.FeedbackValue("meh"), "agent-4")
	assertErrorCode(t, err, "VALIDATION_FAILED")
}

func TestAIPerformance_NoData(t *testing.T) {
	svc := newService(&stubSource{})
	createTicket(t, svc, domain.TierStandard, 10)

	perf := svc.AIPerformance(context.Background())

	assert.True(t, perf.NoData)
	assert.Zero(t, perf.AccuracyRate)
	assert.Equal(t, 1, perf.TotalTickets)
	assert.Zero(t, perf.TicketsWithFeedback)
}

func TestAIPerformance_AccuracyRate(t *testing.T) {
	svc := newService(&stubSource{})
	ctx := context.Background()
	a := createTicket(t, svc, domain.TierStandard, 10)
	b := createTicket(t, svc, domain.TierStandard, 10)
	c := createTicket(t, svc, domain.TierStandard, 10)
	createTicket(t, svc, domain.TierStandard, 10)

	_, err := svc.SubmitFeedback(ctx, a.ID, domain.FeedbackCorrect, "agent")
	require.NoError(t, err)
	_, err = svc.SubmitFeedback(ctx, b.ID, domain.FeedbackCorrect, "agent")
	require.NoError(t, err)
	_, err = svc.SubmitFeedback(ctx, c.ID, domain.FeedbackTooLow, "agent")
	require.NoError(t, err)

	perf := svc.AIPerformance(ctx)

	assert.False(t, perf.NoData)
	assert.Equal(t, 4, perf.TotalTickets)
	assert.Equal(t, 3, perf.TicketsWithFeedback)
	assert.Equal(t, 2, perf.FeedbackDistribution[domain.FeedbackCorrect])
	assert.Equal(t, 1, perf.FeedbackDistribution[domain.FeedbackTooLow])
	assert.Zero(t, perf.FeedbackDistribution[domain.FeedbackTooHigh])
	assert.InDelta(t, 0.67, perf.AccuracyRate, 1e-9)
}

func TestReset_SeedsAndScoresSampleData(t *testing.T) {
	source := &stubSource{}
	svc := newService(source)
	createTicket(t, svc, domain.TierStandard, 10)

	count, err := svc.Reset(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 6, count)
	tickets, err := svc.ListTickets(context.Background(), "", false)
	require.NoError(t, err)
	require.Len(t, tickets, 6)
	for i := range tickets {
		assert.NotNil(t, tickets[i].PriorityScore)
		assert.NotNil(t, tickets[i].Signals)
	}
}

func TestListTickets_StatusFilterAndPrioritySort(t *testing.T) {
	source := &stubSource{next: &domain.Signals{
		Urgency:     domain.UrgencyLow,
		Confidence:  0.6,
		GeneratedAt: time.Now().UTC(),
	}}
	svc := newService(source)
	ctx := context.Background()
	low := createTicket(t, svc, domain.TierFree, 48)

	source.next = &domain.Signals{
		Urgency:     domain.UrgencyCritical,
		Confidence:  0.9,
		GeneratedAt: time.Now().UTC(),
	}
	high := createTicket(t, svc, domain.TierEnterprise, 1)

	sorted, err := svc.ListTickets(ctx, "", true)
	require.NoError(t, err)
	require.Len(t, sorted, 2)
	assert.Equal(t, high.ID, sorted[0].ID)

	unsorted, err := svc.ListTickets(ctx, "", false)
	require.NoError(t, err)
	assert.Equal(t, low.ID, unsorted[0].ID)

	resolved := domain.TicketStatusResolved
	_, err = svc.UpdateTicket(ctx, low.ID, domain.TicketUpdate{Status: &resolved})
	require.NoError(t, err)

	open, err := svc.ListTickets(ctx, domain.TicketStatusOpen, false)
	require.NoError(t, err)
	require.Len(t, open, 1)
	assert.Equal(t, high.ID, open[0].ID)
}

func TestDeleteTicket(t *testing.T) {
	svc := newService(&stubSource{})
	ticket := createTicket(t, svc, domain.TierFree, 10)

	require.NoError(t, svc.DeleteTicket(context.Background(), ticket.ID))
	err := svc.DeleteTicket(context.Background(), ticket.ID)
	assertErrorCode(t, err, "NOT_FOUND")
}
