package store

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/ticket-prioritizer/internal/domain"
)

func newTicket(t *testing.T, s *TicketStore, tier domain.CustomerTier, slaHours float64) *domain.Ticket {
	t.Helper()
	return s.Create(TicketCreateInput{
		Text:              "sample ticket text",
		CustomerTier:      tier,
		SLAHoursRemaining: slaHours,
	})
}

func scoreOf(v float64) *float64 {
	return &v
}

func TestCreateAndGet(t *testing.T) {
	s := NewTicketStore()
	created := newTicket(t, s, domain.TierEnterprise, 2.5)

	assert.Contains(t, created.ID, "TKT-")
	assert.Equal(t, domain.TicketStatusOpen, created.Status)
	assert.False(t, created.CreatedAt.IsZero())
	assert.Nil(t, created.PriorityScore)

	fetched, ok := s.Get(created.ID)
	require.True(t, ok)
	assert.Equal(t, created.ID, fetched.ID)

	_, ok = s.Get("TKT-MISSING")
	assert.False(t, ok)
}

func TestCreate_UniqueIDs(t *testing.T) {
	s := NewTicketStore()
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		ticket := newTicket(t, s, domain.TierFree, 10)
		assert.False(t, seen[ticket.ID])
		seen[ticket.ID] = true
	}
}

func TestGet_ReturnsCopy(t *testing.T) {
	s := NewTicketStore()
	created := newTicket(t, s, domain.TierFree, 10)

	fetched, _ := s.Get(created.ID)
	fetched.Text = "mutated locally"

	again, _ := s.Get(created.ID)
	assert.Equal(t, "sample ticket text", again.Text)
}

func TestUpdate_PartialFields(t *testing.T) {
	s := NewTicketStore()
	created := newTicket(t, s, domain.TierStandard, 20)

	sla := 1.5
	status := domain.TicketStatusInProgress
	updated, ok := s.Update(created.ID, domain.TicketUpdate{
		SLAHoursRemaining: &sla,
		Status:            &status,
	})
	require.True(t, ok)
	assert.Equal(t, 1.5, updated.SLAHoursRemaining)
	assert.Equal(t, domain.TicketStatusInProgress, updated.Status)
	// Unsupplied fields stay untouched.
	assert.Equal(t, "sample ticket text", updated.Text)
	assert.Equal(t, domain.TierStandard, updated.CustomerTier)
	assert.True(t, updated.UpdatedAt.After(created.UpdatedAt) || updated.UpdatedAt.Equal(created.UpdatedAt))
}

func TestUpdate_UnknownID(t *testing.T) {
	s := NewTicketStore()
	_, ok := s.Update("TKT-MISSING", domain.TicketUpdate{})
	assert.False(t, ok)
}

func TestApply_MutatesUnderLock(t *testing.T) {
	s := NewTicketStore()
	created := newTicket(t, s, domain.TierFree, 10)

	updated, ok := s.Apply(created.ID, func(ticket *domain.Ticket) {
		ticket.PriorityScore = scoreOf(0.42)
		ticket.PriorityBand = domain.BandP2
	})
	require.True(t, ok)
	assert.Equal(t, 0.42, *updated.PriorityScore)

	fetched, _ := s.Get(created.ID)
	assert.Equal(t, 0.42, *fetched.PriorityScore)
}

func TestApply_ConcurrentWritesAreNotLost(t *testing.T) {
	s := NewTicketStore()
	created := newTicket(t, s, domain.TierFree, 10)

	const writers = 50
	var wg sync.WaitGroup
	wg.Add(writers)
	for i := 0; i < writers; i++ {
		go func() {
			defer wg.Done()
			s.Apply(created.ID, func(ticket *domain.Ticket) {
				ticket.SLAHoursRemaining++
			})
		}()
	}
	wg.Wait()

	fetched, _ := s.Get(created.ID)
	assert.Equal(t, 10.0+writers, fetched.SLAHoursRemaining)
}

func TestDelete(t *testing.T) {
	s := NewTicketStore()
	created := newTicket(t, s, domain.TierFree, 10)

	assert.True(t, s.Delete(created.ID))
	assert.False(t, s.Delete(created.ID))
	_, ok := s.Get(created.ID)
	assert.False(t, ok)
	assert.Empty(t, s.List(""))
}

func TestList_InsertionOrderAndStatusFilter(t *testing.T) {
	s := NewTicketStore()
	first := newTicket(t, s, domain.TierFree, 10)
	second := newTicket(t, s, domain.TierFree, 10)
	third := newTicket(t, s, domain.TierFree, 10)

	resolved := domain.TicketStatusResolved
	s.Update(second.ID, domain.TicketUpdate{Status: &resolved})

	all := s.List("")
	require.Len(t, all, 3)
	assert.Equal(t, []string{first.ID, second.ID, third.ID}, []string{all[0].ID, all[1].ID, all[2].ID})

	open := s.List(domain.TicketStatusOpen)
	require.Len(t, open, 2)
	assert.Equal(t, first.ID, open[0].ID)
	assert.Equal(t, third.ID, open[1].ID)
}

func TestSortedQueue_DescendingWithStableTies(t *testing.T) {
	s := NewTicketStore()
	a := newTicket(t, s, domain.TierFree, 10)
	b := newTicket(t, s, domain.TierFree, 10)
	c := newTicket(t, s, domain.TierFree, 10)

	s.Apply(a.ID, func(ticket *domain.Ticket) { ticket.PriorityScore = scoreOf(0.5) })
	s.Apply(b.ID, func(ticket *domain.Ticket) { ticket.PriorityScore = scoreOf(0.9) })
	s.Apply(c.ID, func(ticket *domain.Ticket) { ticket.PriorityScore = scoreOf(0.5) })

	queue := s.SortedQueue()
	require.Len(t, queue, 3)
	assert.Equal(t, b.ID, queue[0].ID)
	// Equal scores preserve insertion order.
	assert.Equal(t, a.ID, queue[1].ID)
	assert.Equal(t, c.ID, queue[2].ID)

	again := s.SortedQueue()
	for i := range queue {
		assert.Equal(t, queue[i].ID, again[i].ID)
	}
}

func TestSortedQueue_OverrideControlsPosition(t *testing.T) {
	s := NewTicketStore()
	low := newTicket(t, s, domain.TierFree, 48)
	high := newTicket(t, s, domain.TierEnterprise, 1)

	s.Apply(low.ID, func(ticket *domain.Ticket) { ticket.PriorityScore = scoreOf(0.208) })
	s.Apply(high.ID, func(ticket *domain.Ticket) { ticket.PriorityScore = scoreOf(0.96) })

	queue := s.SortedQueue()
	assert.Equal(t, high.ID, queue[0].ID)

	s.Apply(low.ID, func(ticket *domain.Ticket) {
		ticket.ManualOverride = true
		ticket.OverridePriority = scoreOf(0.99)
	})

	queue = s.SortedQueue()
	assert.Equal(t, low.ID, queue[0].ID)
	// The computed score is still reported on the overridden ticket.
	assert.Equal(t, 0.208, *queue[0].PriorityScore)
}

func TestStatistics_Empty(t *testing.T) {
	s := NewTicketStore()
	stats := s.Statistics()

	assert.Zero(t, stats.TotalTickets)
	assert.Zero(t, stats.OverrideCount)
	// Zero tickets is not an error: rate is 0.
	assert.Zero(t, stats.OverrideRate)
	assert.Len(t, stats.PriorityDistribution, 4)
	for _, band := range []domain.PriorityBand{domain.BandP0, domain.BandP1, domain.BandP2, domain.BandP3} {
		count, present := stats.PriorityDistribution[band]
		assert.True(t, present)
		assert.Zero(t, count)
	}
	assert.Empty(t, stats.TierDistribution)
}

func TestStatistics_CountsAndRates(t *testing.T) {
	s := NewTicketStore()

	open1 := newTicket(t, s, domain.TierEnterprise, 1)
	open2 := newTicket(t, s, domain.TierEnterprise, 48)
	inProgress := newTicket(t, s, domain.TierBusiness, 10)
	resolved := newTicket(t, s, domain.TierFree, 10)

	s.Apply(open1.ID, func(ticket *domain.Ticket) {
		ticket.PriorityScore = scoreOf(0.96)
		ticket.PriorityBand = domain.BandP0
	})
	s.Apply(open2.ID, func(ticket *domain.Ticket) {
		ticket.PriorityScore = scoreOf(0.45)
		ticket.PriorityBand = domain.BandP2
		ticket.ManualOverride = true
		ticket.OverridePriority = scoreOf(0.9)
	})
	statusInProgress := domain.TicketStatusInProgress
	statusResolved := domain.TicketStatusResolved
	s.Update(inProgress.ID, domain.TicketUpdate{Status: &statusInProgress})
	s.Update(resolved.ID, domain.TicketUpdate{Status: &statusResolved})

	stats := s.Statistics()

	assert.Equal(t, 4, stats.TotalTickets)
	assert.Equal(t, 2, stats.OpenTickets)
	assert.Equal(t, 1, stats.InProgress)
	assert.Equal(t, 1, stats.Resolved)
	assert.Equal(t, 1, stats.PriorityDistribution[domain.BandP0])
	assert.Equal(t, 1, stats.PriorityDistribution[domain.BandP2])
	assert.Zero(t, stats.PriorityDistribution[domain.BandP1])
	assert.Zero(t, stats.PriorityDistribution[domain.BandP3])

	bandTotal := 0
	for _, count := range stats.PriorityDistribution {
		bandTotal += count
	}
	assert.Equal(t, stats.OpenTickets, bandTotal)

	// Override rate is computed against all tickets, not open only.
	assert.Equal(t, 1, stats.OverrideCount)
	assert.InDelta(t, 0.25, stats.OverrideRate, 1e-9)

	assert.Equal(t, 2, stats.TierDistribution[domain.TierEnterprise])
	_, present := stats.TierDistribution[domain.TierBusiness]
	assert.False(t, present)
}

func TestClear(t *testing.T) {
	s := NewTicketStore()
	newTicket(t, s, domain.TierFree, 10)
	newTicket(t, s, domain.TierFree, 10)

	s.Clear()

	assert.Zero(t, s.Len())
	assert.Empty(t, s.List(""))
}

func TestSampleTickets_Shape(t *testing.T) {
	samples := SampleTickets()
	require.Len(t, samples, 6)
	for _, sample := range samples {
		assert.NotEmpty(t, sample.Text)
		assert.NotEmpty(t, sample.CustomerTier)
		assert.GreaterOrEqual(t, sample.SLAHoursRemaining, 0.0)
	}
}
