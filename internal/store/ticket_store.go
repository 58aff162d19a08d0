package store

import (
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/ticket-prioritizer/internal/domain"
)

// TicketCreateInput describes ticket creation payload.
type TicketCreateInput struct {
	Text              string
	CustomerTier      domain.CustomerTier
	CustomerName      string
	CustomerEmail     string
	CustomerAccountID string
	SLAHoursRemaining float64
}

// Statistics aggregates ticket counts for the analytics endpoints.
type Statistics struct {
	TotalTickets         int
	OpenTickets          int
	InProgress           int
	Resolved             int
	PriorityDistribution map[domain.PriorityBand]int
	OverrideCount        int
	OverrideRate         float64
	TierDistribution     map[domain.CustomerTier]int
}

// TicketStore owns the canonical set of tickets. A single mutex guards the
// whole mapping so every operation, including read-modify-write via Apply,
// appears atomic to callers. Tickets are handed out as copies; the only way
// to mutate a stored record is through Update or Apply.
type TicketStore struct {
	mu      sync.RWMutex
	tickets map[string]*domain.Ticket
	// order preserves insertion order for listing and stable tie-breaks.
	order []string
}

// NewTicketStore constructs an empty store.
func NewTicketStore() *TicketStore {
	return &TicketStore{
		tickets: make(map[string]*domain.Ticket),
	}
}

// Create allocates an id, initializes lifecycle state, and stores the ticket.
// Signal generation and scoring are the caller's orchestration, not the
// store's.
func (s *TicketStore) Create(input TicketCreateInput) *domain.Ticket {
	now := time.Now().UTC()
	ticket := &domain.Ticket{
		ID:                generateTicketID(),
		Text:              strings.TrimSpace(input.Text),
		CustomerTier:      input.CustomerTier,
		CustomerName:      input.CustomerName,
		CustomerEmail:     input.CustomerEmail,
		CustomerAccountID: input.CustomerAccountID,
		SLAHoursRemaining: input.SLAHoursRemaining,
		Status:            domain.TicketStatusOpen,
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.tickets[ticket.ID] = ticket
	s.order = append(s.order, ticket.ID)
	return copyTicket(ticket)
}

// Get returns a copy of the ticket, or false when the id is unknown.
func (s *TicketStore) Get(id string) (*domain.Ticket, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ticket, ok := s.tickets[id]
	if !ok {
		return nil, false
	}
	return copyTicket(ticket), true
}

// List returns tickets in insertion order, optionally filtered by status.
func (s *TicketStore) List(status domain.TicketStatus) []domain.Ticket {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]domain.Ticket, 0, len(s.order))
	for _, id := range s.order {
		ticket := s.tickets[id]
		if status != "" && ticket.Status != status {
			continue
		}
		result = append(result, *copyTicket(ticket))
	}
	return result
}

// Update applies the supplied partial fields and stamps the update timestamp.
// It returns false when the id is unknown; the stored record is untouched in
// that case.
func (s *TicketStore) Update(id string, update domain.TicketUpdate) (*domain.Ticket, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ticket, ok := s.tickets[id]
	if !ok {
		return nil, false
	}
	if update.Text != nil {
		ticket.Text = *update.Text
	}
	if update.CustomerTier != nil {
		ticket.CustomerTier = *update.CustomerTier
	}
	if update.CustomerName != nil {
		ticket.CustomerName = *update.CustomerName
	}
	if update.CustomerEmail != nil {
		ticket.CustomerEmail = *update.CustomerEmail
	}
	if update.CustomerAccountID != nil {
		ticket.CustomerAccountID = *update.CustomerAccountID
	}
	if update.SLAHoursRemaining != nil {
		ticket.SLAHoursRemaining = *update.SLAHoursRemaining
	}
	if update.Status != nil {
		ticket.Status = *update.Status
	}
	ticket.UpdatedAt = time.Now().UTC()
	return copyTicket(ticket), true
}

// Apply runs fn against the stored record under the write lock, so a fetch,
// recompute, and write-back cannot interleave with a concurrent update to the
// same ticket. fn must not block.
func (s *TicketStore) Apply(id string, fn func(*domain.Ticket)) (*domain.Ticket, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ticket, ok := s.tickets[id]
	if !ok {
		return nil, false
	}
	fn(ticket)
	return copyTicket(ticket), true
}

// ApplyAll runs fn against every stored record under the write lock, in
// insertion order.
func (s *TicketStore) ApplyAll(fn func(*domain.Ticket)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, id := range s.order {
		fn(s.tickets[id])
	}
}

// Delete removes the ticket and reports whether it existed.
func (s *TicketStore) Delete(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.tickets[id]; !ok {
		return false
	}
	delete(s.tickets, id)
	for i, existing := range s.order {
		if existing == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return true
}

// SortedQueue returns open tickets sorted by effective priority descending.
// Equal scores keep insertion order, so repeated calls with unchanged inputs
// yield identical ordering.
func (s *TicketStore) SortedQueue() []domain.Ticket {
	queue := s.List(domain.TicketStatusOpen)
	sort.SliceStable(queue, func(i, j int) bool {
		return queue[i].EffectivePriority() > queue[j].EffectivePriority()
	})
	return queue
}

// Statistics computes aggregate counts in one pass under the read lock. The
// override rate is computed against all tickets, not open only.
func (s *TicketStore) Statistics() Statistics {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := Statistics{
		PriorityDistribution: map[domain.PriorityBand]int{
			domain.BandP0: 0,
			domain.BandP1: 0,
			domain.BandP2: 0,
			domain.BandP3: 0,
		},
		TierDistribution: make(map[domain.CustomerTier]int),
	}

	for _, ticket := range s.tickets {
		stats.TotalTickets++
		switch ticket.Status {
		case domain.TicketStatusOpen:
			stats.OpenTickets++
			if ticket.Scored() {
				stats.PriorityDistribution[ticket.PriorityBand]++
			}
			stats.TierDistribution[ticket.CustomerTier]++
		case domain.TicketStatusInProgress:
			stats.InProgress++
		case domain.TicketStatusResolved:
			stats.Resolved++
		}
		if ticket.ManualOverride {
			stats.OverrideCount++
		}
	}
	if stats.TotalTickets > 0 {
		stats.OverrideRate = float64(stats.OverrideCount) / float64(stats.TotalTickets)
	}
	return stats
}

// Clear removes all tickets.
func (s *TicketStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tickets = make(map[string]*domain.Ticket)
	s.order = nil
}

// Len reports the ticket count.
func (s *TicketStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.tickets)
}

func generateTicketID() string {
	return "TKT-" + strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
}

// copyTicket returns a shallow copy. Signals and Breakdown are replaced
// wholesale on recompute and never mutated in place, so sharing the pointed-to
// values is safe.
func copyTicket(t *domain.Ticket) *domain.Ticket {
	copied := *t
	return &copied
}
