package domain

import "time"

// TicketStatus enumerates lifecycle states for tickets.
type TicketStatus string

const (
	TicketStatusOpen       TicketStatus = "open"
	TicketStatusInProgress TicketStatus = "in_progress"
	TicketStatusResolved   TicketStatus = "resolved"
)

// CustomerTier enumerates paying tiers used for priority weighting.
type CustomerTier string

const (
	TierEnterprise CustomerTier = "enterprise"
	TierBusiness   CustomerTier = "business"
	TierStandard   CustomerTier = "standard"
	TierFree       CustomerTier = "free"
)

// PriorityBand is the coarse priority category derived from the final score.
type PriorityBand string

const (
	BandP0 PriorityBand = "P0"
	BandP1 PriorityBand = "P1"
	BandP2 PriorityBand = "P2"
	BandP3 PriorityBand = "P3"
)

// FeedbackValue is agent feedback on priority accuracy.
type FeedbackValue string

const (
	FeedbackTooHigh FeedbackValue = "too_high"
	FeedbackCorrect FeedbackValue = "correct"
	FeedbackTooLow  FeedbackValue = "too_low"
)

// ValidFeedback reports whether v is one of the accepted feedback values.
func ValidFeedback(v FeedbackValue) bool {
	switch v {
	case FeedbackTooHigh, FeedbackCorrect, FeedbackTooLow:
		return true
	}
	return false
}

// PriorityBreakdown is the engine's explainable output for one scoring pass.
type PriorityBreakdown struct {
	EffectiveUrgency    float64
	SLARisk             float64
	CustomerTierWeight  float64
	UrgencyContribution float64
	SLAContribution     float64
	TierContribution    float64
	FinalScore          float64
	CalculatedAt        time.Time
}

// Ticket is the aggregate for one support request.
type Ticket struct {
	ID                string
	Text              string
	CustomerTier      CustomerTier
	CustomerName      string
	CustomerEmail     string
	CustomerAccountID string
	// SLAHoursRemaining is caller-supplied and refreshed externally; the
	// engine never derives it from a stored deadline.
	SLAHoursRemaining float64
	Status            TicketStatus

	Signals       *Signals
	PriorityScore *float64
	PriorityBand  PriorityBand
	Breakdown     *PriorityBreakdown

	ManualOverride   bool
	OverridePriority *float64
	OverrideReason   string
	OverrideBy       string
	OverrideAt       *time.Time

	Feedback   FeedbackValue
	FeedbackBy string
	FeedbackAt *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// EffectivePriority is the value used for queue ordering: the override value
// when an override is active, otherwise the last computed score. It is zero
// only before the first scoring pass.
func (t *Ticket) EffectivePriority() float64 {
	if t.ManualOverride && t.OverridePriority != nil {
		return *t.OverridePriority
	}
	if t.PriorityScore != nil {
		return *t.PriorityScore
	}
	return 0
}

// Scored reports whether the ticket has been through at least one scoring pass.
func (t *Ticket) Scored() bool {
	return t.PriorityScore != nil
}

// TicketUpdate is a partial update. Nil fields are left untouched, so callers
// can distinguish "not supplied" from "set to zero value".
type TicketUpdate struct {
	Text              *string
	CustomerTier      *CustomerTier
	CustomerName      *string
	CustomerEmail     *string
	CustomerAccountID *string
	SLAHoursRemaining *float64
	Status            *TicketStatus
}
