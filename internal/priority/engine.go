package priority

import (
	"math"
	"sort"
	"strings"
	"time"

	"github.com/spec-kit/ticket-prioritizer/internal/config"
	"github.com/spec-kit/ticket-prioritizer/internal/domain"
)

// slaCriticalHours is the step threshold below which SLA risk saturates.
const slaCriticalHours = 4.0

// defaultEffectiveUrgency is used whenever signals are absent, failed, or
// carry no urgency classification.
const defaultEffectiveUrgency = 0.5

// Engine is the deterministic priority scoring engine. It combines signal
// source output with business rules and keeps no state between calls; a single
// instance is safe for concurrent use.
type Engine struct {
	weightUrgency float64
	weightSLA     float64
	weightTier    float64

	urgencyScores map[domain.UrgencyLevel]float64
	tierWeights   map[domain.CustomerTier]float64
}

// NewEngine constructs the engine with weights from configuration.
func NewEngine(cfg config.ScoringConfig) *Engine {
	return &Engine{
		weightUrgency: cfg.WeightUrgency,
		weightSLA:     cfg.WeightSLA,
		weightTier:    cfg.WeightCustomerTier,
		urgencyScores: map[domain.UrgencyLevel]float64{
			domain.UrgencyLow:      0.2,
			domain.UrgencyMedium:   0.5,
			domain.UrgencyHigh:     0.8,
			domain.UrgencyCritical: 1.0,
		},
		tierWeights: map[domain.CustomerTier]float64{
			domain.TierEnterprise: 1.0,
			domain.TierBusiness:   0.6,
			domain.TierStandard:   0.4,
			domain.TierFree:       0.2,
		},
	}
}

// CalculatePriority computes the weighted score, band, and breakdown for a
// ticket and writes them onto it. It is total: any combination of absent or
// failed signals still yields a result.
func (e *Engine) CalculatePriority(ticket *domain.Ticket) {
	effectiveUrgency := e.effectiveUrgency(ticket.Signals)
	slaRisk := e.slaRisk(ticket.SLAHoursRemaining)
	tierWeight := e.customerTierWeight(ticket.CustomerTier)

	urgencyContribution := effectiveUrgency * e.weightUrgency
	slaContribution := slaRisk * e.weightSLA
	tierContribution := tierWeight * e.weightTier

	// Weights come from configuration and are not guaranteed to sum to 1.
	finalScore := clamp01(urgencyContribution + slaContribution + tierContribution)

	now := time.Now().UTC()
	ticket.Breakdown = &domain.PriorityBreakdown{
		EffectiveUrgency:    effectiveUrgency,
		SLARisk:             slaRisk,
		CustomerTierWeight:  tierWeight,
		UrgencyContribution: urgencyContribution,
		SLAContribution:     slaContribution,
		TierContribution:    tierContribution,
		FinalScore:          finalScore,
		CalculatedAt:        now,
	}
	ticket.PriorityScore = &finalScore
	ticket.PriorityBand = BandForScore(finalScore)
	ticket.UpdatedAt = now
}

// ApplyManualOverride marks the ticket as manually prioritized. The computed
// score and breakdown are left untouched for later comparison. The value's
// range is a boundary concern and is not validated here.
func (e *Engine) ApplyManualOverride(ticket *domain.Ticket, value float64, reason, by string) {
	now := time.Now().UTC()
	ticket.ManualOverride = true
	ticket.OverridePriority = &value
	ticket.OverrideReason = reason
	ticket.OverrideBy = by
	ticket.OverrideAt = &now
	ticket.UpdatedAt = now
}

// RemoveOverride clears all override fields. The caller decides whether to
// recompute; the engine does not do it implicitly.
func (e *Engine) RemoveOverride(ticket *domain.Ticket) {
	ticket.ManualOverride = false
	ticket.OverridePriority = nil
	ticket.OverrideReason = ""
	ticket.OverrideBy = ""
	ticket.OverrideAt = nil
	ticket.UpdatedAt = time.Now().UTC()
}

// RecalculateQueue rescores every ticket without an active override, leaves
// overridden tickets untouched, and returns all tickets sorted by effective
// priority descending. The sort is stable so repeated calls with unchanged
// inputs yield identical ordering.
func (e *Engine) RecalculateQueue(tickets []domain.Ticket) []domain.Ticket {
	for i := range tickets {
		if tickets[i].ManualOverride {
			continue
		}
		e.CalculatePriority(&tickets[i])
	}
	sort.SliceStable(tickets, func(i, j int) bool {
		return tickets[i].EffectivePriority() > tickets[j].EffectivePriority()
	})
	return tickets
}

func (e *Engine) effectiveUrgency(signals *domain.Signals) float64 {
	if signals == nil || signals.Failed() || signals.Urgency == "" {
		return defaultEffectiveUrgency
	}
	score, ok := e.urgencyScores[signals.Urgency]
	if !ok {
		score = defaultEffectiveUrgency
	}
	confidence := signals.Confidence
	if confidence == 0 {
		confidence = 0.5
	}
	return round3(score * confidence)
}

// slaRisk is a hard business rule: a step function the signal source can
// never influence, so SLA breaches are not deprioritized by a misjudging
// model.
func (e *Engine) slaRisk(hoursRemaining float64) float64 {
	if hoursRemaining < slaCriticalHours {
		return 1.0
	}
	return 0.3
}

func (e *Engine) customerTierWeight(tier domain.CustomerTier) float64 {
	normalized := domain.CustomerTier(strings.ToLower(string(tier)))
	if weight, ok := e.tierWeights[normalized]; ok {
		return weight
	}
	return e.tierWeights[domain.TierFree]
}

// BandForScore maps a final score onto a priority band. Thresholds are
// inclusive at the lower bound of each band.
func BandForScore(score float64) domain.PriorityBand {
	switch {
	case score >= 0.8:
		return domain.BandP0
	case score >= 0.6:
		return domain.BandP1
	case score >= 0.4:
		return domain.BandP2
	default:
		return domain.BandP3
	}
}

func clamp01(v float64) float64 {
	return math.Max(0.0, math.Min(1.0, v))
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}
