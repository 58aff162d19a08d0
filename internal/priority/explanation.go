package priority

import (
	"fmt"
	"strings"
	"time"

	"github.com/spec-kit/ticket-prioritizer/internal/domain"
)

// Explanation kinds.
const (
	ExplanationManualOverride = "manual_override"
	ExplanationNotCalculated  = "not_calculated"
	ExplanationCalculated     = "calculated"
)

// ExplanationComponent describes one scoring component for UI display.
type ExplanationComponent struct {
	Name         string  `json:"name"`
	Value        float64 `json:"value"`
	Weight       float64 `json:"weight"`
	Contribution float64 `json:"contribution"`
	Details      string  `json:"details"`
}

// SentimentNote carries sentiment for display. Sentiment never contributes to
// the score.
type SentimentNote struct {
	Type      domain.SentimentType `json:"type"`
	Intensity float64              `json:"intensity"`
	Note      string               `json:"note"`
}

// Explanation is the human-readable account of how a ticket's priority was
// determined.
type Explanation struct {
	Type          string                 `json:"type"`
	Priority      *float64               `json:"priority,omitempty"`
	Reason        string                 `json:"reason,omitempty"`
	OverriddenBy  string                 `json:"overridden_by,omitempty"`
	OverriddenAt  *time.Time             `json:"overridden_at,omitempty"`
	OriginalScore *float64               `json:"original_score,omitempty"`
	FinalScore    *float64               `json:"final_score,omitempty"`
	PriorityBand  domain.PriorityBand    `json:"priority_band,omitempty"`
	Components    []ExplanationComponent `json:"components,omitempty"`
	Sentiment     *SentimentNote         `json:"sentiment,omitempty"`
	Message       string                 `json:"message,omitempty"`
}

// Explain reports how the ticket's current priority came to be: an active
// override, a computed breakdown, or nothing yet.
func (e *Engine) Explain(ticket *domain.Ticket) Explanation {
	if ticket.ManualOverride {
		var value float64
		if ticket.OverridePriority != nil {
			value = *ticket.OverridePriority
		}
		return Explanation{
			Type:          ExplanationManualOverride,
			Priority:      ticket.OverridePriority,
			Reason:        ticket.OverrideReason,
			OverriddenBy:  ticket.OverrideBy,
			OverriddenAt:  ticket.OverrideAt,
			OriginalScore: ticket.PriorityScore,
			Message:       fmt.Sprintf("Priority manually set to %.2f by %s", value, ticket.OverrideBy),
		}
	}

	if ticket.Breakdown == nil {
		return Explanation{
			Type:    ExplanationNotCalculated,
			Message: "Priority not yet calculated",
		}
	}

	breakdown := ticket.Breakdown
	explanation := Explanation{
		Type:         ExplanationCalculated,
		FinalScore:   &breakdown.FinalScore,
		PriorityBand: ticket.PriorityBand,
	}

	urgencyDetails := "AI analysis unavailable - using default medium urgency"
	if ticket.Signals != nil && !ticket.Signals.Failed() && ticket.Signals.Urgency != "" {
		urgencyDetails = fmt.Sprintf("AI assessed as '%s' with %.0f%% confidence",
			ticket.Signals.Urgency, ticket.Signals.Confidence*100)
	}
	explanation.Components = append(explanation.Components, ExplanationComponent{
		Name:         "AI Urgency Analysis",
		Value:        breakdown.EffectiveUrgency,
		Weight:       e.weightUrgency,
		Contribution: breakdown.UrgencyContribution,
		Details:      urgencyDetails,
	})

	slaStatus := "OK"
	if ticket.SLAHoursRemaining < slaCriticalHours {
		slaStatus = "CRITICAL"
	}
	explanation.Components = append(explanation.Components, ExplanationComponent{
		Name:         "SLA Risk",
		Value:        breakdown.SLARisk,
		Weight:       e.weightSLA,
		Contribution: breakdown.SLAContribution,
		Details:      fmt.Sprintf("%.1f hours remaining - %s", ticket.SLAHoursRemaining, slaStatus),
	})

	explanation.Components = append(explanation.Components, ExplanationComponent{
		Name:         "Customer Tier",
		Value:        breakdown.CustomerTierWeight,
		Weight:       e.weightTier,
		Contribution: breakdown.TierContribution,
		Details:      fmt.Sprintf("%s tier customer", titleCase(string(ticket.CustomerTier))),
	})

	if ticket.Signals != nil && ticket.Signals.Sentiment != "" {
		explanation.Sentiment = &SentimentNote{
			Type:      ticket.Signals.Sentiment,
			Intensity: ticket.Signals.SentimentIntensity,
			Note:      "Sentiment tracked for quality metrics, not used in priority calculation",
		}
	}

	return explanation
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
