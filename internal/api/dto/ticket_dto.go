package dto

import (
	"time"

	"github.com/spec-kit/ticket-prioritizer/internal/domain"
)

// CreateTicketRequest payload.
type CreateTicketRequest struct {
	Text              string              `json:"text"`
	CustomerTier      domain.CustomerTier `json:"customer_tier"`
	CustomerName      string              `json:"customer_name"`
	CustomerEmail     string              `json:"customer_email"`
	CustomerAccountID string              `json:"customer_account_id"`
	SLAHoursRemaining float64             `json:"sla_hours_remaining"`
}

// UpdateTicketRequest carries partial updates; absent fields stay untouched.
type UpdateTicketRequest struct {
	Text              *string              `json:"text"`
	CustomerTier      *domain.CustomerTier `json:"customer_tier"`
	CustomerName      *string              `json:"customer_name"`
	CustomerEmail     *string              `json:"customer_email"`
	CustomerAccountID *string              `json:"customer_account_id"`
	SLAHoursRemaining *float64             `json:"sla_hours_remaining"`
	Status            *domain.TicketStatus `json:"status"`
}

// OverrideRequest payload.
type OverrideRequest struct {
	OverridePriority *float64 `json:"override_priority"`
	OverrideReason   string   `json:"override_reason"`
	OverrideBy       string   `json:"override_by"`
}

// FeedbackRequest payload.
type FeedbackRequest struct {
	Feedback   domain.FeedbackValue `json:"feedback"`
	FeedbackBy string               `json:"feedback_by"`
}

// SignalsResponse mirrors the latest signal source output.
type SignalsResponse struct {
	Summary            string               `json:"summary,omitempty"`
	Urgency            domain.UrgencyLevel  `json:"urgency,omitempty"`
	Confidence         float64              `json:"confidence"`
	Sentiment          domain.SentimentType `json:"sentiment,omitempty"`
	SentimentIntensity float64              `json:"sentiment_intensity"`
	GeneratedAt        time.Time            `json:"generated_at"`
	Error              string               `json:"error,omitempty"`
}

// BreakdownResponse mirrors the latest scoring breakdown.
type BreakdownResponse struct {
	EffectiveUrgency    float64   `json:"effective_urgency"`
	SLARisk             float64   `json:"sla_risk"`
	CustomerTierWeight  float64   `json:"customer_tier_weight"`
	UrgencyContribution float64   `json:"urgency_contribution"`
	SLAContribution     float64   `json:"sla_contribution"`
	TierContribution    float64   `json:"tier_contribution"`
	FinalScore          float64   `json:"final_score"`
	CalculatedAt        time.Time `json:"calculated_at"`
}

// TicketResponse is the full agent-facing ticket view.
type TicketResponse struct {
	ID                string               `json:"ticket_id"`
	Text              string               `json:"text"`
	CustomerTier      domain.CustomerTier  `json:"customer_tier"`
	CustomerName      string               `json:"customer_name,omitempty"`
	CustomerEmail     string               `json:"customer_email,omitempty"`
	CustomerAccountID string               `json:"customer_account_id,omitempty"`
	SLAHoursRemaining float64              `json:"sla_hours_remaining"`
	Status            domain.TicketStatus  `json:"status"`
	Signals           *SignalsResponse     `json:"llm_signals,omitempty"`
	PriorityScore     *float64             `json:"priority_score,omitempty"`
	PriorityBand      domain.PriorityBand  `json:"priority_band,omitempty"`
	Breakdown         *BreakdownResponse   `json:"priority_breakdown,omitempty"`
	EffectivePriority float64              `json:"effective_priority"`
	ManualOverride    bool                 `json:"manual_override"`
	OverridePriority  *float64             `json:"override_priority,omitempty"`
	OverrideReason    string               `json:"override_reason,omitempty"`
	OverrideBy        string               `json:"override_by,omitempty"`
	OverrideAt        *time.Time           `json:"override_at,omitempty"`
	Feedback          domain.FeedbackValue `json:"feedback,omitempty"`
	FeedbackBy        string               `json:"feedback_by,omitempty"`
	FeedbackAt        *time.Time           `json:"feedback_at,omitempty"`
	CreatedAt         time.Time            `json:"created_at"`
	UpdatedAt         time.Time            `json:"updated_at"`
}

// StatisticsResponse aggregates ticket counts.
type StatisticsResponse struct {
	TotalTickets         int                         `json:"total_tickets"`
	OpenTickets          int                         `json:"open_tickets"`
	InProgress           int                         `json:"in_progress"`
	Resolved             int                         `json:"resolved"`
	PriorityDistribution map[domain.PriorityBand]int `json:"priority_distribution"`
	OverrideCount        int                         `json:"override_count"`
	OverrideRate         float64                     `json:"override_rate"`
	TierDistribution     map[domain.CustomerTier]int `json:"tier_distribution"`
}

// AIPerformanceResponse reports feedback-derived accuracy.
type AIPerformanceResponse struct {
	TotalTickets         int                          `json:"total_tickets"`
	TicketsWithFeedback  int                          `json:"tickets_with_feedback"`
	FeedbackDistribution map[domain.FeedbackValue]int `json:"feedback_distribution"`
	AccuracyRate         float64                      `json:"accuracy_rate"`
	NoData               bool                         `json:"no_data"`
	Message              string                       `json:"message,omitempty"`
}

// ResetResponse reports a demo-data reset.
type ResetResponse struct {
	Message     string `json:"message"`
	TicketCount int    `json:"ticket_count"`
}
