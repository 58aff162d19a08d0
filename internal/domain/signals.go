package domain

import "time"

// UrgencyLevel is the signal source's urgency classification.
type UrgencyLevel string

const (
	UrgencyLow      UrgencyLevel = "low"
	UrgencyMedium   UrgencyLevel = "medium"
	UrgencyHigh     UrgencyLevel = "high"
	UrgencyCritical UrgencyLevel = "critical"
)

// SentimentType is the signal source's sentiment classification.
type SentimentType string

const (
	SentimentPositive SentimentType = "positive"
	SentimentNeutral  SentimentType = "neutral"
	SentimentNegative SentimentType = "negative"
)

// Signals is one signal source output for one ticket at one point in time.
// It is replaced wholesale on every scoring pass, never merged. When Error is
// set the remaining fields carry safe defaults and must not be treated as a
// meaningful assessment.
type Signals struct {
	Summary            string
	Urgency            UrgencyLevel
	Confidence         float64
	Sentiment          SentimentType
	SentimentIntensity float64
	GeneratedAt        time.Time
	Error              string
}

// Failed reports whether signal generation failed for this pass.
func (s *Signals) Failed() bool {
	return s != nil && s.Error != ""
}

// FailedSignals builds the safe-default value returned when the signal source
// cannot produce an assessment.
func FailedSignals(reason string) *Signals {
	return &Signals{
		Confidence:         0,
		SentimentIntensity: 0,
		GeneratedAt:        time.Now().UTC(),
		Error:              reason,
	}
}
