package signals

import (
	"context"
	"math"
	"strings"
	"time"

	"github.com/spec-kit/ticket-prioritizer/internal/domain"
)

var criticalKeywords = []string{
	"down", "outage", "cannot access", "blocking", "production",
	"emergency", "urgent", "critical", "all users", "system down",
	"data loss", "security breach",
}

var highKeywords = []string{
	"slow", "error", "broken", "not working", "bug", "issue",
	"affecting multiple", "team blocked",
}

var lowKeywords = []string{
	"question", "how to", "feature request", "love", "great",
	"thank you", "feedback", "suggestion",
}

var positiveKeywords = []string{
	"thank", "great", "love", "excellent", "perfect",
	"wonderful", "appreciate", "happy",
}

var negativeKeywords = []string{
	"frustrated", "angry", "terrible", "awful", "worst",
	"unacceptable", "disappointed", "horrible", "cannot",
}

// KeywordSource is the default signal source: a deterministic keyword
// heuristic that simulates what a language model would return. It keeps the
// service fully functional without any external dependency.
type KeywordSource struct{}

// NewKeywordSource constructs the source.
func NewKeywordSource() *KeywordSource {
	return &KeywordSource{}
}

// Generate derives signals from keyword analysis of the ticket text.
func (k *KeywordSource) Generate(ctx context.Context, text string, tier domain.CustomerTier, slaHoursRemaining float64) *domain.Signals {
	if err := ctx.Err(); err != nil {
		return domain.FailedSignals(err.Error())
	}

	lowered := strings.ToLower(text)
	urgency := determineUrgency(lowered, slaHoursRemaining)
	sentiment, intensity := determineSentiment(lowered)

	return &domain.Signals{
		Summary:            summarize(text),
		Urgency:            urgency,
		Confidence:         calculateConfidence(lowered, urgency),
		Sentiment:          sentiment,
		SentimentIntensity: intensity,
		GeneratedAt:        time.Now().UTC(),
	}
}

func determineUrgency(text string, slaHoursRemaining float64) domain.UrgencyLevel {
	switch {
	case containsAny(text, criticalKeywords):
		return domain.UrgencyCritical
	case slaHoursRemaining < 2:
		return domain.UrgencyHigh
	case containsAny(text, highKeywords):
		return domain.UrgencyHigh
	case containsAny(text, lowKeywords):
		return domain.UrgencyLow
	default:
		return domain.UrgencyMedium
	}
}

func determineSentiment(text string) (domain.SentimentType, float64) {
	positive := countMatches(text, positiveKeywords)
	negative := countMatches(text, negativeKeywords)

	switch {
	case positive > negative:
		return domain.SentimentPositive, math.Min(0.5+float64(positive)*0.15, 1.0)
	case negative > positive:
		return domain.SentimentNegative, math.Min(0.5+float64(negative)*0.15, 1.0)
	default:
		return domain.SentimentNeutral, 0.5
	}
}

// summarize takes the first sentence, truncated at 100 characters. The cut is
// made on rune boundaries so multibyte text is never split mid-character.
func summarize(text string) string {
	first := text
	if idx := strings.Index(text, "."); idx >= 0 {
		first = text[:idx]
	}
	if runes := []rune(first); len(runes) > 100 {
		first = string(runes[:97]) + "..."
	}
	return strings.TrimSpace(first)
}

// calculateConfidence scales with how much detail the ticket carries, with a
// bump for unambiguous critical indicators.
func calculateConfidence(text string, urgency domain.UrgencyLevel) float64 {
	words := len(strings.Fields(text))

	var base float64
	switch {
	case words > 50:
		base = 0.8
	case words > 20:
		base = 0.7
	default:
		base = 0.6
	}

	if urgency == domain.UrgencyCritical && containsAny(text, []string{"down", "outage", "critical"}) {
		base = math.Min(base+0.15, 0.95)
	}
	return math.Round(base*100) / 100
}

func containsAny(text string, keywords []string) bool {
	for _, keyword := range keywords {
		if strings.Contains(text, keyword) {
			return true
		}
	}
	return false
}

func countMatches(text string, keywords []string) int {
	count := 0
	for _, keyword := range keywords {
		if strings.Contains(text, keyword) {
			count++
		}
	}
	return count
}
