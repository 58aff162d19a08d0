package signals

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"go.uber.org/zap"

	"github.com/spec-kit/ticket-prioritizer/internal/config"
	"github.com/spec-kit/ticket-prioritizer/internal/domain"
)

const analyzerSystemPrompt = "You are an expert support ticket analyzer. You analyze tickets and provide structured signals in JSON format only. Be factual and concise."

// OpenAISource generates signals with a chat completion call. Transport
// errors, timeouts, and malformed responses are absorbed into failed-safe
// signals and logged; they never propagate to the caller.
type OpenAISource struct {
	client      openai.Client
	model       string
	maxTokens   int
	temperature float64
	timeout     time.Duration
	logger      *zap.Logger
}

// NewOpenAISource constructs the source from configuration.
func NewOpenAISource(cfg config.SignalsConfig, logger *zap.Logger) *OpenAISource {
	return &OpenAISource{
		client:      openai.NewClient(option.WithAPIKey(cfg.OpenAIAPIKey)),
		model:       cfg.Model,
		maxTokens:   cfg.MaxTokens,
		temperature: cfg.Temperature,
		timeout:     cfg.Timeout(),
		logger:      logger,
	}
}

type signalPayload struct {
	Summary            string  `json:"summary"`
	Urgency            string  `json:"urgency"`
	Confidence         float64 `json:"confidence"`
	Sentiment          string  `json:"sentiment"`
	SentimentIntensity float64 `json:"sentiment_intensity"`
}

// Generate calls the model and maps its JSON reply onto Signals.
func (s *OpenAISource) Generate(ctx context.Context, text string, tier domain.CustomerTier, slaHoursRemaining float64) *domain.Signals {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	completion, err := s.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(s.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(analyzerSystemPrompt),
			openai.UserMessage(buildPrompt(text, tier, slaHoursRemaining)),
		},
		MaxTokens:   openai.Int(int64(s.maxTokens)),
		Temperature: openai.Float(s.temperature),
		ResponseFormat: openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONObject: &openai.ResponseFormatJSONObjectParam{},
		},
	})
	if err != nil {
		s.logger.Warn("signal generation failed", zap.Error(err))
		return domain.FailedSignals(err.Error())
	}
	if len(completion.Choices) == 0 {
		s.logger.Warn("signal generation returned no choices")
		return domain.FailedSignals("empty completion")
	}

	var payload signalPayload
	if err := json.Unmarshal([]byte(completion.Choices[0].Message.Content), &payload); err != nil {
		s.logger.Warn("signal payload unparseable", zap.Error(err))
		return domain.FailedSignals(err.Error())
	}

	return &domain.Signals{
		Summary:            payload.Summary,
		Urgency:            parseUrgency(payload.Urgency),
		Confidence:         clampUnit(payload.Confidence),
		Sentiment:          parseSentiment(payload.Sentiment),
		SentimentIntensity: clampUnit(payload.SentimentIntensity),
		GeneratedAt:        time.Now().UTC(),
	}
}

func buildPrompt(text string, tier domain.CustomerTier, slaHoursRemaining float64) string {
	return fmt.Sprintf(`Analyze this support ticket and return ONLY a JSON object with these exact fields:

Ticket Text: %q
Customer Tier: %s
SLA Hours Remaining: %g

Return JSON with:
{
  "summary": "One sentence factual summary of the issue (max 100 chars)",
  "urgency": "low|medium|high|critical (based on impact and time sensitivity)",
  "confidence": 0.0-1.0 (your confidence in the urgency assessment),
  "sentiment": "positive|neutral|negative (customer's emotional tone)",
  "sentiment_intensity": 0.0-1.0 (how strong the sentiment is)
}

Guidelines:
- urgency "critical": system down, blocking work, data loss, security issue
- urgency "high": significant impact, multiple users affected, workarounds difficult
- urgency "medium": moderate impact, single user, workarounds available
- urgency "low": questions, feature requests, minor issues, compliments

Return ONLY the JSON object, no other text.`, text, tier, slaHoursRemaining)
}

func parseUrgency(value string) domain.UrgencyLevel {
	switch domain.UrgencyLevel(strings.ToLower(value)) {
	case domain.UrgencyLow, domain.UrgencyMedium, domain.UrgencyHigh, domain.UrgencyCritical:
		return domain.UrgencyLevel(strings.ToLower(value))
	default:
		return domain.UrgencyMedium
	}
}

func parseSentiment(value string) domain.SentimentType {
	switch domain.SentimentType(strings.ToLower(value)) {
	case domain.SentimentPositive, domain.SentimentNeutral, domain.SentimentNegative:
		return domain.SentimentType(strings.ToLower(value))
	default:
		return domain.SentimentNeutral
	}
}

func clampUnit(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
