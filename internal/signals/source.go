// Package signals produces AI-derived ticket signals. Sources never return an
// error past their boundary: on failure they return a Signals value with the
// failure indicator set, and priority computation proceeds on safe defaults.
package signals

import (
	"context"

	"github.com/spec-kit/ticket-prioritizer/internal/domain"
)

// Source generates signals for one ticket. Implementations must be safe for
// concurrent use and must honor ctx cancellation by failing fast.
type Source interface {
	Generate(ctx context.Context, text string, tier domain.CustomerTier, slaHoursRemaining float64) *domain.Signals
}
