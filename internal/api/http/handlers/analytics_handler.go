package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/ticket-prioritizer/internal/api/dto"
	"github.com/spec-kit/ticket-prioritizer/internal/service"
)

// AnalyticsHandler exposes aggregate statistics and AI-performance metrics.
type AnalyticsHandler struct {
	service *service.PrioritizationService
}

// NewAnalyticsHandler constructs handler.
func NewAnalyticsHandler(svc *service.PrioritizationService) *AnalyticsHandler {
	return &AnalyticsHandler{service: svc}
}

// Statistics GET /api/analytics/statistics.
func (h *AnalyticsHandler) Statistics(c *fiber.Ctx) error {
	stats := h.service.Statistics(c.UserContext())
	return c.JSON(fiber.Map{"data": dto.StatisticsResponse{
		TotalTickets:         stats.TotalTickets,
		OpenTickets:          stats.OpenTickets,
		InProgress:           stats.InProgress,
		Resolved:             stats.Resolved,
		PriorityDistribution: stats.PriorityDistribution,
		OverrideCount:        stats.OverrideCount,
		OverrideRate:         stats.OverrideRate,
		TierDistribution:     stats.TierDistribution,
	}})
}

// AIPerformance GET /api/analytics/ai-performance.
func (h *AnalyticsHandler) AIPerformance(c *fiber.Ctx) error {
	perf := h.service.AIPerformance(c.UserContext())
	resp := dto.AIPerformanceResponse{
		TotalTickets:         perf.TotalTickets,
		TicketsWithFeedback:  perf.TicketsWithFeedback,
		FeedbackDistribution: perf.FeedbackDistribution,
		AccuracyRate:         perf.AccuracyRate,
		NoData:               perf.NoData,
	}
	if perf.NoData {
		resp.Message = "No feedback data available yet"
	}
	return c.JSON(fiber.Map{"data": resp})
}
