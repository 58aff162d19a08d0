package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/ticket-prioritizer/internal/api/dto"
	"github.com/spec-kit/ticket-prioritizer/internal/service"
)

// SystemHandler manages demo-data lifecycle endpoints.
type SystemHandler struct {
	service *service.PrioritizationService
}

// NewSystemHandler constructs handler.
func NewSystemHandler(svc *service.PrioritizationService) *SystemHandler {
	return &SystemHandler{service: svc}
}

// Reset POST /api/system/reset.
func (h *SystemHandler) Reset(c *fiber.Ctx) error {
	count, err := h.service.Reset(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.ResetResponse{
		Message:     "System reset to sample data",
		TicketCount: count,
	}})
}
