package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/ticket-prioritizer/internal/api/dto"
	"github.com/spec-kit/ticket-prioritizer/internal/domain"
	"github.com/spec-kit/ticket-prioritizer/internal/service"
	"github.com/spec-kit/ticket-prioritizer/internal/store"
	apperrors "github.com/spec-kit/ticket-prioritizer/pkg/util"
)

// TicketsHandler manages ticket CRUD and priority endpoints.
type TicketsHandler struct {
	service *service.PrioritizationService
}

// NewTicketsHandler constructs handler.
func NewTicketsHandler(svc *service.PrioritizationService) *TicketsHandler {
	return &TicketsHandler{service: svc}
}

// CreateTicket POST /api/tickets.
func (h *TicketsHandler) CreateTicket(c *fiber.Ctx) error {
	var req dto.CreateTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if strings.TrimSpace(req.Text) == "" {
		return apperrors.NewValidationError("text required", nil)
	}
	if req.SLAHoursRemaining < 0 {
		return apperrors.NewValidationError("sla_hours_remaining must be non-negative", nil)
	}

	ticket, err := h.service.CreateTicket(c.UserContext(), store.TicketCreateInput{
		Text:              req.Text,
		CustomerTier:      req.CustomerTier,
		CustomerName:      req.CustomerName,
		CustomerEmail:     req.CustomerEmail,
		CustomerAccountID: req.CustomerAccountID,
		SLAHoursRemaining: req.SLAHoursRemaining,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": ticketResponse(ticket)})
}

// ListTickets GET /api/tickets.
func (h *TicketsHandler) ListTickets(c *fiber.Ctx) error {
	status := domain.TicketStatus(c.Query("status"))
	sortByPriority := parseBool(c.Query("sort_by_priority"), true)

	tickets, err := h.service.ListTickets(c.UserContext(), status, sortByPriority)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticketResponses(tickets)})
}

// Queue GET /api/tickets/queue.
func (h *TicketsHandler) Queue(c *fiber.Ctx) error {
	queue := h.service.Queue(c.UserContext())
	return c.JSON(fiber.Map{"data": ticketResponses(queue)})
}

// GetTicket GET /api/tickets/:id.
func (h *TicketsHandler) GetTicket(c *fiber.Ctx) error {
	ticket, err := h.service.GetTicket(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticketResponse(ticket)})
}

// UpdateTicket PATCH /api/tickets/:id.
func (h *TicketsHandler) UpdateTicket(c *fiber.Ctx) error {
	var req dto.UpdateTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Status != nil && !validStatus(*req.Status) {
		return apperrors.NewValidationError("status must be one of open, in_progress, resolved", nil)
	}
	if req.SLAHoursRemaining != nil && *req.SLAHoursRemaining < 0 {
		return apperrors.NewValidationError("sla_hours_remaining must be non-negative", nil)
	}

	ticket, err := h.service.UpdateTicket(c.UserContext(), c.Params("id"), domain.TicketUpdate{
		Text:              req.Text,
		CustomerTier:      req.CustomerTier,
		CustomerName:      req.CustomerName,
		CustomerEmail:     req.CustomerEmail,
		CustomerAccountID: req.CustomerAccountID,
		SLAHoursRemaining: req.SLAHoursRemaining,
		Status:            req.Status,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticketResponse(ticket)})
}

// DeleteTicket DELETE /api/tickets/:id.
func (h *TicketsHandler) DeleteTicket(c *fiber.Ctx) error {
	if err := h.service.DeleteTicket(c.UserContext(), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

// Reprioritize POST /api/tickets/:id/reprioritize.
func (h *TicketsHandler) Reprioritize(c *fiber.Ctx) error {
	ticket, err := h.service.Reprioritize(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticketResponse(ticket)})
}

// ApplyOverride POST /api/tickets/:id/override.
func (h *TicketsHandler) ApplyOverride(c *fiber.Ctx) error {
	var req dto.OverrideRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.OverridePriority == nil {
		return apperrors.NewValidationError("override_priority required", nil)
	}
	if *req.OverridePriority < 0 || *req.OverridePriority > 1 {
		return apperrors.NewValidationError("override_priority must be in [0,1]", nil)
	}
	if strings.TrimSpace(req.OverrideBy) == "" {
		return apperrors.NewValidationError("override_by required", nil)
	}

	ticket, err := h.service.ApplyOverride(c.UserContext(), c.Params("id"),
		*req.OverridePriority, req.OverrideReason, req.OverrideBy)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticketResponse(ticket)})
}

// RemoveOverride DELETE /api/tickets/:id/override.
func (h *TicketsHandler) RemoveOverride(c *fiber.Ctx) error {
	ticket, err := h.service.RemoveOverride(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticketResponse(ticket)})
}

// Explanation GET /api/tickets/:id/explanation.
func (h *TicketsHandler) Explanation(c *fiber.Ctx) error {
	explanation, err := h.service.Explanation(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(explanation)
}

// SubmitFeedback POST /api/tickets/:id/feedback.
func (h *TicketsHandler) SubmitFeedback(c *fiber.Ctx) error {
	var req dto.FeedbackRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if strings.TrimSpace(req.FeedbackBy) == "" {
		return apperrors.NewValidationError("feedback_by required", nil)
	}

	ticket, err := h.service.SubmitFeedback(c.UserContext(), c.Params("id"), req.Feedback, req.FeedbackBy)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticketResponse(ticket)})
}

func validStatus(status domain.TicketStatus) bool {
	switch status {
	case domain.TicketStatusOpen, domain.TicketStatusInProgress, domain.TicketStatusResolved:
		return true
	}
	return false
}

func parseBool(val string, def bool) bool {
	if val == "" {
		return def
	}
	parsed, err := strconv.ParseBool(val)
	if err != nil {
		return def
	}
	return parsed
}

func ticketResponses(tickets []domain.Ticket) []dto.TicketResponse {
	items := make([]dto.TicketResponse, 0, len(tickets))
	for i := range tickets {
		items = append(items, ticketResponse(&tickets[i]))
	}
	return items
}

func ticketResponse(ticket *domain.Ticket) dto.TicketResponse {
	resp := dto.TicketResponse{
		ID:                ticket.ID,
		Text:              ticket.Text,
		CustomerTier:      ticket.CustomerTier,
		CustomerName:      ticket.CustomerName,
		CustomerEmail:     ticket.CustomerEmail,
		CustomerAccountID: ticket.CustomerAccountID,
		SLAHoursRemaining: ticket.SLAHoursRemaining,
		Status:            ticket.Status,
		PriorityScore:     ticket.PriorityScore,
		PriorityBand:      ticket.PriorityBand,
		EffectivePriority: ticket.EffectivePriority(),
		ManualOverride:    ticket.ManualOverride,
		OverridePriority:  ticket.OverridePriority,
		OverrideReason:    ticket.OverrideReason,
		OverrideBy:        ticket.OverrideBy,
		OverrideAt:        ticket.OverrideAt,
		Feedback:          ticket.Feedback,
		FeedbackBy:        ticket.FeedbackBy,
		FeedbackAt:        ticket.FeedbackAt,
		CreatedAt:         ticket.CreatedAt,
		UpdatedAt:         ticket.UpdatedAt,
	}
	if ticket.Signals != nil {
		resp.Signals = &dto.SignalsResponse{
			Summary:            ticket.Signals.Summary,
			Urgency:            ticket.Signals.Urgency,
			Confidence:         ticket.Signals.Confidence,
			Sentiment:          ticket.Signals.Sentiment,
			SentimentIntensity: ticket.Signals.SentimentIntensity,
			GeneratedAt:        ticket.Signals.GeneratedAt,
			Error:              ticket.Signals.Error,
		}
	}
	if ticket.Breakdown != nil {
		resp.Breakdown = &dto.BreakdownResponse{
			EffectiveUrgency:    ticket.Breakdown.EffectiveUrgency,
			SLARisk:             ticket.Breakdown.SLARisk,
			CustomerTierWeight:  ticket.Breakdown.CustomerTierWeight,
			UrgencyContribution: ticket.Breakdown.UrgencyContribution,
			SLAContribution:     ticket.Breakdown.SLAContribution,
			TierContribution:    ticket.Breakdown.TierContribution,
			FinalScore:          ticket.Breakdown.FinalScore,
			CalculatedAt:        ticket.Breakdown.CalculatedAt,
		}
	}
	return resp
}
