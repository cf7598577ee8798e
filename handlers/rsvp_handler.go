package handlers

import (
	"errors"

	"orbit.events/configs/configslog"
	"orbit.events/middlewares"
	"orbit.events/models"
	"orbit.events/services"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// RSVPHandler serves attendance submissions.
type RSVPHandler struct {
	rsvpService services.IRSVPService
}

// NewRSVPHandler builds the handler with its default dependencies.
func NewRSVPHandler() *RSVPHandler {
	return &RSVPHandler{rsvpService: services.NewRSVPService()}
}

// NewRSVPHandlerWithService allows an injected service (tests).
func NewRSVPHandlerWithService(svc services.IRSVPService) *RSVPHandler {
	return &RSVPHandler{rsvpService: svc}
}

type rsvpRequest struct {
	Status string `json:"status" form:"status"`
}

// Submit (POST /events/:id/rsvp) upserts the caller's attendance intent.
// Gated by AuthMiddleware and RequireNotHost upstream; the service re-checks
// both anyway.
func (h *RSVPHandler) Submit(c *fiber.Ctx) error {
	eventID, err := middlewares.ParseEventID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid event ID"})
	}
	var req rsvpRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	rsvp, yesCount, err := h.rsvpService.SubmitRSVP(
		c.UserContext(), middlewares.CurrentUserID(c), eventID, models.RSVPStatus(req.Status))
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidRSVPStatus):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid RSVP status"})
		case errors.Is(err, services.ErrEventNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Event not found"})
		case errors.Is(err, services.ErrOwnEventRSVP):
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "You cannot RSVP to your own event."})
		}
		configslog.Log.Error("Submit RSVP failed", zap.Uint("eventID", eventID), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Database error"})
	}

	return c.JSON(fiber.Map{"rsvp": rsvp, "yesRSVPCount": yesCount})
}
