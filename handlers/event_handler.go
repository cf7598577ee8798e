package handlers

import (
	"errors"
	"time"

	"orbit.events/configs/configslog"
	"orbit.events/middlewares"
	"orbit.events/models"
	"orbit.events/services"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// EventHandler serves the event lifecycle endpoints.
type EventHandler struct {
	eventService services.IEventService
}

// NewEventHandler builds the handler with its default dependencies.
func NewEventHandler() *EventHandler {
	return &EventHandler{eventService: services.NewEventService()}
}

// NewEventHandlerWithService allows an injected service (tests).
func NewEventHandlerWithService(svc services.IEventService) *EventHandler {
	return &EventHandler{eventService: svc}
}

// eventRequest mirrors the event form. Dates arrive as strings in either
// RFC3339 or the HTML datetime-local shape.
type eventRequest struct {
	Title     string `json:"title" form:"eventTitle"`
	Category  string `json:"category" form:"eventCategory"`
	StartDate string `json:"startDate" form:"startDate"`
	EndDate   string `json:"endDate" form:"endDate"`
	Location  string `json:"location" form:"eventLocation"`
	Details   string `json:"details" form:"eventDescription"`
	Image     string `json:"image" form:"eventImage"`
	NoImage   bool   `json:"noImage" form:"noImage"`
}

func (r eventRequest) toInput() services.EventInput {
	return services.EventInput{
		Title:          r.Title,
		Category:       models.EventCategory(r.Category),
		StartsAt:       parseEventTime(r.StartDate),
		EndsAt:         parseEventTime(r.EndDate),
		Location:       r.Location,
		Details:        r.Details,
		ImageRef:       r.Image,
		UsePlaceholder: r.NoImage,
	}
}

// List (GET /events) returns all events with the distinct category list the
// grouping UI wants.
func (h *EventHandler) List(c *fiber.Ctx) error {
	events, err := h.eventService.GetAllEvents(c.UserContext())
	if err != nil {
		configslog.Log.Error("List events failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Database error"})
	}

	seen := map[models.EventCategory]bool{}
	categories := []models.EventCategory{}
	for _, e := range events {
		if !seen[e.Category] {
			seen[e.Category] = true
			categories = append(categories, e.Category)
		}
	}
	return c.JSON(fiber.Map{"events": events, "categories": categories})
}

// Get (GET /events/:id) returns one event plus the current YES headcount.
func (h *EventHandler) Get(c *fiber.Ctx) error {
	eventID, err := middlewares.ParseEventID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid event ID"})
	}

	event, yesCount, err := h.eventService.GetEventByID(c.UserContext(), eventID)
	if err != nil {
		if errors.Is(err, services.ErrEventNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Event not found"})
		}
		configslog.Log.Error("Get event failed", zap.Uint("eventID", eventID), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Database error"})
	}
	return c.JSON(fiber.Map{"event": event, "yesRSVPCount": yesCount})
}

// Create (POST /events) makes the caller host of a new event.
func (h *EventHandler) Create(c *fiber.Ctx) error {
	var req eventRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	event, err := h.eventService.CreateEvent(c.UserContext(), middlewares.CurrentUserID(c), req.toInput())
	if err != nil {
		return eventErrorResponse(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"event": event})
}

// Update (PUT /events/:id) replaces the mutable fields. Gated by
// RequireHost upstream.
func (h *EventHandler) Update(c *fiber.Ctx) error {
	eventID, err := middlewares.ParseEventID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid event ID"})
	}
	var req eventRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	event, err := h.eventService.UpdateEvent(c.UserContext(), middlewares.CurrentUserID(c), eventID, req.toInput())
	if err != nil {
		return eventErrorResponse(c, err)
	}
	return c.JSON(fiber.Map{"event": event})
}

// Delete (DELETE /events/:id) cascades RSVPs then removes the event. Gated
// by RequireHost upstream.
func (h *EventHandler) Delete(c *fiber.Ctx) error {
	eventID, err := middlewares.ParseEventID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid event ID"})
	}

	if err := h.eventService.DeleteEvent(c.UserContext(), middlewares.CurrentUserID(c), eventID); err != nil {
		return eventErrorResponse(c, err)
	}
	return c.JSON(fiber.Map{"message": "Event Deleted Successfully!"})
}

func eventErrorResponse(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, services.ErrEventNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, services.ErrEventForbidden):
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, services.ErrEventInvalidInput), errors.Is(err, services.ErrMissingImage):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	configslog.Log.Error("event operation failed", zap.Error(err))
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Database error"})
}

// parseEventTime accepts RFC3339 first, then the datetime-local form the
// browser submits. Zero time on failure; validation rejects it downstream.
func parseEventTime(raw string) time.Time {
	if raw == "" {
		return time.Time{}
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t
	}
	if t, err := time.ParseInLocation("2006-01-02T15:04", raw, time.Local); err == nil {
		return t
	}
	return time.Time{}
}
