// Package middlewares holds the authorization gates. Every gate is a pure
// precondition check against the store: it resolves what it needs read-only
// and either calls through or short-circuits, before any mutating handler
// runs.
package middlewares

import (
	"errors"
	"strconv"

	"orbit.events/configs/configslog"
	"orbit.events/repositories"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// CurrentUserID extracts the authenticated user id from request locals, set
// by the session bootstrap middleware. Zero means no caller identity.
func CurrentUserID(c *fiber.Ctx) uint {
	if id, ok := c.Locals("userID").(uint); ok {
		return id
	}
	return 0
}

// AuthMiddleware only lets authenticated callers through.
func AuthMiddleware(c *fiber.Ctx) error {
	if CurrentUserID(c) == 0 {
		return respondError(c, fiber.StatusUnauthorized, "Unauthenticated", "Please log in to continue.")
	}
	return c.Next()
}

// GuestMiddleware only lets unauthenticated visitors through.
func GuestMiddleware(c *fiber.Ctx) error {
	if CurrentUserID(c) != 0 {
		return respondError(c, fiber.StatusConflict, "Already Authenticated", "You are already logged in.")
	}
	return c.Next()
}

// RequireHost gates host-only event actions (edit, update, delete).
func RequireHost() fiber.Handler {
	return requireHostGate(repositories.NewEventRepository(), true)
}

// RequireNotHost gates actions a host may not take on their own event
// (RSVP).
func RequireNotHost() fiber.Handler {
	return requireHostGate(repositories.NewEventRepository(), false)
}

// RequireHostWithRepo and RequireNotHostWithRepo allow an injected
// repository (tests).
func RequireHostWithRepo(repo repositories.IEventRepository) fiber.Handler {
	return requireHostGate(repo, true)
}

func RequireNotHostWithRepo(repo repositories.IEventRepository) fiber.Handler {
	return requireHostGate(repo, false)
}

// requireHostGate resolves :id and compares the event host to the caller.
// Resolution order is fixed: malformed id (400), missing event (404), then
// the ownership decision (401).
func requireHostGate(repo repositories.IEventRepository, mustBeHost bool) fiber.Handler {
	return func(c *fiber.Ctx) error {
		eventID, err := ParseEventID(c)
		if err != nil {
			return respondError(c, fiber.StatusBadRequest, "Invalid Event ID", "The event ID provided is invalid.")
		}

		event, err := repo.FindByID(c.UserContext(), eventID)
		if err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return respondError(c, fiber.StatusNotFound, "Event Not Found", "The event you are looking for does not exist.")
			}
			configslog.Log.Error("host gate: event lookup failed", zap.Uint("eventID", eventID), zap.Error(err))
			return respondError(c, fiber.StatusInternalServerError, "Internal Server Error", "An internal server error occurred. Please try again later.")
		}

		isHost := event.HostID == CurrentUserID(c)
		if mustBeHost && !isHost {
			return respondError(c, fiber.StatusUnauthorized, "Unauthorized", "You are not authorized to access this event.")
		}
		if !mustBeHost && isHost {
			return respondError(c, fiber.StatusUnauthorized, "Unauthorized", "You cannot RSVP to your own event.")
		}
		return c.Next()
	}
}

// ParseEventID reads the :id route parameter as a well-formed identifier.
func ParseEventID(c *fiber.Ctx) (uint, error) {
	raw := c.Params("id")
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		return 0, errors.New("malformed event id")
	}
	return uint(id), nil
}

// respondError answers JSON for API clients and the shared error view for
// browsers, the shape the rest of the handlers use too.
func respondError(c *fiber.Ctx, code int, title, message string) error {
	if c.Accepts("text/html", "application/json") == "application/json" {
		return c.Status(code).JSON(fiber.Map{"error": message})
	}
	return c.Status(code).Render("errors/error", fiber.Map{
		"ErrorCode":    code,
		"ErrorTitle":   title,
		"ErrorMessage": message,
	})
}
