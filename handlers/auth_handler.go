package handlers

import (
	"errors"

	"orbit.events/configs/configslog"
	"orbit.events/configs/configssession"
	"orbit.events/services"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"
	"go.uber.org/zap"
)

// AuthHandler serves signup, login, logout and the profile view.
type AuthHandler struct {
	userService services.IUserService
	sessions    *session.Store
}

// NewAuthHandler builds the handler with its default dependencies.
func NewAuthHandler() *AuthHandler {
	return &AuthHandler{
		userService: services.NewUserService(),
		sessions:    configssession.SetupSession(),
	}
}

type registerRequest struct {
	FirstName string `json:"firstName" form:"firstName"`
	LastName  string `json:"lastName" form:"lastName"`
	Email     string `json:"email" form:"email"`
	Password  string `json:"password" form:"password"`
}

type loginRequest struct {
	Email    string `json:"email" form:"email"`
	Password string `json:"password" form:"password"`
}

// Register (POST /auth/register) creates an account.
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req registerRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	user, err := h.userService.Register(c.UserContext(), services.RegisterInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Password:  req.Password,
	})
	if err != nil {
		switch {
		case errors.Is(err, services.ErrEmailTaken):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Email is already in use"})
		case errors.Is(err, services.ErrUserInvalidInput):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		}
		configslog.Log.Error("Register failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "registration failed"})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Registration successful! Please log in.",
		"id":      user.ID,
	})
}

// Login (POST /auth/login) verifies the credential and rotates the session.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	user, err := h.userService.Authenticate(c.UserContext(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid email or password"})
		}
		configslog.Log.Error("Login failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "login failed"})
	}

	sess, err := h.sessions.Get(c)
	if err != nil {
		configslog.Log.Error("Login: session start failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "session error"})
	}
	// Fresh session id on privilege change.
	if err := sess.Regenerate(); err != nil {
		configslog.Log.Error("Login: session regenerate failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "session error"})
	}
	sess.Set("user_id", user.ID)
	if err := sess.Save(); err != nil {
		configslog.Log.Error("Login: session save failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "session error"})
	}

	return c.JSON(fiber.Map{"message": "logged in", "id": user.ID})
}

// Logout (POST /auth/logout) destroys the session.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	sess, err := h.sessions.Get(c)
	if err == nil {
		if derr := sess.Destroy(); derr != nil {
			configslog.Log.Warn("Logout: session destroy failed", zap.Error(derr))
		}
	}
	return c.JSON(fiber.Map{"message": "logged out"})
}

// Profile (GET /auth/profile) returns the caller with owned events and
// RSVPs, both derived from foreign keys at read time.
func (h *AuthHandler) Profile(c *fiber.Ctx) error {
	userID, _ := c.Locals("userID").(uint)
	user, err := h.userService.GetProfile(c.UserContext(), userID)
	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "user not found"})
		}
		configslog.Log.Error("Profile failed", zap.Uint("userID", userID), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "profile could not be loaded"})
	}

	return c.JSON(fiber.Map{
		"id":        user.ID,
		"firstName": user.FirstName,
		"lastName":  user.LastName,
		"email":     user.Email,
		"events":    user.Events,
		"rsvps":     user.RSVPs,
	})
}
