package handlers

import (
	"errors"

	"orbit.events/configs/configsapp"
	"orbit.events/configs/configslog"
	"orbit.events/services"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// CronHandler exposes the scheduled reset trigger to an external scheduler.
type CronHandler struct {
	cfg   configsapp.Config
	reset services.IResetService
}

// NewCronHandler builds the handler from the app config.
func NewCronHandler(cfg configsapp.Config) *CronHandler {
	return &CronHandler{cfg: cfg, reset: services.NewResetService(cfg)}
}

// NewCronHandlerWithService allows an injected reset service (tests).
func NewCronHandlerWithService(cfg configsapp.Config, reset services.IResetService) *CronHandler {
	return &CronHandler{cfg: cfg, reset: reset}
}

// Reset (GET|POST /api/cron/reset) runs one reseed. Callers authenticate
// with the shared secret (header or query) unless the trusted scheduler
// header is present. The JSON body always carries the ok flag, so a
// scheduler can detect failure without parsing prose.
func (h *CronHandler) Reset(c *fiber.Ctx) error {
	if !h.authorized(c) {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"ok": false, "error": "Unauthorized"})
	}

	mode := h.cfg.ResetMode
	if raw := c.Query("mode"); raw != "" {
		mode = configsapp.ParseResetMode(raw)
	}

	result, err := h.reset.Run(c.UserContext(), mode)
	if err != nil {
		status := fiber.StatusInternalServerError
		if errors.Is(err, services.ErrResetInProgress) {
			status = fiber.StatusConflict
		}
		configslog.Log.Error("cron reset failed", zap.String("mode", string(mode)), zap.Error(err))
		return c.Status(status).JSON(result)
	}
	return c.JSON(result)
}

// authorized accepts either the external scheduler trust header or a
// matching shared secret via header or query parameter.
func (h *CronHandler) authorized(c *fiber.Ctx) bool {
	if c.Get("X-Scheduler-Trigger") != "" {
		return true
	}
	provided := c.Get("X-Cron-Secret")
	if provided == "" {
		provided = c.Query("secret")
	}
	return h.cfg.CronSecret != "" && provided == h.cfg.CronSecret
}
