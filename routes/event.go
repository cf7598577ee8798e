package routes

import (
	"orbit.events/configs/configsapp"
	"orbit.events/handlers"
	"orbit.events/middlewares"

	"github.com/gofiber/fiber/v2"
)

func registerEventRoutes(app *fiber.App) {
	eventHandler := handlers.NewEventHandler()
	rsvpHandler := handlers.NewRSVPHandler()

	events := app.Group("/events")
	events.Get("/", eventHandler.List)
	events.Get("/:id", eventHandler.Get)

	// Mutations require a caller identity; host-only and not-host gates run
	// before the handler touches anything.
	events.Post("/", middlewares.AuthMiddleware, eventHandler.Create)
	events.Put("/:id", middlewares.AuthMiddleware, middlewares.RequireHost(), eventHandler.Update)
	events.Delete("/:id", middlewares.AuthMiddleware, middlewares.RequireHost(), eventHandler.Delete)
	events.Post("/:id/rsvp", middlewares.AuthMiddleware, middlewares.RequireNotHost(), rsvpHandler.Submit)
}

func registerCronRoutes(app *fiber.App, cfg configsapp.Config) {
	cronHandler := handlers.NewCronHandler(cfg)
	app.Get("/api/cron/reset", cronHandler.Reset)
	app.Post("/api/cron/reset", cronHandler.Reset)
}
