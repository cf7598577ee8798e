package routes

import (
	"orbit.events/configs/configsapp"
	"orbit.events/configs/configssession"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	recoverMiddleware "github.com/gofiber/fiber/v2/middleware/recover"
)

// SetupRoutes wires the global middlewares and all route groups.
func SetupRoutes(app *fiber.App, cfg configsapp.Config) {
	app.Use(recoverMiddleware.New())
	app.Use(logger.New())
	app.Use(initializeSessionAndLocals())

	registerAuthRoutes(app)
	registerEventRoutes(app)
	registerCronRoutes(app, cfg)

	app.Get("/", func(c *fiber.Ctx) error {
		return c.Redirect("/events", fiber.StatusFound)
	})

	app.Use(notFoundHandler)
}

// initializeSessionAndLocals resolves the session once per request and puts
// the caller identity into locals for the gates downstream.
func initializeSessionAndLocals() fiber.Handler {
	store := configssession.SetupSession()
	return func(c *fiber.Ctx) error {
		sess, err := store.Get(c)
		if err != nil {
			return c.Next()
		}
		if userID, ok := sess.Get("user_id").(uint); ok && userID != 0 {
			c.Locals("userID", userID)
		}
		return c.Next()
	}
}

func notFoundHandler(c *fiber.Ctx) error {
	if c.Accepts("text/html", "application/json") == "application/json" {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Resource not found"})
	}
	return c.Status(fiber.StatusNotFound).Render("errors/404", fiber.Map{"Title": "Page Not Found"})
}
