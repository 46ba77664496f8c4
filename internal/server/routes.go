package server

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/rexxDigital/snailmail/internal/logging"
)

// SetupRoutes wires middleware and every endpoint onto app.
func SetupRoutes(app *fiber.App, mailHandler *MailHandler, userHandler *UserHandler) {
	app.Use(logger.New(logger.Config{
		Output: logging.Log.Writer(),
	}))
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,OPTIONS",
		AllowHeaders: "Content-Type",
	}))

	app.Get("/mail", mailHandler.GetInbox)
	app.Post("/mail", mailHandler.SendMail)

	app.Get("/user", userHandler.GetUserInfo)

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "ok",
		})
	})
}
