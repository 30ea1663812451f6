package handler

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/swagger"
)

// SetupRoutes настраивает все маршруты приложения
func SetupRoutes(app *fiber.App, messageHandler *MessageHandler) {
	// Middleware
	app.Use(logger.New())
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders: "Content-Type,Authorization",
	}))

	// Swagger UI
	app.Get("/swagger/*", swagger.HandlerDefault)

	// Health check
	// @Summary Проверка здоровья
	// @Description Возвращает статус сервера
	// @Tags system
	// @Produce json
	// @Success 200 {object} map[string]string "Статус сервера"
	// @Router / [get]
	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"service":   "Message API",
			"status":    "healthy",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
	})

	// Message routes
	// Маршрут /messages/new/:recipient регистрируем раньше
	// /messages/:recipient, иначе "new" считается получателем
	app.Post("/messages", messageHandler.Send)
	app.Get("/messages", messageHandler.List)
	app.Get("/messages/new/:recipient", messageHandler.FetchNew)
	app.Get("/messages/:recipient", messageHandler.ListByRecipient)
	app.Delete("/messages", messageHandler.DeleteMany)
	app.Delete("/messages/:message_id", messageHandler.DeleteOne)

	// Recipients и Stats
	app.Get("/recipients", messageHandler.Recipients)
	app.Get("/stats", messageHandler.Stats)
}
