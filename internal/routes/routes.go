package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/boykin345/ConversationalAI/internal/handlers"
	"github.com/boykin345/ConversationalAI/internal/services"
)

// SetupRoutes configures all API routes
func SetupRoutes(app *fiber.App, sessions *services.SessionManager) {
	chatHandler := handlers.NewChatHandler(sessions)
	healthHandler := handlers.NewHealthHandler(sessions)

	// Root endpoint
	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"message": "Welcome to the ConversationalAI API!",
			"version": "1.0.0",
			"endpoints": fiber.Map{
				"health":   "/health",
				"sessions": "/api/sessions",
				"chat":     "/api/chat",
			},
		})
	})

	app.Get("/health", healthHandler.Handle)

	api := app.Group("/api")
	api.Post("/sessions", chatHandler.CreateSession)
	api.Delete("/sessions/:id", chatHandler.EndSession)
	api.Post("/chat", chatHandler.HandleChat)
}
