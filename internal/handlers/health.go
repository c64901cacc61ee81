package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/boykin345/ConversationalAI/internal/services"
)

// HealthHandler reports service liveness
type HealthHandler struct {
	sessions *services.SessionManager
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(sessions *services.SessionManager) *HealthHandler {
	return &HealthHandler{sessions: sessions}
}

// Handle returns the service status and active session count.
func (h *HealthHandler) Handle(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":          "healthy",
		"version":         "1.0.0",
		"active_sessions": h.sessions.ActiveSessions(),
	})
}
