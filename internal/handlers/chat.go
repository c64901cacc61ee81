package handlers

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/boykin345/ConversationalAI/internal/services"
	"github.com/boykin345/ConversationalAI/pkg/log"
)

// ChatHandler serves the conversational API
type ChatHandler struct {
	sessions *services.SessionManager
	validate *validator.Validate
}

// NewChatHandler creates a new chat handler
func NewChatHandler(sessions *services.SessionManager) *ChatHandler {
	return &ChatHandler{
		sessions: sessions,
		validate: validator.New(),
	}
}

// ChatRequest is one user turn addressed to an existing session.
type ChatRequest struct {
	SessionID string `json:"session_id" validate:"required,uuid4"`
	Message   string `json:"message" validate:"required,max=1000"`
}

// ChatResponse carries the assistant's reply for a turn.
type ChatResponse struct {
	SessionID string `json:"session_id"`
	Reply     string `json:"reply"`
}

// CreateSession starts a conversation and returns the welcome message.
func (h *ChatHandler) CreateSession(c *fiber.Ctx) error {
	session, welcome := h.sessions.CreateSession()
	return c.Status(fiber.StatusCreated).JSON(ChatResponse{
		SessionID: session.SessionID,
		Reply:     welcome,
	})
}

// HandleChat resolves one utterance against the session's chatbot.
func (h *ChatHandler) HandleChat(c *fiber.Ctx) error {
	var req ChatRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request payload",
		})
	}
	if err := h.validate.Struct(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	session, err := h.sessions.GetSession(req.SessionID)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Session not found or expired. Start a new session first.",
		})
	}

	reply := session.Resolve(req.Message)
	h.sessions.Touch(req.SessionID)

	log.Debug(log.Fields{
		"session_id": req.SessionID,
		"user":       session.UserName(),
	}, "turn resolved")

	return c.JSON(ChatResponse{
		SessionID: req.SessionID,
		Reply:     reply,
	})
}

// EndSession discards a session and any transaction state it holds.
func (h *ChatHandler) EndSession(c *fiber.Ctx) error {
	h.sessions.EndSession(c.Params("id"))
	return c.SendStatus(fiber.StatusNoContent)
}
