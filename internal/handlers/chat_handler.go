package handlers

import (
	"errors"
	"log"
	"strings"

	"github.com/gofiber/fiber/v2"

	"resumeai/resume-service/internal/models"
	"resumeai/resume-service/internal/ratelimit"
	"resumeai/resume-service/internal/services"
)

const advisorSystemPrompt = "You are a top-level advisor. " +
	"Give clear, helpful, and concise answers."

var greetings = []string{"hello", "hi", "hey"}

type ChatHandler struct {
	completion services.CompletionService
	analytics  services.AnalyticsService
}

func NewChatHandler(completion services.CompletionService, analytics services.AnalyticsService) *ChatHandler {
	return &ChatHandler{
		completion: completion,
		analytics:  analytics,
	}
}

// HandleChat handles POST /chat. Plain greetings are answered locally;
// everything else goes to the completion provider.
func (h *ChatHandler) HandleChat(c *fiber.Ctx) error {
	var req models.ChatRequest

	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request payload",
		})
	}

	if req.Message == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "message is required",
		})
	}

	reply, err := h.reply(c, req.Message)
	if err != nil {
		reqID, _ := c.Locals("requestid").(string)
		log.Printf("❌ [%s] chat completion failed: %v", reqID, err)

		var upstreamErr *services.UpstreamError
		if errors.As(err, &upstreamErr) {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Completion provider error",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Internal server error",
		})
	}

	h.analytics.Track("chat", ratelimit.ClientIdentity(c))

	return c.JSON(models.ChatResponse{Reply: reply})
}

func (h *ChatHandler) reply(c *fiber.Ctx, message string) (string, error) {
	lower := strings.ToLower(message)
	for _, greeting := range greetings {
		if strings.Contains(lower, greeting) {
			return "Hello! How can I assist you today?", nil
		}
	}

	messages := []services.ChatMessage{
		{Role: services.RoleSystem, Content: advisorSystemPrompt},
		{Role: services.RoleUser, Content: message},
	}

	reply, err := h.completion.Complete(c.UserContext(), messages, services.CompletionOptions{
		Temperature: 0.5,
	})
	if err != nil {
		return "", &services.UpstreamError{Cause: err}
	}

	return reply, nil
}
