package handlers

import (
	"github.com/bloolabb/bloolabb_api/dto"
	"github.com/bloolabb/bloolabb_api/shared"
	"github.com/gofiber/fiber/v2"
)

type ChatHandler struct {
	tutorSvc TutorServiceInterface
}

func NewChatHandler(tutorSvc TutorServiceInterface) *ChatHandler {
	return &ChatHandler{
		tutorSvc: tutorSvc,
	}
}

// @Summary Ask the AI tutor
// @Description Spends one of the caller's daily hearts. Returns 429 out_of_hearts when none are left.
// @Tags ai
// @Accept json
// @Produce json
// @Security Bearer
// @Param Authorization header string true "User Bearer Token" default(Bearer <user_token>)
// @Param chatRequest body dto.ChatRequest true "Question"
// @Success 200 {object} shared.Response{data=dto.ChatResponse}
// @Failure 429 {object} shared.Response{data=dto.OutOfHeartsResponse}
// @Router /api/v1/ai/chat [post]
func (h *ChatHandler) Chat(c *fiber.Ctx) error {
	var req dto.ChatRequest
	if err := c.BodyParser(&req); err != nil {
		return shared.NewValidationError(err, []dto.ValidationError{{Field: "body", Message: "Invalid JSON body"}})
	}

	resp, err := h.tutorSvc.Chat(c.UserContext(), currentUser(c), &req)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusOK, "Success", resp)
}

// @Summary Get remaining hearts
// @Description Today's AI chat quota. Falls back to a full quota when it cannot be read.
// @Tags ai
// @Produce json
// @Security Bearer
// @Param Authorization header string true "User Bearer Token" default(Bearer <user_token>)
// @Success 200 {object} shared.Response{data=dto.HeartsResponse}
// @Router /api/v1/ai/hearts [get]
func (h *ChatHandler) GetHearts(c *fiber.Ctx) error {
	return shared.ResponseJSON(c, fiber.StatusOK, "Success", h.tutorSvc.GetHearts(currentUser(c)))
}

// @Summary List conversations
// @Tags ai
// @Produce json
// @Security Bearer
// @Param Authorization header string true "User Bearer Token" default(Bearer <user_token>)
// @Success 200 {object} shared.Response{data=[]dto.ConversationResponse}
// @Router /api/v1/ai/conversations [get]
func (h *ChatHandler) ListConversations(c *fiber.Ctx) error {
	conversations, err := h.tutorSvc.ListConversations(currentUser(c))
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusOK, "Success", conversations)
}

// @Summary List messages of a conversation
// @Tags ai
// @Produce json
// @Security Bearer
// @Param Authorization header string true "User Bearer Token" default(Bearer <user_token>)
// @Param conversationId path string true "Conversation ID"
// @Success 200 {object} shared.Response{data=[]dto.ChatMessageResponse}
// @Router /api/v1/ai/conversations/{conversationId}/messages [get]
func (h *ChatHandler) ListMessages(c *fiber.Ctx) error {
	messages, err := h.tutorSvc.ListMessages(currentUser(c), c.Params("conversationId"))
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusOK, "Success", messages)
}
