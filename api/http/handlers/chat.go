package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/lokesh-manneti/skillsync-ai-v2/api/http/presenter"
	"github.com/lokesh-manneti/skillsync-ai-v2/pkg/ai"
	"github.com/lokesh-manneti/skillsync-ai-v2/pkg/chat"
)

type ChatHandler struct {
	useCase chat.UseCase
}

func NewChatHandler(useCase chat.UseCase) *ChatHandler {
	return &ChatHandler{useCase: useCase}
}

type chatRequest struct {
	Message string `json:"message"`
}

type chatResponse struct {
	Response string `json:"response"`
}

// Chat answers a message as the career mentor, grounded in the caller's
// profile and roadmap.
// @Summary Chat with the AI mentor
// @Tags    chat
// @Accept  json
// @Produce json
// @Param   input body chatRequest true "user message"
// @Security BearerAuth
// @Success 200 {object} chatResponse
// @Failure 400 {object} presenter.ErrorResponse
// @Failure 502 {object} presenter.ErrorResponse
// @Router  /chat [post]
func (h *ChatHandler) Chat(c *fiber.Ctx) error {
	var req chatRequest
	if err := c.BodyParser(&req); err != nil {
		return presenter.Error(c, http.StatusBadRequest, "invalid JSON payload")
	}
	if strings.TrimSpace(req.Message) == "" {
		return presenter.Error(c, http.StatusBadRequest, "message is required")
	}

	reply, err := h.useCase.Respond(c.Context(), currentUserID(c), req.Message)
	if err != nil {
		switch {
		case errors.Is(err, chat.ErrNoProfile):
			return presenter.Error(c, http.StatusBadRequest, "Please upload a resume first to start chatting.")
		case errors.Is(err, ai.ErrUpstream):
			return presenter.Error(c, http.StatusBadGateway, fmt.Sprintf("generation failed: %v", err))
		default:
			return presenter.Error(c, http.StatusInternalServerError, "internal error")
		}
	}
	return presenter.JSON(c, http.StatusOK, chatResponse{Response: reply})
}
