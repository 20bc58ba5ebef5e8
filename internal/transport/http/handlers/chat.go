package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/baltabekpro/tr-velMap/internal/usecase"
)

// ChatHandler exposes the travel assistant endpoint.
type ChatHandler struct {
	chat *usecase.ChatService
}

// NewChatHandler constructs ChatHandler.
func NewChatHandler(chat *usecase.ChatService) *ChatHandler {
	return &ChatHandler{chat: chat}
}

// RegisterRoutes binds the chat routes.
func (h *ChatHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.POST("/message", h.message)
}

func (h *ChatHandler) message(c *gin.Context) {
	var req ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "message is required"))
		return
	}

	reply, err := h.chat.Reply(c.Request.Context(), req.Message)
	if err != nil {
		if respondIfValidation(c, err) {
			return
		}
		c.JSON(http.StatusInternalServerError, NewErrorResponse(c, "assistant failed"))
		return
	}

	places := make([]PlaceSummary, 0, len(reply.Places))
	for _, place := range reply.Places {
		places = append(places, NewPlaceSummary(place))
	}

	c.JSON(http.StatusOK, ChatResponse{Reply: reply.Text, Places: places})
}
