package handler

import (
	"net/http"

	chatredis "fixitnow-chat/internal/redis"
	"fixitnow-chat/internal/services"
	"fixitnow-chat/internal/transport/httpdto"

	"github.com/gin-gonic/gin"
)

// ChatHandler serves the read side of the chat subsystem: transcripts,
// conversation summaries and the presence mirror.
type ChatHandler struct {
	chats    *services.ChatService
	presence *chatredis.PresenceStore
}

func NewChatHandler(chats *services.ChatService, presence *chatredis.PresenceStore) *ChatHandler {
	return &ChatHandler{chats: chats, presence: presence}
}

// History returns the full transcript between userA and userB, oldest first.
func (h *ChatHandler) History(c *gin.Context) {
	userA := c.Query("userA")
	userB := c.Query("userB")
	if userA == "" || userB == "" {
		c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse("userA and userB are required", "INVALID_REQUEST"))
		return
	}

	messages, err := h.chats.History(c.Request.Context(), userA, userB)
	if err != nil {
		c.JSON(services.HTTPStatus(err), httpdto.NewErrorResponse(err.Error(), "REQUEST_FAILED"))
		return
	}
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(httpdto.NewMessageResponses(messages)))
}

// Conversations returns one summary per chat partner, most recently active
// first.
func (h *ChatHandler) Conversations(c *gin.Context) {
	userID := c.Query("userId")
	if userID == "" {
		c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse("userId is required", "INVALID_REQUEST"))
		return
	}

	summaries, err := h.chats.Conversations(c.Request.Context(), userID)
	if err != nil {
		c.JSON(services.HTTPStatus(err), httpdto.NewErrorResponse(err.Error(), "REQUEST_FAILED"))
		return
	}
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(summaries))
}

// Presence reports the mirrored online status for a user. Returns 404 when
// no presence mirror is configured.
func (h *ChatHandler) Presence(c *gin.Context) {
	if h.presence == nil {
		c.JSON(http.StatusNotFound, httpdto.NewErrorResponse("presence not configured", "NOT_FOUND"))
		return
	}

	userID := c.Query("userId")
	if userID == "" {
		c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse("userId is required", "INVALID_REQUEST"))
		return
	}

	status, err := h.presence.Get(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, httpdto.NewErrorResponse(err.Error(), "REQUEST_FAILED"))
		return
	}
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(httpdto.PresenceResponse{
		UserID:   status.UserID,
		IsOnline: status.IsOnline,
		LastSeen: status.LastSeen,
	}))
}
