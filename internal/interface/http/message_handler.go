package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/famcare/chat-service/internal/application"
	"github.com/famcare/chat-service/internal/domain/entity"
	"github.com/famcare/chat-service/internal/interface/middleware"
	"github.com/famcare/chat-service/internal/realtime"
	"github.com/famcare/chat-service/pkg/response"
	"github.com/famcare/chat-service/pkg/validation"
)

type MessageHandler struct {
	Svc    *application.MessageService
	Hub    *realtime.Hub
	Logger *logrus.Logger
}

func NewMessageHandler(svc *application.MessageService, hub *realtime.Hub, logger *logrus.Logger) *MessageHandler {
	return &MessageHandler{Svc: svc, Hub: hub, Logger: logger}
}

type sendMessageRequest struct {
	Text  string `json:"text"`
	Image string `json:"image"`
}

// Contacts GET /api/messages/contacts
func (h *MessageHandler) Contacts(c *gin.Context) {
	uid := c.GetString(middleware.CtxUserIDKey)
	users, err := h.Svc.ListContacts(c.Request.Context(), uid)
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	out := make([]entity.PublicUser, 0, len(users))
	for _, u := range users {
		out = append(out, u.Public())
	}
	response.Success(c, http.StatusOK, out, "contacts", nil)
}

// Conversation GET /api/messages/:id?page&limit
func (h *MessageHandler) Conversation(c *gin.Context) {
	uid := c.GetString(middleware.CtxUserIDKey)
	otherID := c.Param("id")

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "0"))

	messages, err := h.Svc.GetConversation(c.Request.Context(), uid, otherID, page, limit)
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, messages, "conversation", map[string]any{
		"page":  max(page, 1),
		"count": len(messages),
	})
}

// Send POST /api/messages/:id persists the message and then asks the
// gateway to push it. Persist-then-push: a client that receives the push
// and immediately re-fetches the conversation always sees the message.
func (h *MessageHandler) Send(c *gin.Context) {
	uid := c.GetString(middleware.CtxUserIDKey)
	receiverID := c.Param("id")

	var req sendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}

	m, err := h.Svc.SendMessage(c.Request.Context(), application.SendMessageInput{
		SenderID:   uid,
		ReceiverID: receiverID,
		Text:       req.Text,
		ImageRef:   req.Image,
	})
	if err != nil {
		fail(c, h.Logger, err)
		return
	}

	// Best-effort push; an offline receiver picks it up on the next fetch.
	h.Hub.PushMessage(m)

	response.Success(c, http.StatusCreated, m, "message sent", nil)
}
