package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/famcare/chat-service/internal/container"
	"github.com/famcare/chat-service/internal/domain/repository"
	handlers "github.com/famcare/chat-service/internal/interface/http"
	"github.com/famcare/chat-service/internal/interface/middleware"
)

// MessageModule wires the contact list, conversation fetch and send
// endpoints. Everything here requires a session. The conversation route is
// registered last so /messages/contacts wins over /messages/:id.
type MessageModule struct {
	Handler *handlers.MessageHandler
	Users   repository.UserRepository
}

func NewMessageModule(h *handlers.MessageHandler, users repository.UserRepository) *MessageModule {
	return &MessageModule{Handler: h, Users: users}
}

func (m *MessageModule) Register(rg *gin.RouterGroup) {
	rdb := container.GetRedis()

	msgs := rg.Group("/messages")
	msgs.Use(middleware.RequireSession(rdb, container.GetJWT(), m.Users))
	msgs.Use(middleware.RateLimit(rdb, 300, time.Minute, middleware.KeyByUserID(), nil))
	{
		msgs.GET("/contacts", m.Handler.Contacts)
		msgs.GET("/:id", m.Handler.Conversation)
		msgs.POST("/:id", m.Handler.Send)
	}
}
