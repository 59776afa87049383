package modules

import (
	"github.com/gin-gonic/gin"

	"github.com/famcare/chat-service/internal/container"
	"github.com/famcare/chat-service/internal/domain/repository"
	handlers "github.com/famcare/chat-service/internal/interface/http"
	"github.com/famcare/chat-service/internal/interface/middleware"
)

// RealtimeModule wires the websocket endpoint behind the same session gate
// as the REST surface.
type RealtimeModule struct {
	Handler *handlers.WSHandler
	Users   repository.UserRepository
}

func NewRealtimeModule(h *handlers.WSHandler, users repository.UserRepository) *RealtimeModule {
	return &RealtimeModule{Handler: h, Users: users}
}

func (m *RealtimeModule) Register(rg *gin.RouterGroup) {
	rg.GET("/ws", middleware.RequireSession(container.GetRedis(), container.GetJWT(), m.Users), m.Handler.Connect)
}
