package modules

import (
	"github.com/gin-gonic/gin"

	"github.com/famcare/chat-service/internal/container"
	"github.com/famcare/chat-service/internal/domain/repository"
	handlers "github.com/famcare/chat-service/internal/interface/http"
	"github.com/famcare/chat-service/internal/interface/middleware"
)

// AdminModule wires the moderation endpoints: session plus admin flag.
type AdminModule struct {
	Handler *handlers.AdminHandler
	Users   repository.UserRepository
}

func NewAdminModule(h *handlers.AdminHandler, users repository.UserRepository) *AdminModule {
	return &AdminModule{Handler: h, Users: users}
}

func (m *AdminModule) Register(rg *gin.RouterGroup) {
	admin := rg.Group("/admin")
	admin.Use(middleware.RequireSession(container.GetRedis(), container.GetJWT(), m.Users))
	admin.Use(middleware.RequireAdmin())
	{
		admin.PUT("/ban/:id", m.Handler.Ban)
		admin.PUT("/unban/:id", m.Handler.Unban)
		admin.GET("/banned", m.Handler.Banned)
	}
}
