package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/famcare/chat-service/internal/container"
	"github.com/famcare/chat-service/internal/domain/repository"
	handlers "github.com/famcare/chat-service/internal/interface/http"
	"github.com/famcare/chat-service/internal/interface/middleware"
)

// AuthModule wires the identity and session endpoints.
// Public: signup, login, auto-login, refresh. Protected: logout, profile,
// check.
type AuthModule struct {
	Handler *handlers.AuthHandler
	Users   repository.UserRepository
}

func NewAuthModule(h *handlers.AuthHandler, users repository.UserRepository) *AuthModule {
	return &AuthModule{Handler: h, Users: users}
}

func (m *AuthModule) Register(rg *gin.RouterGroup) {
	rdb := container.GetRedis()

	signupLimiter := middleware.RateLimit(rdb, 10, time.Minute, middleware.KeyByIP(), nil)
	loginLimiter := middleware.RateLimit(rdb, 10, time.Minute, middleware.KeyByIP(), nil)
	refreshLimiter := middleware.RateLimit(rdb, 60, time.Minute, middleware.KeyByIP(), nil)
	// Auto-login is a service-to-service path; private sources bypass the limit.
	autoLoginLimiter := middleware.RateLimit(rdb, 60, time.Minute, middleware.KeyByIP(), middleware.AllowPrivateIP())

	rg.POST("/auth/signup", signupLimiter, m.Handler.Signup)
	rg.POST("/auth/login", loginLimiter, m.Handler.Login)
	rg.POST("/auth/auto-login", autoLoginLimiter, m.Handler.AutoLogin)
	rg.POST("/auth/refresh", refreshLimiter, m.Handler.Refresh)

	auth := rg.Group("/")
	auth.Use(middleware.RequireSession(rdb, container.GetJWT(), m.Users))
	auth.Use(middleware.RateLimit(rdb, 120, time.Minute, middleware.KeyByUserID(), nil))
	{
		auth.POST("/auth/logout", m.Handler.Logout)
		auth.PATCH("/auth/profile", m.Handler.UpdateProfile)
		auth.GET("/auth/check", m.Handler.Check)
	}
}
