package handlers

import (
	"crypto/subtle"
	"net/http"
	"sync/atomic"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/famcare/chat-service/internal/application"
	"github.com/famcare/chat-service/internal/domain/entity"
	"github.com/famcare/chat-service/internal/interface/middleware"
	"github.com/famcare/chat-service/pkg/helpers"
	"github.com/famcare/chat-service/pkg/response"
	"github.com/famcare/chat-service/pkg/validation"
)

type AuthHandler struct {
	Svc          *application.AuthService
	Logger       *logrus.Logger
	Cookies      *helpers.CookieManager
	ServiceToken string

	warnedOpenAutoLogin atomic.Bool
}

func NewAuthHandler(svc *application.AuthService, logger *logrus.Logger, cookieDomain string, cookieSecure bool, serviceToken string) *AuthHandler {
	return &AuthHandler{
		Svc:          svc,
		Logger:       logger,
		Cookies:      helpers.NewCookie(cookieDomain, cookieSecure),
		ServiceToken: serviceToken,
	}
}

type signupRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,pwd"`
	Role     string `json:"role" binding:"required,oneof=mother doctor"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type autoLoginRequest struct {
	Name  string `json:"name" binding:"required"`
	Email string `json:"email" binding:"required,email"`
	Role  string `json:"role" binding:"omitempty,oneof=mother doctor"`
}

type updateProfileRequest struct {
	AvatarURL string `json:"avatar_url" binding:"required"`
}

// Signup POST /api/auth/signup
func (h *AuthHandler) Signup(c *gin.Context) {
	var req signupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	u, err := h.Svc.Register(c.Request.Context(), req.Name, req.Email, req.Password, req.Role)
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	h.issueSession(c, u, http.StatusCreated, "account created")
}

// Login POST /api/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	u, err := h.Svc.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	h.issueSession(c, u, http.StatusOK, "login successful")
}

// AutoLogin POST /api/auth/auto-login is the create-or-fetch bridge for a
// trusted upstream service. When a service token is configured the caller
// must present it; without one the endpoint is open, which is acceptable
// only in development.
func (h *AuthHandler) AutoLogin(c *gin.Context) {
	if h.ServiceToken != "" {
		got := c.GetHeader("X-Service-Token")
		if subtle.ConstantTimeCompare([]byte(got), []byte(h.ServiceToken)) != 1 {
			response.Error[any](c, http.StatusUnauthorized, "invalid service token", nil)
			return
		}
	} else if h.warnedOpenAutoLogin.CompareAndSwap(false, true) {
		h.Logger.Warn("auto-login endpoint is unauthenticated; set SERVICE_TOKEN outside development")
	}

	var req autoLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	u, err := h.Svc.AutoLogin(c.Request.Context(), req.Name, req.Email, req.Role)
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	h.issueSession(c, u, http.StatusOK, "auto-login successful")
}

// Refresh POST /api/auth/refresh
func (h *AuthHandler) Refresh(c *gin.Context) {
	refresh, err := c.Cookie("refresh_token")
	if err != nil || refresh == "" {
		response.Error[any](c, http.StatusUnauthorized, "missing refresh token", nil)
		return
	}
	u, pair, err := h.Svc.Refresh(c.Request.Context(), refresh)
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	h.Cookies.SetPair(c, pair.AccessToken, pair.AccessTokenExpiry, pair.RefreshToken, pair.RefreshTokenExpiry)
	response.Success(c, http.StatusOK, u.Public(), "token refreshed", expiryMeta(pair))
}

// Logout POST /api/auth/logout (session required)
func (h *AuthHandler) Logout(c *gin.Context) {
	uid := c.GetString(middleware.CtxUserIDKey)
	if err := h.Svc.Logout(c.Request.Context(), uid); err != nil {
		fail(c, h.Logger, err)
		return
	}
	h.Cookies.Clear(c)
	response.Success[any](c, http.StatusOK, gin.H{"logged_out": true}, "logged out", nil)
}

// UpdateProfile PATCH /api/auth/profile (session required)
func (h *AuthHandler) UpdateProfile(c *gin.Context) {
	uid := c.GetString(middleware.CtxUserIDKey)
	var req updateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	url, err := h.Svc.UpdateProfile(c.Request.Context(), uid, req.AvatarURL)
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"avatar_url": url}, "profile updated", nil)
}

// Check GET /api/auth/check (session required)
func (h *AuthHandler) Check(c *gin.Context) {
	uid := c.GetString(middleware.CtxUserIDKey)
	u, err := h.Svc.Profile(c.Request.Context(), uid)
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, u.Public(), "authenticated", nil)
}

func (h *AuthHandler) issueSession(c *gin.Context, u *entity.User, status int, message string) {
	pair, err := h.Svc.IssueTokens(c.Request.Context(), u)
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	h.Cookies.SetPair(c, pair.AccessToken, pair.AccessTokenExpiry, pair.RefreshToken, pair.RefreshTokenExpiry)
	response.Success(c, status, u.Public(), message, expiryMeta(pair))
}

func expiryMeta(pair application.TokenPair) map[string]any {
	return map[string]any{
		"access_expires_at":  pair.AccessTokenExpiry,
		"refresh_expires_at": pair.RefreshTokenExpiry,
	}
}
