package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/famcare/chat-service/internal/application"
	"github.com/famcare/chat-service/internal/domain/entity"
	"github.com/famcare/chat-service/pkg/response"
)

type AdminHandler struct {
	Svc    *application.AdminService
	Logger *logrus.Logger
}

func NewAdminHandler(svc *application.AdminService, logger *logrus.Logger) *AdminHandler {
	return &AdminHandler{Svc: svc, Logger: logger}
}

// Ban PUT /api/admin/ban/:id
func (h *AdminHandler) Ban(c *gin.Context) {
	if err := h.Svc.Ban(c.Request.Context(), c.Param("id")); err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success[any](c, http.StatusOK, gin.H{"banned": true}, "user banned", nil)
}

// Unban PUT /api/admin/unban/:id
func (h *AdminHandler) Unban(c *gin.Context) {
	if err := h.Svc.Unban(c.Request.Context(), c.Param("id")); err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success[any](c, http.StatusOK, gin.H{"banned": false}, "user unbanned", nil)
}

// Banned GET /api/admin/banned
func (h *AdminHandler) Banned(c *gin.Context) {
	users, err := h.Svc.ListBanned(c.Request.Context())
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	out := make([]entity.PublicUser, 0, len(users))
	for _, u := range users {
		out = append(out, u.Public())
	}
	response.Success(c, http.StatusOK, out, "banned users", nil)
}
