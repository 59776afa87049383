package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/famcare/chat-service/internal/interface/middleware"
	"github.com/famcare/chat-service/internal/realtime"
)

type WSHandler struct {
	Hub    *realtime.Hub
	Logger *logrus.Logger
}

func NewWSHandler(hub *realtime.Hub, logger *logrus.Logger) *WSHandler {
	return &WSHandler{Hub: hub, Logger: logger}
}

// Connect GET /api/ws upgrades the authenticated request to a websocket.
// RequireSession has already resolved the identity, so the channel is bound
// to the verified user, not anything the client claims.
func (h *WSHandler) Connect(c *gin.Context) {
	uid := c.GetString(middleware.CtxUserIDKey)
	if err := h.Hub.ServeWS(c.Writer, c.Request, uid); err != nil {
		// Upgrade failures already wrote an HTTP error to the client.
		h.Logger.WithError(err).WithField("user_id", uid).Debug("websocket upgrade failed")
	}
}
