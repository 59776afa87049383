package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/famcare/chat-service/internal/domain/apperr"
	"github.com/famcare/chat-service/pkg/response"
)

// fail maps a service error onto the response envelope. Internal causes are
// logged with the request id and never surfaced.
func fail(c *gin.Context, logger *logrus.Logger, err error) {
	if apperr.KindOf(err) == apperr.KindInternal && logger != nil {
		logger.WithError(err).WithFields(logrus.Fields{
			"request_id": c.GetString("request_id"),
			"path":       c.FullPath(),
		}).Error("request failed")
	}
	response.Error[any](c, apperr.HTTPStatus(err), apperr.ClientMessage(err), nil)
}
