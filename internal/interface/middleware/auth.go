package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/famcare/chat-service/internal/domain/apperr"
	"github.com/famcare/chat-service/internal/domain/repository"
	"github.com/famcare/chat-service/pkg/helpers"
	"github.com/famcare/chat-service/pkg/response"
)

// Context keys set by RequireSession.
const (
	CtxUserIDKey  = "userID"
	CtxIsAdminKey = "isAdmin"
	CtxRoleKey    = "userRole"
)

// RequireSession is the single authorization gate: it extracts the access
// token cookie, validates it, checks the server-side session record, loads
// the user and rejects banned accounts. On success the resolved identity is
// injected into the request context; handlers never trust a client-supplied
// identity for authorization decisions.
func RequireSession(rdb *redis.Client, jwt *helpers.JWTManager, users repository.UserRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie("access_token")
		if err != nil || token == "" {
			abortWith(c, apperr.Auth("missing access token"))
			return
		}
		claims, err := jwt.ParseAccessToken(token)
		if err != nil {
			abortWith(c, apperr.Auth("invalid access token"))
			return
		}

		// A logged-out session has no Redis record even if the token is
		// still within its lifetime.
		if rdb != nil {
			key := "user:session:" + claims.UserID
			data, err := rdb.HGetAll(c.Request.Context(), key).Result()
			if err != nil || len(data) == 0 || data["sid"] != claims.SessionID {
				abortWith(c, apperr.Auth("session not found"))
				return
			}
		}

		u, err := users.GetByID(c.Request.Context(), claims.UserID)
		if err != nil {
			// A missing account means a dead session; anything else is a
			// storage failure and must not masquerade as one.
			if apperr.IsKind(err, apperr.KindNotFound) {
				abortWith(c, apperr.Auth("session not found"))
			} else {
				abortWith(c, err)
			}
			return
		}
		if u.IsBanned {
			abortWith(c, apperr.Forbidden("account is banned"))
			return
		}

		c.Set(CtxUserIDKey, u.ID)
		c.Set(CtxIsAdminKey, u.IsAdmin)
		c.Set(CtxRoleKey, u.Role)
		c.Next()
	}
}

// RequireAdmin must run after RequireSession.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !c.GetBool(CtxIsAdminKey) {
			abortWith(c, apperr.Forbidden("admin privilege required"))
			return
		}
		c.Next()
	}
}

func abortWith(c *gin.Context, err error) {
	response.Error[any](c, apperr.HTTPStatus(err), apperr.ClientMessage(err), nil)
	c.Abort()
}
