package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/famcare/chat-service/internal/domain/apperr"
	"github.com/famcare/chat-service/internal/domain/entity"
	"github.com/famcare/chat-service/pkg/helpers"
)

// stubUsers serves a single user record, enough to drive the session gate.
type stubUsers struct {
	user *entity.User
	err  error // forced GetByID failure
}

func (s *stubUsers) Create(context.Context, *entity.User) error { return nil }

func (s *stubUsers) GetByID(_ context.Context, id string) (*entity.User, error) {
	if s.err != nil {
		return nil, s.err
	}
	if s.user == nil || s.user.ID != id {
		return nil, apperr.NotFound("user not found")
	}
	return s.user, nil
}

func (s *stubUsers) GetByEmail(context.Context, string) (*entity.User, error) {
	return nil, apperr.NotFound("user not found")
}

func (s *stubUsers) ListContacts(context.Context, string) ([]*entity.User, error) { return nil, nil }
func (s *stubUsers) ListBanned(context.Context) ([]*entity.User, error)           { return nil, nil }
func (s *stubUsers) SetOnline(context.Context, string, bool) error                { return nil }
func (s *stubUsers) SetBanned(context.Context, string, bool) error                { return nil }
func (s *stubUsers) UpdateAvatar(context.Context, string, string) error           { return nil }

func sessionRouter(t *testing.T, users *stubUsers, jwt *helpers.JWTManager, extra ...gin.HandlerFunc) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handlers := append([]gin.HandlerFunc{RequireSession(nil, jwt, users)}, extra...)
	handlers = append(handlers, func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user_id": c.GetString(CtxUserIDKey)})
	})
	r.GET("/protected", handlers...)
	return r
}

func requestWithToken(token string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if token != "" {
		req.AddCookie(&http.Cookie{Name: "access_token", Value: token})
	}
	return req
}

func TestRequireSession_MissingCookie(t *testing.T) {
	r := sessionRouter(t, &stubUsers{}, testJWT())
	w := httptest.NewRecorder()
	r.ServeHTTP(w, requestWithToken(""))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireSession_GarbageToken(t *testing.T) {
	r := sessionRouter(t, &stubUsers{}, testJWT())
	w := httptest.NewRecorder()
	r.ServeHTTP(w, requestWithToken("not-a-jwt"))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireSession_ValidToken(t *testing.T) {
	jwt := testJWT()
	users := &stubUsers{user: &entity.User{ID: "u1", Role: entity.RoleMother}}
	token, _, err := jwt.GenerateAccessToken("u1", "s1")
	require.NoError(t, err)

	r := sessionRouter(t, users, jwt)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, requestWithToken(token))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"user_id":"u1"`)
}

func TestRequireSession_BannedUser(t *testing.T) {
	jwt := testJWT()
	users := &stubUsers{user: &entity.User{ID: "u1", IsBanned: true}}
	token, _, err := jwt.GenerateAccessToken("u1", "s1")
	require.NoError(t, err)

	r := sessionRouter(t, users, jwt)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, requestWithToken(token))
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestRequireSession_DeletedUser(t *testing.T) {
	jwt := testJWT()
	token, _, err := jwt.GenerateAccessToken("gone", "s1")
	require.NoError(t, err)

	r := sessionRouter(t, &stubUsers{}, jwt)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, requestWithToken(token))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireSession_StoreFailureIsNotAuthFailure(t *testing.T) {
	jwt := testJWT()
	token, _, err := jwt.GenerateAccessToken("u1", "s1")
	require.NoError(t, err)

	users := &stubUsers{err: apperr.Internal(errors.New("dial tcp: connection refused"))}
	r := sessionRouter(t, users, jwt)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, requestWithToken(token))

	// A database outage is a 500, not a dead session, and the detail never
	// reaches the client.
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "connection refused")
}

func TestRequireAdmin(t *testing.T) {
	jwt := testJWT()
	token, _, err := jwt.GenerateAccessToken("u1", "s1")
	require.NoError(t, err)

	t.Run("regular user is rejected", func(t *testing.T) {
		users := &stubUsers{user: &entity.User{ID: "u1"}}
		r := sessionRouter(t, users, jwt, RequireAdmin())
		w := httptest.NewRecorder()
		r.ServeHTTP(w, requestWithToken(token))
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("admin passes", func(t *testing.T) {
		users := &stubUsers{user: &entity.User{ID: "u1", IsAdmin: true}}
		r := sessionRouter(t, users, jwt, RequireAdmin())
		w := httptest.NewRecorder()
		r.ServeHTTP(w, requestWithToken(token))
		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func testJWT() *helpers.JWTManager {
	return helpers.NewJWTManager("access-secret", "refresh-secret", time.Minute, time.Hour)
}
