package application

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/famcare/chat-service/internal/domain/apperr"
	"github.com/famcare/chat-service/internal/domain/entity"
	"github.com/famcare/chat-service/pkg/helpers"
)

func testLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func testJWT() *helpers.JWTManager {
	return helpers.NewJWTManager("access-secret", "refresh-secret", time.Minute, time.Hour)
}

func newAuthService(users *mockUserRepository) *AuthService {
	return NewAuthService(users, testJWT(), nil, testLogger(), nil, "", time.Hour)
}

func TestAuthService_RegisterHashesPassword(t *testing.T) {
	users := new(mockUserRepository)
	users.On("Create", mock.Anything, mock.MatchedBy(func(u *entity.User) bool {
		return u.Email == "a@b.c" && u.Password != "secret123" &&
			helpers.CompareHashAndPassword(u.Password, "secret123")
	})).Return(nil)

	svc := newAuthService(users)
	u, err := svc.Register(context.Background(), "Alice", "a@b.c", "secret123", entity.RoleMother)
	require.NoError(t, err)
	assert.Equal(t, "Alice", u.Name)
	users.AssertExpectations(t)
}

func TestAuthService_RegisterInvalidRole(t *testing.T) {
	svc := newAuthService(new(mockUserRepository))
	_, err := svc.Register(context.Background(), "Alice", "a@b.c", "secret123", "admin")
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindValidation))
}

func TestAuthService_RegisterDuplicateEmail(t *testing.T) {
	users := new(mockUserRepository)
	users.On("Create", mock.Anything, mock.Anything).Return(apperr.Conflict("email already used"))

	svc := newAuthService(users)
	_, err := svc.Register(context.Background(), "Alice", "a@b.c", "secret123", entity.RoleMother)
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindConflict))
}

func TestAuthService_LoginSuccess(t *testing.T) {
	hash, err := helpers.HashPassword("secret123")
	require.NoError(t, err)
	users := new(mockUserRepository)
	users.On("GetByEmail", mock.Anything, "a@b.c").Return(&entity.User{ID: "u1", Email: "a@b.c", Password: hash}, nil)
	users.On("SetOnline", mock.Anything, "u1", true).Return(nil)

	svc := newAuthService(users)
	u, err := svc.Login(context.Background(), "a@b.c", "secret123")
	require.NoError(t, err)
	assert.True(t, u.IsOnline)
	users.AssertExpectations(t)
}

func TestAuthService_LoginUnknownEmail(t *testing.T) {
	users := new(mockUserRepository)
	users.On("GetByEmail", mock.Anything, "a@b.c").Return(nil, apperr.NotFound("user not found"))

	svc := newAuthService(users)
	_, err := svc.Login(context.Background(), "a@b.c", "secret123")
	require.Error(t, err)
	// Unknown email and bad password are indistinguishable to the caller.
	assert.True(t, apperr.IsKind(err, apperr.KindAuth))
	assert.Equal(t, "invalid credentials", apperr.ClientMessage(err))
}

func TestAuthService_LoginWrongPassword(t *testing.T) {
	hash, err := helpers.HashPassword("secret123")
	require.NoError(t, err)
	users := new(mockUserRepository)
	users.On("GetByEmail", mock.Anything, "a@b.c").Return(&entity.User{ID: "u1", Password: hash}, nil)

	svc := newAuthService(users)
	_, err = svc.Login(context.Background(), "a@b.c", "wrong")
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindAuth))
}

func TestAuthService_LoginStoreFailureIsNotBadCredentials(t *testing.T) {
	users := new(mockUserRepository)
	users.On("GetByEmail", mock.Anything, "a@b.c").Return(nil, apperr.Internal(errors.New("pool exhausted")))

	svc := newAuthService(users)
	_, err := svc.Login(context.Background(), "a@b.c", "secret123")
	require.Error(t, err)
	// A storage outage must surface as internal, never as a 401, and the
	// cause must stay available for the error log.
	assert.True(t, apperr.IsKind(err, apperr.KindInternal))
	assert.Equal(t, "internal server error", apperr.ClientMessage(err))
	assert.Contains(t, err.Error(), "pool exhausted")
}

func TestAuthService_LoginBanned(t *testing.T) {
	users := new(mockUserRepository)
	users.On("GetByEmail", mock.Anything, "a@b.c").Return(&entity.User{ID: "u1", IsBanned: true}, nil)

	svc := newAuthService(users)
	_, err := svc.Login(context.Background(), "a@b.c", "secret123")
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindForbidden))
}

func TestAuthService_AutoLoginExistingUser(t *testing.T) {
	users := new(mockUserRepository)
	existing := &entity.User{ID: "u1", Email: "a@b.c", Role: entity.RoleDoctor}
	users.On("GetByEmail", mock.Anything, "a@b.c").Return(existing, nil)

	svc := newAuthService(users)
	u, err := svc.AutoLogin(context.Background(), "Alice", "a@b.c", entity.RoleMother)
	require.NoError(t, err)
	assert.Same(t, existing, u)
	users.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestAuthService_AutoLoginBanned(t *testing.T) {
	users := new(mockUserRepository)
	users.On("GetByEmail", mock.Anything, "a@b.c").Return(&entity.User{ID: "u1", IsBanned: true}, nil)

	svc := newAuthService(users)
	_, err := svc.AutoLogin(context.Background(), "Alice", "a@b.c", entity.RoleMother)
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindForbidden))
}

func TestAuthService_AutoLoginCreatesOnFirstContact(t *testing.T) {
	users := new(mockUserRepository)
	users.On("GetByEmail", mock.Anything, "a@b.c").Return(nil, apperr.NotFound("user not found")).Once()
	users.On("Create", mock.Anything, mock.MatchedBy(func(u *entity.User) bool {
		// Unknown role falls back to the default, and the provisioned
		// password hash must not be empty.
		return u.Role == entity.RoleMother && u.Password != ""
	})).Return(nil)

	svc := newAuthService(users)
	u, err := svc.AutoLogin(context.Background(), "Alice", "a@b.c", "nurse")
	require.NoError(t, err)
	assert.Equal(t, "a@b.c", u.Email)
	users.AssertExpectations(t)
}

func TestAuthService_AutoLoginLostCreationRace(t *testing.T) {
	users := new(mockUserRepository)
	winner := &entity.User{ID: "u1", Email: "a@b.c"}
	users.On("GetByEmail", mock.Anything, "a@b.c").Return(nil, apperr.NotFound("user not found")).Once()
	users.On("Create", mock.Anything, mock.Anything).Return(apperr.Conflict("email already used"))
	users.On("GetByEmail", mock.Anything, "a@b.c").Return(winner, nil).Once()

	svc := newAuthService(users)
	u, err := svc.AutoLogin(context.Background(), "Alice", "a@b.c", entity.RoleMother)
	require.NoError(t, err)
	assert.Same(t, winner, u)
}

func TestAuthService_IssueTokensRoundTrip(t *testing.T) {
	svc := newAuthService(new(mockUserRepository))
	pair, err := svc.IssueTokens(context.Background(), &entity.User{ID: "u1", Email: "a@b.c"})
	require.NoError(t, err)

	access, err := svc.JWT.ParseAccessToken(pair.AccessToken)
	require.NoError(t, err)
	refresh, err := svc.JWT.ParseRefreshToken(pair.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, "u1", access.UserID)
	assert.Equal(t, "u1", refresh.UserID)
	// Both tokens belong to the same session.
	assert.NotEmpty(t, access.SessionID)
	assert.Equal(t, access.SessionID, refresh.SessionID)
	assert.True(t, pair.RefreshTokenExpiry.After(pair.AccessTokenExpiry))
}

func TestAuthService_RefreshRotatesPair(t *testing.T) {
	users := new(mockUserRepository)
	users.On("GetByID", mock.Anything, "u1").Return(&entity.User{ID: "u1", Email: "a@b.c"}, nil)

	svc := newAuthService(users)
	pair, err := svc.IssueTokens(context.Background(), &entity.User{ID: "u1", Email: "a@b.c"})
	require.NoError(t, err)

	u, next, err := svc.Refresh(context.Background(), pair.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, "u1", u.ID)
	assert.NotEqual(t, pair.RefreshToken, next.RefreshToken)
}

func TestAuthService_RefreshRejectsGarbage(t *testing.T) {
	svc := newAuthService(new(mockUserRepository))
	_, _, err := svc.Refresh(context.Background(), "not-a-token")
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindAuth))
}

func TestAuthService_RefreshStoreFailure(t *testing.T) {
	users := new(mockUserRepository)
	users.On("GetByID", mock.Anything, "u1").Return(nil, apperr.Internal(errors.New("connection refused")))

	svc := newAuthService(users)
	pair, err := svc.IssueTokens(context.Background(), &entity.User{ID: "u1"})
	require.NoError(t, err)

	_, _, err = svc.Refresh(context.Background(), pair.RefreshToken)
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindInternal))
}

func TestAuthService_RefreshRejectsBanned(t *testing.T) {
	users := new(mockUserRepository)
	users.On("GetByID", mock.Anything, "u1").Return(&entity.User{ID: "u1", IsBanned: true}, nil)

	svc := newAuthService(users)
	pair, err := svc.IssueTokens(context.Background(), &entity.User{ID: "u1"})
	require.NoError(t, err)

	_, _, err = svc.Refresh(context.Background(), pair.RefreshToken)
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindForbidden))
}

func TestAuthService_LogoutClearsOnlineMirror(t *testing.T) {
	users := new(mockUserRepository)
	users.On("SetOnline", mock.Anything, "u1", false).Return(nil)

	svc := newAuthService(users)
	require.NoError(t, svc.Logout(context.Background(), "u1"))
	users.AssertExpectations(t)
}

func TestAuthService_UpdateProfilePlainURL(t *testing.T) {
	users := new(mockUserRepository)
	users.On("UpdateAvatar", mock.Anything, "u1", "https://cdn.example.com/a.png").Return(nil)

	svc := newAuthService(users)
	url, err := svc.UpdateProfile(context.Background(), "u1", "https://cdn.example.com/a.png")
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/a.png", url)
	users.AssertExpectations(t)
}

func TestAuthService_UpdateProfileInlineImageWithoutBucket(t *testing.T) {
	svc := newAuthService(new(mockUserRepository))
	_, err := svc.UpdateProfile(context.Background(), "u1", "data:image/png;base64,aGVsbG8=")
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindValidation))
}
