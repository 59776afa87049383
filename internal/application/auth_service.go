package application

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"path"
	"time"

	"cloud.google.com/go/storage"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/famcare/chat-service/internal/domain/apperr"
	"github.com/famcare/chat-service/internal/domain/entity"
	repo "github.com/famcare/chat-service/internal/domain/repository"
	"github.com/famcare/chat-service/pkg/helpers"
)

// AuthService implements the credential store and session issuer operations.
type AuthService struct {
	Users      repo.UserRepository
	JWT        *helpers.JWTManager
	Redis      *redis.Client
	Logger     *logrus.Logger
	GCS        *storage.Client
	GCSBucket  string
	SessionTTL time.Duration
}

func NewAuthService(users repo.UserRepository, jwt *helpers.JWTManager, rdb *redis.Client, logger *logrus.Logger, gcs *storage.Client, gcsBucket string, sessionTTL time.Duration) *AuthService {
	if sessionTTL <= 0 {
		sessionTTL = 24 * time.Hour
	}
	return &AuthService{
		Users:      users,
		JWT:        jwt,
		Redis:      rdb,
		Logger:     logger,
		GCS:        gcs,
		GCSBucket:  gcsBucket,
		SessionTTL: sessionTTL,
	}
}

type TokenPair struct {
	AccessToken        string
	AccessTokenExpiry  time.Time
	RefreshToken       string
	RefreshTokenExpiry time.Time
}

func sessionKey(userID string) string {
	return "user:session:" + userID
}

// Register creates a user with a bcrypt-hashed password and returns it.
// Field validation happens at binding time; the email unique constraint is
// the final authority on duplicates, so a lost race still conflicts cleanly.
func (s *AuthService) Register(ctx context.Context, name, email, password, role string) (*entity.User, error) {
	if !entity.ValidRole(role) {
		return nil, apperr.Validation("invalid role")
	}
	hash, err := helpers.HashPassword(password)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	u := &entity.User{
		Name:     name,
		Email:    email,
		Password: hash,
		Role:     role,
	}
	if err := s.Users.Create(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// Login verifies credentials, rejects banned accounts, and flips the
// persisted online mirror. The mirror write is best-effort.
func (s *AuthService) Login(ctx context.Context, email, password string) (*entity.User, error) {
	u, err := s.Users.GetByEmail(ctx, email)
	if err != nil {
		// Only an absent account reads as bad credentials; a storage
		// failure must surface as the internal error it is.
		if apperr.IsKind(err, apperr.KindNotFound) {
			return nil, apperr.Auth("invalid credentials")
		}
		return nil, err
	}
	if u.IsBanned {
		return nil, apperr.Forbidden("account is banned")
	}
	if !helpers.CompareHashAndPassword(u.Password, password) {
		return nil, apperr.Auth("invalid credentials")
	}
	if err := s.Users.SetOnline(ctx, u.ID, true); err != nil {
		s.Logger.WithError(err).WithField("user_id", u.ID).Warn("set online mirror on login")
	} else {
		u.IsOnline = true
	}
	return u, nil
}

// AutoLogin resolves an identity for a trusted upstream caller: fetch the
// user by email, or create one on first contact. No password check; the
// handler gates this path behind the service token.
func (s *AuthService) AutoLogin(ctx context.Context, name, email, role string) (*entity.User, error) {
	u, err := s.Users.GetByEmail(ctx, email)
	if err == nil && u != nil {
		if u.IsBanned {
			return nil, apperr.Forbidden("account is banned")
		}
		return u, nil
	}
	if !apperr.IsKind(err, apperr.KindNotFound) {
		return nil, err
	}
	if !entity.ValidRole(role) {
		role = entity.RoleMother
	}
	// Provision with an unguessable password; the strict login path stays
	// closed until the user sets one through a real signup flow.
	hash, err := helpers.HashPassword(randomSecret())
	if err != nil {
		return nil, apperr.Internal(err)
	}
	u = &entity.User{Name: name, Email: email, Password: hash, Role: role}
	if err := s.Users.Create(ctx, u); err != nil {
		if apperr.IsKind(err, apperr.KindConflict) {
			// Lost a concurrent first-contact race; the record exists now.
			return s.Users.GetByEmail(ctx, email)
		}
		return nil, err
	}
	return u, nil
}

// IssueTokens generates an access/refresh pair and records the session in
// Redis under a fresh session id.
func (s *AuthService) IssueTokens(ctx context.Context, u *entity.User) (TokenPair, error) {
	sid := uuid.NewString()
	access, aexp, err := s.JWT.GenerateAccessToken(u.ID, sid)
	if err != nil {
		return TokenPair{}, apperr.Internal(err)
	}
	refresh, rexp, err := s.JWT.GenerateRefreshToken(u.ID, sid)
	if err != nil {
		return TokenPair{}, apperr.Internal(err)
	}

	if s.Redis != nil {
		key := sessionKey(u.ID)
		pipe := s.Redis.Pipeline()
		pipe.HSet(ctx, key, map[string]any{
			"user_id":    u.ID,
			"email":      u.Email,
			"name":       u.Name,
			"sid":        sid,
			"created_at": time.Now().UTC().Format(time.RFC3339Nano),
		})
		pipe.Expire(ctx, key, s.SessionTTL)
		if _, err := pipe.Exec(ctx); err != nil {
			s.Logger.WithError(err).WithField("key", key).Warn("redis session write failed")
		}
	}

	return TokenPair{AccessToken: access, AccessTokenExpiry: aexp, RefreshToken: refresh, RefreshTokenExpiry: rexp}, nil
}

// Refresh validates the refresh token against the current session id and
// rotates both.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*entity.User, TokenPair, error) {
	claims, err := s.JWT.ParseRefreshToken(refreshToken)
	if err != nil {
		return nil, TokenPair{}, apperr.Auth("invalid refresh token")
	}
	u, err := s.Users.GetByID(ctx, claims.UserID)
	if err != nil {
		if apperr.IsKind(err, apperr.KindNotFound) {
			return nil, TokenPair{}, apperr.Auth("invalid refresh token")
		}
		return nil, TokenPair{}, err
	}
	if u.IsBanned {
		return nil, TokenPair{}, apperr.Forbidden("account is banned")
	}
	if s.Redis != nil {
		data, err := s.Redis.HGetAll(ctx, sessionKey(u.ID)).Result()
		if err != nil || len(data) == 0 || data["sid"] != claims.SessionID {
			return nil, TokenPair{}, apperr.Auth("session not found")
		}
	}
	pair, err := s.IssueTokens(ctx, u)
	if err != nil {
		return nil, TokenPair{}, err
	}
	return u, pair, nil
}

// Logout clears the online mirror and revokes the server-side session
// record. Tokens a client retains out-of-band stay valid until expiry; the
// session check in the middleware is what cuts them off.
func (s *AuthService) Logout(ctx context.Context, userID string) error {
	if err := s.Users.SetOnline(ctx, userID, false); err != nil {
		s.Logger.WithError(err).WithField("user_id", userID).Warn("set offline mirror on logout")
	}
	if s.Redis != nil {
		if err := s.Redis.Del(ctx, sessionKey(userID)).Err(); err != nil {
			s.Logger.WithError(err).WithField("user_id", userID).Warn("delete session record")
		}
	}
	return nil
}

// Profile returns the current user projection.
func (s *AuthService) Profile(ctx context.Context, userID string) (*entity.User, error) {
	return s.Users.GetByID(ctx, userID)
}

// UpdateProfile stores a new profile image reference. Inline data-URI
// payloads are uploaded to GCS when a bucket is configured; plain references
// are stored as-is.
func (s *AuthService) UpdateProfile(ctx context.Context, userID, imageRef string) (string, error) {
	url, err := s.resolveImageRef(ctx, userID, imageRef)
	if err != nil {
		return "", err
	}
	if err := s.Users.UpdateAvatar(ctx, userID, url); err != nil {
		return "", err
	}
	return url, nil
}

func (s *AuthService) resolveImageRef(ctx context.Context, userID, imageRef string) (string, error) {
	ct, data, ok := helpers.ParseDataURI(imageRef)
	if !ok {
		return imageRef, nil
	}
	if s.GCS == nil || s.GCSBucket == "" {
		return "", apperr.Validation("inline image upload is not configured")
	}
	object := path.Join("avatars", userID, uuid.NewString()+helpers.ExtForContentType(ct))
	url, err := helpers.UploadBytesToGCS(ctx, s.GCS, s.GCSBucket, object, ct, data)
	if err != nil {
		return "", apperr.Internal(err)
	}
	return url, nil
}

func randomSecret() string {
	b := make([]byte, 32)
	_, _ = rand.Read(b)
	return base64.RawURLEncoding.EncodeToString(b)
}
