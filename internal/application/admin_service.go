package application

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/famcare/chat-service/internal/domain/entity"
	repo "github.com/famcare/chat-service/internal/domain/repository"
)

// AdminService implements the admin-only moderation operations. Privilege
// is enforced by the middleware; these methods assume an admin caller.
type AdminService struct {
	Users  repo.UserRepository
	Logger *logrus.Logger
}

func NewAdminService(users repo.UserRepository, logger *logrus.Logger) *AdminService {
	return &AdminService{Users: users, Logger: logger}
}

// Ban flags the user. An already-banned user stays banned; the write is
// idempotent.
func (s *AdminService) Ban(ctx context.Context, userID string) error {
	return s.Users.SetBanned(ctx, userID, true)
}

func (s *AdminService) Unban(ctx context.Context, userID string) error {
	return s.Users.SetBanned(ctx, userID, false)
}

func (s *AdminService) ListBanned(ctx context.Context) ([]*entity.User, error) {
	return s.Users.ListBanned(ctx)
}
