package repository

import (
	"context"

	"github.com/famcare/chat-service/internal/domain/entity"
)

// UserRepository defines persistence operations for user records.
// Implementations translate storage errors into the apperr taxonomy;
// in particular Create maps a unique-violation on email to a conflict.
type UserRepository interface {
	Create(ctx context.Context, u *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	// ListContacts returns every user except excludeID, banned users omitted.
	ListContacts(ctx context.Context, excludeID string) ([]*entity.User, error)
	ListBanned(ctx context.Context) ([]*entity.User, error)
	SetOnline(ctx context.Context, id string, online bool) error
	SetBanned(ctx context.Context, id string, banned bool) error
	UpdateAvatar(ctx context.Context, id, avatarURL string) error
}
