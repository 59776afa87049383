package application

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/famcare/chat-service/internal/domain/entity"
)

type mockUserRepository struct {
	mock.Mock
}

func (m *mockUserRepository) Create(ctx context.Context, u *entity.User) error {
	args := m.Called(ctx, u)
	return args.Error(0)
}

func (m *mockUserRepository) GetByID(ctx context.Context, id string) (*entity.User, error) {
	args := m.Called(ctx, id)
	u, _ := args.Get(0).(*entity.User)
	return u, args.Error(1)
}

func (m *mockUserRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	args := m.Called(ctx, email)
	u, _ := args.Get(0).(*entity.User)
	return u, args.Error(1)
}

func (m *mockUserRepository) ListContacts(ctx context.Context, excludeID string) ([]*entity.User, error) {
	args := m.Called(ctx, excludeID)
	us, _ := args.Get(0).([]*entity.User)
	return us, args.Error(1)
}

func (m *mockUserRepository) ListBanned(ctx context.Context) ([]*entity.User, error) {
	args := m.Called(ctx)
	us, _ := args.Get(0).([]*entity.User)
	return us, args.Error(1)
}

func (m *mockUserRepository) SetOnline(ctx context.Context, id string, online bool) error {
	args := m.Called(ctx, id, online)
	return args.Error(0)
}

func (m *mockUserRepository) SetBanned(ctx context.Context, id string, banned bool) error {
	args := m.Called(ctx, id, banned)
	return args.Error(0)
}

func (m *mockUserRepository) UpdateAvatar(ctx context.Context, id, avatarURL string) error {
	args := m.Called(ctx, id, avatarURL)
	return args.Error(0)
}

type mockMessageRepository struct {
	mock.Mock
}

func (m *mockMessageRepository) Create(ctx context.Context, msg *entity.Message) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}

func (m *mockMessageRepository) Conversation(ctx context.Context, userA, userB string, page, limit int) ([]*entity.Message, error) {
	args := m.Called(ctx, userA, userB, page, limit)
	ms, _ := args.Get(0).([]*entity.Message)
	return ms, args.Error(1)
}
