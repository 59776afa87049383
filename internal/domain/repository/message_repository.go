package repository

import (
	"context"

	"github.com/famcare/chat-service/internal/domain/entity"
)

// MessageRepository defines persistence operations for the conversation log.
type MessageRepository interface {
	Create(ctx context.Context, m *entity.Message) error
	// Conversation returns messages between userA and userB in either
	// direction, ascending by creation time, windowed by page/limit.
	Conversation(ctx context.Context, userA, userB string, page, limit int) ([]*entity.Message, error)
}
