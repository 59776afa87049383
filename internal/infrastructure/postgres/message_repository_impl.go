package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/famcare/chat-service/internal/domain/apperr"
	"github.com/famcare/chat-service/internal/domain/entity"
	"github.com/famcare/chat-service/internal/domain/repository"
)

const pgForeignKeyViolation = "23503"

type MessageRepository struct {
	pool *pgxpool.Pool
}

func NewMessageRepository(pool *pgxpool.Pool) *MessageRepository {
	return &MessageRepository{pool: pool}
}

// Create appends the message and fills in the generated id and creation time.
// Foreign keys on sender/receiver back up the service-level existence check.
func (r *MessageRepository) Create(ctx context.Context, m *entity.Message) error {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO messages (sender_id, receiver_id, text, image_url)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`, m.SenderID, m.ReceiverID, m.Text, m.ImageURL)

	if err := row.Scan(&m.ID, &m.CreatedAt); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgForeignKeyViolation {
			return apperr.NotFound("receiver not found")
		}
		return apperr.Internal(err)
	}
	return nil
}

// Conversation fetches both directions of the pair, oldest first. The two
// compound indexes on (sender_id, receiver_id, created_at) keep either
// direction of the OR cheap.
func (r *MessageRepository) Conversation(ctx context.Context, userA, userB string, page, limit int) ([]*entity.Message, error) {
	if page < 1 {
		page = 1
	}
	offset := (page - 1) * limit

	rows, err := r.pool.Query(ctx, `
		SELECT id, sender_id, receiver_id, text, image_url, created_at
		FROM messages
		WHERE (sender_id = $1 AND receiver_id = $2)
		   OR (sender_id = $2 AND receiver_id = $1)
		ORDER BY created_at, id
		OFFSET $3 LIMIT $4
	`, userA, userB, offset, limit)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	defer rows.Close()

	messages := make([]*entity.Message, 0)
	for rows.Next() {
		m := &entity.Message{}
		if err := rows.Scan(&m.ID, &m.SenderID, &m.ReceiverID, &m.Text, &m.ImageURL, &m.CreatedAt); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				break
			}
			return nil, apperr.Internal(err)
		}
		messages = append(messages, m)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Internal(err)
	}
	return messages, nil
}

var _ repository.MessageRepository = (*MessageRepository)(nil)
