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

const pgUniqueViolation = "23505"

const userColumns = `id, name, email, password_hash, role, avatar_url, is_online, is_banned, is_admin, created_at, updated_at`

type UserRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

func scanUser(row pgx.Row) (*entity.User, error) {
	u := &entity.User{}
	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.Password, &u.Role, &u.AvatarURL,
		&u.IsOnline, &u.IsBanned, &u.IsAdmin, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("user not found")
		}
		return nil, apperr.Internal(err)
	}
	return u, nil
}

// Create inserts the user and fills in the generated id and timestamps.
// The unique index on email is the authority for duplicate detection, so a
// concurrent signup race still yields exactly one conflict.
func (r *UserRepository) Create(ctx context.Context, u *entity.User) error {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO users (name, email, password_hash, role, avatar_url, is_admin)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at
	`, u.Name, u.Email, u.Password, u.Role, u.AvatarURL, u.IsAdmin)

	if err := row.Scan(&u.ID, &u.CreatedAt, &u.UpdatedAt); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return apperr.Conflict("email already used")
		}
		return apperr.Internal(err)
	}
	return nil
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*entity.User, error) {
	return scanUser(r.pool.QueryRow(ctx, `
		SELECT `+userColumns+`
		FROM users
		WHERE id = $1
	`, id))
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	return scanUser(r.pool.QueryRow(ctx, `
		SELECT `+userColumns+`
		FROM users
		WHERE email = $1
	`, email))
}

func (r *UserRepository) ListContacts(ctx context.Context, excludeID string) ([]*entity.User, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+userColumns+`
		FROM users
		WHERE id <> $1 AND is_banned = false
		ORDER BY name, id
	`, excludeID)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	defer rows.Close()
	return collectUsers(rows)
}

func (r *UserRepository) ListBanned(ctx context.Context) ([]*entity.User, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+userColumns+`
		FROM users
		WHERE is_banned = true
		ORDER BY name, id
	`)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	defer rows.Close()
	return collectUsers(rows)
}

func collectUsers(rows pgx.Rows) ([]*entity.User, error) {
	users := make([]*entity.User, 0)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Internal(err)
	}
	return users, nil
}

func (r *UserRepository) SetOnline(ctx context.Context, id string, online bool) error {
	return r.setFlag(ctx, `UPDATE users SET is_online = $1, updated_at = now() WHERE id = $2`, online, id)
}

func (r *UserRepository) SetBanned(ctx context.Context, id string, banned bool) error {
	return r.setFlag(ctx, `UPDATE users SET is_banned = $1, updated_at = now() WHERE id = $2`, banned, id)
}

func (r *UserRepository) setFlag(ctx context.Context, query string, value bool, id string) error {
	res, err := r.pool.Exec(ctx, query, value, id)
	if err != nil {
		return apperr.Internal(err)
	}
	if res.RowsAffected() == 0 {
		return apperr.NotFound("user not found")
	}
	return nil
}

func (r *UserRepository) UpdateAvatar(ctx context.Context, id, avatarURL string) error {
	res, err := r.pool.Exec(ctx, `
		UPDATE users SET avatar_url = $1, updated_at = now() WHERE id = $2
	`, avatarURL, id)
	if err != nil {
		return apperr.Internal(err)
	}
	if res.RowsAffected() == 0 {
		return apperr.NotFound("user not found")
	}
	return nil
}

var _ repository.UserRepository = (*UserRepository)(nil)
