package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Jayasawar1325/backend-series/internal/domain/entity"
	"github.com/Jayasawar1325/backend-series/internal/domain/repository"
)

const userColumns = `id, username, email, full_name, password_hash, avatar_url,
		cover_image_url, refresh_token, watch_history, created_at, updated_at`

type UserRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

func scanUser(row pgx.Row) (*entity.User, error) {
	u := &entity.User{}
	if err := row.Scan(&u.ID, &u.Username, &u.Email, &u.FullName, &u.PasswordHash,
		&u.AvatarURL, &u.CoverImageURL, &u.RefreshToken, &u.WatchHistory,
		&u.CreatedAt, &u.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return u, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

func (r *UserRepository) Create(u *entity.User) error {
	ctx := context.Background()
	row := r.pool.QueryRow(ctx, `
		INSERT INTO users (username, email, full_name, password_hash, avatar_url, cover_image_url)
		VALUES (lower($1), lower($2), $3, $4, $5, $6)
		RETURNING id, username, email, created_at, updated_at
	`, u.Username, u.Email, u.FullName, u.PasswordHash, u.AvatarURL, u.CoverImageURL)

	if err := row.Scan(&u.ID, &u.Username, &u.Email, &u.CreatedAt, &u.UpdatedAt); err != nil {
		if isUniqueViolation(err) {
			return repository.ErrDuplicate
		}
		return err
	}
	return nil
}

func (r *UserRepository) GetByID(id string) (*entity.User, error) {
	row := r.pool.QueryRow(context.Background(), `
		SELECT `+userColumns+`
		FROM users
		WHERE id = $1
	`, id)
	return scanUser(row)
}

func (r *UserRepository) GetByEmail(email string) (*entity.User, error) {
	row := r.pool.QueryRow(context.Background(), `
		SELECT `+userColumns+`
		FROM users
		WHERE email = lower($1)
	`, email)
	return scanUser(row)
}

func (r *UserRepository) ExistsByEmailOrUsername(email, username string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(context.Background(), `
		SELECT EXISTS(
			SELECT 1 FROM users
			WHERE email = lower($1) OR username = lower($2)
		)
	`, email, username).Scan(&exists)
	return exists, err
}

func (r *UserRepository) Update(u *entity.User) error {
	ctx := context.Background()
	u.UpdatedAt = time.Now()

	res, err := r.pool.Exec(ctx, `
		UPDATE users
		SET email = lower($1), full_name = $2, avatar_url = $3, cover_image_url = $4, updated_at = $5
		WHERE id = $6
	`, u.Email, u.FullName, u.AvatarURL, u.CoverImageURL, u.UpdatedAt, u.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return repository.ErrDuplicate
		}
		return err
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *UserRepository) UpdatePassword(id, hash string) error {
	res, err := r.pool.Exec(context.Background(), `
		UPDATE users SET password_hash = $1, updated_at = now() WHERE id = $2
	`, hash, id)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *UserRepository) SetRefreshToken(id string, token *string) error {
	res, err := r.pool.Exec(context.Background(), `
		UPDATE users SET refresh_token = $1, updated_at = now() WHERE id = $2
	`, token, id)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// RotateRefreshToken is the compare-and-set that makes refresh tokens
// single-use: of two concurrent rotations with the same presented token,
// only one matches the stored value.
func (r *UserRepository) RotateRefreshToken(id, presented, next string) (bool, error) {
	res, err := r.pool.Exec(context.Background(), `
		UPDATE users SET refresh_token = $1, updated_at = now()
		WHERE id = $2 AND refresh_token = $3
	`, next, id, presented)
	if err != nil {
		return false, err
	}
	return res.RowsAffected() == 1, nil
}

func (r *UserRepository) GetChannelProfile(username, viewerID string) (*entity.ChannelProfile, error) {
	p := &entity.ChannelProfile{}
	row := r.pool.QueryRow(context.Background(), `
		SELECT u.id, u.username, u.email, u.full_name, u.avatar_url, u.cover_image_url,
			(SELECT count(*) FROM subscriptions s WHERE s.channel_id = u.id)    AS subscriber_count,
			(SELECT count(*) FROM subscriptions s WHERE s.subscriber_id = u.id) AS channel_subscribed_to_count,
			EXISTS(
				SELECT 1 FROM subscriptions s
				WHERE s.channel_id = u.id AND s.subscriber_id::text = $2
			) AS is_subscribed
		FROM users u
		WHERE u.username = lower($1)
	`, username, viewerID)

	if err := row.Scan(&p.ID, &p.Username, &p.Email, &p.FullName, &p.AvatarURL,
		&p.CoverImageURL, &p.SubscriberCount, &p.ChannelSubscribedToCount,
		&p.IsSubscribed); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return p, nil
}

func (r *UserRepository) GetWatchHistory(id string) ([]string, error) {
	var history []string
	err := r.pool.QueryRow(context.Background(), `
		SELECT watch_history FROM users WHERE id = $1
	`, id).Scan(&history)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return history, nil
}

var _ repository.UserRepository = (*UserRepository)(nil)
