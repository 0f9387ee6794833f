package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/anonrelay/internal/domain"
)

// ErrAliasTaken is returned when the alias unique index rejects an update.
// The index is the final arbiter of alias-collision races.
var ErrAliasTaken = errors.New("alias already taken")

const uniqueViolation = "23505"

// UserRepository defines persistence access for relay users.
type UserRepository interface {
	// Get returns the user, creating a blank row on first contact.
	Get(ctx context.Context, id int64) (*domain.User, error)
	SetAlias(ctx context.Context, id int64, alias string) error
	SetBan(ctx context.Context, id int64, banned bool) error
	UpdateLastSubmission(ctx context.Context, id int64, at time.Time) error
	AliasTaken(ctx context.Context, alias string) (bool, error)
}

type userRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository returns a Postgres-backed implementation.
func NewUserRepository(pool *pgxpool.Pool) UserRepository {
	return &userRepository{pool: pool}
}

func (r *userRepository) Get(ctx context.Context, id int64) (*domain.User, error) {
	const insert = `
        INSERT INTO users (user_id)
        VALUES ($1)
        ON CONFLICT (user_id) DO NOTHING`
	if _, err := r.pool.Exec(ctx, insert, id); err != nil {
		return nil, err
	}

	const query = `
        SELECT user_id, alias, last_submission_at, banned, created_at
        FROM users WHERE user_id=$1`

	var user domain.User
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&user.ID,
		&user.Alias,
		&user.LastSubmissionAt,
		&user.Banned,
		&user.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) SetAlias(ctx context.Context, id int64, alias string) error {
	const query = `UPDATE users SET alias=$1 WHERE user_id=$2`

	cmd, err := r.pool.Exec(ctx, query, alias, id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return ErrAliasTaken
		}
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *userRepository) SetBan(ctx context.Context, id int64, banned bool) error {
	const query = `UPDATE users SET banned=$1 WHERE user_id=$2`

	cmd, err := r.pool.Exec(ctx, query, banned, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *userRepository) UpdateLastSubmission(ctx context.Context, id int64, at time.Time) error {
	const query = `UPDATE users SET last_submission_at=$1 WHERE user_id=$2`
	_, err := r.pool.Exec(ctx, query, at, id)
	return err
}

func (r *userRepository) AliasTaken(ctx context.Context, alias string) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM users WHERE alias=$1)`
	var taken bool
	if err := r.pool.QueryRow(ctx, query, alias).Scan(&taken); err != nil {
		return false, err
	}
	return taken, nil
}
