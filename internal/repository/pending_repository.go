package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/anonrelay/internal/domain"
)

// PendingRepository manages the moderation queue rows. Rows exist only while
// a submission awaits a decision.
type PendingRepository interface {
	Insert(ctx context.Context, sub *domain.PendingSubmission) error
	GetByID(ctx context.Context, id int64) (*domain.PendingSubmission, error)
	List(ctx context.Context) ([]domain.PendingSubmission, error)
	// DeleteReturning removes the row and returns it in one statement, so a
	// concurrent decide on the same id cannot also succeed. pgx.ErrNoRows
	// means the submission was already handled.
	DeleteReturning(ctx context.Context, id int64) (*domain.PendingSubmission, error)
}

type pendingRepository struct {
	pool *pgxpool.Pool
}

// NewPendingRepository returns a Postgres-backed implementation.
func NewPendingRepository(pool *pgxpool.Pool) PendingRepository {
	return &pendingRepository{pool: pool}
}

func (r *pendingRepository) Insert(ctx context.Context, sub *domain.PendingSubmission) error {
	const query = `
        INSERT INTO pending_submissions (user_id, content_ref, kind, caption)
        VALUES ($1, $2, $3, $4)
        RETURNING id, created_at`

	return r.pool.QueryRow(ctx, query,
		sub.UserID,
		sub.ContentRef,
		sub.Kind,
		sub.Caption,
	).Scan(&sub.ID, &sub.CreatedAt)
}

func (r *pendingRepository) GetByID(ctx context.Context, id int64) (*domain.PendingSubmission, error) {
	const query = `
        SELECT id, user_id, content_ref, kind, caption, created_at
        FROM pending_submissions WHERE id=$1`

	var sub domain.PendingSubmission
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&sub.ID,
		&sub.UserID,
		&sub.ContentRef,
		&sub.Kind,
		&sub.Caption,
		&sub.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &sub, nil
}

func (r *pendingRepository) List(ctx context.Context) ([]domain.PendingSubmission, error) {
	const query = `
        SELECT id, user_id, content_ref, kind, caption, created_at
        FROM pending_submissions ORDER BY id`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var subs []domain.PendingSubmission
	for rows.Next() {
		var sub domain.PendingSubmission
		if err := rows.Scan(
			&sub.ID,
			&sub.UserID,
			&sub.ContentRef,
			&sub.Kind,
			&sub.Caption,
			&sub.CreatedAt,
		); err != nil {
			return nil, err
		}
		subs = append(subs, sub)
	}
	return subs, rows.Err()
}

func (r *pendingRepository) DeleteReturning(ctx context.Context, id int64) (*domain.PendingSubmission, error) {
	const query = `
        DELETE FROM pending_submissions WHERE id=$1
        RETURNING id, user_id, content_ref, kind, caption, created_at`

	var sub domain.PendingSubmission
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&sub.ID,
		&sub.UserID,
		&sub.ContentRef,
		&sub.Kind,
		&sub.Caption,
		&sub.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &sub, nil
}
