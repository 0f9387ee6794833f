package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/anonrelay/internal/domain"
)

// AdminRepository manages the administrator set.
type AdminRepository interface {
	Add(ctx context.Context, admin *domain.Administrator) error
	Remove(ctx context.Context, id int64) error
	GetByID(ctx context.Context, id int64) (*domain.Administrator, error)
	IsAdmin(ctx context.Context, id int64) (bool, error)
	List(ctx context.Context) ([]domain.Administrator, error)
}

type adminRepository struct {
	pool *pgxpool.Pool
}

// NewAdminRepository returns a Postgres-backed implementation.
func NewAdminRepository(pool *pgxpool.Pool) AdminRepository {
	return &adminRepository{pool: pool}
}

func (r *adminRepository) Add(ctx context.Context, admin *domain.Administrator) error {
	const query = `
        INSERT INTO administrators (admin_id, display_name, password_hash)
        VALUES ($1, $2, $3)
        ON CONFLICT (admin_id) DO UPDATE
            SET display_name=EXCLUDED.display_name, password_hash=EXCLUDED.password_hash
        RETURNING created_at`

	return r.pool.QueryRow(ctx, query,
		admin.ID,
		admin.DisplayName,
		admin.PasswordHash,
	).Scan(&admin.CreatedAt)
}

func (r *adminRepository) Remove(ctx context.Context, id int64) error {
	const query = `DELETE FROM administrators WHERE admin_id=$1`

	cmd, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *adminRepository) GetByID(ctx context.Context, id int64) (*domain.Administrator, error) {
	const query = `
        SELECT admin_id, display_name, password_hash, created_at
        FROM administrators WHERE admin_id=$1`

	var admin domain.Administrator
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&admin.ID,
		&admin.DisplayName,
		&admin.PasswordHash,
		&admin.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &admin, nil
}

func (r *adminRepository) IsAdmin(ctx context.Context, id int64) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM administrators WHERE admin_id=$1)`
	var ok bool
	if err := r.pool.QueryRow(ctx, query, id).Scan(&ok); err != nil {
		return false, err
	}
	return ok, nil
}

func (r *adminRepository) List(ctx context.Context) ([]domain.Administrator, error) {
	const query = `
        SELECT admin_id, display_name, password_hash, created_at
        FROM administrators ORDER BY admin_id`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var admins []domain.Administrator
	for rows.Next() {
		var admin domain.Administrator
		if err := rows.Scan(&admin.ID, &admin.DisplayName, &admin.PasswordHash, &admin.CreatedAt); err != nil {
			return nil, err
		}
		admins = append(admins, admin)
	}
	return admins, rows.Err()
}
