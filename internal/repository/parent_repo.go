package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"tamariki-backend/internal/models"
)

type ParentRepo struct {
	pool *pgxpool.Pool
}

func NewParentRepo(pool *pgxpool.Pool) *ParentRepo {
	return &ParentRepo{pool: pool}
}

func (r *ParentRepo) Create(ctx context.Context, p *models.Parent) error {
	return r.pool.QueryRow(ctx, `
		INSERT INTO parents (email, password_hash, full_name)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`, p.Email, p.PasswordHash, p.FullName).Scan(&p.ID, &p.CreatedAt)
}

func (r *ParentRepo) GetByEmail(ctx context.Context, email string) (*models.Parent, error) {
	p := &models.Parent{}
	err := r.pool.QueryRow(ctx, `
		SELECT id, email, password_hash, full_name, created_at
		FROM parents
		WHERE email = $1
	`, email).Scan(&p.ID, &p.Email, &p.PasswordHash, &p.FullName, &p.CreatedAt)
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (r *ParentRepo) GetByID(ctx context.Context, id int64) (*models.Parent, error) {
	p := &models.Parent{}
	err := r.pool.QueryRow(ctx, `
		SELECT id, email, password_hash, full_name, created_at
		FROM parents
		WHERE id = $1
	`, id).Scan(&p.ID, &p.Email, &p.PasswordHash, &p.FullName, &p.CreatedAt)
	if err != nil {
		return nil, err
	}
	return p, nil
}
