package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"tamariki-backend/internal/models"
)

type StudentRepo struct {
	pool *pgxpool.Pool
}

func NewStudentRepo(pool *pgxpool.Pool) *StudentRepo {
	return &StudentRepo{pool: pool}
}

// Create inserts the student and its zero-value streak row together,
// so a student always has streak state from the moment it exists.
func (r *StudentRepo) Create(ctx context.Context, s *models.Student) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	err = tx.QueryRow(ctx, `
		INSERT INTO students (parent_id, first_name, year_level)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`, s.ParentID, s.FirstName, s.YearLevel).Scan(&s.ID, &s.CreatedAt)
	if err != nil {
		return err
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO streaks (student_id, streak_days, last_streak_date)
		VALUES ($1, 0, NULL)
	`, s.ID)
	if err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func (r *StudentRepo) ListByParent(ctx context.Context, parentID int64) ([]models.Student, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, parent_id, first_name, year_level, created_at
		FROM students
		WHERE parent_id = $1
		ORDER BY created_at ASC
	`, parentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	students := []models.Student{}
	for rows.Next() {
		var s models.Student
		if err := rows.Scan(&s.ID, &s.ParentID, &s.FirstName, &s.YearLevel, &s.CreatedAt); err != nil {
			return nil, err
		}
		students = append(students, s)
	}
	return students, rows.Err()
}

func (r *StudentRepo) GetByID(ctx context.Context, id int64) (*models.Student, error) {
	s := &models.Student{}
	err := r.pool.QueryRow(ctx, `
		SELECT id, parent_id, first_name, year_level, created_at
		FROM students
		WHERE id = $1
	`, id).Scan(&s.ID, &s.ParentID, &s.FirstName, &s.YearLevel, &s.CreatedAt)
	if err != nil {
		return nil, err
	}
	return s, nil
}
