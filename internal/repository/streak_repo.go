package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"tamariki-backend/internal/models"
)

type StreakRepo struct {
	pool *pgxpool.Pool
}

func NewStreakRepo(pool *pgxpool.Pool) *StreakRepo {
	return &StreakRepo{pool: pool}
}

func (r *StreakRepo) Get(ctx context.Context, studentID int64) (*models.StreakState, error) {
	s := &models.StreakState{StudentID: studentID}
	err := r.pool.QueryRow(ctx, `
		SELECT streak_days, last_streak_date::text
		FROM streaks
		WHERE student_id = $1
	`, studentID).Scan(&s.StreakDays, &s.LastStreakDate)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// Increment applies the daily streak transition under a row lock so
// concurrent calls for the same student serialize instead of both
// observing the stale date and double-crediting the day.
func (r *StreakRepo) Increment(ctx context.Context, studentID int64, today, yesterday string) (*models.StreakState, bool, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, false, err
	}
	defer tx.Rollback(ctx)

	s := &models.StreakState{StudentID: studentID}
	err = tx.QueryRow(ctx, `
		SELECT streak_days, last_streak_date::text
		FROM streaks
		WHERE student_id = $1
		FOR UPDATE
	`, studentID).Scan(&s.StreakDays, &s.LastStreakDate)
	if err != nil {
		return nil, false, err
	}

	incremented := s.Credit(today, yesterday)
	if incremented {
		_, err = tx.Exec(ctx, `
			UPDATE streaks
			SET streak_days = $2,
				last_streak_date = $3::date,
				updated_at = NOW()
			WHERE student_id = $1
		`, studentID, s.StreakDays, *s.LastStreakDate)
		if err != nil {
			return nil, false, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, false, err
	}
	return s, incremented, nil
}
