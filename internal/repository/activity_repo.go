package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"tamariki-backend/internal/models"
)

type ActivityRepo struct {
	pool *pgxpool.Pool
}

func NewActivityRepo(pool *pgxpool.Pool) *ActivityRepo {
	return &ActivityRepo{pool: pool}
}

// Log appends the activity entry and folds it into the daily rollup in
// one transaction. The additive ON CONFLICT update means concurrent
// logs for the same student+day never lose minutes or counts.
func (r *ActivityRepo) Log(ctx context.Context, e *models.ActivityLogEntry, sessionDate string) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	err = tx.QueryRow(ctx, `
		INSERT INTO activity_log (student_id, activity_type, subject, content_title, duration_minutes, completed)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`, e.StudentID, e.ActivityType, e.Subject, e.ContentTitle, e.DurationMinutes, e.Completed).Scan(&e.ID, &e.CreatedAt)
	if err != nil {
		return err
	}

	lessons, videos, games := 0, 0, 0
	switch e.ActivityType {
	case models.ActivityLesson:
		lessons = 1
	case models.ActivityVideo:
		videos = 1
	case models.ActivityGame:
		games = 1
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO daily_sessions (student_id, session_date, total_minutes, lessons_count, videos_count, games_count)
		VALUES ($1, $2::date, $3, $4, $5, $6)
		ON CONFLICT (student_id, session_date) DO UPDATE SET
			total_minutes = daily_sessions.total_minutes + EXCLUDED.total_minutes,
			lessons_count = daily_sessions.lessons_count + EXCLUDED.lessons_count,
			videos_count  = daily_sessions.videos_count + EXCLUDED.videos_count,
			games_count   = daily_sessions.games_count + EXCLUDED.games_count,
			updated_at = NOW()
	`, e.StudentID, sessionDate, e.DurationMinutes, lessons, videos, games)
	if err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func (r *ActivityRepo) DailySessions(ctx context.Context, studentID int64, fromDate string) ([]models.DailySession, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT session_date::text, total_minutes, lessons_count, videos_count, games_count
		FROM daily_sessions
		WHERE student_id = $1 AND session_date >= $2::date
		ORDER BY session_date ASC
	`, studentID, fromDate)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	sessions := []models.DailySession{}
	for rows.Next() {
		s := models.DailySession{StudentID: studentID}
		if err := rows.Scan(&s.SessionDate, &s.TotalMinutes, &s.LessonsCount, &s.VideosCount, &s.GamesCount); err != nil {
			return nil, err
		}
		sessions = append(sessions, s)
	}
	return sessions, rows.Err()
}

func (r *ActivityRepo) SubjectDistribution(ctx context.Context, studentID int64, since time.Time) ([]models.SubjectCount, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT subject, COUNT(*)
		FROM activity_log
		WHERE student_id = $1 AND created_at >= $2
		GROUP BY subject
		ORDER BY COUNT(*) DESC, subject ASC
	`, studentID, since)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	dist := []models.SubjectCount{}
	for rows.Next() {
		var sc models.SubjectCount
		if err := rows.Scan(&sc.Subject, &sc.Count); err != nil {
			return nil, err
		}
		dist = append(dist, sc)
	}
	return dist, rows.Err()
}

func (r *ActivityRepo) RecentActivities(ctx context.Context, studentID int64, limit int) ([]models.ActivityLogEntry, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, activity_type, subject, content_title, duration_minutes, completed, created_at
		FROM activity_log
		WHERE student_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`, studentID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := []models.ActivityLogEntry{}
	for rows.Next() {
		e := models.ActivityLogEntry{StudentID: studentID}
		if err := rows.Scan(&e.ID, &e.ActivityType, &e.Subject, &e.ContentTitle, &e.DurationMinutes, &e.Completed, &e.CreatedAt); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (r *ActivityRepo) TotalStats(ctx context.Context, studentID int64, since time.Time) (models.TotalStats, error) {
	var stats models.TotalStats
	err := r.pool.QueryRow(ctx, `
		SELECT COUNT(*),
			COUNT(*) FILTER (WHERE activity_type = 'lesson'),
			COALESCE(SUM(duration_minutes), 0)
		FROM activity_log
		WHERE student_id = $1 AND created_at >= $2
	`, studentID, since).Scan(&stats.TotalActivities, &stats.LessonsDone, &stats.TotalMinutes)
	return stats, err
}
