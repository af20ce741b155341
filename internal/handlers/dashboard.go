package handlers

import (
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"tamariki-backend/internal/calendar"
	"tamariki-backend/internal/middleware"
)

type DashboardHandler struct {
	pool *pgxpool.Pool
	cal  *calendar.Calendar
}

func NewDashboardHandler(pool *pgxpool.Pool, cal *calendar.Calendar) *DashboardHandler {
	return &DashboardHandler{pool: pool, cal: cal}
}

// Overview returns one row per child: streak state plus today's
// activity rollup, for the signed-in parent's home screen.
func (h *DashboardHandler) Overview(w http.ResponseWriter, r *http.Request) {
	parentID := middleware.GetParentID(r.Context())
	ctx := r.Context()
	today := h.cal.Today(time.Now())

	type ChildOverview struct {
		StudentID      int64   `json:"student_id"`
		FirstName      string  `json:"first_name"`
		YearLevel      int     `json:"year_level"`
		StreakDays     int     `json:"streak_days"`
		LastStreakDate *string `json:"last_streak_date"`
		TodayMinutes   int     `json:"today_minutes"`
		TodayLessons   int     `json:"today_lessons"`
		TodayVideos    int     `json:"today_videos"`
		TodayGames     int     `json:"today_games"`
	}

	rows, err := h.pool.Query(ctx, `
		SELECT s.id, s.first_name, s.year_level,
			st.streak_days, st.last_streak_date::text,
			COALESCE(d.total_minutes, 0),
			COALESCE(d.lessons_count, 0),
			COALESCE(d.videos_count, 0),
			COALESCE(d.games_count, 0)
		FROM students s
		JOIN streaks st ON st.student_id = s.id
		LEFT JOIN daily_sessions d
			ON d.student_id = s.id AND d.session_date = $2::date
		WHERE s.parent_id = $1
		ORDER BY s.created_at ASC
	`, parentID, today)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to load dashboard", r))
		return
	}
	defer rows.Close()

	children := []ChildOverview{}
	for rows.Next() {
		var c ChildOverview
		if err := rows.Scan(&c.StudentID, &c.FirstName, &c.YearLevel,
			&c.StreakDays, &c.LastStreakDate,
			&c.TodayMinutes, &c.TodayLessons, &c.TodayVideos, &c.TodayGames); err != nil {
			writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to load dashboard", r))
			return
		}
		children = append(children, c)
	}
	if rows.Err() != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to load dashboard", r))
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"today":    today,
		"children": children,
	})
}
