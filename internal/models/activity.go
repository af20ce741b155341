package models

import "time"

const (
	ActivityLesson = "lesson"
	ActivityVideo  = "video"
	ActivityGame   = "game"

	// Minutes credited when the client does not report a duration.
	DefaultActivityMinutes = 10
)

func ValidActivityType(t string) bool {
	return t == ActivityLesson || t == ActivityVideo || t == ActivityGame
}

// ActivityLogEntry is an immutable record of one completed activity.
type ActivityLogEntry struct {
	ID              int64     `json:"id"`
	StudentID       int64     `json:"student_id"`
	ActivityType    string    `json:"activity_type"`
	Subject         string    `json:"subject"`
	ContentTitle    *string   `json:"content_title,omitempty"`
	DurationMinutes int       `json:"duration_minutes"`
	Completed       bool      `json:"completed"`
	CreatedAt       time.Time `json:"created_at"`
}

// DailySession is the per-student-per-day rollup. Counters only ever
// accumulate within a day; rows for past days are frozen by rollover.
type DailySession struct {
	StudentID    int64  `json:"student_id"`
	SessionDate  string `json:"session_date"`
	TotalMinutes int    `json:"total_minutes"`
	LessonsCount int    `json:"lessons_count"`
	VideosCount  int    `json:"videos_count"`
	GamesCount   int    `json:"games_count"`
}

type SubjectCount struct {
	Subject string `json:"subject"`
	Count   int    `json:"count"`
}

type TotalStats struct {
	TotalActivities int `json:"total_activities"`
	LessonsDone     int `json:"lessons_done"`
	TotalMinutes    int `json:"total_minutes"`
}

// Analytics is the combined read model for the analytics endpoint.
// DailySessions honors the requested window; the distribution and
// totals always cover the trailing 30 days.
type Analytics struct {
	DailySessions       []DailySession     `json:"daily_sessions"`
	SubjectDistribution []SubjectCount     `json:"subject_distribution"`
	RecentActivities    []ActivityLogEntry `json:"recent_activities"`
	TotalStats          TotalStats         `json:"total_stats"`
}
