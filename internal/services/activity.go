package services

import (
	"context"
	"strings"
	"time"

	"tamariki-backend/internal/calendar"
	"tamariki-backend/internal/models"
)

const (
	// The distribution and totals always cover a fixed trailing month,
	// independent of the daily-sessions window the caller asked for.
	statsWindowDays = 30

	recentActivitiesLimit = 10

	defaultWindowDays = 7
	maxWindowDays     = 90
)

type ActivityStore interface {
	Log(ctx context.Context, e *models.ActivityLogEntry, sessionDate string) error
	DailySessions(ctx context.Context, studentID int64, fromDate string) ([]models.DailySession, error)
	SubjectDistribution(ctx context.Context, studentID int64, since time.Time) ([]models.SubjectCount, error)
	RecentActivities(ctx context.Context, studentID int64, limit int) ([]models.ActivityLogEntry, error)
	TotalStats(ctx context.Context, studentID int64, since time.Time) (models.TotalStats, error)
}

type ActivityService struct {
	store ActivityStore
	cal   *calendar.Calendar
}

func NewActivityService(store ActivityStore, cal *calendar.Calendar) *ActivityService {
	return &ActivityService{store: store, cal: cal}
}

type LogActivityInput struct {
	StudentID       int64
	ActivityType    string
	Subject         string
	ContentTitle    *string
	DurationMinutes *int
}

// Log appends an immutable activity record and folds it into today's
// aggregate. It never touches the streak; streak credit is a separate
// call by design.
func (s *ActivityService) Log(ctx context.Context, in LogActivityInput, now time.Time) (*models.ActivityLogEntry, error) {
	fieldErrors := make(map[string]string)

	if !models.ValidActivityType(in.ActivityType) {
		fieldErrors["activity_type"] = "activity_type must be lesson, video, or game"
	}
	if strings.TrimSpace(in.Subject) == "" {
		fieldErrors["subject"] = "subject is required"
	}
	if in.DurationMinutes != nil && *in.DurationMinutes <= 0 {
		fieldErrors["duration_minutes"] = "duration_minutes must be positive"
	}
	if len(fieldErrors) > 0 {
		return nil, &ValidationError{Fields: fieldErrors}
	}

	minutes := models.DefaultActivityMinutes
	if in.DurationMinutes != nil {
		minutes = *in.DurationMinutes
	}

	entry := &models.ActivityLogEntry{
		StudentID:       in.StudentID,
		ActivityType:    in.ActivityType,
		Subject:         strings.TrimSpace(in.Subject),
		ContentTitle:    in.ContentTitle,
		DurationMinutes: minutes,
		Completed:       true,
	}

	if err := s.store.Log(ctx, entry, s.cal.Today(now)); err != nil {
		return nil, err
	}
	return entry, nil
}

// Analytics assembles the read-only activity views. An empty history
// yields empty slices and zero totals, never an error.
func (s *ActivityService) Analytics(ctx context.Context, studentID int64, windowDays int, now time.Time) (*models.Analytics, error) {
	if windowDays <= 0 {
		windowDays = defaultWindowDays
	}
	if windowDays > maxWindowDays {
		windowDays = maxWindowDays
	}

	today := s.cal.Today(now)
	fromDate := calendar.AddDays(today, -windowDays)
	statsSince := s.cal.DayStart(calendar.AddDays(today, -statsWindowDays))

	daily, err := s.store.DailySessions(ctx, studentID, fromDate)
	if err != nil {
		return nil, err
	}

	dist, err := s.store.SubjectDistribution(ctx, studentID, statsSince)
	if err != nil {
		return nil, err
	}

	recent, err := s.store.RecentActivities(ctx, studentID, recentActivitiesLimit)
	if err != nil {
		return nil, err
	}

	totals, err := s.store.TotalStats(ctx, studentID, statsSince)
	if err != nil {
		return nil, err
	}

	return &models.Analytics{
		DailySessions:       daily,
		SubjectDistribution: dist,
		RecentActivities:    recent,
		TotalStats:          totals,
	}, nil
}
