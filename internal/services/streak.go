package services

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"tamariki-backend/internal/calendar"
	"tamariki-backend/internal/models"
)

// StreakStore is the persistence capability the streak service needs.
// Increment must be atomic per student: two concurrent calls may not
// both observe the pre-credit date.
type StreakStore interface {
	Get(ctx context.Context, studentID int64) (*models.StreakState, error)
	Increment(ctx context.Context, studentID int64, today, yesterday string) (*models.StreakState, bool, error)
}

type StreakService struct {
	store StreakStore
	cal   *calendar.Calendar
}

func NewStreakService(store StreakStore, cal *calendar.Calendar) *StreakService {
	return &StreakService{store: store, cal: cal}
}

// Status is a pure read of the student's streak. The next increment is
// available immediately unless today has already been credited, in
// which case it opens at the next midnight in the reference timezone.
func (s *StreakService) Status(ctx context.Context, studentID int64, now time.Time) (*models.StreakStatus, error) {
	state, err := s.store.Get(ctx, studentID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &NotFoundError{Message: "Student not found"}
		}
		return nil, err
	}

	today := s.cal.Today(now)
	seconds := 0
	if state.LastStreakDate != nil && *state.LastStreakDate == today {
		seconds = s.cal.SecondsUntilMidnight(now)
	}

	return &models.StreakStatus{
		StudentID:                 studentID,
		StreakDays:                state.StreakDays,
		LastStreakDate:            state.LastStreakDate,
		Today:                     today,
		SecondsUntilNextIncrement: seconds,
	}, nil
}

// Increment advances the streak for "now": continue if yesterday was
// credited, restart at 1 after a missed day, no-op if today already
// counted. Deliberately not called by activity logging; clients invoke
// both operations independently.
func (s *StreakService) Increment(ctx context.Context, studentID int64, now time.Time) (*models.IncrementResult, error) {
	today := s.cal.Today(now)
	yesterday := calendar.PreviousDay(today)

	state, incremented, err := s.store.Increment(ctx, studentID, today, yesterday)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &NotFoundError{Message: "Student not found"}
		}
		return nil, err
	}

	return &models.IncrementResult{
		StudentID:      studentID,
		StreakDays:     state.StreakDays,
		LastStreakDate: state.LastStreakDate,
		Incremented:    incremented,
	}, nil
}
