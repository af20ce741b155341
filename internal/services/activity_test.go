package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"testing"
	"time"

	"tamariki-backend/internal/calendar"
	"tamariki-backend/internal/models"
)

// memActivityStore mimics the transactional log-append + additive
// aggregate upsert of the Postgres repo.
type memActivityStore struct {
	mu      sync.Mutex
	nextID  int64
	entries []models.ActivityLogEntry
	daily   map[string]*models.DailySession
}

func newMemActivityStore() *memActivityStore {
	return &memActivityStore{daily: make(map[string]*models.DailySession)}
}

func dailyKey(studentID int64, date string) string {
	return fmt.Sprintf("%d|%s", studentID, date)
}

func (m *memActivityStore) Log(ctx context.Context, e *models.ActivityLogEntry, sessionDate string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.nextID++
	e.ID = m.nextID
	e.CreatedAt = time.Now()
	m.entries = append(m.entries, *e)

	key := dailyKey(e.StudentID, sessionDate)
	d, ok := m.daily[key]
	if !ok {
		d = &models.DailySession{StudentID: e.StudentID, SessionDate: sessionDate}
		m.daily[key] = d
	}
	d.TotalMinutes += e.DurationMinutes
	switch e.ActivityType {
	case models.ActivityLesson:
		d.LessonsCount++
	case models.ActivityVideo:
		d.VideosCount++
	case models.ActivityGame:
		d.GamesCount++
	}
	return nil
}

func (m *memActivityStore) DailySessions(ctx context.Context, studentID int64, fromDate string) ([]models.DailySession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	sessions := []models.DailySession{}
	for _, d := range m.daily {
		if d.StudentID == studentID && d.SessionDate >= fromDate {
			sessions = append(sessions, *d)
		}
	}
	sort.Slice(sessions, func(i, j int) bool { return sessions[i].SessionDate < sessions[j].SessionDate })
	return sessions, nil
}

func (m *memActivityStore) SubjectDistribution(ctx context.Context, studentID int64, since time.Time) ([]models.SubjectCount, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	counts := map[string]int{}
	for _, e := range m.entries {
		if e.StudentID == studentID && !e.CreatedAt.Before(since) {
			counts[e.Subject]++
		}
	}
	dist := []models.SubjectCount{}
	for subject, count := range counts {
		dist = append(dist, models.SubjectCount{Subject: subject, Count: count})
	}
	sort.Slice(dist, func(i, j int) bool { return dist[i].Count > dist[j].Count })
	return dist, nil
}

func (m *memActivityStore) RecentActivities(ctx context.Context, studentID int64, limit int) ([]models.ActivityLogEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entries := []models.ActivityLogEntry{}
	for i := len(m.entries) - 1; i >= 0 && len(entries) < limit; i-- {
		if m.entries[i].StudentID == studentID {
			entries = append(entries, m.entries[i])
		}
	}
	return entries, nil
}

func (m *memActivityStore) TotalStats(ctx context.Context, studentID int64, since time.Time) (models.TotalStats, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var stats models.TotalStats
	for _, e := range m.entries {
		if e.StudentID == studentID && !e.CreatedAt.Before(since) {
			stats.TotalActivities++
			stats.TotalMinutes += e.DurationMinutes
			if e.ActivityType == models.ActivityLesson {
				stats.LessonsDone++
			}
		}
	}
	return stats, nil
}

func newActivityService(t *testing.T, store ActivityStore) *ActivityService {
	t.Helper()
	cal, err := calendar.New("Pacific/Auckland")
	if err != nil {
		t.Fatalf("failed to load timezone: %v", err)
	}
	return NewActivityService(store, cal)
}

func intptr(n int) *int { return &n }

func TestLog_Validation(t *testing.T) {
	svc := newActivityService(t, newMemActivityStore())

	tests := []struct {
		name      string
		input     LogActivityInput
		wantField string
	}{
		{"invalid activity type", LogActivityInput{StudentID: 7, ActivityType: "quiz", Subject: "Maths"}, "activity_type"},
		{"empty activity type", LogActivityInput{StudentID: 7, Subject: "Maths"}, "activity_type"},
		{"empty subject", LogActivityInput{StudentID: 7, ActivityType: "lesson"}, "subject"},
		{"blank subject", LogActivityInput{StudentID: 7, ActivityType: "lesson", Subject: "   "}, "subject"},
		{"zero duration", LogActivityInput{StudentID: 7, ActivityType: "lesson", Subject: "Maths", DurationMinutes: intptr(0)}, "duration_minutes"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Log(context.Background(), tc.input, time.Now())
			var ve *ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if _, ok := ve.Fields[tc.wantField]; !ok {
				t.Errorf("expected field error for %q, got %v", tc.wantField, ve.Fields)
			}
		})
	}
}

func TestLog_DefaultDuration(t *testing.T) {
	store := newMemActivityStore()
	svc := newActivityService(t, store)

	entry, err := svc.Log(context.Background(), LogActivityInput{
		StudentID:    7,
		ActivityType: models.ActivityVideo,
		Subject:      "Science",
	}, time.Now())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if entry.DurationMinutes != models.DefaultActivityMinutes {
		t.Errorf("duration = %d, want default %d", entry.DurationMinutes, models.DefaultActivityMinutes)
	}
	if !entry.Completed {
		t.Error("logged activities should be marked completed")
	}
}

func TestLog_AggregatesSameDay(t *testing.T) {
	store := newMemActivityStore()
	svc := newActivityService(t, store)
	now := time.Now()

	if _, err := svc.Log(context.Background(), LogActivityInput{
		StudentID: 7, ActivityType: models.ActivityLesson, Subject: "Maths", DurationMinutes: intptr(15),
	}, now); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := svc.Log(context.Background(), LogActivityInput{
		StudentID: 7, ActivityType: models.ActivityGame, Subject: "Maths", DurationMinutes: intptr(5),
	}, now); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	analytics, err := svc.Analytics(context.Background(), 7, 7, now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(analytics.DailySessions) != 1 {
		t.Fatalf("expected one daily session, got %d", len(analytics.DailySessions))
	}
	day := analytics.DailySessions[0]
	if day.TotalMinutes != 20 || day.LessonsCount != 1 || day.GamesCount != 1 || day.VideosCount != 0 {
		t.Errorf("aggregate = %+v, want minutes=20 lessons=1 games=1 videos=0", day)
	}
}

func TestAnalytics_EmptyHistory(t *testing.T) {
	svc := newActivityService(t, newMemActivityStore())

	analytics, err := svc.Analytics(context.Background(), 7, 7, time.Now())
	if err != nil {
		t.Fatalf("empty history should not error: %v", err)
	}

	if analytics.TotalStats.TotalActivities != 0 || analytics.TotalStats.TotalMinutes != 0 || analytics.TotalStats.LessonsDone != 0 {
		t.Errorf("expected zero totals, got %+v", analytics.TotalStats)
	}
	if analytics.DailySessions == nil || len(analytics.DailySessions) != 0 {
		t.Errorf("expected empty daily sessions, got %v", analytics.DailySessions)
	}
	if analytics.RecentActivities == nil || len(analytics.RecentActivities) != 0 {
		t.Errorf("expected empty recent activities, got %v", analytics.RecentActivities)
	}
}

func TestAnalytics_RecentCappedAtTen(t *testing.T) {
	store := newMemActivityStore()
	svc := newActivityService(t, store)
	now := time.Now()

	for i := 0; i < 12; i++ {
		if _, err := svc.Log(context.Background(), LogActivityInput{
			StudentID: 7, ActivityType: models.ActivityLesson, Subject: "Reading",
		}, now); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	analytics, err := svc.Analytics(context.Background(), 7, 7, now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(analytics.RecentActivities) != 10 {
		t.Errorf("recent activities = %d, want 10", len(analytics.RecentActivities))
	}
	if analytics.TotalStats.TotalActivities != 12 {
		t.Errorf("total activities = %d, want 12", analytics.TotalStats.TotalActivities)
	}
}

func TestAnalytics_WindowExcludesOldSessions(t *testing.T) {
	store := newMemActivityStore()
	svc := newActivityService(t, store)
	now := time.Now()
	cal, _ := calendar.New("Pacific/Auckland")
	today := cal.Today(now)

	// Seed aggregates directly: one current, one outside a 7-day window.
	store.daily[dailyKey(7, today)] = &models.DailySession{
		StudentID: 7, SessionDate: today, TotalMinutes: 30, LessonsCount: 2,
	}
	old := calendar.AddDays(today, -14)
	store.daily[dailyKey(7, old)] = &models.DailySession{
		StudentID: 7, SessionDate: old, TotalMinutes: 45, LessonsCount: 3,
	}

	analytics, err := svc.Analytics(context.Background(), 7, 7, now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(analytics.DailySessions) != 1 {
		t.Fatalf("expected 1 session within window, got %d", len(analytics.DailySessions))
	}
	if analytics.DailySessions[0].SessionDate != today {
		t.Errorf("session date = %q, want %q", analytics.DailySessions[0].SessionDate, today)
	}

	// Widen the window and both appear, oldest first.
	analytics, err = svc.Analytics(context.Background(), 7, 30, now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(analytics.DailySessions) != 2 {
		t.Fatalf("expected 2 sessions in 30-day window, got %d", len(analytics.DailySessions))
	}
	if analytics.DailySessions[0].SessionDate != old {
		t.Errorf("expected ascending date order, got %q first", analytics.DailySessions[0].SessionDate)
	}
}

func TestLog_ConcurrentSameDayNoLostUpdates(t *testing.T) {
	store := newMemActivityStore()
	svc := newActivityService(t, store)
	now := time.Now()

	const callers = 40
	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Log(context.Background(), LogActivityInput{
				StudentID: 7, ActivityType: models.ActivityLesson, Subject: "Maths", DurationMinutes: intptr(2),
			}, now)
			if err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	analytics, err := svc.Analytics(context.Background(), 7, 1, now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(analytics.DailySessions) != 1 {
		t.Fatalf("expected one daily session, got %d", len(analytics.DailySessions))
	}
	if got := analytics.DailySessions[0].TotalMinutes; got != callers*2 {
		t.Errorf("total minutes = %d, want %d", got, callers*2)
	}
	if got := analytics.DailySessions[0].LessonsCount; got != callers {
		t.Errorf("lessons count = %d, want %d", got, callers)
	}
}
