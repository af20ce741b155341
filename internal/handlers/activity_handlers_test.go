package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"tamariki-backend/internal/models"
	"tamariki-backend/internal/services"
)

type stubActivityService struct {
	entry     *models.ActivityLogEntry
	analytics *models.Analytics
	err       error

	logCalls      int
	lastInput     services.LogActivityInput
	lastStudentID int64
	lastDays      int
}

func (s *stubActivityService) Log(ctx context.Context, in services.LogActivityInput, now time.Time) (*models.ActivityLogEntry, error) {
	s.logCalls++
	s.lastInput = in
	if s.err != nil {
		return nil, s.err
	}
	return s.entry, nil
}

func (s *stubActivityService) Analytics(ctx context.Context, studentID int64, windowDays int, now time.Time) (*models.Analytics, error) {
	s.lastStudentID = studentID
	s.lastDays = windowDays
	if s.err != nil {
		return nil, s.err
	}
	return s.analytics, nil
}

func TestActivityLog_MissingStudentID(t *testing.T) {
	svc := &stubActivityService{}
	h := NewActivityHandler(svc)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/activity/log",
		strings.NewReader(`{"activity_type":"lesson","subject":"Maths"}`))
	rr := httptest.NewRecorder()
	h.Log(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected status %d, got %d", http.StatusBadRequest, rr.Code)
	}
	if svc.logCalls != 0 {
		t.Error("service should not be called without a student_id")
	}
}

func TestActivityLog_ValidationErrorsPropagate(t *testing.T) {
	svc := &stubActivityService{err: &services.ValidationError{
		Fields: map[string]string{"activity_type": "activity_type must be lesson, video, or game"},
	}}
	h := NewActivityHandler(svc)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/activity/log",
		strings.NewReader(`{"student_id":7,"activity_type":"quiz","subject":"Maths"}`))
	rr := httptest.NewRecorder()
	h.Log(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected status %d, got %d", http.StatusBadRequest, rr.Code)
	}

	var body models.ErrorResponse
	if err := json.NewDecoder(rr.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if body.Error.Code != "VALIDATION_ERROR" {
		t.Errorf("error code = %q, want VALIDATION_ERROR", body.Error.Code)
	}
	if _, ok := body.Error.Fields["activity_type"]; !ok {
		t.Errorf("expected activity_type field error, got %v", body.Error.Fields)
	}
}

func TestActivityLog_OK(t *testing.T) {
	svc := &stubActivityService{entry: &models.ActivityLogEntry{
		ID: 1, StudentID: 7, ActivityType: "lesson", Subject: "Maths",
		DurationMinutes: 15, Completed: true,
	}}
	h := NewActivityHandler(svc)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/activity/log",
		strings.NewReader(`{"student_id":7,"activity_type":"lesson","subject":"Maths","duration_minutes":15}`))
	rr := httptest.NewRecorder()
	h.Log(rr, req)

	if rr.Code != http.StatusCreated {
		t.Fatalf("expected status %d, got %d", http.StatusCreated, rr.Code)
	}
	if svc.lastInput.StudentID != 7 || svc.lastInput.ActivityType != "lesson" {
		t.Errorf("unexpected input: %+v", svc.lastInput)
	}
	if svc.lastInput.DurationMinutes == nil || *svc.lastInput.DurationMinutes != 15 {
		t.Errorf("duration not passed through: %v", svc.lastInput.DurationMinutes)
	}
}

func TestActivityAnalytics_MissingStudentID(t *testing.T) {
	svc := &stubActivityService{}
	h := NewActivityHandler(svc)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/activity/analytics", nil)
	rr := httptest.NewRecorder()
	h.Analytics(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected status %d, got %d", http.StatusBadRequest, rr.Code)
	}
}

func TestActivityAnalytics_DaysParam(t *testing.T) {
	tests := []struct {
		name     string
		query    string
		wantDays int
	}{
		{"explicit days", "?student_id=7&days=14", 14},
		{"absent days defers to service default", "?student_id=7", 0},
		{"non-numeric days defers to service default", "?student_id=7&days=abc", 0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			svc := &stubActivityService{analytics: &models.Analytics{}}
			h := NewActivityHandler(svc)

			req := httptest.NewRequest(http.MethodGet, "/api/v1/activity/analytics"+tc.query, nil)
			rr := httptest.NewRecorder()
			h.Analytics(rr, req)

			if rr.Code != http.StatusOK {
				t.Fatalf("expected status %d, got %d", http.StatusOK, rr.Code)
			}
			if svc.lastStudentID != 7 {
				t.Errorf("student = %d, want 7", svc.lastStudentID)
			}
			if svc.lastDays != tc.wantDays {
				t.Errorf("days = %d, want %d", svc.lastDays, tc.wantDays)
			}
		})
	}
}
