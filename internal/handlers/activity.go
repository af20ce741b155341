package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"tamariki-backend/internal/models"
	"tamariki-backend/internal/services"
)

type ActivityServiceIface interface {
	Log(ctx context.Context, in services.LogActivityInput, now time.Time) (*models.ActivityLogEntry, error)
	Analytics(ctx context.Context, studentID int64, windowDays int, now time.Time) (*models.Analytics, error)
}

type ActivityHandler struct {
	svc ActivityServiceIface
}

func NewActivityHandler(svc ActivityServiceIface) *ActivityHandler {
	return &ActivityHandler{svc: svc}
}

func (h *ActivityHandler) Log(w http.ResponseWriter, r *http.Request) {
	var req struct {
		StudentID       *int64  `json:"student_id"`
		ActivityType    string  `json:"activity_type"`
		Subject         string  `json:"subject"`
		ContentTitle    *string `json:"content_title"`
		DurationMinutes *int    `json:"duration_minutes"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	if req.StudentID == nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "student_id is required", r))
		return
	}

	entry, err := h.svc.Log(r.Context(), services.LogActivityInput{
		StudentID:       *req.StudentID,
		ActivityType:    req.ActivityType,
		Subject:         req.Subject,
		ContentTitle:    req.ContentTitle,
		DurationMinutes: req.DurationMinutes,
	}, time.Now())
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"activity": entry,
	})
}

func (h *ActivityHandler) Analytics(w http.ResponseWriter, r *http.Request) {
	studentID, ok := parseStudentID(w, r, r.URL.Query().Get("student_id"))
	if !ok {
		return
	}

	// Absent or malformed days falls back to the default window.
	days := 0
	if raw := r.URL.Query().Get("days"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil {
			days = n
		}
	}

	analytics, err := h.svc.Analytics(r.Context(), studentID, days, time.Now())
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, analytics)
}
