package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"tamariki-backend/internal/models"
)

// StreakService is consumed through an interface so handler tests can
// substitute an in-memory implementation.
type StreakService interface {
	Status(ctx context.Context, studentID int64, now time.Time) (*models.StreakStatus, error)
	Increment(ctx context.Context, studentID int64, now time.Time) (*models.IncrementResult, error)
}

type StreakHandler struct {
	svc StreakService
}

func NewStreakHandler(svc StreakService) *StreakHandler {
	return &StreakHandler{svc: svc}
}

func (h *StreakHandler) Status(w http.ResponseWriter, r *http.Request) {
	studentID, ok := parseStudentID(w, r, r.URL.Query().Get("student_id"))
	if !ok {
		return
	}

	status, err := h.svc.Status(r.Context(), studentID, time.Now())
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, status)
}

func (h *StreakHandler) Increment(w http.ResponseWriter, r *http.Request) {
	var req struct {
		StudentID *int64 `json:"student_id"`
		Activity  string `json:"activity"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	if req.StudentID == nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "student_id is required", r))
		return
	}

	// The activity hint is validated but not otherwise used: streak
	// credit and activity logging are separate calls by convention.
	if req.Activity != "" && !models.ValidActivityType(req.Activity) {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "activity must be lesson, video, or game", r))
		return
	}

	result, err := h.svc.Increment(r.Context(), *req.StudentID, time.Now())
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

func parseStudentID(w http.ResponseWriter, r *http.Request, raw string) (int64, bool) {
	if raw == "" {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "student_id is required", r))
		return 0, false
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "student_id must be numeric", r))
		return 0, false
	}
	return id, true
}
