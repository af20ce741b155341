package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"tamariki-backend/internal/middleware"
	"tamariki-backend/internal/models"
	"tamariki-backend/internal/repository"
)

type StudentsHandler struct {
	studentRepo *repository.StudentRepo
}

func NewStudentsHandler(studentRepo *repository.StudentRepo) *StudentsHandler {
	return &StudentsHandler{studentRepo: studentRepo}
}

func (h *StudentsHandler) Create(w http.ResponseWriter, r *http.Request) {
	parentID := middleware.GetParentID(r.Context())

	var req models.CreateStudentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	fields := make(map[string]string)
	if strings.TrimSpace(req.FirstName) == "" {
		fields["first_name"] = "First name is required"
	}
	if req.YearLevel < 0 || req.YearLevel > 13 {
		fields["year_level"] = "Year level must be between 0 and 13"
	}
	if len(fields) > 0 {
		writeJSON(w, http.StatusBadRequest, errorRespWithFields("VALIDATION_ERROR", "Validation failed", fields, r))
		return
	}

	student := &models.Student{
		ParentID:  parentID,
		FirstName: strings.TrimSpace(req.FirstName),
		YearLevel: req.YearLevel,
	}

	if err := h.studentRepo.Create(r.Context(), student); err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to create student", r))
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{"student": student})
}

func (h *StudentsHandler) List(w http.ResponseWriter, r *http.Request) {
	parentID := middleware.GetParentID(r.Context())

	students, err := h.studentRepo.ListByParent(r.Context(), parentID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to list students", r))
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"students": students})
}
