package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"tamariki-backend/internal/services"
)

type ContentHandler struct {
	svc *services.ContentService
}

func NewContentHandler(svc *services.ContentService) *ContentHandler {
	return &ContentHandler{svc: svc}
}

func (h *ContentHandler) Lookup(w http.ResponseWriter, r *http.Request) {
	subject := chi.URLParam(r, "subject")
	format := chi.URLParam(r, "format")

	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "index must be numeric", r))
		return
	}

	item, err := h.svc.Lookup(r.Context(), subject, format, index)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(item)
}
