package handlers

import (
	"context"
	"net/http"

	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"studyhub-backend/internal/middleware"
	"studyhub-backend/internal/models"
)

type studyLogger interface {
	Log(ctx context.Context, viewer uuid.UUID, req models.LogStudyRequest) (*models.StudySession, error)
}

type StudyLogHandler struct {
	logs studyLogger
}

func NewStudyLogHandler(logs studyLogger) *StudyLogHandler {
	return &StudyLogHandler{logs: logs}
}

func (h *StudyLogHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	var req models.LogStudyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	session, err := h.logs.Log(r.Context(), userID, req)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"study_log": session,
	})
}
