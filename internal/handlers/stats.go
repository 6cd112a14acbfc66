package handlers

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"studyhub-backend/internal/middleware"
	"studyhub-backend/internal/models"
)

type statsProvider interface {
	GetStats(ctx context.Context, viewer uuid.UUID) (*models.StudyStats, error)
}

type StatsHandler struct {
	stats statsProvider
}

func NewStatsHandler(stats statsProvider) *StatsHandler {
	return &StatsHandler{stats: stats}
}

func (h *StatsHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	stats, err := h.stats.GetStats(r.Context(), userID)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, stats)
}
