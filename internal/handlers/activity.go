package handlers

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"studyhub-backend/internal/middleware"
	"studyhub-backend/internal/models"
)

type feedProvider interface {
	GetFeed(ctx context.Context, viewer uuid.UUID) ([]models.ActivityEvent, error)
}

type ActivityHandler struct {
	feed feedProvider
}

func NewActivityHandler(feed feedProvider) *ActivityHandler {
	return &ActivityHandler{feed: feed}
}

func (h *ActivityHandler) List(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	events, err := h.feed.GetFeed(r.Context(), userID)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"activities": events,
	})
}
