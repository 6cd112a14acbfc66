package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"studyhub-backend/internal/middleware"
	"studyhub-backend/internal/models"
)

type groupProvider interface {
	GetGroupRank(ctx context.Context, viewer, groupID uuid.UUID) (*models.GroupRank, error)
	GetGroupLeaderboard(ctx context.Context, viewer, groupID uuid.UUID) (*models.GroupLeaderboard, error)
}

type GroupHandler struct {
	groups groupProvider
}

func NewGroupHandler(groups groupProvider) *GroupHandler {
	return &GroupHandler{groups: groups}
}

func (h *GroupHandler) Rank(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	groupID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid group ID", r))
		return
	}

	rank, err := h.groups.GetGroupRank(r.Context(), userID, groupID)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, rank)
}

func (h *GroupHandler) Leaderboard(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	groupID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid group ID", r))
		return
	}

	board, err := h.groups.GetGroupLeaderboard(r.Context(), userID, groupID)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, board)
}
