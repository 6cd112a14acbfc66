package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"studyhub-backend/internal/models"
)

// The record store is consumed through these interfaces; the pgx
// repositories implement them and tests stub them.

type SessionSource interface {
	FetchSessions(ctx context.Context, filter models.SessionFilter) ([]models.StudySession, error)
}

type SessionStore interface {
	SessionSource
	Create(ctx context.Context, s *models.StudySession) error
}

type ActiveUserSource interface {
	SessionSource
	ListActiveUserIDs(ctx context.Context, since time.Time) ([]uuid.UUID, error)
}

type MembershipSource interface {
	FetchMemberships(ctx context.Context, filter models.MembershipFilter) ([]models.GroupMembership, error)
}

type GroupSource interface {
	FetchGroups(ctx context.Context, ids []uuid.UUID) ([]models.Group, error)
}

type ProfileSource interface {
	FetchProfiles(ctx context.Context, ids []uuid.UUID) ([]models.Profile, error)
}

func isMember(ctx context.Context, src MembershipSource, groupID, userID uuid.UUID) (bool, error) {
	memberships, err := src.FetchMemberships(ctx, models.MembershipFilter{
		UserID:   &userID,
		GroupIDs: []uuid.UUID{groupID},
		Limit:    1,
	})
	if err != nil {
		return false, err
	}
	return len(memberships) > 0, nil
}
