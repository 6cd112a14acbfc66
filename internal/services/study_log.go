package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"studyhub-backend/internal/logging"
	"studyhub-backend/internal/models"
	"studyhub-backend/internal/validation"
)

// StatsRefreshQueue schedules background recomputation of cached stats.
type StatsRefreshQueue interface {
	Enqueue(ctx context.Context, userIDs ...uuid.UUID) error
}

type StudyLogService struct {
	sessions    SessionStore
	memberships MembershipSource
	cache       StatsCache
	refresh     StatsRefreshQueue
}

// NewStudyLogService accepts a nil cache or refresh queue.
func NewStudyLogService(sessions SessionStore, memberships MembershipSource, cache StatsCache, refresh StatsRefreshQueue) *StudyLogService {
	if cache == nil {
		cache = noopStatsCache{}
	}
	return &StudyLogService{sessions: sessions, memberships: memberships, cache: cache, refresh: refresh}
}

// Log records a study session for the viewer in one of their groups and
// drops the cached stats of everyone whose rank it can change.
func (s *StudyLogService) Log(ctx context.Context, viewer uuid.UUID, req models.LogStudyRequest) (*models.StudySession, error) {
	if viewer == uuid.Nil {
		return nil, &UnauthenticatedError{}
	}

	req.Subject = strings.TrimSpace(req.Subject)
	if req.Description != nil {
		trimmed := strings.TrimSpace(*req.Description)
		if trimmed == "" {
			req.Description = nil
		} else {
			req.Description = &trimmed
		}
	}

	if err := validation.ValidateStruct(req); err != nil {
		var fields validation.FieldErrors
		if errors.As(err, &fields) {
			return nil, &ValidationError{Fields: fields}
		}
		return nil, err
	}

	groupID, err := uuid.Parse(req.GroupID)
	if err != nil {
		return nil, &ValidationError{Fields: map[string]string{"group_id": "group_id must be a valid UUID"}}
	}

	member, err := isMember(ctx, s.memberships, groupID, viewer)
	if err != nil {
		return nil, sourceFailed("memberships", err)
	}
	if !member {
		return nil, &ForbiddenError{Message: "You are not a member of this group"}
	}

	session := &models.StudySession{
		UserID:      viewer,
		GroupID:     &groupID,
		Subject:     req.Subject,
		Minutes:     req.Minutes,
		Description: req.Description,
	}
	if err := s.sessions.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to create study log: %w", err)
	}

	s.invalidate(ctx, viewer, groupID)

	return session, nil
}

func (s *StudyLogService) invalidate(ctx context.Context, viewer, groupID uuid.UUID) {
	affected := []uuid.UUID{viewer}

	members, err := s.memberships.FetchMemberships(ctx, models.MembershipFilter{GroupIDs: []uuid.UUID{groupID}})
	if err != nil {
		logging.Ctx(ctx).Warn().Err(err).Str("group_id", groupID.String()).Msg("could not list group members for cache invalidation")
	}
	for _, m := range members {
		if m.UserID != viewer {
			affected = append(affected, m.UserID)
		}
	}

	if err := s.cache.Invalidate(ctx, affected...); err != nil {
		logging.Ctx(ctx).Warn().Err(err).Int("users", len(affected)).Msg("stats cache invalidation failed")
		return
	}

	if s.refresh != nil {
		if err := s.refresh.Enqueue(ctx, affected...); err != nil {
			logging.Ctx(ctx).Warn().Err(err).Int("users", len(affected)).Msg("stats refresh enqueue failed")
		}
	}
}
