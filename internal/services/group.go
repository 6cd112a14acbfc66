package services

import (
	"context"

	"github.com/google/uuid"

	"studyhub-backend/internal/analytics"
	"studyhub-backend/internal/models"
)

type GroupService struct {
	sessions    SessionSource
	memberships MembershipSource
	groups      GroupSource
	profiles    ProfileSource
}

func NewGroupService(sessions SessionSource, memberships MembershipSource, groups GroupSource, profiles ProfileSource) *GroupService {
	return &GroupService{
		sessions:    sessions,
		memberships: memberships,
		groups:      groups,
		profiles:    profiles,
	}
}

// GetGroupRank ranks the viewer among the users who logged time in groupID.
func (s *GroupService) GetGroupRank(ctx context.Context, viewer, groupID uuid.UUID) (*models.GroupRank, error) {
	if viewer == uuid.Nil {
		return nil, &UnauthenticatedError{}
	}

	rank, ok, err := groupRank(ctx, s.sessions, s.groups, groupID, viewer)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, &NotFoundError{Message: "No study time logged in this group"}
	}
	return rank, nil
}

// GetGroupLeaderboard lists the members of groupID by study time. Only
// members may view it.
func (s *GroupService) GetGroupLeaderboard(ctx context.Context, viewer, groupID uuid.UUID) (*models.GroupLeaderboard, error) {
	if viewer == uuid.Nil {
		return nil, &UnauthenticatedError{}
	}

	members, err := s.memberships.FetchMemberships(ctx, models.MembershipFilter{
		GroupIDs: []uuid.UUID{groupID},
		Order:    models.Ascending,
	})
	if err != nil {
		return nil, sourceFailed("memberships", err)
	}

	memberIDs := make([]uuid.UUID, 0, len(members))
	viewerIsMember := false
	for _, m := range members {
		memberIDs = append(memberIDs, m.UserID)
		if m.UserID == viewer {
			viewerIsMember = true
		}
	}
	if !viewerIsMember {
		return nil, &ForbiddenError{Message: "You are not a member of this group"}
	}

	found, err := s.groups.FetchGroups(ctx, []uuid.UUID{groupID})
	if err != nil {
		return nil, sourceFailed("groups", err)
	}
	if len(found) == 0 {
		return nil, &NotFoundError{Message: "Group not found"}
	}

	sessions, err := s.sessions.FetchSessions(ctx, models.SessionFilter{
		GroupID: &groupID,
		Order:   models.Ascending,
	})
	if err != nil {
		return nil, sourceFailed("sessions", err)
	}

	profiles, err := s.profiles.FetchProfiles(ctx, memberIDs)
	if err != nil {
		return nil, sourceFailed("profiles", err)
	}

	board := analytics.Leaderboard(found[0], members, sessions, profiles, viewer)
	return &board, nil
}
