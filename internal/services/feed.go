package services

import (
	"context"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"studyhub-backend/internal/analytics"
	"studyhub-backend/internal/logging"
	"studyhub-backend/internal/metrics"
	"studyhub-backend/internal/models"
)

type FeedLimits struct {
	Events   int
	Sessions int
	Joins    int
}

func (l FeedLimits) withDefaults() FeedLimits {
	if l.Events <= 0 {
		l.Events = analytics.DefaultFeedLimit
	}
	if l.Sessions <= 0 {
		l.Sessions = analytics.DefaultFeedSessionLimit
	}
	if l.Joins <= 0 {
		l.Joins = analytics.DefaultFeedJoinLimit
	}
	return l
}

type FeedService struct {
	sessions    SessionSource
	memberships MembershipSource
	groups      GroupSource
	profiles    ProfileSource
	limits      FeedLimits
}

func NewFeedService(
	sessions SessionSource,
	memberships MembershipSource,
	groups GroupSource,
	profiles ProfileSource,
	limits FeedLimits,
) *FeedService {
	return &FeedService{
		sessions:    sessions,
		memberships: memberships,
		groups:      groups,
		profiles:    profiles,
		limits:      limits.withDefaults(),
	}
}

// GetFeed returns recent study sessions and joins across the viewer's
// groups. Lookup failures yield an empty feed rather than an error; a
// failed profile lookup only costs display names.
func (s *FeedService) GetFeed(ctx context.Context, viewer uuid.UUID) ([]models.ActivityEvent, error) {
	if viewer == uuid.Nil {
		return nil, &UnauthenticatedError{}
	}

	events, err := s.build(ctx, viewer)
	if err != nil {
		logging.Ctx(ctx).Warn().Err(err).Str("user_id", viewer.String()).Msg("activity feed unavailable, returning empty feed")
		metrics.FeedResults.WithLabelValues("failed_empty").Inc()
		return []models.ActivityEvent{}, nil
	}

	if len(events) == 0 {
		metrics.FeedResults.WithLabelValues("empty").Inc()
	} else {
		metrics.FeedResults.WithLabelValues("ok").Inc()
	}
	return events, nil
}

func (s *FeedService) build(ctx context.Context, viewer uuid.UUID) ([]models.ActivityEvent, error) {
	memberships, err := s.memberships.FetchMemberships(ctx, models.MembershipFilter{UserID: &viewer})
	if err != nil {
		return nil, sourceFailed("memberships", err)
	}
	if len(memberships) == 0 {
		return []models.ActivityEvent{}, nil
	}

	groupIDs := make([]uuid.UUID, len(memberships))
	for i, m := range memberships {
		groupIDs[i] = m.GroupID
	}

	var (
		groups   []models.Group
		sessions []models.StudySession
		joins    []models.GroupMembership
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		if groups, err = s.groups.FetchGroups(gctx, groupIDs); err != nil {
			return sourceFailed("groups", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		sessions, err = s.sessions.FetchSessions(gctx, models.SessionFilter{
			GroupIDs: groupIDs,
			Order:    models.Descending,
			Limit:    s.limits.Sessions,
		})
		if err != nil {
			return sourceFailed("sessions", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		joins, err = s.memberships.FetchMemberships(gctx, models.MembershipFilter{
			GroupIDs: groupIDs,
			Order:    models.Descending,
			Limit:    s.limits.Joins,
		})
		if err != nil {
			return sourceFailed("joins", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	profiles, err := s.profiles.FetchProfiles(ctx, analytics.ActorIDs(sessions, joins))
	if err != nil {
		logging.Ctx(ctx).Warn().Err(err).Msg("profile lookup failed, using placeholder names")
		metrics.SourceFetchErrors.WithLabelValues("profiles").Inc()
		profiles = nil
	}

	return analytics.MergeFeed(analytics.FeedInput{
		Viewer:   viewer,
		Groups:   groups,
		Sessions: sessions,
		Joins:    joins,
		Profiles: profiles,
		Limit:    s.limits.Events,
	}), nil
}
