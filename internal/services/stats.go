package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"studyhub-backend/internal/analytics"
	"studyhub-backend/internal/logging"
	"studyhub-backend/internal/metrics"
	"studyhub-backend/internal/models"
)

type StatsService struct {
	sessions     SessionSource
	memberships  MembershipSource
	groups       GroupSource
	cache        StatsCache
	cal          analytics.Calendar
	lookbackDays int
	now          func() time.Time
}

func NewStatsService(
	sessions SessionSource,
	memberships MembershipSource,
	groups GroupSource,
	cache StatsCache,
	cal analytics.Calendar,
	lookbackDays int,
) *StatsService {
	if cache == nil {
		cache = noopStatsCache{}
	}
	if lookbackDays <= 0 {
		lookbackDays = analytics.DefaultLookbackDays
	}
	return &StatsService{
		sessions:     sessions,
		memberships:  memberships,
		groups:       groups,
		cache:        cache,
		cal:          cal,
		lookbackDays: lookbackDays,
		now:          time.Now,
	}
}

// GetStats returns the viewer's dashboard stats, attaching their rank in the
// first group they joined when they have logged time there.
func (s *StatsService) GetStats(ctx context.Context, viewer uuid.UUID) (*models.StudyStats, error) {
	if viewer == uuid.Nil {
		return nil, &UnauthenticatedError{}
	}

	cached, ok, err := s.cache.Get(ctx, viewer)
	if err != nil {
		logging.Ctx(ctx).Warn().Err(err).Str("user_id", viewer.String()).Msg("stats cache read failed")
	}
	if ok {
		metrics.CacheHits.Inc()
		metrics.StatsComputations.WithLabelValues("cached").Inc()
		return cached, nil
	}
	metrics.CacheMisses.Inc()

	return s.computeAndStore(ctx, viewer)
}

// Refresh recomputes the viewer's stats and overwrites the cache entry
// without reading it first.
func (s *StatsService) Refresh(ctx context.Context, viewer uuid.UUID) (*models.StudyStats, error) {
	if viewer == uuid.Nil {
		return nil, &UnauthenticatedError{}
	}
	return s.computeAndStore(ctx, viewer)
}

func (s *StatsService) computeAndStore(ctx context.Context, viewer uuid.UUID) (*models.StudyStats, error) {
	stats, err := s.compute(ctx, viewer)
	if err != nil {
		metrics.StatsComputations.WithLabelValues("failed").Inc()
		return nil, err
	}
	metrics.StatsComputations.WithLabelValues("computed").Inc()

	if err := s.cache.Set(ctx, viewer, stats); err != nil {
		logging.Ctx(ctx).Warn().Err(err).Str("user_id", viewer.String()).Msg("stats cache write failed")
	}

	return stats, nil
}

func (s *StatsService) compute(ctx context.Context, viewer uuid.UUID) (*models.StudyStats, error) {
	now := s.now()
	since := now.AddDate(0, 0, -s.lookbackDays)

	sessions, err := s.sessions.FetchSessions(ctx, models.SessionFilter{
		UserID: &viewer,
		Since:  &since,
		Order:  models.Ascending,
	})
	if err != nil {
		return nil, sourceFailed("sessions", err)
	}

	stats := analytics.Aggregate(sessions, now, s.cal)

	rank, err := s.primaryGroupRank(ctx, viewer)
	if err != nil {
		return nil, err
	}
	stats.GroupRank = rank

	return &stats, nil
}

func (s *StatsService) primaryGroupRank(ctx context.Context, viewer uuid.UUID) (*models.GroupRank, error) {
	memberships, err := s.memberships.FetchMemberships(ctx, models.MembershipFilter{
		UserID: &viewer,
		Order:  models.Ascending,
		Limit:  1,
	})
	if err != nil {
		return nil, sourceFailed("memberships", err)
	}
	if len(memberships) == 0 {
		return nil, nil
	}

	groupID := memberships[0].GroupID
	rank, ok, err := groupRank(ctx, s.sessions, s.groups, groupID, viewer)
	if err != nil || !ok {
		return nil, err
	}
	return rank, nil
}

// groupRank ranks viewer within groupID. ok is false when the viewer has no
// sessions in the group; a missing group row leaves GroupName empty.
func groupRank(
	ctx context.Context,
	sessions SessionSource,
	groups GroupSource,
	groupID, viewer uuid.UUID,
) (*models.GroupRank, bool, error) {
	found, err := groups.FetchGroups(ctx, []uuid.UUID{groupID})
	if err != nil {
		return nil, false, sourceFailed("groups", err)
	}

	groupSessions, err := sessions.FetchSessions(ctx, models.SessionFilter{
		GroupID: &groupID,
		Order:   models.Ascending,
	})
	if err != nil {
		return nil, false, sourceFailed("sessions", err)
	}

	result, ok := analytics.Rank(groupSessions, viewer)
	if !ok {
		return nil, false, nil
	}

	rank := &models.GroupRank{
		Rank:         result.Rank,
		TotalMembers: result.TotalMembers,
		GroupID:      groupID,
	}
	if len(found) > 0 {
		rank.GroupName = found[0].Name
	}
	return rank, true, nil
}
