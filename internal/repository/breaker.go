package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	gobreaker "github.com/sony/gobreaker/v2"

	"studyhub-backend/internal/logging"
	"studyhub-backend/internal/models"
)

type sessionStore interface {
	FetchSessions(ctx context.Context, f models.SessionFilter) ([]models.StudySession, error)
	Create(ctx context.Context, s *models.StudySession) error
	ListActiveUserIDs(ctx context.Context, since time.Time) ([]uuid.UUID, error)
}

type membershipStore interface {
	FetchMemberships(ctx context.Context, f models.MembershipFilter) ([]models.GroupMembership, error)
}

type groupStore interface {
	FetchGroups(ctx context.Context, ids []uuid.UUID) ([]models.Group, error)
}

type profileStore interface {
	FetchProfiles(ctx context.Context, ids []uuid.UUID) ([]models.Profile, error)
}

type BreakerConfig struct {
	// FailureThreshold is the number of consecutive failures that opens the breaker.
	FailureThreshold uint32
	// OpenTimeout is how long the breaker stays open before probing again.
	OpenTimeout time.Duration
}

// GuardedStore fronts every repository with one circuit breaker, since they
// share a database. While open, calls fail immediately with
// gobreaker.ErrOpenState.
type GuardedStore struct {
	sessions    sessionStore
	memberships membershipStore
	groups      groupStore
	profiles    profileStore
	cb          *gobreaker.CircuitBreaker[any]
}

func NewGuardedStore(
	sessions sessionStore,
	memberships membershipStore,
	groups groupStore,
	profiles profileStore,
	cfg BreakerConfig,
) *GuardedStore {
	if cfg.FailureThreshold == 0 {
		cfg.FailureThreshold = 5
	}
	if cfg.OpenTimeout <= 0 {
		cfg.OpenTimeout = 30 * time.Second
	}

	settings := gobreaker.Settings{
		Name:        "postgres",
		MaxRequests: 1,
		Timeout:     cfg.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.FailureThreshold
		},
		IsSuccessful: func(err error) bool {
			// A caller giving up is not a store failure.
			return err == nil || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logging.Warn().Str("breaker", name).Str("from", from.String()).Str("to", to.String()).Msg("circuit breaker state changed")
		},
	}

	return &GuardedStore{
		sessions:    sessions,
		memberships: memberships,
		groups:      groups,
		profiles:    profiles,
		cb:          gobreaker.NewCircuitBreaker[any](settings),
	}
}

func guard[T any](cb *gobreaker.CircuitBreaker[any], fn func() (T, error)) (T, error) {
	v, err := cb.Execute(func() (any, error) {
		return fn()
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return v.(T), nil
}

func (g *GuardedStore) State() gobreaker.State {
	return g.cb.State()
}

func (g *GuardedStore) FetchSessions(ctx context.Context, f models.SessionFilter) ([]models.StudySession, error) {
	return guard(g.cb, func() ([]models.StudySession, error) {
		return g.sessions.FetchSessions(ctx, f)
	})
}

func (g *GuardedStore) Create(ctx context.Context, s *models.StudySession) error {
	_, err := guard(g.cb, func() (struct{}, error) {
		return struct{}{}, g.sessions.Create(ctx, s)
	})
	return err
}

func (g *GuardedStore) ListActiveUserIDs(ctx context.Context, since time.Time) ([]uuid.UUID, error) {
	return guard(g.cb, func() ([]uuid.UUID, error) {
		return g.sessions.ListActiveUserIDs(ctx, since)
	})
}

func (g *GuardedStore) FetchMemberships(ctx context.Context, f models.MembershipFilter) ([]models.GroupMembership, error) {
	return guard(g.cb, func() ([]models.GroupMembership, error) {
		return g.memberships.FetchMemberships(ctx, f)
	})
}

func (g *GuardedStore) FetchGroups(ctx context.Context, ids []uuid.UUID) ([]models.Group, error) {
	return guard(g.cb, func() ([]models.Group, error) {
		return g.groups.FetchGroups(ctx, ids)
	})
}

func (g *GuardedStore) FetchProfiles(ctx context.Context, ids []uuid.UUID) ([]models.Profile, error) {
	return guard(g.cb, func() ([]models.Profile, error) {
		return g.profiles.FetchProfiles(ctx, ids)
	})
}
