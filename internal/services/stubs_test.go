package services

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"studyhub-backend/internal/analytics"
	"studyhub-backend/internal/models"
)

var testNow = time.Date(2026, 10, 14, 15, 0, 0, 0, time.UTC)

var testCal = analytics.NewCalendar(time.UTC)

func daysAgo(n int) time.Time {
	return testNow.AddDate(0, 0, -n)
}

func studySession(userID, groupID uuid.UUID, minutes int, at time.Time) models.StudySession {
	return models.StudySession{
		ID:        uuid.New(),
		UserID:    userID,
		GroupID:   &groupID,
		Subject:   "Maths",
		Minutes:   minutes,
		CreatedAt: at,
	}
}

func membership(groupID, userID uuid.UUID, joined time.Time) models.GroupMembership {
	return models.GroupMembership{
		ID:       uuid.New(),
		GroupID:  groupID,
		UserID:   userID,
		Role:     models.RoleMember,
		JoinedAt: joined,
	}
}

// stubSessions filters an in-memory slice the way the SQL query does.
type stubSessions struct {
	mu      sync.Mutex
	all     []models.StudySession
	active  []uuid.UUID
	fail    func(models.SessionFilter) error
	created []*models.StudySession
	calls   int
}

func (s *stubSessions) FetchSessions(_ context.Context, f models.SessionFilter) ([]models.StudySession, error) {
	s.mu.Lock()
	s.calls++
	s.mu.Unlock()

	if s.fail != nil {
		if err := s.fail(f); err != nil {
			return nil, err
		}
	}

	inGroups := make(map[uuid.UUID]bool, len(f.GroupIDs))
	for _, id := range f.GroupIDs {
		inGroups[id] = true
	}

	out := make([]models.StudySession, 0)
	for _, sess := range s.all {
		if f.UserID != nil && sess.UserID != *f.UserID {
			continue
		}
		if f.GroupID != nil && (sess.GroupID == nil || *sess.GroupID != *f.GroupID) {
			continue
		}
		if len(inGroups) > 0 && (sess.GroupID == nil || !inGroups[*sess.GroupID]) {
			continue
		}
		if f.Since != nil && sess.CreatedAt.Before(*f.Since) {
			continue
		}
		out = append(out, sess)
	}

	sort.SliceStable(out, func(a, b int) bool {
		if f.Order == models.Descending {
			return out[a].CreatedAt.After(out[b].CreatedAt)
		}
		return out[a].CreatedAt.Before(out[b].CreatedAt)
	})
	if f.Limit > 0 && len(out) > f.Limit {
		out = out[:f.Limit]
	}
	return out, nil
}

func (s *stubSessions) Create(_ context.Context, sess *models.StudySession) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess.ID = uuid.New()
	sess.CreatedAt = testNow
	s.created = append(s.created, sess)
	return nil
}

func (s *stubSessions) ListActiveUserIDs(context.Context, time.Time) ([]uuid.UUID, error) {
	return s.active, nil
}

type stubMemberships struct {
	all  []models.GroupMembership
	fail func(models.MembershipFilter) error
}

func (s *stubMemberships) FetchMemberships(_ context.Context, f models.MembershipFilter) ([]models.GroupMembership, error) {
	if s.fail != nil {
		if err := s.fail(f); err != nil {
			return nil, err
		}
	}

	inGroups := make(map[uuid.UUID]bool, len(f.GroupIDs))
	for _, id := range f.GroupIDs {
		inGroups[id] = true
	}

	out := make([]models.GroupMembership, 0)
	for _, m := range s.all {
		if f.UserID != nil && m.UserID != *f.UserID {
			continue
		}
		if len(inGroups) > 0 && !inGroups[m.GroupID] {
			continue
		}
		out = append(out, m)
	}

	sort.SliceStable(out, func(a, b int) bool {
		if f.Order == models.Descending {
			return out[a].JoinedAt.After(out[b].JoinedAt)
		}
		return out[a].JoinedAt.Before(out[b].JoinedAt)
	})
	if f.Limit > 0 && len(out) > f.Limit {
		out = out[:f.Limit]
	}
	return out, nil
}

type stubGroups struct {
	all []models.Group
	err error
}

func (s *stubGroups) FetchGroups(_ context.Context, ids []uuid.UUID) ([]models.Group, error) {
	if s.err != nil {
		return nil, s.err
	}
	want := make(map[uuid.UUID]bool, len(ids))
	for _, id := range ids {
		want[id] = true
	}
	out := make([]models.Group, 0)
	for _, g := range s.all {
		if want[g.ID] {
			out = append(out, g)
		}
	}
	return out, nil
}

type stubProfiles struct {
	all   []models.Profile
	err   error
	asked []uuid.UUID
}

func (s *stubProfiles) FetchProfiles(_ context.Context, ids []uuid.UUID) ([]models.Profile, error) {
	s.asked = ids
	if s.err != nil {
		return nil, s.err
	}
	want := make(map[uuid.UUID]bool, len(ids))
	for _, id := range ids {
		want[id] = true
	}
	out := make([]models.Profile, 0)
	for _, p := range s.all {
		if want[p.ID] {
			out = append(out, p)
		}
	}
	return out, nil
}

type stubCache struct {
	entries     map[uuid.UUID]*models.StudyStats
	getErr      error
	invalidated []uuid.UUID
}

func newStubCache() *stubCache {
	return &stubCache{entries: make(map[uuid.UUID]*models.StudyStats)}
}

func (c *stubCache) Get(_ context.Context, userID uuid.UUID) (*models.StudyStats, bool, error) {
	if c.getErr != nil {
		return nil, false, c.getErr
	}
	s, ok := c.entries[userID]
	return s, ok, nil
}

func (c *stubCache) Set(_ context.Context, userID uuid.UUID, stats *models.StudyStats) error {
	c.entries[userID] = stats
	return nil
}

func (c *stubCache) Invalidate(_ context.Context, userIDs ...uuid.UUID) error {
	c.invalidated = append(c.invalidated, userIDs...)
	for _, id := range userIDs {
		delete(c.entries, id)
	}
	return nil
}

func strPtr(s string) *string { return &s }
