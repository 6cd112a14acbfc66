package analytics

import (
	"sort"

	"github.com/google/uuid"

	"studyhub-backend/internal/models"
)

const (
	// DefaultFeedLimit caps the merged feed.
	DefaultFeedLimit = 20
	// DefaultFeedSessionLimit and DefaultFeedJoinLimit cap the records fetched per source.
	DefaultFeedSessionLimit = 20
	DefaultFeedJoinLimit    = 10

	viewerDisplayName = "You"
	anonymousIDPrefix = 4
)

// FeedInput is one snapshot of everything the feed is built from.
type FeedInput struct {
	Viewer   uuid.UUID
	Groups   []models.Group
	Sessions []models.StudySession
	Joins    []models.GroupMembership
	Profiles []models.Profile
	Limit    int
}

// ActorIDs returns the distinct user ids appearing in sessions and joins,
// in first-seen order.
func ActorIDs(sessions []models.StudySession, joins []models.GroupMembership) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(sessions)+len(joins))
	ids := make([]uuid.UUID, 0, len(sessions)+len(joins))

	add := func(id uuid.UUID) {
		if _, ok := seen[id]; ok {
			return
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}

	for _, s := range sessions {
		add(s.UserID)
	}
	for _, j := range joins {
		add(j.UserID)
	}
	return ids
}

// DisplayName labels an actor. The viewer is always "You"; actors without a
// stored name get a placeholder built from their id.
func DisplayName(userID, viewer uuid.UUID, profile *models.Profile) string {
	if userID == viewer {
		return viewerDisplayName
	}
	if profile != nil && profile.Name != nil && *profile.Name != "" {
		return *profile.Name
	}
	return "User " + userID.String()[:anonymousIDPrefix] + "..."
}

// MergeFeed maps study sessions and group joins to activity events and
// returns them newest first, truncated to in.Limit (DefaultFeedLimit when
// zero). Events with equal timestamps keep sessions ahead of joins.
func MergeFeed(in FeedInput) []models.ActivityEvent {
	limit := in.Limit
	if limit <= 0 {
		limit = DefaultFeedLimit
	}

	groups := make(map[uuid.UUID]models.Group, len(in.Groups))
	for _, g := range in.Groups {
		groups[g.ID] = g
	}

	profiles := make(map[uuid.UUID]*models.Profile, len(in.Profiles))
	for i := range in.Profiles {
		profiles[in.Profiles[i].ID] = &in.Profiles[i]
	}

	groupRef := func(id *uuid.UUID) *models.Group {
		if id == nil {
			return nil
		}
		g, ok := groups[*id]
		if !ok {
			return nil
		}
		return &g
	}

	actor := func(userID uuid.UUID) models.ActivityActor {
		p := profiles[userID]
		a := models.ActivityActor{ID: userID, Name: DisplayName(userID, in.Viewer, p)}
		// Unnamed actors render as a placeholder, without their avatar.
		if p != nil && p.Name != nil && *p.Name != "" && p.AvatarURL != nil && *p.AvatarURL != "" {
			a.AvatarURL = p.AvatarURL
		}
		return a
	}

	events := make([]models.ActivityEvent, 0, len(in.Sessions)+len(in.Joins))

	for _, s := range in.Sessions {
		events = append(events, models.ActivityEvent{
			ID:            "study-" + s.ID.String(),
			Type:          models.ActivityStudyLogged,
			User:          actor(s.UserID),
			CreatedAt:     s.CreatedAt,
			Group:         groupRef(s.GroupID),
			Subject:       s.Subject,
			Minutes:       s.Minutes,
			Description:   s.Description,
			IsCurrentUser: s.UserID == in.Viewer,
		})
	}

	for _, j := range in.Joins {
		groupID := j.GroupID
		events = append(events, models.ActivityEvent{
			ID:            "join-" + j.ID.String(),
			Type:          models.ActivityGroupJoined,
			User:          actor(j.UserID),
			CreatedAt:     j.JoinedAt,
			Group:         groupRef(&groupID),
			IsCurrentUser: j.UserID == in.Viewer,
		})
	}

	sort.SliceStable(events, func(a, b int) bool {
		return events[a].CreatedAt.After(events[b].CreatedAt)
	})

	if len(events) > limit {
		events = events[:limit]
	}
	return events
}
