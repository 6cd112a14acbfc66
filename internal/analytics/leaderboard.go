package analytics

import (
	"math"
	"sort"

	"github.com/google/uuid"

	"studyhub-backend/internal/models"
)

// Leaderboard lists every member of a group with their whole-hour totals,
// highest first. Members who never logged time are listed with zero hours.
// Unlike the feed, the viewer keeps their own name here.
func Leaderboard(
	group models.Group,
	members []models.GroupMembership,
	sessions []models.StudySession,
	profiles []models.Profile,
	viewer uuid.UUID,
) models.GroupLeaderboard {
	minutes := make(map[uuid.UUID]int)
	groupMinutes := 0
	for _, t := range MemberTotals(sessions) {
		minutes[t.UserID] = t.Minutes
		groupMinutes += t.Minutes
	}

	byID := make(map[uuid.UUID]*models.Profile, len(profiles))
	for i := range profiles {
		byID[profiles[i].ID] = &profiles[i]
	}

	board := models.GroupLeaderboard{
		ID:          group.ID,
		Name:        group.Name,
		MemberCount: len(members),
		StudyHours:  wholeHours(groupMinutes),
		Members:     make([]models.LeaderboardMember, 0, len(members)),
	}

	for _, m := range members {
		p := byID[m.UserID]
		entry := models.LeaderboardMember{
			ID:            m.UserID,
			Name:          DisplayName(m.UserID, uuid.Nil, p),
			Minutes:       minutes[m.UserID],
			Hours:         wholeHours(minutes[m.UserID]),
			IsCurrentUser: m.UserID == viewer,
		}
		if p != nil {
			entry.AvatarURL = p.AvatarURL
		}
		board.Members = append(board.Members, entry)
	}

	sort.SliceStable(board.Members, func(a, b int) bool {
		return board.Members[a].Minutes > board.Members[b].Minutes
	})

	return board
}

func wholeHours(minutes int) int {
	return int(math.Floor(minutesToHours(minutes) + 0.5))
}
