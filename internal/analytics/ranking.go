package analytics

import (
	"sort"

	"github.com/google/uuid"

	"studyhub-backend/internal/models"
)

// MemberTotal is one user's summed minutes within a group.
type MemberTotal struct {
	UserID  uuid.UUID
	Minutes int
}

// RankResult is a 1-based position among the users who logged time in a group.
type RankResult struct {
	Rank         int `json:"rank"`
	TotalMembers int `json:"total_members"`
}

// MemberTotals sums minutes per user and orders users by total, highest
// first. Users with equal totals keep the order in which they first appear
// in sessions; there is no secondary key.
func MemberTotals(sessions []models.StudySession) []MemberTotal {
	index := make(map[uuid.UUID]int)
	totals := make([]MemberTotal, 0)

	for _, s := range sessions {
		i, ok := index[s.UserID]
		if !ok {
			i = len(totals)
			index[s.UserID] = i
			totals = append(totals, MemberTotal{UserID: s.UserID})
		}
		totals[i].Minutes += s.Minutes
	}

	sort.SliceStable(totals, func(a, b int) bool {
		return totals[a].Minutes > totals[b].Minutes
	})

	return totals
}

// Rank returns userID's position among the group's contributors. ok is false
// when the user has no sessions in the group.
func Rank(sessions []models.StudySession, userID uuid.UUID) (result RankResult, ok bool) {
	totals := MemberTotals(sessions)
	for i, t := range totals {
		if t.UserID == userID {
			return RankResult{Rank: i + 1, TotalMembers: len(totals)}, true
		}
	}
	return RankResult{TotalMembers: len(totals)}, false
}
