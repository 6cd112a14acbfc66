package analytics

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"studyhub-backend/internal/models"
)

func groupSession(userID uuid.UUID, minutes int) models.StudySession {
	s := session(minutes, testNow)
	s.UserID = userID
	return s
}

func TestRank_SumsPerUser(t *testing.T) {
	a, b := uuid.New(), uuid.New()
	sessions := []models.StudySession{
		groupSession(a, 100),
		groupSession(b, 50),
		groupSession(a, 20),
	}

	totals := MemberTotals(sessions)
	require.Len(t, totals, 2)
	assert.Equal(t, MemberTotal{UserID: a, Minutes: 120}, totals[0])
	assert.Equal(t, MemberTotal{UserID: b, Minutes: 50}, totals[1])

	rankA, ok := Rank(sessions, a)
	require.True(t, ok)
	assert.Equal(t, RankResult{Rank: 1, TotalMembers: 2}, rankA)

	rankB, ok := Rank(sessions, b)
	require.True(t, ok)
	assert.Equal(t, RankResult{Rank: 2, TotalMembers: 2}, rankB)
}

func TestRank_NoSessionsForUser(t *testing.T) {
	sessions := []models.StudySession{groupSession(uuid.New(), 30)}

	result, ok := Rank(sessions, uuid.New())
	assert.False(t, ok)
	assert.Zero(t, result.Rank)
	assert.Equal(t, 1, result.TotalMembers)

	_, ok = Rank(nil, uuid.New())
	assert.False(t, ok)
}

func TestRank_TiesKeepFirstAppearanceOrder(t *testing.T) {
	first, second, third := uuid.New(), uuid.New(), uuid.New()
	sessions := []models.StudySession{
		groupSession(second, 30),
		groupSession(first, 60),
		groupSession(third, 10),
		groupSession(second, 30),
	}

	rank, _ := Rank(sessions, second)
	assert.Equal(t, 1, rank.Rank)

	rank, _ = Rank(sessions, first)
	assert.Equal(t, 2, rank.Rank)

	rank, _ = Rank(sessions, third)
	assert.Equal(t, 3, rank.Rank)
}
