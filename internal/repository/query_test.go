package repository

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"studyhub-backend/internal/models"
)

func TestBuildSessionQuery_UserWindowAscending(t *testing.T) {
	userID := uuid.New()
	since := time.Date(2026, 9, 14, 0, 0, 0, 0, time.UTC)

	query, args := buildSessionQuery(models.SessionFilter{UserID: &userID, Since: &since})

	assert.Equal(t,
		"SELECT id, user_id, group_id, subject, minutes, description, created_at FROM study_logs "+
			"WHERE user_id = $1 AND created_at >= $2 ORDER BY created_at ASC",
		query)
	assert.Equal(t, []interface{}{userID, since}, args)
}

func TestBuildSessionQuery_GroupsDescendingWithLimit(t *testing.T) {
	a, b := uuid.New(), uuid.New()

	query, args := buildSessionQuery(models.SessionFilter{
		GroupIDs: []uuid.UUID{a, b},
		Order:    models.Descending,
		Limit:    20,
	})

	assert.Contains(t, query, "WHERE group_id = ANY($1::uuid[])")
	assert.Contains(t, query, "ORDER BY created_at DESC LIMIT $2")
	assert.Equal(t, []interface{}{[]string{a.String(), b.String()}, 20}, args)
}

func TestBuildSessionQuery_NoFilter(t *testing.T) {
	query, args := buildSessionQuery(models.SessionFilter{})

	assert.NotContains(t, query, "WHERE")
	assert.Empty(t, args)
}

func TestBuildMembershipQuery(t *testing.T) {
	userID := uuid.New()

	query, args := buildMembershipQuery(models.MembershipFilter{UserID: &userID, Limit: 1})

	assert.Equal(t,
		"SELECT id, group_id, user_id, role, joined_at FROM group_members WHERE user_id = $1 ORDER BY joined_at ASC LIMIT $2",
		query)
	assert.Equal(t, []interface{}{userID, 1}, args)
}
