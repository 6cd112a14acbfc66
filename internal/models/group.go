package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	RoleAdmin  = "admin"
	RoleMember = "member"
)

type Group struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

// GroupMembership is unique per (GroupID, UserID); the store enforces it.
type GroupMembership struct {
	ID       uuid.UUID `json:"id"`
	GroupID  uuid.UUID `json:"group_id"`
	UserID   uuid.UUID `json:"user_id"`
	Role     string    `json:"role"` // "admin" | "member"
	JoinedAt time.Time `json:"joined_at"`
}

type MembershipFilter struct {
	UserID   *uuid.UUID
	GroupIDs []uuid.UUID
	Order    SortOrder
	Limit    int
}

type LeaderboardMember struct {
	ID            uuid.UUID `json:"id"`
	Name          string    `json:"name"`
	AvatarURL     *string   `json:"avatar_url"`
	Hours         int       `json:"hours"`
	Minutes       int       `json:"minutes"`
	IsCurrentUser bool      `json:"is_current_user"`
}

type GroupLeaderboard struct {
	ID          uuid.UUID           `json:"id"`
	Name        string              `json:"name"`
	MemberCount int                 `json:"member_count"`
	StudyHours  int                 `json:"study_hours"`
	Members     []LeaderboardMember `json:"members"`
}
