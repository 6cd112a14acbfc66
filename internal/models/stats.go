package models

import "github.com/google/uuid"

type DayBucket struct {
	Name  string  `json:"name"`
	Hours float64 `json:"hours"`
}

type WeekBucket struct {
	Name  string  `json:"name"`
	Hours float64 `json:"hours"`
}

type GroupRank struct {
	Rank         int       `json:"rank"`
	TotalMembers int       `json:"total_members"`
	GroupID      uuid.UUID `json:"group_id"`
	GroupName    string    `json:"group_name"`
}

type StudyStats struct {
	Weekly         []DayBucket  `json:"weekly"`
	Monthly        []WeekBucket `json:"monthly"`
	TotalHours     float64      `json:"total_hours"`
	WeeklyChange   float64      `json:"weekly_change"`
	Streak         int          `json:"streak"`
	PreviousStreak int          `json:"previous_streak"`
	StreakIsAtRisk bool         `json:"streak_is_at_risk"`
	GroupRank      *GroupRank   `json:"group_rank,omitempty"`
}
