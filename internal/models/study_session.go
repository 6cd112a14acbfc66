package models

import (
	"time"

	"github.com/google/uuid"
)

type StudySession struct {
	ID          uuid.UUID  `json:"id"`
	UserID      uuid.UUID  `json:"user_id"`
	Subject     string     `json:"subject"`
	Minutes     int        `json:"minutes"`
	GroupID     *uuid.UUID `json:"group_id"`
	Description *string    `json:"description"`
	CreatedAt   time.Time  `json:"created_at"`
}

type SortOrder int

const (
	Ascending SortOrder = iota
	Descending
)

// SessionFilter selects study sessions. Zero-valued fields are ignored;
// GroupID and GroupIDs are combined when both are set.
type SessionFilter struct {
	UserID   *uuid.UUID
	GroupID  *uuid.UUID
	GroupIDs []uuid.UUID
	Since    *time.Time
	Order    SortOrder
	Limit    int
}

type LogStudyRequest struct {
	Subject     string  `json:"subject" validate:"required,max=200"`
	Description *string `json:"description" validate:"omitempty,max=2000"`
	Minutes     int     `json:"minutes" validate:"min=1,max=1440"`
	GroupID     string  `json:"group_id" validate:"required,uuid"`
}
