package models

import (
	"time"

	"github.com/google/uuid"
)

type ActivityType string

const (
	ActivityStudyLogged ActivityType = "study_log"
	ActivityGroupJoined ActivityType = "joined_group"
)

type ActivityActor struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	AvatarURL *string   `json:"avatar_url"`
}

// ActivityEvent is either a logged study session or a group join. Subject,
// Minutes and Description are only set for ActivityStudyLogged.
type ActivityEvent struct {
	ID            string        `json:"id"`
	Type          ActivityType  `json:"type"`
	User          ActivityActor `json:"user"`
	CreatedAt     time.Time     `json:"created_at"`
	Group         *Group        `json:"group"`
	Subject       string        `json:"subject,omitempty"`
	Minutes       int           `json:"minutes,omitempty"`
	Description   *string       `json:"description,omitempty"`
	IsCurrentUser bool          `json:"is_current_user"`
}
