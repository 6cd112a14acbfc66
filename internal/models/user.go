package models

import "github.com/google/uuid"

// Profile labels an actor in aggregated views. Name and AvatarURL are optional.
type Profile struct {
	ID        uuid.UUID `json:"id"`
	Name      *string   `json:"name"`
	AvatarURL *string   `json:"avatar_url"`
}
