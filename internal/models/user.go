package models

import (
	"time"
)

// User mirrors the identity records issued by the managed auth backend.
// The ID is the auth provider's UID, so rows here carry display data only.
type User struct {
	ID        string    `gorm:"type:varchar(64);primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Username  string `gorm:"type:varchar(255)" json:"username"`
	Email     string `gorm:"type:varchar(255);uniqueIndex" json:"email"`
	AvatarURL string `gorm:"type:text" json:"avatar_url"`

	// Relationships
	Participations []PlanParticipant `gorm:"foreignKey:UserID" json:"participations,omitempty"`
}
