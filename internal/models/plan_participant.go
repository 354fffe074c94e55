package models

import (
	"time"
)

// ParticipantStatus represents a user's response on a plan
type ParticipantStatus string

const (
	ParticipantStatusPending     ParticipantStatus = "pending"
	ParticipantStatusGoing       ParticipantStatus = "going"
	ParticipantStatusMaybe       ParticipantStatus = "maybe"
	ParticipantStatusConditional ParticipantStatus = "conditional"
	ParticipantStatusDeclined    ParticipantStatus = "declined"
)

// PlanParticipant links a user to a plan with their response status.
// A conditional participant carries the user ids their attendance depends
// on; the worker's dependency sweep hands those plans to the cascade
// procedure for re-evaluation.
type PlanParticipant struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	PlanID string            `gorm:"type:varchar(36);uniqueIndex:idx_plan_participant_user" json:"plan_id"`
	UserID string            `gorm:"type:varchar(64);uniqueIndex:idx_plan_participant_user" json:"user_id"`
	Status ParticipantStatus `gorm:"type:varchar(20);default:'pending';index" json:"status"`

	// ConditionalFriendIDs is only meaningful while Status is conditional.
	ConditionalFriendIDs []string `gorm:"serializer:json" json:"conditional_friend_ids,omitempty"`

	// Relationships
	Plan Plan `gorm:"foreignKey:PlanID" json:"plan,omitempty"`
	User User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}
