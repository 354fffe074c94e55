package models

import (
	"time"
)

// PlanStatus represents the lifecycle state of a plan
type PlanStatus string

const (
	PlanStatusActive    PlanStatus = "active"
	PlanStatusCompleted PlanStatus = "completed"
)

// Plan represents a proposed hangout, owned collectively by its participants.
// CreatorID is nil for anonymous plans. CompletedAt is written by the
// auto-completion stored procedure and read back by the worker to find plans
// that completed since its last sweep.
type Plan struct {
	ID        string    `gorm:"type:varchar(36);primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Title       string     `gorm:"type:varchar(255)" json:"title"`
	CreatorID   *string    `gorm:"type:varchar(64)" json:"creator_id"`
	Status      PlanStatus `gorm:"type:varchar(20);default:'active';index" json:"status"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`

	// Relationships
	Participants []PlanParticipant `gorm:"foreignKey:PlanID" json:"participants,omitempty"`
	Polls        []Poll            `gorm:"foreignKey:PlanID" json:"polls,omitempty"`
}
