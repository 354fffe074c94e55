package models

import (
	"time"
)

// Update types emitted on the plan_updates feed
const (
	UpdateTypePollCreated   = "poll_created"
	UpdateTypePollVoted     = "poll_voted"
	UpdateTypePollUpdated   = "poll_updated"
	UpdateTypePollDeleted   = "poll_deleted"
	UpdateTypePlanCompleted = "plan_completed"
)

// PlanUpdate is an append-only event record consumed by the delivery layer.
// TriggeredBy is nil for system-triggered updates (worker sweeps). Nothing
// in this backend reads updates back except the worker's duplicate check on
// plan_completed emissions.
type PlanUpdate struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`

	PlanID      string                 `gorm:"type:varchar(36);index" json:"plan_id"`
	UpdateType  string                 `gorm:"type:varchar(50);index" json:"update_type"`
	TriggeredBy *string                `gorm:"type:varchar(64)" json:"triggered_by"`
	Metadata    map[string]interface{} `gorm:"serializer:json" json:"metadata"`
}
