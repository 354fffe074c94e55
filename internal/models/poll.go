package models

import (
	"time"
)

// PollType represents the kind of decision a poll settles
type PollType string

const (
	PollTypeWhen       PollType = "when"
	PollTypeWhere      PollType = "where"
	PollTypeCustom     PollType = "custom"
	PollTypeInvitation PollType = "invitation"
)

// Votable reports whether t is one of the user-facing poll types.
// Invitation polls are created and resolved by the worker only and never
// surface through the standard poll endpoints.
func (t PollType) Votable() bool {
	switch t {
	case PollTypeWhen, PollTypeWhere, PollTypeCustom:
		return true
	}
	return false
}

// Poll is a decision attached to one plan. EndsAt is only set for
// time-boxed polls; invitation polls always carry it plus the user ids
// being voted on for admission.
type Poll struct {
	ID        string    `gorm:"type:varchar(36);primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`

	PlanID    string     `gorm:"type:varchar(36);index" json:"plan_id"`
	Question  string     `gorm:"type:varchar(500)" json:"question"`
	PollType  PollType   `gorm:"type:varchar(20);index" json:"poll_type"`
	EndsAt    *time.Time `gorm:"index" json:"ends_at,omitempty"`
	CreatedBy string     `gorm:"type:varchar(64)" json:"created_by"`

	InvitedUserIDs []string `gorm:"serializer:json" json:"invited_user_ids,omitempty"`

	// Relationships
	Options []PollOption `gorm:"foreignKey:PollID" json:"options,omitempty"`
}

// PollOption is one ordered choice within a poll
type PollOption struct {
	ID        string    `gorm:"type:varchar(36);primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`

	PollID   string `gorm:"type:varchar(36);index" json:"poll_id"`
	Text     string `gorm:"type:varchar(500)" json:"text"`
	Position int    `json:"position"`

	// Relationships
	Votes []PollVote `gorm:"foreignKey:OptionID" json:"votes,omitempty"`
}
