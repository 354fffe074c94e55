package models

import (
	"time"
)

// PollVote records one user's selection of one option. The composite unique
// index keeps a user from holding two vote rows on the same option; a user
// may still vote multiple options of the same poll (multi-select).
// CreatedAt is the tie-break input for the winner resolver, so it must not
// be rewritten once the row exists.
type PollVote struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`

	PollID   string `gorm:"type:varchar(36);index" json:"poll_id"`
	OptionID string `gorm:"type:varchar(36);uniqueIndex:idx_poll_vote_option_user" json:"option_id"`
	UserID   string `gorm:"type:varchar(64);uniqueIndex:idx_poll_vote_option_user" json:"user_id"`

	// Relationships
	User User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}
