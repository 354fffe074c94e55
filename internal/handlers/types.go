package handlers

import (
	"time"
)

// CreatePollRequest is the body of POST /polls/:planId
type CreatePollRequest struct {
	Question  string     `json:"question"`
	Options   []string   `json:"options"`
	Type      string     `json:"type"`
	ExpiresAt *time.Time `json:"expiresAt,omitempty"`
}

// VoteRequest is the body of POST /polls/:planId/:pollId/vote.
// An empty optionIds array clears the caller's votes on the poll.
type VoteRequest struct {
	OptionIDs []string `json:"optionIds"`
}

// EditPollRequest is the body of PUT /polls/:planId/:pollId
type EditPollRequest struct {
	Question string   `json:"question"`
	Options  []string `json:"options"`
}

// VoterView is the display data attached to each vote in poll listings
type VoterView struct {
	UserID    string `json:"user_id"`
	Username  string `json:"username"`
	AvatarURL string `json:"avatar_url,omitempty"`
}

// OptionView is one option with its current votes
type OptionView struct {
	ID       string      `json:"id"`
	Text     string      `json:"text"`
	Position int         `json:"position"`
	Votes    int         `json:"votes"`
	Voters   []VoterView `json:"voters"`
}

// PollView is the poll listing shape returned to clients
type PollView struct {
	ID        string       `json:"id"`
	PlanID    string       `json:"plan_id"`
	Question  string       `json:"question"`
	Type      string       `json:"type"`
	ExpiresAt *time.Time   `json:"expires_at,omitempty"`
	CreatedBy string       `json:"created_by"`
	CreatedAt time.Time    `json:"created_at"`
	Options   []OptionView `json:"options"`
}

// StatusResponse is the generic mutation acknowledgement
type StatusResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// ConflictResponse is the 409 body for a protected-option edit
type ConflictResponse struct {
	Error            string   `json:"error"`
	ProtectedOptions []string `json:"protectedOptions"`
}
