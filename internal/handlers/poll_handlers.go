package handlers

import (
	"errors"
	"log"
	"math"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"hangout_app/internal/middleware"
	"hangout_app/internal/models"
	"hangout_app/internal/polls"
	"hangout_app/internal/services"
)

var votableTypes = []models.PollType{models.PollTypeWhen, models.PollTypeWhere, models.PollTypeCustom}

// PollHandler serves the poll endpoints for a plan
type PollHandler struct {
	db      *gorm.DB
	updates *services.UpdateEmitter
}

func NewPollHandler(db *gorm.DB, updates *services.UpdateEmitter) *PollHandler {
	return &PollHandler{db: db, updates: updates}
}

// Register mounts the poll routes on the given group
func (h *PollHandler) Register(g *echo.Group) {
	g.GET("/polls/:planId", h.ListPolls)
	g.POST("/polls/:planId", h.CreatePoll)
	g.POST("/polls/:planId/:pollId/vote", h.Vote)
	g.PUT("/polls/:planId/:pollId", h.EditPoll)
	g.DELETE("/polls/:planId/:pollId", h.DeletePoll)
	g.GET("/polls/:planId/:pollId/results", h.GetResults)
}

// loadPlan fetches the plan or raises 404
func (h *PollHandler) loadPlan(c echo.Context) (*models.Plan, error) {
	var plan models.Plan
	err := h.db.WithContext(c.Request().Context()).First(&plan, "id = ?", c.Param("planId")).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, echo.NewHTTPError(http.StatusNotFound, "Plan not found")
	}
	if err != nil {
		return nil, err
	}
	return &plan, nil
}

// participant returns the caller's participant row on the plan, or nil
func (h *PollHandler) participant(c echo.Context, planID, userID string) (*models.PlanParticipant, error) {
	var p models.PlanParticipant
	err := h.db.WithContext(c.Request().Context()).
		Where("plan_id = ? AND user_id = ?", planID, userID).
		First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// requireParticipant raises 403 unless the caller has any participant row
func (h *PollHandler) requireParticipant(c echo.Context, planID, userID string) error {
	p, err := h.participant(c, planID, userID)
	if err != nil {
		return err
	}
	if p == nil {
		return echo.NewHTTPError(http.StatusForbidden, "You are not a participant of this plan")
	}
	return nil
}

// requireGoing raises 403 unless the caller's status is going
func (h *PollHandler) requireGoing(c echo.Context, planID, userID string) error {
	p, err := h.participant(c, planID, userID)
	if err != nil {
		return err
	}
	if p == nil || p.Status != models.ParticipantStatusGoing {
		return echo.NewHTTPError(http.StatusForbidden, "Only going participants can do that")
	}
	return nil
}

// loadVotablePoll fetches a poll and raises 404 when it is missing, belongs
// to another plan, or is not a user-facing poll type. Invitation polls are
// invisible to these endpoints.
func (h *PollHandler) loadVotablePoll(c echo.Context, planID string) (*models.Poll, error) {
	var poll models.Poll
	err := h.db.WithContext(c.Request().Context()).First(&poll, "id = ?", c.Param("pollId")).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, echo.NewHTTPError(http.StatusNotFound, "Poll not found")
	}
	if err != nil {
		return nil, err
	}
	if poll.PlanID != planID || !poll.PollType.Votable() {
		return nil, echo.NewHTTPError(http.StatusNotFound, "Poll not found")
	}
	return &poll, nil
}

// ListPolls returns every user-facing poll on the plan with options, votes
// and voter display data.
func (h *PollHandler) ListPolls(c echo.Context) error {
	plan, err := h.loadPlan(c)
	if err != nil {
		return err
	}
	userID := middleware.UserID(c)
	if err := h.requireParticipant(c, plan.ID, userID); err != nil {
		return err
	}

	var pollRows []models.Poll
	err = h.db.WithContext(c.Request().Context()).
		Where("plan_id = ? AND poll_type IN ?", plan.ID, votableTypes).
		Order("created_at asc").
		Preload("Options", func(db *gorm.DB) *gorm.DB { return db.Order("position asc") }).
		Preload("Options.Votes", func(db *gorm.DB) *gorm.DB { return db.Order("created_at asc") }).
		Preload("Options.Votes.User").
		Find(&pollRows).Error
	if err != nil {
		return err
	}

	views := make([]PollView, 0, len(pollRows))
	for _, poll := range pollRows {
		views = append(views, buildPollView(poll))
	}
	return c.JSON(http.StatusOK, views)
}

func buildPollView(poll models.Poll) PollView {
	view := PollView{
		ID:        poll.ID,
		PlanID:    poll.PlanID,
		Question:  poll.Question,
		Type:      string(poll.PollType),
		ExpiresAt: poll.EndsAt,
		CreatedBy: poll.CreatedBy,
		CreatedAt: poll.CreatedAt,
		Options:   make([]OptionView, 0, len(poll.Options)),
	}
	for _, opt := range poll.Options {
		ov := OptionView{
			ID:       opt.ID,
			Text:     opt.Text,
			Position: opt.Position,
			Votes:    len(opt.Votes),
			Voters:   make([]VoterView, 0, len(opt.Votes)),
		}
		for _, vote := range opt.Votes {
			ov.Voters = append(ov.Voters, VoterView{
				UserID:    vote.UserID,
				Username:  vote.User.Username,
				AvatarURL: vote.User.AvatarURL,
			})
		}
		view.Options = append(view.Options, ov)
	}
	return view
}

// CreatePoll creates a poll with its options. The poll row is written
// first; when an option insert fails the poll row is deleted again so no
// optionless poll is ever visible.
func (h *PollHandler) CreatePoll(c echo.Context) error {
	plan, err := h.loadPlan(c)
	if err != nil {
		return err
	}
	userID := middleware.UserID(c)
	if err := h.requireGoing(c, plan.ID, userID); err != nil {
		return err
	}

	var req CreatePollRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	if req.Question == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Question is required")
	}
	if len(req.Options) < 2 {
		return echo.NewHTTPError(http.StatusBadRequest, "A poll needs at least 2 options")
	}
	pollType := models.PollType(req.Type)
	if !pollType.Votable() {
		return echo.NewHTTPError(http.StatusBadRequest, "Unsupported poll type")
	}

	poll := models.Poll{
		ID:        uuid.New().String(),
		PlanID:    plan.ID,
		Question:  req.Question,
		PollType:  pollType,
		EndsAt:    req.ExpiresAt,
		CreatedBy: userID,
	}
	ctx := c.Request().Context()
	if err := h.db.WithContext(ctx).Create(&poll).Error; err != nil {
		return err
	}

	options := make([]models.PollOption, 0, len(req.Options))
	for i, text := range req.Options {
		options = append(options, models.PollOption{
			ID:       uuid.New().String(),
			PollID:   poll.ID,
			Text:     text,
			Position: i,
		})
	}
	if err := h.db.WithContext(ctx).Create(&options).Error; err != nil {
		// Compensating delete so the half-created poll never surfaces.
		if delErr := h.db.WithContext(ctx).Delete(&models.Poll{}, "id = ?", poll.ID).Error; delErr != nil {
			log.Printf("[polls] compensating delete of poll %s failed: %v", poll.ID, delErr)
		}
		return err
	}
	poll.Options = options

	err = h.updates.Emit(ctx, plan.ID, models.UpdateTypePollCreated, &userID, map[string]interface{}{
		"poll_id":   poll.ID,
		"question":  poll.Question,
		"poll_type": string(poll.PollType),
	})
	if err != nil {
		log.Printf("[polls] plan %s: emit poll_created failed: %v", plan.ID, err)
	}

	return c.JSON(http.StatusCreated, buildPollView(poll))
}

// Vote replaces the caller's votes on the poll with one vote per supplied
// option id. An empty array leaves the caller with no vote.
func (h *PollHandler) Vote(c echo.Context) error {
	plan, err := h.loadPlan(c)
	if err != nil {
		return err
	}
	userID := middleware.UserID(c)
	if err := h.requireGoing(c, plan.ID, userID); err != nil {
		return err
	}
	poll, err := h.loadVotablePoll(c, plan.ID)
	if err != nil {
		return err
	}

	var req VoteRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}

	ctx := c.Request().Context()
	var optionIDs []string
	if err := h.db.WithContext(ctx).Model(&models.PollOption{}).
		Where("poll_id = ?", poll.ID).
		Pluck("id", &optionIDs).Error; err != nil {
		return err
	}
	valid := make(map[string]bool, len(optionIDs))
	for _, id := range optionIDs {
		valid[id] = true
	}

	selected := make([]string, 0, len(req.OptionIDs))
	seen := make(map[string]bool, len(req.OptionIDs))
	for _, id := range req.OptionIDs {
		if !valid[id] {
			return echo.NewHTTPError(http.StatusBadRequest, "Option does not belong to this poll")
		}
		if !seen[id] {
			seen[id] = true
			selected = append(selected, id)
		}
	}

	err = h.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("poll_id = ? AND user_id = ?", poll.ID, userID).
			Delete(&models.PollVote{}).Error; err != nil {
			return err
		}
		for _, optionID := range selected {
			vote := models.PollVote{PollID: poll.ID, OptionID: optionID, UserID: userID}
			if err := tx.Create(&vote).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	err = h.updates.Emit(ctx, plan.ID, models.UpdateTypePollVoted, &userID, map[string]interface{}{
		"poll_id":      poll.ID,
		"option_count": len(selected),
	})
	if err != nil {
		log.Printf("[polls] plan %s: emit poll_voted failed: %v", plan.ID, err)
	}

	return c.JSON(http.StatusOK, StatusResponse{Success: true, Message: "Vote recorded"})
}

// EditPoll updates the question and the non-protected option texts. The
// protected-option check and the writes run in one transaction so a vote
// landing mid-edit cannot invalidate an accepted edit. Creatorship alone
// is not enough; a creator who has since left the going status loses
// edit access.
func (h *PollHandler) EditPoll(c echo.Context) error {
	plan, err := h.loadPlan(c)
	if err != nil {
		return err
	}
	userID := middleware.UserID(c)
	if err := h.requireGoing(c, plan.ID, userID); err != nil {
		return err
	}

	var poll models.Poll
	ctx := c.Request().Context()
	err = h.db.WithContext(ctx).First(&poll, "id = ?", c.Param("pollId")).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, "Poll not found")
	}
	if err != nil {
		return err
	}
	if poll.PlanID != plan.ID {
		return echo.NewHTTPError(http.StatusNotFound, "Poll not found")
	}
	if !poll.PollType.Votable() {
		return echo.NewHTTPError(http.StatusBadRequest, "This poll type cannot be edited")
	}
	if poll.CreatedBy != userID {
		return echo.NewHTTPError(http.StatusForbidden, "Only the poll creator can edit it")
	}

	var req EditPollRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	if req.Question == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Question is required")
	}

	var conflict *ConflictResponse
	err = h.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		tallies, err := loadTallies(tx, poll.ID)
		if err != nil {
			return err
		}

		if conflicts := polls.EditConflicts(tallies, req.Options); len(conflicts) > 0 {
			conflict = &ConflictResponse{
				Error:            "Options with votes cannot be changed",
				ProtectedOptions: polls.ProtectedTexts(tallies),
			}
			return nil
		}

		if err := tx.Model(&models.Poll{}).Where("id = ?", poll.ID).
			Update("question", req.Question).Error; err != nil {
			return err
		}
		for i, t := range tallies {
			if i >= len(req.Options) {
				break
			}
			if req.Options[i] == t.Text {
				continue
			}
			if err := tx.Model(&models.PollOption{}).Where("id = ?", t.OptionID).
				Update("text", req.Options[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	if conflict != nil {
		return c.JSON(http.StatusConflict, conflict)
	}

	err = h.updates.Emit(ctx, plan.ID, models.UpdateTypePollUpdated, &userID, map[string]interface{}{
		"poll_id":  poll.ID,
		"question": req.Question,
	})
	if err != nil {
		log.Printf("[polls] plan %s: emit poll_updated failed: %v", plan.ID, err)
	}

	return c.JSON(http.StatusOK, StatusResponse{Success: true, Message: "Poll updated"})
}

// DeletePoll removes a poll with its options and votes
func (h *PollHandler) DeletePoll(c echo.Context) error {
	plan, err := h.loadPlan(c)
	if err != nil {
		return err
	}
	userID := middleware.UserID(c)
	if err := h.requireGoing(c, plan.ID, userID); err != nil {
		return err
	}
	poll, err := h.loadVotablePoll(c, plan.ID)
	if err != nil {
		return err
	}
	if poll.CreatedBy != userID {
		return echo.NewHTTPError(http.StatusForbidden, "Only the poll creator can delete it")
	}

	ctx := c.Request().Context()
	err = h.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("poll_id = ?", poll.ID).Delete(&models.PollVote{}).Error; err != nil {
			return err
		}
		if err := tx.Where("poll_id = ?", poll.ID).Delete(&models.PollOption{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Poll{}, "id = ?", poll.ID).Error
	})
	if err != nil {
		return err
	}

	err = h.updates.Emit(ctx, plan.ID, models.UpdateTypePollDeleted, &userID, map[string]interface{}{
		"poll_id":  poll.ID,
		"question": poll.Question,
	})
	if err != nil {
		log.Printf("[polls] plan %s: emit poll_deleted failed: %v", plan.ID, err)
	}

	return c.JSON(http.StatusOK, StatusResponse{Success: true, Message: "Poll deleted"})
}

// GetResults returns per-option tallies and the winner verdict
func (h *PollHandler) GetResults(c echo.Context) error {
	plan, err := h.loadPlan(c)
	if err != nil {
		return err
	}
	userID := middleware.UserID(c)
	if err := h.requireParticipant(c, plan.ID, userID); err != nil {
		return err
	}
	poll, err := h.loadVotablePoll(c, plan.ID)
	if err != nil {
		return err
	}

	ctx := c.Request().Context()
	tallies, err := loadTallies(h.db.WithContext(ctx), poll.ID)
	if err != nil {
		return err
	}

	var distinctVoters int64
	if err := h.db.WithContext(ctx).Model(&models.PollVote{}).
		Where("poll_id = ?", poll.ID).
		Distinct("user_id").
		Count(&distinctVoters).Error; err != nil {
		return err
	}

	var goingCount int64
	if err := h.db.WithContext(ctx).Model(&models.PlanParticipant{}).
		Where("plan_id = ? AND status = ?", plan.ID, models.ParticipantStatusGoing).
		Count(&goingCount).Error; err != nil {
		return err
	}

	verdict := polls.ResolveWinner(tallies, int(distinctVoters), int(goingCount))

	totalVotes := 0
	for _, t := range tallies {
		totalVotes += t.Votes
	}

	optionResults := make([]map[string]interface{}, 0, len(tallies))
	for _, t := range tallies {
		percentage := 0
		if totalVotes > 0 {
			percentage = int(math.Round(float64(t.Votes) / float64(totalVotes) * 100))
		}
		optionResults = append(optionResults, map[string]interface{}{
			"id":         t.OptionID,
			"text":       t.Text,
			"votes":      t.Votes,
			"percentage": percentage,
		})
	}

	pollResult := map[string]interface{}{
		"id":        poll.ID,
		"question":  poll.Question,
		"type":      string(poll.PollType),
		"hasWinner": verdict.HasWinner,
	}
	if verdict.HasWinner {
		pollResult["winner"] = map[string]interface{}{
			"optionId": verdict.WinnerOptionID,
			"text":     verdict.WinnerText,
		}
	} else {
		pollResult["winner"] = nil
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"poll":    pollResult,
		"options": optionResults,
		"stats": map[string]interface{}{
			"totalVotes":        totalVotes,
			"distinctVoters":    distinctVoters,
			"goingParticipants": goingCount,
			"threshold":         verdict.Threshold,
			"quorum":            verdict.Quorum,
		},
	})
}

// loadTallies reads the poll's options in display order with their vote
// counts and ascending vote timestamps.
func loadTallies(db *gorm.DB, pollID string) ([]polls.OptionTally, error) {
	var options []models.PollOption
	if err := db.Where("poll_id = ?", pollID).Order("position asc").Find(&options).Error; err != nil {
		return nil, err
	}

	var votes []models.PollVote
	if err := db.Where("poll_id = ?", pollID).Order("created_at asc").Find(&votes).Error; err != nil {
		return nil, err
	}

	tallies := make([]polls.OptionTally, len(options))
	index := make(map[string]int, len(options))
	for i, opt := range options {
		tallies[i] = polls.OptionTally{OptionID: opt.ID, Text: opt.Text}
		index[opt.ID] = i
	}
	for _, vote := range votes {
		i, ok := index[vote.OptionID]
		if !ok {
			continue
		}
		tallies[i].Votes++
		tallies[i].VoteTimes = append(tallies[i].VoteTimes, vote.CreatedAt)
	}
	return tallies, nil
}
