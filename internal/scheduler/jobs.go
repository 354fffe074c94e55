package scheduler

import (
	"context"
	"fmt"
	"log"
	"time"

	"hangout_app/internal/models"
)

// RunAutoCompletion invokes the auto-completion procedure, then emits a
// plan_completed update for every plan that completed within the sweep
// window and has no such update yet. Exported as a manual trigger for
// operational tooling.
func (s *Scheduler) RunAutoCompletion(ctx context.Context) error {
	procCtx, cancel := s.procCtx(ctx)
	err := s.procs.AutoCompletePlans(procCtx)
	cancel()
	if err != nil {
		return fmt.Errorf("auto-completion procedure: %w", err)
	}

	cutoff := time.Now().Add(-s.cfg.AutoCompleteInterval)
	var completed []models.Plan
	if err := s.db.WithContext(ctx).
		Where("status = ? AND completed_at IS NOT NULL AND completed_at >= ?", models.PlanStatusCompleted, cutoff).
		Find(&completed).Error; err != nil {
		return fmt.Errorf("querying completed plans: %w", err)
	}

	for _, plan := range completed {
		seen, err := s.updates.HasUpdate(ctx, plan.ID, models.UpdateTypePlanCompleted)
		if err != nil {
			log.Printf("[auto_complete] plan %s: update check failed: %v", plan.ID, err)
			continue
		}
		if seen {
			continue
		}
		err = s.updates.Emit(ctx, plan.ID, models.UpdateTypePlanCompleted, nil, map[string]interface{}{
			"auto_completed": true,
		})
		if err != nil {
			log.Printf("[auto_complete] plan %s: emit failed: %v", plan.ID, err)
		}
	}
	return nil
}

// RunInvitationExpiry finalizes every invitation poll whose voting window
// has passed. Items are processed independently; the procedure is expected
// to retire the poll so a later sweep no longer selects it. Exported as a
// manual trigger for operational tooling.
func (s *Scheduler) RunInvitationExpiry(ctx context.Context) error {
	var expired []models.Poll
	if err := s.db.WithContext(ctx).
		Where("poll_type = ? AND ends_at IS NOT NULL AND ends_at < ?", models.PollTypeInvitation, time.Now()).
		Find(&expired).Error; err != nil {
		return fmt.Errorf("querying expired invitation polls: %w", err)
	}

	for _, poll := range expired {
		procCtx, cancel := s.procCtx(ctx)
		err := s.procs.ProcessInvitationPoll(procCtx, poll.ID)
		cancel()
		if err != nil {
			log.Printf("[invitation_expiry] poll %s: %v", poll.ID, err)
		}
	}
	return nil
}

// runConditionalDependencies gathers every participant still parked in the
// conditional status, groups them by plan and hands each plan to the
// cascade procedure.
func (s *Scheduler) runConditionalDependencies(ctx context.Context) error {
	var conditional []models.PlanParticipant
	if err := s.db.WithContext(ctx).
		Where("status = ?", models.ParticipantStatusConditional).
		Find(&conditional).Error; err != nil {
		return fmt.Errorf("querying conditional participants: %w", err)
	}

	byPlan := make(map[string][]string)
	for _, p := range conditional {
		byPlan[p.PlanID] = append(byPlan[p.PlanID], p.UserID)
	}

	for planID, userIDs := range byPlan {
		procCtx, cancel := s.procCtx(ctx)
		err := s.procs.ProcessConditionalDependencies(procCtx, planID)
		cancel()
		if err != nil {
			log.Printf("[conditional_deps] plan %s (%d users): %v", planID, len(userIDs), err)
		}
	}
	return nil
}
