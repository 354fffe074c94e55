package services

import (
	"context"
	"fmt"

	"gorm.io/gorm"
)

// StoredProcedures invokes the database-side reconciliation procedures.
// Their eligibility rules (completion quorum, invitation tally, conditional
// cascade) live entirely in the database; this client only dispatches.
type StoredProcedures struct {
	db *gorm.DB
}

// NewStoredProcedures creates the procedure client
func NewStoredProcedures(db *gorm.DB) *StoredProcedures {
	return &StoredProcedures{db: db}
}

// AutoCompletePlans transitions eligible active plans to completed
func (p *StoredProcedures) AutoCompletePlans(ctx context.Context) error {
	if err := p.db.WithContext(ctx).Exec("SELECT auto_complete_plans()").Error; err != nil {
		return fmt.Errorf("auto_complete_plans: %w", err)
	}
	return nil
}

// ProcessInvitationPoll finalizes one expired invitation poll
func (p *StoredProcedures) ProcessInvitationPoll(ctx context.Context, pollID string) error {
	if err := p.db.WithContext(ctx).Exec("SELECT process_invitation_poll(?)", pollID).Error; err != nil {
		return fmt.Errorf("process_invitation_poll(%s): %w", pollID, err)
	}
	return nil
}

// ProcessConditionalDependencies cascades conditional participant statuses
// for one plan
func (p *StoredProcedures) ProcessConditionalDependencies(ctx context.Context, planID string) error {
	if err := p.db.WithContext(ctx).Exec("SELECT process_conditional_dependencies(?)", planID).Error; err != nil {
		return fmt.Errorf("process_conditional_dependencies(%s): %w", planID, err)
	}
	return nil
}
