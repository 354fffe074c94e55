package services

import (
	"context"

	"gorm.io/gorm"

	"hangout_app/internal/models"
)

// UpdateEmitter appends PlanUpdate event records for downstream delivery.
// triggeredBy is nil for system-triggered updates.
type UpdateEmitter struct {
	db *gorm.DB
}

// NewUpdateEmitter creates an emitter writing to the given store
func NewUpdateEmitter(db *gorm.DB) *UpdateEmitter {
	return &UpdateEmitter{db: db}
}

// Emit appends one update record
func (e *UpdateEmitter) Emit(ctx context.Context, planID, updateType string, triggeredBy *string, metadata map[string]interface{}) error {
	update := models.PlanUpdate{
		PlanID:      planID,
		UpdateType:  updateType,
		TriggeredBy: triggeredBy,
		Metadata:    metadata,
	}
	return e.db.WithContext(ctx).Create(&update).Error
}

// HasUpdate reports whether an update of the given type already exists for
// the plan. The worker uses it to keep back-to-back sweeps from emitting a
// second plan_completed record.
func (e *UpdateEmitter) HasUpdate(ctx context.Context, planID, updateType string) (bool, error) {
	var count int64
	err := e.db.WithContext(ctx).Model(&models.PlanUpdate{}).
		Where("plan_id = ? AND update_type = ?", planID, updateType).
		Count(&count).Error
	return count > 0, err
}
