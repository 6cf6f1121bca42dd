package audit

import (
	"context"

	"github.com/avercast/timeslips-api/internal/domain/timesheet"
	"github.com/avercast/timeslips-api/internal/models"
)

// Recorder builds TimeSlipLog rows from before/after snapshots and
// writes them through the caller's store. Callers pass the
// transaction-bound store so the audit row commits or rolls back with
// the mutation it describes.
type Recorder struct{}

func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) SlipCreated(
	ctx context.Context,
	s timesheet.Store,
	actingUserID uint,
	slip *models.TimeSlip,
) error {

	entry := &models.TimeSlipLog{
		TimeSlipID:   slip.ID,
		UpdateType:   models.UpdateTypeCreate,
		UpdateUserID: actingUserID,
	}
	fillNew(entry, slip)

	return s.CreateTimeSlipLog(ctx, entry)
}

func (r *Recorder) SlipUpdated(
	ctx context.Context,
	s timesheet.Store,
	actingUserID uint,
	before models.TimeSlip,
	after *models.TimeSlip,
) error {

	entry := &models.TimeSlipLog{
		TimeSlipID:   after.ID,
		UpdateType:   models.UpdateTypeUpdate,
		UpdateUserID: actingUserID,
	}
	fillOld(entry, &before)
	fillNew(entry, after)

	return s.CreateTimeSlipLog(ctx, entry)
}

func (r *Recorder) SlipDeleted(
	ctx context.Context,
	s timesheet.Store,
	actingUserID uint,
	before models.TimeSlip,
) error {

	entry := &models.TimeSlipLog{
		TimeSlipID:   before.ID,
		UpdateType:   models.UpdateTypeDelete,
		UpdateUserID: actingUserID,
	}
	fillOld(entry, &before)

	return s.CreateTimeSlipLog(ctx, entry)
}

// --------------------------------------------------
// Snapshot helpers
// --------------------------------------------------

func fillOld(entry *models.TimeSlipLog, slip *models.TimeSlip) {
	entry.OldHours = intPtr(slip.Hours)
	entry.OldMinutes = intPtr(slip.Minutes)
	entry.OldDate = &slip.Date
	entry.OldUserID = uintPtr(slip.UserID)
	entry.OldDescription = strPtr(slip.Description)
	entry.OldProjectID = uintPtr(slip.ProjectID)
	entry.OldTaskID = copyUintPtr(slip.TaskID)
	entry.OldLaborCodeID = copyUintPtr(slip.LaborCodeID)
}

func fillNew(entry *models.TimeSlipLog, slip *models.TimeSlip) {
	entry.NewHours = intPtr(slip.Hours)
	entry.NewMinutes = intPtr(slip.Minutes)
	entry.NewDate = &slip.Date
	entry.NewUserID = uintPtr(slip.UserID)
	entry.NewDescription = strPtr(slip.Description)
	entry.NewProjectID = uintPtr(slip.ProjectID)
	entry.NewTaskID = copyUintPtr(slip.TaskID)
	entry.NewLaborCodeID = copyUintPtr(slip.LaborCodeID)
}

func intPtr(v int) *int { return &v }

func uintPtr(v uint) *uint { return &v }

func strPtr(v string) *string { return &v }

func copyUintPtr(v *uint) *uint {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}
