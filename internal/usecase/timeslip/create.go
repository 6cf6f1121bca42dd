package timeslip

import (
	"context"
	"time"

	"github.com/avercast/timeslips-api/internal/audit"
	"github.com/avercast/timeslips-api/internal/domain/timesheet"
	"github.com/avercast/timeslips-api/internal/models"
	"github.com/avercast/timeslips-api/internal/usecase/access"
)

// ======================================================
// INPUT
// ======================================================

type CreateTimeSlipsInput struct {
	ProjectID   uint
	TaskID      *uint
	LaborCodeID *uint

	Hours   int
	Minutes int

	// One slip is created per date; bulk entry across a week is a
	// single call.
	Dates []time.Time

	Description string

	OwnerUserID  uint
	ActingUserID uint
}

// ======================================================
// USE CASE
// ======================================================

type CreateTimeSlips struct {
	store     timesheet.Store
	policy    *access.Policy
	audit     *audit.Recorder
	partition func() int
}

func NewCreateTimeSlips(
	store timesheet.Store,
	policy *access.Policy,
	recorder *audit.Recorder,
	partition func() int,
) *CreateTimeSlips {
	return &CreateTimeSlips{
		store:     store,
		policy:    policy,
		audit:     recorder,
		partition: partition,
	}
}

// ======================================================
// EXECUTE
// ======================================================

func (uc *CreateTimeSlips) Execute(
	ctx context.Context,
	in CreateTimeSlipsInput,
) ([]models.TimeSlip, error) {

	if err := validateClock(in.Hours, in.Minutes, uc.partition()); err != nil {
		return nil, err
	}
	if len(in.Dates) == 0 {
		return nil, timesheet.ErrValidation("missing_dates", "at least one date is required")
	}

	var created []models.TimeSlip

	err := uc.store.Atomically(ctx, func(s timesheet.Store) error {

		project, err := s.GetProject(ctx, in.ProjectID)
		if err != nil {
			return err
		}

		// Logging time on someone else's behalf takes project-level
		// privilege.
		if in.OwnerUserID != in.ActingUserID {
			ok, err := uc.policy.CanManageProject(ctx, s, in.ActingUserID, project.ID)
			if err != nil {
				return err
			}
			if !ok {
				return timesheet.InsufficientAccessError{}
			}
		}

		if err := checkTaskAllowed(ctx, s, project.ID, in.TaskID); err != nil {
			return err
		}
		if err := checkLaborCode(ctx, s, in.LaborCodeID); err != nil {
			return err
		}

		// All access checks run before the first row is written so a
		// denied date leaves nothing behind.
		for _, date := range in.Dates {
			if err := uc.policy.EnsureCanMutate(ctx, s, in.ActingUserID, project, date); err != nil {
				return err
			}
		}

		for _, date := range in.Dates {
			slip := models.TimeSlip{
				UserID:      in.OwnerUserID,
				ProjectID:   in.ProjectID,
				TaskID:      in.TaskID,
				LaborCodeID: in.LaborCodeID,
				Date:        date,
				Hours:       in.Hours,
				Minutes:     in.Minutes,
				Description: in.Description,
				CreatedBy:   in.ActingUserID,
				Version:     1,
			}

			if err := s.CreateTimeSlip(ctx, &slip); err != nil {
				return err
			}
			if err := uc.audit.SlipCreated(ctx, s, in.ActingUserID, &slip); err != nil {
				return err
			}

			created = append(created, slip)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return created, nil
}
