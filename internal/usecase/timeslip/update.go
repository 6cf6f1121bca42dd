package timeslip

import (
	"context"

	"github.com/avercast/timeslips-api/internal/audit"
	"github.com/avercast/timeslips-api/internal/domain/timesheet"
	"github.com/avercast/timeslips-api/internal/models"
	"github.com/avercast/timeslips-api/internal/usecase/access"
)

// ======================================================
// INPUT
// ======================================================

type UpdateTimeSlipInput struct {
	TimeSlipID uint

	ProjectID   uint
	TaskID      *uint
	LaborCodeID *uint

	Hours   int
	Minutes int

	Description string

	ActingUserID uint
}

// ======================================================
// USE CASE
// ======================================================

type UpdateTimeSlip struct {
	store     timesheet.Store
	policy    *access.Policy
	audit     *audit.Recorder
	partition func() int
}

func NewUpdateTimeSlip(
	store timesheet.Store,
	policy *access.Policy,
	recorder *audit.Recorder,
	partition func() int,
) *UpdateTimeSlip {
	return &UpdateTimeSlip{
		store:     store,
		policy:    policy,
		audit:     recorder,
		partition: partition,
	}
}

// ======================================================
// EXECUTE
// ======================================================

func (uc *UpdateTimeSlip) Execute(
	ctx context.Context,
	in UpdateTimeSlipInput,
) (*models.TimeSlip, error) {

	if err := validateClock(in.Hours, in.Minutes, uc.partition()); err != nil {
		return nil, err
	}

	var updated *models.TimeSlip

	err := uc.store.Atomically(ctx, func(s timesheet.Store) error {

		slip, err := s.GetTimeSlip(ctx, in.TimeSlipID)
		if err != nil {
			return err
		}

		current, err := s.GetProject(ctx, slip.ProjectID)
		if err != nil {
			return err
		}
		if err := uc.policy.EnsureCanMutate(ctx, s, in.ActingUserID, current, slip.Date); err != nil {
			return err
		}

		target := current
		if in.ProjectID != slip.ProjectID {
			target, err = s.GetProject(ctx, in.ProjectID)
			if err != nil {
				return err
			}
			if err := uc.policy.EnsureCanMutate(ctx, s, in.ActingUserID, target, slip.Date); err != nil {
				return err
			}
		}

		if err := checkTaskAllowed(ctx, s, target.ID, in.TaskID); err != nil {
			return err
		}
		if err := checkLaborCode(ctx, s, in.LaborCodeID); err != nil {
			return err
		}

		// The before snapshot is taken from the stored row prior to
		// any field assignment; the audit row must reflect true
		// before/after values, never two reads of the mutated object.
		before := *slip

		slip.ProjectID = in.ProjectID
		slip.TaskID = in.TaskID
		slip.LaborCodeID = in.LaborCodeID
		slip.Hours = in.Hours
		slip.Minutes = in.Minutes
		slip.Description = in.Description
		slip.Version = before.Version + 1

		if err := s.SaveTimeSlip(ctx, slip, before.Version); err != nil {
			return err
		}
		if err := uc.audit.SlipUpdated(ctx, s, in.ActingUserID, before, slip); err != nil {
			return err
		}

		updated = slip
		return nil
	})
	if err != nil {
		return nil, err
	}

	return updated, nil
}
