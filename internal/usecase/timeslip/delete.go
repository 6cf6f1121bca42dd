package timeslip

import (
	"context"

	"github.com/avercast/timeslips-api/internal/audit"
	"github.com/avercast/timeslips-api/internal/domain/timesheet"
	"github.com/avercast/timeslips-api/internal/usecase/access"
)

type DeleteTimeSlip struct {
	store  timesheet.Store
	policy *access.Policy
	audit  *audit.Recorder
}

func NewDeleteTimeSlip(
	store timesheet.Store,
	policy *access.Policy,
	recorder *audit.Recorder,
) *DeleteTimeSlip {
	return &DeleteTimeSlip{
		store:  store,
		policy: policy,
		audit:  recorder,
	}
}

// Execute hard-deletes the slip. The delete audit row, carrying the
// full pre-delete snapshot, is written in the same transaction.
func (uc *DeleteTimeSlip) Execute(
	ctx context.Context,
	timeSlipID uint,
	actingUserID uint,
) error {

	return uc.store.Atomically(ctx, func(s timesheet.Store) error {

		slip, err := s.GetTimeSlip(ctx, timeSlipID)
		if err != nil {
			return err
		}

		project, err := s.GetProject(ctx, slip.ProjectID)
		if err != nil {
			return err
		}
		if err := uc.policy.EnsureCanMutate(ctx, s, actingUserID, project, slip.Date); err != nil {
			return err
		}

		if err := uc.audit.SlipDeleted(ctx, s, actingUserID, *slip); err != nil {
			return err
		}
		return s.DeleteTimeSlip(ctx, slip.ID)
	})
}
