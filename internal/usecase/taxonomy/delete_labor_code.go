package taxonomy

import (
	"context"

	"github.com/avercast/timeslips-api/internal/domain/timesheet"
	"github.com/avercast/timeslips-api/internal/models"
	"github.com/avercast/timeslips-api/internal/usecase/access"
)

// DeleteLaborCode cascade order: favorites, saved-query references,
// then the labor code row.
type DeleteLaborCode struct {
	store  timesheet.Store
	policy *access.Policy
}

func NewDeleteLaborCode(store timesheet.Store, policy *access.Policy) *DeleteLaborCode {
	return &DeleteLaborCode{
		store:  store,
		policy: policy,
	}
}

func (uc *DeleteLaborCode) Execute(ctx context.Context, laborCodeID uint, actingUserID uint) error {

	if err := uc.policy.ValidateAccess(ctx, uc.store, models.RightAdmin, actingUserID); err != nil {
		return err
	}

	return uc.store.Atomically(ctx, func(s timesheet.Store) error {

		code, err := s.GetLaborCode(ctx, laborCodeID)
		if err != nil {
			return err
		}

		count, err := s.CountTimeSlipsByLaborCode(ctx, laborCodeID)
		if err != nil {
			return err
		}
		if count > 0 {
			return timesheet.CodeInUseError{Entity: "labor code", Name: code.Name}
		}

		steps := []cleanupStep{
			{name: "remove_favorites", run: func(ctx context.Context, s timesheet.Store) error {
				return s.DeleteFavoritesByLaborCode(ctx, laborCodeID)
			}},
			{name: "detach_saved_queries", run: func(ctx context.Context, s timesheet.Store) error {
				return s.DetachSavedQueriesFromLaborCode(ctx, laborCodeID)
			}},
			{name: "delete_labor_code", run: func(ctx context.Context, s timesheet.Store) error {
				return s.DeleteLaborCode(ctx, laborCodeID)
			}},
		}

		return runCleanup(ctx, s, steps)
	})
}
