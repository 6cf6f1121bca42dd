package timeslip

import (
	"context"

	"github.com/avercast/timeslips-api/internal/domain/timesheet"
	"github.com/avercast/timeslips-api/internal/models"
)

type QueryTimeSlips struct {
	store timesheet.Store
}

func NewQueryTimeSlips(store timesheet.Store) *QueryTimeSlips {
	return &QueryTimeSlips{store: store}
}

// Execute is a pure read. Non-admin callers are clamped to their own
// entries before the store is consulted: an empty user dimension
// becomes the caller, and naming anyone else is refused.
func (uc *QueryTimeSlips) Execute(
	ctx context.Context,
	f timesheet.Filter,
	actingUserID uint,
) ([]models.TimeSlip, error) {

	admin, err := uc.store.UserHasRight(ctx, actingUserID, models.RightAdmin)
	if err != nil {
		return nil, err
	}

	if !admin {
		if len(f.UserIDs) == 0 {
			f.UserIDs = []uint{actingUserID}
		} else {
			for _, id := range f.UserIDs {
				if id != actingUserID {
					return nil, timesheet.InsufficientAccessError{}
				}
			}
		}
	}

	return uc.store.ListTimeSlips(ctx, f)
}
