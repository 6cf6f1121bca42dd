package access

import (
	"context"

	"github.com/avercast/timeslips-api/internal/domain/timesheet"
	"github.com/avercast/timeslips-api/internal/models"
)

type SetUserRightsInput struct {
	TargetUserID uint
	RightCodes   []string
	ActingUserID uint
}

// SetUserRights replaces a user's global rights. Removing the admin
// right from the system's only remaining admin is rejected with
// LastAdminError.
type SetUserRights struct {
	store  timesheet.Store
	policy *Policy
}

func NewSetUserRights(store timesheet.Store, policy *Policy) *SetUserRights {
	return &SetUserRights{
		store:  store,
		policy: policy,
	}
}

func (uc *SetUserRights) Execute(ctx context.Context, in SetUserRightsInput) error {

	if err := uc.policy.ValidateAccess(ctx, uc.store, models.RightAdmin, in.ActingUserID); err != nil {
		return err
	}

	return uc.store.Atomically(ctx, func(s timesheet.Store) error {

		current, err := s.ListUserRights(ctx, in.TargetUserID)
		if err != nil {
			return err
		}

		if contains(current, models.RightAdmin) && !contains(in.RightCodes, models.RightAdmin) {
			admins, err := s.CountUsersWithRight(ctx, models.RightAdmin)
			if err != nil {
				return err
			}
			if admins <= 1 {
				return timesheet.LastAdminError{}
			}
		}

		return s.ReplaceUserRights(ctx, in.TargetUserID, in.RightCodes)
	})
}

func contains(codes []string, code string) bool {
	for _, c := range codes {
		if c == code {
			return true
		}
	}
	return false
}
