package taxonomy

import (
	"context"

	"github.com/avercast/timeslips-api/internal/domain/timesheet"
	"github.com/avercast/timeslips-api/internal/models"
	"github.com/avercast/timeslips-api/internal/usecase/access"
)

// DeleteProject removes a project and everything that references it,
// provided no time slip does. The cascade order is:
//
//  1. allowed-task edges
//  2. favorites
//  3. saved-query references (detached, queries survive)
//  4. per-user management delegations
//  5. the project row itself
type DeleteProject struct {
	store  timesheet.Store
	policy *access.Policy
}

func NewDeleteProject(store timesheet.Store, policy *access.Policy) *DeleteProject {
	return &DeleteProject{
		store:  store,
		policy: policy,
	}
}

func (uc *DeleteProject) Execute(ctx context.Context, projectID uint, actingUserID uint) error {

	if err := uc.policy.ValidateAccess(ctx, uc.store, models.RightAdmin, actingUserID); err != nil {
		return err
	}

	return uc.store.Atomically(ctx, func(s timesheet.Store) error {

		project, err := s.GetProject(ctx, projectID)
		if err != nil {
			return err
		}

		count, err := s.CountTimeSlipsByProject(ctx, projectID)
		if err != nil {
			return err
		}
		if count > 0 {
			return timesheet.CodeInUseError{Entity: "project", Name: project.Name}
		}

		steps := []cleanupStep{
			{name: "remove_allowed_task_edges", run: func(ctx context.Context, s timesheet.Store) error {
				return s.ReplaceProjectTasks(ctx, projectID, nil)
			}},
			{name: "remove_favorites", run: func(ctx context.Context, s timesheet.Store) error {
				return s.DeleteFavoritesByProject(ctx, projectID)
			}},
			{name: "detach_saved_queries", run: func(ctx context.Context, s timesheet.Store) error {
				return s.DetachSavedQueriesFromProject(ctx, projectID)
			}},
			{name: "revoke_delegations", run: func(ctx context.Context, s timesheet.Store) error {
				return s.DeleteProjectManagersByProject(ctx, projectID)
			}},
			{name: "delete_project", run: func(ctx context.Context, s timesheet.Store) error {
				return s.DeleteProject(ctx, projectID)
			}},
		}

		return runCleanup(ctx, s, steps)
	})
}
