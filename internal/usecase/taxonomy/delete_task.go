package taxonomy

import (
	"context"

	"github.com/avercast/timeslips-api/internal/domain/timesheet"
	"github.com/avercast/timeslips-api/internal/models"
	"github.com/avercast/timeslips-api/internal/usecase/access"
)

// DeleteTask cascade order: allow-list edges, favorites, saved-query
// references, then the task row.
type DeleteTask struct {
	store  timesheet.Store
	policy *access.Policy
}

func NewDeleteTask(store timesheet.Store, policy *access.Policy) *DeleteTask {
	return &DeleteTask{
		store:  store,
		policy: policy,
	}
}

func (uc *DeleteTask) Execute(ctx context.Context, taskID uint, actingUserID uint) error {

	if err := uc.policy.ValidateAccess(ctx, uc.store, models.RightAdmin, actingUserID); err != nil {
		return err
	}

	return uc.store.Atomically(ctx, func(s timesheet.Store) error {

		task, err := s.GetTask(ctx, taskID)
		if err != nil {
			return err
		}

		count, err := s.CountTimeSlipsByTask(ctx, taskID)
		if err != nil {
			return err
		}
		if count > 0 {
			return timesheet.CodeInUseError{Entity: "task", Name: task.Name}
		}

		steps := []cleanupStep{
			{name: "remove_allowed_task_edges", run: func(ctx context.Context, s timesheet.Store) error {
				return s.DeleteProjectTasksByTask(ctx, taskID)
			}},
			{name: "remove_favorites", run: func(ctx context.Context, s timesheet.Store) error {
				return s.DeleteFavoritesByTask(ctx, taskID)
			}},
			{name: "detach_saved_queries", run: func(ctx context.Context, s timesheet.Store) error {
				return s.DetachSavedQueriesFromTask(ctx, taskID)
			}},
			{name: "delete_task", run: func(ctx context.Context, s timesheet.Store) error {
				return s.DeleteTask(ctx, taskID)
			}},
		}

		return runCleanup(ctx, s, steps)
	})
}
