package taxonomy

import (
	"context"
	"fmt"

	"github.com/avercast/timeslips-api/internal/audit"
	"github.com/avercast/timeslips-api/internal/domain/timesheet"
	"github.com/avercast/timeslips-api/internal/usecase/access"
)

// ======================================================
// INPUT
// ======================================================

type SetAllowedTasksInput struct {
	ProjectID    uint
	TaskIDs      []uint
	ActingUserID uint
}

// ======================================================
// USE CASE
// ======================================================

// SetAllowedTasks replaces a project's allowed-task list. Existing
// time slips referencing a task that falls off the list get their
// task nulled, each with an audit row preserving that the task was
// once assigned. An empty list reverts the project to all-tasks-
// allowed semantics.
type SetAllowedTasks struct {
	store  timesheet.Store
	policy *access.Policy
	audit  *audit.Recorder
}

func NewSetAllowedTasks(
	store timesheet.Store,
	policy *access.Policy,
	recorder *audit.Recorder,
) *SetAllowedTasks {
	return &SetAllowedTasks{
		store:  store,
		policy: policy,
		audit:  recorder,
	}
}

// ======================================================
// EXECUTE
// ======================================================

func (uc *SetAllowedTasks) Execute(ctx context.Context, in SetAllowedTasksInput) error {

	ok, err := uc.policy.CanManageProject(ctx, uc.store, in.ActingUserID, in.ProjectID)
	if err != nil {
		return err
	}
	if !ok {
		return timesheet.InsufficientAccessError{}
	}

	return uc.store.Atomically(ctx, func(s timesheet.Store) error {

		if _, err := s.GetProject(ctx, in.ProjectID); err != nil {
			return err
		}

		for _, id := range in.TaskIDs {
			if _, err := s.GetTask(ctx, id); err != nil {
				if timesheet.IsNotFound(err) {
					return timesheet.ErrValidation("unknown_task", fmt.Sprintf("task %d does not exist", id))
				}
				return err
			}
		}

		current, err := s.ListAllowedTaskIDs(ctx, in.ProjectID)
		if err != nil {
			return err
		}

		// An empty next list reverts to all-tasks-allowed, so nothing
		// falls off: a task is only removed when the new list is
		// non-empty and omits it.
		var removed []uint
		if len(in.TaskIDs) > 0 {
			removed = difference(current, in.TaskIDs)
		}

		if len(removed) > 0 {
			slips, err := s.ListTimeSlipsByProjectAndTasks(ctx, in.ProjectID, removed)
			if err != nil {
				return err
			}

			for i := range slips {
				slip := slips[i]
				before := slip

				slip.TaskID = nil
				slip.Version = before.Version + 1

				if err := s.SaveTimeSlip(ctx, &slip, before.Version); err != nil {
					return err
				}
				if err := uc.audit.SlipUpdated(ctx, s, in.ActingUserID, before, &slip); err != nil {
					return err
				}
			}
		}

		return s.ReplaceProjectTasks(ctx, in.ProjectID, in.TaskIDs)
	})
}

func difference(current, next []uint) []uint {
	keep := make(map[uint]bool, len(next))
	for _, id := range next {
		keep[id] = true
	}

	var removed []uint
	for _, id := range current {
		if !keep[id] {
			removed = append(removed, id)
		}
	}
	return removed
}
