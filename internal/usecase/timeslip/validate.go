package timeslip

import (
	"context"
	"fmt"

	"github.com/avercast/timeslips-api/internal/domain/timesheet"
)

// validateClock checks the hour/minute pair against the configured
// minutes partition. Runs before any mutation on both create and
// update paths.
func validateClock(hours, minutes, partition int) error {
	if hours < 0 {
		return timesheet.ErrValidation("invalid_hours", "hours must not be negative")
	}
	if minutes < 0 || minutes > 59 {
		return timesheet.ErrValidation("invalid_minutes", "minutes must be between 0 and 59")
	}
	if minutes%partition != 0 {
		return timesheet.ErrValidation(
			"invalid_minutes",
			fmt.Sprintf("minutes must be a multiple of %d", partition),
		)
	}
	return nil
}

// checkTaskAllowed verifies the task exists and is permitted for the
// project. A project with no allow-list rows permits every task.
func checkTaskAllowed(
	ctx context.Context,
	s timesheet.Store,
	projectID uint,
	taskID *uint,
) error {

	if taskID == nil {
		return nil
	}

	if _, err := s.GetTask(ctx, *taskID); err != nil {
		if timesheet.IsNotFound(err) {
			return timesheet.ErrValidation("unknown_task", fmt.Sprintf("task %d does not exist", *taskID))
		}
		return err
	}

	allowed, err := s.ListAllowedTaskIDs(ctx, projectID)
	if err != nil {
		return err
	}
	if len(allowed) == 0 {
		return nil
	}
	for _, id := range allowed {
		if id == *taskID {
			return nil
		}
	}
	return timesheet.ErrValidation("task_not_allowed", fmt.Sprintf("task %d is not allowed for project %d", *taskID, projectID))
}

func checkLaborCode(
	ctx context.Context,
	s timesheet.Store,
	laborCodeID *uint,
) error {

	if laborCodeID == nil {
		return nil
	}
	if _, err := s.GetLaborCode(ctx, *laborCodeID); err != nil {
		if timesheet.IsNotFound(err) {
			return timesheet.ErrValidation("unknown_labor_code", fmt.Sprintf("labor code %d does not exist", *laborCodeID))
		}
		return err
	}
	return nil
}
