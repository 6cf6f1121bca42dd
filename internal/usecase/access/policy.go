package access

import (
	"context"
	"time"

	"github.com/avercast/timeslips-api/internal/domain/timesheet"
	"github.com/avercast/timeslips-api/internal/models"
)

// Policy answers who may mutate what. Every check takes an explicit
// acting user id; there is no ambient current-user state.
type Policy struct{}

func NewPolicy() *Policy {
	return &Policy{}
}

// CanMutate reports whether userID may mutate time slips of project on
// the given date:
//   - the global admin right always allows it,
//   - a per-project delegation always allows it,
//   - otherwise the entry must fall after the project's lock date
//     (a nil lock date means the project is never locked).
func (p *Policy) CanMutate(
	ctx context.Context,
	s timesheet.Store,
	userID uint,
	project *models.Project,
	date time.Time,
) (bool, error) {

	admin, err := s.UserHasRight(ctx, userID, models.RightAdmin)
	if err != nil {
		return false, err
	}
	if admin {
		return true, nil
	}

	delegated, err := s.IsProjectManager(ctx, userID, project.ID)
	if err != nil {
		return false, err
	}
	if delegated {
		return true, nil
	}

	if project.LockDate == nil {
		return true, nil
	}
	return date.After(*project.LockDate), nil
}

// EnsureCanMutate is CanMutate with the failure already shaped as the
// error callers surface.
func (p *Policy) EnsureCanMutate(
	ctx context.Context,
	s timesheet.Store,
	userID uint,
	project *models.Project,
	date time.Time,
) error {

	ok, err := p.CanMutate(ctx, s, userID, project, date)
	if err != nil {
		return err
	}
	if !ok {
		return timesheet.InsufficientAccessError{}
	}
	return nil
}

// ValidateAccess fails with InsufficientAccessError unless userID
// holds the global right. Gates taxonomy and rights administration.
func (p *Policy) ValidateAccess(
	ctx context.Context,
	s timesheet.Store,
	rightCode string,
	userID uint,
) error {

	ok, err := s.UserHasRight(ctx, userID, rightCode)
	if err != nil {
		return err
	}
	if !ok {
		return timesheet.InsufficientAccessError{}
	}
	return nil
}

// CanManageProject reports whether userID may administer the project
// itself (allowed-task list, delegations): admin or delegated manager.
func (p *Policy) CanManageProject(
	ctx context.Context,
	s timesheet.Store,
	userID uint,
	projectID uint,
) (bool, error) {

	admin, err := s.UserHasRight(ctx, userID, models.RightAdmin)
	if err != nil {
		return false, err
	}
	if admin {
		return true, nil
	}
	return s.IsProjectManager(ctx, userID, projectID)
}
