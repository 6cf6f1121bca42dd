package timesheet

import (
	"context"

	"github.com/avercast/timeslips-api/internal/models"
)

// Store is the persistence contract of the consistency engine. All
// mutating operations run through Atomically so that "exactly one
// audit row per mutation" and "no orphaned taxonomy reference" hold as
// transaction-level invariants.
type Store interface {
	// Atomically runs fn against a transaction-bound Store. If fn
	// returns an error the whole transaction rolls back.
	Atomically(ctx context.Context, fn func(Store) error) error

	// -------- Time slips --------
	GetTimeSlip(
		ctx context.Context,
		id uint,
	) (*models.TimeSlip, error)

	CreateTimeSlip(
		ctx context.Context,
		slip *models.TimeSlip,
	) error

	// SaveTimeSlip persists slip only if the stored row still carries
	// expectedVersion; a miss returns ConflictError.
	SaveTimeSlip(
		ctx context.Context,
		slip *models.TimeSlip,
		expectedVersion int,
	) error

	DeleteTimeSlip(
		ctx context.Context,
		id uint,
	) error

	ListTimeSlips(
		ctx context.Context,
		f Filter,
	) ([]models.TimeSlip, error)

	ListTimeSlipsByProjectAndTasks(
		ctx context.Context,
		projectID uint,
		taskIDs []uint,
	) ([]models.TimeSlip, error)

	CountTimeSlipsByProject(ctx context.Context, projectID uint) (int64, error)
	CountTimeSlipsByTask(ctx context.Context, taskID uint) (int64, error)
	CountTimeSlipsByLaborCode(ctx context.Context, laborCodeID uint) (int64, error)

	// -------- Audit log --------
	CreateTimeSlipLog(
		ctx context.Context,
		entry *models.TimeSlipLog,
	) error

	// -------- Taxonomy --------
	GetProject(ctx context.Context, id uint) (*models.Project, error)
	GetTask(ctx context.Context, id uint) (*models.Task, error)
	GetLaborCode(ctx context.Context, id uint) (*models.LaborCode, error)

	ListAllowedTaskIDs(
		ctx context.Context,
		projectID uint,
	) ([]uint, error)

	ReplaceProjectTasks(
		ctx context.Context,
		projectID uint,
		taskIDs []uint,
	) error

	DeleteProjectTasksByTask(ctx context.Context, taskID uint) error

	DeleteProject(ctx context.Context, id uint) error
	DeleteTask(ctx context.Context, id uint) error
	DeleteLaborCode(ctx context.Context, id uint) error

	// -------- Cascade targets --------
	DeleteFavoritesByProject(ctx context.Context, projectID uint) error
	DeleteFavoritesByTask(ctx context.Context, taskID uint) error
	DeleteFavoritesByLaborCode(ctx context.Context, laborCodeID uint) error

	DetachSavedQueriesFromProject(ctx context.Context, projectID uint) error
	DetachSavedQueriesFromTask(ctx context.Context, taskID uint) error
	DetachSavedQueriesFromLaborCode(ctx context.Context, laborCodeID uint) error

	DeleteProjectManagersByProject(ctx context.Context, projectID uint) error

	// -------- Access --------
	UserHasRight(ctx context.Context, userID uint, rightCode string) (bool, error)
	IsProjectManager(ctx context.Context, userID, projectID uint) (bool, error)

	ListUserRights(ctx context.Context, userID uint) ([]string, error)
	ReplaceUserRights(ctx context.Context, userID uint, rightCodes []string) error
	CountUsersWithRight(ctx context.Context, rightCode string) (int64, error)
}
