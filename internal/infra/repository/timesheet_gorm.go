package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/avercast/timeslips-api/internal/domain/timesheet"
	"github.com/avercast/timeslips-api/internal/models"
)

type TimesheetGormStore struct {
	db *gorm.DB
}

func NewTimesheetGormStore(db *gorm.DB) *TimesheetGormStore {
	return &TimesheetGormStore{db: db}
}

// Atomically binds a fresh store to the transaction handle, so every
// call made through it commits or rolls back as one unit.
func (r *TimesheetGormStore) Atomically(
	ctx context.Context,
	fn func(timesheet.Store) error,
) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&TimesheetGormStore{db: tx})
	})
}

// --------------------------------------------------
// Time slips
// --------------------------------------------------

func (r *TimesheetGormStore) GetTimeSlip(
	ctx context.Context,
	id uint,
) (*models.TimeSlip, error) {

	var slip models.TimeSlip
	if err := r.db.WithContext(ctx).First(&slip, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, timesheet.ErrNotFound("time slip", id)
		}
		return nil, err
	}
	return &slip, nil
}

func (r *TimesheetGormStore) CreateTimeSlip(
	ctx context.Context,
	slip *models.TimeSlip,
) error {
	return r.db.WithContext(ctx).Create(slip).Error
}

func (r *TimesheetGormStore) SaveTimeSlip(
	ctx context.Context,
	slip *models.TimeSlip,
	expectedVersion int,
) error {

	res := r.db.WithContext(ctx).
		Model(&models.TimeSlip{}).
		Where("id = ? AND version = ?", slip.ID, expectedVersion).
		Updates(map[string]any{
			"user_id":       slip.UserID,
			"project_id":    slip.ProjectID,
			"task_id":       slip.TaskID,
			"labor_code_id": slip.LaborCodeID,
			"date":          slip.Date,
			"hours":         slip.Hours,
			"minutes":       slip.Minutes,
			"description":   slip.Description,
			"version":       slip.Version,
		})

	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return timesheet.ConflictError{Entity: "time slip", ID: slip.ID}
	}
	return nil
}

func (r *TimesheetGormStore) DeleteTimeSlip(
	ctx context.Context,
	id uint,
) error {
	return r.db.WithContext(ctx).Delete(&models.TimeSlip{}, id).Error
}

func (r *TimesheetGormStore) ListTimeSlips(
	ctx context.Context,
	f timesheet.Filter,
) ([]models.TimeSlip, error) {

	q := r.db.WithContext(ctx).Model(&models.TimeSlip{})

	if len(f.UserIDs) > 0 {
		q = q.Where("user_id IN ?", f.UserIDs)
	}
	if len(f.ProjectIDs) > 0 {
		q = q.Where("project_id IN ?", f.ProjectIDs)
	}

	switch {
	case len(f.TaskIDs) > 0 && f.NoTask:
		q = q.Where("task_id IN ? OR task_id IS NULL", f.TaskIDs)
	case len(f.TaskIDs) > 0:
		q = q.Where("task_id IN ?", f.TaskIDs)
	case f.NoTask:
		q = q.Where("task_id IS NULL")
	}

	switch {
	case len(f.LaborCodeIDs) > 0 && f.NoLaborCode:
		q = q.Where("labor_code_id IN ? OR labor_code_id IS NULL", f.LaborCodeIDs)
	case len(f.LaborCodeIDs) > 0:
		q = q.Where("labor_code_id IN ?", f.LaborCodeIDs)
	case f.NoLaborCode:
		q = q.Where("labor_code_id IS NULL")
	}

	if f.From != nil {
		q = q.Where("date >= ?", *f.From)
	}
	if f.To != nil {
		q = q.Where("date <= ?", *f.To)
	}

	var slips []models.TimeSlip
	if err := q.
		Preload("Project").
		Preload("Task").
		Preload("LaborCode").
		Order("date ASC, id ASC").
		Find(&slips).Error; err != nil {
		return nil, err
	}
	return slips, nil
}

func (r *TimesheetGormStore) ListTimeSlipsByProjectAndTasks(
	ctx context.Context,
	projectID uint,
	taskIDs []uint,
) ([]models.TimeSlip, error) {

	var slips []models.TimeSlip
	if err := r.db.WithContext(ctx).
		Where("project_id = ? AND task_id IN ?", projectID, taskIDs).
		Find(&slips).Error; err != nil {
		return nil, err
	}
	return slips, nil
}

func (r *TimesheetGormStore) CountTimeSlipsByProject(
	ctx context.Context,
	projectID uint,
) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.TimeSlip{}).
		Where("project_id = ?", projectID).
		Count(&count).Error
	return count, err
}

func (r *TimesheetGormStore) CountTimeSlipsByTask(
	ctx context.Context,
	taskID uint,
) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.TimeSlip{}).
		Where("task_id = ?", taskID).
		Count(&count).Error
	return count, err
}

func (r *TimesheetGormStore) CountTimeSlipsByLaborCode(
	ctx context.Context,
	laborCodeID uint,
) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.TimeSlip{}).
		Where("labor_code_id = ?", laborCodeID).
		Count(&count).Error
	return count, err
}

// --------------------------------------------------
// Audit log
// --------------------------------------------------

func (r *TimesheetGormStore) CreateTimeSlipLog(
	ctx context.Context,
	entry *models.TimeSlipLog,
) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

// --------------------------------------------------
// Taxonomy
// --------------------------------------------------

func (r *TimesheetGormStore) GetProject(
	ctx context.Context,
	id uint,
) (*models.Project, error) {

	var project models.Project
	if err := r.db.WithContext(ctx).First(&project, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, timesheet.ErrNotFound("project", id)
		}
		return nil, err
	}
	return &project, nil
}

func (r *TimesheetGormStore) GetTask(
	ctx context.Context,
	id uint,
) (*models.Task, error) {

	var task models.Task
	if err := r.db.WithContext(ctx).First(&task, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, timesheet.ErrNotFound("task", id)
		}
		return nil, err
	}
	return &task, nil
}

func (r *TimesheetGormStore) GetLaborCode(
	ctx context.Context,
	id uint,
) (*models.LaborCode, error) {

	var code models.LaborCode
	if err := r.db.WithContext(ctx).First(&code, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, timesheet.ErrNotFound("labor code", id)
		}
		return nil, err
	}
	return &code, nil
}

func (r *TimesheetGormStore) ListAllowedTaskIDs(
	ctx context.Context,
	projectID uint,
) ([]uint, error) {

	var ids []uint
	if err := r.db.WithContext(ctx).
		Model(&models.ProjectTask{}).
		Where("project_id = ?", projectID).
		Order("task_id ASC").
		Pluck("task_id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

func (r *TimesheetGormStore) ReplaceProjectTasks(
	ctx context.Context,
	projectID uint,
	taskIDs []uint,
) error {

	if err := r.db.WithContext(ctx).
		Where("project_id = ?", projectID).
		Delete(&models.ProjectTask{}).Error; err != nil {
		return err
	}

	for _, taskID := range taskIDs {
		edge := models.ProjectTask{ProjectID: projectID, TaskID: taskID}
		if err := r.db.WithContext(ctx).Create(&edge).Error; err != nil {
			return err
		}
	}
	return nil
}

func (r *TimesheetGormStore) DeleteProjectTasksByTask(
	ctx context.Context,
	taskID uint,
) error {
	return r.db.WithContext(ctx).
		Where("task_id = ?", taskID).
		Delete(&models.ProjectTask{}).Error
}

func (r *TimesheetGormStore) DeleteProject(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.Project{}, id).Error
}

func (r *TimesheetGormStore) DeleteTask(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.Task{}, id).Error
}

func (r *TimesheetGormStore) DeleteLaborCode(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.LaborCode{}, id).Error
}

// --------------------------------------------------
// Cascade targets
// --------------------------------------------------

func (r *TimesheetGormStore) DeleteFavoritesByProject(ctx context.Context, projectID uint) error {
	return r.db.WithContext(ctx).
		Where("project_id = ?", projectID).
		Delete(&models.FavoriteTimeSlip{}).Error
}

func (r *TimesheetGormStore) DeleteFavoritesByTask(ctx context.Context, taskID uint) error {
	return r.db.WithContext(ctx).
		Where("task_id = ?", taskID).
		Delete(&models.FavoriteTimeSlip{}).Error
}

func (r *TimesheetGormStore) DeleteFavoritesByLaborCode(ctx context.Context, laborCodeID uint) error {
	return r.db.WithContext(ctx).
		Where("labor_code_id = ?", laborCodeID).
		Delete(&models.FavoriteTimeSlip{}).Error
}

func (r *TimesheetGormStore) DetachSavedQueriesFromProject(ctx context.Context, projectID uint) error {
	return r.db.WithContext(ctx).
		Where("project_id = ?", projectID).
		Delete(&models.SavedQueryProject{}).Error
}

func (r *TimesheetGormStore) DetachSavedQueriesFromTask(ctx context.Context, taskID uint) error {
	return r.db.WithContext(ctx).
		Where("task_id = ?", taskID).
		Delete(&models.SavedQueryTask{}).Error
}

func (r *TimesheetGormStore) DetachSavedQueriesFromLaborCode(ctx context.Context, laborCodeID uint) error {
	return r.db.WithContext(ctx).
		Where("labor_code_id = ?", laborCodeID).
		Delete(&models.SavedQueryLaborCode{}).Error
}

func (r *TimesheetGormStore) DeleteProjectManagersByProject(ctx context.Context, projectID uint) error {
	return r.db.WithContext(ctx).
		Where("project_id = ?", projectID).
		Delete(&models.ProjectManager{}).Error
}

// --------------------------------------------------
// Access
// --------------------------------------------------

func (r *TimesheetGormStore) UserHasRight(
	ctx context.Context,
	userID uint,
	rightCode string,
) (bool, error) {

	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.UserRight{}).
		Where("user_id = ? AND right_code = ?", userID, rightCode).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *TimesheetGormStore) IsProjectManager(
	ctx context.Context,
	userID, projectID uint,
) (bool, error) {

	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.ProjectManager{}).
		Where("user_id = ? AND project_id = ?", userID, projectID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *TimesheetGormStore) ListUserRights(
	ctx context.Context,
	userID uint,
) ([]string, error) {

	var codes []string
	if err := r.db.WithContext(ctx).
		Model(&models.UserRight{}).
		Where("user_id = ?", userID).
		Order("right_code ASC").
		Pluck("right_code", &codes).Error; err != nil {
		return nil, err
	}
	return codes, nil
}

func (r *TimesheetGormStore) ReplaceUserRights(
	ctx context.Context,
	userID uint,
	rightCodes []string,
) error {

	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Delete(&models.UserRight{}).Error; err != nil {
		return err
	}

	for _, code := range rightCodes {
		right := models.UserRight{UserID: userID, RightCode: code}
		if err := r.db.WithContext(ctx).Create(&right).Error; err != nil {
			return err
		}
	}
	return nil
}

func (r *TimesheetGormStore) CountUsersWithRight(
	ctx context.Context,
	rightCode string,
) (int64, error) {

	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.UserRight{}).
		Where("right_code = ?", rightCode).
		Count(&count).Error
	return count, err
}

// Compile-time check
var _ timesheet.Store = (*TimesheetGormStore)(nil)
