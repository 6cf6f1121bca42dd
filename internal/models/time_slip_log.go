package models

import "time"

// TimeSlipLog update types.
const (
	UpdateTypeCreate = "create"
	UpdateTypeUpdate = "update"
	UpdateTypeDelete = "delete"
)

// TimeSlipLog is one append-only audit row per time-slip mutation,
// carrying the full before/after snapshot of every mutable field.
// Old columns are nil on create, New columns are nil on delete.
// Rows are never updated or deleted.
type TimeSlipLog struct {
	ID uint `gorm:"primaryKey" json:"id"`

	TimeSlipID uint   `gorm:"index;not null" json:"time_slip_id"`
	UpdateType string `gorm:"size:20;not null" json:"update_type"`

	OldHours *int `json:"old_hours"`
	NewHours *int `json:"new_hours"`

	OldMinutes *int `json:"old_minutes"`
	NewMinutes *int `json:"new_minutes"`

	OldDate *time.Time `gorm:"type:date" json:"old_date"`
	NewDate *time.Time `gorm:"type:date" json:"new_date"`

	OldUserID *uint `json:"old_user_id"`
	NewUserID *uint `json:"new_user_id"`

	OldDescription *string `gorm:"type:text" json:"old_description"`
	NewDescription *string `gorm:"type:text" json:"new_description"`

	OldProjectID *uint `json:"old_project_id"`
	NewProjectID *uint `json:"new_project_id"`

	OldTaskID *uint `json:"old_task_id"`
	NewTaskID *uint `json:"new_task_id"`

	OldLaborCodeID *uint `json:"old_labor_code_id"`
	NewLaborCodeID *uint `json:"new_labor_code_id"`

	// UpdateUserID is who performed the mutation, not necessarily the
	// entry's owner.
	UpdateUserID uint `gorm:"not null" json:"update_user_id"`

	CreatedAt time.Time `json:"created_at"`
}
