package models

import "time"

// FavoriteTimeSlip is a per-user entry template. It is not audited,
// but it is removed when its referenced project/task/labor code is
// deleted.
type FavoriteTimeSlip struct {
	ID uint `gorm:"primaryKey" json:"id"`

	UserID uint   `gorm:"uniqueIndex:idx_favorite_user_name;not null" json:"user_id"`
	Name   string `gorm:"size:100;uniqueIndex:idx_favorite_user_name;not null" json:"name"`

	ProjectID uint    `gorm:"not null" json:"project_id"`
	Project   Project `json:"project"`

	TaskID *uint `json:"task_id"`
	Task   *Task `json:"task,omitempty"`

	LaborCodeID *uint      `json:"labor_code_id"`
	LaborCode   *LaborCode `json:"labor_code,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}
