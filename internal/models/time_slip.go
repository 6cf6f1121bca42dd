package models

import "time"

type TimeSlip struct {
	ID uint `gorm:"primaryKey" json:"id"`

	UserID uint `gorm:"index;not null" json:"user_id"`
	User   User `gorm:"constraint:OnUpdate:CASCADE;" json:"-"`

	ProjectID uint    `gorm:"index;not null" json:"project_id"`
	Project   Project `gorm:"constraint:OnUpdate:CASCADE;" json:"project"`

	TaskID *uint `gorm:"index" json:"task_id"`
	Task   *Task `json:"task,omitempty"`

	LaborCodeID *uint      `gorm:"index" json:"labor_code_id"`
	LaborCode   *LaborCode `json:"labor_code,omitempty"`

	Date    time.Time `gorm:"type:date;index;not null" json:"date"`
	Hours   int       `gorm:"not null" json:"hours"`
	Minutes int       `gorm:"not null" json:"minutes"`

	Description string `gorm:"type:text" json:"description"`

	CreatedBy uint `gorm:"not null" json:"created_by"`

	// Optimistic concurrency token; updates compare-and-swap on it.
	Version int `gorm:"not null;default:1" json:"version"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
