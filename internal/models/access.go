package models

import "time"

// Access right codes.
const (
	RightAdmin           = "admin"
	RightTimeSlipManager = "timeslip_manager"
)

type AccessRight struct {
	ID uint `gorm:"primaryKey" json:"id"`

	Code        string `gorm:"size:50;uniqueIndex;not null" json:"code"`
	Description string `gorm:"size:255" json:"description"`
}

// UserRight grants a global right to a user.
type UserRight struct {
	ID uint `gorm:"primaryKey" json:"id"`

	UserID uint `gorm:"uniqueIndex:idx_user_right;not null" json:"user_id"`
	User   User `gorm:"constraint:OnDelete:CASCADE;" json:"-"`

	RightCode string `gorm:"size:50;uniqueIndex:idx_user_right;not null" json:"right_code"`

	CreatedAt time.Time `json:"created_at"`
}

// ProjectManager is a per-user per-project delegation: the user may
// manage that project's time slips and allowed tasks without holding
// the global admin right.
type ProjectManager struct {
	ID uint `gorm:"primaryKey" json:"id"`

	UserID uint `gorm:"uniqueIndex:idx_project_manager;not null" json:"user_id"`
	User   User `gorm:"constraint:OnDelete:CASCADE;" json:"-"`

	ProjectID uint    `gorm:"uniqueIndex:idx_project_manager;not null" json:"project_id"`
	Project   Project `gorm:"constraint:OnDelete:CASCADE;" json:"-"`

	CreatedAt time.Time `json:"created_at"`
}
