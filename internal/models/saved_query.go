package models

import "time"

// SavedQuery is a named, reusable time-slip filter. References to
// taxonomy entities live in the link tables below and are soft:
// deleting a referenced project/task/labor code removes the link row,
// never the query itself.
type SavedQuery struct {
	ID uint `gorm:"primaryKey" json:"id"`

	OwnerUserID uint   `gorm:"index;not null" json:"owner_user_id"`
	Name        string `gorm:"size:100;not null" json:"name"`

	FromDate *time.Time `gorm:"type:date" json:"from_date"`
	ToDate   *time.Time `gorm:"type:date" json:"to_date"`

	Users      []SavedQueryUser      `json:"users"`
	Projects   []SavedQueryProject   `json:"projects"`
	Tasks      []SavedQueryTask      `json:"tasks"`
	LaborCodes []SavedQueryLaborCode `json:"labor_codes"`

	CreatedAt time.Time `json:"created_at"`
}

type SavedQueryUser struct {
	ID           uint `gorm:"primaryKey" json:"id"`
	SavedQueryID uint `gorm:"index;not null" json:"saved_query_id"`
	UserID       uint `gorm:"not null" json:"user_id"`
}

type SavedQueryProject struct {
	ID           uint `gorm:"primaryKey" json:"id"`
	SavedQueryID uint `gorm:"index;not null" json:"saved_query_id"`
	ProjectID    uint `gorm:"not null" json:"project_id"`
}

type SavedQueryTask struct {
	ID           uint `gorm:"primaryKey" json:"id"`
	SavedQueryID uint `gorm:"index;not null" json:"saved_query_id"`
	TaskID       uint `gorm:"not null" json:"task_id"`
}

type SavedQueryLaborCode struct {
	ID           uint `gorm:"primaryKey" json:"id"`
	SavedQueryID uint `gorm:"index;not null" json:"saved_query_id"`
	LaborCodeID  uint `gorm:"not null" json:"labor_code_id"`
}
