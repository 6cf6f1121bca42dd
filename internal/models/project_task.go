package models

// ProjectTask is one edge of a project's allowed-task list. A project
// with no edges allows every task; one or more edges switch it to
// "only listed tasks allowed."
type ProjectTask struct {
	ID uint `gorm:"primaryKey" json:"id"`

	ProjectID uint    `gorm:"uniqueIndex:idx_project_task;not null" json:"project_id"`
	Project   Project `gorm:"constraint:OnDelete:CASCADE;" json:"-"`

	TaskID uint `gorm:"uniqueIndex:idx_project_task;not null" json:"task_id"`
	Task   Task `gorm:"constraint:OnDelete:CASCADE;" json:"-"`
}
