package dto

import (
	"github.com/avercast/timeslips-api/internal/models"
)

type TimeSlipListDTO struct {
	ID            uint   `json:"id"`
	UserID        uint   `json:"user_id"`
	Date          string `json:"date"`
	Hours         int    `json:"hours"`
	Minutes       int    `json:"minutes"`
	Description   string `json:"description"`
	ProjectID     uint   `json:"project_id"`
	ProjectName   string `json:"project_name"`
	TaskID        *uint  `json:"task_id"`
	TaskName      string `json:"task_name,omitempty"`
	LaborCodeID   *uint  `json:"labor_code_id"`
	LaborCodeName string `json:"labor_code_name,omitempty"`
	Version       int    `json:"version"`
}

func FromTimeSlip(slip models.TimeSlip) TimeSlipListDTO {
	row := TimeSlipListDTO{
		ID:          slip.ID,
		UserID:      slip.UserID,
		Date:        slip.Date.Format("2006-01-02"),
		Hours:       slip.Hours,
		Minutes:     slip.Minutes,
		Description: slip.Description,
		ProjectID:   slip.ProjectID,
		ProjectName: slip.Project.Name,
		TaskID:      slip.TaskID,
		LaborCodeID: slip.LaborCodeID,
		Version:     slip.Version,
	}
	if slip.Task != nil {
		row.TaskName = slip.Task.Name
	}
	if slip.LaborCode != nil {
		row.LaborCodeName = slip.LaborCode.Name
	}
	return row
}
