package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/avercast/timeslips-api/internal/domain/timesheet"
	"github.com/avercast/timeslips-api/internal/dto"
	"github.com/avercast/timeslips-api/internal/httperr"
	"github.com/avercast/timeslips-api/internal/httpresp"
	"github.com/avercast/timeslips-api/internal/middleware"
	ucTimeslip "github.com/avercast/timeslips-api/internal/usecase/timeslip"
)

// ======================================================
// HANDLER
// ======================================================

type TimeSlipHandler struct {
	createUC *ucTimeslip.CreateTimeSlips
	updateUC *ucTimeslip.UpdateTimeSlip
	deleteUC *ucTimeslip.DeleteTimeSlip
	queryUC  *ucTimeslip.QueryTimeSlips
}

func NewTimeSlipHandler(
	createUC *ucTimeslip.CreateTimeSlips,
	updateUC *ucTimeslip.UpdateTimeSlip,
	deleteUC *ucTimeslip.DeleteTimeSlip,
	queryUC *ucTimeslip.QueryTimeSlips,
) *TimeSlipHandler {
	return &TimeSlipHandler{
		createUC: createUC,
		updateUC: updateUC,
		deleteUC: deleteUC,
		queryUC:  queryUC,
	}
}

// ======================================================
// REQUESTS
// ======================================================

type CreateTimeSlipRequest struct {
	ProjectID   uint     `json:"project_id" binding:"required"`
	TaskID      *uint    `json:"task_id"`
	LaborCodeID *uint    `json:"labor_code_id"`
	Hours       int      `json:"hours"`
	Minutes     int      `json:"minutes"`
	Dates       []string `json:"dates" binding:"required,min=1"`
	Description string   `json:"description"`
	// UserID lets a manager log time for someone else; empty means
	// the caller logs their own time.
	UserID *uint `json:"user_id"`
}

type UpdateTimeSlipRequest struct {
	ProjectID   uint   `json:"project_id" binding:"required"`
	TaskID      *uint  `json:"task_id"`
	LaborCodeID *uint  `json:"labor_code_id"`
	Hours       int    `json:"hours"`
	Minutes     int    `json:"minutes"`
	Description string `json:"description"`
}

// QueryTimeSlipsRequest carries task/labor-code ids as strings so the
// "none" sentinel can select entries whose field is null.
type QueryTimeSlipsRequest struct {
	UserIDs      []uint   `json:"user_ids"`
	ProjectIDs   []uint   `json:"project_ids"`
	TaskIDs      []string `json:"task_ids"`
	LaborCodeIDs []string `json:"labor_code_ids"`
	From         string   `json:"from"`
	To           string   `json:"to"`
}

// ======================================================
// CREATE
// ======================================================

func (h *TimeSlipHandler) Create(c *gin.Context) {
	actingUserID := c.MustGet(middleware.ContextUserID).(uint)

	var req CreateTimeSlipRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid request body.")
		return
	}

	dates, err := parseDates(req.Dates)
	if err != nil {
		httperr.BadRequest(c, "invalid_date", "Dates must use the YYYY-MM-DD format.")
		return
	}

	owner := actingUserID
	if req.UserID != nil {
		owner = *req.UserID
	}

	created, err := h.createUC.Execute(c.Request.Context(), ucTimeslip.CreateTimeSlipsInput{
		ProjectID:    req.ProjectID,
		TaskID:       req.TaskID,
		LaborCodeID:  req.LaborCodeID,
		Hours:        req.Hours,
		Minutes:      req.Minutes,
		Dates:        dates,
		Description:  req.Description,
		OwnerUserID:  owner,
		ActingUserID: actingUserID,
	})
	if err != nil {
		writeDomainError(c, err)
		return
	}

	rows := make([]dto.TimeSlipListDTO, 0, len(created))
	for _, slip := range created {
		rows = append(rows, dto.FromTimeSlip(slip))
	}

	c.JSON(http.StatusCreated, rows)
}

// ======================================================
// UPDATE
// ======================================================

func (h *TimeSlipHandler) Update(c *gin.Context) {
	actingUserID := c.MustGet(middleware.ContextUserID).(uint)

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		httperr.BadRequest(c, "invalid_id", "Invalid time slip id.")
		return
	}

	var req UpdateTimeSlipRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid request body.")
		return
	}

	updated, err := h.updateUC.Execute(c.Request.Context(), ucTimeslip.UpdateTimeSlipInput{
		TimeSlipID:   uint(id),
		ProjectID:    req.ProjectID,
		TaskID:       req.TaskID,
		LaborCodeID:  req.LaborCodeID,
		Hours:        req.Hours,
		Minutes:      req.Minutes,
		Description:  req.Description,
		ActingUserID: actingUserID,
	})
	if err != nil {
		writeDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.FromTimeSlip(*updated))
}

// ======================================================
// DELETE
// ======================================================

func (h *TimeSlipHandler) Delete(c *gin.Context) {
	actingUserID := c.MustGet(middleware.ContextUserID).(uint)

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		httperr.BadRequest(c, "invalid_id", "Invalid time slip id.")
		return
	}

	if err := h.deleteUC.Execute(c.Request.Context(), uint(id), actingUserID); err != nil {
		writeDomainError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// ======================================================
// QUERY
// ======================================================

func (h *TimeSlipHandler) Query(c *gin.Context) {
	actingUserID := c.MustGet(middleware.ContextUserID).(uint)

	var req QueryTimeSlipsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid request body.")
		return
	}

	filter := timesheet.Filter{
		UserIDs:    req.UserIDs,
		ProjectIDs: req.ProjectIDs,
	}

	var err error
	filter.TaskIDs, filter.NoTask, err = parseIDSet(req.TaskIDs)
	if err != nil {
		httperr.BadRequest(c, "invalid_task_filter", "Task ids must be numeric or \"none\".")
		return
	}
	filter.LaborCodeIDs, filter.NoLaborCode, err = parseIDSet(req.LaborCodeIDs)
	if err != nil {
		httperr.BadRequest(c, "invalid_labor_code_filter", "Labor code ids must be numeric or \"none\".")
		return
	}

	filter.From, err = parseDatePtr(req.From)
	if err != nil {
		httperr.BadRequest(c, "invalid_date", "From must use the YYYY-MM-DD format.")
		return
	}
	filter.To, err = parseDatePtr(req.To)
	if err != nil {
		httperr.BadRequest(c, "invalid_date", "To must use the YYYY-MM-DD format.")
		return
	}

	slips, err := h.queryUC.Execute(c.Request.Context(), filter, actingUserID)
	if err != nil {
		writeDomainError(c, err)
		return
	}

	rows := make([]dto.TimeSlipListDTO, 0, len(slips))
	for _, slip := range slips {
		rows = append(rows, dto.FromTimeSlip(slip))
	}

	httpresp.List(c, rows)
}

// parseIDSet splits a mixed id list into numeric ids plus the "none"
// sentinel flag.
func parseIDSet(values []string) ([]uint, bool, error) {
	var ids []uint
	var none bool

	for _, v := range values {
		if v == "none" {
			none = true
			continue
		}
		id, err := strconv.ParseUint(v, 10, 32)
		if err != nil {
			return nil, false, err
		}
		ids = append(ids, uint(id))
	}
	return ids, none, nil
}
