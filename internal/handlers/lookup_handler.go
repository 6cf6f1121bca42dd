package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/avercast/timeslips-api/internal/domain/timesheet"
	"github.com/avercast/timeslips-api/internal/httperr"
	"github.com/avercast/timeslips-api/internal/httpresp"
	"github.com/avercast/timeslips-api/internal/middleware"
	"github.com/avercast/timeslips-api/internal/models"
	"github.com/avercast/timeslips-api/internal/usecase/access"
	ucTaxonomy "github.com/avercast/timeslips-api/internal/usecase/taxonomy"
)

// LookupHandler serves the flat taxonomy entities (tasks and labor
// codes). Creation is plain CRUD; deletion runs through the cascade
// usecases so in-use codes are refused and references are scrubbed.
type LookupHandler struct {
	db                *gorm.DB
	store             timesheet.Store
	policy            *access.Policy
	deleteTaskUC      *ucTaxonomy.DeleteTask
	deleteLaborCodeUC *ucTaxonomy.DeleteLaborCode
}

func NewLookupHandler(
	db *gorm.DB,
	store timesheet.Store,
	policy *access.Policy,
	deleteTaskUC *ucTaxonomy.DeleteTask,
	deleteLaborCodeUC *ucTaxonomy.DeleteLaborCode,
) *LookupHandler {
	return &LookupHandler{
		db:                db,
		store:             store,
		policy:            policy,
		deleteTaskUC:      deleteTaskUC,
		deleteLaborCodeUC: deleteLaborCodeUC,
	}
}

// --------- Requests ---------

type CreateLookupRequest struct {
	Name string `json:"name" binding:"required"`
}

// --------- Tasks ---------

func (h *LookupHandler) ListTasks(c *gin.Context) {
	var tasks []models.Task
	if err := h.db.Order("name ASC").Find(&tasks).Error; err != nil {
		httperr.Internal(c, "failed_to_list_tasks", "Failed to list tasks.")
		return
	}
	httpresp.List(c, tasks)
}

func (h *LookupHandler) CreateTask(c *gin.Context) {
	actingUserID := c.MustGet(middleware.ContextUserID).(uint)

	if err := h.policy.ValidateAccess(c.Request.Context(), h.store, models.RightAdmin, actingUserID); err != nil {
		writeDomainError(c, err)
		return
	}

	var req CreateLookupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid request body.")
		return
	}

	task := models.Task{Name: req.Name}
	if err := h.db.Create(&task).Error; err != nil {
		httperr.Internal(c, "failed_to_create_task", "Failed to create task.")
		return
	}

	c.JSON(http.StatusCreated, task)
}

func (h *LookupHandler) DeleteTask(c *gin.Context) {
	actingUserID := c.MustGet(middleware.ContextUserID).(uint)

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		httperr.BadRequest(c, "invalid_id", "Invalid task id.")
		return
	}

	if err := h.deleteTaskUC.Execute(c.Request.Context(), uint(id), actingUserID); err != nil {
		writeDomainError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// --------- Labor codes ---------

func (h *LookupHandler) ListLaborCodes(c *gin.Context) {
	var codes []models.LaborCode
	if err := h.db.Order("name ASC").Find(&codes).Error; err != nil {
		httperr.Internal(c, "failed_to_list_labor_codes", "Failed to list labor codes.")
		return
	}
	httpresp.List(c, codes)
}

func (h *LookupHandler) CreateLaborCode(c *gin.Context) {
	actingUserID := c.MustGet(middleware.ContextUserID).(uint)

	if err := h.policy.ValidateAccess(c.Request.Context(), h.store, models.RightAdmin, actingUserID); err != nil {
		writeDomainError(c, err)
		return
	}

	var req CreateLookupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid request body.")
		return
	}

	code := models.LaborCode{Name: req.Name}
	if err := h.db.Create(&code).Error; err != nil {
		httperr.Internal(c, "failed_to_create_labor_code", "Failed to create labor code.")
		return
	}

	c.JSON(http.StatusCreated, code)
}

func (h *LookupHandler) DeleteLaborCode(c *gin.Context) {
	actingUserID := c.MustGet(middleware.ContextUserID).(uint)

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		httperr.BadRequest(c, "invalid_id", "Invalid labor code id.")
		return
	}

	if err := h.deleteLaborCodeUC.Execute(c.Request.Context(), uint(id), actingUserID); err != nil {
		writeDomainError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
