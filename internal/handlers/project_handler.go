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

// ======================================================
// HANDLER
// ======================================================

type ProjectHandler struct {
	db              *gorm.DB
	store           timesheet.Store
	policy          *access.Policy
	setAllowedUC    *ucTaxonomy.SetAllowedTasks
	deleteProjectUC *ucTaxonomy.DeleteProject
}

func NewProjectHandler(
	db *gorm.DB,
	store timesheet.Store,
	policy *access.Policy,
	setAllowedUC *ucTaxonomy.SetAllowedTasks,
	deleteProjectUC *ucTaxonomy.DeleteProject,
) *ProjectHandler {
	return &ProjectHandler{
		db:              db,
		store:           store,
		policy:          policy,
		setAllowedUC:    setAllowedUC,
		deleteProjectUC: deleteProjectUC,
	}
}

// ======================================================
// REQUESTS
// ======================================================

type CreateProjectRequest struct {
	Name           string  `json:"name" binding:"required"`
	Rate           float64 `json:"rate" binding:"min=0"`
	BillingName    string  `json:"billing_name"`
	BillingAddress string  `json:"billing_address"`
	BillingEmail   string  `json:"billing_email"`
}

type UpdateProjectRequest struct {
	Name           *string  `json:"name,omitempty"`
	Rate           *float64 `json:"rate,omitempty"`
	BillingName    *string  `json:"billing_name,omitempty"`
	BillingAddress *string  `json:"billing_address,omitempty"`
	BillingEmail   *string  `json:"billing_email,omitempty"`
	// LockDate "" clears the lock.
	LockDate *string `json:"lock_date,omitempty"`
}

type SetAllowedTasksRequest struct {
	TaskIDs []uint `json:"task_ids"`
}

type SetProjectManagersRequest struct {
	UserIDs []uint `json:"user_ids"`
}

// ======================================================
// CRUD
// ======================================================

func (h *ProjectHandler) List(c *gin.Context) {
	var projects []models.Project
	if err := h.db.Order("name ASC").Find(&projects).Error; err != nil {
		httperr.Internal(c, "failed_to_list_projects", "Failed to list projects.")
		return
	}
	httpresp.List(c, projects)
}

func (h *ProjectHandler) Create(c *gin.Context) {
	actingUserID := c.MustGet(middleware.ContextUserID).(uint)

	if err := h.policy.ValidateAccess(c.Request.Context(), h.store, models.RightAdmin, actingUserID); err != nil {
		writeDomainError(c, err)
		return
	}

	var req CreateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid request body.")
		return
	}

	project := models.Project{
		Name:           req.Name,
		Rate:           req.Rate,
		BillingName:    req.BillingName,
		BillingAddress: req.BillingAddress,
		BillingEmail:   req.BillingEmail,
	}

	if err := h.db.Create(&project).Error; err != nil {
		httperr.Internal(c, "failed_to_create_project", "Failed to create project.")
		return
	}

	c.JSON(http.StatusCreated, project)
}

func (h *ProjectHandler) Update(c *gin.Context) {
	actingUserID := c.MustGet(middleware.ContextUserID).(uint)

	if err := h.policy.ValidateAccess(c.Request.Context(), h.store, models.RightAdmin, actingUserID); err != nil {
		writeDomainError(c, err)
		return
	}

	var project models.Project
	if err := h.db.First(&project, c.Param("id")).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			httperr.NotFound(c, "project_not_found", "Project not found.")
			return
		}
		httperr.Internal(c, "failed_to_get_project", "Failed to load project.")
		return
	}

	var req UpdateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid request body.")
		return
	}

	if req.Name != nil {
		project.Name = *req.Name
	}
	if req.Rate != nil {
		project.Rate = *req.Rate
	}
	if req.BillingName != nil {
		project.BillingName = *req.BillingName
	}
	if req.BillingAddress != nil {
		project.BillingAddress = *req.BillingAddress
	}
	if req.BillingEmail != nil {
		project.BillingEmail = *req.BillingEmail
	}
	if req.LockDate != nil {
		lock, err := parseDatePtr(*req.LockDate)
		if err != nil {
			httperr.BadRequest(c, "invalid_date", "Lock date must use the YYYY-MM-DD format.")
			return
		}
		project.LockDate = lock
	}

	if err := h.db.Save(&project).Error; err != nil {
		httperr.Internal(c, "failed_to_update_project", "Failed to update project.")
		return
	}

	c.JSON(http.StatusOK, project)
}

func (h *ProjectHandler) Delete(c *gin.Context) {
	actingUserID := c.MustGet(middleware.ContextUserID).(uint)

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		httperr.BadRequest(c, "invalid_id", "Invalid project id.")
		return
	}

	if err := h.deleteProjectUC.Execute(c.Request.Context(), uint(id), actingUserID); err != nil {
		writeDomainError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// ======================================================
// ALLOWED TASKS
// ======================================================

func (h *ProjectHandler) ListAllowedTasks(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		httperr.BadRequest(c, "invalid_id", "Invalid project id.")
		return
	}

	ids, err := h.store.ListAllowedTaskIDs(c.Request.Context(), uint(id))
	if err != nil {
		httperr.Internal(c, "failed_to_list_tasks", "Failed to list allowed tasks.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"project_id": id,
		"task_ids":   ids,
		// No explicit rows means every task is allowed.
		"all_tasks_allowed": len(ids) == 0,
	})
}

func (h *ProjectHandler) SetAllowedTasks(c *gin.Context) {
	actingUserID := c.MustGet(middleware.ContextUserID).(uint)

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		httperr.BadRequest(c, "invalid_id", "Invalid project id.")
		return
	}

	var req SetAllowedTasksRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid request body.")
		return
	}

	if err := h.setAllowedUC.Execute(c.Request.Context(), ucTaxonomy.SetAllowedTasksInput{
		ProjectID:    uint(id),
		TaskIDs:      req.TaskIDs,
		ActingUserID: actingUserID,
	}); err != nil {
		writeDomainError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// ======================================================
// DELEGATIONS
// ======================================================

func (h *ProjectHandler) SetManagers(c *gin.Context) {
	actingUserID := c.MustGet(middleware.ContextUserID).(uint)

	if err := h.policy.ValidateAccess(c.Request.Context(), h.store, models.RightAdmin, actingUserID); err != nil {
		writeDomainError(c, err)
		return
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		httperr.BadRequest(c, "invalid_id", "Invalid project id.")
		return
	}

	var req SetProjectManagersRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid request body.")
		return
	}

	err = h.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("project_id = ?", id).Delete(&models.ProjectManager{}).Error; err != nil {
			return err
		}
		for _, userID := range req.UserIDs {
			grant := models.ProjectManager{UserID: userID, ProjectID: uint(id)}
			if err := tx.Create(&grant).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		httperr.Internal(c, "failed_to_set_managers", "Failed to set project managers.")
		return
	}

	c.Status(http.StatusNoContent)
}
