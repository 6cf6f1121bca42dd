package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/avercast/timeslips-api/internal/httperr"
	"github.com/avercast/timeslips-api/internal/httpresp"
	"github.com/avercast/timeslips-api/internal/middleware"
	"github.com/avercast/timeslips-api/internal/models"
)

type SavedQueryHandler struct {
	db *gorm.DB
}

func NewSavedQueryHandler(db *gorm.DB) *SavedQueryHandler {
	return &SavedQueryHandler{db: db}
}

// --------- Requests ---------

type CreateSavedQueryRequest struct {
	Name         string `json:"name" binding:"required"`
	UserIDs      []uint `json:"user_ids"`
	ProjectIDs   []uint `json:"project_ids"`
	TaskIDs      []uint `json:"task_ids"`
	LaborCodeIDs []uint `json:"labor_code_ids"`
	From         string `json:"from"`
	To           string `json:"to"`
}

// --------- Handlers ---------

func (h *SavedQueryHandler) List(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uint)

	var queries []models.SavedQuery
	if err := h.db.
		Preload("Users").
		Preload("Projects").
		Preload("Tasks").
		Preload("LaborCodes").
		Where("owner_user_id = ?", userID).
		Order("name ASC").
		Find(&queries).Error; err != nil {
		httperr.Internal(c, "failed_to_list_queries", "Failed to list saved queries.")
		return
	}

	httpresp.List(c, queries)
}

func (h *SavedQueryHandler) Create(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uint)

	var req CreateSavedQueryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid request body.")
		return
	}

	from, err := parseDatePtr(req.From)
	if err != nil {
		httperr.BadRequest(c, "invalid_date", "From must use the YYYY-MM-DD format.")
		return
	}
	to, err := parseDatePtr(req.To)
	if err != nil {
		httperr.BadRequest(c, "invalid_date", "To must use the YYYY-MM-DD format.")
		return
	}

	query := models.SavedQuery{
		OwnerUserID: userID,
		Name:        req.Name,
		FromDate:    from,
		ToDate:      to,
	}
	for _, id := range req.UserIDs {
		query.Users = append(query.Users, models.SavedQueryUser{UserID: id})
	}
	for _, id := range req.ProjectIDs {
		query.Projects = append(query.Projects, models.SavedQueryProject{ProjectID: id})
	}
	for _, id := range req.TaskIDs {
		query.Tasks = append(query.Tasks, models.SavedQueryTask{TaskID: id})
	}
	for _, id := range req.LaborCodeIDs {
		query.LaborCodes = append(query.LaborCodes, models.SavedQueryLaborCode{LaborCodeID: id})
	}

	if err := h.db.Create(&query).Error; err != nil {
		httperr.Internal(c, "failed_to_create_query", "Failed to create saved query.")
		return
	}

	c.JSON(http.StatusCreated, query)
}

func (h *SavedQueryHandler) Delete(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uint)

	var query models.SavedQuery
	if err := h.db.
		Where("id = ? AND owner_user_id = ?", c.Param("id"), userID).
		First(&query).Error; err != nil {
		httperr.NotFound(c, "query_not_found", "Saved query not found.")
		return
	}

	err := h.db.Transaction(func(tx *gorm.DB) error {
		for _, m := range []any{
			&models.SavedQueryUser{},
			&models.SavedQueryProject{},
			&models.SavedQueryTask{},
			&models.SavedQueryLaborCode{},
		} {
			if err := tx.Where("saved_query_id = ?", query.ID).Delete(m).Error; err != nil {
				return err
			}
		}
		return tx.Delete(&query).Error
	})
	if err != nil {
		httperr.Internal(c, "failed_to_delete_query", "Failed to delete saved query.")
		return
	}

	c.Status(http.StatusNoContent)
}
