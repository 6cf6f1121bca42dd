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

type FavoriteHandler struct {
	db *gorm.DB
}

func NewFavoriteHandler(db *gorm.DB) *FavoriteHandler {
	return &FavoriteHandler{db: db}
}

// --------- Requests ---------

type CreateFavoriteRequest struct {
	Name        string `json:"name" binding:"required"`
	ProjectID   uint   `json:"project_id" binding:"required"`
	TaskID      *uint  `json:"task_id"`
	LaborCodeID *uint  `json:"labor_code_id"`
}

// --------- Handlers ---------

func (h *FavoriteHandler) List(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uint)

	var favorites []models.FavoriteTimeSlip
	if err := h.db.
		Preload("Project").
		Preload("Task").
		Preload("LaborCode").
		Where("user_id = ?", userID).
		Order("name ASC").
		Find(&favorites).Error; err != nil {
		httperr.Internal(c, "failed_to_list_favorites", "Failed to list favorites.")
		return
	}

	httpresp.List(c, favorites)
}

func (h *FavoriteHandler) Create(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uint)

	var req CreateFavoriteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid request body.")
		return
	}

	var count int64
	h.db.Model(&models.FavoriteTimeSlip{}).
		Where("user_id = ? AND name = ?", userID, req.Name).
		Count(&count)
	if count > 0 {
		httperr.BadRequest(c, "favorite_name_taken", "A favorite with that name already exists.")
		return
	}

	favorite := models.FavoriteTimeSlip{
		UserID:      userID,
		Name:        req.Name,
		ProjectID:   req.ProjectID,
		TaskID:      req.TaskID,
		LaborCodeID: req.LaborCodeID,
	}

	if err := h.db.Create(&favorite).Error; err != nil {
		httperr.Internal(c, "failed_to_create_favorite", "Failed to create favorite.")
		return
	}

	c.JSON(http.StatusCreated, favorite)
}

func (h *FavoriteHandler) Delete(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uint)

	res := h.db.
		Where("id = ? AND user_id = ?", c.Param("id"), userID).
		Delete(&models.FavoriteTimeSlip{})

	if res.Error != nil {
		httperr.Internal(c, "failed_to_delete_favorite", "Failed to delete favorite.")
		return
	}
	if res.RowsAffected == 0 {
		httperr.NotFound(c, "favorite_not_found", "Favorite not found.")
		return
	}

	c.Status(http.StatusNoContent)
}
