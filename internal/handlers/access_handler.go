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
)

// ======================================================
// HANDLER
// ======================================================

type AccessHandler struct {
	db          *gorm.DB
	store       timesheet.Store
	policy      *access.Policy
	setRightsUC *access.SetUserRights
}

func NewAccessHandler(
	db *gorm.DB,
	store timesheet.Store,
	policy *access.Policy,
	setRightsUC *access.SetUserRights,
) *AccessHandler {
	return &AccessHandler{
		db:          db,
		store:       store,
		policy:      policy,
		setRightsUC: setRightsUC,
	}
}

// --------- Requests ---------

type SetUserRightsRequest struct {
	RightCodes []string `json:"right_codes"`
}

// --------- Handlers ---------

func (h *AccessHandler) ListRights(c *gin.Context) {
	var rights []models.AccessRight
	if err := h.db.Order("code ASC").Find(&rights).Error; err != nil {
		httperr.Internal(c, "failed_to_list_rights", "Failed to list access rights.")
		return
	}
	httpresp.List(c, rights)
}

func (h *AccessHandler) ListUsers(c *gin.Context) {
	actingUserID := c.MustGet(middleware.ContextUserID).(uint)

	if err := h.policy.ValidateAccess(c.Request.Context(), h.store, models.RightAdmin, actingUserID); err != nil {
		writeDomainError(c, err)
		return
	}

	var users []models.User
	if err := h.db.Order("name ASC").Find(&users).Error; err != nil {
		httperr.Internal(c, "failed_to_list_users", "Failed to list users.")
		return
	}
	httpresp.List(c, users)
}

func (h *AccessHandler) GetUserRights(c *gin.Context) {
	actingUserID := c.MustGet(middleware.ContextUserID).(uint)

	if err := h.policy.ValidateAccess(c.Request.Context(), h.store, models.RightAdmin, actingUserID); err != nil {
		writeDomainError(c, err)
		return
	}

	userID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		httperr.BadRequest(c, "invalid_id", "Invalid user id.")
		return
	}

	rights, err := h.store.ListUserRights(c.Request.Context(), uint(userID))
	if err != nil {
		httperr.Internal(c, "failed_to_get_rights", "Failed to load user rights.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user_id":     userID,
		"right_codes": rights,
	})
}

func (h *AccessHandler) SetUserRights(c *gin.Context) {
	actingUserID := c.MustGet(middleware.ContextUserID).(uint)

	userID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		httperr.BadRequest(c, "invalid_id", "Invalid user id.")
		return
	}

	var req SetUserRightsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid request body.")
		return
	}

	if err := h.setRightsUC.Execute(c.Request.Context(), access.SetUserRightsInput{
		TargetUserID: uint(userID),
		RightCodes:   req.RightCodes,
		ActingUserID: actingUserID,
	}); err != nil {
		writeDomainError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
