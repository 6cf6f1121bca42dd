package handlers

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/avercast/timeslips-api/internal/domain/timesheet"
	"github.com/avercast/timeslips-api/internal/httperr"
	"github.com/avercast/timeslips-api/internal/middleware"
	"github.com/avercast/timeslips-api/internal/models"
	"github.com/avercast/timeslips-api/internal/usecase/access"
)

// ======================================================
// HANDLER
// ======================================================

// AuditLogsHandler exposes the time-slip audit trail to admins,
// newest first. Log rows are read-only; there is no mutation surface.
type AuditLogsHandler struct {
	db     *gorm.DB
	store  timesheet.Store
	policy *access.Policy
}

func NewAuditLogsHandler(db *gorm.DB, store timesheet.Store, policy *access.Policy) *AuditLogsHandler {
	return &AuditLogsHandler{
		db:     db,
		store:  store,
		policy: policy,
	}
}

func (h *AuditLogsHandler) List(c *gin.Context) {
	actingUserID := c.MustGet(middleware.ContextUserID).(uint)

	if err := h.policy.ValidateAccess(c.Request.Context(), h.store, models.RightAdmin, actingUserID); err != nil {
		writeDomainError(c, err)
		return
	}

	slipIDStr := c.Query("time_slip_id")
	updateType := c.Query("update_type")
	fromStr := c.Query("from")
	toStr := c.Query("to")

	pageStr := c.DefaultQuery("page", "1")
	limitStr := c.DefaultQuery("limit", "50")

	page, _ := strconv.Atoi(pageStr)
	if page <= 0 {
		page = 1
	}

	limit, _ := strconv.Atoi(limitStr)
	if limit <= 0 || limit > 200 {
		limit = 50
	}

	offset := (page - 1) * limit

	// --------------------------------------------------
	// Optional filters
	// --------------------------------------------------

	q := h.db.Model(&models.TimeSlipLog{})

	if slipIDStr != "" {
		if slipID, err := strconv.ParseUint(slipIDStr, 10, 32); err == nil {
			q = q.Where("time_slip_id = ?", slipID)
		}
	}

	if updateType != "" {
		q = q.Where("update_type = ?", updateType)
	}

	if fromStr != "" {
		if from, err := time.Parse("2006-01-02", fromStr); err == nil {
			q = q.Where("created_at >= ?", from)
		}
	}

	if toStr != "" {
		if to, err := time.Parse("2006-01-02", toStr); err == nil {
			q = q.Where("created_at <= ?", to.Add(24*time.Hour))
		}
	}

	// --------------------------------------------------
	// Total + page
	// --------------------------------------------------

	var total int64
	if err := q.Count(&total).Error; err != nil {
		httperr.Internal(c, "audit_count_failed", "Failed to count audit rows.")
		return
	}

	var logs []models.TimeSlipLog
	if err := q.
		Order("created_at DESC, id DESC").
		Limit(limit).
		Offset(offset).
		Find(&logs).Error; err != nil {

		httperr.Internal(c, "audit_list_failed", "Failed to list audit rows.")
		return
	}

	c.JSON(200, gin.H{
		"page":  page,
		"limit": limit,
		"total": total,
		"logs":  logs,
	})
}
