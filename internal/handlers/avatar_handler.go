package handlers

import (
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/avercast/timeslips-api/internal/httperr"
	"github.com/avercast/timeslips-api/internal/middleware"
	"github.com/avercast/timeslips-api/internal/models"
	"github.com/avercast/timeslips-api/internal/storage"
)

const maxAvatarBytes = 5 << 20

type AvatarHandler struct {
	db    *gorm.DB
	store *storage.AvatarStore
}

func NewAvatarHandler(db *gorm.DB, store *storage.AvatarStore) *AvatarHandler {
	return &AvatarHandler{db: db, store: store}
}

func (h *AvatarHandler) Upload(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uint)

	file, _, err := c.Request.FormFile("avatar")
	if err != nil {
		httperr.BadRequest(c, "missing_file", "An avatar file is required.")
		return
	}
	defer file.Close()

	img, _, err := image.Decode(http.MaxBytesReader(c.Writer, file, maxAvatarBytes))
	if err != nil {
		httperr.BadRequest(c, "invalid_image", "The file is not a supported image.")
		return
	}

	url, err := h.store.Upload(c.Request.Context(), userID, img)
	if err != nil {
		httperr.Internal(c, "failed_to_upload_avatar", "Failed to store avatar.")
		return
	}

	if err := h.db.Model(&models.User{}).
		Where("id = ?", userID).
		Update("avatar_url", url).Error; err != nil {
		httperr.Internal(c, "failed_to_save_avatar", "Failed to save avatar.")
		return
	}

	c.JSON(http.StatusOK, gin.H{"avatar_url": url})
}
