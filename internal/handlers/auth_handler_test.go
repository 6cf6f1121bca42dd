package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"gorm.io/gorm"

	"github.com/avercast/timeslips-api/internal/config"
	"github.com/avercast/timeslips-api/internal/models"
)

func newAuthTestHandler(t *testing.T) (*AuthHandler, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.AutoMigrate(&models.User{}, &models.UserRight{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	h := NewAuthHandler(db, &config.Config{JWTSecret: "test-secret"})
	h.validateEmail = func(string) bool { return true }
	return h, db
}

func register(t *testing.T, h *AuthHandler, name, email string) *httptest.ResponseRecorder {
	t.Helper()

	body, err := json.Marshal(RegisterRequest{Name: name, Email: email, Password: "secret123"})
	if err != nil {
		t.Fatalf("marshal request: %v", err)
	}

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodPost, "/auth/register", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")

	h.Register(c)
	return rec
}

func TestRegisterOnlyFirstUserBootstrapsAdmin(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h, db := newAuthTestHandler(t)

	if rec := register(t, h, "Alice", "alice@example.com"); rec.Code != http.StatusCreated {
		t.Fatalf("first registration failed: %d %s", rec.Code, rec.Body.String())
	}
	if rec := register(t, h, "Bob", "bob@example.com"); rec.Code != http.StatusCreated {
		t.Fatalf("second registration failed: %d %s", rec.Code, rec.Body.String())
	}

	var rights []models.UserRight
	if err := db.Find(&rights).Error; err != nil {
		t.Fatalf("list rights: %v", err)
	}
	if len(rights) != 1 || rights[0].RightCode != models.RightAdmin {
		t.Fatalf("exactly one admin grant expected: %+v", rights)
	}

	var first models.User
	if err := db.Where("email = ?", "alice@example.com").First(&first).Error; err != nil {
		t.Fatalf("load first user: %v", err)
	}
	if rights[0].UserID != first.ID {
		t.Fatalf("admin granted to user %d, want %d", rights[0].UserID, first.ID)
	}
}

func TestRegisterBootstrapIsAtomic(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h, db := newAuthTestHandler(t)

	// A pre-seeded grant collides with the bootstrap's rights insert
	// on the (user_id, right_code) unique index. The user insert in
	// the same transaction must roll back with it.
	seed := models.UserRight{UserID: 1, RightCode: models.RightAdmin}
	if err := db.Create(&seed).Error; err != nil {
		t.Fatalf("seed grant: %v", err)
	}

	rec := register(t, h, "Alice", "alice@example.com")
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected registration to fail, got %d", rec.Code)
	}

	var users int64
	if err := db.Model(&models.User{}).Count(&users).Error; err != nil {
		t.Fatalf("count users: %v", err)
	}
	if users != 0 {
		t.Fatalf("failed bootstrap must not leave a user row, found %d", users)
	}
}

func TestRegisterDuplicateEmailRejected(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h, _ := newAuthTestHandler(t)

	if rec := register(t, h, "Alice", "alice@example.com"); rec.Code != http.StatusCreated {
		t.Fatalf("first registration failed: %d", rec.Code)
	}
	if rec := register(t, h, "Alice again", "alice@example.com"); rec.Code != http.StatusBadRequest {
		t.Fatalf("duplicate email must be rejected, got %d", rec.Code)
	}
}
