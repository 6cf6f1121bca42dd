package db

import (
	"log"
	"time"

	"github.com/avercast/timeslips-api/internal/config"
	"github.com/avercast/timeslips-api/internal/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func NewDB(cfg *config.Config) *gorm.DB {
	db, err := gorm.Open(postgres.Open(cfg.DBUrl), &gorm.Config{
		PrepareStmt: true,
	})
	if err != nil {
		log.Fatalf("failed to connect database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		log.Fatalf("failed to get sql.DB: %v", err)
	}

	sqlDB.SetMaxOpenConns(10)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)
	sqlDB.SetConnMaxIdleTime(10 * time.Minute)

	if err := db.AutoMigrate(
		&models.User{},
		&models.AccessRight{},
		&models.UserRight{},
		&models.Project{},
		&models.ProjectManager{},
		&models.Task{},
		&models.LaborCode{},
		&models.ProjectTask{},
		&models.TimeSlip{},
		&models.TimeSlipLog{},
		&models.FavoriteTimeSlip{},
		&models.SavedQuery{},
		&models.SavedQueryUser{},
		&models.SavedQueryProject{},
		&models.SavedQueryTask{},
		&models.SavedQueryLaborCode{},
	); err != nil {
		log.Fatalf("failed to migrate: %v", err)
	}

	seedAccessRights(db)

	return db
}

func seedAccessRights(db *gorm.DB) {
	rights := []models.AccessRight{
		{Code: models.RightAdmin, Description: "Full administrative access"},
		{Code: models.RightTimeSlipManager, Description: "Manage time slips for any user"},
	}
	for _, r := range rights {
		db.Where(models.AccessRight{Code: r.Code}).FirstOrCreate(&r)
	}
}
