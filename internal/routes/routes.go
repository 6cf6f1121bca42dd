package routes

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"

	"github.com/avercast/timeslips-api/internal/audit"
	"github.com/avercast/timeslips-api/internal/config"
	"github.com/avercast/timeslips-api/internal/handlers"
	infraRepo "github.com/avercast/timeslips-api/internal/infra/repository"
	"github.com/avercast/timeslips-api/internal/middleware"
	"github.com/avercast/timeslips-api/internal/storage"
	ucAccess "github.com/avercast/timeslips-api/internal/usecase/access"
	ucTaxonomy "github.com/avercast/timeslips-api/internal/usecase/taxonomy"
	ucTimeslip "github.com/avercast/timeslips-api/internal/usecase/timeslip"
)

func RegisterRoutes(r *gin.Engine, db *gorm.DB, cfg *config.Config) {

	// ======================================================
	// INFRA (SINGLETONS)
	// ======================================================
	store := infraRepo.NewTimesheetGormStore(db)

	policy := ucAccess.NewPolicy()
	recorder := audit.NewRecorder()

	partition := func() int { return cfg.MinutesPartition }

	// ======================================================
	// USE CASES
	// ======================================================
	createTimeSlipsUC := ucTimeslip.NewCreateTimeSlips(store, policy, recorder, partition)
	updateTimeSlipUC := ucTimeslip.NewUpdateTimeSlip(store, policy, recorder, partition)
	deleteTimeSlipUC := ucTimeslip.NewDeleteTimeSlip(store, policy, recorder)
	queryTimeSlipsUC := ucTimeslip.NewQueryTimeSlips(store)

	setAllowedTasksUC := ucTaxonomy.NewSetAllowedTasks(store, policy, recorder)
	deleteProjectUC := ucTaxonomy.NewDeleteProject(store, policy)
	deleteTaskUC := ucTaxonomy.NewDeleteTask(store, policy)
	deleteLaborCodeUC := ucTaxonomy.NewDeleteLaborCode(store, policy)

	setUserRightsUC := ucAccess.NewSetUserRights(store, policy)

	// ======================================================
	// HANDLERS
	// ======================================================
	authHandler := handlers.NewAuthHandler(db, cfg)
	meHandler := handlers.NewMeHandler(db)

	timeSlipHandler := handlers.NewTimeSlipHandler(
		createTimeSlipsUC,
		updateTimeSlipUC,
		deleteTimeSlipUC,
		queryTimeSlipsUC,
	)

	projectHandler := handlers.NewProjectHandler(db, store, policy, setAllowedTasksUC, deleteProjectUC)
	lookupHandler := handlers.NewLookupHandler(db, store, policy, deleteTaskUC, deleteLaborCodeUC)

	favoriteHandler := handlers.NewFavoriteHandler(db)
	savedQueryHandler := handlers.NewSavedQueryHandler(db)
	accessHandler := handlers.NewAccessHandler(db, store, policy, setUserRightsUC)
	auditLogsHandler := handlers.NewAuditLogsHandler(db, store, policy)

	// ======================================================
	// API (JSON)
	// ======================================================
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api")
	{
		// ------------------------------
		// AUTH
		// ------------------------------
		login := api.Group("/")
		if cfg.RedisAddr != "" {
			rdb := redis.NewClient(&redis.Options{
				Addr:     cfg.RedisAddr,
				Password: cfg.RedisPassword,
			})
			login.Use(middleware.LoginRateLimiter(rdb, 10, time.Minute))
		}
		login.POST("/auth/register", authHandler.Register)
		login.POST("/auth/login", authHandler.Login)

		// ------------------------------
		// PRIVATE API
		// ------------------------------
		secured := api.Group("/")
		secured.Use(middleware.AuthMiddleware(cfg))
		{
			secured.GET("/me", meHandler.GetMe)

			if cfg.AvatarsEnabled() {
				avatarHandler := handlers.NewAvatarHandler(db, storage.NewAvatarStore(cfg))
				secured.POST("/me/avatar", avatarHandler.Upload)
			}

			// ------------------------------
			// TIME SLIPS
			// ------------------------------
			secured.POST("/time-slips", timeSlipHandler.Create)
			secured.PUT("/time-slips/:id", timeSlipHandler.Update)
			secured.DELETE("/time-slips/:id", timeSlipHandler.Delete)
			secured.POST("/time-slips/query", timeSlipHandler.Query)

			// ------------------------------
			// TAXONOMY
			// ------------------------------
			secured.GET("/projects", projectHandler.List)
			secured.POST("/projects", projectHandler.Create)
			secured.PATCH("/projects/:id", projectHandler.Update)
			secured.DELETE("/projects/:id", projectHandler.Delete)
			secured.GET("/projects/:id/tasks", projectHandler.ListAllowedTasks)
			secured.PUT("/projects/:id/tasks", projectHandler.SetAllowedTasks)
			secured.PUT("/projects/:id/managers", projectHandler.SetManagers)

			secured.GET("/tasks", lookupHandler.ListTasks)
			secured.POST("/tasks", lookupHandler.CreateTask)
			secured.DELETE("/tasks/:id", lookupHandler.DeleteTask)

			secured.GET("/labor-codes", lookupHandler.ListLaborCodes)
			secured.POST("/labor-codes", lookupHandler.CreateLaborCode)
			secured.DELETE("/labor-codes/:id", lookupHandler.DeleteLaborCode)

			// ------------------------------
			// FAVORITES + SAVED QUERIES
			// ------------------------------
			secured.GET("/favorites", favoriteHandler.List)
			secured.POST("/favorites", favoriteHandler.Create)
			secured.DELETE("/favorites/:id", favoriteHandler.Delete)

			secured.GET("/queries", savedQueryHandler.List)
			secured.POST("/queries", savedQueryHandler.Create)
			secured.DELETE("/queries/:id", savedQueryHandler.Delete)

			// ------------------------------
			// ACCESS + AUDIT
			// ------------------------------
			secured.GET("/access/rights", accessHandler.ListRights)
			secured.GET("/access/users", accessHandler.ListUsers)
			secured.GET("/access/users/:id/rights", accessHandler.GetUserRights)
			secured.PUT("/access/users/:id/rights", accessHandler.SetUserRights)

			secured.GET("/audit-logs", auditLogsHandler.List)
		}
	}
}
