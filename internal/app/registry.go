package app

import (
	"os"

	"leavetrack/internal/assistant"
	"leavetrack/internal/auth"
	"leavetrack/internal/dashboard"
	"leavetrack/internal/holiday"
	"leavetrack/internal/leave"
	"leavetrack/internal/messaging/kafka"
	"leavetrack/internal/middleware"
	"leavetrack/internal/rbac"
	"leavetrack/internal/user"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

func registerModules(
	router *gin.Engine,
	gormDB *gorm.DB,
	rdb *redis.Client,
) error {
	db, err := gormDB.DB()
	if err != nil {
		return err
	}

	// --- Repositories ---
	holidayRepo := holiday.NewRepository(gormDB)
	leaveRepo := leave.NewRepository(gormDB)
	userRepo := user.NewRepository(gormDB)
	outboxRepo := kafka.NewOutboxRepository(db)

	// --- RBAC Core ---
	rbacService, err := rbac.NewService()
	if err != nil {
		return err
	}

	// --- Services ---
	holidayService := holiday.NewService(holidayRepo)
	leaveService := leave.NewServiceWithOutbox(db, leaveRepo, holidayService, outboxRepo)
	userService := user.NewService(db, userRepo)
	authService := auth.NewService(userRepo)
	dashboardService := dashboard.NewService(leaveRepo, userRepo, holidayService, rdb)

	completionClient := assistant.NewOpenAIClient(
		os.Getenv("OPENAI_API_KEY"),
		os.Getenv("OPENAI_MODEL"),
	)
	conversationStore := assistant.NewRedisConversationStore(rdb)
	assistantService := assistant.NewService(completionClient, conversationStore, holidayService, leaveService)

	// --- Handlers ---
	authHandler := auth.NewHandler(authService)
	holidayHandler := holiday.NewHandler(holidayService)
	leaveHandler := leave.NewHandler(leaveService)
	userHandler := user.NewHandler(userService)
	dashboardHandler := dashboard.NewHandler(dashboardService)
	assistantHandler := assistant.NewHandler(assistantService)

	// --- Routes Registration ---
	router.Use(middleware.RequestID())

	api := router.Group("/api/v1")
	{
		auth.RegisterRoutes(api, authHandler)
		holiday.RegisterRoutes(api, holidayHandler, rbacService)
		leave.RegisterRoutes(api, leaveHandler, rbacService)
		user.RegisterRoutes(api, userHandler, rbacService)
		dashboard.RegisterRoutes(api, dashboardHandler, rbacService)
		assistant.RegisterRoutes(api, assistantHandler, rbacService)
	}

	return nil
}
