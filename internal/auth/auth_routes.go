package auth

import (
	"leavetrack/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler) {
	auth := r.Group("/auth")
	{
		auth.POST("/login", handler.Login)
		auth.POST("/refresh", handler.Refresh)
		auth.POST("/logout", handler.Logout)

		auth.GET("/me", middleware.AuthMiddleware(), handler.Me)
		auth.POST("/change-password", middleware.AuthMiddleware(), handler.ChangePassword)
	}
}
