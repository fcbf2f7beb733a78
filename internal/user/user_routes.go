package user

import (
	"leavetrack/internal/middleware"
	"leavetrack/internal/rbac"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	rbacService rbac.Service,
) {
	users := r.Group("/users")
	users.Use(middleware.AuthMiddleware())
	{
		users.GET("", middleware.Authorize(rbacService, "users", "read"), handler.GetAll)
		users.GET("/:id", middleware.Authorize(rbacService, "users", "read"), handler.GetById)
		users.POST("", middleware.Authorize(rbacService, "users", "manage"), handler.Create)
		users.PUT("/:id", middleware.Authorize(rbacService, "users", "manage"), handler.Update)
		users.DELETE("/:id", middleware.Authorize(rbacService, "users", "manage"), handler.Delete)
	}
}
