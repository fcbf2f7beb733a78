package holiday

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
	holidays := r.Group("/holidays")
	holidays.Use(middleware.AuthMiddleware())
	{
		holidays.GET("", middleware.Authorize(rbacService, "holidays", "read"), handler.GetAll)
		holidays.POST("", middleware.Authorize(rbacService, "holidays", "manage"), handler.Create)
		holidays.PUT("/:id", middleware.Authorize(rbacService, "holidays", "manage"), handler.Update)
		holidays.DELETE("/:id", middleware.Authorize(rbacService, "holidays", "manage"), handler.Delete)
	}
}
