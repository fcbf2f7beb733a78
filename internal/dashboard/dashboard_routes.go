package dashboard

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
	dash := r.Group("/dashboard")
	dash.Use(middleware.AuthMiddleware())
	{
		dash.GET("/employee", middleware.Authorize(rbacService, "dashboard", "employee"), handler.Employee)
		dash.GET("/manager", middleware.Authorize(rbacService, "dashboard", "manager"), handler.Manager)
		dash.GET("/calendar", handler.Calendar)
	}
}
