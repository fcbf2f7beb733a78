package leave

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
	leaves := r.Group("/leaves")
	leaves.Use(middleware.AuthMiddleware())
	{
		leaves.GET("", middleware.Authorize(rbacService, "leave", "read"), handler.ListMine)
		leaves.GET("/:id", middleware.Authorize(rbacService, "leave", "read"), handler.GetById)
		leaves.POST("", middleware.Authorize(rbacService, "leave", "create"), handler.Apply)
		leaves.POST("/:id/approve", middleware.Authorize(rbacService, "leave", "decide"), handler.Approve)
		leaves.POST("/:id/reject", middleware.Authorize(rbacService, "leave", "decide"), handler.Reject)
	}
}
