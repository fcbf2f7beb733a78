package assistant

import (
	"leavetrack/internal/middleware"
	"leavetrack/internal/rbac"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	rbacService rbac.Service,
) {
	chat := r.Group("/assistant")
	chat.Use(middleware.AuthMiddleware())
	chat.Use(middleware.RateLimitByUser(rate.Limit(0.5), 3))
	{
		chat.POST("/chat", middleware.Authorize(rbacService, "assistant", "chat"), handler.Chat)
	}
}
