package routes

import (
	"civicwatch/controllers"
	"civicwatch/middlewares"

	"github.com/gin-gonic/gin"
)

// AdminRoutes sets up the authenticated admin routes
func AdminRoutes(r *gin.Engine, ac *controllers.AdminController) {
	r.POST("/admin/login", ac.Login)

	admin := r.Group("/", middlewares.AuthMiddleware())
	{
		admin.GET("/admin", ac.ListIssues)
		admin.POST("/update_status/:id", ac.UpdateStatus)
		admin.POST("/run_escalation", ac.RunEscalation)
	}
}
