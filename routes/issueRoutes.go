package routes

import (
	"civicwatch/controllers"

	"github.com/gin-gonic/gin"
)

// IssueRoutes sets up the public issue routes
func IssueRoutes(r *gin.Engine, ic *controllers.IssueController, limiter gin.HandlerFunc) {
	r.GET("/", ic.Home)
	r.GET("/report", ic.ReportForm)
	r.POST("/report", limiter, ic.SubmitReport)
	r.GET("/map", ic.MapView)
	r.POST("/report_spam/:id", limiter, ic.ReportSpam)
}
