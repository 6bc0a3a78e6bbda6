package observability

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// issues successfully created, per category
	IssuesCreated = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "civicwatch_issues_created_total",
			Help: "Total issues created",
		},
		[]string{"category"},
	)

	// report submissions rejected before persistence, per reason
	ReportsRejected = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "civicwatch_reports_rejected_total",
			Help: "Total report submissions rejected",
		},
		[]string{"reason"},
	)

	// spam flags recorded
	SpamFlags = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "civicwatch_spam_flags_total",
			Help: "Total spam flags recorded",
		},
	)

	// issues latched to escalated by the sweep
	IssuesEscalated = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "civicwatch_issues_escalated_total",
			Help: "Total issues escalated",
		},
	)
)

func init() {
	prometheus.MustRegister(IssuesCreated, ReportsRejected, SpamFlags, IssuesEscalated)
}

// MetricsHandler exposes the prometheus registry on a gin route.
func MetricsHandler() gin.HandlerFunc {
	return gin.WrapH(promhttp.Handler())
}
