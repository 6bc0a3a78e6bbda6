package main

import (
	"log"
	"os"
	"strconv"
	"time"

	"civicwatch/config"
	"civicwatch/controllers"
	"civicwatch/middlewares"
	"civicwatch/observability"
	"civicwatch/repository"
	"civicwatch/routes"
	"civicwatch/scheduler"
	"civicwatch/services"
	"civicwatch/storage"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	logger, err := config.InitLogger()
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	db, err := config.ConnectDB()
	if err != nil {
		logger.Fatal("failed to connect to MongoDB", zap.Error(err))
	}
	logger.Info("MongoDB connection established")

	limiter := gin.HandlerFunc(func(c *gin.Context) { c.Next() })
	if os.Getenv("REDIS_ADDRESS") != "" {
		if err := config.ConnectRedis(); err != nil {
			logger.Fatal("failed to connect to Redis", zap.Error(err))
		}
		logger.Info("Redis connection established")
		limiter = middlewares.ReportRateLimiter("report_limit", reportRateLimit(), time.Hour)
	} else {
		logger.Warn("REDIS_ADDRESS not set, report rate limiting disabled")
	}

	uploadDir := os.Getenv("UPLOAD_DIR")
	if uploadDir == "" {
		uploadDir = "static/uploads"
	}
	media, err := storage.NewMediaStore(uploadDir)
	if err != nil {
		logger.Fatal("failed to initialize media store", zap.Error(err))
	}

	repo := repository.NewMongoIssueRepository(db.Collection("issues"))
	service := services.NewIssueService(repo, media, logger)

	sched := scheduler.NewEscalationScheduler(service, logger)
	if err := sched.Start(); err != nil {
		logger.Fatal("failed to start escalation scheduler", zap.Error(err))
	}
	defer sched.Stop()

	r := gin.Default()
	r.Static("/uploads", media.Dir())
	r.GET("/metrics", observability.MetricsHandler())

	routes.IssueRoutes(r, controllers.NewIssueController(service, logger), limiter)
	routes.AdminRoutes(r, controllers.NewAdminController(service, logger))

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	if err := r.Run(":" + port); err != nil {
		logger.Fatal("failed to start server", zap.Error(err))
	}
}

// reportRateLimit reads the per-IP hourly cap for report/spam submissions.
func reportRateLimit() int {
	if raw := os.Getenv("REPORT_RATE_LIMIT"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			return n
		}
	}
	return 20
}
