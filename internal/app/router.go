package app

import (
	"study_tracker/docs"
	"study_tracker/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func registerRoutes(router *gin.Engine, c *controllers) {
	docs.SwaggerInfo.BasePath = "/"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	// 1. 系统接口
	registerSystemRoutes(router, c)

	// 2. 用户与打卡
	registerTrackerRoutes(router, c)

	// 3. 事件入口
	router.POST("/events/reminder", c.reminder.Trigger)
}

func registerSystemRoutes(router *gin.Engine, c *controllers) {
	router.GET("/", c.health.Root)
	router.GET("/health", c.health.HealthCheck)
}

func registerTrackerRoutes(router *gin.Engine, c *controllers) {
	router.POST("/register/:user_id", c.user.Register)
	router.POST("/checkin", c.checkin.Checkin)
	router.GET("/users", c.user.ListUsers)
	router.GET("/summary/:user_id", c.user.GetSummary)
}
