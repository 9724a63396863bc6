package router

import (
	"github.com/gin-gonic/gin"
	"github.com/nsxzhou1114/notification-api/internal/config"
	"github.com/nsxzhou1114/notification-api/internal/controller"
	"github.com/nsxzhou1114/notification-api/internal/logger"
	"github.com/nsxzhou1114/notification-api/internal/middleware"
	"github.com/nsxzhou1114/notification-api/pkg/response"
)

// Setup 初始化路由
func Setup() *gin.Engine {
	cfg := config.GetConfig()
	gin.SetMode(cfg.App.Mode)

	r := gin.New()
	r.Use(logger.GinLogger(), gin.Recovery())

	r.NoRoute(func(c *gin.Context) {
		response.NotFound(c, "接口不存在", nil)
	})

	userController := controller.NewUserController()
	notificationController := controller.NewNotificationController()
	activityController := controller.NewActivityController()
	adminController := controller.NewAdminController()

	api := r.Group(cfg.Notification.APIPrefix)

	// 认证
	authGroup := api.Group("/auth")
	{
		authGroup.POST("/register", userController.Register)
		authGroup.POST("/login", userController.Login)
		authGroup.GET("/me", middleware.JWTAuth(), userController.Me)
	}

	// 未读通知
	notifications := api.Group("/notifications", middleware.JWTAuth(), middleware.Throttle("notifications"))
	{
		notifications.GET("", notificationController.List)
		notifications.GET("/mark_all_as_seen", notificationController.MarkAllAsSeen)
		notifications.GET("/unseen_count", notificationController.UnseenCount)
		notifications.GET("/:id", notificationController.Retrieve)
	}

	// 已读通知（动态）
	activities := api.Group("/activities", middleware.JWTAuth(), middleware.Throttle("activities"))
	{
		activities.GET("", activityController.List)
		activities.GET("/clear_activities", activityController.ClearAll)
		activities.GET("/delete_activities", activityController.DeleteAll)
		activities.GET("/:id", activityController.Retrieve)
		activities.GET("/:id/clear_notification", activityController.ClearOne)
		activities.GET("/:id/delete_notification", activityController.DeleteOne)
	}

	// 管理端
	admin := api.Group("/admin/notifications", middleware.JWTAuth(), middleware.AdminAuth(), middleware.Throttle("admin"))
	{
		admin.GET("", adminController.List)
		admin.POST("", adminController.Create)
		admin.GET("/unsent", adminController.Unsent)
		admin.GET("/stats", adminController.Stats)
		admin.GET("/deleted", adminController.Deleted)
		admin.POST("/mark_as_sent", adminController.MarkAsSent)
		admin.PATCH("/:id", adminController.Update)
		admin.DELETE("/:id", adminController.Delete)
	}

	return r
}
