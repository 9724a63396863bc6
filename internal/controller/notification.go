package controller

import (
	"github.com/gin-gonic/gin"
	"github.com/nsxzhou1114/notification-api/internal/config"
	"github.com/nsxzhou1114/notification-api/internal/dto"
	"github.com/nsxzhou1114/notification-api/internal/logger"
	"github.com/nsxzhou1114/notification-api/internal/service"
	"github.com/nsxzhou1114/notification-api/pkg/response"
	"go.uber.org/zap"
)

// NotificationController 未读通知接口
type NotificationController struct {
	service *service.NotificationService
	logger  *zap.Logger
}

// NewNotificationController 创建未读通知控制器
func NewNotificationController() *NotificationController {
	return &NotificationController{
		service: service.GetNotificationService(),
		logger:  logger.GetLogger(),
	}
}

// List 未读通知列表
func (ctrl *NotificationController) List(c *gin.Context) {
	if !config.GetConfig().Notification.AllowList {
		response.MethodNotAllowed(c, "列表接口未启用", nil)
		return
	}

	var req dto.NotificationListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, "查询参数错误", err)
		return
	}

	views, params, total, err := ctrl.service.ListUnseen(getViewer(c), &req)
	if err != nil {
		ctrl.logger.Error("查询未读通知列表失败", zap.Error(err))
		handleServiceError(c, err)
		return
	}
	response.SuccessPage(c, "查询成功", views, params.Limit, params.Offset, total)
}

// Retrieve 查看单条未读通知，同时标记为已读
func (ctrl *NotificationController) Retrieve(c *gin.Context) {
	if !config.GetConfig().Notification.AllowRetrieve {
		response.MethodNotAllowed(c, "详情接口未启用", nil)
		return
	}

	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	view, err := ctrl.service.RetrieveUnseen(c.Request.Context(), getViewer(c), id)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.Success(c, "查询成功", view)
}

// MarkAllAsSeen 标记全部未读通知为已读
func (ctrl *NotificationController) MarkAllAsSeen(c *gin.Context) {
	count, err := ctrl.service.MarkAllAsSeen(c.Request.Context(), getViewer(c))
	if err != nil {
		ctrl.logger.Error("标记全部已读失败", zap.Error(err))
		handleServiceError(c, err)
		return
	}
	response.Success(c, "标记成功", gin.H{"marked": count})
}

// UnseenCount 未读通知数量
func (ctrl *NotificationController) UnseenCount(c *gin.Context) {
	count, err := ctrl.service.UnseenCount(c.Request.Context(), getViewer(c))
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.Success(c, "查询成功", gin.H{"count": count})
}
