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

// ActivityController 已读通知（动态）接口
type ActivityController struct {
	service *service.NotificationService
	logger  *zap.Logger
}

// NewActivityController 创建动态控制器
func NewActivityController() *ActivityController {
	return &ActivityController{
		service: service.GetNotificationService(),
		logger:  logger.GetLogger(),
	}
}

// List 已读通知列表
func (ctrl *ActivityController) List(c *gin.Context) {
	if !config.GetConfig().Notification.AllowList {
		response.MethodNotAllowed(c, "列表接口未启用", nil)
		return
	}

	var req dto.NotificationListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, "查询参数错误", err)
		return
	}

	views, params, total, err := ctrl.service.ListSeen(getViewer(c), &req)
	if err != nil {
		ctrl.logger.Error("查询已读通知列表失败", zap.Error(err))
		handleServiceError(c, err)
		return
	}
	response.SuccessPage(c, "查询成功", views, params.Limit, params.Offset, total)
}

// Retrieve 查看单条已读通知
func (ctrl *ActivityController) Retrieve(c *gin.Context) {
	if !config.GetConfig().Notification.AllowRetrieve {
		response.MethodNotAllowed(c, "详情接口未启用", nil)
		return
	}

	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	view, err := ctrl.service.RetrieveSeen(getViewer(c), id)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.Success(c, "查询成功", view)
}

// ClearAll 软删除全部已读通知
func (ctrl *ActivityController) ClearAll(c *gin.Context) {
	if !config.GetConfig().Notification.IncludeSoftDelete {
		response.MethodNotAllowed(c, "清除接口未启用", nil)
		return
	}

	if err := ctrl.service.ClearAll(getViewer(c)); err != nil {
		ctrl.logger.Error("清除通知失败", zap.Error(err))
		handleServiceError(c, err)
		return
	}
	response.NoContent(c)
}

// ClearOne 软删除单条通知
func (ctrl *ActivityController) ClearOne(c *gin.Context) {
	if !config.GetConfig().Notification.IncludeSoftDelete {
		response.MethodNotAllowed(c, "清除接口未启用", nil)
		return
	}

	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	if err := ctrl.service.ClearOne(getViewer(c), id); err != nil {
		handleServiceError(c, err)
		return
	}
	response.NoContent(c)
}

// DeleteAll 物理删除全部已读通知，仅限管理员
func (ctrl *ActivityController) DeleteAll(c *gin.Context) {
	if !config.GetConfig().Notification.IncludeHardDelete {
		response.MethodNotAllowed(c, "删除接口未启用", nil)
		return
	}

	if err := ctrl.service.DeleteAll(getViewer(c)); err != nil {
		handleServiceError(c, err)
		return
	}
	response.NoContent(c)
}

// DeleteOne 物理删除单条通知，仅限管理员
func (ctrl *ActivityController) DeleteOne(c *gin.Context) {
	if !config.GetConfig().Notification.IncludeHardDelete {
		response.MethodNotAllowed(c, "删除接口未启用", nil)
		return
	}

	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	if err := ctrl.service.DeleteOne(getViewer(c), id); err != nil {
		handleServiceError(c, err)
		return
	}
	response.NoContent(c)
}
