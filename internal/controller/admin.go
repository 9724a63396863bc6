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

// AdminController 通知管理端接口
// 增、改、删分别受admin_has_add/change/delete_permission配置控制
type AdminController struct {
	service *service.NotificationService
	logger  *zap.Logger
}

// NewAdminController 创建管理端控制器
func NewAdminController() *AdminController {
	return &AdminController{
		service: service.GetNotificationService(),
		logger:  logger.GetLogger(),
	}
}

// List 全部通知列表
func (ctrl *AdminController) List(c *gin.Context) {
	var req dto.NotificationListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, "查询参数错误", err)
		return
	}

	views, params, total, err := ctrl.service.AdminList(&req)
	if err != nil {
		ctrl.logger.Error("查询通知列表失败", zap.Error(err))
		handleServiceError(c, err)
		return
	}
	response.SuccessPage(c, "查询成功", views, params.Limit, params.Offset, total)
}

// Unsent 未发送通知列表
func (ctrl *AdminController) Unsent(c *gin.Context) {
	var req dto.NotificationListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, "查询参数错误", err)
		return
	}

	views, params, total, err := ctrl.service.AdminUnsent(&req)
	if err != nil {
		ctrl.logger.Error("查询未发送通知列表失败", zap.Error(err))
		handleServiceError(c, err)
		return
	}
	response.SuccessPage(c, "查询成功", views, params.Limit, params.Offset, total)
}

// Create 创建通知
func (ctrl *AdminController) Create(c *gin.Context) {
	if !config.GetConfig().Notification.AdminHasAddPermission {
		response.Forbidden(c, "创建通知未启用", nil)
		return
	}

	var req dto.NotificationCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "请求参数错误", err)
		return
	}

	view, err := ctrl.service.Create(&req)
	if err != nil {
		ctrl.logger.Error("创建通知失败", zap.Error(err))
		handleServiceError(c, err)
		return
	}
	response.Success(c, "创建成功", view)
}

// Update 更新通知状态字段
func (ctrl *AdminController) Update(c *gin.Context) {
	if !config.GetConfig().Notification.AdminHasChangePermission {
		response.Forbidden(c, "修改通知未启用", nil)
		return
	}

	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req dto.NotificationUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "请求参数错误", err)
		return
	}

	view, err := ctrl.service.Update(id, &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.Success(c, "更新成功", view)
}

// Delete 物理删除通知
func (ctrl *AdminController) Delete(c *gin.Context) {
	if !config.GetConfig().Notification.AdminHasDeletePermission {
		response.Forbidden(c, "删除通知未启用", nil)
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

// MarkAsSent 批量标记通知为已发送
func (ctrl *AdminController) MarkAsSent(c *gin.Context) {
	var req dto.MarkAsSentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "请求参数错误", err)
		return
	}

	count, err := ctrl.service.MarkAsSent(&req)
	if err != nil {
		ctrl.logger.Error("批量标记已发送失败", zap.Error(err))
		handleServiceError(c, err)
		return
	}
	response.Success(c, "标记成功", gin.H{"updated": count})
}

// Deleted 软删除审计记录列表
// 搜索词为数字时按通知ID匹配，否则按用户名模糊匹配
func (ctrl *AdminController) Deleted(c *gin.Context) {
	var req dto.DeletedListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, "查询参数错误", err)
		return
	}

	records, params, total, err := ctrl.service.DeletedList(&req)
	if err != nil {
		ctrl.logger.Error("查询软删除记录失败", zap.Error(err))
		handleServiceError(c, err)
		return
	}
	response.SuccessPage(c, "查询成功", records, params.Limit, params.Offset, total)
}

// Stats 通知统计
func (ctrl *AdminController) Stats(c *gin.Context) {
	stats, err := ctrl.service.Stats(c.Request.Context())
	if err != nil {
		ctrl.logger.Error("统计通知失败", zap.Error(err))
		handleServiceError(c, err)
		return
	}
	response.Success(c, "查询成功", stats)
}
