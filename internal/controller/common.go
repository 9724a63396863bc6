package controller

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/nsxzhou1114/notification-api/internal/middleware"
	"github.com/nsxzhou1114/notification-api/internal/repository"
	"github.com/nsxzhou1114/notification-api/internal/service"
	"github.com/nsxzhou1114/notification-api/pkg/response"
)

// getViewer 从请求上下文构造查询视角
func getViewer(c *gin.Context) repository.Viewer {
	return repository.Viewer{
		ID:      middleware.GetUserID(c),
		IsAdmin: middleware.IsAdmin(c),
	}
}

// parseIDParam 解析路径中的通知ID
func parseIDParam(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil || id == 0 {
		response.BadRequest(c, "无效的通知ID", err)
		return 0, false
	}
	return uint(id), true
}

// handleServiceError 将业务错误映射为HTTP响应
func handleServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, repository.ErrInvalidOrdering):
		response.BadRequest(c, "排序参数错误", err)
	case errors.Is(err, service.ErrNotFound):
		response.NotFound(c, "资源不存在", err)
	case errors.Is(err, service.ErrPermissionDenied):
		response.Forbidden(c, "没有操作权限", err)
	default:
		response.InternalServerError(c, "服务器内部错误", err)
	}
}
