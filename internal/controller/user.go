package controller

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/nsxzhou1114/notification-api/internal/dto"
	"github.com/nsxzhou1114/notification-api/internal/logger"
	"github.com/nsxzhou1114/notification-api/internal/middleware"
	"github.com/nsxzhou1114/notification-api/internal/service"
	"github.com/nsxzhou1114/notification-api/pkg/response"
	"go.uber.org/zap"
)

// UserController 用户接口
type UserController struct {
	service *service.UserService
	logger  *zap.Logger
}

// NewUserController 创建用户控制器
func NewUserController() *UserController {
	return &UserController{
		service: service.GetUserService(),
		logger:  logger.GetLogger(),
	}
}

// Register 用户注册
func (ctrl *UserController) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "请求参数错误", err)
		return
	}

	user, err := ctrl.service.Register(&req)
	if err != nil {
		if errors.Is(err, service.ErrUserExists) {
			response.BadRequest(c, "用户名已存在", err)
			return
		}
		ctrl.logger.Error("用户注册失败", zap.Error(err))
		response.InternalServerError(c, "服务器内部错误", err)
		return
	}
	response.Success(c, "注册成功", user)
}

// Login 用户登录
func (ctrl *UserController) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "请求参数错误", err)
		return
	}

	result, err := ctrl.service.Login(&req)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			response.Unauthorized(c, "用户名或密码错误", err)
			return
		}
		ctrl.logger.Error("用户登录失败", zap.Error(err))
		response.InternalServerError(c, "服务器内部错误", err)
		return
	}
	response.Success(c, "登录成功", result)
}

// Me 当前用户信息
func (ctrl *UserController) Me(c *gin.Context) {
	user, err := ctrl.service.GetByID(middleware.GetUserID(c))
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.Success(c, "查询成功", user)
}
