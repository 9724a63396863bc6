package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/nsxzhou1114/notification-api/internal/model"
	"github.com/nsxzhou1114/notification-api/pkg/auth"
	"github.com/nsxzhou1114/notification-api/pkg/response"
)

const (
	// ContextUserIDKey 上下文中的用户ID键
	ContextUserIDKey = "user_id"
	// ContextUserRoleKey 上下文中的用户角色键
	ContextUserRoleKey = "user_role"
)

// JWTAuth JWT认证中间件
func JWTAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.Unauthorized(c, "请先登录", nil)
			c.Abort()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			response.Unauthorized(c, "认证格式错误", nil)
			c.Abort()
			return
		}

		claims, err := auth.ParseToken(parts[1])
		if err != nil {
			response.Unauthorized(c, "token无效或已过期", err)
			c.Abort()
			return
		}

		c.Set(ContextUserIDKey, claims.UserID)
		c.Set(ContextUserRoleKey, claims.Role)
		c.Next()
	}
}

// AdminAuth 管理员权限中间件，必须在JWTAuth之后使用
func AdminAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if GetUserRole(c) != model.RoleAdmin {
			response.Forbidden(c, "需要管理员权限", nil)
			c.Abort()
			return
		}
		c.Next()
	}
}

// GetUserID 从上下文获取当前用户ID
func GetUserID(c *gin.Context) uint {
	value, exists := c.Get(ContextUserIDKey)
	if !exists {
		return 0
	}
	userID, ok := value.(uint)
	if !ok {
		return 0
	}
	return userID
}

// GetUserRole 从上下文获取当前用户角色
func GetUserRole(c *gin.Context) string {
	value, exists := c.Get(ContextUserRoleKey)
	if !exists {
		return ""
	}
	role, ok := value.(string)
	if !ok {
		return ""
	}
	return role
}

// IsAdmin 判断当前用户是否为管理员
func IsAdmin(c *gin.Context) bool {
	return GetUserRole(c) == model.RoleAdmin
}
