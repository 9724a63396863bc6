package middleware

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/nsxzhou1114/notification-api/internal/config"
	"github.com/nsxzhou1114/notification-api/internal/database"
	"github.com/nsxzhou1114/notification-api/internal/logger"
	"github.com/nsxzhou1114/notification-api/internal/model"
	"github.com/nsxzhou1114/notification-api/pkg/response"
	"go.uber.org/zap"
)

// ParseRate 解析限流速率配置，格式为"次数/周期"，如"30/minute"
func ParseRate(rate string) (int, time.Duration, error) {
	parts := strings.SplitN(rate, "/", 2)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("限流速率格式错误: %s", rate)
	}

	count, err := strconv.Atoi(parts[0])
	if err != nil || count <= 0 {
		return 0, 0, fmt.Errorf("限流速率格式错误: %s", rate)
	}

	var window time.Duration
	switch parts[1] {
	case "second":
		window = time.Second
	case "minute":
		window = time.Minute
	case "hour":
		window = time.Hour
	case "day":
		window = 24 * time.Hour
	default:
		return 0, 0, fmt.Errorf("不支持的限流周期: %s", parts[1])
	}
	return count, window, nil
}

// Throttle 基于Redis固定窗口的限流中间件
// 管理员与普通用户使用各自的速率配置，必须在JWTAuth之后使用
func Throttle(scope string) gin.HandlerFunc {
	return func(c *gin.Context) {
		cfg := config.GetConfig().Notification

		rate := cfg.AuthenticatedUserThrottleRate
		if GetUserRole(c) == model.RoleAdmin {
			rate = cfg.StaffUserThrottleRate
		}

		limit, window, err := ParseRate(rate)
		if err != nil {
			// 配置在启动时已校验过，这里只做兜底
			logger.Error("限流速率配置无效", zap.String("rate", rate), zap.Error(err))
			c.Next()
			return
		}

		windowID := time.Now().Unix() / int64(window.Seconds())
		key := fmt.Sprintf("throttle:%s:%d:%d", scope, GetUserID(c), windowID)

		rdb := database.GetRedis()
		count, err := rdb.Incr(c.Request.Context(), key).Result()
		if err != nil {
			// Redis不可用时放行，限流降级不影响业务
			logger.Error("限流计数失败", zap.Error(err))
			c.Next()
			return
		}
		if count == 1 {
			rdb.Expire(c.Request.Context(), key, window)
		}

		if count > int64(limit) {
			response.TooManyRequests(c, "请求过于频繁，请稍后再试", nil)
			c.Abort()
			return
		}
		c.Next()
	}
}
