package controller

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/nsxzhou1114/notification-api/internal/middleware"
	"github.com/nsxzhou1114/notification-api/internal/repository"
	"github.com/nsxzhou1114/notification-api/internal/service"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// newMockService 基于sqlmock构造通知服务，供控制器测试使用
func newMockService(t *testing.T) (*service.NotificationService, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      sqlDB,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	repo := repository.NewNotificationRepository(db)
	return service.NewNotificationService(repo, nil, zap.NewNop()), mock
}

// withRole 在上下文中注入已认证的用户身份
func withRole(userID uint, role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.ContextUserIDKey, userID)
		c.Set(middleware.ContextUserRoleKey, role)
	}
}
