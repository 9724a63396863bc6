package service

import (
	"sync"
	"time"

	"github.com/nsxzhou1114/notification-api/internal/config"
	"github.com/nsxzhou1114/notification-api/internal/database"
	"github.com/nsxzhou1114/notification-api/internal/logger"
	"github.com/nsxzhou1114/notification-api/internal/repository"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

var (
	cleanupService     *CleanupService
	cleanupServiceOnce sync.Once
)

// CleanupService 过期通知清理任务
// 只清理所有接收人都已软删除且超过保留期的通知，retention_days为0时不启动
type CleanupService struct {
	repo   *repository.NotificationRepository
	cron   *cron.Cron
	logger *zap.Logger
}

// GetCleanupService 获取清理服务单例
func GetCleanupService() *CleanupService {
	cleanupServiceOnce.Do(func() {
		cleanupService = &CleanupService{
			repo:   repository.NewNotificationRepository(database.GetDB()),
			cron:   cron.New(cron.WithSeconds()),
			logger: logger.GetLogger(),
		}
	})
	return cleanupService
}

// Start 启动定时清理任务
func (s *CleanupService) Start() error {
	cfg := config.GetConfig().Notification
	if cfg.RetentionDays <= 0 {
		s.logger.Info("通知保留期未配置，跳过清理任务")
		return nil
	}

	_, err := s.cron.AddFunc(cfg.RetentionCron, s.run)
	if err != nil {
		return err
	}

	s.cron.Start()
	s.logger.Info("通知清理任务已启动",
		zap.Int("retention_days", cfg.RetentionDays),
		zap.String("cron", cfg.RetentionCron),
	)
	return nil
}

// Stop 停止定时清理任务
func (s *CleanupService) Stop() {
	s.cron.Stop()
}

// run 执行一次清理
func (s *CleanupService) run() {
	cfg := config.GetConfig().Notification
	cutoff := time.Now().AddDate(0, 0, -cfg.RetentionDays)

	count, err := s.repo.PurgeExpired(cutoff)
	if err != nil {
		s.logger.Error("清理过期通知失败", zap.Error(err))
		return
	}
	if count > 0 {
		s.logger.Info("清理过期通知完成", zap.Int64("count", count))
	}
}
