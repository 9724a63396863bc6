package cmd

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/nsxzhou1114/notification-api/internal/config"
	"github.com/nsxzhou1114/notification-api/internal/database"
	"github.com/nsxzhou1114/notification-api/internal/logger"
	"github.com/nsxzhou1114/notification-api/internal/router"
	"github.com/nsxzhou1114/notification-api/internal/service"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "notification-api",
	Short: "通知服务",
	Long:  "提供通知的接收、查看、清除与管理接口",
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "启动HTTP服务",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe()
	},
}

// Execute 执行根命令
func Execute() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", ".", "配置文件目录")
	rootCmd.AddCommand(serveCmd, migrateCmd, createAdminCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// setup 初始化配置和日志
func setup() error {
	if err := config.Init(configPath); err != nil {
		return err
	}
	return logger.Init()
}

func runServe() error {
	if err := setup(); err != nil {
		return err
	}
	defer logger.Sync()

	// 预热数据库和Redis连接
	database.GetDB()
	database.GetRedis()

	cleanup := service.GetCleanupService()
	if err := cleanup.Start(); err != nil {
		return fmt.Errorf("启动清理任务失败: %v", err)
	}
	defer cleanup.Stop()

	cfg := config.GetConfig()
	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.App.Port),
		Handler: router.Setup(),
	}

	go func() {
		logger.Info("服务启动", zap.Int("port", cfg.App.Port))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("服务启动失败", zap.Error(err))
		}
	}()

	// 等待退出信号，优雅关闭
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("正在关闭服务...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Error("服务关闭失败", zap.Error(err))
		return err
	}

	logger.Info("服务已退出")
	return nil
}
