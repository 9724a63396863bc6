package cmd

import (
	"fmt"

	"github.com/nsxzhou1114/notification-api/internal/database"
	"github.com/nsxzhou1114/notification-api/internal/logger"
	"github.com/nsxzhou1114/notification-api/internal/model"
	"github.com/nsxzhou1114/notification-api/internal/service"
	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "初始化数据库表",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := setup(); err != nil {
			return err
		}
		defer logger.Sync()

		if err := model.InitTables(database.GetDB()); err != nil {
			return err
		}
		logger.Info("数据库表初始化完成")
		return nil
	},
}

var createAdminCmd = &cobra.Command{
	Use:   "createadmin <username> <password>",
	Short: "创建管理员账号",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := setup(); err != nil {
			return err
		}
		defer logger.Sync()

		user, err := service.GetUserService().CreateAdmin(args[0], args[1])
		if err != nil {
			return fmt.Errorf("创建管理员失败: %v", err)
		}
		fmt.Printf("管理员创建成功: %s (ID=%d)\n", user.Username, user.ID)
		return nil
	},
}
