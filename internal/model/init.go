package model

import (
	"fmt"

	"gorm.io/gorm"
)

// 需要自动迁移的模型列表
var models = []interface{}{
	&User{},
	&Group{},
	&UserGroup{},
	&Notification{},
	&NotificationRecipient{},
	&NotificationGroup{},
	&NotificationSeen{},
	&DeletedNotification{},
}

// InitTables 初始化数据库表
func InitTables(db *gorm.DB) error {
	err := db.AutoMigrate(models...)
	if err != nil {
		return fmt.Errorf("自动迁移数据库表失败: %v", err)
	}
	return nil
}
