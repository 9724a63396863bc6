package model

import (
	"time"

	"gorm.io/gorm"
)

// DeletedNotification 通知软删除标记
// 软删除是针对单个用户的：一条记录只隐藏对应用户视角下的通知，
// 底层通知行不会被移除，硬删除仅限管理员
type DeletedNotification struct {
	Base
	NotificationID uint      `gorm:"not null;uniqueIndex:deleted_notification_user_idx" json:"notification_id"`
	UserID         uint      `gorm:"not null;uniqueIndex:deleted_notification_user_idx;index" json:"user_id"`
	DeletedAt      time.Time `gorm:"not null" json:"deleted_at"`
}

// TableName 指定表名
func (DeletedNotification) TableName() string {
	return "deleted_notifications"
}

// BeforeCreate 创建前填充删除时间
func (d *DeletedNotification) BeforeCreate(tx *gorm.DB) error {
	if d.DeletedAt.IsZero() {
		d.DeletedAt = time.Now()
	}
	return nil
}
