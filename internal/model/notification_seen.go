package model

import (
	"time"

	"gorm.io/gorm"
)

// NotificationSeen 通知查看记录，只追加不修改
type NotificationSeen struct {
	Base
	NotificationID uint      `gorm:"not null;uniqueIndex:notification_seen_idx" json:"notification_id"`
	UserID         uint      `gorm:"not null;uniqueIndex:notification_seen_idx;index" json:"user_id"`
	SeenAt         time.Time `gorm:"not null;index" json:"seen_at"`
}

// TableName 指定表名
func (NotificationSeen) TableName() string {
	return "notification_seen"
}

// BeforeCreate 创建前填充查看时间
func (s *NotificationSeen) BeforeCreate(tx *gorm.DB) error {
	if s.SeenAt.IsZero() {
		s.SeenAt = time.Now()
	}
	return nil
}
