package model

// NotificationRecipient 通知接收人关联
// 同一个接收人对同一条通知只能出现一次
type NotificationRecipient struct {
	Base
	NotificationID uint `gorm:"not null;uniqueIndex:notification_recipient_idx" json:"notification_id"`
	RecipientID    uint `gorm:"not null;uniqueIndex:notification_recipient_idx;index" json:"recipient_id"`
}

// TableName 指定表名
func (NotificationRecipient) TableName() string {
	return "notification_recipient"
}
