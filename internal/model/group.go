package model

// Group 用户组模型，通知可以按组投递
type Group struct {
	Base
	Name string `gorm:"type:varchar(150);not null;uniqueIndex" json:"name"`
}

// TableName 指定表名
func (Group) TableName() string {
	return "groups"
}

// UserGroup 用户与用户组的关联
type UserGroup struct {
	Base
	UserID  uint `gorm:"not null;uniqueIndex:user_group_idx" json:"user_id"`
	GroupID uint `gorm:"not null;uniqueIndex:user_group_idx;index" json:"group_id"`
}

// TableName 指定表名
func (UserGroup) TableName() string {
	return "user_group"
}

// NotificationGroup 通知与用户组的关联
type NotificationGroup struct {
	Base
	NotificationID uint `gorm:"not null;uniqueIndex:notification_group_idx" json:"notification_id"`
	GroupID        uint `gorm:"not null;uniqueIndex:notification_group_idx;index" json:"group_id"`
}

// TableName 指定表名
func (NotificationGroup) TableName() string {
	return "notification_group"
}
