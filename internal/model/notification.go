package model

import (
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/gorm"
)

// 通知状态
const (
	StatusInfo           = "INFO"
	StatusSuccess        = "SUCCESS"
	StatusWarning        = "WARNING"
	StatusError          = "ERROR"
	StatusCritical       = "CRITICAL"
	StatusSensitive      = "SENSITIVE"
	StatusInfrastructure = "INFRASTRUCTURE"
)

// NotificationStatuses 所有合法的通知状态
var NotificationStatuses = []string{
	StatusInfo,
	StatusSuccess,
	StatusWarning,
	StatusError,
	StatusCritical,
	StatusSensitive,
	StatusInfrastructure,
}

// Notification 通知模型
// actor/target/action_object通过(类型, ID)两列引用任意业务对象
type Notification struct {
	Base
	Verb             string          `gorm:"type:varchar(127);not null" json:"verb"`
	Description      *string         `gorm:"type:varchar(512)" json:"description"`
	Status           string          `gorm:"type:varchar(15);not null;default:'INFO';index" json:"status"`
	ActorType        string          `gorm:"type:varchar(100);not null" json:"actor_type"`
	ActorID          uint            `gorm:"not null" json:"actor_id"`
	TargetType       *string         `gorm:"type:varchar(100)" json:"target_type"`
	TargetID         *uint           `json:"target_id"`
	ActionObjectType *string         `gorm:"type:varchar(100)" json:"action_object_type"`
	ActionObjectID   *uint           `json:"action_object_id"`
	Link             *string         `gorm:"type:varchar(255)" json:"link"`
	IsSent           bool            `gorm:"not null;default:false;index" json:"is_sent"`
	Public           bool            `gorm:"not null;default:true" json:"public"`
	Data             json.RawMessage `gorm:"type:json" json:"data"`
	Timestamp        time.Time       `gorm:"not null;index;<-:create" json:"timestamp"`
}

// TableName 指定表名
func (Notification) TableName() string {
	return "notification"
}

// BeforeCreate 创建前填充时间戳和描述
func (n *Notification) BeforeCreate(tx *gorm.DB) error {
	if n.Timestamp.IsZero() {
		n.Timestamp = time.Now()
	}
	if n.Description == nil || *n.Description == "" {
		description := n.GenerateDescription()
		n.Description = &description
	}
	return nil
}

// GenerateDescription 根据actor、verb、target和action_object生成描述
func (n *Notification) GenerateDescription() string {
	actor := fmt.Sprintf("%s(%d)", n.ActorType, n.ActorID)

	if n.TargetType != nil && n.TargetID != nil {
		target := fmt.Sprintf("%s(%d)", *n.TargetType, *n.TargetID)
		if n.ActionObjectType != nil && n.ActionObjectID != nil {
			actionObject := fmt.Sprintf("%s(%d)", *n.ActionObjectType, *n.ActionObjectID)
			return fmt.Sprintf("%s %s %s on %s", actor, n.Verb, actionObject, target)
		}
		return fmt.Sprintf("%s %s %s", actor, n.Verb, target)
	}
	if n.ActionObjectType != nil && n.ActionObjectID != nil {
		actionObject := fmt.Sprintf("%s(%d)", *n.ActionObjectType, *n.ActionObjectID)
		return fmt.Sprintf("%s %s %s", actor, n.Verb, actionObject)
	}
	return fmt.Sprintf("%s %s", actor, n.Verb)
}

// DescriptionText 获取描述文本，描述为空时回退到生成的描述
func (n *Notification) DescriptionText() string {
	if n.Description != nil && *n.Description != "" {
		return *n.Description
	}
	return n.GenerateDescription()
}
