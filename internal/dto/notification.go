package dto

import (
	"encoding/json"
	"time"
)

// NotificationListRequest 通知列表查询请求
type NotificationListRequest struct {
	Limit         string     `form:"limit"`
	Offset        string     `form:"offset"`
	Status        string     `form:"status" binding:"omitempty,oneof=INFO SUCCESS WARNING ERROR CRITICAL SENSITIVE INFRASTRUCTURE"`
	Public        *bool      `form:"public"`
	RecipientID   uint       `form:"recipient_id"`
	GroupID       uint       `form:"group_id"`
	TimestampFrom *time.Time `form:"timestamp_from" time_format:"2006-01-02T15:04:05Z07:00"`
	TimestampTo   *time.Time `form:"timestamp_to" time_format:"2006-01-02T15:04:05Z07:00"`
	Search        string     `form:"search"`
	Ordering      string     `form:"ordering"`
}

// NotificationCreateRequest 创建通知请求（管理端）
type NotificationCreateRequest struct {
	Verb             string          `json:"verb" binding:"required,max=127"`
	Description      *string         `json:"description" binding:"omitempty,max=512"`
	Status           string          `json:"status" binding:"omitempty,oneof=INFO SUCCESS WARNING ERROR CRITICAL SENSITIVE INFRASTRUCTURE"`
	ActorType        string          `json:"actor_type" binding:"required,max=64"`
	ActorID          uint            `json:"actor_id" binding:"required"`
	TargetType       *string         `json:"target_type" binding:"omitempty,max=64"`
	TargetID         *uint           `json:"target_id"`
	ActionObjectType *string         `json:"action_object_type" binding:"omitempty,max=64"`
	ActionObjectID   *uint           `json:"action_object_id"`
	Link             *string         `json:"link" binding:"omitempty,max=255"`
	IsSent           bool            `json:"is_sent"`
	Public           *bool           `json:"public"`
	Data             json.RawMessage `json:"data"`
	RecipientIDs     []uint          `json:"recipient_ids"`
	GroupIDs         []uint          `json:"group_ids"`
}

// NotificationUpdateRequest 更新通知请求（管理端），只允许改状态类字段
type NotificationUpdateRequest struct {
	IsSent *bool           `json:"is_sent"`
	Public *bool           `json:"public"`
	Data   json.RawMessage `json:"data"`
}

// MarkAsSentRequest 批量标记已发送请求（管理端）
type MarkAsSentRequest struct {
	RecipientIDs []uint `json:"recipient_ids"`
	GroupIDs     []uint `json:"group_ids"`
}

// DeletedListRequest 软删除记录查询请求（管理端）
type DeletedListRequest struct {
	Limit  string `form:"limit"`
	Offset string `form:"offset"`
	UserID uint   `form:"user_id"`
	Search string `form:"search"`
}

// UserBrief 关联用户的精简视图
type UserBrief struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
}

// GroupBrief 关联用户组的精简视图
type GroupBrief struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

// NotificationFullResponse 通知完整视图，管理员或开启完整详情时使用
type NotificationFullResponse struct {
	ID               uint            `json:"id"`
	Title            string          `json:"title"`
	Verb             string          `json:"verb"`
	Description      *string         `json:"description"`
	Status           string          `json:"status"`
	ActorType        string          `json:"actor_type"`
	ActorID          uint            `json:"actor_id"`
	TargetType       *string         `json:"target_type"`
	TargetID         *uint           `json:"target_id"`
	ActionObjectType *string         `json:"action_object_type"`
	ActionObjectID   *uint           `json:"action_object_id"`
	Link             *string         `json:"link"`
	IsSent           bool            `json:"is_sent"`
	Public           bool            `json:"public"`
	Data             json.RawMessage `json:"data"`
	Timestamp        time.Time       `json:"timestamp"`
	Recipients       []UserBrief     `json:"recipient"`
	Groups           []GroupBrief    `json:"group"`
	SeenBy           []UserBrief     `json:"seen_by"`
}

// NotificationSimpleResponse 通知精简视图，普通用户默认使用
type NotificationSimpleResponse struct {
	ID          uint      `json:"id"`
	Title       string    `json:"title"`
	Description *string   `json:"description"`
	Status      string    `json:"status"`
	Link        *string   `json:"link"`
	Timestamp   time.Time `json:"timestamp"`
}

// NotificationStatsResponse 通知统计（管理端）
type NotificationStatsResponse struct {
	Total   int64 `json:"total"`
	Sent    int64 `json:"sent"`
	Seen    int64 `json:"seen"`
	Deleted int64 `json:"deleted"`
}
