package repository

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrInvalidOrdering 排序参数不合法，应映射为客户端错误
var ErrInvalidOrdering = errors.New("不支持的排序字段")

// Viewer 查询视角，管理员可见全部通知
type Viewer struct {
	ID      uint
	IsAdmin bool
}

// QueryOptions 通知列表查询选项
type QueryOptions struct {
	Status        string
	Public        *bool
	RecipientID   uint
	GroupID       uint
	TimestampFrom *time.Time
	TimestampTo   *time.Time
	Search        string
	SearchFields  []string
	Ordering      string
	OrderingFields []string
	Limit         int
	Offset        int
}

// 字段名到数据库列名的映射，排序白名单之外的字段一律拒绝
var orderingColumns = map[string]string{
	"id":        "id",
	"timestamp": "timestamp",
	"public":    "public",
	"status":    "status",
	"is_sent":   "is_sent",
}

// BuildOrdering 将ordering参数转换为ORDER BY子句
// 参数形如 "-timestamp,id"，前缀"-"表示倒序；字段不在白名单内时返回错误
func BuildOrdering(param string, allowed []string) (string, error) {
	if param == "" {
		return "timestamp DESC", nil
	}

	allowedSet := make(map[string]struct{}, len(allowed))
	for _, field := range allowed {
		allowedSet[field] = struct{}{}
	}

	parts := strings.Split(param, ",")
	clauses := make([]string, 0, len(parts))
	for _, part := range parts {
		field := strings.TrimSpace(part)
		direction := "ASC"
		if strings.HasPrefix(field, "-") {
			field = strings.TrimPrefix(field, "-")
			direction = "DESC"
		}
		if _, ok := allowedSet[field]; !ok {
			return "", fmt.Errorf("%w: %s", ErrInvalidOrdering, field)
		}
		column, ok := orderingColumns[field]
		if !ok {
			return "", fmt.Errorf("%w: %s", ErrInvalidOrdering, field)
		}
		clauses = append(clauses, column+" "+direction)
	}

	return strings.Join(clauses, ", "), nil
}
