package serialization

import (
	"time"

	"github.com/dustin/go-humanize"
)

// FilterNonEmptyFields 过滤掉空字段和指定的排除字段
// nil、空字符串、空切片、空map都视为空值
func FilterNonEmptyFields(data map[string]any, excludeFields ...string) map[string]any {
	excluded := make(map[string]struct{}, len(excludeFields))
	for _, field := range excludeFields {
		excluded[field] = struct{}{}
	}

	result := make(map[string]any, len(data))
	for name, value := range data {
		if _, ok := excluded[name]; ok {
			continue
		}
		if isEmpty(value) {
			continue
		}
		result[name] = value
	}
	return result
}

// isEmpty 判断字段值是否为空
func isEmpty(value any) bool {
	switch v := value.(type) {
	case nil:
		return true
	case string:
		return v == ""
	case []any:
		return len(v) == 0
	case map[string]any:
		return len(v) == 0
	}
	return false
}

// GenerateTitle 根据描述和时间戳生成通知标题
// 标题格式为“描述 + 相对时间”，例如 "xxx liked your post 3 minutes ago"
func GenerateTitle(description string, timestamp time.Time) string {
	if description == "" {
		return ""
	}
	if timestamp.IsZero() {
		return description
	}
	return description + " " + humanize.Time(timestamp)
}
