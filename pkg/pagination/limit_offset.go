package pagination

import "strconv"

// Bounds 分页边界配置
type Bounds struct {
	DefaultLimit int
	MinLimit     int
	MaxLimit     int
}

// Params 解析后的分页参数
type Params struct {
	Limit  int
	Offset int
}

// Parse 解析limit/offset查询参数并限制在配置的边界内
// limit小于最小值或非法时回退到默认值，大于最大值时被截断到最大值
func Parse(limitStr, offsetStr string, bounds Bounds) Params {
	params := Params{Limit: bounds.DefaultLimit}

	if limitStr != "" {
		if limit, err := strconv.Atoi(limitStr); err == nil {
			switch {
			case limit < bounds.MinLimit:
				params.Limit = bounds.DefaultLimit
			case limit > bounds.MaxLimit:
				params.Limit = bounds.MaxLimit
			default:
				params.Limit = limit
			}
		}
	}

	if offsetStr != "" {
		if offset, err := strconv.Atoi(offsetStr); err == nil && offset > 0 {
			params.Offset = offset
		}
	}

	return params
}
