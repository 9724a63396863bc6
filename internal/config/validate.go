package config

import (
	"fmt"
	"regexp"

	"github.com/go-playground/validator/v10"
)

// throttleRatePattern 限流速率格式，如 "30/minute"
var throttleRatePattern = regexp.MustCompile(`^\d+/(second|minute|hour|day)$`)

// validOrderingFields 允许排序的字段白名单
var validOrderingFields = map[string]struct{}{
	"id":        {},
	"timestamp": {},
	"public":    {},
	"status":    {},
	"is_sent":   {},
}

// validSearchFields 允许搜索的字段白名单
var validSearchFields = map[string]struct{}{
	"verb":        {},
	"description": {},
	"link":        {},
	"status":      {},
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// 注册限流速率格式校验
	_ = v.RegisterValidation("throttle_rate", func(fl validator.FieldLevel) bool {
		return throttleRatePattern.MatchString(fl.Field().String())
	})
	return v
}

// notificationRules 通知配置的结构化校验规则
type notificationRules struct {
	APIPrefix                     string `validate:"required,startswith=/"`
	AuthenticatedUserThrottleRate string `validate:"required,throttle_rate"`
	StaffUserThrottleRate         string `validate:"required,throttle_rate"`
	DefaultLimit                  int    `validate:"min=1"`
	MinLimit                      int    `validate:"min=1"`
	MaxLimit                      int    `validate:"min=1"`
	AdminListPerPage              int    `validate:"min=1"`
	RetentionDays                 int    `validate:"min=0"`
}

// Validate 校验配置的合法性，在启动和热加载时调用
func Validate(cfg *Config) error {
	n := cfg.Notification
	rules := notificationRules{
		APIPrefix:                     n.APIPrefix,
		AuthenticatedUserThrottleRate: n.AuthenticatedUserThrottleRate,
		StaffUserThrottleRate:         n.StaffUserThrottleRate,
		DefaultLimit:                  n.Pagination.DefaultLimit,
		MinLimit:                      n.Pagination.MinLimit,
		MaxLimit:                      n.Pagination.MaxLimit,
		AdminListPerPage:              n.AdminListPerPage,
		RetentionDays:                 n.RetentionDays,
	}
	if err := validate.Struct(rules); err != nil {
		return err
	}

	if n.Pagination.MinLimit > n.Pagination.MaxLimit {
		return fmt.Errorf("分页最小值 %d 不能大于最大值 %d", n.Pagination.MinLimit, n.Pagination.MaxLimit)
	}
	if n.Pagination.DefaultLimit < n.Pagination.MinLimit || n.Pagination.DefaultLimit > n.Pagination.MaxLimit {
		return fmt.Errorf("分页默认值 %d 必须在 [%d, %d] 区间内", n.Pagination.DefaultLimit, n.Pagination.MinLimit, n.Pagination.MaxLimit)
	}

	for _, field := range n.OrderingFields {
		if _, ok := validOrderingFields[field]; !ok {
			return fmt.Errorf("不支持的排序字段: %s", field)
		}
	}
	for _, field := range n.SearchFields {
		if _, ok := validSearchFields[field]; !ok {
			return fmt.Errorf("不支持的搜索字段: %s", field)
		}
	}

	return nil
}
