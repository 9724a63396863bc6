package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func validConfig() *Config {
	return &Config{
		Notification: NotificationConfig{
			APIPrefix:                     "/api",
			AuthenticatedUserThrottleRate: "30/minute",
			StaffUserThrottleRate:         "100/minute",
			OrderingFields:                []string{"id", "timestamp", "public"},
			SearchFields:                  []string{"verb", "description"},
			Pagination:                    PaginationConfig{DefaultLimit: 10, MinLimit: 1, MaxLimit: 100},
			AdminListPerPage:              10,
		},
	}
}

func TestValidateAccepts(t *testing.T) {
	assert.NoError(t, Validate(validConfig()))
}

func TestValidateRejectsBadThrottleRate(t *testing.T) {
	tests := []string{"", "30", "30/week", "minute/30", "abc/minute"}
	for _, rate := range tests {
		cfg := validConfig()
		cfg.Notification.AuthenticatedUserThrottleRate = rate
		assert.Error(t, Validate(cfg), "rate=%q", rate)
	}
}

func TestValidateRejectsBadPagination(t *testing.T) {
	cfg := validConfig()
	cfg.Notification.Pagination.MinLimit = 50
	cfg.Notification.Pagination.MaxLimit = 10
	assert.Error(t, Validate(cfg))

	cfg = validConfig()
	cfg.Notification.Pagination.DefaultLimit = 1000
	assert.Error(t, Validate(cfg))

	cfg = validConfig()
	cfg.Notification.Pagination.DefaultLimit = 0
	assert.Error(t, Validate(cfg))
}

func TestValidateRejectsUnknownFields(t *testing.T) {
	cfg := validConfig()
	cfg.Notification.OrderingFields = []string{"password"}
	assert.Error(t, Validate(cfg))

	cfg = validConfig()
	cfg.Notification.SearchFields = []string{"data"}
	assert.Error(t, Validate(cfg))
}

func TestValidateRejectsBadPrefix(t *testing.T) {
	cfg := validConfig()
	cfg.Notification.APIPrefix = "api"
	assert.Error(t, Validate(cfg))
}
