package service

import (
	"testing"
	"time"

	"github.com/nsxzhou1114/notification-api/internal/config"
	"github.com/nsxzhou1114/notification-api/internal/dto"
	"github.com/nsxzhou1114/notification-api/internal/model"
	"github.com/nsxzhou1114/notification-api/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupServiceConfig(t *testing.T, mutate func(*config.NotificationConfig)) {
	t.Helper()
	old := config.GetConfig()

	cfg := &config.Config{
		Notification: config.NotificationConfig{
			IncludeSerializerFullDetails: false,
			ExcludeSerializerNoneFields:  false,
			OrderingFields:               []string{"id", "timestamp", "public"},
			SearchFields:                 []string{"verb", "description"},
			Pagination: config.PaginationConfig{
				DefaultLimit: 10,
				MinLimit:     1,
				MaxLimit:     100,
			},
			AdminListPerPage: 10,
		},
	}
	if mutate != nil {
		mutate(&cfg.Notification)
	}
	config.SetConfig(cfg)
	t.Cleanup(func() { config.SetConfig(old) })
}

func sampleNotification() *model.Notification {
	description := "张三 评论了 你的文章"
	link := "/posts/1"
	notification := &model.Notification{
		Verb:        "评论了",
		Description: &description,
		Status:      model.StatusInfo,
		ActorType:   "user",
		ActorID:     3,
		Link:        &link,
		IsSent:      true,
		Public:      true,
		Timestamp:   time.Now().Add(-time.Hour),
	}
	notification.ID = 42
	return notification
}

func TestSerializeOneSimple(t *testing.T) {
	setupServiceConfig(t, nil)

	view := serializeOne(sampleNotification(), false, nil)
	simple, ok := view.(dto.NotificationSimpleResponse)
	require.True(t, ok)

	assert.Equal(t, uint(42), simple.ID)
	assert.Equal(t, model.StatusInfo, simple.Status)
	// 标题由描述和相对时间组成
	assert.Contains(t, simple.Title, "张三 评论了 你的文章")
	assert.Contains(t, simple.Title, "ago")
}

func TestSerializeOneFull(t *testing.T) {
	setupServiceConfig(t, nil)

	notification := sampleNotification()
	relations := &repository.Relations{
		Recipients: map[uint][]model.User{42: {{Username: "李四"}}},
		Groups:     map[uint][]model.Group{},
		SeenBy:     map[uint][]model.User{},
	}

	view := serializeOne(notification, true, relations)
	full, ok := view.(dto.NotificationFullResponse)
	require.True(t, ok)

	assert.Equal(t, "评论了", full.Verb)
	assert.Equal(t, "user", full.ActorType)
	assert.True(t, full.IsSent)
	require.Len(t, full.Recipients, 1)
	assert.Equal(t, "李四", full.Recipients[0].Username)
}

func TestSerializeOneExcludesEmptyFields(t *testing.T) {
	setupServiceConfig(t, func(cfg *config.NotificationConfig) {
		cfg.ExcludeSerializerNoneFields = true
	})

	notification := sampleNotification()
	notification.Link = nil

	view := serializeOne(notification, false, nil)
	fields, ok := view.(map[string]any)
	require.True(t, ok)

	assert.Contains(t, fields, "title")
	assert.Contains(t, fields, "status")
	assert.NotContains(t, fields, "link")
}

func TestUseFullDetails(t *testing.T) {
	setupServiceConfig(t, nil)
	assert.False(t, useFullDetails(repository.Viewer{ID: 1}))
	assert.True(t, useFullDetails(repository.Viewer{ID: 1, IsAdmin: true}))

	setupServiceConfig(t, func(cfg *config.NotificationConfig) {
		cfg.IncludeSerializerFullDetails = true
	})
	assert.True(t, useFullDetails(repository.Viewer{ID: 1}))
}

func TestBuildQueryOptions(t *testing.T) {
	setupServiceConfig(t, nil)

	opts, params := buildQueryOptions(&dto.NotificationListRequest{
		Limit:    "500",
		Offset:   "-3",
		Status:   model.StatusWarning,
		Search:   "部署",
		Ordering: "-timestamp",
	})

	// 超出上限的limit被截断，非法offset归零
	assert.Equal(t, 100, params.Limit)
	assert.Equal(t, 0, params.Offset)
	assert.Equal(t, model.StatusWarning, opts.Status)
	assert.Equal(t, "部署", opts.Search)
	assert.Equal(t, []string{"verb", "description"}, opts.SearchFields)
	assert.Equal(t, "-timestamp", opts.Ordering)
}
