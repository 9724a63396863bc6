package controller

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/nsxzhou1114/notification-api/internal/config"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

// 开关类测试不会走到业务层，控制器可以不注入服务
func setupGateTest(t *testing.T, mutate func(*config.NotificationConfig)) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	old := config.GetConfig()
	cfg := &config.Config{
		Notification: config.NotificationConfig{
			AllowList:         true,
			AllowRetrieve:     true,
			IncludeSoftDelete: true,
			IncludeHardDelete: true,
		},
	}
	if mutate != nil {
		mutate(&cfg.Notification)
	}
	config.SetConfig(cfg)
	t.Cleanup(func() { config.SetConfig(old) })
}

func TestListDisabledReturns405(t *testing.T) {
	setupGateTest(t, func(cfg *config.NotificationConfig) {
		cfg.AllowList = false
	})

	ctrl := &NotificationController{logger: zap.NewNop()}
	r := gin.New()
	r.GET("/notifications", ctrl.List)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/notifications", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}

func TestRetrieveDisabledReturns405(t *testing.T) {
	setupGateTest(t, func(cfg *config.NotificationConfig) {
		cfg.AllowRetrieve = false
	})

	ctrl := &NotificationController{logger: zap.NewNop()}
	r := gin.New()
	r.GET("/notifications/:id", ctrl.Retrieve)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/notifications/1", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}

func TestClearDisabledReturns405(t *testing.T) {
	setupGateTest(t, func(cfg *config.NotificationConfig) {
		cfg.IncludeSoftDelete = false
	})

	ctrl := &ActivityController{logger: zap.NewNop()}
	r := gin.New()
	r.GET("/activities/clear_activities", ctrl.ClearAll)
	r.GET("/activities/:id/clear_notification", ctrl.ClearOne)

	for _, path := range []string{"/activities/clear_activities", "/activities/1/clear_notification"} {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, path, nil)
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusMethodNotAllowed, w.Code, path)
	}
}

func TestDeleteDisabledReturns405(t *testing.T) {
	setupGateTest(t, func(cfg *config.NotificationConfig) {
		cfg.IncludeHardDelete = false
	})

	ctrl := &ActivityController{logger: zap.NewNop()}
	r := gin.New()
	r.GET("/activities/delete_activities", ctrl.DeleteAll)
	r.GET("/activities/:id/delete_notification", ctrl.DeleteOne)

	for _, path := range []string{"/activities/delete_activities", "/activities/1/delete_notification"} {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, path, nil)
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusMethodNotAllowed, w.Code, path)
	}
}

func TestClearOneInvalidID(t *testing.T) {
	setupGateTest(t, nil)

	ctrl := &ActivityController{logger: zap.NewNop()}
	r := gin.New()
	r.GET("/activities/:id/clear_notification", ctrl.ClearOne)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/activities/abc/clear_notification", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAdminCreateWithoutPermission(t *testing.T) {
	setupGateTest(t, nil)

	ctrl := &AdminController{logger: zap.NewNop()}
	r := gin.New()
	r.POST("/admin/notifications", ctrl.Create)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/admin/notifications", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
}
