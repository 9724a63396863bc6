package controller

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/nsxzhou1114/notification-api/internal/config"
	"github.com/nsxzhou1114/notification-api/internal/model"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

// 白名单外的排序字段属于客户端错误，必须返回400而不是500
func TestListInvalidOrderingReturns400(t *testing.T) {
	setupGateTest(t, func(cfg *config.NotificationConfig) {
		cfg.OrderingFields = []string{"id", "timestamp", "public"}
		cfg.SearchFields = []string{"verb", "description"}
		cfg.Pagination = config.PaginationConfig{DefaultLimit: 10, MinLimit: 1, MaxLimit: 100}
	})

	svc, mock := newMockService(t)
	mock.ExpectQuery("SELECT count\\(\\*\\) FROM .notification.").
		WillReturnRows(sqlmock.NewRows([]string{"count(*)"}).AddRow(0))

	ctrl := &NotificationController{service: svc, logger: zap.NewNop()}
	r := gin.New()
	r.GET("/notifications", withRole(1, model.RoleUser), ctrl.List)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/notifications?ordering=verb", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "排序参数错误")
}
