package controller

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/nsxzhou1114/notification-api/internal/model"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

// 即使开启了物理删除，普通用户也必须被拒绝
func TestHardDeleteForbiddenForUser(t *testing.T) {
	setupGateTest(t, nil)

	svc, _ := newMockService(t)
	ctrl := &ActivityController{service: svc, logger: zap.NewNop()}
	r := gin.New()
	r.GET("/activities/delete_activities", withRole(7, model.RoleUser), ctrl.DeleteAll)
	r.GET("/activities/:id/delete_notification", withRole(7, model.RoleUser), ctrl.DeleteOne)

	for _, path := range []string{"/activities/delete_activities", "/activities/42/delete_notification"} {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, path, nil)
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusForbidden, w.Code, path)
	}
}

func TestHardDeleteAllAsAdminReturns204(t *testing.T) {
	setupGateTest(t, nil)

	svc, mock := newMockService(t)
	mock.ExpectQuery("SELECT .id. FROM .notification.").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	ctrl := &ActivityController{service: svc, logger: zap.NewNop()}
	r := gin.New()
	r.GET("/activities/delete_activities", withRole(1, model.RoleAdmin), ctrl.DeleteAll)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/activities/delete_activities", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Empty(t, w.Body.String())
}

func TestHardDeleteOneAsAdminReturns204(t *testing.T) {
	setupGateTest(t, nil)

	svc, mock := newMockService(t)
	mock.ExpectQuery("SELECT \\* FROM .notification.").
		WillReturnRows(sqlmock.NewRows([]string{"id", "is_sent"}).AddRow(42, true))
	mock.ExpectBegin()
	for i := 0; i < 5; i++ {
		mock.ExpectExec("DELETE FROM").WillReturnResult(sqlmock.NewResult(0, 1))
	}
	mock.ExpectCommit()

	ctrl := &ActivityController{service: svc, logger: zap.NewNop()}
	r := gin.New()
	r.GET("/activities/:id/delete_notification", withRole(1, model.RoleAdmin), ctrl.DeleteOne)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/activities/42/delete_notification", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Empty(t, w.Body.String())
	assert.NoError(t, mock.ExpectationsWereMet())
}
