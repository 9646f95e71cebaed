package api

import (
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"garage/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// partRows 构造改装件查询结果行
func partRows(id, carID, groupID uint, title, status string) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "car_id", "group_id", "order_index", "title", "status", "created_at", "updated_at", "deleted_at"}).
		AddRow(id, carID, groupID, 0, title, status, time.Now(), time.Now(), nil)
}

func TestTuningPartHandler_CycleStatus(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	mock.ExpectQuery("SELECT .* FROM `cars`").
		WithArgs(1, 1).
		WillReturnRows(carRows(1, 1, "Daily GTI", 50000))
	mock.ExpectQuery("SELECT .* FROM `tuning_parts`").
		WithArgs(7, 1).
		WillReturnRows(partRows(7, 1, 2, "Downpipe", models.StatusOrdered))

	// ordered → installed，同时记录变更时间
	mock.ExpectBegin()
	mock.ExpectExec("UPDATE `tuning_parts`").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	mock.ExpectQuery("SELECT .* FROM `tuning_parts`").
		WillReturnRows(partRows(7, 1, 2, "Downpipe", models.StatusInstalled))

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(setUserIDMiddleware(1))
	router.POST("/cars/:id/tuning/parts/:partId/cycle-status", NewTuningPartHandler().CycleStatus)

	req := httptest.NewRequest("POST", "/cars/1/tuning/parts/7/cycle-status", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, 200, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data := resp["data"].(map[string]interface{})
	assert.Equal(t, models.StatusInstalled, data["status"])
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTuningPartHandler_Duplicate(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	mock.ExpectQuery("SELECT .* FROM `cars`").
		WithArgs(1, 1).
		WillReturnRows(carRows(1, 1, "Daily GTI", 50000))
	mock.ExpectQuery("SELECT .* FROM `tuning_parts`").
		WithArgs(7, 1).
		WillReturnRows(partRows(7, 1, 2, "Downpipe", models.StatusInstalled))

	// 组内最大 order_index
	mock.ExpectQuery("SELECT COALESCE").
		WithArgs(2).
		WillReturnRows(sqlmock.NewRows([]string{"max"}).AddRow(4))

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `tuning_parts`").
		WillReturnResult(sqlmock.NewResult(8, 1))
	mock.ExpectCommit()

	router := gin.New()
	router.Use(setUserIDMiddleware(1))
	router.POST("/cars/:id/tuning/parts/:partId/duplicate", NewTuningPartHandler().Duplicate)

	req := httptest.NewRequest("POST", "/cars/1/tuning/parts/7/duplicate", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, 200, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data := resp["data"].(map[string]interface{})

	// 副本追加 (Kopie)，状态重置为 planned，排在组内末尾
	assert.Equal(t, "Downpipe (Kopie)", data["title"])
	assert.Equal(t, models.StatusPlanned, data["status"])
	assert.Equal(t, float64(5), data["order_index"])
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTuningPartHandler_Get_WrongCar(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	mock.ExpectQuery("SELECT .* FROM `cars`").
		WithArgs(1, 1).
		WillReturnRows(carRows(1, 1, "Daily GTI", 50000))
	// 改装件属于别的车辆 → 查不到
	mock.ExpectQuery("SELECT .* FROM `tuning_parts`").
		WithArgs(99, 1).
		WillReturnRows(sqlmock.NewRows([]string{}))

	router := gin.New()
	router.Use(setUserIDMiddleware(1))
	router.GET("/cars/:id/tuning/parts/:partId", NewTuningPartHandler().Get)

	req := httptest.NewRequest("GET", "/cars/1/tuning/parts/99", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, 404, w.Code)
	require.NoError(t, mock.ExpectationsWereMet())
}
