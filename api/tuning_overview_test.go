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

func TestTuningOverviewHandler_Overview(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	mock.ExpectQuery("SELECT .* FROM `cars`").
		WithArgs(1, 1).
		WillReturnRows(carRows(1, 1, "Daily GTI", 50000))

	mock.ExpectQuery("SELECT .* FROM `tuning_groups`").
		WithArgs(1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "car_id", "name", "order_index", "budget_eur", "created_at", "updated_at", "deleted_at"}).
			AddRow(1, 1, "Fahrwerk", 0, 1000.0, time.Now(), time.Now(), nil).
			AddRow(2, 1, "Auspuff", 1, nil, time.Now(), time.Now(), nil))

	mock.ExpectQuery("SELECT .* FROM `tuning_parts`").
		WithArgs(1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "car_id", "group_id", "order_index", "title", "status", "quantity", "unit_price_eur", "total_price_eur", "labor_price_eur", "created_at", "updated_at", "deleted_at"}).
			AddRow(10, 1, 1, 0, "KW V3", models.StatusOrdered, 1, 1300.0, nil, 200.0, time.Now(), time.Now(), nil).
			AddRow(11, 1, 1, 1, "Stabis", models.StatusDiscarded, 1, 400.0, nil, nil, time.Now(), time.Now(), nil).
			AddRow(12, 1, 2, 0, "Downpipe", models.StatusPlanned, 1, 500.0, nil, nil, time.Now(), time.Now(), nil))

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(setUserIDMiddleware(1))
	router.GET("/cars/:id/tuning/overview", NewTuningOverviewHandler().Overview)

	req := httptest.NewRequest("GET", "/cars/1/tuning/overview", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, 200, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data := resp["data"].(map[string]interface{})

	// 总花费 1500+500=2000，discarded 的 400 不计入；总预算 1000
	totals := data["totals"].(map[string]interface{})
	assert.Equal(t, 1000.0, totals["budget_eur"])
	assert.Equal(t, 2000.0, totals["spent_eur"])
	assert.Equal(t, -1000.0, totals["remaining_eur"])
	assert.Equal(t, true, totals["over_budget"])
	// 使用率 200% 截断到上限 150
	assert.Equal(t, 150.0, totals["usage_percent"])

	groups := data["groups"].([]interface{})
	require.Len(t, groups, 2)

	// 分组按 order_index 排列，组内含实际成本
	first := groups[0].(map[string]interface{})
	assert.Equal(t, "Fahrwerk", first["name"])
	usage := first["usage"].(map[string]interface{})
	assert.Equal(t, 1500.0, usage["spent_eur"])
	assert.Equal(t, 150.0, usage["usage_percent"])

	parts := first["parts"].([]interface{})
	require.Len(t, parts, 2)
	kw := parts[0].(map[string]interface{})
	assert.Equal(t, 1500.0, kw["resolved_cost_eur"])
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTuningOverviewHandler_Overview_SearchAndStatus(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	mock.ExpectQuery("SELECT .* FROM `cars`").
		WithArgs(1, 1).
		WillReturnRows(carRows(1, 1, "Daily GTI", 50000))

	mock.ExpectQuery("SELECT .* FROM `tuning_groups`").
		WithArgs(1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "car_id", "name", "order_index", "budget_eur", "created_at", "updated_at", "deleted_at"}).
			AddRow(1, 1, "Turbo Kit", 0, nil, time.Now(), time.Now(), nil).
			AddRow(2, 1, "Misc", 1, nil, time.Now(), time.Now(), nil).
			AddRow(3, 1, "Bremsen", 2, nil, time.Now(), time.Now(), nil))

	mock.ExpectQuery("SELECT .* FROM `tuning_parts`").
		WithArgs(1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "car_id", "group_id", "order_index", "title", "status", "created_at", "updated_at", "deleted_at"}).
			AddRow(10, 1, 2, 0, "Turbo Inlet", models.StatusPlanned, time.Now(), time.Now(), nil).
			AddRow(11, 1, 3, 0, "Beläge", models.StatusPlanned, time.Now(), time.Now(), nil))

	router := gin.New()
	router.Use(setUserIDMiddleware(1))
	router.GET("/cars/:id/tuning/overview", NewTuningOverviewHandler().Overview)

	// "turbo" 命中分组名 "Turbo Kit"，"Misc" 因包含 "Turbo Inlet" 被拉入，"Bremsen" 被过滤
	req := httptest.NewRequest("GET", "/cars/1/tuning/overview?search=turbo", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, 200, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data := resp["data"].(map[string]interface{})
	groups := data["groups"].([]interface{})
	require.Len(t, groups, 2)
	assert.Equal(t, "Turbo Kit", groups[0].(map[string]interface{})["name"])
	assert.Equal(t, "Misc", groups[1].(map[string]interface{})["name"])
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTuningOverviewHandler_Overview_InvalidStatus(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	mock.ExpectQuery("SELECT .* FROM `cars`").
		WithArgs(1, 1).
		WillReturnRows(carRows(1, 1, "Daily GTI", 50000))

	router := gin.New()
	router.Use(setUserIDMiddleware(1))
	router.GET("/cars/:id/tuning/overview", NewTuningOverviewHandler().Overview)

	req := httptest.NewRequest("GET", "/cars/1/tuning/overview?status=bogus", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, 400, w.Code)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTuningOverviewHandler_Statistics(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	mock.ExpectQuery("SELECT .* FROM `cars`").
		WithArgs(1, 1).
		WillReturnRows(carRows(1, 1, "Daily GTI", 50000))

	mock.ExpectQuery("SELECT .* FROM `tuning_groups`").
		WithArgs(1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "car_id", "name", "order_index", "budget_eur", "created_at", "updated_at", "deleted_at"}).
			AddRow(1, 1, "Fahrwerk", 0, 2000.0, time.Now(), time.Now(), nil))

	mock.ExpectQuery("SELECT .* FROM `tuning_parts`").
		WithArgs(1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "car_id", "group_id", "order_index", "title", "status", "total_price_eur", "created_at", "updated_at", "deleted_at"}).
			AddRow(10, 1, 1, 0, "KW V3", models.StatusInstalled, 1500.0, time.Now(), time.Now(), nil).
			AddRow(11, 1, 1, 1, "Stabis", models.StatusDiscarded, 400.0, time.Now(), time.Now(), nil))

	router := gin.New()
	router.Use(setUserIDMiddleware(1))
	router.GET("/cars/:id/tuning/statistics", NewTuningOverviewHandler().Statistics)

	req := httptest.NewRequest("GET", "/cars/1/tuning/statistics", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, 200, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data := resp["data"].(map[string]interface{})

	// 状态统计固定顺序且包含 discarded
	stats := data["status_stats"].([]interface{})
	require.Len(t, stats, 4)
	discarded := stats[3].(map[string]interface{})
	assert.Equal(t, models.StatusDiscarded, discarded["status"])
	assert.Equal(t, float64(1), discarded["count"])
	assert.Equal(t, 400.0, discarded["total_eur"])

	// 总花费不含 discarded
	totals := data["totals"].(map[string]interface{})
	assert.Equal(t, 1500.0, totals["spent_eur"])
	assert.Equal(t, 75.0, totals["usage_percent"])
	require.NoError(t, mock.ExpectationsWereMet())
}
