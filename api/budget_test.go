package api

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBudgetHandler_Get_Empty(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	// 从未保存过文档 → 空文档
	mock.ExpectQuery("SELECT .* FROM `budget_documents`").
		WithArgs(1).
		WillReturnRows(sqlmock.NewRows([]string{}))

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(setUserIDMiddleware(1))
	router.GET("/budget", NewBudgetHandler().Get)

	req := httptest.NewRequest("GET", "/budget", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, 200, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data := resp["data"].(map[string]interface{})
	doc := data["document"].(map[string]interface{})
	assert.Equal(t, 0.0, doc["total_budget"])
	assert.Len(t, doc["items"], 0)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestBudgetHandler_Get_RoundTrip(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	stored := `{"total_budget":20000,"items":[{"id":"a1","name":"GTI","type":"car","price":18000,"quantity":1,"priority":"high","is_purchased":true,"created_at":"2025-01-01"}]}`
	mock.ExpectQuery("SELECT .* FROM `budget_documents`").
		WithArgs(1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "document"}).
			AddRow(1, 1, stored))

	router := gin.New()
	router.Use(setUserIDMiddleware(1))
	router.GET("/budget", NewBudgetHandler().Get)

	req := httptest.NewRequest("GET", "/budget", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, 200, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data := resp["data"].(map[string]interface{})

	doc := data["document"].(map[string]interface{})
	assert.Equal(t, 20000.0, doc["total_budget"])
	require.Len(t, doc["items"], 1)

	// 汇总：已购 18000 / 预算 20000 → 剩余 2000，使用率 90%
	summary := data["summary"].(map[string]interface{})
	assert.Equal(t, 18000.0, summary["spent_eur"])
	assert.Equal(t, 2000.0, summary["remaining_eur"])
	assert.Equal(t, 90.0, summary["usage_percent"])
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestBudgetHandler_Put(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	// upsert：INSERT ... ON DUPLICATE KEY UPDATE
	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `budget_documents`").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	router := gin.New()
	router.Use(setUserIDMiddleware(1))
	router.PUT("/budget", NewBudgetHandler().Put)

	body := `{"total_budget":5000,"items":[{"id":"x1","name":"Felgen","type":"part","price":1200,"quantity":1,"priority":"medium","is_purchased":false,"created_at":"2025-03-10"}]}`
	req := httptest.NewRequest("PUT", "/budget", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, 200, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "保存成功", resp["message"])

	// 未购买的条目只计入计划金额，不计入已花费
	data := resp["data"].(map[string]interface{})
	summary := data["summary"].(map[string]interface{})
	assert.Equal(t, 1200.0, summary["planned_eur"])
	assert.Equal(t, 0.0, summary["spent_eur"])
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestBudgetHandler_Put_Invalid(t *testing.T) {
	_, cleanup := setupMockDB(t)
	defer cleanup()

	router := gin.New()
	router.Use(setUserIDMiddleware(1))
	router.PUT("/budget", NewBudgetHandler().Put)

	cases := []string{
		`{"total_budget":-1,"items":[]}`,
		`{"total_budget":100,"items":[{"id":"","name":"X","type":"part","price":1,"quantity":1,"priority":"low","created_at":"2025-01-01"}]}`,
		`{"total_budget":100,"items":[{"id":"a","name":"X","type":"rocket","price":1,"quantity":1,"priority":"low","created_at":"2025-01-01"}]}`,
		`{"total_budget":100,"items":[{"id":"a","name":"X","type":"part","price":1,"quantity":1,"priority":"urgent","created_at":"2025-01-01"}]}`,
		`{"total_budget":100,"items":[{"id":"a","name":"X","type":"part","price":-5,"quantity":1,"priority":"low","created_at":"2025-01-01"}]}`,
	}
	for _, body := range cases {
		req := httptest.NewRequest("PUT", "/budget", bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		assert.Equal(t, 400, w.Code, body)
	}
}

func TestBudgetHandler_Delete(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM `budget_documents`").
		WithArgs(1).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	router := gin.New()
	router.Use(setUserIDMiddleware(1))
	router.DELETE("/budget", NewBudgetHandler().Delete)

	req := httptest.NewRequest("DELETE", "/budget", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, 200, w.Code)
	require.NoError(t, mock.ExpectationsWereMet())
}
