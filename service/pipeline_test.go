package service

import (
	"testing"
	"time"

	"garage/models"

	"github.com/stretchr/testify/assert"
)

func TestFilterGroups_SearchPullsInParentGroup(t *testing.T) {
	groups := []models.TuningGroup{
		{ID: 1, Name: "Turbo Kit"},
		{ID: 2, Name: "Misc"},
		{ID: 3, Name: "Fahrwerk"},
	}
	parts := []models.TuningPart{
		{ID: 10, GroupID: 2, Title: "Turbo Inlet"},
		{ID: 11, GroupID: 3, Title: "Gewindefahrwerk"},
	}

	// "turbo" 命中分组名 "Turbo Kit"，同时 "Misc" 因包含 "Turbo Inlet" 被拉入
	filtered := FilterGroups(groups, parts, "turbo")
	assert.Len(t, filtered, 2)
	assert.Equal(t, uint(1), filtered[0].ID)
	assert.Equal(t, uint(2), filtered[1].ID)

	// 空搜索词等于不过滤
	assert.Len(t, FilterGroups(groups, parts, ""), 3)
	assert.Len(t, FilterGroups(groups, parts, "   "), 3)
}

func TestFilterGroups_MatchesDescription(t *testing.T) {
	groups := []models.TuningGroup{{ID: 1, Name: "Bremsen"}}
	parts := []models.TuningPart{
		{GroupID: 1, Title: "Beläge", Description: "Endless MX72 vorne"},
	}
	assert.Len(t, FilterGroups(groups, parts, "mx72"), 1)
	assert.Len(t, FilterGroups(groups, parts, "brembo"), 0)
}

func TestFilterParts(t *testing.T) {
	parts := []models.TuningPart{
		{ID: 1, GroupID: 1, Title: "Turbo Inlet", Status: models.StatusPlanned},
		{ID: 2, GroupID: 1, Title: "Downpipe", Status: models.StatusOrdered},
		{ID: 3, GroupID: 2, Title: "Turbolader", Status: models.StatusPlanned},
	}

	// 状态过滤精确匹配
	filtered := FilterParts(parts, "", models.StatusPlanned, 0)
	assert.Len(t, filtered, 2)

	// 状态为空不过滤
	assert.Len(t, FilterParts(parts, "", "", 0), 3)

	// 限定分组
	filtered = FilterParts(parts, "turbo", "", 1)
	assert.Len(t, filtered, 1)
	assert.Equal(t, uint(1), filtered[0].ID)

	// 搜索+状态叠加
	filtered = FilterParts(parts, "turbo", models.StatusPlanned, 0)
	assert.Len(t, filtered, 2)
}

func TestSortParts_OrderIndex(t *testing.T) {
	parts := []models.TuningPart{
		{ID: 1, OrderIndex: 2},
		{ID: 2, OrderIndex: 0},
		{ID: 3, OrderIndex: 1},
	}
	SortParts(parts, SortByOrderIndex)
	assert.Equal(t, uint(2), parts[0].ID)
	assert.Equal(t, uint(3), parts[1].ID)
	assert.Equal(t, uint(1), parts[2].ID)
}

func TestSortParts_PriceDescending(t *testing.T) {
	cheap, mid, expensive := 10.0, 50.0, 500.0
	parts := []models.TuningPart{
		{ID: 1, TotalPriceEur: &mid},
		{ID: 2, TotalPriceEur: &expensive},
		{ID: 3, TotalPriceEur: &cheap},
	}
	SortParts(parts, SortByPrice)
	assert.Equal(t, uint(2), parts[0].ID)
	assert.Equal(t, uint(1), parts[1].ID)
	assert.Equal(t, uint(3), parts[2].ID)
}

func TestSortParts_Title(t *testing.T) {
	parts := []models.TuningPart{
		{Title: "downpipe"},
		{Title: "Auspuff"},
		{Title: "Chiptuning"},
	}
	SortParts(parts, SortByTitle)
	assert.Equal(t, "Auspuff", parts[0].Title)
	assert.Equal(t, "Chiptuning", parts[1].Title)
	assert.Equal(t, "downpipe", parts[2].Title)
}

func TestSortParts_CreatedAtNewestFirst(t *testing.T) {
	now := time.Now()
	parts := []models.TuningPart{
		{ID: 1, CreatedAt: now.Add(-2 * time.Hour)},
		{ID: 2, CreatedAt: now},
		{ID: 3, CreatedAt: now.Add(-time.Hour)},
	}
	SortParts(parts, SortByCreatedAt)
	assert.Equal(t, uint(2), parts[0].ID)
	assert.Equal(t, uint(3), parts[1].ID)
	assert.Equal(t, uint(1), parts[2].ID)
}

func TestSortParts_UnknownKeyFallsBackToOrderIndex(t *testing.T) {
	parts := []models.TuningPart{
		{ID: 1, OrderIndex: 1},
		{ID: 2, OrderIndex: 0},
	}
	SortParts(parts, "bogus")
	assert.Equal(t, uint(2), parts[0].ID)

	// 稳定排序：order_index 相同保持原有顺序
	parts = []models.TuningPart{
		{ID: 7, OrderIndex: 0},
		{ID: 3, OrderIndex: 0},
	}
	SortParts(parts, "")
	assert.Equal(t, uint(7), parts[0].ID)
	assert.Equal(t, uint(3), parts[1].ID)
}

func TestSortGroups(t *testing.T) {
	groups := []models.TuningGroup{
		{ID: 5, OrderIndex: 1},
		{ID: 2, OrderIndex: 0},
		{ID: 1, OrderIndex: 1},
	}
	SortGroups(groups)
	assert.Equal(t, uint(2), groups[0].ID)
	// order_index 相同按 ID 升序
	assert.Equal(t, uint(1), groups[1].ID)
	assert.Equal(t, uint(5), groups[2].ID)
}
