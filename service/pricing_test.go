package service

import (
	"testing"

	"garage/models"

	"github.com/stretchr/testify/assert"
)

func f(v float64) *float64 { return &v }
func i(v int) *int         { return &v }

func TestResolvePartCost(t *testing.T) {
	// 单价 × 数量
	p := models.TuningPart{UnitPriceEur: f(100), Quantity: i(2)}
	assert.Equal(t, 200.0, ResolvePartCost(&p))

	// 数量为 NULL 时默认 1
	p = models.TuningPart{UnitPriceEur: f(99.5)}
	assert.Equal(t, 99.5, ResolvePartCost(&p))

	// 显式数量 0 结果为 0，不报错
	p = models.TuningPart{UnitPriceEur: f(100), Quantity: i(0)}
	assert.Equal(t, 0.0, ResolvePartCost(&p))

	// 全部字段缺失 → 0
	p = models.TuningPart{}
	assert.Equal(t, 0.0, ResolvePartCost(&p))

	// 只有工时费
	p = models.TuningPart{LaborPriceEur: f(80)}
	assert.Equal(t, 80.0, ResolvePartCost(&p))
}

func TestResolvePartCost_TotalPriceOverride(t *testing.T) {
	// 手工总价优先于 单价×数量，工时费额外累加
	// totalPriceEur=80, unitPriceEur=10, quantity=5, labor=20 → 80+20=100
	p := models.TuningPart{
		TotalPriceEur: f(80),
		UnitPriceEur:  f(10),
		Quantity:      i(5),
		LaborPriceEur: f(20),
	}
	assert.Equal(t, 100.0, ResolvePartCost(&p))

	// 总价为 0 等同未设置，回退到 单价×数量
	p.TotalPriceEur = f(0)
	assert.Equal(t, 70.0, ResolvePartCost(&p))
}

func TestResolvePartCost_LaborAlwaysAdded(t *testing.T) {
	p := models.TuningPart{TotalPriceEur: f(500), LaborPriceEur: f(150)}
	assert.Equal(t, 650.0, ResolvePartCost(&p))

	p = models.TuningPart{UnitPriceEur: f(50), Quantity: i(4), LaborPriceEur: f(30)}
	assert.Equal(t, 230.0, ResolvePartCost(&p))
}

func TestTotalSpent_ExcludesDiscarded(t *testing.T) {
	parts := []models.TuningPart{
		{Status: models.StatusPlanned, UnitPriceEur: f(100), Quantity: i(2), LaborPriceEur: f(50)}, // 250
		{Status: models.StatusDiscarded, UnitPriceEur: f(500), Quantity: i(1)},                     // 排除
		{Status: models.StatusInstalled, TotalPriceEur: f(300)},                                    // 300
	}
	assert.Equal(t, 550.0, TotalSpent(parts))

	// 空集合为 0
	assert.Equal(t, 0.0, TotalSpent(nil))
}

func TestGroupSpent(t *testing.T) {
	parts := []models.TuningPart{
		{GroupID: 1, Status: models.StatusPlanned, UnitPriceEur: f(100), Quantity: i(2), LaborPriceEur: f(50)},
		{GroupID: 1, Status: models.StatusDiscarded, UnitPriceEur: f(500), Quantity: i(1)},
		{GroupID: 2, Status: models.StatusPlanned, TotalPriceEur: f(999)},
	}
	// 组1: 250（discarded 排除），组2不计入
	assert.Equal(t, 250.0, GroupSpent(parts, 1))
	assert.Equal(t, 999.0, GroupSpent(parts, 2))
	assert.Equal(t, 0.0, GroupSpent(parts, 3))
}

func TestStatusStatistics_IncludesDiscarded(t *testing.T) {
	parts := []models.TuningPart{
		{Status: models.StatusPlanned, TotalPriceEur: f(100)},
		{Status: models.StatusPlanned, TotalPriceEur: f(50)},
		{Status: models.StatusDiscarded, TotalPriceEur: f(500)},
	}
	stats := StatusStatistics(parts)
	assert.Len(t, stats, 4)

	// 固定顺序 planned, ordered, installed, discarded
	assert.Equal(t, models.StatusPlanned, stats[0].Status)
	assert.Equal(t, 2, stats[0].Count)
	assert.Equal(t, 150.0, stats[0].TotalEur)

	assert.Equal(t, models.StatusOrdered, stats[1].Status)
	assert.Equal(t, 0, stats[1].Count)

	// 按状态统计包含 discarded（与总花费的排除规则是两个不同视图）
	assert.Equal(t, models.StatusDiscarded, stats[3].Status)
	assert.Equal(t, 1, stats[3].Count)
	assert.Equal(t, 500.0, stats[3].TotalEur)
}

func TestTotalBudget(t *testing.T) {
	groups := []models.TuningGroup{
		{BudgetEur: f(1000)},
		{BudgetEur: nil}, // 未设置按 0 计
		{BudgetEur: f(500.5)},
	}
	assert.Equal(t, 1500.5, TotalBudget(groups))
	assert.Equal(t, 0.0, TotalBudget(nil))
}

func TestCalcBudgetUsage(t *testing.T) {
	// 规格示例: 预算1000，A件 100×2+50=250，B件 discarded 不计
	u := CalcBudgetUsage(1000, 250)
	assert.Equal(t, 750.0, u.RemainingEur)
	assert.Equal(t, 25.0, u.UsagePercent)
	assert.False(t, u.OverBudget)

	// 超预算：剩余为负
	u = CalcBudgetUsage(100, 120)
	assert.Equal(t, -20.0, u.RemainingEur)
	assert.True(t, u.OverBudget)
	assert.Equal(t, 120.0, u.UsagePercent)

	// 预算为 0 时使用率恒为 0
	u = CalcBudgetUsage(0, 9999)
	assert.Equal(t, 0.0, u.UsagePercent)
	assert.True(t, u.OverBudget)

	// 使用率上限 150，无论实际超出多少
	u = CalcBudgetUsage(100, 100000)
	assert.Equal(t, 150.0, u.UsagePercent)
}
