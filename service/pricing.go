package service

import (
	"garage/models"
)

// numOrZero 空指针按 0 处理，已存数据中的缺失价格字段不报错
func numOrZero(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}

// ResolvePartCost 计算单个改装件的实际成本
// 优先级: total_price_eur（手工修正的总价）> unit_price_eur × quantity
// 工时费始终额外累加，与总价覆盖无关
func ResolvePartCost(p *models.TuningPart) float64 {
	unitPrice := numOrZero(p.UnitPriceEur)
	totalPrice := numOrZero(p.TotalPriceEur)
	laborPrice := numOrZero(p.LaborPriceEur)

	// quantity 为 NULL 时默认 1；显式的 0 保持 0
	quantity := 1.0
	if p.Quantity != nil {
		quantity = float64(*p.Quantity)
	}

	base := 0.0
	if totalPrice > 0 {
		base = totalPrice
	} else if unitPrice > 0 {
		base = unitPrice * quantity
	}

	return base + laborPrice
}

// TotalSpent 计算所有改装件的总花费，不含已放弃（discarded）的
func TotalSpent(parts []models.TuningPart) float64 {
	var sum float64
	for i := range parts {
		if parts[i].Status == models.StatusDiscarded {
			continue
		}
		sum += ResolvePartCost(&parts[i])
	}
	return sum
}

// GroupSpent 计算单个分组的花费，不含已放弃的
func GroupSpent(parts []models.TuningPart, groupID uint) float64 {
	var sum float64
	for i := range parts {
		if parts[i].GroupID != groupID || parts[i].Status == models.StatusDiscarded {
			continue
		}
		sum += ResolvePartCost(&parts[i])
	}
	return sum
}

// TotalBudget 计算所有分组的预算总和，未设置预算的分组按 0 计
func TotalBudget(groups []models.TuningGroup) float64 {
	var sum float64
	for i := range groups {
		sum += numOrZero(groups[i].BudgetEur)
	}
	return sum
}

// StatusStat 按状态的统计项
type StatusStat struct {
	Status   string  `json:"status"`
	Count    int     `json:"count"`
	TotalEur float64 `json:"total_eur"`
}

// StatusStatistics 按状态统计数量与成本
// 与 TotalSpent 不同，这里包含已放弃的改装件
func StatusStatistics(parts []models.TuningPart) []StatusStat {
	stats := make([]StatusStat, 0, 4)
	for _, status := range models.Statuses() {
		stat := StatusStat{Status: status}
		for i := range parts {
			if parts[i].Status != status {
				continue
			}
			stat.Count++
			stat.TotalEur += ResolvePartCost(&parts[i])
		}
		stats = append(stats, stat)
	}
	return stats
}

// 使用率上限，避免进度条类展示溢出布局
const maxUsagePercent = 150

// BudgetUsage 预算使用情况
type BudgetUsage struct {
	BudgetEur    float64 `json:"budget_eur"`
	SpentEur     float64 `json:"spent_eur"`
	RemainingEur float64 `json:"remaining_eur"` // 可为负，表示超预算
	UsagePercent float64 `json:"usage_percent"` // 预算为 0 时恒为 0，上限 150
	OverBudget   bool    `json:"over_budget"`
}

// CalcBudgetUsage 计算预算使用情况（分组或整车粒度通用）
func CalcBudgetUsage(budget, spent float64) BudgetUsage {
	usage := BudgetUsage{
		BudgetEur:    budget,
		SpentEur:     spent,
		RemainingEur: budget - spent,
	}
	usage.OverBudget = usage.RemainingEur < 0
	if budget > 0 {
		percent := spent / budget * 100
		if percent > maxUsagePercent {
			percent = maxUsagePercent
		}
		usage.UsagePercent = percent
	}
	return usage
}
