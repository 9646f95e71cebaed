package service

import (
	"sort"
	"strings"

	"garage/models"
)

// 排序键
const (
	SortByOrderIndex = "order_index"
	SortByTitle      = "title"
	SortByPrice      = "price"
	SortByStatus     = "status"
	SortByCreatedAt  = "created_at"
)

// matchesPart 检查改装件是否命中搜索词（query 需已转小写）
func matchesPart(p *models.TuningPart, query string) bool {
	return strings.Contains(strings.ToLower(p.Title), query) ||
		strings.Contains(strings.ToLower(p.Description), query)
}

// FilterGroups 按搜索词过滤分组
// 分组名命中，或组内任意改装件命中（标题/描述），该分组即保留
func FilterGroups(groups []models.TuningGroup, parts []models.TuningPart, search string) []models.TuningGroup {
	query := strings.ToLower(strings.TrimSpace(search))
	if query == "" {
		return groups
	}

	filtered := make([]models.TuningGroup, 0, len(groups))
	for _, g := range groups {
		if strings.Contains(strings.ToLower(g.Name), query) {
			filtered = append(filtered, g)
			continue
		}
		for i := range parts {
			if parts[i].GroupID == g.ID && matchesPart(&parts[i], query) {
				filtered = append(filtered, g)
				break
			}
		}
	}
	return filtered
}

// FilterParts 按搜索词和状态过滤改装件
// groupID 非 0 时限定到该分组；status 为空表示不过滤
func FilterParts(parts []models.TuningPart, search, status string, groupID uint) []models.TuningPart {
	query := strings.ToLower(strings.TrimSpace(search))

	filtered := make([]models.TuningPart, 0, len(parts))
	for i := range parts {
		p := parts[i]
		if groupID != 0 && p.GroupID != groupID {
			continue
		}
		if status != "" && p.Status != status {
			continue
		}
		if query != "" && !matchesPart(&p, query) {
			continue
		}
		filtered = append(filtered, p)
	}
	return filtered
}

// SortParts 按排序键原地排序
// 稳定排序，相等元素保持原有顺序；未知排序键回退到 order_index
func SortParts(parts []models.TuningPart, sortBy string) {
	switch sortBy {
	case SortByTitle:
		sort.SliceStable(parts, func(i, j int) bool {
			return strings.ToLower(parts[i].Title) < strings.ToLower(parts[j].Title)
		})
	case SortByPrice:
		// 实际成本降序，最贵的在前
		sort.SliceStable(parts, func(i, j int) bool {
			return ResolvePartCost(&parts[i]) > ResolvePartCost(&parts[j])
		})
	case SortByStatus:
		sort.SliceStable(parts, func(i, j int) bool {
			return parts[i].Status < parts[j].Status
		})
	case SortByCreatedAt:
		// 最新的在前
		sort.SliceStable(parts, func(i, j int) bool {
			return parts[i].CreatedAt.After(parts[j].CreatedAt)
		})
	default:
		sort.SliceStable(parts, func(i, j int) bool {
			return parts[i].OrderIndex < parts[j].OrderIndex
		})
	}
}

// SortGroups 分组按 order_index 升序排序，相同时按 ID 升序
func SortGroups(groups []models.TuningGroup) {
	sort.SliceStable(groups, func(i, j int) bool {
		if groups[i].OrderIndex != groups[j].OrderIndex {
			return groups[i].OrderIndex < groups[j].OrderIndex
		}
		return groups[i].ID < groups[j].ID
	})
}
