package api

import (
	"strconv"

	"garage/database"
	"garage/models"
	"garage/service"

	"github.com/gin-gonic/gin"
)

// TuningOverviewHandler 改装总览与统计处理器
type TuningOverviewHandler struct{}

// NewTuningOverviewHandler 创建改装总览处理器
func NewTuningOverviewHandler() *TuningOverviewHandler {
	return &TuningOverviewHandler{}
}

// PartView 带实际成本的改装件视图
type PartView struct {
	models.TuningPart
	ResolvedCostEur float64 `json:"resolved_cost_eur"`
}

// GroupOverview 分组总览，含组内改装件与预算使用情况
type GroupOverview struct {
	models.TuningGroup
	Parts []PartView          `json:"parts"`
	Usage service.BudgetUsage `json:"usage"`
}

// OverviewResponse 改装总览响应
type OverviewResponse struct {
	Groups []GroupOverview     `json:"groups"`
	Totals service.BudgetUsage `json:"totals"`
}

// loadCarTuning 加载车辆的全部分组与改装件
func loadCarTuning(c *gin.Context, car *models.Car) ([]models.TuningGroup, []models.TuningPart, bool) {
	var groups []models.TuningGroup
	if err := database.DB.Where("car_id = ?", car.ID).Find(&groups).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "查询失败"))
		return nil, nil, false
	}
	var parts []models.TuningPart
	if err := database.DB.Where("car_id = ?", car.ID).Find(&parts).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "查询失败"))
		return nil, nil, false
	}
	return groups, parts, true
}

// Overview 获取改装总览
// @Summary 获取改装总览
// @Description 获取车辆的改装分组与改装件，支持搜索、状态筛选和排序。
// @Description 搜索词命中分组名或组内任意改装件的标题/描述时保留该分组；
// @Description 排序在筛选前对全量改装件进行，结果稳定。
// @Description 总花费与剩余预算不含已放弃（discarded）的改装件。
// @Tags 改装
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "车辆ID"
// @Param search query string false "搜索词，匹配分组名/改装件标题/描述"
// @Param status query string false "状态筛选" Enums(planned,ordered,installed,discarded)
// @Param sort_by query string false "排序键" Enums(order_index,title,price,status,created_at)
// @Success 200 {object} Response{data=OverviewResponse} "获取成功"
// @Failure 400 {object} Response "请求参数错误"
// @Failure 401 {object} Response "未授权"
// @Failure 404 {object} Response "车辆不存在"
// @Router /api/v1/cars/{id}/tuning/overview [get]
func (h *TuningOverviewHandler) Overview(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		BadRequest(c, "无效的ID")
		return
	}

	car, ok := findOwnedCar(c, id)
	if !ok {
		return
	}

	status := c.Query("status")
	if status != "" && !models.IsValidStatus(status) {
		BadRequest(c, "无效的状态值")
		return
	}
	search := c.Query("search")
	sortBy := c.Query("sort_by")

	groups, parts, ok := loadCarTuning(c, car)
	if !ok {
		return
	}

	// 预算与花费基于全量数据计算，筛选只影响展示
	totals := service.CalcBudgetUsage(service.TotalBudget(groups), service.TotalSpent(parts))

	// 先排序再筛选，保证组内顺序与排序键一致
	service.SortParts(parts, sortBy)
	service.SortGroups(groups)

	visibleGroups := service.FilterGroups(groups, parts, search)

	overview := make([]GroupOverview, 0, len(visibleGroups))
	for _, g := range visibleGroups {
		groupParts := service.FilterParts(parts, search, status, g.ID)
		views := make([]PartView, 0, len(groupParts))
		for i := range groupParts {
			views = append(views, PartView{
				TuningPart:      groupParts[i],
				ResolvedCostEur: service.ResolvePartCost(&groupParts[i]),
			})
		}
		overview = append(overview, GroupOverview{
			TuningGroup: g,
			Parts:       views,
			Usage: service.CalcBudgetUsage(
				numOrZero(g.BudgetEur),
				service.GroupSpent(parts, g.ID),
			),
		})
	}

	Success(c, OverviewResponse{
		Groups: overview,
		Totals: totals,
	})
}

// numOrZero 空指针按 0 处理
func numOrZero(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}

// Statistics 获取改装统计
// @Summary 获取改装统计
// @Description 按状态统计改装件数量与成本（含已放弃的），并给出整车预算使用情况
// @Tags 改装
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "车辆ID"
// @Success 200 {object} Response "获取成功"
// @Failure 401 {object} Response "未授权"
// @Failure 404 {object} Response "车辆不存在"
// @Router /api/v1/cars/{id}/tuning/statistics [get]
func (h *TuningOverviewHandler) Statistics(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		BadRequest(c, "无效的ID")
		return
	}

	car, ok := findOwnedCar(c, id)
	if !ok {
		return
	}

	groups, parts, ok := loadCarTuning(c, car)
	if !ok {
		return
	}

	Success(c, gin.H{
		"status_stats": service.StatusStatistics(parts),
		"totals":       service.CalcBudgetUsage(service.TotalBudget(groups), service.TotalSpent(parts)),
		"part_count":   len(parts),
		"group_count":  len(groups),
	})
}
