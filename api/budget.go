package api

import (
	"encoding/json"

	"garage/database"
	"garage/middleware"
	"garage/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm/clause"
)

// BudgetHandler 预算计算器处理器
// 每个用户一份文档，整份读写
type BudgetHandler struct{}

// NewBudgetHandler 创建预算计算器处理器
func NewBudgetHandler() *BudgetHandler {
	return &BudgetHandler{}
}

// budgetSummary 预算计算器汇总
type budgetSummary struct {
	TotalBudget  float64 `json:"total_budget"`
	PlannedEur   float64 `json:"planned_eur"`   // 全部条目
	SpentEur     float64 `json:"spent_eur"`     // 已购条目
	RemainingEur float64 `json:"remaining_eur"` // 预算 − 已购，可为负
	UsagePercent float64 `json:"usage_percent"` // 预算为 0 时恒为 0，上限 100
	ItemCount    int     `json:"item_count"`
}

// summarize 计算预算计算器汇总
// 进度条语义，使用率上限 100（与改装总览的 150 上限是两个不同视图）
func summarize(data *models.BudgetData) budgetSummary {
	s := budgetSummary{
		TotalBudget: data.TotalBudget,
		ItemCount:   len(data.Items),
	}
	for _, item := range data.Items {
		quantity := item.Quantity
		if quantity <= 0 {
			quantity = 1
		}
		cost := item.Price * float64(quantity)
		s.PlannedEur += cost
		if item.IsPurchased {
			s.SpentEur += cost
		}
	}
	s.RemainingEur = s.TotalBudget - s.SpentEur
	if s.TotalBudget > 0 {
		percent := s.SpentEur / s.TotalBudget * 100
		if percent > 100 {
			percent = 100
		}
		s.UsagePercent = percent
	}
	return s
}

// Get 获取预算计算器文档
// @Summary 获取预算计算器文档
// @Description 获取当前用户的预算计算器文档，未保存过时返回空文档
// @Tags 预算计算器
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} Response "获取成功"
// @Failure 401 {object} Response "未授权"
// @Router /api/v1/budget [get]
func (h *BudgetHandler) Get(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	data := models.BudgetData{Items: []models.BudgetItem{}}

	var doc models.BudgetDocument
	if err := database.DB.Where("user_id = ?", userID).First(&doc).Error; err == nil {
		if err := json.Unmarshal([]byte(doc.Document), &data); err != nil {
			InternalError(c, SafeErrorMessage(err, "文档内容损坏"))
			return
		}
		if data.Items == nil {
			data.Items = []models.BudgetItem{}
		}
	}

	Success(c, gin.H{
		"document": data,
		"summary":  summarize(&data),
	})
}

// Put 保存预算计算器文档
// @Summary 保存预算计算器文档
// @Description 整份覆盖保存当前用户的预算计算器文档，后写覆盖先写
// @Tags 预算计算器
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body models.BudgetData true "预算文档"
// @Success 200 {object} Response "保存成功"
// @Failure 400 {object} Response "请求参数错误"
// @Failure 401 {object} Response "未授权"
// @Router /api/v1/budget [put]
func (h *BudgetHandler) Put(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	var data models.BudgetData
	if err := c.ShouldBindJSON(&data); err != nil {
		BadRequest(c, SafeErrorMessage(err, "参数错误"))
		return
	}

	if data.TotalBudget < 0 {
		BadRequest(c, "总预算不能为负数")
		return
	}
	if data.Items == nil {
		data.Items = []models.BudgetItem{}
	}
	for _, item := range data.Items {
		if item.ID == "" || item.Name == "" {
			BadRequest(c, "条目缺少 id 或 name")
			return
		}
		if item.Price < 0 || item.Quantity < 0 {
			BadRequest(c, "条目价格和数量不能为负数")
			return
		}
		switch item.Type {
		case models.BudgetItemTypeCar, models.BudgetItemTypePart, models.BudgetItemTypeService, models.BudgetItemTypeOther:
		default:
			BadRequest(c, "无效的条目类型: "+item.Type)
			return
		}
		switch item.Priority {
		case models.BudgetPriorityLow, models.BudgetPriorityMedium, models.BudgetPriorityHigh:
		default:
			BadRequest(c, "无效的优先级: "+item.Priority)
			return
		}
	}

	raw, err := json.Marshal(data)
	if err != nil {
		InternalError(c, "序列化失败")
		return
	}

	// upsert：每个用户最多一份文档
	doc := models.BudgetDocument{
		UserID:   userID,
		Document: string(raw),
	}
	if err := database.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"document", "updated_at"}),
	}).Create(&doc).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "保存失败"))
		return
	}

	SuccessWithMessage(c, "保存成功", gin.H{
		"document": data,
		"summary":  summarize(&data),
	})
}

// Delete 删除预算计算器文档
// @Summary 删除预算计算器文档
// @Description 删除当前用户的预算计算器文档，之后读取返回空文档
// @Tags 预算计算器
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} Response "删除成功"
// @Failure 401 {object} Response "未授权"
// @Router /api/v1/budget [delete]
func (h *BudgetHandler) Delete(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	if err := database.DB.Where("user_id = ?", userID).Delete(&models.BudgetDocument{}).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "删除失败"))
		return
	}

	SuccessWithMessage(c, "删除成功", nil)
}
