package api

import (
	"strconv"
	"strings"
	"time"

	"garage/database"
	"garage/models"

	"github.com/gin-gonic/gin"
)

// TuningPartHandler 改装件处理器
type TuningPartHandler struct{}

// NewTuningPartHandler 创建改装件处理器
func NewTuningPartHandler() *TuningPartHandler {
	return &TuningPartHandler{}
}

// CreateTuningPartRequest 创建改装件请求
type CreateTuningPartRequest struct {
	GroupID     uint   `json:"group_id" binding:"required" example:"1"`
	Title       string `json:"title" binding:"required,max=200" example:"KW V3 Gewindefahrwerk"`
	Description string `json:"description" binding:"omitempty,max=1000"`
	Notes       string `json:"notes" binding:"omitempty,max=2000"`
	Link        string `json:"link" binding:"omitempty,max=500,url"`

	Status   string     `json:"status" binding:"omitempty,oneof=planned ordered installed discarded"`
	Priority *int       `json:"priority" binding:"omitempty,min=1,max=5"`
	DueDate  *time.Time `json:"due_date"`

	Quantity      *int     `json:"quantity" binding:"omitempty,gte=0"`
	UnitPriceEur  *float64 `json:"unit_price_eur" binding:"omitempty,gte=0"`
	TotalPriceEur *float64 `json:"total_price_eur" binding:"omitempty,gte=0"`
	LaborPriceEur *float64 `json:"labor_price_eur" binding:"omitempty,gte=0"`
}

// UpdateTuningPartRequest 更新改装件请求，仅更新出现的字段
type UpdateTuningPartRequest struct {
	GroupID     *uint   `json:"group_id"`
	OrderIndex  *int    `json:"order_index" binding:"omitempty,gte=0"`
	Title       *string `json:"title" binding:"omitempty,max=200"`
	Description *string `json:"description" binding:"omitempty,max=1000"`
	Notes       *string `json:"notes" binding:"omitempty,max=2000"`
	Link        *string `json:"link" binding:"omitempty,max=500"`

	Status   *string    `json:"status" binding:"omitempty,oneof=planned ordered installed discarded"`
	Priority *int       `json:"priority" binding:"omitempty,min=1,max=5"`
	DueDate  *time.Time `json:"due_date"`

	Quantity      *int     `json:"quantity" binding:"omitempty,gte=0"`
	UnitPriceEur  *float64 `json:"unit_price_eur" binding:"omitempty,gte=0"`
	TotalPriceEur *float64 `json:"total_price_eur" binding:"omitempty,gte=0"`
	LaborPriceEur *float64 `json:"labor_price_eur" binding:"omitempty,gte=0"`
}

// findOwnedPart 查找属于当前用户车辆的改装件
func findOwnedPart(c *gin.Context, carID, partID interface{}) (*models.TuningPart, bool) {
	car, ok := findOwnedCar(c, carID)
	if !ok {
		return nil, false
	}
	var part models.TuningPart
	if err := database.DB.Where("id = ? AND car_id = ?", partID, car.ID).First(&part).Error; err != nil {
		NotFound(c, "改装件不存在")
		return nil, false
	}
	return &part, true
}

// Create 创建改装件
// @Summary 创建改装件
// @Description 在指定分组下创建改装件，新改装件排在组内末尾，默认状态 planned
// @Tags 改装
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "车辆ID"
// @Param request body CreateTuningPartRequest true "改装件信息"
// @Success 200 {object} Response{data=models.TuningPart} "创建成功"
// @Failure 400 {object} Response "请求参数错误"
// @Failure 401 {object} Response "未授权"
// @Failure 404 {object} Response "分组不存在"
// @Router /api/v1/cars/{id}/tuning/parts [post]
func (h *TuningPartHandler) Create(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		BadRequest(c, "无效的ID")
		return
	}

	var req CreateTuningPartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "参数错误"))
		return
	}

	group, ok := findOwnedGroup(c, id, req.GroupID)
	if !ok {
		return
	}

	req.Title = strings.TrimSpace(req.Title)
	if req.Title == "" {
		BadRequest(c, "改装件名称不能为空")
		return
	}

	status := req.Status
	if status == "" {
		status = models.StatusPlanned
	}

	// 新改装件排在组内末尾
	var maxIndex struct{ Max int }
	database.DB.Model(&models.TuningPart{}).
		Select("COALESCE(MAX(order_index), -1) as max").
		Where("group_id = ?", group.ID).
		Scan(&maxIndex)

	part := models.TuningPart{
		CarID:         group.CarID,
		GroupID:       group.ID,
		OrderIndex:    maxIndex.Max + 1,
		Title:         req.Title,
		Description:   req.Description,
		Notes:         req.Notes,
		Link:          req.Link,
		Status:        status,
		Priority:      req.Priority,
		DueDate:       req.DueDate,
		Quantity:      req.Quantity,
		UnitPriceEur:  req.UnitPriceEur,
		TotalPriceEur: req.TotalPriceEur,
		LaborPriceEur: req.LaborPriceEur,
	}

	if err := database.DB.Create(&part).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "创建改装件失败"))
		return
	}

	SuccessWithMessage(c, "创建成功", part)
}

// List 获取改装件列表
// @Summary 获取改装件列表
// @Description 获取指定车辆的全部改装件，可按状态筛选
// @Tags 改装
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "车辆ID"
// @Param status query string false "状态筛选" Enums(planned,ordered,installed,discarded)
// @Success 200 {object} Response{data=[]models.TuningPart} "获取成功"
// @Failure 401 {object} Response "未授权"
// @Failure 404 {object} Response "车辆不存在"
// @Router /api/v1/cars/{id}/tuning/parts [get]
func (h *TuningPartHandler) List(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		BadRequest(c, "无效的ID")
		return
	}

	car, ok := findOwnedCar(c, id)
	if !ok {
		return
	}

	query := database.DB.Where("car_id = ?", car.ID)
	if status := c.Query("status"); status != "" {
		if !models.IsValidStatus(status) {
			BadRequest(c, "无效的状态值")
			return
		}
		query = query.Where("status = ?", status)
	}

	var parts []models.TuningPart
	if err := query.Order("order_index ASC, id ASC").Find(&parts).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "查询失败"))
		return
	}

	Success(c, parts)
}

// ListByGroup 获取分组下的改装件列表
// @Summary 获取分组下的改装件列表
// @Description 获取指定分组的全部改装件，按组内顺序排列
// @Tags 改装
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "车辆ID"
// @Param groupId path int true "分组ID"
// @Success 200 {object} Response{data=[]models.TuningPart} "获取成功"
// @Failure 401 {object} Response "未授权"
// @Failure 404 {object} Response "分组不存在"
// @Router /api/v1/cars/{id}/tuning/groups/{groupId}/parts [get]
func (h *TuningPartHandler) ListByGroup(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		BadRequest(c, "无效的ID")
		return
	}
	groupID, err := strconv.ParseUint(c.Param("groupId"), 10, 32)
	if err != nil {
		BadRequest(c, "无效的分组ID")
		return
	}

	group, ok := findOwnedGroup(c, id, groupID)
	if !ok {
		return
	}

	var parts []models.TuningPart
	if err := database.DB.Where("group_id = ?", group.ID).
		Order("order_index ASC, id ASC").
		Find(&parts).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "查询失败"))
		return
	}

	Success(c, parts)
}

// Get 获取单个改装件
// @Summary 获取改装件详情
// @Description 根据ID获取改装件详情
// @Tags 改装
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "车辆ID"
// @Param partId path int true "改装件ID"
// @Success 200 {object} Response{data=models.TuningPart} "获取成功"
// @Failure 401 {object} Response "未授权"
// @Failure 404 {object} Response "改装件不存在"
// @Router /api/v1/cars/{id}/tuning/parts/{partId} [get]
func (h *TuningPartHandler) Get(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		BadRequest(c, "无效的ID")
		return
	}
	partID, err := strconv.ParseUint(c.Param("partId"), 10, 32)
	if err != nil {
		BadRequest(c, "无效的改装件ID")
		return
	}

	part, ok := findOwnedPart(c, id, partID)
	if !ok {
		return
	}

	Success(c, part)
}

// Update 更新改装件
// @Summary 更新改装件
// @Description 更新改装件信息，仅更新请求中出现的字段；状态变化时记录变更时间
// @Tags 改装
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "车辆ID"
// @Param partId path int true "改装件ID"
// @Param request body UpdateTuningPartRequest true "改装件信息"
// @Success 200 {object} Response{data=models.TuningPart} "更新成功"
// @Failure 400 {object} Response "请求参数错误"
// @Failure 401 {object} Response "未授权"
// @Failure 404 {object} Response "改装件不存在"
// @Router /api/v1/cars/{id}/tuning/parts/{partId} [patch]
func (h *TuningPartHandler) Update(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		BadRequest(c, "无效的ID")
		return
	}
	partID, err := strconv.ParseUint(c.Param("partId"), 10, 32)
	if err != nil {
		BadRequest(c, "无效的改装件ID")
		return
	}

	part, ok := findOwnedPart(c, id, partID)
	if !ok {
		return
	}

	var req UpdateTuningPartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "参数错误"))
		return
	}

	updates := make(map[string]interface{})
	if req.GroupID != nil && *req.GroupID != part.GroupID {
		// 移动到其他分组时校验目标分组归属同一辆车
		var target models.TuningGroup
		if err := database.DB.Where("id = ? AND car_id = ?", *req.GroupID, part.CarID).First(&target).Error; err != nil {
			BadRequest(c, "目标分组不存在")
			return
		}
		updates["group_id"] = target.ID
	}
	if req.OrderIndex != nil {
		updates["order_index"] = *req.OrderIndex
	}
	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if title == "" {
			BadRequest(c, "改装件名称不能为空")
			return
		}
		updates["title"] = title
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Notes != nil {
		updates["notes"] = *req.Notes
	}
	if req.Link != nil {
		updates["link"] = *req.Link
	}
	if req.Status != nil && *req.Status != part.Status {
		updates["status"] = *req.Status
		updates["status_changed_at"] = time.Now()
	}
	if req.Priority != nil {
		updates["priority"] = *req.Priority
	}
	if req.DueDate != nil {
		updates["due_date"] = *req.DueDate
	}
	if req.Quantity != nil {
		updates["quantity"] = *req.Quantity
	}
	if req.UnitPriceEur != nil {
		updates["unit_price_eur"] = *req.UnitPriceEur
	}
	if req.TotalPriceEur != nil {
		updates["total_price_eur"] = *req.TotalPriceEur
	}
	if req.LaborPriceEur != nil {
		updates["labor_price_eur"] = *req.LaborPriceEur
	}

	if len(updates) > 0 {
		if err := database.DB.Model(part).Updates(updates).Error; err != nil {
			InternalError(c, SafeErrorMessage(err, "更新失败"))
			return
		}
	}

	database.DB.First(part, part.ID)
	SuccessWithMessage(c, "更新成功", part)
}

// CycleStatus 循环切换改装件状态
// @Summary 循环切换改装件状态
// @Description 按 planned → ordered → installed → discarded → planned 顺序切换到下一个状态
// @Tags 改装
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "车辆ID"
// @Param partId path int true "改装件ID"
// @Success 200 {object} Response{data=models.TuningPart} "切换成功"
// @Failure 401 {object} Response "未授权"
// @Failure 404 {object} Response "改装件不存在"
// @Router /api/v1/cars/{id}/tuning/parts/{partId}/cycle-status [post]
func (h *TuningPartHandler) CycleStatus(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		BadRequest(c, "无效的ID")
		return
	}
	partID, err := strconv.ParseUint(c.Param("partId"), 10, 32)
	if err != nil {
		BadRequest(c, "无效的改装件ID")
		return
	}

	part, ok := findOwnedPart(c, id, partID)
	if !ok {
		return
	}

	next := models.NextStatus(part.Status)
	if err := database.DB.Model(part).Updates(map[string]interface{}{
		"status":            next,
		"status_changed_at": time.Now(),
	}).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "切换状态失败"))
		return
	}

	database.DB.First(part, part.ID)
	SuccessWithMessage(c, "切换成功", part)
}

// Duplicate 复制改装件
// @Summary 复制改装件
// @Description 在同一分组内复制改装件，副本标题追加 (Kopie)，状态重置为 planned，排在组内末尾
// @Tags 改装
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "车辆ID"
// @Param partId path int true "改装件ID"
// @Success 200 {object} Response{data=models.TuningPart} "复制成功"
// @Failure 401 {object} Response "未授权"
// @Failure 404 {object} Response "改装件不存在"
// @Router /api/v1/cars/{id}/tuning/parts/{partId}/duplicate [post]
func (h *TuningPartHandler) Duplicate(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		BadRequest(c, "无效的ID")
		return
	}
	partID, err := strconv.ParseUint(c.Param("partId"), 10, 32)
	if err != nil {
		BadRequest(c, "无效的改装件ID")
		return
	}

	part, ok := findOwnedPart(c, id, partID)
	if !ok {
		return
	}

	var maxIndex struct{ Max int }
	database.DB.Model(&models.TuningPart{}).
		Select("COALESCE(MAX(order_index), -1) as max").
		Where("group_id = ?", part.GroupID).
		Scan(&maxIndex)

	copyTitle := part.Title + " (Kopie)"
	if len(copyTitle) > 200 {
		copyTitle = copyTitle[:200]
	}

	// 副本重置为 planned，价格字段原样保留
	copyPart := models.TuningPart{
		CarID:         part.CarID,
		GroupID:       part.GroupID,
		OrderIndex:    maxIndex.Max + 1,
		Title:         copyTitle,
		Description:   part.Description,
		Notes:         part.Notes,
		Link:          part.Link,
		Status:        models.StatusPlanned,
		Priority:      part.Priority,
		DueDate:       part.DueDate,
		Quantity:      part.Quantity,
		UnitPriceEur:  part.UnitPriceEur,
		TotalPriceEur: part.TotalPriceEur,
		LaborPriceEur: part.LaborPriceEur,
	}

	if err := database.DB.Create(&copyPart).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "复制失败"))
		return
	}

	SuccessWithMessage(c, "复制成功", copyPart)
}

// Delete 删除改装件
// @Summary 删除改装件
// @Description 删除指定的改装件
// @Tags 改装
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "车辆ID"
// @Param partId path int true "改装件ID"
// @Success 200 {object} Response "删除成功"
// @Failure 401 {object} Response "未授权"
// @Failure 404 {object} Response "改装件不存在"
// @Router /api/v1/cars/{id}/tuning/parts/{partId} [delete]
func (h *TuningPartHandler) Delete(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		BadRequest(c, "无效的ID")
		return
	}
	partID, err := strconv.ParseUint(c.Param("partId"), 10, 32)
	if err != nil {
		BadRequest(c, "无效的改装件ID")
		return
	}

	part, ok := findOwnedPart(c, id, partID)
	if !ok {
		return
	}

	if err := database.DB.Delete(part).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "删除失败"))
		return
	}

	SuccessWithMessage(c, "删除成功", nil)
}
