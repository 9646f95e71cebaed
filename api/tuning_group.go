package api

import (
	"strconv"
	"strings"

	"garage/database"
	"garage/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// TuningGroupHandler 改装分组处理器
type TuningGroupHandler struct{}

// NewTuningGroupHandler 创建改装分组处理器
func NewTuningGroupHandler() *TuningGroupHandler {
	return &TuningGroupHandler{}
}

// CreateTuningGroupRequest 创建分组请求
type CreateTuningGroupRequest struct {
	Name      string   `json:"name" binding:"required,max=100" example:"Fahrwerk"`
	BudgetEur *float64 `json:"budget_eur" binding:"omitempty,gte=0" example:"2500"`
}

// UpdateTuningGroupRequest 更新分组请求，仅更新出现的字段
type UpdateTuningGroupRequest struct {
	Name       *string  `json:"name" binding:"omitempty,max=100"`
	BudgetEur  *float64 `json:"budget_eur" binding:"omitempty,gte=0"`
	OrderIndex *int     `json:"order_index" binding:"omitempty,gte=0"`
}

// findOwnedGroup 查找属于当前用户车辆的分组
func findOwnedGroup(c *gin.Context, carID, groupID interface{}) (*models.TuningGroup, bool) {
	car, ok := findOwnedCar(c, carID)
	if !ok {
		return nil, false
	}
	var group models.TuningGroup
	if err := database.DB.Where("id = ? AND car_id = ?", groupID, car.ID).First(&group).Error; err != nil {
		NotFound(c, "分组不存在")
		return nil, false
	}
	return &group, true
}

// Create 创建改装分组
// @Summary 创建改装分组
// @Description 在指定车辆下创建改装分组，新分组排在末尾
// @Tags 改装
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "车辆ID"
// @Param request body CreateTuningGroupRequest true "分组信息"
// @Success 200 {object} Response{data=models.TuningGroup} "创建成功"
// @Failure 400 {object} Response "请求参数错误"
// @Failure 401 {object} Response "未授权"
// @Failure 404 {object} Response "车辆不存在"
// @Router /api/v1/cars/{id}/tuning/groups [post]
func (h *TuningGroupHandler) Create(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		BadRequest(c, "无效的ID")
		return
	}

	car, ok := findOwnedCar(c, id)
	if !ok {
		return
	}

	var req CreateTuningGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "参数错误"))
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		BadRequest(c, "分组名称不能为空")
		return
	}

	// 新分组排在末尾
	var maxIndex struct{ Max int }
	database.DB.Model(&models.TuningGroup{}).
		Select("COALESCE(MAX(order_index), -1) as max").
		Where("car_id = ?", car.ID).
		Scan(&maxIndex)

	group := models.TuningGroup{
		CarID:      car.ID,
		Name:       req.Name,
		OrderIndex: maxIndex.Max + 1,
		BudgetEur:  req.BudgetEur,
	}

	if err := database.DB.Create(&group).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "创建分组失败"))
		return
	}

	SuccessWithMessage(c, "创建成功", group)
}

// List 获取改装分组列表
// @Summary 获取改装分组列表
// @Description 获取指定车辆的全部改装分组，按展示顺序排列
// @Tags 改装
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "车辆ID"
// @Success 200 {object} Response{data=[]models.TuningGroup} "获取成功"
// @Failure 401 {object} Response "未授权"
// @Failure 404 {object} Response "车辆不存在"
// @Router /api/v1/cars/{id}/tuning/groups [get]
func (h *TuningGroupHandler) List(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		BadRequest(c, "无效的ID")
		return
	}

	car, ok := findOwnedCar(c, id)
	if !ok {
		return
	}

	var groups []models.TuningGroup
	if err := database.DB.Where("car_id = ?", car.ID).
		Order("order_index ASC, id ASC").
		Find(&groups).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "查询失败"))
		return
	}

	Success(c, groups)
}

// Get 获取单个改装分组
// @Summary 获取单个改装分组
// @Description 获取指定分组的详情
// @Tags 改装
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "车辆ID"
// @Param groupId path int true "分组ID"
// @Success 200 {object} Response{data=models.TuningGroup} "获取成功"
// @Failure 401 {object} Response "未授权"
// @Failure 404 {object} Response "分组不存在"
// @Router /api/v1/cars/{id}/tuning/groups/{groupId} [get]
func (h *TuningGroupHandler) Get(c *gin.Context) {
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

	Success(c, group)
}

// Update 更新改装分组
// @Summary 更新改装分组
// @Description 更新分组名称、预算或展示顺序，仅更新请求中出现的字段
// @Tags 改装
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "车辆ID"
// @Param groupId path int true "分组ID"
// @Param request body UpdateTuningGroupRequest true "分组信息"
// @Success 200 {object} Response{data=models.TuningGroup} "更新成功"
// @Failure 400 {object} Response "请求参数错误"
// @Failure 401 {object} Response "未授权"
// @Failure 404 {object} Response "分组不存在"
// @Router /api/v1/cars/{id}/tuning/groups/{groupId} [patch]
func (h *TuningGroupHandler) Update(c *gin.Context) {
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

	var req UpdateTuningGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "参数错误"))
		return
	}

	updates := make(map[string]interface{})
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			BadRequest(c, "分组名称不能为空")
			return
		}
		updates["name"] = name
	}
	if req.BudgetEur != nil {
		updates["budget_eur"] = *req.BudgetEur
	}
	if req.OrderIndex != nil {
		updates["order_index"] = *req.OrderIndex
	}

	if len(updates) > 0 {
		if err := database.DB.Model(group).Updates(updates).Error; err != nil {
			InternalError(c, SafeErrorMessage(err, "更新失败"))
			return
		}
	}

	database.DB.First(group, group.ID)
	SuccessWithMessage(c, "更新成功", group)
}

// Delete 删除改装分组
// @Summary 删除改装分组
// @Description 删除分组及其全部改装件
// @Tags 改装
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "车辆ID"
// @Param groupId path int true "分组ID"
// @Success 200 {object} Response "删除成功"
// @Failure 401 {object} Response "未授权"
// @Failure 404 {object} Response "分组不存在"
// @Router /api/v1/cars/{id}/tuning/groups/{groupId} [delete]
func (h *TuningGroupHandler) Delete(c *gin.Context) {
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

	// 级联删除：分组下所有改装件跟随删除
	err = database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("group_id = ?", group.ID).Delete(&models.TuningPart{}).Error; err != nil {
			return err
		}
		return tx.Delete(group).Error
	})
	if err != nil {
		InternalError(c, SafeErrorMessage(err, "删除失败"))
		return
	}

	SuccessWithMessage(c, "删除成功", nil)
}
