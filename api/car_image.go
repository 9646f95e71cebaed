package api

import (
	"strconv"
	"strings"

	"garage/database"
	"garage/models"

	"github.com/gin-gonic/gin"
)

// CarImageHandler 车辆图片处理器
type CarImageHandler struct{}

// NewCarImageHandler 创建车辆图片处理器
func NewCarImageHandler() *CarImageHandler {
	return &CarImageHandler{}
}

// AddCarImageRequest 添加图片请求
type AddCarImageRequest struct {
	Image string `json:"image" binding:"required"` // data URL，客户端负责压缩
}

// 单辆车最多保留的图片数
const maxImagesPerCar = 20

// Add 为车辆添加图片
// @Summary 添加车辆图片
// @Description 为指定车辆添加一张图片（data URL）
// @Tags 车辆
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "车辆ID"
// @Param request body AddCarImageRequest true "图片内容"
// @Success 200 {object} Response{data=models.CarImage} "添加成功"
// @Failure 400 {object} Response "请求参数错误"
// @Failure 401 {object} Response "未授权"
// @Failure 404 {object} Response "车辆不存在"
// @Router /api/v1/cars/{id}/images [post]
func (h *CarImageHandler) Add(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		BadRequest(c, "无效的ID")
		return
	}

	car, ok := findOwnedCar(c, id)
	if !ok {
		return
	}

	var req AddCarImageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "参数错误"))
		return
	}

	if !strings.HasPrefix(req.Image, "data:image/") {
		BadRequest(c, "图片格式错误，需为 data URL")
		return
	}

	var count int64
	database.DB.Model(&models.CarImage{}).Where("car_id = ?", car.ID).Count(&count)
	if count >= maxImagesPerCar {
		BadRequest(c, "图片数量已达上限")
		return
	}

	image := models.CarImage{
		CarID: car.ID,
		Image: req.Image,
	}
	if err := database.DB.Create(&image).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "添加图片失败"))
		return
	}

	SuccessWithMessage(c, "添加成功", image)
}

// Delete 删除车辆图片
// @Summary 删除车辆图片
// @Description 删除指定车辆的一张图片
// @Tags 车辆
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "车辆ID"
// @Param imageId path int true "图片ID"
// @Success 200 {object} Response "删除成功"
// @Failure 401 {object} Response "未授权"
// @Failure 404 {object} Response "图片不存在"
// @Router /api/v1/cars/{id}/images/{imageId} [delete]
func (h *CarImageHandler) Delete(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		BadRequest(c, "无效的ID")
		return
	}
	imageID, err := strconv.ParseUint(c.Param("imageId"), 10, 32)
	if err != nil {
		BadRequest(c, "无效的图片ID")
		return
	}

	car, ok := findOwnedCar(c, id)
	if !ok {
		return
	}

	var image models.CarImage
	if err := database.DB.Where("id = ? AND car_id = ?", imageID, car.ID).First(&image).Error; err != nil {
		NotFound(c, "图片不存在")
		return
	}

	if err := database.DB.Delete(&image).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "删除失败"))
		return
	}

	SuccessWithMessage(c, "删除成功", nil)
}
