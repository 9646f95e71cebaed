package api

import (
	"strconv"
	"strings"
	"time"

	"garage/database"
	"garage/middleware"
	"garage/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// CarHandler 车辆处理器
type CarHandler struct{}

// NewCarHandler 创建车辆处理器
func NewCarHandler() *CarHandler {
	return &CarHandler{}
}

// CreateCarRequest 创建车辆请求
type CreateCarRequest struct {
	Name         string `json:"name" binding:"required,max=100" example:"Daily GTI"`
	Make         string `json:"make" binding:"required,max=50" example:"Volkswagen"`
	Model        string `json:"model" binding:"required,max=50" example:"Golf GTI"`
	ModelYear    *int   `json:"model_year" binding:"omitempty,min=1900,max=2100" example:"2019"`
	LicensePlate string `json:"license_plate" binding:"omitempty,max=20"`
	VIN          string `json:"vin" binding:"omitempty,max=30"`

	HorsepowerPS   int    `json:"horsepower_ps" binding:"required,gt=0" example:"245"`
	TorqueNm       *int   `json:"torque_nm" binding:"omitempty,gt=0"`
	DisplacementCc *int   `json:"displacement_cc" binding:"omitempty,gt=0"`
	Fuel           string `json:"fuel" binding:"required,oneof=petrol diesel hybrid electric lpg cng other"`
	Induction      string `json:"induction" binding:"omitempty,oneof=none turbo supercharger electric other"`
	Drivetrain     string `json:"drivetrain" binding:"omitempty,oneof=fwd rwd awd"`
	Transmission   string `json:"transmission" binding:"omitempty,oneof=manual automatic dsg cvt other"`
	Gears          *int   `json:"gears" binding:"omitempty,min=1,max=12"`

	KerbWeightKg *int   `json:"kerb_weight_kg" binding:"omitempty,gt=0"`
	Doors        *int   `json:"doors" binding:"omitempty,min=1,max=6"`
	Seats        *int   `json:"seats" binding:"omitempty,min=1,max=9"`
	BodyType     string `json:"body_type" binding:"omitempty,max=20"`

	MileageKm       int        `json:"mileage_km" binding:"omitempty,gte=0"`
	NextTuvDate     *time.Time `json:"next_tuv_date"`
	NextServiceDate *time.Time `json:"next_service_date"`
	NextServiceKm   *int       `json:"next_service_km" binding:"omitempty,gt=0"`

	ZeroToHundredS       *float64 `json:"zero_to_hundred_s" binding:"omitempty,gt=0"`
	TopSpeedKmh          *int     `json:"top_speed_kmh" binding:"omitempty,gt=0"`
	ConsumptionLPer100Km *float64 `json:"consumption_l_per_100km" binding:"omitempty,gt=0"`
}

// UpdateCarRequest 更新车辆请求，仅更新出现的字段
type UpdateCarRequest struct {
	Name         *string `json:"name" binding:"omitempty,max=100"`
	Make         *string `json:"make" binding:"omitempty,max=50"`
	Model        *string `json:"model" binding:"omitempty,max=50"`
	ModelYear    *int    `json:"model_year" binding:"omitempty,min=1900,max=2100"`
	LicensePlate *string `json:"license_plate" binding:"omitempty,max=20"`
	VIN          *string `json:"vin" binding:"omitempty,max=30"`

	HorsepowerPS   *int    `json:"horsepower_ps" binding:"omitempty,gt=0"`
	TorqueNm       *int    `json:"torque_nm" binding:"omitempty,gt=0"`
	DisplacementCc *int    `json:"displacement_cc" binding:"omitempty,gt=0"`
	Fuel           *string `json:"fuel" binding:"omitempty,oneof=petrol diesel hybrid electric lpg cng other"`
	Induction      *string `json:"induction" binding:"omitempty,oneof=none turbo supercharger electric other"`
	Drivetrain     *string `json:"drivetrain" binding:"omitempty,oneof=fwd rwd awd"`
	Transmission   *string `json:"transmission" binding:"omitempty,oneof=manual automatic dsg cvt other"`
	Gears          *int    `json:"gears" binding:"omitempty,min=1,max=12"`

	KerbWeightKg *int    `json:"kerb_weight_kg" binding:"omitempty,gt=0"`
	Doors        *int    `json:"doors" binding:"omitempty,min=1,max=6"`
	Seats        *int    `json:"seats" binding:"omitempty,min=1,max=9"`
	BodyType     *string `json:"body_type" binding:"omitempty,max=20"`

	MileageKm       *int       `json:"mileage_km" binding:"omitempty,gte=0"`
	NextTuvDate     *time.Time `json:"next_tuv_date"`
	NextServiceDate *time.Time `json:"next_service_date"`
	NextServiceKm   *int       `json:"next_service_km" binding:"omitempty,gt=0"`

	ZeroToHundredS       *float64 `json:"zero_to_hundred_s" binding:"omitempty,gt=0"`
	TopSpeedKmh          *int     `json:"top_speed_kmh" binding:"omitempty,gt=0"`
	ConsumptionLPer100Km *float64 `json:"consumption_l_per_100km" binding:"omitempty,gt=0"`
}

// findOwnedCar 查找属于当前用户的车辆
func findOwnedCar(c *gin.Context, carID interface{}) (*models.Car, bool) {
	userID := middleware.GetCurrentUserID(c)
	var car models.Car
	if err := database.DB.Where("id = ? AND user_id = ?", carID, userID).First(&car).Error; err != nil {
		NotFound(c, "车辆不存在")
		return nil, false
	}
	return &car, true
}

// powerToWeight 计算推重比（PS/kg），缺少整备质量时为 nil
func powerToWeight(horsepowerPS int, kerbWeightKg *int) *float64 {
	if kerbWeightKg == nil || *kerbWeightKg <= 0 || horsepowerPS <= 0 {
		return nil
	}
	v := float64(horsepowerPS) / float64(*kerbWeightKg)
	return &v
}

// Create 创建车辆
// @Summary 创建车辆
// @Description 在当前用户车库中创建一辆车
// @Tags 车辆
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateCarRequest true "车辆信息"
// @Success 200 {object} Response{data=models.Car} "创建成功"
// @Failure 400 {object} Response "请求参数错误"
// @Failure 401 {object} Response "未授权"
// @Router /api/v1/cars [post]
func (h *CarHandler) Create(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	var req CreateCarRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "参数错误"))
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		BadRequest(c, "车辆名称不能为空")
		return
	}

	car := models.Car{
		UserID:               userID,
		Name:                 req.Name,
		Make:                 strings.TrimSpace(req.Make),
		Model:                strings.TrimSpace(req.Model),
		ModelYear:            req.ModelYear,
		LicensePlate:         req.LicensePlate,
		VIN:                  req.VIN,
		HorsepowerPS:         req.HorsepowerPS,
		TorqueNm:             req.TorqueNm,
		DisplacementCc:       req.DisplacementCc,
		Fuel:                 req.Fuel,
		Induction:            req.Induction,
		Drivetrain:           req.Drivetrain,
		Transmission:         req.Transmission,
		Gears:                req.Gears,
		KerbWeightKg:         req.KerbWeightKg,
		Doors:                req.Doors,
		Seats:                req.Seats,
		BodyType:             req.BodyType,
		MileageKm:            req.MileageKm,
		MileageUpdatedAt:     time.Now(),
		NextTuvDate:          req.NextTuvDate,
		NextServiceDate:      req.NextServiceDate,
		NextServiceKm:        req.NextServiceKm,
		PowerToWeightPsPerKg: powerToWeight(req.HorsepowerPS, req.KerbWeightKg),
		ZeroToHundredS:       req.ZeroToHundredS,
		TopSpeedKmh:          req.TopSpeedKmh,
		ConsumptionLPer100Km: req.ConsumptionLPer100Km,
	}

	if err := database.DB.Create(&car).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "创建车辆失败"))
		return
	}

	SuccessWithMessage(c, "创建成功", car)
}

// List 获取车辆列表
// @Summary 获取车辆列表
// @Description 获取当前用户的全部车辆，含图片
// @Tags 车辆
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} Response{data=[]models.Car} "获取成功"
// @Failure 401 {object} Response "未授权"
// @Router /api/v1/cars [get]
func (h *CarHandler) List(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	var cars []models.Car
	if err := database.DB.Preload("Images").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&cars).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "查询失败"))
		return
	}

	Success(c, cars)
}

// Get 获取单辆车详情
// @Summary 获取车辆详情
// @Description 根据ID获取车辆详情，含图片
// @Tags 车辆
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "车辆ID"
// @Success 200 {object} Response{data=models.Car} "获取成功"
// @Failure 401 {object} Response "未授权"
// @Failure 404 {object} Response "车辆不存在"
// @Router /api/v1/cars/{id} [get]
func (h *CarHandler) Get(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		BadRequest(c, "无效的ID")
		return
	}

	var car models.Car
	if err := database.DB.Preload("Images").
		Where("id = ? AND user_id = ?", id, userID).First(&car).Error; err != nil {
		NotFound(c, "车辆不存在")
		return
	}

	Success(c, car)
}

// Update 更新车辆
// @Summary 更新车辆
// @Description 更新车辆信息，仅更新请求中出现的字段；里程变化时记录更新时间
// @Tags 车辆
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "车辆ID"
// @Param request body UpdateCarRequest true "车辆信息"
// @Success 200 {object} Response{data=models.Car} "更新成功"
// @Failure 400 {object} Response "请求参数错误"
// @Failure 401 {object} Response "未授权"
// @Failure 404 {object} Response "车辆不存在"
// @Router /api/v1/cars/{id} [patch]
func (h *CarHandler) Update(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		BadRequest(c, "无效的ID")
		return
	}

	car, ok := findOwnedCar(c, id)
	if !ok {
		return
	}

	var req UpdateCarRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "参数错误"))
		return
	}

	updates := make(map[string]interface{})
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			BadRequest(c, "车辆名称不能为空")
			return
		}
		updates["name"] = name
	}
	if req.Make != nil {
		updates["make"] = strings.TrimSpace(*req.Make)
	}
	if req.Model != nil {
		updates["model"] = strings.TrimSpace(*req.Model)
	}
	if req.ModelYear != nil {
		updates["model_year"] = *req.ModelYear
	}
	if req.LicensePlate != nil {
		updates["license_plate"] = *req.LicensePlate
	}
	if req.VIN != nil {
		updates["vin"] = *req.VIN
	}
	if req.HorsepowerPS != nil {
		updates["horsepower_ps"] = *req.HorsepowerPS
	}
	if req.TorqueNm != nil {
		updates["torque_nm"] = *req.TorqueNm
	}
	if req.DisplacementCc != nil {
		updates["displacement_cc"] = *req.DisplacementCc
	}
	if req.Fuel != nil {
		updates["fuel"] = *req.Fuel
	}
	if req.Induction != nil {
		updates["induction"] = *req.Induction
	}
	if req.Drivetrain != nil {
		updates["drivetrain"] = *req.Drivetrain
	}
	if req.Transmission != nil {
		updates["transmission"] = *req.Transmission
	}
	if req.Gears != nil {
		updates["gears"] = *req.Gears
	}
	if req.KerbWeightKg != nil {
		updates["kerb_weight_kg"] = *req.KerbWeightKg
	}
	if req.Doors != nil {
		updates["doors"] = *req.Doors
	}
	if req.Seats != nil {
		updates["seats"] = *req.Seats
	}
	if req.BodyType != nil {
		updates["body_type"] = *req.BodyType
	}
	if req.MileageKm != nil && *req.MileageKm != car.MileageKm {
		// 里程变化时记录更新时间，用于"里程最后更新于"展示
		updates["mileage_km"] = *req.MileageKm
		updates["mileage_updated_at"] = time.Now()
	}
	if req.NextTuvDate != nil {
		updates["next_tuv_date"] = *req.NextTuvDate
	}
	if req.NextServiceDate != nil {
		updates["next_service_date"] = *req.NextServiceDate
	}
	if req.NextServiceKm != nil {
		updates["next_service_km"] = *req.NextServiceKm
	}
	if req.ZeroToHundredS != nil {
		updates["zero_to_hundred_s"] = *req.ZeroToHundredS
	}
	if req.TopSpeedKmh != nil {
		updates["top_speed_kmh"] = *req.TopSpeedKmh
	}
	if req.ConsumptionLPer100Km != nil {
		updates["consumption_l_per_100km"] = *req.ConsumptionLPer100Km
	}

	// 马力或整备质量变化时重算推重比
	if req.HorsepowerPS != nil || req.KerbWeightKg != nil {
		hp := car.HorsepowerPS
		if req.HorsepowerPS != nil {
			hp = *req.HorsepowerPS
		}
		kerb := car.KerbWeightKg
		if req.KerbWeightKg != nil {
			kerb = req.KerbWeightKg
		}
		updates["power_to_weight_ps_per_kg"] = powerToWeight(hp, kerb)
	}

	if len(updates) > 0 {
		if err := database.DB.Model(car).Updates(updates).Error; err != nil {
			InternalError(c, SafeErrorMessage(err, "更新失败"))
			return
		}
	}

	// 重新获取更新后的记录
	database.DB.Preload("Images").First(car, car.ID)
	SuccessWithMessage(c, "更新成功", car)
}

// Delete 删除车辆
// @Summary 删除车辆
// @Description 删除车辆及其全部图片、改装分组和改装件
// @Tags 车辆
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "车辆ID"
// @Success 200 {object} Response "删除成功"
// @Failure 401 {object} Response "未授权"
// @Failure 404 {object} Response "车辆不存在"
// @Router /api/v1/cars/{id} [delete]
func (h *CarHandler) Delete(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		BadRequest(c, "无效的ID")
		return
	}

	car, ok := findOwnedCar(c, id)
	if !ok {
		return
	}

	// 级联删除：图片、改装件、分组、车辆本身，放在一个事务里
	err = database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("car_id = ?", car.ID).Delete(&models.CarImage{}).Error; err != nil {
			return err
		}
		if err := tx.Where("car_id = ?", car.ID).Delete(&models.TuningPart{}).Error; err != nil {
			return err
		}
		if err := tx.Where("car_id = ?", car.ID).Delete(&models.TuningGroup{}).Error; err != nil {
			return err
		}
		return tx.Delete(car).Error
	})
	if err != nil {
		InternalError(c, SafeErrorMessage(err, "删除失败"))
		return
	}

	SuccessWithMessage(c, "删除成功", nil)
}
