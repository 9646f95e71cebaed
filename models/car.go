package models

import (
	"time"

	"gorm.io/gorm"
)

// 燃料类型
const (
	FuelPetrol   = "petrol"
	FuelDiesel   = "diesel"
	FuelHybrid   = "hybrid"
	FuelElectric = "electric"
	FuelLPG      = "lpg"
	FuelCNG      = "cng"
	FuelOther    = "other"
)

// 进气方式
const (
	InductionNone         = "none"
	InductionTurbo        = "turbo"
	InductionSupercharger = "supercharger"
	InductionElectric     = "electric"
	InductionOther        = "other"
)

// 驱动形式
const (
	DrivetrainFWD = "fwd"
	DrivetrainRWD = "rwd"
	DrivetrainAWD = "awd"
)

// 变速箱类型
const (
	TransmissionManual    = "manual"
	TransmissionAutomatic = "automatic"
	TransmissionDSG       = "dsg"
	TransmissionCVT       = "cvt"
	TransmissionOther     = "other"
)

// Car 车辆模型
type Car struct {
	ID     uint `json:"id" gorm:"primaryKey"`
	UserID uint `json:"user_id" gorm:"index;not null"`

	// 基本信息
	Name         string `json:"name" gorm:"size:100;not null"`
	Make         string `json:"make" gorm:"size:50;not null"`
	Model        string `json:"model" gorm:"size:50;not null"`
	ModelYear    *int   `json:"model_year,omitempty"`
	LicensePlate string `json:"license_plate,omitempty" gorm:"size:20"`
	VIN          string `json:"vin,omitempty" gorm:"size:30"`

	// 动力参数
	HorsepowerPS   int     `json:"horsepower_ps" gorm:"not null"`
	TorqueNm       *int    `json:"torque_nm,omitempty"`
	DisplacementCc *int    `json:"displacement_cc,omitempty"`
	Fuel           string  `json:"fuel" gorm:"size:20;not null"`
	Induction      string  `json:"induction,omitempty" gorm:"size:20"`
	Drivetrain     string  `json:"drivetrain,omitempty" gorm:"size:10"`
	Transmission   string  `json:"transmission,omitempty" gorm:"size:20"`
	Gears          *int    `json:"gears,omitempty"`

	// 车身
	KerbWeightKg *int   `json:"kerb_weight_kg,omitempty"`
	Doors        *int   `json:"doors,omitempty"`
	Seats        *int   `json:"seats,omitempty"`
	BodyType     string `json:"body_type,omitempty" gorm:"size:20"`

	// 里程与保养
	MileageKm        int        `json:"mileage_km" gorm:"not null;default:0"`
	MileageUpdatedAt time.Time  `json:"mileage_updated_at"`
	NextTuvDate      *time.Time `json:"next_tuv_date,omitempty"`
	NextServiceDate  *time.Time `json:"next_service_date,omitempty"`
	NextServiceKm    *int       `json:"next_service_km,omitempty"`

	// 性能数据
	PowerToWeightPsPerKg *float64 `json:"power_to_weight_ps_per_kg,omitempty" gorm:"type:decimal(8,4)"`
	ZeroToHundredS       *float64 `json:"zero_to_hundred_s,omitempty" gorm:"type:decimal(5,2)"`
	TopSpeedKmh          *int     `json:"top_speed_kmh,omitempty"`
	ConsumptionLPer100Km *float64 `json:"consumption_l_per_100km,omitempty" gorm:"type:decimal(5,2)"`

	// 图片
	Images []CarImage `json:"images,omitempty" gorm:"foreignKey:CarID"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
	User      User           `json:"-" gorm:"foreignKey:UserID"`
}

// TableName 设置表名
func (Car) TableName() string {
	return "cars"
}

// CarImage 车辆图片（data URL 字符串，客户端负责压缩）
type CarImage struct {
	ID        uint           `json:"id" gorm:"primaryKey"`
	CarID     uint           `json:"car_id" gorm:"index;not null"`
	Image     string         `json:"image" gorm:"type:longtext;not null"`
	CreatedAt time.Time      `json:"created_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

// TableName 设置表名
func (CarImage) TableName() string {
	return "car_images"
}
