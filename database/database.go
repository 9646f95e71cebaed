package database

import (
	"fmt"
	"log"

	"garage/config"
	"garage/models"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

// Init 初始化数据库连接
func Init(cfg *config.Config) error {
	// 构建 MySQL DSN 连接字符串
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=%s&parseTime=True&loc=Local",
		cfg.Database.Username,
		cfg.Database.Password,
		cfg.Database.Host,
		cfg.Database.Port,
		cfg.Database.DBName,
		cfg.Database.Charset,
	)

	var err error
	DB, err = gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Info),
	})
	if err != nil {
		return fmt.Errorf("连接数据库失败: %w", err)
	}

	// 获取底层 *sql.DB 连接池配置
	sqlDB, err := DB.DB()
	if err != nil {
		return err
	}

	// 设置连接池参数
	sqlDB.SetMaxIdleConns(10)  // 最大空闲连接数
	sqlDB.SetMaxOpenConns(100) // 最大打开连接数

	// 自动迁移数据库表
	if err := DB.AutoMigrate(
		&models.User{},
		&models.Car{},
		&models.CarImage{},
		&models.TuningGroup{},
		&models.TuningPart{},
		&models.EmailVerification{},
		&models.BudgetDocument{},
	); err != nil {
		return err
	}

	// 兼容历史数据：老版本改装件没有 status 字段，默认设置为 planned
	_ = DB.Model(&models.TuningPart{}).
		Where("status IS NULL OR status = ''").
		Update("status", models.StatusPlanned).Error

	// 兼容历史数据：当同一车辆下所有分组 order_index 均为 0 且有多条时，按 id 赋 0,1,2,...
	var carIDs []uint
	DB.Model(&models.TuningGroup{}).Distinct("car_id").Pluck("car_id", &carIDs)
	for _, carID := range carIDs {
		var total, zeroCnt int64
		DB.Model(&models.TuningGroup{}).Where("car_id = ?", carID).Count(&total)
		DB.Model(&models.TuningGroup{}).Where("car_id = ? AND order_index = 0", carID).Count(&zeroCnt)
		if total > 1 && zeroCnt == total {
			var groups []models.TuningGroup
			if err := DB.Where("car_id = ?", carID).Order("id").Find(&groups).Error; err == nil {
				for i, g := range groups {
					_ = DB.Model(&g).Update("order_index", i).Error
				}
			}
		}
	}

	log.Println("数据库初始化成功")
	return nil
}

// GetDB 获取数据库连接
func GetDB() *gorm.DB {
	return DB
}
