package models

import (
	"time"

	"gorm.io/gorm"
)

// TuningGroup 改装分组模型，一组计划中的改装项目，可设置预算
type TuningGroup struct {
	ID         uint           `json:"id" gorm:"primaryKey"`
	CarID      uint           `json:"car_id" gorm:"index;not null"`
	Name       string         `json:"name" gorm:"size:100;not null"`
	OrderIndex int            `json:"order_index" gorm:"not null;default:0"` // 展示顺序，值越小越靠前
	BudgetEur  *float64       `json:"budget_eur,omitempty" gorm:"type:decimal(10,2)"` // 可选预算，NULL 表示未设置
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `json:"-" gorm:"index"`
}

// TableName 设置表名
func (TuningGroup) TableName() string {
	return "tuning_groups"
}
