package models

import (
	"time"

	"gorm.io/gorm"
)

// 改装件状态
// 扁平标签，不是状态机：允许任意切换，循环顺序见 NextStatus
const (
	StatusPlanned   = "planned"
	StatusOrdered   = "ordered"
	StatusInstalled = "installed"
	StatusDiscarded = "discarded"
)

// Statuses 返回所有状态（固定顺序）
func Statuses() []string {
	return []string{
		StatusPlanned,
		StatusOrdered,
		StatusInstalled,
		StatusDiscarded,
	}
}

// IsValidStatus 检查状态值是否合法
func IsValidStatus(status string) bool {
	switch status {
	case StatusPlanned, StatusOrdered, StatusInstalled, StatusDiscarded:
		return true
	}
	return false
}

// NextStatus 返回循环顺序中的下一个状态
// planned → ordered → installed → discarded → planned
func NextStatus(status string) string {
	order := Statuses()
	for i, s := range order {
		if s == status {
			return order[(i+1)%len(order)]
		}
	}
	// 未知状态回到起点
	return StatusPlanned
}

// TuningPart 改装件模型
// 价格字段均可为空；quantity 为 NULL 时按 1 计算
type TuningPart struct {
	ID          uint   `json:"id" gorm:"primaryKey"`
	CarID       uint   `json:"car_id" gorm:"index;not null"`
	GroupID     uint   `json:"group_id" gorm:"index;not null"`
	OrderIndex  int    `json:"order_index" gorm:"not null;default:0"` // 组内展示顺序
	Title       string `json:"title" gorm:"size:200;not null"`
	Description string `json:"description,omitempty" gorm:"size:1000"`
	Notes       string `json:"notes,omitempty" gorm:"size:2000"`
	Link        string `json:"link,omitempty" gorm:"size:500"`

	Status   string     `json:"status" gorm:"size:20;not null;default:planned;index"`
	Priority *int       `json:"priority,omitempty"`
	DueDate  *time.Time `json:"due_date,omitempty"`

	Quantity      *int     `json:"quantity,omitempty"`
	UnitPriceEur  *float64 `json:"unit_price_eur,omitempty" gorm:"type:decimal(10,2)"`
	TotalPriceEur *float64 `json:"total_price_eur,omitempty" gorm:"type:decimal(10,2)"` // 手工修正的总价，优先于 单价×数量
	LaborPriceEur *float64 `json:"labor_price_eur,omitempty" gorm:"type:decimal(10,2)"`

	StatusChangedAt *time.Time     `json:"status_changed_at,omitempty"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
	DeletedAt       gorm.DeletedAt `json:"-" gorm:"index"`
}

// TableName 设置表名
func (TuningPart) TableName() string {
	return "tuning_parts"
}
