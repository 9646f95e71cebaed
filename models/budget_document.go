package models

import (
	"time"
)

// 预算计算器条目类型
const (
	BudgetItemTypeCar     = "car"
	BudgetItemTypePart    = "part"
	BudgetItemTypeService = "service"
	BudgetItemTypeOther   = "other"
)

// 预算计算器条目优先级
const (
	BudgetPriorityLow    = "low"
	BudgetPriorityMedium = "medium"
	BudgetPriorityHigh   = "high"
)

// BudgetDocument 预算计算器文档，每个用户一份
// 整份 JSON 读写，不做字段级更新
type BudgetDocument struct {
	ID        uint      `json:"-" gorm:"primaryKey"`
	UserID    uint      `json:"-" gorm:"uniqueIndex;not null"`
	Document  string    `json:"-" gorm:"type:longtext;not null"` // 序列化后的 BudgetData
	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName 设置表名
func (BudgetDocument) TableName() string {
	return "budget_documents"
}

// BudgetData 预算计算器文档内容
type BudgetData struct {
	TotalBudget float64      `json:"total_budget"`
	Items       []BudgetItem `json:"items"`
}

// BudgetItem 预算计算器中的一条开销
type BudgetItem struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Type         string   `json:"type"`
	Price        float64  `json:"price"`
	Quantity     int      `json:"quantity"`
	Notes        string   `json:"notes,omitempty"`
	Link         string   `json:"link,omitempty"`
	Priority     string   `json:"priority"`
	IsPurchased  bool     `json:"is_purchased"`
	PurchaseDate *string  `json:"purchase_date,omitempty"`
	CreatedAt    string   `json:"created_at"`
}
