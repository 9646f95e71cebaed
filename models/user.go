package models

import (
	"time"

	"gorm.io/gorm"
)

// User 用户模型
type User struct {
	ID         uint           `json:"id" gorm:"primaryKey"`
	Username   string         `json:"username" gorm:"uniqueIndex;size:50;not null"`
	Password   string         `json:"-" gorm:"size:255;not null"`
	Email      string         `json:"email" gorm:"size:100;index"`
	Nickname   string         `json:"nickname" gorm:"size:50"` // 显示名称，空则使用用户名
	IsVerified bool           `json:"is_verified" gorm:"default:false"` // 邮箱是否已验证
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `json:"-" gorm:"index"`
}

// TableName 设置表名
func (User) TableName() string {
	return "users"
}

// DisplayName 返回用于展示的名称
func (u *User) DisplayName() string {
	if u.Nickname != "" {
		return u.Nickname
	}
	return u.Username
}
