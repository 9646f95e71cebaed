package service

import (
	"sync"

	"garage/database"
	"garage/models"
)

// UserCache 按用户ID缓存展示名称，避免导出/列表场景重复查库
// 资料更新后需手动调用 Invalidate
type UserCache struct {
	mu    sync.RWMutex
	names map[uint]string
}

// NewUserCache 创建用户缓存
func NewUserCache() *UserCache {
	return &UserCache{names: make(map[uint]string)}
}

// DefaultUserCache 全局用户缓存实例
var DefaultUserCache = NewUserCache()

// DisplayName 获取用户展示名称，未命中时查库并写入缓存
func (c *UserCache) DisplayName(userID uint) (string, error) {
	c.mu.RLock()
	name, ok := c.names[userID]
	c.mu.RUnlock()
	if ok {
		return name, nil
	}

	var user models.User
	if err := database.DB.First(&user, userID).Error; err != nil {
		return "", err
	}

	name = user.DisplayName()
	c.mu.Lock()
	c.names[userID] = name
	c.mu.Unlock()
	return name, nil
}

// Invalidate 使指定用户的缓存失效
func (c *UserCache) Invalidate(userID uint) {
	c.mu.Lock()
	delete(c.names, userID)
	c.mu.Unlock()
}
