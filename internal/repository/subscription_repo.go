package repository

import (
	"context"

	"gorm.io/gorm"

	"pocket-assistant/internal/model"
)

// SubscriptionRepository 分类订阅数据访问层
type SubscriptionRepository struct {
	db *gorm.DB
}

// NewSubscriptionRepository 创建 SubscriptionRepository 实例
func NewSubscriptionRepository(db *gorm.DB) *SubscriptionRepository {
	return &SubscriptionRepository{db: db}
}

// Exists 判断用户是否已订阅某分类
func (r *SubscriptionRepository) Exists(ctx context.Context, userID int64, category string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.CategorySubscription{}).
		Where("user_id = ? AND category = ?", userID, category).
		Count(&count).Error
	return count > 0, err
}

// Create 新增订阅
func (r *SubscriptionRepository) Create(ctx context.Context, sub *model.CategorySubscription) error {
	return r.db.WithContext(ctx).Create(sub).Error
}

// Delete 取消订阅
// 返回:
//   - bool: 是否存在并删除了订阅
func (r *SubscriptionRepository) Delete(ctx context.Context, userID int64, category string) (bool, error) {
	result := r.db.WithContext(ctx).
		Where("user_id = ? AND category = ?", userID, category).
		Delete(&model.CategorySubscription{})
	return result.RowsAffected > 0, result.Error
}

// ListCategories 获取用户订阅的分类列表
func (r *SubscriptionRepository) ListCategories(ctx context.Context, userID int64) ([]string, error) {
	var categories []string
	err := r.db.WithContext(ctx).
		Model(&model.CategorySubscription{}).
		Where("user_id = ?", userID).
		Order("id ASC").
		Pluck("category", &categories).Error
	return categories, err
}
