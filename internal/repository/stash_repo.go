package repository

import (
	"context"

	"gorm.io/gorm"

	"pocket-assistant/internal/model"
)

// StashRepository 收藏内容数据访问层
type StashRepository struct {
	db *gorm.DB
}

// NewStashRepository 创建 StashRepository 实例
func NewStashRepository(db *gorm.DB) *StashRepository {
	return &StashRepository{db: db}
}

// Create 新增收藏
func (r *StashRepository) Create(ctx context.Context, content *model.StashContent) error {
	return r.db.WithContext(ctx).Create(content).Error
}

// List 获取收藏列表，按创建时间倒序
// 参数:
//   - ctx: 上下文
//   - contentType: 内容类型过滤，为空时返回全部
func (r *StashRepository) List(ctx context.Context, contentType string) ([]model.StashContent, error) {
	var items []model.StashContent
	query := r.db.WithContext(ctx)
	if contentType != "" {
		query = query.Where("type = ?", contentType)
	}
	err := query.Order("created_at DESC, id DESC").Find(&items).Error
	return items, err
}

// Delete 删除收藏
func (r *StashRepository) Delete(ctx context.Context, id int64) (bool, error) {
	result := r.db.WithContext(ctx).Delete(&model.StashContent{}, id)
	return result.RowsAffected > 0, result.Error
}
