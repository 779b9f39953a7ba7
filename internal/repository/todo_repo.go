package repository

import (
	"context"

	"gorm.io/gorm"

	"pocket-assistant/internal/model"
)

// TodoRepository 待办事项数据访问层
type TodoRepository struct {
	db *gorm.DB
}

// NewTodoRepository 创建 TodoRepository 实例
func NewTodoRepository(db *gorm.DB) *TodoRepository {
	return &TodoRepository{db: db}
}

// Create 创建待办
func (r *TodoRepository) Create(ctx context.Context, todo *model.Todo) error {
	return r.db.WithContext(ctx).Create(todo).Error
}

// GetByID 根据 ID 获取待办，并校验归属
// 返回:
//   - *model.Todo: 未找到或不属于该用户时返回 nil
//   - error: 数据库错误
func (r *TodoRepository) GetByID(ctx context.Context, id, userID int64) (*model.Todo, error) {
	return findOne[model.Todo](r.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID))
}

// ListByUser 获取用户的待办列表，新建的排在前面
func (r *TodoRepository) ListByUser(ctx context.Context, userID int64) ([]model.Todo, error) {
	var todos []model.Todo
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Find(&todos).Error
	return todos, err
}

// SetCompleted 更新完成状态
func (r *TodoRepository) SetCompleted(ctx context.Context, id int64, completed bool) error {
	return r.db.WithContext(ctx).
		Model(&model.Todo{}).
		Where("id = ?", id).
		Update("completed", completed).Error
}

// Delete 删除待办
// 返回:
//   - bool: 是否删除了记录
func (r *TodoRepository) Delete(ctx context.Context, id, userID int64) (bool, error) {
	result := r.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).Delete(&model.Todo{})
	return result.RowsAffected > 0, result.Error
}
