// Package repository 提供数据访问层的实现
// 所有方法都接受 context，查询不到记录时返回 nil 而不是错误
package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"pocket-assistant/internal/model"
)

// findOne 按条件查询单条记录，记录不存在时返回 nil, nil
func findOne[T any](query *gorm.DB, cond ...interface{}) (*T, error) {
	var out T
	if err := query.First(&out, cond...).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &out, nil
}

// UserRepository 账号数据访问层
type UserRepository struct {
	db *gorm.DB
}

// NewUserRepository 创建 UserRepository 实例
func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create 创建账号
// 用户名重复时返回 gorm.ErrDuplicatedKey
func (r *UserRepository) Create(ctx context.Context, user *model.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

// FindByID 按主键查询账号
func (r *UserRepository) FindByID(ctx context.Context, id int64) (*model.User, error) {
	return findOne[model.User](r.db.WithContext(ctx), id)
}

// FindByUsername 按用户名查询账号，登录时使用
func (r *UserRepository) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	return findOne[model.User](r.db.WithContext(ctx).Where("username = ?", username))
}

// ListBriefs 列出全部账号的 id 和用户名，按 id 升序
// 其余字段保持零值
func (r *UserRepository) ListBriefs(ctx context.Context) ([]model.User, error) {
	var users []model.User
	err := r.db.WithContext(ctx).
		Select("id", "username").
		Order("id ASC").
		Find(&users).Error
	return users, err
}

// Rename 修改用户名
// 新用户名已被占用时返回 gorm.ErrDuplicatedKey
func (r *UserRepository) Rename(ctx context.Context, id int64, username string) error {
	return r.db.WithContext(ctx).
		Model(&model.User{ID: id}).
		Update("username", username).Error
}

// SetPasswordHash 替换密码哈希
func (r *UserRepository) SetPasswordHash(ctx context.Context, id int64, hash string) error {
	return r.db.WithContext(ctx).
		Model(&model.User{ID: id}).
		Update("password_hash", hash).Error
}
