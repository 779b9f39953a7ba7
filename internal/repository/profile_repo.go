package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"pocket-assistant/internal/model"
)

// ProfileRepository 人脉画像数据访问层
// 所有查询都按 user_id 隔离，(user_id, name) 视为自然键
type ProfileRepository struct {
	db *gorm.DB
}

// NewProfileRepository 创建 ProfileRepository 实例
func NewProfileRepository(db *gorm.DB) *ProfileRepository {
	return &ProfileRepository{db: db}
}

// Transaction 在单个数据库事务中执行 fn
// fn 收到的仓库实例绑定到事务连接，fn 返回错误时整个事务回滚
func (r *ProfileRepository) Transaction(ctx context.Context, fn func(tx *ProfileRepository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&ProfileRepository{db: tx})
	})
}

// FindByName 查找某用户名下的人物画像
// 参数:
//   - ctx: 上下文
//   - userID: 所属用户ID
//   - name: 人物名
//   - forUpdate: 为 true 时加行锁（SELECT ... FOR UPDATE），需在事务中使用
//
// 返回:
//   - *model.UserProfile: 未找到返回 nil
//   - error: 数据库错误
func (r *ProfileRepository) FindByName(ctx context.Context, userID int64, name string, forUpdate bool) (*model.UserProfile, error) {
	query := r.db.WithContext(ctx)
	if forUpdate {
		query = query.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	return findOne[model.UserProfile](query.Where("user_id = ? AND name = ?", userID, name))
}

// Create 创建新的人物画像
// (user_id, name) 已存在时返回 gorm.ErrDuplicatedKey（需开启 TranslateError）
func (r *ProfileRepository) Create(ctx context.Context, profile *model.UserProfile) error {
	return r.db.WithContext(ctx).Create(profile).Error
}

// CreateIfAbsent 在 (user_id, name) 不存在时插入画像，已存在时不做任何修改
// 并发插入同一人物时，后到的语句等待先到的事务结束，不会报唯一索引冲突
// 返回:
//   - bool: 是否由本次调用插入
//   - error: 数据库错误
func (r *ProfileRepository) CreateIfAbsent(ctx context.Context, profile *model.UserProfile) (bool, error) {
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(profile)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// AppendTrait 向画像追加一个特点
// 已存在等价特点时不做修改并返回 false
func (r *ProfileRepository) AppendTrait(ctx context.Context, profile *model.UserProfile, trait string) (bool, error) {
	set := profile.TraitSet()
	if set.Contains(trait) {
		return false, nil
	}
	traits := set.Add(trait).String()

	err := r.db.WithContext(ctx).
		Model(&model.UserProfile{}).
		Where("id = ?", profile.ID).
		Update("traits", traits).Error
	if err != nil {
		return false, err
	}
	profile.Traits = traits
	return true, nil
}

// GetByID 根据 ID 获取画像，并校验归属
func (r *ProfileRepository) GetByID(ctx context.Context, id, userID int64) (*model.UserProfile, error) {
	return findOne[model.UserProfile](r.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID))
}

// ListByUser 获取某用户的全部人脉画像，按创建顺序排列
func (r *ProfileRepository) ListByUser(ctx context.Context, userID int64) ([]model.UserProfile, error) {
	var profiles []model.UserProfile
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("id ASC").
		Find(&profiles).Error
	return profiles, err
}

// UpdateFields 更新画像的指定字段
func (r *ProfileRepository) UpdateFields(ctx context.Context, id int64, fields map[string]interface{}) error {
	return r.db.WithContext(ctx).Model(&model.UserProfile{}).Where("id = ?", id).Updates(fields).Error
}

// Delete 删除画像
// 返回:
//   - bool: 是否删除了记录（不存在或不属于该用户时为 false）
func (r *ProfileRepository) Delete(ctx context.Context, id, userID int64) (bool, error) {
	result := r.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).Delete(&model.UserProfile{})
	return result.RowsAffected > 0, result.Error
}
