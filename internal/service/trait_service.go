package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-sql-driver/mysql"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"pocket-assistant/internal/model"
	"pocket-assistant/internal/repository"
)

// 人脉画像相关错误
var (
	ErrProfileNotFound = errors.New("用户画像未找到或无权限")
	ErrProfileExists   = errors.New("同名人物画像已存在")
	ErrInvalidProfile  = errors.New("人物名和特点都不能为空")
)

// TraitService 人脉画像服务
// 同一 (user_id, name) 的特点只追加不覆盖
type TraitService struct {
	profileRepo *repository.ProfileRepository
}

// NewTraitService 创建 TraitService 实例
func NewTraitService(profileRepo *repository.ProfileRepository) *TraitService {
	return &TraitService{profileRepo: profileRepo}
}

// mergeAttempts 合并遇到死锁或唯一索引冲突时的最多尝试次数
const mergeAttempts = 3

// mysqlDeadlock InnoDB 回滚死锁事务时返回的错误码
const mysqlDeadlock = 1213

// Merge 把一个特点合并进人物画像
// 事务中先插入不存在的 (userID, name)，再锁定该行追加特点
// 事务因死锁或唯一索引冲突失败时整体重试
// 参数:
//   - ctx: 上下文
//   - userID: 所属用户
//   - name: 人物名
//   - trait: 规范化后的特点，如 "喜欢喝酒"
//
// 返回:
//   - bool: 是否新增了特点，已存在等价特点时为 false
//   - error: 数据库错误
func (s *TraitService) Merge(ctx context.Context, userID int64, name, trait string) (bool, error) {
	name = strings.TrimSpace(name)
	trait = strings.TrimSpace(trait)
	if name == "" || trait == "" {
		return false, ErrInvalidProfile
	}

	var (
		added bool
		err   error
	)
	for attempt := 1; attempt <= mergeAttempts; attempt++ {
		added, err = s.merge(ctx, userID, name, trait)
		if err == nil || !retryable(err) {
			break
		}
		log.WithFields(log.Fields{"user_id": userID, "name": name, "attempt": attempt}).
			WithError(err).Debug("profile merge conflicted, retrying")
	}
	if err != nil {
		return false, fmt.Errorf("merge trait for %s: %w", name, err)
	}
	return added, nil
}

// retryable 判断事务失败是否由并发写入引起
func retryable(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var mysqlErr *mysql.MySQLError
	return errors.As(err, &mysqlErr) && mysqlErr.Number == mysqlDeadlock
}

func (s *TraitService) merge(ctx context.Context, userID int64, name, trait string) (bool, error) {
	var added bool
	err := s.profileRepo.Transaction(ctx, func(tx *repository.ProfileRepository) error {
		created, err := tx.CreateIfAbsent(ctx, &model.UserProfile{
			UserID: userID,
			Name:   name,
			Traits: model.TraitSet{trait}.String(),
		})
		if err != nil || created {
			added = created
			return err
		}

		profile, err := tx.FindByName(ctx, userID, name, true)
		if err != nil {
			return err
		}
		if profile == nil {
			return ErrProfileNotFound
		}
		added, err = tx.AppendTrait(ctx, profile, trait)
		return err
	})
	if err != nil {
		return false, err
	}
	return added, nil
}

// Lookup 按人物名查找画像，不存在时返回 nil
func (s *TraitService) Lookup(ctx context.Context, userID int64, name string) (*model.UserProfile, error) {
	return s.profileRepo.FindByName(ctx, userID, strings.TrimSpace(name), false)
}

// CreateProfileRequest 新增画像请求
// Traits 可以包含多个以逗号分隔的特点，逐个合并
type CreateProfileRequest struct {
	Name   string `json:"name" binding:"required,max=100"`
	Traits string `json:"traits" binding:"required"`
}

// Add 逐个合并请求中的特点并返回最新的画像
func (s *TraitService) Add(ctx context.Context, userID int64, req *CreateProfileRequest) (*model.UserProfile, error) {
	traits := model.ParseTraits(req.Traits)
	if len(traits) == 0 {
		return nil, ErrInvalidProfile
	}
	for _, trait := range traits {
		if _, err := s.Merge(ctx, userID, req.Name, trait); err != nil {
			return nil, err
		}
	}
	return s.Lookup(ctx, userID, req.Name)
}

// List 获取用户的全部画像
func (s *TraitService) List(ctx context.Context, userID int64) ([]model.UserProfile, error) {
	profiles, err := s.profileRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if profiles == nil {
		profiles = []model.UserProfile{}
	}
	return profiles, nil
}

// UpdateProfileTraitsRequest 编辑画像请求
// 与 Merge 不同，编辑会整体替换人物名和特点
type UpdateProfileTraitsRequest struct {
	Name   string `json:"name" binding:"required,max=100"`
	Traits string `json:"traits"`
}

// Update 编辑画像
// 特点按集合规范化后写入；改名与已有画像冲突时返回 ErrProfileExists
func (s *TraitService) Update(ctx context.Context, userID, id int64, req *UpdateProfileTraitsRequest) (*model.UserProfile, error) {
	profile, err := s.profileRepo.GetByID(ctx, id, userID)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, ErrProfileNotFound
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, ErrInvalidProfile
	}
	fields := map[string]interface{}{
		"name":   name,
		"traits": model.ParseTraits(req.Traits).String(),
	}
	if err := s.profileRepo.UpdateFields(ctx, id, fields); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrProfileExists
		}
		return nil, err
	}
	return s.profileRepo.GetByID(ctx, id, userID)
}

// Delete 删除画像
func (s *TraitService) Delete(ctx context.Context, userID, id int64) error {
	deleted, err := s.profileRepo.Delete(ctx, id, userID)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrProfileNotFound
	}
	return nil
}
