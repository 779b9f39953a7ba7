package service

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"pocket-assistant/internal/model"
	"pocket-assistant/internal/repository"
)

// 订阅操作的结果提示
const (
	MsgSubscribed       = "订阅成功"
	MsgAlreadySubscribe = "已订阅"
	MsgUnsubscribed     = "已取消订阅"
	MsgNotSubscribed    = "未订阅"
)

// ErrEmptyCategory 分类为空
var ErrEmptyCategory = errors.New("分类不能为空")

// SubscriptionService 内容分类订阅服务
type SubscriptionService struct {
	subRepo *repository.SubscriptionRepository
}

// NewSubscriptionService 创建 SubscriptionService 实例
func NewSubscriptionService(subRepo *repository.SubscriptionRepository) *SubscriptionService {
	return &SubscriptionService{subRepo: subRepo}
}

// Subscribe 订阅分类，重复订阅不报错
// 返回:
//   - string: MsgSubscribed 或 MsgAlreadySubscribe
func (s *SubscriptionService) Subscribe(ctx context.Context, userID int64, category string) (string, error) {
	category = strings.TrimSpace(category)
	if category == "" {
		return "", ErrEmptyCategory
	}

	exists, err := s.subRepo.Exists(ctx, userID, category)
	if err != nil {
		return "", err
	}
	if exists {
		return MsgAlreadySubscribe, nil
	}

	err = s.subRepo.Create(ctx, &model.CategorySubscription{UserID: userID, Category: category})
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return MsgAlreadySubscribe, nil
	}
	if err != nil {
		return "", err
	}
	return MsgSubscribed, nil
}

// Unsubscribe 取消订阅
// 返回:
//   - string: MsgUnsubscribed 或 MsgNotSubscribed
func (s *SubscriptionService) Unsubscribe(ctx context.Context, userID int64, category string) (string, error) {
	deleted, err := s.subRepo.Delete(ctx, userID, strings.TrimSpace(category))
	if err != nil {
		return "", err
	}
	if !deleted {
		return MsgNotSubscribed, nil
	}
	return MsgUnsubscribed, nil
}

// Categories 获取用户订阅的全部分类
func (s *SubscriptionService) Categories(ctx context.Context, userID int64) ([]string, error) {
	categories, err := s.subRepo.ListCategories(ctx, userID)
	if err != nil {
		return nil, err
	}
	if categories == nil {
		categories = []string{}
	}
	return categories, nil
}
