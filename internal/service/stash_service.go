package service

import (
	"context"
	"errors"

	"pocket-assistant/internal/model"
	"pocket-assistant/internal/repository"
)

// ErrStashNotFound 收藏内容不存在
var ErrStashNotFound = errors.New("内容未找到")

// StashService 收藏内容服务
type StashService struct {
	stashRepo *repository.StashRepository
}

// NewStashService 创建 StashService 实例
func NewStashService(stashRepo *repository.StashRepository) *StashService {
	return &StashService{stashRepo: stashRepo}
}

// CreateStashRequest 新增收藏请求
type CreateStashRequest struct {
	Title   string  `json:"title" binding:"required,max=200"`
	URL     *string `json:"url" binding:"omitempty,url"`
	Type    string  `json:"type" binding:"omitempty,oneof=article video"`
	Summary *string `json:"summary"`
	Cover   *string `json:"cover"`
	Content *string `json:"content"`
}

// Create 新增收藏，类型缺省为文章
func (s *StashService) Create(ctx context.Context, req *CreateStashRequest) (*model.StashContent, error) {
	item := &model.StashContent{
		Title:   req.Title,
		URL:     req.URL,
		Type:    req.Type,
		Summary: req.Summary,
		Cover:   req.Cover,
		Content: req.Content,
	}
	if item.Type == "" {
		item.Type = model.StashTypeArticle
	}
	if err := s.stashRepo.Create(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

// List 按类型获取收藏，最新的在前
func (s *StashService) List(ctx context.Context, contentType string) ([]model.StashContent, error) {
	items, err := s.stashRepo.List(ctx, contentType)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []model.StashContent{}
	}
	return items, nil
}

// Delete 删除收藏
func (s *StashService) Delete(ctx context.Context, id int64) error {
	deleted, err := s.stashRepo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrStashNotFound
	}
	return nil
}
