package service

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"pocket-assistant/internal/model"
	"pocket-assistant/internal/repository"
	"pocket-assistant/pkg/util"
)

// UserService 账号资料
type UserService struct {
	users *repository.UserRepository
}

// NewUserService 创建 UserService 实例
func NewUserService(userRepo *repository.UserRepository) *UserService {
	return &UserService{users: userRepo}
}

// UserBrief 用户列表中的简要信息
type UserBrief struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
}

// ListUsers 列出全部账号，没有账号时返回空列表
func (s *UserService) ListUsers(ctx context.Context) ([]UserBrief, error) {
	users, err := s.users.ListBriefs(ctx)
	if err != nil {
		return nil, err
	}
	briefs := make([]UserBrief, 0, len(users))
	for _, u := range users {
		briefs = append(briefs, UserBrief{ID: u.ID, Username: u.Username})
	}
	return briefs, nil
}

// GetProfile 获取当前账号
// 账号不存在时返回 ErrUserNotFound
func (s *UserService) GetProfile(ctx context.Context, userID int64) (*model.User, error) {
	return s.mustFind(ctx, userID)
}

// UpdateProfileRequest 更新账号资料
type UpdateProfileRequest struct {
	Username *string `json:"username" binding:"omitempty,min=3,max=50"`
}

// UpdateProfile 修改用户名
// 参数:
//   - userID: 当前账号
//   - req: Username 为空或与原值相同时不做修改
//
// 返回:
//   - *model.User: 修改后的账号
//   - error: 新用户名被占用时返回 ErrUserExists
func (s *UserService) UpdateProfile(ctx context.Context, userID int64, req *UpdateProfileRequest) (*model.User, error) {
	user, err := s.mustFind(ctx, userID)
	if err != nil {
		return nil, err
	}
	if req.Username == nil || *req.Username == user.Username {
		return user, nil
	}

	if err := s.users.Rename(ctx, userID, *req.Username); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrUserExists
		}
		return nil, err
	}
	user.Username = *req.Username
	return user, nil
}

// ChangePasswordRequest 修改密码请求
type ChangePasswordRequest struct {
	OldPassword string `json:"old_password" binding:"required"`
	NewPassword string `json:"new_password" binding:"required,min=6"`
}

// ChangePassword 校验旧密码后替换为新密码
func (s *UserService) ChangePassword(ctx context.Context, userID int64, req *ChangePasswordRequest) error {
	user, err := s.mustFind(ctx, userID)
	if err != nil {
		return err
	}
	if !util.CheckPassword(req.OldPassword, user.PasswordHash) {
		return ErrPasswordWrong
	}

	hash, err := util.HashPassword(req.NewPassword)
	if err != nil {
		return err
	}
	return s.users.SetPasswordHash(ctx, userID, hash)
}

func (s *UserService) mustFind(ctx context.Context, userID int64) (*model.User, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}
