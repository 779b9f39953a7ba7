// Package service 提供业务逻辑层的实现
// 协调 Repository、缓存和助手路由图
package service

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"pocket-assistant/internal/cache"
	"pocket-assistant/internal/model"
	"pocket-assistant/internal/repository"
	"pocket-assistant/pkg/jwt"
	"pocket-assistant/pkg/util"
)

// 账号相关的业务错误
var (
	ErrUserExists    = errors.New("用户名已存在")
	ErrUserNotFound  = errors.New("用户不存在")
	ErrPasswordWrong = errors.New("密码错误")
	ErrUserDisabled  = errors.New("账号已被禁用")
)

// AuthService 账号注册与令牌签发
// 登出的令牌以哈希形式进入缓存黑名单
type AuthService struct {
	users  *repository.UserRepository
	tokens cache.Cache
	jwt    *jwt.JWTService
}

// NewAuthService 创建 AuthService 实例
func NewAuthService(userRepo *repository.UserRepository, c cache.Cache, jwtService *jwt.JWTService) *AuthService {
	return &AuthService{users: userRepo, tokens: c, jwt: jwtService}
}

// RegisterRequest 注册请求
type RegisterRequest struct {
	Username string `json:"username" binding:"required,min=3,max=50"`
	Password string `json:"password" binding:"required,min=6"`
}

// RegisterResponse 注册结果
type RegisterResponse struct {
	UserID   int64  `json:"user_id"`
	Username string `json:"username"`
}

// Register 创建账号，用户名由唯一索引保证不重复
func (s *AuthService) Register(ctx context.Context, req *RegisterRequest) (*RegisterResponse, error) {
	hash, err := util.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		Username:     req.Username,
		PasswordHash: hash,
		Status:       model.UserStatusActive,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrUserExists
		}
		return nil, err
	}
	return &RegisterResponse{UserID: user.ID, Username: user.Username}, nil
}

// LoginRequest 登录请求
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse 登录结果
type LoginResponse struct {
	AccessToken  string      `json:"access_token"`
	RefreshToken string      `json:"refresh_token"`
	ExpiresIn    int64       `json:"expires_in"` // Access Token 有效期（秒）
	User         *model.User `json:"user"`
}

// Login 校验用户名密码并签发一对令牌
// 返回:
//   - error: ErrUserNotFound / ErrPasswordWrong / ErrUserDisabled
func (s *AuthService) Login(ctx context.Context, req *LoginRequest) (*LoginResponse, error) {
	user, err := s.users.FindByUsername(ctx, req.Username)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	if !util.CheckPassword(req.Password, user.PasswordHash) {
		return nil, ErrPasswordWrong
	}
	if err := checkActive(user); err != nil {
		return nil, err
	}

	access, err := s.jwt.GenerateAccessToken(user.ID, user.Username)
	if err != nil {
		return nil, err
	}
	refresh, err := s.jwt.GenerateRefreshToken(user.ID, user.Username)
	if err != nil {
		return nil, err
	}
	return &LoginResponse{
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresIn:    s.accessTTL(),
		User:         user,
	}, nil
}

// Logout 把令牌哈希加入黑名单，直到令牌自然过期
func (s *AuthService) Logout(ctx context.Context, tokenHash string, expireAt time.Time) error {
	return s.tokens.BlacklistToken(ctx, tokenHash, expireAt)
}

// RefreshTokenResponse 刷新结果
type RefreshTokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int64  `json:"expires_in"`
}

// RefreshToken 用 Refresh Token 换取新的 Access Token
// 已登出的 Refresh Token 视为无效，账号被删除或禁用时同样拒绝
func (s *AuthService) RefreshToken(ctx context.Context, refreshToken string) (*RefreshTokenResponse, error) {
	claims, err := s.jwt.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, err
	}
	if s.tokens.IsTokenBlacklisted(ctx, util.HashToken(refreshToken)) {
		return nil, jwt.ErrInvalidToken
	}

	user, err := s.users.FindByID(ctx, claims.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	if err := checkActive(user); err != nil {
		return nil, err
	}

	access, err := s.jwt.GenerateAccessToken(user.ID, user.Username)
	if err != nil {
		return nil, err
	}
	return &RefreshTokenResponse{AccessToken: access, ExpiresIn: s.accessTTL()}, nil
}

func (s *AuthService) accessTTL() int64 {
	return int64(s.jwt.GetAccessExpire().Seconds())
}

func checkActive(user *model.User) error {
	if !user.Active() {
		return ErrUserDisabled
	}
	return nil
}
