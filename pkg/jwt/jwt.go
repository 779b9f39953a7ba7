// Package jwt 签发和校验账号令牌
// Access Token 用于接口与 WebSocket 认证，Refresh Token 只能换取新的 Access Token
package jwt

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token has expired")
)

// UserClaims 令牌中携带的账号信息
type UserClaims struct {
	UserID   int64  `json:"user_id"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}

const issuer = "pocket-assistant"

// 令牌用途，写入 sub
const (
	subjectAccess  = "access"
	subjectRefresh = "refresh"
)

// JWTService 使用 HS256 签发令牌
type JWTService struct {
	secret        []byte
	accessExpire  time.Duration
	refreshExpire time.Duration
}

// NewJWTService 创建 JWTService 实例
// 参数:
//   - secret: 签名密钥，至少 32 个字符
//   - accessExpire: Access Token 有效期
//   - refreshExpire: Refresh Token 有效期
func NewJWTService(secret string, accessExpire, refreshExpire time.Duration) *JWTService {
	return &JWTService{
		secret:        []byte(secret),
		accessExpire:  accessExpire,
		refreshExpire: refreshExpire,
	}
}

// GenerateAccessToken 签发 Access Token
func (s *JWTService) GenerateAccessToken(userID int64, username string) (string, error) {
	return s.issue(userID, username, subjectAccess, s.accessExpire)
}

// GenerateRefreshToken 签发 Refresh Token
func (s *JWTService) GenerateRefreshToken(userID int64, username string) (string, error) {
	return s.issue(userID, username, subjectRefresh, s.refreshExpire)
}

// issue 每个令牌带独立的 jti，同一秒签发的令牌也互不相同
func (s *JWTService) issue(userID int64, username, subject string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := UserClaims{
		UserID:   userID,
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    issuer,
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

// ValidateToken 校验 Access Token
// 返回:
//   - *UserClaims: 令牌中的账号信息
//   - error: ErrExpiredToken，或签名错误、用途不符时的 ErrInvalidToken
func (s *JWTService) ValidateToken(tokenString string) (*UserClaims, error) {
	return s.parse(tokenString, subjectAccess)
}

// ValidateRefreshToken 校验 Refresh Token
func (s *JWTService) ValidateRefreshToken(tokenString string) (*UserClaims, error) {
	return s.parse(tokenString, subjectRefresh)
}

func (s *JWTService) parse(tokenString, subject string) (*UserClaims, error) {
	claims := &UserClaims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithSubject(subject),
	)
	switch {
	case err == nil:
		return claims, nil
	case errors.Is(err, jwt.ErrTokenExpired):
		return nil, ErrExpiredToken
	default:
		return nil, ErrInvalidToken
	}
}

// GetAccessExpire Access Token 有效期
func (s *JWTService) GetAccessExpire() time.Duration {
	return s.accessExpire
}

// GetRefreshExpire Refresh Token 有效期
func (s *JWTService) GetRefreshExpire() time.Duration {
	return s.refreshExpire
}
