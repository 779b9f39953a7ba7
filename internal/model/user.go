// Package model 定义数据库表对应的 GORM 模型
// 迁移由 database.Migrate 统一执行
package model

import "time"

// 账号状态
const (
	UserStatusDisabled int8 = 0
	UserStatusActive   int8 = 1
)

// User 账号，表 users
// 对话和画像中的 user_id 指向这里的 ID，但匿名请求使用的默认用户不要求存在对应账号
type User struct {
	ID           int64     `gorm:"primaryKey" json:"id"`
	Username     string    `gorm:"size:50;uniqueIndex;not null" json:"username"`
	PasswordHash string    `gorm:"size:255;not null" json:"-"` // bcrypt
	Status       int8      `gorm:"default:1" json:"status"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// TableName 表名
func (User) TableName() string {
	return "users"
}

// Active 账号是否可以登录
func (u *User) Active() bool {
	return u.Status == UserStatusActive
}
