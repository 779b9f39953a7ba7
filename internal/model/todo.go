package model

import (
	"time"
)

// Todo 待办事项模型
// 对应数据库表 todos
type Todo struct {
	// ID 待办唯一标识，自增主键
	ID int64 `gorm:"primaryKey" json:"id"`

	// Title 待办内容
	Title string `gorm:"size:500;not null;index" json:"content"`

	// Completed 是否已完成
	Completed bool `gorm:"default:false" json:"completed"`

	// RemindAt 提醒时间，可以为空
	RemindAt *time.Time `json:"remind_at,omitempty"`

	// UserID 所属用户ID
	UserID int64 `gorm:"index;not null" json:"user_id"`

	// CreatedAt 创建时间
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// TableName 指定表名
func (Todo) TableName() string {
	return "todos"
}
