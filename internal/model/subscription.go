package model

import (
	"time"
)

// CategorySubscription 用户订阅的内容分类
// 对应数据库表 user_category_subscription
// 分类如 health、industry_report、finance_analysis
type CategorySubscription struct {
	ID        int64     `gorm:"primaryKey" json:"id"`
	UserID    int64     `gorm:"not null;uniqueIndex:idx_subscription_user_category,priority:1" json:"user_id"`
	Category  string    `gorm:"size:50;not null;uniqueIndex:idx_subscription_user_category,priority:2" json:"category"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// TableName 指定表名
func (CategorySubscription) TableName() string {
	return "user_category_subscription"
}
