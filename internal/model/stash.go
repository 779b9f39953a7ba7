package model

import (
	"time"
)

// 收藏内容类型
const (
	StashTypeArticle = "article" // 文章
	StashTypeVideo   = "video"   // 视频
)

// StashContent 收藏的优质内容
// 对应数据库表 stash_content
type StashContent struct {
	ID      int64   `gorm:"primaryKey" json:"id"`
	Title   string  `gorm:"size:200;not null" json:"title"`
	URL     *string `gorm:"size:500" json:"url"`
	Type    string  `gorm:"size:20;default:article;index" json:"type"`
	Summary *string `gorm:"type:text" json:"summary"`
	Cover   *string `gorm:"size:500" json:"cover"`
	Content *string `gorm:"type:text" json:"content"`

	CreatedAt time.Time `gorm:"autoCreateTime;index" json:"created_at"`
}

// TableName 指定表名
func (StashContent) TableName() string {
	return "stash_content"
}
