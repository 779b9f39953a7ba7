package model

import (
	"strings"
	"time"
)

// 特点前缀，表示喜好的极性
const (
	TraitPrefixLike    = "喜欢"
	TraitPrefixDislike = "讨厌"
)

// TraitSeparator 特点列表写入数据库时使用的规范分隔符
const TraitSeparator = ", "

// legacySeparators 历史数据中出现过的分隔符
var legacySeparators = strings.NewReplacer(";", ",", "\n", ",")

// UserProfile 人脉画像模型
// 对应数据库表 user_profiles
// 记录某个用户（UserID）认识的人（Name）的喜好与厌恶
// (user_id, name) 组合唯一
type UserProfile struct {
	// ID 画像唯一标识，自增主键
	ID int64 `gorm:"primaryKey" json:"id"`

	// Name 人物名或称呼，如 "陈总"、"张三"
	Name string `gorm:"size:100;not null;uniqueIndex:idx_profile_owner_name,priority:2" json:"name"`

	// Traits 特点列表，以 ", " 连接的字符串
	// 如 "喜欢喝酒, 讨厌跑步"
	Traits string `gorm:"type:text" json:"traits"`

	// UserID 所属用户ID
	UserID int64 `gorm:"not null;index;uniqueIndex:idx_profile_owner_name,priority:1" json:"user_id"`

	// CreatedAt 创建时间
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// TableName 指定表名
func (UserProfile) TableName() string {
	return "user_profiles"
}

// TraitSet 返回解析后的特点集合
func (p *UserProfile) TraitSet() TraitSet {
	return ParseTraits(p.Traits)
}

// TraitSet 有序、去重的特点集合
type TraitSet []string

// ParseTraits 解析数据库中的特点字符串
// 兼容逗号、分号、换行三种分隔符，去除空白和空项，保留首次出现的顺序
func ParseTraits(s string) TraitSet {
	var set TraitSet
	for _, t := range strings.Split(legacySeparators.Replace(s), ",") {
		set = set.Add(t)
	}
	return set
}

// Contains 判断集合中是否已有等价的特点（比较前去除首尾空白）
func (s TraitSet) Contains(trait string) bool {
	trait = strings.TrimSpace(trait)
	for _, t := range s {
		if t == trait {
			return true
		}
	}
	return false
}

// Add 追加特点，已存在或为空时原样返回
func (s TraitSet) Add(trait string) TraitSet {
	trait = strings.TrimSpace(trait)
	if trait == "" || s.Contains(trait) {
		return s
	}
	return append(s, trait)
}

// String 以规范分隔符序列化
func (s TraitSet) String() string {
	return strings.Join(s, TraitSeparator)
}

// NormalizeTrait 生成规范的特点字符串：极性前缀 + 去除空白的对象
// 对象中的半角分隔符替换为全角逗号，避免再次解析时被拆开
func NormalizeTrait(prefix, object string) string {
	object = strings.TrimSpace(object)
	object = strings.NewReplacer(",", "，", ";", "；", "\n", " ").Replace(object)
	return prefix + object
}
