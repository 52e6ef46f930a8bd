package model

import "time"

// Rule 用户自定义的正则 → 分类映射
// 提取流水线创建 Item 后，对还没有分类的条目按 Pattern 匹配自动打标
type Rule struct {
	ID      uint   `gorm:"primaryKey" json:"id"`
	UserID  uint   `gorm:"not null;index" json:"user_id"`
	Pattern string `gorm:"type:varchar(255);not null" json:"pattern"`

	CategoryID uint      `gorm:"not null" json:"category_id"`
	Category   *Category `gorm:"foreignKey:CategoryID" json:"category,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Rule) TableName() string {
	return "rules"
}
