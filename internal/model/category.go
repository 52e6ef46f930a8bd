package model

import "time"

// Category 两级分类树：ParentID 为空的是一级分类，否则是其子分类
// (UserID, Name) 联合唯一，每个用户一套自己的分类
type Category struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	UserID   uint   `gorm:"not null;uniqueIndex:idx_user_category_name" json:"user_id"`
	Name     string `gorm:"type:varchar(100);not null;uniqueIndex:idx_user_category_name" json:"name"`
	ParentID *uint  `gorm:"index" json:"parent_id"`
	Starred  bool   `gorm:"default:false" json:"starred"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Category) TableName() string {
	return "categories"
}

// FallbackCategoryName 分类服务返回空标签或未知标签时的兜底分类
const FallbackCategoryName = "Other"

// DefaultCategories 注册时为每个新用户播种的默认分类
var DefaultCategories = []string{
	"Food", "Transport", "Housing", "Clothing",
	"Entertainment", "Electronics", "Health", "Social",
	"Education", "Finance", FallbackCategoryName,
}
