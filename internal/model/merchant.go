package model

import "time"

// Merchant 商户名册，票据提取时按名字 resolve-or-create，全局去重
type Merchant struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"type:varchar(255);not null;unique" json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Merchant) TableName() string {
	return "merchants"
}
