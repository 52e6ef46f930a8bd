package model

import "time"

// Item 票据上的一条行项目
// 可以通过 API 直接创建，也可以由提取流水线批量生成
type Item struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	ReceiptID uint   `gorm:"not null;index" json:"receipt_id"`
	UserID    uint   `gorm:"not null;index" json:"user_id"`
	Name      string `gorm:"type:varchar(255);not null" json:"name"`

	Price float64 `gorm:"type:decimal(10,2)" json:"price"`

	CategoryID *uint     `gorm:"index" json:"category_id"`
	Category   *Category `gorm:"foreignKey:CategoryID" json:"category,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Item) TableName() string {
	return "items"
}

// ImportantDate 挂在某个 Item 上的日期提醒（比如保修截止日）
type ImportantDate struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	UserID      uint      `gorm:"not null;index" json:"user_id"`
	ItemID      uint      `gorm:"not null;index" json:"item_id"`
	Date        time.Time `json:"date"`
	Description string    `gorm:"type:varchar(255)" json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (ImportantDate) TableName() string {
	return "important_dates"
}
