package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// SplitShare 一个人的分摊份额
// 顺序即语义：Shares 里第 i 个用户对应第 i 笔金额，序列化也保持顺序
type SplitShare struct {
	UserID uint            `json:"user_id"`
	Amount decimal.Decimal `json:"amount"`
}

// SplitShares 以 JSON 列整体落库，避免把 id 列表和金额列表拆成两个逗号分隔字符串
type SplitShares []SplitShare

func (s SplitShares) Value() (driver.Value, error) {
	b, err := json.Marshal(s)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (s *SplitShares) Scan(value interface{}) error {
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, s)
	case string:
		return json.Unmarshal([]byte(v), s)
	case nil:
		*s = nil
		return nil
	default:
		return fmt.Errorf("无法将 %T 解析为 SplitShares", value)
	}
}

// UserIDs 按存储顺序返回被分摊用户的 id
func (s SplitShares) UserIDs() []uint {
	ids := make([]uint, 0, len(s))
	for _, share := range s {
		ids = append(ids, share.UserID)
	}
	return ids
}

// Contains 判断某个用户是否在分摊列表里
func (s SplitShares) Contains(userID uint) bool {
	for _, share := range s {
		if share.UserID == userID {
			return true
		}
	}
	return false
}

// ItemSplit 行项目级别的分摊，和 Item 一对一
type ItemSplit struct {
	ID     uint `gorm:"primaryKey" json:"id"`
	ItemID uint `gorm:"not null;uniqueIndex" json:"item_id"`
	UserID uint `gorm:"not null;index" json:"user_id"`

	Shares SplitShares `gorm:"type:json" json:"shares"`

	// SharedWithOwner 创建时推导：所有者 id 是否出现在分摊列表里，不接受外部传入
	SharedWithOwner bool `json:"is_shared_with_item_user"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (ItemSplit) TableName() string {
	return "item_splits"
}

// ReceiptSplit 整张票据级别的分摊，和 Receipt 一对一
type ReceiptSplit struct {
	ID        uint `gorm:"primaryKey" json:"id"`
	ReceiptID uint `gorm:"not null;uniqueIndex" json:"receipt_id"`
	UserID    uint `gorm:"not null;index" json:"user_id"`

	Shares SplitShares `gorm:"type:json" json:"shares"`

	SharedWithOwner bool `json:"is_shared_with_receipt_user"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (ReceiptSplit) TableName() string {
	return "receipt_splits"
}
