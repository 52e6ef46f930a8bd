package model

import "time"

// 票据处理状态
const (
	ReceiptStatusPending   = "pending"   // 刚上传，还没跑提取
	ReceiptStatusProcessed = "processed" // 提取流水线走完
	ReceiptStatusFailed    = "failed"    // 外部提取服务报错，票据保持未充实状态
)

// Receipt 一张上传的票据
// 生命周期：上传创建 → 提取流水线恰好充实一次（商户/税费/行项目）→ 之后只接受显式编辑
type Receipt struct {
	ID     uint `gorm:"primaryKey" json:"id"`
	UserID uint `gorm:"not null;index" json:"user_id"`

	ScanDate  time.Time `json:"scan_date"`
	ImagePath string    `gorm:"type:varchar(512)" json:"image_path"`

	MerchantID *uint     `gorm:"index" json:"merchant_id"`
	Merchant   *Merchant `gorm:"foreignKey:MerchantID" json:"merchant,omitempty"`

	Total    float64 `gorm:"type:decimal(10,2)" json:"total"`
	Tax      float64 `gorm:"type:decimal(10,2)" json:"tax"`
	Tip      float64 `gorm:"type:decimal(10,2)" json:"tip"`
	Coupon   float64 `gorm:"type:decimal(10,2)" json:"coupon"`
	Currency string  `gorm:"type:varchar(8)" json:"currency"`

	// ExtractedText 提取流水线累积的人类可读轨迹，原样落库
	ExtractedText string `gorm:"type:text" json:"extracted_text"`
	Status        string `gorm:"type:varchar(16);default:pending" json:"status"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Receipt) TableName() string {
	return "receipts"
}
