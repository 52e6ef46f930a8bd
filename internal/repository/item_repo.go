package repository

import (
	"context"
	"time"

	"github.com/leon37/ReceiptLedger/internal/model"
	"gorm.io/gorm"
)

// ItemFilter 查询条件，零值字段表示不过滤
// 日期区间针对的是所属票据的 scan_date，两端都含
type ItemFilter struct {
	UserID           uint
	StartDate        time.Time
	EndDate          time.Time
	MinPrice         *float64
	MaxPrice         *float64
	MerchantContains string
	MerchantID       uint
}

type ItemRepo interface {
	Create(ctx context.Context, item *model.Item) error
	CreateBatch(ctx context.Context, items []model.Item) error
	GetByID(ctx context.Context, id uint) (*model.Item, error)
	ListByReceipt(ctx context.Context, receiptID uint) ([]model.Item, error)
	Save(ctx context.Context, item *model.Item) error
	Delete(ctx context.Context, id uint) error
	Filter(ctx context.Context, filter ItemFilter) ([]model.Item, error)

	CreateImportantDate(ctx context.Context, date *model.ImportantDate) error
	GetImportantDate(ctx context.Context, id uint) (*model.ImportantDate, error)
	ListImportantDates(ctx context.Context, userID uint) ([]model.ImportantDate, error)
	SaveImportantDate(ctx context.Context, date *model.ImportantDate) error
	DeleteImportantDate(ctx context.Context, id uint) error
}

type itemRepo struct {
	db *gorm.DB
}

func NewItemRepo(db *gorm.DB) ItemRepo {
	return &itemRepo{db: db}
}

func (r *itemRepo) Create(ctx context.Context, item *model.Item) error {
	return r.db.WithContext(ctx).Create(item).Error
}

func (r *itemRepo) CreateBatch(ctx context.Context, items []model.Item) error {
	if len(items) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&items).Error
}

func (r *itemRepo) GetByID(ctx context.Context, id uint) (*model.Item, error) {
	var item model.Item
	err := r.db.WithContext(ctx).Preload("Category").First(&item, id).Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *itemRepo) ListByReceipt(ctx context.Context, receiptID uint) ([]model.Item, error) {
	var items []model.Item
	err := r.db.WithContext(ctx).
		Where("receipt_id = ?", receiptID).
		Order("id ASC").
		Find(&items).Error
	return items, err
}

func (r *itemRepo) Save(ctx context.Context, item *model.Item) error {
	return r.db.WithContext(ctx).Save(item).Error
}

func (r *itemRepo) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&model.Item{}, id).Error
}

// Filter 组合查询，所有条件 AND 相连
func (r *itemRepo) Filter(ctx context.Context, filter ItemFilter) ([]model.Item, error) {
	query := r.db.WithContext(ctx).
		Model(&model.Item{}).
		Joins("JOIN receipts ON receipts.id = items.receipt_id").
		Where("items.user_id = ?", filter.UserID)

	if !filter.StartDate.IsZero() {
		query = query.Where("receipts.scan_date >= ?", filter.StartDate)
	}
	if !filter.EndDate.IsZero() {
		query = query.Where("receipts.scan_date <= ?", filter.EndDate)
	}
	if filter.MinPrice != nil {
		query = query.Where("items.price >= ?", *filter.MinPrice)
	}
	if filter.MaxPrice != nil {
		query = query.Where("items.price <= ?", *filter.MaxPrice)
	}
	if filter.MerchantID != 0 {
		query = query.Where("receipts.merchant_id = ?", filter.MerchantID)
	}
	if filter.MerchantContains != "" {
		query = query.
			Joins("JOIN merchants ON merchants.id = receipts.merchant_id").
			Where("merchants.name LIKE ?", "%"+filter.MerchantContains+"%")
	}

	var items []model.Item
	err := query.Order("items.id ASC").Find(&items).Error
	return items, err
}

func (r *itemRepo) CreateImportantDate(ctx context.Context, date *model.ImportantDate) error {
	return r.db.WithContext(ctx).Create(date).Error
}

func (r *itemRepo) GetImportantDate(ctx context.Context, id uint) (*model.ImportantDate, error) {
	var date model.ImportantDate
	if err := r.db.WithContext(ctx).First(&date, id).Error; err != nil {
		return nil, err
	}
	return &date, nil
}

func (r *itemRepo) ListImportantDates(ctx context.Context, userID uint) ([]model.ImportantDate, error) {
	var dates []model.ImportantDate
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("date ASC").
		Find(&dates).Error
	return dates, err
}

func (r *itemRepo) SaveImportantDate(ctx context.Context, date *model.ImportantDate) error {
	return r.db.WithContext(ctx).Save(date).Error
}

func (r *itemRepo) DeleteImportantDate(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&model.ImportantDate{}, id).Error
}
