package repository

import (
	"context"
	"errors"

	"github.com/leon37/ReceiptLedger/internal/model"
	"gorm.io/gorm"
)

// ReceiptRepo 定义接口 (为了以后方便 Mock)
type ReceiptRepo interface {
	Create(ctx context.Context, receipt *model.Receipt) error
	GetByID(ctx context.Context, id uint) (*model.Receipt, error)
	ListByUser(ctx context.Context, userID uint) ([]model.Receipt, error)
	Save(ctx context.Context, receipt *model.Receipt) error
	Delete(ctx context.Context, id uint) error

	GetOrCreateMerchant(ctx context.Context, name string) (*model.Merchant, error)
	GetMerchant(ctx context.Context, id uint) (*model.Merchant, error)
	ListMerchants(ctx context.Context) ([]model.Merchant, error)
}

type receiptRepo struct {
	db *gorm.DB
}

func NewReceiptRepo(db *gorm.DB) ReceiptRepo {
	return &receiptRepo{db: db}
}

func (r *receiptRepo) Create(ctx context.Context, receipt *model.Receipt) error {
	return r.db.WithContext(ctx).Create(receipt).Error
}

func (r *receiptRepo) GetByID(ctx context.Context, id uint) (*model.Receipt, error) {
	var receipt model.Receipt
	err := r.db.WithContext(ctx).Preload("Merchant").First(&receipt, id).Error
	if err != nil {
		return nil, err
	}
	return &receipt, nil
}

func (r *receiptRepo) ListByUser(ctx context.Context, userID uint) ([]model.Receipt, error) {
	var receipts []model.Receipt
	err := r.db.WithContext(ctx).
		Preload("Merchant").
		Where("user_id = ?", userID).
		Order("scan_date DESC").
		Find(&receipts).Error
	return receipts, err
}

func (r *receiptRepo) Save(ctx context.Context, receipt *model.Receipt) error {
	return r.db.WithContext(ctx).Save(receipt).Error
}

func (r *receiptRepo) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&model.Receipt{}, id).Error
}

// GetOrCreateMerchant 按名字找商户，没有就建一个
func (r *receiptRepo) GetOrCreateMerchant(ctx context.Context, name string) (*model.Merchant, error) {
	var merchant model.Merchant
	err := r.db.WithContext(ctx).Where("name = ?", name).First(&merchant).Error
	if err == nil {
		return &merchant, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	merchant = model.Merchant{Name: name}
	if err := r.db.WithContext(ctx).Create(&merchant).Error; err != nil {
		return nil, err
	}
	return &merchant, nil
}

func (r *receiptRepo) GetMerchant(ctx context.Context, id uint) (*model.Merchant, error) {
	var merchant model.Merchant
	if err := r.db.WithContext(ctx).First(&merchant, id).Error; err != nil {
		return nil, err
	}
	return &merchant, nil
}

func (r *receiptRepo) ListMerchants(ctx context.Context) ([]model.Merchant, error) {
	var merchants []model.Merchant
	err := r.db.WithContext(ctx).Order("name ASC").Find(&merchants).Error
	return merchants, err
}
