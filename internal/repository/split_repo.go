package repository

import (
	"context"

	"github.com/leon37/ReceiptLedger/internal/model"
	"gorm.io/gorm"
)

type SplitRepository struct {
	db *gorm.DB
}

func NewSplitRepository(db *gorm.DB) *SplitRepository {
	return &SplitRepository{db: db}
}

func (r *SplitRepository) CreateItemSplit(ctx context.Context, split *model.ItemSplit) error {
	return r.db.WithContext(ctx).Create(split).Error
}

// GetItemSplit 按 item id 查分摊，没有返回 gorm.ErrRecordNotFound
func (r *SplitRepository) GetItemSplit(ctx context.Context, itemID uint) (*model.ItemSplit, error) {
	var split model.ItemSplit
	err := r.db.WithContext(ctx).Where("item_id = ?", itemID).First(&split).Error
	if err != nil {
		return nil, err
	}
	return &split, nil
}

func (r *SplitRepository) DeleteItemSplit(ctx context.Context, itemID uint) error {
	return r.db.WithContext(ctx).
		Where("item_id = ?", itemID).
		Delete(&model.ItemSplit{}).Error
}

func (r *SplitRepository) CreateReceiptSplit(ctx context.Context, split *model.ReceiptSplit) error {
	return r.db.WithContext(ctx).Create(split).Error
}

func (r *SplitRepository) GetReceiptSplit(ctx context.Context, receiptID uint) (*model.ReceiptSplit, error) {
	var split model.ReceiptSplit
	err := r.db.WithContext(ctx).Where("receipt_id = ?", receiptID).First(&split).Error
	if err != nil {
		return nil, err
	}
	return &split, nil
}

func (r *SplitRepository) DeleteReceiptSplit(ctx context.Context, receiptID uint) error {
	return r.db.WithContext(ctx).
		Where("receipt_id = ?", receiptID).
		Delete(&model.ReceiptSplit{}).Error
}
