package repository

import (
	"context"

	"github.com/leon37/ReceiptLedger/internal/model"
	"gorm.io/gorm"
)

type RuleRepository struct {
	db *gorm.DB
}

func NewRuleRepository(db *gorm.DB) *RuleRepository {
	return &RuleRepository{db: db}
}

func (r *RuleRepository) Create(ctx context.Context, rule *model.Rule) error {
	return r.db.WithContext(ctx).Create(rule).Error
}

func (r *RuleRepository) GetByID(ctx context.Context, id uint) (*model.Rule, error) {
	var rule model.Rule
	if err := r.db.WithContext(ctx).Preload("Category").First(&rule, id).Error; err != nil {
		return nil, err
	}
	return &rule, nil
}

func (r *RuleRepository) ListByUser(ctx context.Context, userID uint) ([]model.Rule, error) {
	var rules []model.Rule
	err := r.db.WithContext(ctx).
		Preload("Category").
		Where("user_id = ?", userID).
		Order("id ASC").
		Find(&rules).Error
	return rules, err
}

func (r *RuleRepository) Save(ctx context.Context, rule *model.Rule) error {
	return r.db.WithContext(ctx).Save(rule).Error
}

func (r *RuleRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&model.Rule{}, id).Error
}
