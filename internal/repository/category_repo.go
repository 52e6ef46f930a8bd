package repository

import (
	"context"

	"github.com/leon37/ReceiptLedger/internal/model"
	"gorm.io/gorm"
)

// CategoryCost 按分类聚合的消费金额
type CategoryCost struct {
	CategoryID uint    `json:"category_id"`
	Name       string  `json:"name"`
	Cost       float64 `json:"cost"`
}

// CategoryRepo 定义接口 (为了以后方便 Mock)
type CategoryRepo interface {
	Create(ctx context.Context, category *model.Category) error
	GetByID(ctx context.Context, id uint) (*model.Category, error)
	GetByName(ctx context.Context, userID uint, name string) (*model.Category, error)
	ListByUser(ctx context.Context, userID uint) ([]model.Category, error)
	Save(ctx context.Context, category *model.Category) error
	Delete(ctx context.Context, id uint) error
	CountChildren(ctx context.Context, id uint) (int64, error)
	CountItemsUsing(ctx context.Context, id uint) (int64, error)
	AggregateCosts(ctx context.Context, userID uint) ([]CategoryCost, error)
}

type categoryRepo struct {
	db *gorm.DB
}

func NewCategoryRepo(db *gorm.DB) CategoryRepo {
	return &categoryRepo{db: db}
}

func (r *categoryRepo) Create(ctx context.Context, category *model.Category) error {
	return r.db.WithContext(ctx).Create(category).Error
}

func (r *categoryRepo) GetByID(ctx context.Context, id uint) (*model.Category, error) {
	var category model.Category
	if err := r.db.WithContext(ctx).First(&category, id).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

func (r *categoryRepo) GetByName(ctx context.Context, userID uint, name string) (*model.Category, error) {
	var category model.Category
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND name = ?", userID, name).
		First(&category).Error
	if err != nil {
		return nil, err
	}
	return &category, nil
}

func (r *categoryRepo) ListByUser(ctx context.Context, userID uint) ([]model.Category, error) {
	var categories []model.Category
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("id ASC").
		Find(&categories).Error
	return categories, err
}

func (r *categoryRepo) Save(ctx context.Context, category *model.Category) error {
	return r.db.WithContext(ctx).Save(category).Error
}

func (r *categoryRepo) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&model.Category{}, id).Error
}

func (r *categoryRepo) CountChildren(ctx context.Context, id uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.Category{}).
		Where("parent_id = ?", id).
		Count(&count).Error
	return count, err
}

func (r *categoryRepo) CountItemsUsing(ctx context.Context, id uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.Item{}).
		Where("category_id = ?", id).
		Count(&count).Error
	return count, err
}

// AggregateCosts 按分类求和 Item.price，按分类 id 升序
// 没有条目的分类不会出现在结果里
func (r *categoryRepo) AggregateCosts(ctx context.Context, userID uint) ([]CategoryCost, error) {
	var costs []CategoryCost
	err := r.db.WithContext(ctx).
		Model(&model.Item{}).
		Select("categories.id AS category_id, categories.name AS name, SUM(items.price) AS cost").
		Joins("JOIN categories ON categories.id = items.category_id").
		Where("items.user_id = ?", userID).
		Group("categories.id, categories.name").
		Order("categories.id ASC").
		Scan(&costs).Error
	return costs, err
}
