package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/leon37/ReceiptLedger/internal/model"
	"github.com/leon37/ReceiptLedger/internal/repository"
	"gorm.io/gorm"
)

// CategoryService 管理每个用户自己的两级分类树
type CategoryService struct {
	repo repository.CategoryRepo
}

func NewCategoryService(repo repository.CategoryRepo) *CategoryService {
	return &CategoryService{repo: repo}
}

// Add 新建分类
// (user, name) 已存在 → ErrDuplicateCategory
// parentID 指向别人的分类或指向一个子分类 → 拒绝（树只有两层）
func (s *CategoryService) Add(ctx context.Context, userID uint, name string, parentID *uint, starred bool) (*model.Category, error) {
	if _, err := s.repo.GetByName(ctx, userID, name); err == nil {
		return nil, ErrDuplicateCategory
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	if parentID != nil {
		parent, err := s.repo.GetByID(ctx, *parentID)
		if err != nil {
			return nil, ErrCategoryNotFound
		}
		if parent.UserID != userID {
			return nil, ErrNotOwner
		}
		if parent.ParentID != nil {
			return nil, ErrCategoryDepth
		}
	}

	category := &model.Category{
		UserID:   userID,
		Name:     name,
		ParentID: parentID,
		Starred:  starred,
	}
	if err := s.repo.Create(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}

// Delete 删除分类
// 有子分类 → ErrParentCategory；还有 Item 引用 → ErrCategoryInUse
func (s *CategoryService) Delete(ctx context.Context, userID uint, name string) error {
	category, err := s.repo.GetByName(ctx, userID, name)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCategoryNotFound
		}
		return err
	}

	children, err := s.repo.CountChildren(ctx, category.ID)
	if err != nil {
		return err
	}
	if children > 0 {
		return ErrParentCategory
	}

	inUse, err := s.repo.CountItemsUsing(ctx, category.ID)
	if err != nil {
		return err
	}
	if inUse > 0 {
		return ErrCategoryInUse
	}

	return s.repo.Delete(ctx, category.ID)
}

// ToggleStar 翻转星标
func (s *CategoryService) ToggleStar(ctx context.Context, userID uint, name string) (*model.Category, error) {
	category, err := s.repo.GetByName(ctx, userID, name)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, err
	}

	category.Starred = !category.Starred
	if err := s.repo.Save(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}

// List 该用户的全部分类
func (s *CategoryService) List(ctx context.Context, userID uint) ([]model.Category, error) {
	return s.repo.ListByUser(ctx, userID)
}

// AggregateCosts 按分类聚合消费，空分类不出现
func (s *CategoryService) AggregateCosts(ctx context.Context, userID uint) ([]repository.CategoryCost, error) {
	return s.repo.AggregateCosts(ctx, userID)
}

// SeedDefaults 给新用户播种默认分类，重名的跳过
func (s *CategoryService) SeedDefaults(ctx context.Context, userID uint) error {
	for _, name := range model.DefaultCategories {
		_, err := s.Add(ctx, userID, name, nil, false)
		if err != nil && !errors.Is(err, ErrDuplicateCategory) {
			return err
		}
		if errors.Is(err, ErrDuplicateCategory) {
			slog.Debug("默认分类已存在，跳过", "userID", userID, "name", name)
		}
	}
	return nil
}
