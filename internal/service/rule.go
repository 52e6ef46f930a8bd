package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"

	"github.com/leon37/ReceiptLedger/internal/model"
	"github.com/leon37/ReceiptLedger/internal/repository"
	"gorm.io/gorm"
)

// RuleService 用户自定义的正则 → 分类规则
type RuleService struct {
	ruleRepo     *repository.RuleRepository
	categoryRepo repository.CategoryRepo
}

func NewRuleService(ruleRepo *repository.RuleRepository, categoryRepo repository.CategoryRepo) *RuleService {
	return &RuleService{ruleRepo: ruleRepo, categoryRepo: categoryRepo}
}

// Create 新建规则，正则必须编译通过，分类必须是自己的
func (s *RuleService) Create(ctx context.Context, userID uint, pattern string, categoryID uint) (*model.Rule, error) {
	if _, err := regexp.Compile(pattern); err != nil {
		return nil, fmt.Errorf("invalid regex pattern %q: %w", pattern, err)
	}

	category, err := s.categoryRepo.GetByID(ctx, categoryID)
	if err != nil {
		return nil, ErrCategoryNotFound
	}
	if category.UserID != userID {
		return nil, ErrNotOwner
	}

	rule := &model.Rule{
		UserID:     userID,
		Pattern:    pattern,
		CategoryID: categoryID,
	}
	if err := s.ruleRepo.Create(ctx, rule); err != nil {
		return nil, err
	}
	return rule, nil
}

// List 该用户的全部规则
func (s *RuleService) List(ctx context.Context, userID uint) ([]model.Rule, error) {
	return s.ruleRepo.ListByUser(ctx, userID)
}

// Update 修改规则
func (s *RuleService) Update(ctx context.Context, userID, ruleID uint, pattern *string, categoryID *uint) (*model.Rule, error) {
	rule, err := s.get(ctx, userID, ruleID)
	if err != nil {
		return nil, err
	}

	if pattern != nil {
		if _, err := regexp.Compile(*pattern); err != nil {
			return nil, fmt.Errorf("invalid regex pattern %q: %w", *pattern, err)
		}
		rule.Pattern = *pattern
	}
	if categoryID != nil {
		category, err := s.categoryRepo.GetByID(ctx, *categoryID)
		if err != nil {
			return nil, ErrCategoryNotFound
		}
		if category.UserID != userID {
			return nil, ErrNotOwner
		}
		rule.CategoryID = *categoryID
	}

	if err := s.ruleRepo.Save(ctx, rule); err != nil {
		return nil, err
	}
	return rule, nil
}

// Delete 删除规则
func (s *RuleService) Delete(ctx context.Context, userID, ruleID uint) error {
	rule, err := s.get(ctx, userID, ruleID)
	if err != nil {
		return err
	}
	return s.ruleRepo.Delete(ctx, rule.ID)
}

func (s *RuleService) get(ctx context.Context, userID, ruleID uint) (*model.Rule, error) {
	rule, err := s.ruleRepo.GetByID(ctx, ruleID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("rule with id %d does not exist", ruleID)
		}
		return nil, err
	}
	if rule.UserID != userID {
		return nil, ErrNotOwner
	}
	return rule, nil
}
