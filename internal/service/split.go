package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/leon37/ReceiptLedger/internal/model"
	"github.com/leon37/ReceiptLedger/internal/repository"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// SplitService 把一条 Item 或整张 Receipt 的金额分摊给一组用户
// 入参沿用旧接口的逗号分隔字符串，校验后归一化成有序的 (user, amount) 对落库
type SplitService struct {
	splitRepo   *repository.SplitRepository
	userRepo    *repository.UserRepository
	itemRepo    repository.ItemRepo
	receiptRepo repository.ReceiptRepo
}

func NewSplitService(splitRepo *repository.SplitRepository, userRepo *repository.UserRepository, itemRepo repository.ItemRepo, receiptRepo repository.ReceiptRepo) *SplitService {
	return &SplitService{
		splitRepo:   splitRepo,
		userRepo:    userRepo,
		itemRepo:    itemRepo,
		receiptRepo: receiptRepo,
	}
}

// parseIDList "1,2,3" → [1 2 3]；解析不干净 → ErrBadIDList
func parseIDList(raw string) ([]uint, error) {
	parts := strings.Split(raw, ",")
	ids := make([]uint, 0, len(parts))
	for _, p := range parts {
		n, err := strconv.ParseUint(strings.TrimSpace(p), 10, 64)
		if err != nil {
			return nil, ErrBadIDList
		}
		ids = append(ids, uint(n))
	}
	return ids, nil
}

// parseAmountList "1.5,2" → decimals；解析不干净 → ErrBadAmountList
func parseAmountList(raw string) ([]decimal.Decimal, error) {
	parts := strings.Split(raw, ",")
	amounts := make([]decimal.Decimal, 0, len(parts))
	for _, p := range parts {
		d, err := decimal.NewFromString(strings.TrimSpace(p))
		if err != nil {
			return nil, ErrBadAmountList
		}
		amounts = append(amounts, d)
	}
	return amounts, nil
}

// buildShares 共同的校验 + 归一化：
//  1. id 列表解析干净且无重复
//  2. 每个 id 都是真实用户
//  3. id 和金额一一对应
//  4. 百分比模式下把百分比乘上总价换算成绝对金额
func (s *SplitService) buildShares(ctx context.Context, idsRaw, amountsRaw string, percentageMode bool, total decimal.Decimal) (model.SplitShares, error) {
	ids, err := parseIDList(idsRaw)
	if err != nil {
		return nil, err
	}

	seen := make(map[uint]struct{}, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			return nil, ErrDuplicateSharedUsers
		}
		seen[id] = struct{}{}
	}

	users, err := s.userRepo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	if len(users) != len(ids) {
		return nil, ErrUsersDoNotExist
	}

	amounts, err := parseAmountList(amountsRaw)
	if err != nil {
		return nil, err
	}
	if len(amounts) != len(ids) {
		return nil, ErrListLengthMismatch
	}

	shares := make(model.SplitShares, 0, len(ids))
	for i, id := range ids {
		amount := amounts[i]
		if percentageMode {
			// 百分比按 0~100 传入，amount_i = pct_i / 100 * total
			amount = amount.Div(decimal.NewFromInt(100)).Mul(total)
		}
		shares = append(shares, model.SplitShare{UserID: id, Amount: amount})
	}
	return shares, nil
}

// CreateItemSplit 给一条 Item 建分摊
// percentageMode 为 true 时 amountsRaw 是百分比列表
func (s *SplitService) CreateItemSplit(ctx context.Context, ownerID, itemID uint, idsRaw, amountsRaw string, percentageMode bool) (*model.ItemSplit, error) {
	item, err := s.itemRepo.GetByID(ctx, itemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("item with id %d does not exist", itemID)
		}
		return nil, err
	}
	if item.UserID != ownerID {
		return nil, ErrNotOwner
	}

	if _, err := s.splitRepo.GetItemSplit(ctx, itemID); err == nil {
		return nil, ErrSplitExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	shares, err := s.buildShares(ctx, idsRaw, amountsRaw, percentageMode, decimal.NewFromFloat(item.Price))
	if err != nil {
		return nil, err
	}

	split := &model.ItemSplit{
		ItemID: itemID,
		UserID: ownerID,
		Shares: shares,
		// 派生字段：所有者自己是否也在分摊名单里
		SharedWithOwner: shares.Contains(ownerID),
	}
	if err := s.splitRepo.CreateItemSplit(ctx, split); err != nil {
		return nil, err
	}
	return split, nil
}

// CreateReceiptSplit 给整张票据建分摊，票据 total 必须大于 0
func (s *SplitService) CreateReceiptSplit(ctx context.Context, ownerID, receiptID uint, idsRaw, amountsRaw string, percentageMode bool) (*model.ReceiptSplit, error) {
	receipt, err := s.receiptRepo.GetByID(ctx, receiptID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("receipt with id %d does not exist", receiptID)
		}
		return nil, err
	}
	if receipt.UserID != ownerID {
		return nil, ErrNotOwner
	}
	if receipt.Total <= 0 {
		return nil, ErrInvalidTotal
	}

	if _, err := s.splitRepo.GetReceiptSplit(ctx, receiptID); err == nil {
		return nil, ErrSplitExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	shares, err := s.buildShares(ctx, idsRaw, amountsRaw, percentageMode, decimal.NewFromFloat(receipt.Total))
	if err != nil {
		return nil, err
	}

	split := &model.ReceiptSplit{
		ReceiptID:       receiptID,
		UserID:          ownerID,
		Shares:          shares,
		SharedWithOwner: shares.Contains(ownerID),
	}
	if err := s.splitRepo.CreateReceiptSplit(ctx, split); err != nil {
		return nil, err
	}
	return split, nil
}

// sharedNames 按存储顺序取每个分摊用户的 first name，最后追加所有者
func (s *SplitService) sharedNames(ctx context.Context, shares model.SplitShares, ownerID uint) ([]string, error) {
	users, err := s.userRepo.GetByIDs(ctx, shares.UserIDs())
	if err != nil {
		return nil, err
	}
	byID := make(map[uint]model.User, len(users))
	for _, u := range users {
		byID[u.ID] = u
	}

	names := make([]string, 0, len(shares)+1)
	for _, share := range shares {
		names = append(names, byID[share.UserID].FirstName)
	}

	owner, err := s.userRepo.GetByID(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	return append(names, owner.FirstName), nil
}

// ItemSharedUsers 某条 Item 的分摊名单（first name，输入顺序）+ 所有者
func (s *SplitService) ItemSharedUsers(ctx context.Context, itemID uint) ([]string, error) {
	split, err := s.splitRepo.GetItemSplit(ctx, itemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("item split for item with id %d does not exist", itemID)
		}
		return nil, err
	}
	return s.sharedNames(ctx, split.Shares, split.UserID)
}

// ReceiptSharedUsers 某张票据的分摊名单 + 所有者
func (s *SplitService) ReceiptSharedUsers(ctx context.Context, receiptID uint) ([]string, error) {
	split, err := s.splitRepo.GetReceiptSplit(ctx, receiptID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("receipt split for receipt with id %d does not exist", receiptID)
		}
		return nil, err
	}
	return s.sharedNames(ctx, split.Shares, split.UserID)
}

// SharedAmounts 金额列表 + 所有者是否参与分摊
type SharedAmounts struct {
	Amounts         []decimal.Decimal `json:"shared_amount"`
	SharedWithOwner bool              `json:"is_shared_with_owner"`
}

// ItemSharedAmounts 某条 Item 的分摊金额
func (s *SplitService) ItemSharedAmounts(ctx context.Context, itemID uint) (*SharedAmounts, error) {
	split, err := s.splitRepo.GetItemSplit(ctx, itemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("item split for item with id %d does not exist", itemID)
		}
		return nil, err
	}
	return splitAmounts(split.Shares, split.SharedWithOwner), nil
}

// ReceiptSharedAmounts 某张票据的分摊金额
func (s *SplitService) ReceiptSharedAmounts(ctx context.Context, receiptID uint) (*SharedAmounts, error) {
	split, err := s.splitRepo.GetReceiptSplit(ctx, receiptID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("receipt split for receipt with id %d does not exist", receiptID)
		}
		return nil, err
	}
	return splitAmounts(split.Shares, split.SharedWithOwner), nil
}

func splitAmounts(shares model.SplitShares, sharedWithOwner bool) *SharedAmounts {
	amounts := make([]decimal.Decimal, 0, len(shares))
	for _, share := range shares {
		amounts = append(amounts, share.Amount)
	}
	return &SharedAmounts{Amounts: amounts, SharedWithOwner: sharedWithOwner}
}
