package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/leon37/ReceiptLedger/internal/model"
	"github.com/leon37/ReceiptLedger/internal/repository"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// PageSize 固定每页 10 条
const PageSize = 10

// PageRow 分页结果里的一行：Item 本体 + 所属票据的扫描日期和商户名
type PageRow struct {
	model.Item
	ScanDate     time.Time `json:"scan_date"`
	MerchantName string    `json:"merchant_name"`
}

// Page 分页响应
// 页码非法时 Rows 为空、Description 固定为 "Invalid Page Number"，请求本身不报错
type Page struct {
	Rows        []PageRow       `json:"rows"`
	PageNumber  int             `json:"page_number"`
	TotalPages  int             `json:"total_pages"`
	TotalItems  int             `json:"total_items"`
	PageCost    decimal.Decimal `json:"page_cost"` // 仅当前页的合计，不是整个筛选集
	Description string          `json:"description,omitempty"`
}

// InvalidPageDescription 非法页码的固定提示
const InvalidPageDescription = "Invalid Page Number"

// ItemService 行项目的增删改查、筛选和分页
type ItemService struct {
	itemRepo     repository.ItemRepo
	receiptRepo  repository.ReceiptRepo
	categoryRepo repository.CategoryRepo
}

func NewItemService(itemRepo repository.ItemRepo, receiptRepo repository.ReceiptRepo, categoryRepo repository.CategoryRepo) *ItemService {
	return &ItemService{
		itemRepo:     itemRepo,
		receiptRepo:  receiptRepo,
		categoryRepo: categoryRepo,
	}
}

// Create 在某张票据下手工添加行项目
func (s *ItemService) Create(ctx context.Context, userID, receiptID uint, name string, price float64, categoryID *uint) (*model.Item, error) {
	receipt, err := s.receiptRepo.GetByID(ctx, receiptID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("receipt with id %d does not exist", receiptID)
		}
		return nil, err
	}
	if receipt.UserID != userID {
		return nil, ErrNotOwner
	}

	if categoryID != nil {
		category, err := s.categoryRepo.GetByID(ctx, *categoryID)
		if err != nil {
			return nil, ErrCategoryNotFound
		}
		if category.UserID != userID {
			return nil, ErrNotOwner
		}
	}

	item := &model.Item{
		ReceiptID:  receiptID,
		UserID:     userID,
		Name:       name,
		Price:      price,
		CategoryID: categoryID,
	}
	if err := s.itemRepo.Create(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

// Update 修改行项目 (带归属权校验)
func (s *ItemService) Update(ctx context.Context, userID, itemID uint, name *string, price *float64, categoryID *uint) (*model.Item, error) {
	item, err := s.get(ctx, userID, itemID)
	if err != nil {
		return nil, err
	}

	if name != nil {
		item.Name = *name
	}
	if price != nil {
		item.Price = *price
	}
	if categoryID != nil {
		category, err := s.categoryRepo.GetByID(ctx, *categoryID)
		if err != nil {
			return nil, ErrCategoryNotFound
		}
		if category.UserID != userID {
			return nil, ErrNotOwner
		}
		item.CategoryID = categoryID
	}

	if err := s.itemRepo.Save(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

// Delete 删除行项目
func (s *ItemService) Delete(ctx context.Context, userID, itemID uint) error {
	item, err := s.get(ctx, userID, itemID)
	if err != nil {
		return err
	}
	return s.itemRepo.Delete(ctx, item.ID)
}

func (s *ItemService) get(ctx context.Context, userID, itemID uint) (*model.Item, error) {
	item, err := s.itemRepo.GetByID(ctx, itemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("item with id %d does not exist", itemID)
		}
		return nil, err
	}
	if item.UserID != userID {
		return nil, ErrNotOwner
	}
	return item, nil
}

// FilterPage 组合筛选 + 分页
// pageRaw 解析失败、<=0 或超出总页数时返回 "Invalid Page Number" 空页而不是报错
func (s *ItemService) FilterPage(ctx context.Context, filter repository.ItemFilter, pageRaw string) (*Page, error) {
	items, err := s.itemRepo.Filter(ctx, filter)
	if err != nil {
		return nil, err
	}

	totalPages := (len(items) + PageSize - 1) / PageSize

	page, err := strconv.Atoi(pageRaw)
	if err != nil || page <= 0 || page > totalPages {
		return &Page{
			Rows:        []PageRow{},
			TotalPages:  totalPages,
			TotalItems:  len(items),
			PageCost:    decimal.Zero,
			Description: InvalidPageDescription,
		}, nil
	}

	start := (page - 1) * PageSize
	end := start + PageSize
	if end > len(items) {
		end = len(items)
	}

	// 每行补上票据的扫描日期和商户名；同票据的行共享一次查询
	receipts := make(map[uint]*model.Receipt)
	rows := make([]PageRow, 0, end-start)
	pageCost := decimal.Zero
	for _, item := range items[start:end] {
		receipt, ok := receipts[item.ReceiptID]
		if !ok {
			receipt, err = s.receiptRepo.GetByID(ctx, item.ReceiptID)
			if err != nil {
				return nil, err
			}
			receipts[item.ReceiptID] = receipt
		}

		row := PageRow{Item: item, ScanDate: receipt.ScanDate}
		if receipt.Merchant != nil {
			row.MerchantName = receipt.Merchant.Name
		}
		rows = append(rows, row)
		pageCost = pageCost.Add(decimal.NewFromFloat(item.Price))
	}

	return &Page{
		Rows:       rows,
		PageNumber: page,
		TotalPages: totalPages,
		TotalItems: len(items),
		PageCost:   pageCost,
	}, nil
}

// ==========================================
// Important Dates
// ==========================================

// AddImportantDate 给某条 Item 挂一个日期提醒
func (s *ItemService) AddImportantDate(ctx context.Context, userID, itemID uint, date time.Time, description string) (*model.ImportantDate, error) {
	if _, err := s.get(ctx, userID, itemID); err != nil {
		return nil, err
	}

	d := &model.ImportantDate{
		UserID:      userID,
		ItemID:      itemID,
		Date:        date,
		Description: description,
	}
	if err := s.itemRepo.CreateImportantDate(ctx, d); err != nil {
		return nil, err
	}
	return d, nil
}

// ListImportantDates 该用户的全部日期提醒
func (s *ItemService) ListImportantDates(ctx context.Context, userID uint) ([]model.ImportantDate, error) {
	return s.itemRepo.ListImportantDates(ctx, userID)
}

// UpdateImportantDate 修改日期提醒
func (s *ItemService) UpdateImportantDate(ctx context.Context, userID, dateID uint, date *time.Time, description *string) (*model.ImportantDate, error) {
	d, err := s.itemRepo.GetImportantDate(ctx, dateID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("important date with id %d does not exist", dateID)
		}
		return nil, err
	}
	if d.UserID != userID {
		return nil, ErrNotOwner
	}

	if date != nil {
		d.Date = *date
	}
	if description != nil {
		d.Description = *description
	}
	if err := s.itemRepo.SaveImportantDate(ctx, d); err != nil {
		return nil, err
	}
	return d, nil
}

// DeleteImportantDate 删除日期提醒
func (s *ItemService) DeleteImportantDate(ctx context.Context, userID, dateID uint) error {
	d, err := s.itemRepo.GetImportantDate(ctx, dateID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("important date with id %d does not exist", dateID)
		}
		return err
	}
	if d.UserID != userID {
		return ErrNotOwner
	}
	return s.itemRepo.DeleteImportantDate(ctx, dateID)
}
