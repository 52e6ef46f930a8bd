package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/leon37/ReceiptLedger/internal/infrastructure/docai"
	"github.com/leon37/ReceiptLedger/internal/model"
	"github.com/leon37/ReceiptLedger/internal/repository"
	"gorm.io/gorm"
)

// ImageStore 票据图片的存取，filestore.LocalStore 是默认实现
type ImageStore interface {
	Save(data []byte, originalName string) (string, error)
	Load(name string) ([]byte, error)
	Remove(name string) error
}

// ReceiptService 票据的增删改查 + 提取流水线
type ReceiptService struct {
	receiptRepo  repository.ReceiptRepo
	itemRepo     repository.ItemRepo
	ruleRepo     *repository.RuleRepository
	categoryRepo repository.CategoryRepo
	analyzer     docai.Provider
	store        ImageStore
	// offline 为 true 时 Ingest 直接返回，票据保持未充实状态
	offline bool
}

func NewReceiptService(
	receiptRepo repository.ReceiptRepo,
	itemRepo repository.ItemRepo,
	ruleRepo *repository.RuleRepository,
	categoryRepo repository.CategoryRepo,
	analyzer docai.Provider,
	store ImageStore,
	offline bool,
) *ReceiptService {
	return &ReceiptService{
		receiptRepo:  receiptRepo,
		itemRepo:     itemRepo,
		ruleRepo:     ruleRepo,
		categoryRepo: categoryRepo,
		analyzer:     analyzer,
		store:        store,
		offline:      offline,
	}
}

// Upload 保存图片并创建票据行，不触发提取
// 提取由调用方在创建成功后显式调用 Ingest，部分失败的行为因此是明确可测的
func (s *ReceiptService) Upload(ctx context.Context, userID uint, image []byte, filename, currency string) (*model.Receipt, error) {
	path, err := s.store.Save(image, filename)
	if err != nil {
		return nil, err
	}

	receipt := &model.Receipt{
		UserID:    userID,
		ScanDate:  time.Now(),
		ImagePath: path,
		Currency:  currency,
		Status:    model.ReceiptStatusPending,
	}
	if err := s.receiptRepo.Create(ctx, receipt); err != nil {
		return nil, err
	}
	return receipt, nil
}

// Ingest 提取流水线，每张票据最多跑一次：
//
//	抽取 → 商户 resolve-or-create → 回填金额 → 生成 Item → 规则打标 → 分类服务打标
//
// 抽取失败即中止，已建出来的 Item 不回滚；离线模式整条流水线跳过
func (s *ReceiptService) Ingest(ctx context.Context, receiptID uint) error {
	if s.offline {
		slog.Info("离线模式，跳过票据提取", "receiptID", receiptID)
		return nil
	}

	receipt, err := s.receiptRepo.GetByID(ctx, receiptID)
	if err != nil {
		return err
	}
	if receipt.Status == model.ReceiptStatusProcessed {
		// 只充实一次，重复触发不再调外部服务
		return nil
	}

	image, err := s.store.Load(receipt.ImagePath)
	if err != nil {
		return fmt.Errorf("读取票据图片失败: %w", err)
	}

	extraction, err := s.analyzer.ExtractReceipt(ctx, image, mimeFromPath(receipt.ImagePath))
	if err != nil {
		receipt.Status = model.ReceiptStatusFailed
		if saveErr := s.receiptRepo.Save(ctx, receipt); saveErr != nil {
			slog.Error("标记票据提取失败时出错", "receiptID", receiptID, "error", saveErr)
		}
		return fmt.Errorf("票据抽取失败: %w", err)
	}

	// 置信度只记日志，不参与控制流
	slog.Info("票据抽取完成", "receiptID", receiptID, "confidence", extraction.FieldConfidence)

	var trace strings.Builder
	if extraction.MerchantName != "" {
		merchant, err := s.receiptRepo.GetOrCreateMerchant(ctx, extraction.MerchantName)
		if err != nil {
			return err
		}
		receipt.MerchantID = &merchant.ID
		fmt.Fprintf(&trace, "Merchant: %s\n", merchant.Name)
	}
	if extraction.TransactionDate != "" {
		if t, err := time.Parse("2006-01-02", extraction.TransactionDate); err == nil {
			receipt.ScanDate = t
			fmt.Fprintf(&trace, "Date: %s\n", extraction.TransactionDate)
		}
	}
	// 回填金额：直接覆盖，没有合并策略
	if extraction.Tax > 0 {
		receipt.Tax = extraction.Tax
		fmt.Fprintf(&trace, "Tax: %.2f\n", extraction.Tax)
	}
	if extraction.Tip > 0 {
		receipt.Tip = extraction.Tip
		fmt.Fprintf(&trace, "Tip: %.2f\n", extraction.Tip)
	}
	if extraction.Total > 0 {
		receipt.Total = extraction.Total
		fmt.Fprintf(&trace, "Total: %.2f\n", extraction.Total)
	}
	if extraction.Currency != "" {
		receipt.Currency = extraction.Currency
	}

	items := make([]model.Item, 0, len(extraction.Items))
	for _, line := range extraction.Items {
		// 单价优先，缺失退回行总价
		price := line.Price
		if price == 0 {
			price = line.TotalPrice
		}
		items = append(items, model.Item{
			ReceiptID: receipt.ID,
			UserID:    receipt.UserID,
			Name:      line.Description,
			Price:     price,
		})
		fmt.Fprintf(&trace, "Item: %s x%.0f = %.2f\n", line.Description, line.Quantity, price)
	}
	if err := s.itemRepo.CreateBatch(ctx, items); err != nil {
		return err
	}

	receipt.ExtractedText = trace.String()
	receipt.Status = model.ReceiptStatusProcessed
	if err := s.receiptRepo.Save(ctx, receipt); err != nil {
		return err
	}

	if err := s.applyRules(ctx, receipt); err != nil {
		slog.Error("规则打标失败", "receiptID", receiptID, "error", err)
	}

	// 第二步独立触发的分类；失败只影响分类，不影响已落库的数据
	if err := s.classifyItems(ctx, receipt, image); err != nil {
		slog.Error("行项目分类失败", "receiptID", receiptID, "error", err)
	}
	return nil
}

// applyRules 对该票据上还没有分类的 Item 按用户规则打标
func (s *ReceiptService) applyRules(ctx context.Context, receipt *model.Receipt) error {
	rules, err := s.ruleRepo.ListByUser(ctx, receipt.UserID)
	if err != nil {
		return err
	}
	if len(rules) == 0 {
		return nil
	}

	items, err := s.itemRepo.ListByReceipt(ctx, receipt.ID)
	if err != nil {
		return err
	}

	for i := range items {
		item := &items[i]
		if item.CategoryID != nil {
			continue
		}
		for _, rule := range rules {
			re, err := regexp.Compile(rule.Pattern)
			if err != nil {
				slog.Warn("规则正则编译失败，跳过", "ruleID", rule.ID, "pattern", rule.Pattern)
				continue
			}
			if re.MatchString(item.Name) {
				categoryID := rule.CategoryID
				item.CategoryID = &categoryID
				if err := s.itemRepo.Save(ctx, item); err != nil {
					return err
				}
				break
			}
		}
	}
	return nil
}

// classifyItems 调分类服务，把 (描述, 标签) 对回写到同名 Item 上
// 空标签或不认识的标签一律兜底到 Other
func (s *ReceiptService) classifyItems(ctx context.Context, receipt *model.Receipt, image []byte) error {
	categories, err := s.categoryRepo.ListByUser(ctx, receipt.UserID)
	if err != nil {
		return err
	}
	byName := make(map[string]uint, len(categories))
	names := make([]string, 0, len(categories))
	for _, c := range categories {
		byName[strings.ToLower(c.Name)] = c.ID
		names = append(names, c.Name)
	}

	lines, err := s.analyzer.ClassifyLineItems(ctx, image, mimeFromPath(receipt.ImagePath), names)
	if err != nil {
		return err
	}

	items, err := s.itemRepo.ListByReceipt(ctx, receipt.ID)
	if err != nil {
		return err
	}

	fallbackID, hasFallback := byName[strings.ToLower(model.FallbackCategoryName)]

	for _, line := range lines {
		categoryID, ok := byName[strings.ToLower(line.Category)]
		if line.Category == "" || !ok {
			if !hasFallback {
				slog.Warn("没有 Other 兜底分类，跳过", "userID", receipt.UserID, "label", line.Category)
				continue
			}
			categoryID = fallbackID
		}

		for i := range items {
			item := &items[i]
			if !strings.EqualFold(item.Name, line.Description) {
				continue
			}
			id := categoryID
			item.CategoryID = &id
			if err := s.itemRepo.Save(ctx, item); err != nil {
				return err
			}
		}
	}
	return nil
}

func mimeFromPath(path string) string {
	switch {
	case strings.HasSuffix(strings.ToLower(path), ".png"):
		return "image/png"
	case strings.HasSuffix(strings.ToLower(path), ".webp"):
		return "image/webp"
	default:
		return "image/jpeg"
	}
}

// List 该用户的全部票据
func (s *ReceiptService) List(ctx context.Context, userID uint) ([]model.Receipt, error) {
	return s.receiptRepo.ListByUser(ctx, userID)
}

// Get 查单张票据 (带归属权校验)
func (s *ReceiptService) Get(ctx context.Context, userID, receiptID uint) (*model.Receipt, error) {
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
	return receipt, nil
}

// UpdateInput 显式编辑用，nil 字段不动
type ReceiptUpdateInput struct {
	Total      *float64
	Tax        *float64
	Tip        *float64
	Coupon     *float64
	Currency   *string
	MerchantID *uint
	ScanDate   *time.Time
}

// Update 显式编辑票据（提取流水线之外唯一的修改入口）
func (s *ReceiptService) Update(ctx context.Context, userID, receiptID uint, input ReceiptUpdateInput) (*model.Receipt, error) {
	receipt, err := s.Get(ctx, userID, receiptID)
	if err != nil {
		return nil, err
	}

	if input.Total != nil {
		receipt.Total = *input.Total
	}
	if input.Tax != nil {
		receipt.Tax = *input.Tax
	}
	if input.Tip != nil {
		receipt.Tip = *input.Tip
	}
	if input.Coupon != nil {
		receipt.Coupon = *input.Coupon
	}
	if input.Currency != nil {
		receipt.Currency = *input.Currency
	}
	if input.ScanDate != nil {
		receipt.ScanDate = *input.ScanDate
	}
	if input.MerchantID != nil {
		if _, err := s.receiptRepo.GetMerchant(ctx, *input.MerchantID); err != nil {
			return nil, fmt.Errorf("merchant with id %d does not exist", *input.MerchantID)
		}
		receipt.MerchantID = input.MerchantID
	}

	if err := s.receiptRepo.Save(ctx, receipt); err != nil {
		return nil, err
	}
	return receipt, nil
}

// Delete 删除票据及其 Item 和图片
func (s *ReceiptService) Delete(ctx context.Context, userID, receiptID uint) error {
	receipt, err := s.Get(ctx, userID, receiptID)
	if err != nil {
		return err
	}

	items, err := s.itemRepo.ListByReceipt(ctx, receiptID)
	if err != nil {
		return err
	}
	for _, item := range items {
		if err := s.itemRepo.Delete(ctx, item.ID); err != nil {
			return err
		}
	}

	if err := s.receiptRepo.Delete(ctx, receiptID); err != nil {
		return err
	}

	if receipt.ImagePath != "" {
		if err := s.store.Remove(receipt.ImagePath); err != nil {
			slog.Warn("删除票据图片失败", "path", receipt.ImagePath, "error", err)
		}
	}
	return nil
}

// Merchants 商户名册
func (s *ReceiptService) Merchants(ctx context.Context) ([]model.Merchant, error) {
	return s.receiptRepo.ListMerchants(ctx)
}
