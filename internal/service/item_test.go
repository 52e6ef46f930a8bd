package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/leon37/ReceiptLedger/internal/model"
	"github.com/leon37/ReceiptLedger/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"
)

type ItemSuite struct {
	suite.Suite
	db   *gorm.DB
	svc  *ItemService
	user *model.User
	ctx  context.Context
}

func (s *ItemSuite) SetupTest() {
	s.db = newTestDB(s.T())
	s.svc = NewItemService(repository.NewItemRepo(s.db), repository.NewReceiptRepo(s.db), repository.NewCategoryRepo(s.db))
	s.user = createTestUser(s.T(), s.db, "Alice")
	s.ctx = context.Background()
}

func TestItemSuite(t *testing.T) {
	suite.Run(t, new(ItemSuite))
}

func (s *ItemSuite) newReceipt(scanDate time.Time, merchant *model.Merchant) *model.Receipt {
	receipt := &model.Receipt{UserID: s.user.ID, ScanDate: scanDate}
	if merchant != nil {
		receipt.MerchantID = &merchant.ID
	}
	require.NoError(s.T(), s.db.Create(receipt).Error)
	return receipt
}

func (s *ItemSuite) TestCreateUpdateDelete() {
	receipt := s.newReceipt(time.Now(), nil)

	item, err := s.svc.Create(s.ctx, s.user.ID, receipt.ID, "Coffee", 4.5, nil)
	require.NoError(s.T(), err)
	assert.NotZero(s.T(), item.ID)

	name := "Latte"
	price := 5.0
	item, err = s.svc.Update(s.ctx, s.user.ID, item.ID, &name, &price, nil)
	require.NoError(s.T(), err)
	assert.Equal(s.T(), "Latte", item.Name)
	assert.Equal(s.T(), 5.0, item.Price)

	// 别人动不了
	other := createTestUser(s.T(), s.db, "Bob")
	_, err = s.svc.Update(s.ctx, other.ID, item.ID, &name, nil, nil)
	assert.ErrorIs(s.T(), err, ErrNotOwner)

	require.NoError(s.T(), s.svc.Delete(s.ctx, s.user.ID, item.ID))
	err = s.svc.Delete(s.ctx, s.user.ID, item.ID)
	require.Error(s.T(), err)
	assert.Equal(s.T(), fmt.Sprintf("item with id %d does not exist", item.ID), err.Error())
}

func (s *ItemSuite) TestCreateChecksCategoryOwner() {
	receipt := s.newReceipt(time.Now(), nil)
	other := createTestUser(s.T(), s.db, "Bob")
	otherCategory := &model.Category{UserID: other.ID, Name: "Food"}
	require.NoError(s.T(), s.db.Create(otherCategory).Error)

	_, err := s.svc.Create(s.ctx, s.user.ID, receipt.ID, "Coffee", 4.5, &otherCategory.ID)
	assert.ErrorIs(s.T(), err, ErrNotOwner)
}

func (s *ItemSuite) TestFilter() {
	costco := &model.Merchant{Name: "Costco"}
	shell := &model.Merchant{Name: "Shell"}
	require.NoError(s.T(), s.db.Create(costco).Error)
	require.NoError(s.T(), s.db.Create(shell).Error)

	jan := s.newReceipt(time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC), costco)
	mar := s.newReceipt(time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC), shell)
	for _, it := range []model.Item{
		{ReceiptID: jan.ID, UserID: s.user.ID, Name: "Bread", Price: 3},
		{ReceiptID: jan.ID, UserID: s.user.ID, Name: "Cheese", Price: 12},
		{ReceiptID: mar.ID, UserID: s.user.ID, Name: "Gas", Price: 55},
	} {
		require.NoError(s.T(), s.db.Create(&it).Error)
	}

	// 日期区间
	page, err := s.svc.FilterPage(s.ctx, repository.ItemFilter{
		UserID:    s.user.ID,
		StartDate: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2026, 1, 31, 0, 0, 0, 0, time.UTC),
	}, "1")
	require.NoError(s.T(), err)
	assert.Equal(s.T(), 2, page.TotalItems)

	// 价格区间
	min, max := 5.0, 60.0
	page, err = s.svc.FilterPage(s.ctx, repository.ItemFilter{UserID: s.user.ID, MinPrice: &min, MaxPrice: &max}, "1")
	require.NoError(s.T(), err)
	require.Equal(s.T(), 2, page.TotalItems)
	assert.Equal(s.T(), "Cheese", page.Rows[0].Name)
	assert.Equal(s.T(), "Gas", page.Rows[1].Name)

	// 商户名模糊匹配
	page, err = s.svc.FilterPage(s.ctx, repository.ItemFilter{UserID: s.user.ID, MerchantContains: "cost"}, "1")
	require.NoError(s.T(), err)
	require.Equal(s.T(), 2, page.TotalItems)
	assert.Equal(s.T(), "Costco", page.Rows[0].MerchantName)

	// 商户 id 精确匹配
	page, err = s.svc.FilterPage(s.ctx, repository.ItemFilter{UserID: s.user.ID, MerchantID: shell.ID}, "1")
	require.NoError(s.T(), err)
	require.Equal(s.T(), 1, page.TotalItems)
	assert.Equal(s.T(), "Gas", page.Rows[0].Name)
	assert.Equal(s.T(), mar.ScanDate.Unix(), page.Rows[0].ScanDate.Unix())
}

func (s *ItemSuite) TestPagination() {
	receipt := s.newReceipt(time.Now(), nil)
	for i := 1; i <= 25; i++ {
		it := model.Item{ReceiptID: receipt.ID, UserID: s.user.ID, Name: fmt.Sprintf("item-%02d", i), Price: 2}
		require.NoError(s.T(), s.db.Create(&it).Error)
	}
	filter := repository.ItemFilter{UserID: s.user.ID}

	page, err := s.svc.FilterPage(s.ctx, filter, "1")
	require.NoError(s.T(), err)
	assert.Len(s.T(), page.Rows, 10)
	assert.Equal(s.T(), 3, page.TotalPages)
	assert.Equal(s.T(), 25, page.TotalItems)
	assert.Equal(s.T(), "item-01", page.Rows[0].Name)
	// page_cost 只算当前页
	assert.Equal(s.T(), "20", page.PageCost.String())

	page, err = s.svc.FilterPage(s.ctx, filter, "2")
	require.NoError(s.T(), err)
	assert.Len(s.T(), page.Rows, 10)
	assert.Equal(s.T(), "item-11", page.Rows[0].Name)

	page, err = s.svc.FilterPage(s.ctx, filter, "3")
	require.NoError(s.T(), err)
	assert.Len(s.T(), page.Rows, 5)
	assert.Equal(s.T(), "10", page.PageCost.String())

	// 越界、零、负数、非数字都返回空页 + 固定提示，不报错
	for _, raw := range []string{"4", "0", "-1", "abc"} {
		page, err = s.svc.FilterPage(s.ctx, filter, raw)
		require.NoError(s.T(), err, "page %q", raw)
		assert.Empty(s.T(), page.Rows)
		assert.Equal(s.T(), InvalidPageDescription, page.Description)
		assert.Equal(s.T(), 25, page.TotalItems)
	}
}

func (s *ItemSuite) TestImportantDates() {
	receipt := s.newReceipt(time.Now(), nil)
	item, err := s.svc.Create(s.ctx, s.user.ID, receipt.ID, "Warranty item", 99, nil)
	require.NoError(s.T(), err)

	due := time.Date(2027, 3, 1, 0, 0, 0, 0, time.UTC)
	d, err := s.svc.AddImportantDate(s.ctx, s.user.ID, item.ID, due, "warranty expires")
	require.NoError(s.T(), err)

	dates, err := s.svc.ListImportantDates(s.ctx, s.user.ID)
	require.NoError(s.T(), err)
	require.Len(s.T(), dates, 1)

	desc := "extended warranty"
	d, err = s.svc.UpdateImportantDate(s.ctx, s.user.ID, d.ID, nil, &desc)
	require.NoError(s.T(), err)
	assert.Equal(s.T(), desc, d.Description)
	assert.Equal(s.T(), due.Unix(), d.Date.Unix())

	other := createTestUser(s.T(), s.db, "Bob")
	err = s.svc.DeleteImportantDate(s.ctx, other.ID, d.ID)
	assert.ErrorIs(s.T(), err, ErrNotOwner)

	require.NoError(s.T(), s.svc.DeleteImportantDate(s.ctx, s.user.ID, d.ID))
	dates, _ = s.svc.ListImportantDates(s.ctx, s.user.ID)
	assert.Empty(s.T(), dates)
}
