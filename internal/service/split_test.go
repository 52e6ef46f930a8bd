package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/leon37/ReceiptLedger/internal/model"
	"github.com/leon37/ReceiptLedger/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"
)

type SplitSuite struct {
	suite.Suite
	db    *gorm.DB
	svc   *SplitService
	alice *model.User
	bob   *model.User
	carol *model.User
	ctx   context.Context
}

func (s *SplitSuite) SetupTest() {
	s.db = newTestDB(s.T())
	s.svc = NewSplitService(
		repository.NewSplitRepository(s.db),
		repository.NewUserRepository(s.db),
		repository.NewItemRepo(s.db),
		repository.NewReceiptRepo(s.db),
	)
	s.alice = createTestUser(s.T(), s.db, "Alice")
	s.bob = createTestUser(s.T(), s.db, "Bob")
	s.carol = createTestUser(s.T(), s.db, "Carol")
	s.ctx = context.Background()
}

func TestSplitSuite(t *testing.T) {
	suite.Run(t, new(SplitSuite))
}

func (s *SplitSuite) createReceipt(total float64) *model.Receipt {
	receipt := &model.Receipt{UserID: s.alice.ID, Total: total}
	require.NoError(s.T(), s.db.Create(receipt).Error)
	return receipt
}

func (s *SplitSuite) createItem(price float64) *model.Item {
	receipt := s.createReceipt(price)
	item := &model.Item{ReceiptID: receipt.ID, UserID: s.alice.ID, Name: "Pizza", Price: price}
	require.NoError(s.T(), s.db.Create(item).Error)
	return item
}

func (s *SplitSuite) TestItemSplitAmounts() {
	item := s.createItem(30)

	ids := fmt.Sprintf("%d,%d", s.bob.ID, s.carol.ID)
	split, err := s.svc.CreateItemSplit(s.ctx, s.alice.ID, item.ID, ids, "12.5,7.5", false)
	require.NoError(s.T(), err)

	// 顺序跟输入一致
	require.Len(s.T(), split.Shares, 2)
	assert.Equal(s.T(), s.bob.ID, split.Shares[0].UserID)
	assert.Equal(s.T(), "12.5", split.Shares[0].Amount.String())
	assert.Equal(s.T(), s.carol.ID, split.Shares[1].UserID)
	assert.Equal(s.T(), "7.5", split.Shares[1].Amount.String())
	assert.False(s.T(), split.SharedWithOwner)

	amounts, err := s.svc.ItemSharedAmounts(s.ctx, item.ID)
	require.NoError(s.T(), err)
	require.Len(s.T(), amounts.Amounts, 2)
	assert.Equal(s.T(), "12.5", amounts.Amounts[0].String())
	assert.False(s.T(), amounts.SharedWithOwner)

	// 名单按输入顺序，最后追加所有者
	names, err := s.svc.ItemSharedUsers(s.ctx, item.ID)
	require.NoError(s.T(), err)
	assert.Equal(s.T(), []string{"Bob", "Carol", "Alice"}, names)
}

func (s *SplitSuite) TestItemSplitPercentage() {
	item := s.createItem(40)

	ids := fmt.Sprintf("%d,%d", s.bob.ID, s.carol.ID)
	split, err := s.svc.CreateItemSplit(s.ctx, s.alice.ID, item.ID, ids, "25,75", true)
	require.NoError(s.T(), err)

	// 25% × 40 = 10, 75% × 40 = 30
	assert.Equal(s.T(), "10", split.Shares[0].Amount.String())
	assert.Equal(s.T(), "30", split.Shares[1].Amount.String())
}

func (s *SplitSuite) TestSharedWithOwner() {
	item := s.createItem(20)

	ids := fmt.Sprintf("%d,%d", s.alice.ID, s.bob.ID)
	split, err := s.svc.CreateItemSplit(s.ctx, s.alice.ID, item.ID, ids, "10,10", false)
	require.NoError(s.T(), err)
	assert.True(s.T(), split.SharedWithOwner)
}

func (s *SplitSuite) TestItemSplitValidation() {
	item := s.createItem(30)
	bobID := fmt.Sprintf("%d", s.bob.ID)

	_, err := s.svc.CreateItemSplit(s.ctx, s.alice.ID, item.ID, "abc", "10", false)
	assert.ErrorIs(s.T(), err, ErrBadIDList)

	_, err = s.svc.CreateItemSplit(s.ctx, s.alice.ID, item.ID, bobID, "ten", false)
	assert.ErrorIs(s.T(), err, ErrBadAmountList)

	_, err = s.svc.CreateItemSplit(s.ctx, s.alice.ID, item.ID, bobID+","+bobID, "10,20", false)
	assert.ErrorIs(s.T(), err, ErrDuplicateSharedUsers)

	_, err = s.svc.CreateItemSplit(s.ctx, s.alice.ID, item.ID, "9999", "10", false)
	assert.ErrorIs(s.T(), err, ErrUsersDoNotExist)

	_, err = s.svc.CreateItemSplit(s.ctx, s.alice.ID, item.ID, bobID, "10,20", false)
	assert.ErrorIs(s.T(), err, ErrListLengthMismatch)

	// 别人的条目不能建分摊
	_, err = s.svc.CreateItemSplit(s.ctx, s.bob.ID, item.ID, bobID, "10", false)
	assert.ErrorIs(s.T(), err, ErrNotOwner)

	// 不存在的条目
	_, err = s.svc.CreateItemSplit(s.ctx, s.alice.ID, 9999, bobID, "10", false)
	require.Error(s.T(), err)
	assert.Equal(s.T(), "item with id 9999 does not exist", err.Error())
}

func (s *SplitSuite) TestItemSplitExists() {
	item := s.createItem(30)
	bobID := fmt.Sprintf("%d", s.bob.ID)

	_, err := s.svc.CreateItemSplit(s.ctx, s.alice.ID, item.ID, bobID, "15", false)
	require.NoError(s.T(), err)

	_, err = s.svc.CreateItemSplit(s.ctx, s.alice.ID, item.ID, bobID, "15", false)
	assert.ErrorIs(s.T(), err, ErrSplitExists)
}

func (s *SplitSuite) TestReceiptSplit() {
	receipt := s.createReceipt(60)
	ids := fmt.Sprintf("%d,%d", s.bob.ID, s.carol.ID)

	split, err := s.svc.CreateReceiptSplit(s.ctx, s.alice.ID, receipt.ID, ids, "50,50", true)
	require.NoError(s.T(), err)
	assert.Equal(s.T(), "30", split.Shares[0].Amount.String())
	assert.Equal(s.T(), "30", split.Shares[1].Amount.String())

	names, err := s.svc.ReceiptSharedUsers(s.ctx, receipt.ID)
	require.NoError(s.T(), err)
	assert.Equal(s.T(), []string{"Bob", "Carol", "Alice"}, names)

	amounts, err := s.svc.ReceiptSharedAmounts(s.ctx, receipt.ID)
	require.NoError(s.T(), err)
	assert.Len(s.T(), amounts.Amounts, 2)
}

func (s *SplitSuite) TestReceiptSplitZeroTotal() {
	receipt := s.createReceipt(0)
	_, err := s.svc.CreateReceiptSplit(s.ctx, s.alice.ID, receipt.ID, fmt.Sprintf("%d", s.bob.ID), "10", false)
	assert.ErrorIs(s.T(), err, ErrInvalidTotal)
}

func (s *SplitSuite) TestReadMissingSplit() {
	_, err := s.svc.ItemSharedUsers(s.ctx, 42)
	require.Error(s.T(), err)
	assert.Equal(s.T(), "item split for item with id 42 does not exist", err.Error())

	_, err = s.svc.ReceiptSharedAmounts(s.ctx, 42)
	require.Error(s.T(), err)
	assert.Equal(s.T(), "receipt split for receipt with id 42 does not exist", err.Error())
}
