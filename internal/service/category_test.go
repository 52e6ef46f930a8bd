package service

import (
	"context"
	"testing"

	"github.com/leon37/ReceiptLedger/internal/model"
	"github.com/leon37/ReceiptLedger/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"
)

type CategorySuite struct {
	suite.Suite
	db   *gorm.DB
	svc  *CategoryService
	user *model.User
	ctx  context.Context
}

func (s *CategorySuite) SetupTest() {
	s.db = newTestDB(s.T())
	s.svc = NewCategoryService(repository.NewCategoryRepo(s.db))
	s.user = createTestUser(s.T(), s.db, "Alice")
	s.ctx = context.Background()
}

func TestCategorySuite(t *testing.T) {
	suite.Run(t, new(CategorySuite))
}

func (s *CategorySuite) TestAddDuplicate() {
	_, err := s.svc.Add(s.ctx, s.user.ID, "Food", nil, false)
	require.NoError(s.T(), err)

	_, err = s.svc.Add(s.ctx, s.user.ID, "Food", nil, false)
	assert.ErrorIs(s.T(), err, ErrDuplicateCategory)

	// 别的用户可以用同名分类
	other := createTestUser(s.T(), s.db, "Bob")
	_, err = s.svc.Add(s.ctx, other.ID, "Food", nil, false)
	assert.NoError(s.T(), err)
}

func (s *CategorySuite) TestSubCategoryDepth() {
	parent, err := s.svc.Add(s.ctx, s.user.ID, "Food", nil, false)
	require.NoError(s.T(), err)

	child, err := s.svc.Add(s.ctx, s.user.ID, "Fruits", &parent.ID, false)
	require.NoError(s.T(), err)

	// 树只有两层，子分类不能再挂孩子
	_, err = s.svc.Add(s.ctx, s.user.ID, "Berries", &child.ID, false)
	assert.ErrorIs(s.T(), err, ErrCategoryDepth)
}

func (s *CategorySuite) TestToggleStar() {
	_, err := s.svc.Add(s.ctx, s.user.ID, "Food", nil, false)
	require.NoError(s.T(), err)

	c, err := s.svc.ToggleStar(s.ctx, s.user.ID, "Food")
	require.NoError(s.T(), err)
	assert.True(s.T(), c.Starred)

	c, err = s.svc.ToggleStar(s.ctx, s.user.ID, "Food")
	require.NoError(s.T(), err)
	assert.False(s.T(), c.Starred)

	_, err = s.svc.ToggleStar(s.ctx, s.user.ID, "Nope")
	assert.ErrorIs(s.T(), err, ErrCategoryNotFound)
}

// 规约场景：Food(父) / Fruits(子) / Fruits 下有条目
func (s *CategorySuite) TestDeleteGuards() {
	parent, err := s.svc.Add(s.ctx, s.user.ID, "Food", nil, false)
	require.NoError(s.T(), err)
	child, err := s.svc.Add(s.ctx, s.user.ID, "Fruits", &parent.ID, false)
	require.NoError(s.T(), err)

	receipt := &model.Receipt{UserID: s.user.ID}
	require.NoError(s.T(), s.db.Create(receipt).Error)
	item := &model.Item{ReceiptID: receipt.ID, UserID: s.user.ID, Name: "Apples", Price: 3.5, CategoryID: &child.ID}
	require.NoError(s.T(), s.db.Create(item).Error)

	// 有子分类的不能删
	err = s.svc.Delete(s.ctx, s.user.ID, "Food")
	assert.ErrorIs(s.T(), err, ErrParentCategory)

	// 还有条目引用的不能删
	err = s.svc.Delete(s.ctx, s.user.ID, "Fruits")
	assert.ErrorIs(s.T(), err, ErrCategoryInUse)

	// 两个分类都还在
	_, err = s.svc.List(s.ctx, s.user.ID)
	require.NoError(s.T(), err)
	categories, _ := s.svc.List(s.ctx, s.user.ID)
	assert.Len(s.T(), categories, 2)

	// 删掉条目之后子分类可删，父分类随之也可删
	require.NoError(s.T(), s.db.Delete(&model.Item{}, item.ID).Error)
	require.NoError(s.T(), s.svc.Delete(s.ctx, s.user.ID, "Fruits"))
	require.NoError(s.T(), s.svc.Delete(s.ctx, s.user.ID, "Food"))

	categories, err = s.svc.List(s.ctx, s.user.ID)
	require.NoError(s.T(), err)
	assert.Empty(s.T(), categories)
}

func (s *CategorySuite) TestAggregateCosts() {
	food, err := s.svc.Add(s.ctx, s.user.ID, "Food", nil, false)
	require.NoError(s.T(), err)
	transport, err := s.svc.Add(s.ctx, s.user.ID, "Transport", nil, false)
	require.NoError(s.T(), err)
	// 空分类，不应出现在结果里
	_, err = s.svc.Add(s.ctx, s.user.ID, "Empty", nil, false)
	require.NoError(s.T(), err)

	receipt := &model.Receipt{UserID: s.user.ID}
	require.NoError(s.T(), s.db.Create(receipt).Error)
	for _, it := range []model.Item{
		{ReceiptID: receipt.ID, UserID: s.user.ID, Name: "Bread", Price: 2.5, CategoryID: &food.ID},
		{ReceiptID: receipt.ID, UserID: s.user.ID, Name: "Milk", Price: 1.5, CategoryID: &food.ID},
		{ReceiptID: receipt.ID, UserID: s.user.ID, Name: "Bus", Price: 3.0, CategoryID: &transport.ID},
	} {
		require.NoError(s.T(), s.db.Create(&it).Error)
	}

	costs, err := s.svc.AggregateCosts(s.ctx, s.user.ID)
	require.NoError(s.T(), err)
	require.Len(s.T(), costs, 2)

	// 按分类 id 升序
	assert.Equal(s.T(), food.ID, costs[0].CategoryID)
	assert.InDelta(s.T(), 4.0, costs[0].Cost, 0.001)
	assert.Equal(s.T(), transport.ID, costs[1].CategoryID)
	assert.InDelta(s.T(), 3.0, costs[1].Cost, 0.001)
}

func (s *CategorySuite) TestSeedDefaults() {
	require.NoError(s.T(), s.svc.SeedDefaults(s.ctx, s.user.ID))

	categories, err := s.svc.List(s.ctx, s.user.ID)
	require.NoError(s.T(), err)
	assert.Len(s.T(), categories, len(model.DefaultCategories))

	// 重复播种不报错也不重复建
	require.NoError(s.T(), s.svc.SeedDefaults(s.ctx, s.user.ID))
	categories, _ = s.svc.List(s.ctx, s.user.ID)
	assert.Len(s.T(), categories, len(model.DefaultCategories))
}
