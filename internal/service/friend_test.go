package service

import (
	"context"
	"testing"

	"github.com/leon37/ReceiptLedger/internal/infrastructure/mailer"
	"github.com/leon37/ReceiptLedger/internal/model"
	"github.com/leon37/ReceiptLedger/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"
)

type FriendSuite struct {
	suite.Suite
	db    *gorm.DB
	svc   *FriendService
	alice *model.User
	bob   *model.User
	ctx   context.Context
}

func (s *FriendSuite) SetupTest() {
	s.db = newTestDB(s.T())
	s.svc = NewFriendService(repository.NewFriendRepository(s.db), repository.NewUserRepository(s.db), &mailer.NoopMailer{})
	s.alice = createTestUser(s.T(), s.db, "Alice")
	s.bob = createTestUser(s.T(), s.db, "Bob")
	s.ctx = context.Background()
}

func TestFriendSuite(t *testing.T) {
	suite.Run(t, new(FriendSuite))
}

func (s *FriendSuite) TestRequestGuards() {
	_, err := s.svc.Request(s.ctx, s.alice, s.alice.Email)
	assert.ErrorIs(s.T(), err, ErrSelfFriend)

	_, err = s.svc.Request(s.ctx, s.alice, s.bob.Email)
	require.NoError(s.T(), err)

	// 同方向重复发
	_, err = s.svc.Request(s.ctx, s.alice, s.bob.Email)
	assert.ErrorIs(s.T(), err, ErrRequestAlreadySent)

	// 反方向：对方的请求还挂着
	_, err = s.svc.Request(s.ctx, s.bob, s.alice.Email)
	assert.ErrorIs(s.T(), err, ErrRequestAlreadyReceived)
}

func (s *FriendSuite) TestRespondConfirm() {
	_, err := s.svc.Request(s.ctx, s.alice, s.bob.Email)
	require.NoError(s.T(), err)

	// 非 0/1 一律拒绝，边保持 pending
	err = s.svc.Respond(s.ctx, s.bob.ID, s.alice.ID, 2)
	assert.ErrorIs(s.T(), err, ErrInvalidAnswer)

	bobState, err := s.svc.ListState(s.ctx, s.bob.ID)
	require.NoError(s.T(), err)
	require.Len(s.T(), bobState.ReceivedPending, 1)
	assert.Equal(s.T(), s.alice.ID, bobState.ReceivedPending[0].UserID)

	require.NoError(s.T(), s.svc.Respond(s.ctx, s.bob.ID, s.alice.ID, 1))

	// 确认后双方都能看到
	aliceState, err := s.svc.ListState(s.ctx, s.alice.ID)
	require.NoError(s.T(), err)
	require.Len(s.T(), aliceState.Confirmed, 1)
	assert.Equal(s.T(), s.bob.ID, aliceState.Confirmed[0].UserID)
	assert.Empty(s.T(), aliceState.SentPending)

	bobState, err = s.svc.ListState(s.ctx, s.bob.ID)
	require.NoError(s.T(), err)
	require.Len(s.T(), bobState.Confirmed, 1)
	assert.Equal(s.T(), s.alice.ID, bobState.Confirmed[0].UserID)

	// 已确认后任一方向再发都拒绝
	_, err = s.svc.Request(s.ctx, s.bob, s.alice.Email)
	assert.ErrorIs(s.T(), err, ErrAlreadyFriends)
}

func (s *FriendSuite) TestRespondReject() {
	_, err := s.svc.Request(s.ctx, s.alice, s.bob.Email)
	require.NoError(s.T(), err)

	require.NoError(s.T(), s.svc.Respond(s.ctx, s.bob.ID, s.alice.ID, 0))

	// 拒绝后边删除，可以重新发起
	state, err := s.svc.ListState(s.ctx, s.alice.ID)
	require.NoError(s.T(), err)
	assert.Empty(s.T(), state.SentPending)

	_, err = s.svc.Request(s.ctx, s.alice, s.bob.Email)
	assert.NoError(s.T(), err)
}

func (s *FriendSuite) TestRespondNoPending() {
	err := s.svc.Respond(s.ctx, s.bob.ID, s.alice.ID, 1)
	assert.ErrorIs(s.T(), err, ErrFriendNotFound)
}

func (s *FriendSuite) TestRemove() {
	_, err := s.svc.Request(s.ctx, s.alice, s.bob.Email)
	require.NoError(s.T(), err)
	require.NoError(s.T(), s.svc.Respond(s.ctx, s.bob.ID, s.alice.ID, 1))

	// 被请求方也能解除关系
	require.NoError(s.T(), s.svc.Remove(s.ctx, s.bob.ID, s.alice.ID))

	state, err := s.svc.ListState(s.ctx, s.alice.ID)
	require.NoError(s.T(), err)
	assert.Empty(s.T(), state.Confirmed)

	err = s.svc.Remove(s.ctx, s.bob.ID, s.alice.ID)
	assert.ErrorIs(s.T(), err, ErrFriendNotFound)
}

func (s *FriendSuite) TestInviteAndRehome() {
	const email = "carol@example.com"

	edge, err := s.svc.Request(s.ctx, s.alice, email)
	require.NoError(s.T(), err)
	assert.Equal(s.T(), model.FriendStatusInvited, edge.Status)
	assert.Equal(s.T(), email, edge.TempEmail)

	_, err = s.svc.Request(s.ctx, s.alice, email)
	assert.ErrorIs(s.T(), err, ErrDuplicateInvite)

	state, err := s.svc.ListState(s.ctx, s.alice.ID)
	require.NoError(s.T(), err)
	assert.Equal(s.T(), []string{email}, state.PendingInvites)

	// Carol 注册后，邀请边改挂到真实账号并转成待确认
	carol := &model.User{Username: "carol", Email: email, Password: "x", FirstName: "Carol"}
	require.NoError(s.T(), s.db.Create(carol).Error)
	require.NoError(s.T(), s.svc.RehomeInvites(s.ctx, carol))

	state, err = s.svc.ListState(s.ctx, s.alice.ID)
	require.NoError(s.T(), err)
	assert.Empty(s.T(), state.PendingInvites)
	require.Len(s.T(), state.SentPending, 1)
	assert.Equal(s.T(), carol.ID, state.SentPending[0].UserID)

	carolState, err := s.svc.ListState(s.ctx, carol.ID)
	require.NoError(s.T(), err)
	require.Len(s.T(), carolState.ReceivedPending, 1)
	assert.Equal(s.T(), s.alice.ID, carolState.ReceivedPending[0].UserID)

	require.NoError(s.T(), s.svc.Respond(s.ctx, carol.ID, s.alice.ID, 1))
	carolState, _ = s.svc.ListState(s.ctx, carol.ID)
	assert.Len(s.T(), carolState.Confirmed, 1)
}
