package service

import (
	"context"
	"testing"

	"github.com/leon37/ReceiptLedger/internal/model"
	"github.com/leon37/ReceiptLedger/internal/repository"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"
)

// recordingMailer 记录发送动作，供断言
type recordingMailer struct {
	invites    []string
	resetCodes map[string]string
}

func newRecordingMailer() *recordingMailer {
	return &recordingMailer{resetCodes: map[string]string{}}
}

func (m *recordingMailer) SendInvite(toEmail, inviterName string) error {
	m.invites = append(m.invites, toEmail)
	return nil
}

func (m *recordingMailer) SendResetCode(toEmail, code string) error {
	m.resetCodes[toEmail] = code
	return nil
}

type AuthSuite struct {
	suite.Suite
	db        *gorm.DB
	svc       *AuthService
	friendSvc *FriendService
	mail      *recordingMailer
	ctx       context.Context
}

func (s *AuthSuite) SetupTest() {
	s.db = newTestDB(s.T())
	s.mail = newRecordingMailer()
	userRepo := repository.NewUserRepository(s.db)
	categorySvc := NewCategoryService(repository.NewCategoryRepo(s.db))
	s.friendSvc = NewFriendService(repository.NewFriendRepository(s.db), userRepo, s.mail)
	s.svc = NewAuthService(userRepo, categorySvc, s.friendSvc, s.mail)
	s.ctx = context.Background()

	viper.Set("jwt.secret", "test-secret")
	viper.Set("jwt.expire_hours", 24)
}

func TestAuthSuite(t *testing.T) {
	suite.Run(t, new(AuthSuite))
}

func (s *AuthSuite) register(email string) *model.User {
	user, err := s.svc.Register(s.ctx, RegisterInput{
		Username:  email,
		Email:     email,
		Password:  "hunter22",
		FirstName: "Alice",
	})
	require.NoError(s.T(), err)
	return user
}

func (s *AuthSuite) TestRegisterSideEffects() {
	user := s.register("alice@example.com")

	// Profile 一并创建
	profile, err := s.svc.GetProfile(s.ctx, user.ID)
	require.NoError(s.T(), err)
	assert.Equal(s.T(), user.ID, profile.UserID)

	// 默认分类播种完整
	var categories []model.Category
	require.NoError(s.T(), s.db.Where("user_id = ?", user.ID).Find(&categories).Error)
	assert.Len(s.T(), categories, len(model.DefaultCategories))

	names := make([]string, len(categories))
	for i, c := range categories {
		names[i] = c.Name
	}
	assert.Contains(s.T(), names, model.FallbackCategoryName)
}

func (s *AuthSuite) TestRegisterInvalidTelephone() {
	_, err := s.svc.Register(s.ctx, RegisterInput{
		Username:  "bob",
		Email:     "bob@example.com",
		Password:  "x",
		Telephone: "12345",
	})
	require.Error(s.T(), err)
	assert.Contains(s.T(), err.Error(), "invalid telephone")

	// 合法 E.164 号码放行
	_, err = s.svc.Register(s.ctx, RegisterInput{
		Username:  "bob",
		Email:     "bob@example.com",
		Password:  "x",
		Telephone: "+14155552671",
	})
	assert.NoError(s.T(), err)
}

func (s *AuthSuite) TestTelephoneUniqueness() {
	_, err := s.svc.Register(s.ctx, RegisterInput{
		Username:  "alice",
		Email:     "alice@example.com",
		Password:  "x",
		Telephone: "+14155552671",
	})
	require.NoError(s.T(), err)

	// 同号码注册第二次拒绝
	_, err = s.svc.Register(s.ctx, RegisterInput{
		Username:  "bob",
		Email:     "bob@example.com",
		Password:  "x",
		Telephone: "+14155552671",
	})
	assert.ErrorIs(s.T(), err, ErrDuplicateTelephone)

	// 空号码不占号，多个用户都可以不填
	bob := s.register("bob@example.com")
	carol := s.register("carol@example.com")

	// 改 Profile 也不能抢别人的号码
	_, err = s.svc.UpdateProfile(s.ctx, bob.ID, "+14155552671", "")
	assert.ErrorIs(s.T(), err, ErrDuplicateTelephone)

	// 自己的号码原样提交不算冲突
	profile, err := s.svc.UpdateProfile(s.ctx, carol.ID, "+442071838750", "")
	require.NoError(s.T(), err)
	assert.Equal(s.T(), "+442071838750", profile.Telephone)
	_, err = s.svc.UpdateProfile(s.ctx, carol.ID, "+442071838750", "fwd@example.com")
	assert.NoError(s.T(), err)
}

func (s *AuthSuite) TestLogin() {
	user := s.register("alice@example.com")

	token, userID, err := s.svc.Login(s.ctx, "alice@example.com", "hunter22")
	require.NoError(s.T(), err)
	assert.NotEmpty(s.T(), token)
	assert.Equal(s.T(), user.ID, userID)

	_, _, err = s.svc.Login(s.ctx, "alice@example.com", "wrong")
	require.Error(s.T(), err)
	assert.Equal(s.T(), "invalid credentials", err.Error())

	_, _, err = s.svc.Login(s.ctx, "nobody@example.com", "hunter22")
	require.Error(s.T(), err)
	assert.Equal(s.T(), "invalid credentials", err.Error())
}

func (s *AuthSuite) TestPasswordResetFlow() {
	s.register("alice@example.com")

	// 未知邮箱静默成功，不发邮件
	require.NoError(s.T(), s.svc.RequestPasswordReset(s.ctx, "nobody@example.com"))
	assert.Empty(s.T(), s.mail.resetCodes)

	require.NoError(s.T(), s.svc.RequestPasswordReset(s.ctx, "alice@example.com"))
	code := s.mail.resetCodes["alice@example.com"]
	require.NotEmpty(s.T(), code)

	err := s.svc.ResetPassword(s.ctx, "alice@example.com", "wrong-code", "newpass")
	require.Error(s.T(), err)

	require.NoError(s.T(), s.svc.ResetPassword(s.ctx, "alice@example.com", code, "newpass"))

	// 新密码生效，旧密码失效，重置码一次性
	_, _, err = s.svc.Login(s.ctx, "alice@example.com", "newpass")
	assert.NoError(s.T(), err)
	_, _, err = s.svc.Login(s.ctx, "alice@example.com", "hunter22")
	assert.Error(s.T(), err)
	err = s.svc.ResetPassword(s.ctx, "alice@example.com", code, "again")
	assert.Error(s.T(), err)
}

func (s *AuthSuite) TestRegisterRehomesInvites() {
	inviter := s.register("alice@example.com")

	_, err := s.friendSvc.Request(s.ctx, inviter, "carol@example.com")
	require.NoError(s.T(), err)
	assert.Equal(s.T(), []string{"carol@example.com"}, s.mail.invites)

	carol := s.register("carol@example.com")

	// 注册后邀请边变成 Carol 收到的待确认请求
	state, err := s.friendSvc.ListState(s.ctx, carol.ID)
	require.NoError(s.T(), err)
	require.Len(s.T(), state.ReceivedPending, 1)
	assert.Equal(s.T(), inviter.ID, state.ReceivedPending[0].UserID)

	inviterState, err := s.friendSvc.ListState(s.ctx, inviter.ID)
	require.NoError(s.T(), err)
	assert.Empty(s.T(), inviterState.PendingInvites)
	assert.Len(s.T(), inviterState.SentPending, 1)
}

func (s *AuthSuite) TestUpdateProfile() {
	user := s.register("alice@example.com")

	profile, err := s.svc.UpdateProfile(s.ctx, user.ID, "+14155552671", "fwd@example.com")
	require.NoError(s.T(), err)
	assert.Equal(s.T(), "+14155552671", profile.Telephone)
	assert.Equal(s.T(), "fwd@example.com", profile.ForwardEmail)

	_, err = s.svc.UpdateProfile(s.ctx, user.ID, "not-a-phone", "")
	assert.Error(s.T(), err)
}
