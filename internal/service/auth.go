package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/leon37/ReceiptLedger/internal/infrastructure/mailer"
	"github.com/leon37/ReceiptLedger/internal/model"
	"github.com/leon37/ReceiptLedger/internal/repository"
	"github.com/nyaruka/phonenumbers"

	"github.com/golang-jwt/jwt/v5"
	"github.com/spf13/viper"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type AuthService struct {
	userRepo    *repository.UserRepository
	categorySvc *CategoryService
	friendSvc   *FriendService
	mail        mailer.Mailer
}

func NewAuthService(userRepo *repository.UserRepository, categorySvc *CategoryService, friendSvc *FriendService, mail mailer.Mailer) *AuthService {
	return &AuthService{
		userRepo:    userRepo,
		categorySvc: categorySvc,
		friendSvc:   friendSvc,
		mail:        mail,
	}
}

// RegisterInput 注册参数
type RegisterInput struct {
	Username  string
	Email     string
	Password  string
	FirstName string
	LastName  string
	Telephone string
}

// validateTelephone 要求 E.164 格式（+区号开头），空串放行
func validateTelephone(telephone string) error {
	if telephone == "" {
		return nil
	}
	num, err := phonenumbers.Parse(telephone, "")
	if err != nil {
		return fmt.Errorf("invalid telephone number %q: %w", telephone, err)
	}
	if !phonenumbers.IsValidNumber(num) {
		return fmt.Errorf("invalid telephone number %q", telephone)
	}
	return nil
}

// checkTelephoneFree 电话号码全局唯一，空号码不占号
// selfID 非 0 时放过本人（改 Profile 时把号码原样提交不算冲突）
func (s *AuthService) checkTelephoneFree(ctx context.Context, telephone string, selfID uint) error {
	if telephone == "" {
		return nil
	}
	holder, err := s.userRepo.GetProfileByTelephone(ctx, telephone)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return err
	}
	if holder.UserID != selfID {
		return ErrDuplicateTelephone
	}
	return nil
}

// Register 注册逻辑
// 副作用：创建 Profile、播种默认分类、把发到这个邮箱的邀请边 rehome 成待确认请求
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*model.User, error) {
	if err := validateTelephone(input.Telephone); err != nil {
		return nil, err
	}
	if err := s.checkTelephoneFree(ctx, input.Telephone, 0); err != nil {
		return nil, err
	}

	// 密码加密
	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		Username:  input.Username,
		Email:     input.Email,
		Password:  string(hash),
		FirstName: input.FirstName,
		LastName:  input.LastName,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	profile := &model.UserProfile{
		UserID:    user.ID,
		Telephone: input.Telephone,
	}
	if err := s.userRepo.CreateProfile(ctx, profile); err != nil {
		return nil, err
	}

	// 播种默认分类；失败不回滚注册，记日志
	if err := s.categorySvc.SeedDefaults(ctx, user.ID); err != nil {
		slog.Error("播种默认分类失败", "userID", user.ID, "error", err)
	}

	// 邀请边 rehome：之前有人邀请过这个邮箱的话，现在变成正式的待确认请求
	if err := s.friendSvc.RehomeInvites(ctx, user); err != nil {
		slog.Error("rehome 邀请边失败", "userID", user.ID, "error", err)
	}

	return user, nil
}

// Login 登录逻辑，返回 Token
func (s *AuthService) Login(ctx context.Context, email, password string) (string, uint, error) {
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return "", 0, errors.New("invalid credentials") // 模糊报错为了安全
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return "", 0, errors.New("invalid credentials")
	}

	token, err := s.generateToken(user.ID)
	return token, user.ID, err
}

func (s *AuthService) generateToken(userID uint) (string, error) {
	secret := viper.GetString("jwt.secret")
	expireHours := viper.GetInt("jwt.expire_hours")

	claims := jwt.MapClaims{
		"user_id": userID,
		"exp":     time.Now().Add(time.Hour * time.Duration(expireHours)).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// RequestPasswordReset 生成一次性重置码并邮件发送
// 邮箱不存在时静默成功，避免探测账号
func (s *AuthService) RequestPasswordReset(ctx context.Context, email string) error {
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return err
	}

	profile, err := s.userRepo.GetProfileByUserID(ctx, user.ID)
	if err != nil {
		return err
	}

	code := uuid.NewString()
	profile.ResetCode = code
	if err := s.userRepo.SaveProfile(ctx, profile); err != nil {
		return err
	}

	if err := s.mail.SendResetCode(user.Email, code); err != nil {
		slog.Error("发送重置码邮件失败", "email", email, "error", err)
		return err
	}
	return nil
}

// ResetPassword 消费一次性重置码
func (s *AuthService) ResetPassword(ctx context.Context, email, code, newPassword string) error {
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return errors.New("invalid reset code")
	}
	profile, err := s.userRepo.GetProfileByUserID(ctx, user.ID)
	if err != nil {
		return err
	}

	if profile.ResetCode == "" || profile.ResetCode != code {
		return errors.New("invalid reset code")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	user.Password = string(hash)
	if err := s.userRepo.Save(ctx, user); err != nil {
		return err
	}

	// 重置码用后即废
	profile.ResetCode = ""
	return s.userRepo.SaveProfile(ctx, profile)
}

// UpdateProfile 编辑电话和转发邮箱
func (s *AuthService) UpdateProfile(ctx context.Context, userID uint, telephone, forwardEmail string) (*model.UserProfile, error) {
	if err := validateTelephone(telephone); err != nil {
		return nil, err
	}
	if err := s.checkTelephoneFree(ctx, telephone, userID); err != nil {
		return nil, err
	}

	profile, err := s.userRepo.GetProfileByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if telephone != "" {
		profile.Telephone = telephone
	}
	if forwardEmail != "" {
		profile.ForwardEmail = forwardEmail
	}
	if err := s.userRepo.SaveProfile(ctx, profile); err != nil {
		return nil, err
	}
	return profile, nil
}

// GetProfile 查当前用户的 Profile
func (s *AuthService) GetProfile(ctx context.Context, userID uint) (*model.UserProfile, error) {
	return s.userRepo.GetProfileByUserID(ctx, userID)
}
