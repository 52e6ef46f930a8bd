package controller

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/leon37/ReceiptLedger/internal/api/response"
	"github.com/leon37/ReceiptLedger/internal/service"
)

// AuthController 处理用户认证和 Profile
type AuthController struct {
	authService *service.AuthService
}

func NewAuthController(authService *service.AuthService) *AuthController {
	return &AuthController{
		authService: authService,
	}
}

// ==========================================
// DTOs (请求/响应参数定义)
// ==========================================

type RegisterRequest struct {
	Username  string `json:"username" binding:"required,min=2,max=100"`
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,min=6"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Telephone string `json:"telephone"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type LoginResponse struct {
	Token  string `json:"token"`
	UserID uint   `json:"user_id"`
}

type ResetRequestRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type ResetPasswordRequest struct {
	Email       string `json:"email" binding:"required,email"`
	Code        string `json:"code" binding:"required"`
	NewPassword string `json:"new_password" binding:"required,min=6"`
}

type UpdateProfileRequest struct {
	Telephone    string `json:"telephone"`
	ForwardEmail string `json:"forward_email"`
}

// ==========================================
// Handlers
// ==========================================

// Register 用户注册
// @Summary 用户注册
// @Description 创建新用户，密码加密存储；副作用：建 Profile、播种默认分类、认领邮箱邀请
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body RegisterRequest true "注册参数"
// @Success 200 {object} response.Response "Code=0 成功"
// @Router /auth/register [post]
func (ctrl *AuthController) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Warn("Register params invalid", "err", err)
		response.Error(c, http.StatusBadRequest, "参数校验失败: "+err.Error())
		return
	}

	user, err := ctrl.authService.Register(c.Request.Context(), service.RegisterInput{
		Username:  req.Username,
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Telephone: req.Telephone,
	})
	if err != nil {
		slog.Error("Register failed", "email", req.Email, "err", err)
		response.Error(c, http.StatusConflict, "注册失败: "+err.Error())
		return
	}

	slog.Info("User registered", "email", req.Email, "userID", user.ID)
	response.Success(c, gin.H{"user_id": user.ID})
}

// Login 用户登录
// @Summary 用户登录
// @Description 校验账号密码，颁发 JWT Token
// @Tags Auth
// @Router /auth/login [post]
func (ctrl *AuthController) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "参数格式错误")
		return
	}

	token, userID, err := ctrl.authService.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		slog.Warn("Login failed", "email", req.Email, "err", err)
		// 为了防止暴力破解，提示信息模糊化
		response.Error(c, http.StatusUnauthorized, "登录失败: 账号或密码错误")
		return
	}

	slog.Info("User logged in", "userID", userID)
	response.Success(c, LoginResponse{
		Token:  token,
		UserID: userID,
	})
}

// RequestReset 申请密码重置码
// @Summary 申请密码重置码
// @Tags Auth
// @Router /auth/reset/request [post]
func (ctrl *AuthController) RequestReset(c *gin.Context) {
	var req ResetRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "参数格式错误")
		return
	}

	if err := ctrl.authService.RequestPasswordReset(c.Request.Context(), req.Email); err != nil {
		slog.Error("RequestReset failed", "email", req.Email, "err", err)
		response.Error(c, http.StatusInternalServerError, "发送重置码失败")
		return
	}
	response.Success(c, nil)
}

// ResetPassword 用一次性重置码改密
// @Summary 重置密码
// @Tags Auth
// @Router /auth/reset [post]
func (ctrl *AuthController) ResetPassword(c *gin.Context) {
	var req ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "参数格式错误")
		return
	}

	if err := ctrl.authService.ResetPassword(c.Request.Context(), req.Email, req.Code, req.NewPassword); err != nil {
		slog.Warn("ResetPassword failed", "email", req.Email, "err", err)
		response.Error(c, http.StatusBadRequest, err.Error())
		return
	}
	response.Success(c, nil)
}

// GetProfile 查询当前用户 Profile
// @Summary 查询 Profile
// @Tags Auth
// @Security BearerAuth
// @Router /profile [get]
func (ctrl *AuthController) GetProfile(c *gin.Context) {
	userID := c.GetUint("userID")
	profile, err := ctrl.authService.GetProfile(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, http.StatusNotFound, "profile does not exist")
		return
	}
	response.Success(c, profile)
}

// UpdateProfile 更新电话/转发邮箱
// @Summary 更新 Profile
// @Tags Auth
// @Security BearerAuth
// @Router /profile [put]
func (ctrl *AuthController) UpdateProfile(c *gin.Context) {
	userID := c.GetUint("userID")

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "参数格式错误")
		return
	}

	profile, err := ctrl.authService.UpdateProfile(c.Request.Context(), userID, req.Telephone, req.ForwardEmail)
	if err != nil {
		response.Error(c, http.StatusBadRequest, err.Error())
		return
	}
	response.Success(c, profile)
}
