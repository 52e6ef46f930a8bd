package controller

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/leon37/ReceiptLedger/internal/api/response"
	"github.com/leon37/ReceiptLedger/internal/repository"
	"github.com/leon37/ReceiptLedger/internal/service"
)

type FriendController struct {
	service  *service.FriendService
	userRepo *repository.UserRepository
}

func NewFriendController(s *service.FriendService, userRepo *repository.UserRepository) *FriendController {
	return &FriendController{service: s, userRepo: userRepo}
}

type FriendRequestRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type FriendRespondRequest struct {
	RequesterID uint `json:"requester_id" binding:"required"`
	// Answer 只接受 0（拒绝）或 1（确认），用指针区分“没传”和“传了 0”
	Answer *int `json:"answer" binding:"required"`
}

type FriendRemoveRequest struct {
	FriendUserID uint `json:"friend_user_id" binding:"required"`
}

// Request 发起好友请求
// @Summary 发起好友请求（对方未注册则发邮箱邀请）
// @Tags Friends
// @Security BearerAuth
// @Router /friends/request [post]
func (ctrl *FriendController) Request(c *gin.Context) {
	userID := c.GetUint("userID")

	var req FriendRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "参数错误: "+err.Error())
		return
	}

	requester, err := ctrl.userRepo.GetByID(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, http.StatusUnauthorized, "user does not exist")
		return
	}

	edge, err := ctrl.service.Request(c.Request.Context(), requester, req.Email)
	if err != nil {
		slog.Warn("Friend request failed", "userID", userID, "target", req.Email, "err", err)
		response.BusinessError(c, err)
		return
	}
	response.Success(c, edge)
}

// Respond 响应好友请求
// @Summary 响应好友请求，1 确认 0 删除
// @Tags Friends
// @Security BearerAuth
// @Router /friends/respond [post]
func (ctrl *FriendController) Respond(c *gin.Context) {
	userID := c.GetUint("userID")

	var req FriendRespondRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "参数错误: "+err.Error())
		return
	}

	if err := ctrl.service.Respond(c.Request.Context(), userID, req.RequesterID, *req.Answer); err != nil {
		response.BusinessError(c, err)
		return
	}
	response.Success(c, nil)
}

// List 好友关系全景
// @Summary 好友关系：已发送/已收到/已确认/未认领邀请
// @Tags Friends
// @Security BearerAuth
// @Router /friends [get]
func (ctrl *FriendController) List(c *gin.Context) {
	userID := c.GetUint("userID")
	state, err := ctrl.service.ListState(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "获取好友列表失败")
		return
	}
	response.Success(c, state)
}

// Remove 删除已确认的好友
// @Summary 删除好友
// @Tags Friends
// @Security BearerAuth
// @Router /friends/remove [post]
func (ctrl *FriendController) Remove(c *gin.Context) {
	userID := c.GetUint("userID")

	var req FriendRemoveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "参数错误: "+err.Error())
		return
	}

	if err := ctrl.service.Remove(c.Request.Context(), userID, req.FriendUserID); err != nil {
		response.BusinessError(c, err)
		return
	}
	response.Success(c, nil)
}
