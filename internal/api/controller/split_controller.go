package controller

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/leon37/ReceiptLedger/internal/api/response"
	"github.com/leon37/ReceiptLedger/internal/service"
)

type SplitController struct {
	service *service.SplitService
}

func NewSplitController(s *service.SplitService) *SplitController {
	return &SplitController{service: s}
}

// SplitCreateRequest 兼容旧接口：id 和金额都是逗号分隔字符串
// SharedAmount 与 SharedPercentage 二选一，后者按 0~100 理解
type SplitCreateRequest struct {
	SharedUserIDs    string `json:"shared_user_ids" binding:"required"`
	SharedAmount     string `json:"shared_amount"`
	SharedPercentage string `json:"shared_percentage"`
}

func (req *SplitCreateRequest) amounts() (string, bool, bool) {
	switch {
	case req.SharedAmount != "" && req.SharedPercentage != "":
		return "", false, false
	case req.SharedPercentage != "":
		return req.SharedPercentage, true, true
	case req.SharedAmount != "":
		return req.SharedAmount, false, true
	default:
		return "", false, false
	}
}

// CreateItemSplit 给条目建分摊
// @Summary 条目分摊（金额或百分比模式）
// @Tags Split
// @Security BearerAuth
// @Router /items/:id/split [post]
func (ctrl *SplitController) CreateItemSplit(c *gin.Context) {
	userID := c.GetUint("userID")
	itemID, ok := parseUintParam(c, "id")
	if !ok {
		return
	}

	var req SplitCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "参数错误: "+err.Error())
		return
	}
	amounts, percentageMode, ok := req.amounts()
	if !ok {
		response.Error(c, http.StatusBadRequest, "shared_amount 和 shared_percentage 必须二选一")
		return
	}

	split, err := ctrl.service.CreateItemSplit(c.Request.Context(), userID, itemID, req.SharedUserIDs, amounts, percentageMode)
	if err != nil {
		slog.Warn("Create item split failed", "itemID", itemID, "err", err)
		response.BusinessError(c, err)
		return
	}
	response.Success(c, split)
}

// CreateReceiptSplit 给整张票据建分摊
// @Summary 票据分摊（金额或百分比模式）
// @Tags Split
// @Security BearerAuth
// @Router /receipts/:id/split [post]
func (ctrl *SplitController) CreateReceiptSplit(c *gin.Context) {
	userID := c.GetUint("userID")
	receiptID, ok := parseUintParam(c, "id")
	if !ok {
		return
	}

	var req SplitCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "参数错误: "+err.Error())
		return
	}
	amounts, percentageMode, ok := req.amounts()
	if !ok {
		response.Error(c, http.StatusBadRequest, "shared_amount 和 shared_percentage 必须二选一")
		return
	}

	split, err := ctrl.service.CreateReceiptSplit(c.Request.Context(), userID, receiptID, req.SharedUserIDs, amounts, percentageMode)
	if err != nil {
		slog.Warn("Create receipt split failed", "receiptID", receiptID, "err", err)
		response.BusinessError(c, err)
		return
	}
	response.Success(c, split)
}

// ItemSharedUsers 条目分摊名单
// @Summary 条目分摊的用户名单（first name，含所有者）
// @Tags Split
// @Security BearerAuth
// @Router /items/:id/split/users [get]
func (ctrl *SplitController) ItemSharedUsers(c *gin.Context) {
	itemID, ok := parseUintParam(c, "id")
	if !ok {
		return
	}

	names, err := ctrl.service.ItemSharedUsers(c.Request.Context(), itemID)
	if err != nil {
		response.Error(c, http.StatusNotFound, err.Error())
		return
	}
	response.Success(c, gin.H{"shared_users": names})
}

// ReceiptSharedUsers 票据分摊名单
// @Summary 票据分摊的用户名单
// @Tags Split
// @Security BearerAuth
// @Router /receipts/:id/split/users [get]
func (ctrl *SplitController) ReceiptSharedUsers(c *gin.Context) {
	receiptID, ok := parseUintParam(c, "id")
	if !ok {
		return
	}

	names, err := ctrl.service.ReceiptSharedUsers(c.Request.Context(), receiptID)
	if err != nil {
		response.Error(c, http.StatusNotFound, err.Error())
		return
	}
	response.Success(c, gin.H{"shared_users": names})
}

// ItemSharedAmounts 条目分摊金额
// @Summary 条目分摊金额 + 所有者是否参与
// @Tags Split
// @Security BearerAuth
// @Router /items/:id/split/amounts [get]
func (ctrl *SplitController) ItemSharedAmounts(c *gin.Context) {
	itemID, ok := parseUintParam(c, "id")
	if !ok {
		return
	}

	amounts, err := ctrl.service.ItemSharedAmounts(c.Request.Context(), itemID)
	if err != nil {
		response.Error(c, http.StatusNotFound, err.Error())
		return
	}
	response.Success(c, amounts)
}

// ReceiptSharedAmounts 票据分摊金额
// @Summary 票据分摊金额 + 所有者是否参与
// @Tags Split
// @Security BearerAuth
// @Router /receipts/:id/split/amounts [get]
func (ctrl *SplitController) ReceiptSharedAmounts(c *gin.Context) {
	receiptID, ok := parseUintParam(c, "id")
	if !ok {
		return
	}

	amounts, err := ctrl.service.ReceiptSharedAmounts(c.Request.Context(), receiptID)
	if err != nil {
		response.Error(c, http.StatusNotFound, err.Error())
		return
	}
	response.Success(c, amounts)
}
