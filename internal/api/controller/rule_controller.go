package controller

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/leon37/ReceiptLedger/internal/api/response"
	"github.com/leon37/ReceiptLedger/internal/service"
)

type RuleController struct {
	service *service.RuleService
}

func NewRuleController(s *service.RuleService) *RuleController {
	return &RuleController{service: s}
}

type RuleCreateRequest struct {
	Pattern    string `json:"pattern" binding:"required,max=255"`
	CategoryID uint   `json:"category_id" binding:"required"`
}

type RuleUpdateRequest struct {
	ID         uint    `json:"id" binding:"required"`
	Pattern    *string `json:"pattern"`
	CategoryID *uint   `json:"category_id"`
}

type RuleDeleteRequest struct {
	ID uint `json:"id" binding:"required"`
}

// Create 新建规则
// @Summary 新建正则打标规则
// @Tags Rule
// @Security BearerAuth
// @Router /rules [post]
func (ctrl *RuleController) Create(c *gin.Context) {
	userID := c.GetUint("userID")

	var req RuleCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "参数错误: "+err.Error())
		return
	}

	rule, err := ctrl.service.Create(c.Request.Context(), userID, req.Pattern, req.CategoryID)
	if err != nil {
		slog.Warn("Create rule failed", "userID", userID, "err", err)
		response.BusinessError(c, err)
		return
	}
	response.Success(c, rule)
}

// List 规则列表
// @Summary 规则列表
// @Tags Rule
// @Security BearerAuth
// @Router /rules [get]
func (ctrl *RuleController) List(c *gin.Context) {
	userID := c.GetUint("userID")
	rules, err := ctrl.service.List(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "获取规则失败")
		return
	}
	response.Success(c, rules)
}

// Update 修改规则
// @Summary 修改规则
// @Tags Rule
// @Security BearerAuth
// @Router /rules/update [post]
func (ctrl *RuleController) Update(c *gin.Context) {
	userID := c.GetUint("userID")

	var req RuleUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "参数错误: "+err.Error())
		return
	}

	rule, err := ctrl.service.Update(c.Request.Context(), userID, req.ID, req.Pattern, req.CategoryID)
	if err != nil {
		response.BusinessError(c, err)
		return
	}
	response.Success(c, rule)
}

// Delete 删除规则
// @Summary 删除规则
// @Tags Rule
// @Security BearerAuth
// @Router /rules/delete [post]
func (ctrl *RuleController) Delete(c *gin.Context) {
	userID := c.GetUint("userID")

	var req RuleDeleteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "参数错误: "+err.Error())
		return
	}

	if err := ctrl.service.Delete(c.Request.Context(), userID, req.ID); err != nil {
		response.BusinessError(c, err)
		return
	}
	response.Success(c, nil)
}
