package controller

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/leon37/ReceiptLedger/internal/api/response"
	"github.com/leon37/ReceiptLedger/internal/service"
)

type CategoryController struct {
	service *service.CategoryService
}

func NewCategoryController(s *service.CategoryService) *CategoryController {
	return &CategoryController{service: s}
}

type AddCategoryRequest struct {
	Name     string `json:"name" binding:"required,max=100"`
	ParentID *uint  `json:"parent_id"`
	Starred  bool   `json:"starred"`
}

type CategoryNameRequest struct {
	Name string `json:"name" binding:"required"`
}

// Add 新建分类
// @Summary 新建分类
// @Tags Category
// @Security BearerAuth
// @Router /categories [post]
func (ctrl *CategoryController) Add(c *gin.Context) {
	userID := c.GetUint("userID")

	var req AddCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "参数错误: "+err.Error())
		return
	}

	category, err := ctrl.service.Add(c.Request.Context(), userID, req.Name, req.ParentID, req.Starred)
	if err != nil {
		slog.Warn("Add category failed", "userID", userID, "name", req.Name, "err", err)
		response.BusinessError(c, err)
		return
	}
	response.Success(c, category)
}

// List 分类列表
// @Summary 分类列表
// @Tags Category
// @Security BearerAuth
// @Router /categories [get]
func (ctrl *CategoryController) List(c *gin.Context) {
	userID := c.GetUint("userID")
	categories, err := ctrl.service.List(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "获取分类失败")
		return
	}
	response.Success(c, categories)
}

// Delete 删除分类
// @Summary 删除分类
// @Description 有子分类或还有条目引用时拒绝删除
// @Tags Category
// @Security BearerAuth
// @Router /categories/delete [post]
func (ctrl *CategoryController) Delete(c *gin.Context) {
	userID := c.GetUint("userID")

	var req CategoryNameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "参数错误: "+err.Error())
		return
	}

	if err := ctrl.service.Delete(c.Request.Context(), userID, req.Name); err != nil {
		slog.Warn("Delete category failed", "userID", userID, "name", req.Name, "err", err)
		response.BusinessError(c, err)
		return
	}
	response.Success(c, nil)
}

// ToggleStar 翻转星标
// @Summary 翻转分类星标
// @Tags Category
// @Security BearerAuth
// @Router /categories/star [post]
func (ctrl *CategoryController) ToggleStar(c *gin.Context) {
	userID := c.GetUint("userID")

	var req CategoryNameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "参数错误: "+err.Error())
		return
	}

	category, err := ctrl.service.ToggleStar(c.Request.Context(), userID, req.Name)
	if err != nil {
		response.BusinessError(c, err)
		return
	}
	response.Success(c, category)
}

// Costs 按分类聚合消费
// @Summary 按分类聚合消费金额
// @Tags Category
// @Security BearerAuth
// @Router /categories/costs [get]
func (ctrl *CategoryController) Costs(c *gin.Context) {
	userID := c.GetUint("userID")
	costs, err := ctrl.service.AggregateCosts(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "聚合失败")
		return
	}
	response.Success(c, costs)
}
