package controller

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/leon37/ReceiptLedger/internal/api/response"
	"github.com/leon37/ReceiptLedger/internal/repository"
	"github.com/leon37/ReceiptLedger/internal/service"
)

type ItemController struct {
	service *service.ItemService
}

func NewItemController(s *service.ItemService) *ItemController {
	return &ItemController{service: s}
}

type ItemCreateRequest struct {
	ReceiptID  uint    `json:"receipt_id" binding:"required"`
	Name       string  `json:"name" binding:"required,max=255"`
	Price      float64 `json:"price"`
	CategoryID *uint   `json:"category_id"`
}

type ItemUpdateRequest struct {
	ID         uint     `json:"id" binding:"required"`
	Name       *string  `json:"name"`
	Price      *float64 `json:"price"`
	CategoryID *uint    `json:"category_id"`
}

type ItemDeleteRequest struct {
	ID uint `json:"id" binding:"required"`
}

// ListRequest 筛选 + 分页参数
// Page 故意收成 string：非数字页码要走 "Invalid Page Number" 空页而不是 400
type ListRequest struct {
	Page         string   `form:"page,default=1"`
	StartDate    string   `form:"start_date"` // 格式 2023-01-01
	EndDate      string   `form:"end_date"`
	MinPrice     *float64 `form:"min_price"`
	MaxPrice     *float64 `form:"max_price"`
	MerchantName string   `form:"merchant_name"`
	MerchantID   uint     `form:"merchant_id"`
}

// Create 手工添加条目
// @Summary 在票据下添加条目
// @Tags Item
// @Security BearerAuth
// @Router /items [post]
func (ctrl *ItemController) Create(c *gin.Context) {
	userID := c.GetUint("userID")

	var req ItemCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "参数错误: "+err.Error())
		return
	}

	item, err := ctrl.service.Create(c.Request.Context(), userID, req.ReceiptID, req.Name, req.Price, req.CategoryID)
	if err != nil {
		slog.Warn("Create item failed", "userID", userID, "err", err)
		response.BusinessError(c, err)
		return
	}
	response.Success(c, item)
}

// List 筛选 + 分页
// @Summary 条目筛选与分页
// @Description 日期区间（含两端）、价格区间、商户名模糊、商户 id，全部 AND 相连
// @Tags Item
// @Security BearerAuth
// @Router /items [get]
func (ctrl *ItemController) List(c *gin.Context) {
	userID := c.GetUint("userID")

	var req ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "参数错误")
		return
	}

	filter := repository.ItemFilter{
		UserID:           userID,
		MinPrice:         req.MinPrice,
		MaxPrice:         req.MaxPrice,
		MerchantContains: req.MerchantName,
		MerchantID:       req.MerchantID,
	}
	// 解析时间字符串 (简单处理)
	if req.StartDate != "" {
		t, _ := time.Parse("2006-01-02", req.StartDate)
		filter.StartDate = t
	}
	if req.EndDate != "" {
		t, _ := time.Parse("2006-01-02", req.EndDate)
		filter.EndDate = t.Add(24*time.Hour - time.Second) // 包含当天
	}

	page, err := ctrl.service.FilterPage(c.Request.Context(), filter, req.Page)
	if err != nil {
		slog.Error("获取条目列表失败", "error", err)
		response.Error(c, http.StatusInternalServerError, "获取列表失败")
		return
	}
	response.Success(c, page)
}

// Update 修改条目
// @Summary 修改条目，仅限本人
// @Tags Item
// @Security BearerAuth
// @Router /items/update [post]
func (ctrl *ItemController) Update(c *gin.Context) {
	userID := c.GetUint("userID")

	var req ItemUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "参数错误: "+err.Error())
		return
	}

	item, err := ctrl.service.Update(c.Request.Context(), userID, req.ID, req.Name, req.Price, req.CategoryID)
	if err != nil {
		response.BusinessError(c, err)
		return
	}
	response.Success(c, item)
}

// Delete 删除条目
// @Summary 删除条目，仅限本人
// @Tags Item
// @Security BearerAuth
// @Router /items/delete [post]
func (ctrl *ItemController) Delete(c *gin.Context) {
	userID := c.GetUint("userID")

	var req ItemDeleteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "参数错误: "+err.Error())
		return
	}

	if err := ctrl.service.Delete(c.Request.Context(), userID, req.ID); err != nil {
		slog.Error("删除条目失败", "id", req.ID, "error", err)
		response.BusinessError(c, err)
		return
	}
	response.Success(c, nil)
}

// ==========================================
// Important Dates
// ==========================================

type ImportantDateCreateRequest struct {
	ItemID      uint   `json:"item_id" binding:"required"`
	Date        string `json:"date" binding:"required"` // 格式 2023-01-01
	Description string `json:"description" binding:"max=255"`
}

type ImportantDateUpdateRequest struct {
	ID          uint    `json:"id" binding:"required"`
	Date        *string `json:"date"`
	Description *string `json:"description"`
}

type ImportantDateDeleteRequest struct {
	ID uint `json:"id" binding:"required"`
}

// AddImportantDate 添加日期提醒
// @Summary 给条目挂日期提醒
// @Tags ImportantDates
// @Security BearerAuth
// @Router /dates [post]
func (ctrl *ItemController) AddImportantDate(c *gin.Context) {
	userID := c.GetUint("userID")

	var req ImportantDateCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "参数错误: "+err.Error())
		return
	}

	t, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "非法的日期: "+req.Date)
		return
	}

	d, err := ctrl.service.AddImportantDate(c.Request.Context(), userID, req.ItemID, t, req.Description)
	if err != nil {
		response.BusinessError(c, err)
		return
	}
	response.Success(c, d)
}

// ListImportantDates 日期提醒列表
// @Summary 日期提醒列表
// @Tags ImportantDates
// @Security BearerAuth
// @Router /dates [get]
func (ctrl *ItemController) ListImportantDates(c *gin.Context) {
	userID := c.GetUint("userID")
	dates, err := ctrl.service.ListImportantDates(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "获取日期提醒失败")
		return
	}
	response.Success(c, dates)
}

// UpdateImportantDate 修改日期提醒
// @Summary 修改日期提醒
// @Tags ImportantDates
// @Security BearerAuth
// @Router /dates/update [post]
func (ctrl *ItemController) UpdateImportantDate(c *gin.Context) {
	userID := c.GetUint("userID")

	var req ImportantDateUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "参数错误: "+err.Error())
		return
	}

	var datePtr *time.Time
	if req.Date != nil {
		t, err := time.Parse("2006-01-02", *req.Date)
		if err != nil {
			response.Error(c, http.StatusBadRequest, "非法的日期: "+*req.Date)
			return
		}
		datePtr = &t
	}

	d, err := ctrl.service.UpdateImportantDate(c.Request.Context(), userID, req.ID, datePtr, req.Description)
	if err != nil {
		response.BusinessError(c, err)
		return
	}
	response.Success(c, d)
}

// DeleteImportantDate 删除日期提醒
// @Summary 删除日期提醒
// @Tags ImportantDates
// @Security BearerAuth
// @Router /dates/delete [post]
func (ctrl *ItemController) DeleteImportantDate(c *gin.Context) {
	userID := c.GetUint("userID")

	var req ImportantDateDeleteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "参数错误: "+err.Error())
		return
	}

	if err := ctrl.service.DeleteImportantDate(c.Request.Context(), userID, req.ID); err != nil {
		response.BusinessError(c, err)
		return
	}
	response.Success(c, nil)
}

// parseUintParam 路径参数里的数字 id
func parseUintParam(c *gin.Context, name string) (uint, bool) {
	v, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "非法的 "+name+": "+c.Param(name))
		return 0, false
	}
	return uint(v), true
}
