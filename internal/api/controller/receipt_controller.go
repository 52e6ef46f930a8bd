package controller

import (
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/leon37/ReceiptLedger/internal/api/response"
	"github.com/leon37/ReceiptLedger/internal/service"
)

type ReceiptController struct {
	service *service.ReceiptService
}

func NewReceiptController(s *service.ReceiptService) *ReceiptController {
	return &ReceiptController{service: s}
}

// Upload 上传票据图片
// @Summary 上传票据并触发提取流水线
// @Description multipart 上传；创建成功后同步跑提取，提取失败不影响票据本身
// @Tags Receipt
// @Accept multipart/form-data
// @Security BearerAuth
// @Param image formData file true "票据图片"
// @Router /receipts [post]
func (ctrl *ReceiptController) Upload(c *gin.Context) {
	userID := c.GetUint("userID")

	fileHeader, err := c.FormFile("image")
	if err != nil {
		response.Error(c, http.StatusBadRequest, "缺少 image 文件")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		response.Error(c, http.StatusBadRequest, "读取上传文件失败")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "读取上传文件失败")
		return
	}

	currency := c.PostForm("currency")

	receipt, err := ctrl.service.Upload(c.Request.Context(), userID, data, fileHeader.Filename, currency)
	if err != nil {
		slog.Error("Upload receipt failed", "userID", userID, "err", err)
		response.Error(c, http.StatusInternalServerError, "创建票据失败")
		return
	}

	// 票据已落库，再显式触发提取；失败只记录状态，不回滚票据
	if err := ctrl.service.Ingest(c.Request.Context(), receipt.ID); err != nil {
		slog.Error("Ingest receipt failed", "receiptID", receipt.ID, "err", err)
	}

	// 回读一次，把提取充实后的字段带给前端
	enriched, err := ctrl.service.Get(c.Request.Context(), userID, receipt.ID)
	if err != nil {
		response.Success(c, receipt)
		return
	}
	response.Success(c, enriched)
}

// List 票据列表
// @Summary 票据列表
// @Tags Receipt
// @Security BearerAuth
// @Router /receipts [get]
func (ctrl *ReceiptController) List(c *gin.Context) {
	userID := c.GetUint("userID")
	receipts, err := ctrl.service.List(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "获取票据失败")
		return
	}
	response.Success(c, receipts)
}

// Get 单张票据
// @Summary 查询单张票据
// @Tags Receipt
// @Security BearerAuth
// @Router /receipts/:id [get]
func (ctrl *ReceiptController) Get(c *gin.Context) {
	userID := c.GetUint("userID")
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "非法的票据 id: "+c.Param("id"))
		return
	}

	receipt, err := ctrl.service.Get(c.Request.Context(), userID, uint(id))
	if err != nil {
		response.BusinessError(c, err)
		return
	}
	response.Success(c, receipt)
}

type ReceiptUpdateRequest struct {
	Total      *float64 `json:"total"`
	Tax        *float64 `json:"tax"`
	Tip        *float64 `json:"tip"`
	Coupon     *float64 `json:"coupon"`
	Currency   *string  `json:"currency"`
	MerchantID *uint    `json:"merchant_id"`
	ScanDate   *string  `json:"scan_date"` // 格式 2023-01-01
}

// Update 显式编辑票据
// @Summary 编辑票据字段
// @Tags Receipt
// @Security BearerAuth
// @Router /receipts/:id [put]
func (ctrl *ReceiptController) Update(c *gin.Context) {
	userID := c.GetUint("userID")
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "非法的票据 id: "+c.Param("id"))
		return
	}

	var req ReceiptUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "参数错误: "+err.Error())
		return
	}

	input := service.ReceiptUpdateInput{
		Total:      req.Total,
		Tax:        req.Tax,
		Tip:        req.Tip,
		Coupon:     req.Coupon,
		Currency:   req.Currency,
		MerchantID: req.MerchantID,
	}
	if req.ScanDate != nil {
		t, err := time.Parse("2006-01-02", *req.ScanDate)
		if err != nil {
			response.Error(c, http.StatusBadRequest, "非法的日期: "+*req.ScanDate)
			return
		}
		input.ScanDate = &t
	}

	receipt, err := ctrl.service.Update(c.Request.Context(), userID, uint(id), input)
	if err != nil {
		response.BusinessError(c, err)
		return
	}
	response.Success(c, receipt)
}

// Delete 删除票据
// @Summary 删除票据（连带条目和图片）
// @Tags Receipt
// @Security BearerAuth
// @Router /receipts/:id [delete]
func (ctrl *ReceiptController) Delete(c *gin.Context) {
	userID := c.GetUint("userID")
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "非法的票据 id: "+c.Param("id"))
		return
	}

	if err := ctrl.service.Delete(c.Request.Context(), userID, uint(id)); err != nil {
		response.BusinessError(c, err)
		return
	}
	response.Success(c, nil)
}

// Merchants 商户名册
// @Summary 商户列表
// @Tags Merchant
// @Security BearerAuth
// @Router /merchants [get]
func (ctrl *ReceiptController) Merchants(c *gin.Context) {
	merchants, err := ctrl.service.Merchants(c.Request.Context())
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "获取商户失败")
		return
	}
	response.Success(c, merchants)
}
