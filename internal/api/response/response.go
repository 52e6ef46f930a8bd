package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/leon37/ReceiptLedger/internal/service"
)

// Response 统一响应结构
type Response struct {
	Code int         `json:"code"` // 0 代表成功，非 0 代表错误码
	Msg  string      `json:"msg"`  // 提示信息
	Data interface{} `json:"data"` // 数据载荷
}

// Success 成功响应
func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Code: 0,
		Msg:  "success",
		Data: data,
	})
}

// Error 错误响应
func Error(c *gin.Context, httpStatus int, msg string) {
	c.JSON(httpStatus, Response{
		Code: -1, // 这里可以根据业务定义具体的错误码
		Msg:  msg,
		Data: nil,
	})
}

// BusinessError 按错误分类映射状态码：冲突类 409，找不到 404，越权 403，其余 400
func BusinessError(c *gin.Context, err error) {
	status := http.StatusBadRequest
	switch {
	case errors.Is(err, service.ErrDuplicateCategory),
		errors.Is(err, service.ErrParentCategory),
		errors.Is(err, service.ErrCategoryInUse),
		errors.Is(err, service.ErrAlreadyFriends),
		errors.Is(err, service.ErrRequestAlreadySent),
		errors.Is(err, service.ErrRequestAlreadyReceived),
		errors.Is(err, service.ErrDuplicateInvite),
		errors.Is(err, service.ErrDuplicateSharedUsers),
		errors.Is(err, service.ErrSplitExists),
		errors.Is(err, service.ErrDuplicateTelephone):
		status = http.StatusConflict
	case errors.Is(err, service.ErrCategoryNotFound),
		errors.Is(err, service.ErrFriendNotFound),
		errors.Is(err, service.ErrUsersDoNotExist):
		status = http.StatusNotFound
	case errors.Is(err, service.ErrNotOwner):
		status = http.StatusForbidden
	}
	Error(c, status, err.Error())
}
