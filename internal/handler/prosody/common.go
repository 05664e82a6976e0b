package prosody

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	httputil "narrator/internal/pkg/http"
	"narrator/internal/service"
)

// ErrorResponse 错误响应类型别名（使用共用的 http.ErrorResponse）
type ErrorResponse = httputil.ErrorResponse

// respondError 把服务层错误映射为 HTTP 状态与业务错误码
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrProfileNotFound), errors.Is(err, service.ErrExportNotFound):
		c.JSON(http.StatusNotFound, httputil.NewErrorResponse(httputil.CodeNotFound, err.Error()))
	case errors.Is(err, service.ErrExportKeyInvalid):
		c.JSON(http.StatusBadRequest, httputil.NewErrorResponse(httputil.CodeInvalidRequest, err.Error()))
	case errors.Is(err, service.ErrStorageUnavailable):
		c.JSON(http.StatusServiceUnavailable, httputil.NewErrorResponse(httputil.CodeUnavailable, err.Error()))
	default:
		c.JSON(http.StatusInternalServerError, httputil.NewErrorResponse(httputil.CodeInternal, "Internal server error", err.Error()))
	}
}
