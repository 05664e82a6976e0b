package scan

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"narrator/internal/model/scan"
	httputil "narrator/internal/pkg/http"
	"narrator/internal/service"
)

// ErrorResponse 错误响应类型别名（使用共用的 http.ErrorResponse）
type ErrorResponse = httputil.ErrorResponse

// ScanInfo 提取记录 DTO
type ScanInfo struct {
	ID          string         `json:"id"`
	Type        string         `json:"type"`
	Content     string         `json:"content"`
	OriginalURL string         `json:"original_url,omitempty"`
	Metadata    *scan.Metadata `json:"metadata,omitempty"`
	CreatedAt   string         `json:"created_at"`
}

func toScanInfo(s *scan.Scan) ScanInfo {
	return ScanInfo{
		ID:          s.ID,
		Type:        string(s.Type),
		Content:     s.Content,
		OriginalURL: s.OriginalURL,
		Metadata:    s.Metadata,
		CreatedAt:   s.CreatedAt.Format(time.RFC3339),
	}
}

func toScanInfoList(scans []*scan.Scan) []ScanInfo {
	list := make([]ScanInfo, len(scans))
	for i, s := range scans {
		list[i] = toScanInfo(s)
	}
	return list
}

// respondError 把服务层错误映射为 HTTP 状态与业务错误码
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrScanNotFound):
		c.JSON(http.StatusNotFound, httputil.NewErrorResponse(httputil.CodeNotFound, err.Error()))
	case errors.Is(err, service.ErrContentRequired),
		errors.Is(err, service.ErrInvalidScanType),
		errors.Is(err, service.ErrInvalidSourceURL),
		errors.Is(err, service.ErrInvalidMetadata):
		c.JSON(http.StatusBadRequest, httputil.NewErrorResponse(httputil.CodeInvalidRequest, "Invalid request body", err.Error()))
	default:
		c.JSON(http.StatusInternalServerError, httputil.NewErrorResponse(httputil.CodeInternal, "Internal server error", err.Error()))
	}
}
