package scan

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"narrator/internal/model/scan"
	"narrator/internal/service"
)

// CreateScanRequest 保存提取结果请求
type CreateScanRequest struct {
	Type        string         `json:"type" binding:"required,oneof=ocr pdf web manual"` // 来源类型
	Content     string         `json:"content" binding:"required"`                       // 提取出的文本
	OriginalURL *string        `json:"original_url,omitempty" binding:"omitempty,url"`   // 网页来源地址
	Metadata    *scan.Metadata `json:"metadata,omitempty"`                               // 元数据
}

// CreateScan 保存提取结果
// @Summary      保存提取结果
// @Description  保存一次 OCR、PDF、网页或手动输入得到的文本
// @Tags         提取历史
// @Accept       json
// @Produce      json
// @Param        request  body      CreateScanRequest  true  "提取结果"
// @Success      201      {object}  map[string]interface{}  "创建成功"
// @Failure      400      {object}  ErrorResponse  "请求参数错误"
// @Failure      500      {object}  ErrorResponse  "服务器内部错误"
// @Router       /api/v1/scans [post]
func (h *Handler) CreateScan(c *gin.Context) {
	var req CreateScanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Code:    40001,
			Message: "Invalid request body",
			Detail:  err.Error(),
		})
		return
	}

	var originalURL string
	if req.OriginalURL != nil {
		originalURL = *req.OriginalURL
	}

	s, err := h.scanService.Create(c.Request.Context(), &service.CreateScanRequest{
		Type:        scan.ScanType(req.Type),
		Content:     req.Content,
		OriginalURL: originalURL,
		Metadata:    req.Metadata,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"code":    0,
		"message": "success",
		"data":    toScanInfo(s),
	})
}
