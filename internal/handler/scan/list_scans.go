package scan

import (
	"net/http"

	"github.com/gin-gonic/gin"

	httputil "narrator/internal/pkg/http"
)

// ListScansRequest 查询提取历史请求
type ListScansRequest struct {
	httputil.Pagination
}

// ListScansResponseData 查询提取历史响应数据
type ListScansResponseData struct {
	Scans    []ScanInfo `json:"scans"`
	Total    int64      `json:"total"`
	Page     int        `json:"page"`
	PageSize int        `json:"page_size"`
}

// ListScans 查询提取历史
// @Summary      查询提取历史
// @Description  按创建时间倒序返回提取记录
// @Tags         提取历史
// @Produce      json
// @Param        page      query     int  false  "页码（默认1）"
// @Param        page_size query     int  false  "每页数量（默认20，最大100）"
// @Success      200       {object}  map[string]interface{}  "成功响应"  "{\"code\": 0, \"message\": \"success\", \"data\": {\"scans\": [...], \"total\": 3}}"
// @Failure      400       {object}  ErrorResponse  "请求参数错误"
// @Failure      500       {object}  ErrorResponse  "服务器内部错误"
// @Router       /api/v1/scans [get]
func (h *Handler) ListScans(c *gin.Context) {
	var req ListScansRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Code:    httputil.CodeInvalidRequest,
			Message: "Invalid query parameters",
			Detail:  err.Error(),
		})
		return
	}

	req.Normalize()

	result, err := h.scanService.List(c.Request.Context(), req.Limit(), req.Offset())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code":    0,
		"message": "success",
		"data": ListScansResponseData{
			Scans:    toScanInfoList(result.Scans),
			Total:    result.Total,
			Page:     req.Page,
			PageSize: req.PageSize,
		},
	})
}
