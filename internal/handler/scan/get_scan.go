package scan

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// GetScan 获取提取记录
// @Summary      获取提取记录
// @Tags         提取历史
// @Produce      json
// @Param        id   path      string  true  "记录ID"
// @Success      200  {object}  map[string]interface{}  "成功响应"
// @Failure      404  {object}  ErrorResponse  "记录不存在"
// @Failure      500  {object}  ErrorResponse  "服务器内部错误"
// @Router       /api/v1/scans/{id} [get]
func (h *Handler) GetScan(c *gin.Context) {
	s, err := h.scanService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code":    0,
		"message": "success",
		"data":    toScanInfo(s),
	})
}

// DeleteScan 删除提取记录
// @Summary      删除提取记录
// @Tags         提取历史
// @Produce      json
// @Param        id   path      string  true  "记录ID"
// @Success      200  {object}  map[string]interface{}  "成功响应"
// @Failure      404  {object}  ErrorResponse  "记录不存在"
// @Router       /api/v1/scans/{id} [delete]
func (h *Handler) DeleteScan(c *gin.Context) {
	if err := h.scanService.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code":    0,
		"message": "success",
	})
}
