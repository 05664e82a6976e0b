package prosody

import (
	"net/http"

	"github.com/gin-gonic/gin"

	httputil "narrator/internal/pkg/http"
	"narrator/internal/pkg/prosody"
	"narrator/internal/service"
)

// AnalyzeRequest 文本分析请求
type AnalyzeRequest struct {
	Text     string            `json:"text" binding:"required"` // 待分析文本
	Language string            `json:"language,omitempty"`      // 语言（如 fr-CA），为空时使用已保存设置
	Settings *prosody.Settings `json:"settings,omitempty"`      // 韵律设置，为空时使用已保存设置
}

// Analyze 分析文本
// @Summary      分析文本韵律
// @Description  把文本切分为句段，识别句型、情感与内容类型并生成韵律提示；结果按文本与设置缓存
// @Tags         韵律
// @Accept       json
// @Produce      json
// @Param        request  body      AnalyzeRequest  true  "分析请求"
// @Success      200      {object}  map[string]interface{}  "成功响应"  "{\"code\": 0, \"message\": \"success\", \"data\": {\"segments\": [...], \"cached\": false}}"
// @Failure      400      {object}  ErrorResponse  "请求参数错误"
// @Failure      500      {object}  ErrorResponse  "服务器内部错误"
// @Router       /api/v1/prosody/analyze [post]
func (h *Handler) Analyze(c *gin.Context) {
	var req AnalyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Code:    40001,
			Message: "Invalid request body",
			Detail:  err.Error(),
		})
		return
	}

	result, err := h.prosodyService.Analyze(c.Request.Context(), &service.AnalyzeRequest{
		Text:     req.Text,
		Language: req.Language,
		Settings: req.Settings,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, httputil.NewSuccessResponse("success", result))
}
