package prosody

import (
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	httputil "narrator/internal/pkg/http"
	"narrator/internal/pkg/prosody"
	"narrator/internal/service"
)

// SSMLRequest SSML 生成请求
type SSMLRequest struct {
	Text     string            `json:"text" binding:"required"`
	Language string            `json:"language,omitempty"`
	Settings *prosody.Settings `json:"settings,omitempty"`
}

// GenerateSSML 生成 SSML
// @Summary      生成 SSML
// @Description  根据韵律分析结果生成 SSML 文档；export=true 时写入对象存储并返回访问地址
// @Tags         韵律
// @Accept       json
// @Produce      json
// @Param        export   query     bool        false  "是否导出到存储"
// @Param        request  body      SSMLRequest true   "SSML 请求"
// @Success      200      {object}  map[string]interface{}  "成功响应"  "{\"code\": 0, \"message\": \"success\", \"data\": {\"ssml\": \"<speak>...</speak>\", \"key\": \"ssml/...\"}}"
// @Failure      400      {object}  ErrorResponse  "请求参数错误"
// @Failure      503      {object}  ErrorResponse  "存储未配置"
// @Failure      500      {object}  ErrorResponse  "服务器内部错误"
// @Router       /api/v1/prosody/ssml [post]
func (h *Handler) GenerateSSML(c *gin.Context) {
	var req SSMLRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Code:    40001,
			Message: "Invalid request body",
			Detail:  err.Error(),
		})
		return
	}

	result, err := h.prosodyService.GenerateSSML(c.Request.Context(), &service.SSMLRequest{
		Text:     req.Text,
		Language: req.Language,
		Settings: req.Settings,
		Export:   c.Query("export") == "true",
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, httputil.NewSuccessResponse("success", result))
}

// DownloadSSML 下载已导出的 SSML
// @Summary      下载 SSML
// @Description  读取 ssml/ 前缀下已导出的 SSML 文档
// @Tags         韵律
// @Produce      application/ssml+xml
// @Param        key  path      string  true  "存储 key（ssml/...）"
// @Success      200  {file}    binary  "SSML 文档"
// @Failure      400  {object}  ErrorResponse  "key 非法"
// @Failure      404  {object}  ErrorResponse  "文件不存在"
// @Router       /api/v1/prosody/exports/{key} [get]
func (h *Handler) DownloadSSML(c *gin.Context) {
	key := strings.TrimPrefix(c.Param("key"), "/")

	rc, err := h.prosodyService.OpenExport(c.Request.Context(), key)
	if err != nil {
		respondError(c, err)
		return
	}
	defer rc.Close()

	c.Header("Content-Type", "application/ssml+xml")
	c.Status(http.StatusOK)
	if _, err := io.Copy(c.Writer, rc); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("failed to stream ssml export")
	}
}
