package narration

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"narrator/internal/narrator"
	httputil "narrator/internal/pkg/http"
	"narrator/internal/service"
)

// ErrorResponse 错误响应类型别名（使用共用的 http.ErrorResponse）
type ErrorResponse = httputil.ErrorResponse

// StartRequest 开始朗读请求
type StartRequest struct {
	Text     string                  `json:"text" binding:"required"`
	Settings *narrator.VoiceSettings `json:"settings,omitempty"` // 为空时使用已保存设置
}

// ControlResponseData 控制类接口的响应数据
type ControlResponseData struct {
	Success bool            `json:"success"`
	Status  narrator.Status `json:"status"`
}

// Start 开始朗读
// @Summary      开始朗读
// @Description  使用模拟引擎在服务端朗读文本；已有任务会先被停止
// @Tags         朗读
// @Accept       json
// @Produce      json
// @Param        request  body      StartRequest  true  "朗读请求"
// @Success      200      {object}  map[string]interface{}  "成功响应"  "{\"code\": 0, \"message\": \"success\", \"data\": {\"run_id\": \"...\", \"segments\": [...]}}"
// @Failure      400      {object}  ErrorResponse  "请求参数错误或没有可朗读的句子"
// @Failure      500      {object}  ErrorResponse  "服务器内部错误"
// @Router       /api/v1/narration/start [post]
func (h *Handler) Start(c *gin.Context) {
	var req StartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Code:    40001,
			Message: "Invalid request body",
			Detail:  err.Error(),
		})
		return
	}

	result, err := h.narrationService.Start(c.Request.Context(), &service.StartNarrationRequest{
		Text:     req.Text,
		Settings: req.Settings,
	})
	if errors.Is(err, service.ErrNothingToNarrate) {
		c.JSON(http.StatusBadRequest, httputil.NewErrorResponse(httputil.CodeValidation, err.Error()))
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, httputil.NewErrorResponse(httputil.CodeInternal, "Failed to start narration", err.Error()))
		return
	}

	c.JSON(http.StatusOK, httputil.NewSuccessResponse("success", result))
}

// Stop 停止朗读
// @Summary      停止朗读
// @Description  可重复调用；success 表示是否确实停止了任务
// @Tags         朗读
// @Produce      json
// @Success      200  {object}  map[string]interface{}  "成功响应"
// @Router       /api/v1/narration/stop [post]
func (h *Handler) Stop(c *gin.Context) {
	h.control(c, h.narrationService.Stop)
}

// Pause 暂停朗读
// @Summary      暂停朗读
// @Description  引擎不支持暂停或没有任务时 success 为 false
// @Tags         朗读
// @Produce      json
// @Success      200  {object}  map[string]interface{}  "成功响应"
// @Router       /api/v1/narration/pause [post]
func (h *Handler) Pause(c *gin.Context) {
	h.control(c, h.narrationService.Pause)
}

// Resume 继续朗读
// @Summary      继续朗读
// @Tags         朗读
// @Produce      json
// @Success      200  {object}  map[string]interface{}  "成功响应"
// @Router       /api/v1/narration/resume [post]
func (h *Handler) Resume(c *gin.Context) {
	h.control(c, h.narrationService.Resume)
}

func (h *Handler) control(c *gin.Context, op func() bool) {
	ok := op()
	c.JSON(http.StatusOK, httputil.NewSuccessResponse("success", ControlResponseData{
		Success: ok,
		Status:  h.narrationService.Status(),
	}))
}

// Status 当前朗读状态
// @Summary      当前朗读状态
// @Tags         朗读
// @Produce      json
// @Success      200  {object}  map[string]interface{}  "成功响应"
// @Router       /api/v1/narration/status [get]
func (h *Handler) Status(c *gin.Context) {
	c.JSON(http.StatusOK, httputil.NewSuccessResponse("success", h.narrationService.Status()))
}

// Voices 列出音色
// @Summary      列出音色
// @Tags         朗读
// @Produce      json
// @Param        language  query     string  false  "语言前缀（如 fr）"
// @Success      200       {object}  map[string]interface{}  "成功响应"
// @Failure      500       {object}  ErrorResponse  "服务器内部错误"
// @Router       /api/v1/narration/voices [get]
func (h *Handler) Voices(c *gin.Context) {
	voices, err := h.narrationService.Voices(c.Request.Context(), c.Query("language"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, httputil.NewErrorResponse(httputil.CodeInternal, "Failed to list voices", err.Error()))
		return
	}
	c.JSON(http.StatusOK, httputil.NewSuccessResponse("success", gin.H{"voices": voices}))
}
