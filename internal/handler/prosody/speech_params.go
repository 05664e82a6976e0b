package prosody

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"narrator/internal/narrator"
	httputil "narrator/internal/pkg/http"
	"narrator/internal/pkg/voiceprofile"
	"narrator/internal/service"
)

// SpeechParamsRequest 语音参数计算请求
type SpeechParamsRequest struct {
	Text        string                  `json:"text" binding:"required"`
	Settings    *narrator.VoiceSettings `json:"settings,omitempty"`    // 为空时使用已保存设置
	Personality voiceprofile.ID         `json:"personality,omitempty"` // 覆盖设置中的人设
}

// SpeechParams 计算句段语音参数
// @Summary      计算句段语音参数
// @Description  返回每个句段最终的 pitch/rate/volume（先叠加人设，再叠加韵律）与停顿
// @Tags         韵律
// @Accept       json
// @Produce      json
// @Param        request  body      SpeechParamsRequest  true  "请求"
// @Success      200      {object}  map[string]interface{}  "成功响应"
// @Failure      400      {object}  ErrorResponse  "请求参数错误或人设不存在"
// @Failure      500      {object}  ErrorResponse  "服务器内部错误"
// @Router       /api/v1/prosody/speech-params [post]
func (h *Handler) SpeechParams(c *gin.Context) {
	var req SpeechParamsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Code:    40001,
			Message: "Invalid request body",
			Detail:  err.Error(),
		})
		return
	}

	result, err := h.prosodyService.SpeechParams(c.Request.Context(), &service.SpeechParamsRequest{
		Text:        req.Text,
		Settings:    req.Settings,
		Personality: req.Personality,
	})
	if errors.Is(err, service.ErrProfileNotFound) {
		c.JSON(http.StatusBadRequest, httputil.NewErrorResponse(httputil.CodeValidation, err.Error(), string(req.Personality)))
		return
	}
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, httputil.NewSuccessResponse("success", result))
}
