package narration

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	httputil "narrator/internal/pkg/http"
	"narrator/internal/service"
)

// GetSettings 读取朗读设置
// @Summary      读取朗读设置
// @Tags         设置
// @Produce      json
// @Success      200  {object}  map[string]interface{}  "成功响应"
// @Failure      500  {object}  ErrorResponse  "服务器内部错误"
// @Router       /api/v1/settings [get]
func (h *Handler) GetSettings(c *gin.Context) {
	vs, err := h.narrationService.GetSettings(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, httputil.NewErrorResponse(httputil.CodeInternal, "Failed to load settings", err.Error()))
		return
	}
	c.JSON(http.StatusOK, httputil.NewSuccessResponse("success", vs))
}

// UpdateSettings 更新朗读设置
// @Summary      更新朗读设置
// @Description  合并保存，数值超出范围时钳制；正在进行的朗读从下一句开始生效
// @Tags         设置
// @Accept       json
// @Produce      json
// @Param        request  body      service.SettingsPatch  true  "设置"
// @Success      200      {object}  map[string]interface{}  "成功响应"
// @Failure      400      {object}  ErrorResponse  "请求参数错误"
// @Failure      500      {object}  ErrorResponse  "服务器内部错误"
// @Router       /api/v1/settings [put]
func (h *Handler) UpdateSettings(c *gin.Context) {
	var patch service.SettingsPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Code:    40001,
			Message: "Invalid request body",
			Detail:  err.Error(),
		})
		return
	}

	vs, err := h.narrationService.UpdateSettings(c.Request.Context(), &patch)
	if errors.Is(err, service.ErrUnknownProfile) {
		c.JSON(http.StatusBadRequest, httputil.NewErrorResponse(httputil.CodeValidation, err.Error()))
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, httputil.NewErrorResponse(httputil.CodeInternal, "Failed to save settings", err.Error()))
		return
	}
	c.JSON(http.StatusOK, httputil.NewSuccessResponse("success", vs))
}
