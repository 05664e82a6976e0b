package prosody

import (
	"net/http"

	"github.com/gin-gonic/gin"

	httputil "narrator/internal/pkg/http"
	"narrator/internal/pkg/voiceprofile"
)

// RecommendRequest 人设推荐请求
type RecommendRequest struct {
	Text string `json:"text" binding:"required"`
}

// ListProfiles 人设目录
// @Summary      人设目录
// @Tags         韵律
// @Produce      json
// @Success      200  {object}  map[string]interface{}  "成功响应"
// @Router       /api/v1/prosody/voice-profiles [get]
func (h *Handler) ListProfiles(c *gin.Context) {
	c.JSON(http.StatusOK, httputil.NewSuccessResponse("success", gin.H{
		"profiles": h.prosodyService.Profiles(),
	}))
}

// GetProfile 获取人设
// @Summary      获取人设
// @Tags         韵律
// @Produce      json
// @Param        id   path      string  true  "人设ID"
// @Success      200  {object}  map[string]interface{}  "成功响应"
// @Failure      404  {object}  ErrorResponse  "人设不存在"
// @Router       /api/v1/prosody/voice-profiles/{id} [get]
func (h *Handler) GetProfile(c *gin.Context) {
	p, err := h.prosodyService.Profile(voiceprofile.ID(c.Param("id")))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, httputil.NewSuccessResponse("success", p))
}

// RecommendProfile 推荐人设
// @Summary      根据文本推荐人设
// @Tags         韵律
// @Accept       json
// @Produce      json
// @Param        request  body      RecommendRequest  true  "请求"
// @Success      200      {object}  map[string]interface{}  "成功响应"
// @Failure      400      {object}  ErrorResponse  "请求参数错误"
// @Router       /api/v1/prosody/voice-profiles/recommend [post]
func (h *Handler) RecommendProfile(c *gin.Context) {
	var req RecommendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Code:    40001,
			Message: "Invalid request body",
			Detail:  err.Error(),
		})
		return
	}

	p, err := h.prosodyService.Recommend(req.Text)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, httputil.NewSuccessResponse("success", p))
}
