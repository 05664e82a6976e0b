package story

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"narrator/internal/model/story"
)

// UpdateStory 更新故事
// @Summary      更新故事
// @Description  部分更新，未提供的字段保持不变；修改正文时重新计算词数
// @Tags         书架
// @Accept       json
// @Produce      json
// @Param        id       path      string       true  "故事ID"
// @Param        request  body      story.Patch  true  "更新内容"
// @Success      200      {object}  map[string]interface{}  "成功响应"
// @Failure      400      {object}  ErrorResponse  "请求参数错误"
// @Failure      404      {object}  ErrorResponse  "故事不存在"
// @Router       /api/v1/stories/{id} [patch]
func (h *Handler) UpdateStory(c *gin.Context) {
	var patch story.Patch
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Code:    40001,
			Message: "Invalid request body",
			Detail:  err.Error(),
		})
		return
	}

	s, err := h.storyService.Update(c.Request.Context(), c.Param("id"), patch)
	if err != nil {
		respondError(c, err)
		return
	}
	respondStory(c, http.StatusOK, s)
}

// ToggleFavorite 切换收藏
// @Summary      切换收藏
// @Tags         书架
// @Produce      json
// @Param        id   path      string  true  "故事ID"
// @Success      200  {object}  map[string]interface{}  "成功响应"
// @Failure      404  {object}  ErrorResponse  "故事不存在"
// @Router       /api/v1/stories/{id}/favorite [post]
func (h *Handler) ToggleFavorite(c *gin.Context) {
	s, err := h.storyService.ToggleFavorite(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondStory(c, http.StatusOK, s)
}
