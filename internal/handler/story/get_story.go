package story

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// GetStory 获取故事
// @Summary      获取故事
// @Tags         书架
// @Produce      json
// @Param        id   path      string  true  "故事ID"
// @Success      200  {object}  map[string]interface{}  "成功响应"
// @Failure      404  {object}  ErrorResponse  "故事不存在"
// @Router       /api/v1/stories/{id} [get]
func (h *Handler) GetStory(c *gin.Context) {
	s, err := h.storyService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondStory(c, http.StatusOK, s)
}

// DeleteStory 删除故事
// @Summary      删除故事
// @Tags         书架
// @Produce      json
// @Param        id   path      string  true  "故事ID"
// @Success      200  {object}  map[string]interface{}  "成功响应"
// @Failure      404  {object}  ErrorResponse  "故事不存在"
// @Router       /api/v1/stories/{id} [delete]
func (h *Handler) DeleteStory(c *gin.Context) {
	if err := h.storyService.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"code":    0,
		"message": "success",
	})
}
