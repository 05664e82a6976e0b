package story

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"narrator/internal/model/story"
	httputil "narrator/internal/pkg/http"
)

// ListStoriesRequest 查询书架请求
type ListStoriesRequest struct {
	Category  string `form:"category"`  // 分类筛选（可选）
	Favorites bool   `form:"favorites"` // 只看收藏
	httputil.Pagination
}

// ListStoriesResponseData 查询书架响应数据
type ListStoriesResponseData struct {
	Stories  []StoryInfo `json:"stories"`
	Total    int64       `json:"total"`
	Page     int         `json:"page"`
	PageSize int         `json:"page_size"`
}

// ListStories 查询书架
// @Summary      查询书架
// @Description  按创建时间倒序返回故事，支持分类与收藏筛选
// @Tags         书架
// @Produce      json
// @Param        category  query     string  false  "分类（personal/fiction/poetry/article/other）"
// @Param        favorites query     bool    false  "只看收藏"
// @Param        page      query     int     false  "页码（默认1）"
// @Param        page_size query     int     false  "每页数量（默认20，最大100）"
// @Success      200       {object}  map[string]interface{}  "成功响应"
// @Failure      400       {object}  ErrorResponse  "请求参数错误"
// @Failure      500       {object}  ErrorResponse  "服务器内部错误"
// @Router       /api/v1/stories [get]
func (h *Handler) ListStories(c *gin.Context) {
	var req ListStoriesRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Code:    httputil.CodeInvalidRequest,
			Message: "Invalid query parameters",
			Detail:  err.Error(),
		})
		return
	}

	req.Normalize()

	filter := story.Filter{Category: story.Category(req.Category), FavoritesOnly: req.Favorites}
	result, err := h.storyService.List(c.Request.Context(), filter, req.Limit(), req.Offset())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code":    0,
		"message": "success",
		"data": ListStoriesResponseData{
			Stories:  toStoryInfoList(result.Stories),
			Total:    result.Total,
			Page:     req.Page,
			PageSize: req.PageSize,
		},
	})
}
