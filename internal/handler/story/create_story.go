package story

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"narrator/internal/model/story"
	"narrator/internal/service"
)

// CreateStoryRequest 保存故事请求
type CreateStoryRequest struct {
	Title      string  `json:"title,omitempty"`            // 标题，为空时取正文前 50 个字符
	Content    string  `json:"content" binding:"required"` // 正文
	Category   string  `json:"category,omitempty"`         // 分类，默认 personal
	IsFavorite bool    `json:"is_favorite,omitempty"`
	AudioURI   string  `json:"audio_uri,omitempty"`
	Duration   float64 `json:"duration,omitempty" binding:"gte=0"`
}

// CreateStory 保存故事
// @Summary      保存故事
// @Tags         书架
// @Accept       json
// @Produce      json
// @Param        request  body      CreateStoryRequest  true  "故事"
// @Success      201      {object}  map[string]interface{}  "创建成功"
// @Failure      400      {object}  ErrorResponse  "请求参数错误"
// @Failure      500      {object}  ErrorResponse  "服务器内部错误"
// @Router       /api/v1/stories [post]
func (h *Handler) CreateStory(c *gin.Context) {
	var req CreateStoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Code:    40001,
			Message: "Invalid request body",
			Detail:  err.Error(),
		})
		return
	}

	s, err := h.storyService.Create(c.Request.Context(), &service.CreateStoryRequest{
		Title:      req.Title,
		Content:    req.Content,
		Category:   story.Category(req.Category),
		IsFavorite: req.IsFavorite,
		AudioURI:   req.AudioURI,
		Duration:   req.Duration,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondStory(c, http.StatusCreated, s)
}
