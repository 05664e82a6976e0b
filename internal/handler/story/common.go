package story

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"narrator/internal/model/story"
	httputil "narrator/internal/pkg/http"
	"narrator/internal/service"
)

// ErrorResponse 错误响应类型别名（使用共用的 http.ErrorResponse）
type ErrorResponse = httputil.ErrorResponse

// StoryInfo 故事 DTO
type StoryInfo struct {
	ID         string  `json:"id"`
	Title      string  `json:"title"`
	Content    string  `json:"content"`
	Category   string  `json:"category"`
	IsFavorite bool    `json:"is_favorite"`
	WordCount  int     `json:"word_count"`
	AudioURI   string  `json:"audio_uri,omitempty"`
	Duration   float64 `json:"duration,omitempty"`
	CreatedAt  string  `json:"created_at"`
	UpdatedAt  string  `json:"updated_at"`
}

func toStoryInfo(s *story.Story) StoryInfo {
	return StoryInfo{
		ID:         s.ID,
		Title:      s.Title,
		Content:    s.Content,
		Category:   string(s.Category),
		IsFavorite: s.IsFavorite,
		WordCount:  s.WordCount,
		AudioURI:   s.AudioURI,
		Duration:   s.Duration,
		CreatedAt:  s.CreatedAt.Format(time.RFC3339),
		UpdatedAt:  s.UpdatedAt.Format(time.RFC3339),
	}
}

func toStoryInfoList(stories []*story.Story) []StoryInfo {
	list := make([]StoryInfo, len(stories))
	for i, s := range stories {
		list[i] = toStoryInfo(s)
	}
	return list
}

// respondError 把服务层错误映射为 HTTP 状态与业务错误码
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrStoryNotFound):
		c.JSON(http.StatusNotFound, httputil.NewErrorResponse(httputil.CodeNotFound, err.Error()))
	case errors.Is(err, service.ErrContentRequired), errors.Is(err, service.ErrInvalidCategory):
		c.JSON(http.StatusBadRequest, httputil.NewErrorResponse(httputil.CodeInvalidRequest, "Invalid request body", err.Error()))
	default:
		c.JSON(http.StatusInternalServerError, httputil.NewErrorResponse(httputil.CodeInternal, "Internal server error", err.Error()))
	}
}

func respondStory(c *gin.Context, status int, s *story.Story) {
	c.JSON(status, gin.H{
		"code":    0,
		"message": "success",
		"data":    toStoryInfo(s),
	})
}
