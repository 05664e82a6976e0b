package story

import (
	"narrator/internal/service"
)

// Handler 书架模块处理器
type Handler struct {
	storyService service.StoryService
}

// NewHandler 创建书架模块处理器
func NewHandler(storyService service.StoryService) *Handler {
	return &Handler{
		storyService: storyService,
	}
}
