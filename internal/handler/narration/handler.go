package narration

import (
	"narrator/internal/service"
)

// Handler 朗读模块处理器，同时提供朗读设置接口
type Handler struct {
	narrationService service.NarrationService
}

// NewHandler 创建朗读模块处理器
func NewHandler(narrationService service.NarrationService) *Handler {
	return &Handler{
		narrationService: narrationService,
	}
}
