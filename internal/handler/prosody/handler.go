package prosody

import (
	"narrator/internal/service"
)

// Handler 韵律模块处理器
type Handler struct {
	prosodyService service.ProsodyService
}

// NewHandler 创建韵律模块处理器
func NewHandler(prosodyService service.ProsodyService) *Handler {
	return &Handler{
		prosodyService: prosodyService,
	}
}
