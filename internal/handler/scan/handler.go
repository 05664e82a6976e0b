package scan

import (
	"narrator/internal/service"
)

// Handler 提取历史模块处理器
type Handler struct {
	scanService service.ScanService
}

// NewHandler 创建提取历史模块处理器
func NewHandler(scanService service.ScanService) *Handler {
	return &Handler{
		scanService: scanService,
	}
}
