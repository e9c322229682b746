package reading

import (
	"pomelo/internal/reader"
)

// Handler 阅读服务处理器
// 表现层唯一的入口：所有操作都委托给同步协调器
type Handler struct {
	coordinator *reader.Coordinator
}

// NewHandler 创建阅读服务处理器
func NewHandler(coordinator *reader.Coordinator) *Handler {
	return &Handler{coordinator: coordinator}
}
