package reading

import (
	"github.com/gin-gonic/gin"
)

// Featured 获取精选列表
// 永不失败：离线或拉取失败时退回本地快照，最终退化为空列表
func (h *Handler) Featured(c *gin.Context) {
	novels := h.coordinator.Featured(c.Request.Context())
	respondOK(c, gin.H{"novels": novels})
}
