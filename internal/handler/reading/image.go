package reading

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ChapterImage 章节插图，PNG 原始字节
// 缓存命中直接返回；否则联网生成并尽力缓存
func (h *Handler) ChapterImage(c *gin.Context) {
	novelID, number, ok := chapterParams(c)
	if !ok {
		return
	}

	data, err := h.coordinator.GenerateImage(c.Request.Context(), novelID, number)
	if err != nil {
		respondError(c, err)
		return
	}

	c.Data(http.StatusOK, "image/png", data)
}
