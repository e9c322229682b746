package reading

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ScrollRequest 保存阅读位置请求
type ScrollRequest struct {
	Offset int `json:"offset" binding:"min=0"` // 滚动偏移
}

// SaveScroll 保存阅读位置，尽力而为，存储失败不报错
func (h *Handler) SaveScroll(c *gin.Context) {
	novelID, number, ok := chapterParams(c)
	if !ok {
		return
	}

	var req ScrollRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Code:    40001,
			Message: "invalid request body",
			Detail:  err.Error(),
		})
		return
	}

	h.coordinator.SaveScroll(novelID, number, req.Offset)
	respondOK(c, nil)
}
