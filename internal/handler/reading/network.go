package reading

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// NetworkRequest 更新联网状态请求
type NetworkRequest struct {
	Online *bool `json:"online" binding:"required"` // 联网状态
}

// SetNetwork 更新联网状态（由前端的网络探测信号驱动）
func (h *Handler) SetNetwork(c *gin.Context) {
	var req NetworkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Code:    40001,
			Message: "invalid request body",
			Detail:  err.Error(),
		})
		return
	}

	h.coordinator.SetOnline(*req.Online)
	respondOK(c, gin.H{"online": h.coordinator.Online()})
}

// GetNetwork 查询联网状态
func (h *Handler) GetNetwork(c *gin.Context) {
	respondOK(c, gin.H{"online": h.coordinator.Online()})
}
