package reading

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// Search 搜索小说
func (h *Handler) Search(c *gin.Context) {
	query := strings.TrimSpace(c.Query("q"))
	if query == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Code:    40001,
			Message: "query parameter q is required",
		})
		return
	}

	novels, err := h.coordinator.Search(c.Request.Context(), query)
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, gin.H{"novels": novels})
}
