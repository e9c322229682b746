package reading

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// chapterParams 解析路径中的 novel_id 与章节序号
func chapterParams(c *gin.Context) (string, int, bool) {
	novelID := c.Param("novel_id")
	number, err := strconv.Atoi(c.Param("number"))
	if err != nil || number < 1 {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Code:    40001,
			Message: "chapter number must be a positive integer",
		})
		return "", 0, false
	}
	return novelID, number, true
}

// OpenChapter 打开章节
// 缓存命中不触网；离线且未缓存返回 offline_missing
func (h *Handler) OpenChapter(c *gin.Context) {
	novelID, number, ok := chapterParams(c)
	if !ok {
		return
	}

	view, err := h.coordinator.OpenChapter(c.Request.Context(), novelID, number)
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, view)
}

// NextChapter 下一章元数据；末章返回 at_end=true
func (h *Handler) NextChapter(c *gin.Context) {
	novelID, number, ok := chapterParams(c)
	if !ok {
		return
	}

	ch, found, err := h.coordinator.NextChapter(novelID, number)
	if err != nil {
		respondError(c, err)
		return
	}
	if !found {
		respondOK(c, gin.H{"at_end": true})
		return
	}
	respondOK(c, gin.H{"at_end": false, "chapter": ch})
}

// PrevChapter 上一章元数据；首章返回 at_start=true
func (h *Handler) PrevChapter(c *gin.Context) {
	novelID, number, ok := chapterParams(c)
	if !ok {
		return
	}

	ch, found, err := h.coordinator.PrevChapter(novelID, number)
	if err != nil {
		respondError(c, err)
		return
	}
	if !found {
		respondOK(c, gin.H{"at_start": true})
		return
	}
	respondOK(c, gin.H{"at_start": false, "chapter": ch})
}
