package reading

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"pomelo/internal/model/novel"
	"pomelo/internal/provider"
)

// InstallRequest 安装小说请求
type InstallRequest struct {
	Title       string   `json:"title" binding:"required"` // 小说名称
	Author      string   `json:"author"`                   // 作者
	Description string   `json:"description"`              // 简介
	CoverURL    string   `json:"cover_url"`                // 封面图引用
	Tags        []string `json:"tags"`                     // 题材标签
	Status      string   `json:"status"`                   // 连载状态
}

// ListLibrary 书架列表，按最近安装/阅读排序
func (h *Handler) ListLibrary(c *gin.Context) {
	items := h.coordinator.Library().List()
	respondOK(c, gin.H{"items": toLibraryItemInfoList(items)})
}

// Install 安装小说到书架
func (h *Handler) Install(c *gin.Context) {
	var req InstallRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Code:    40001,
			Message: "invalid request body",
			Detail:  err.Error(),
		})
		return
	}

	title := strings.TrimSpace(req.Title)
	if title == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Code:    40001,
			Message: "title is required",
		})
		return
	}

	status := novel.NovelStatus(req.Status)
	if req.Status == "" || !novel.ValidStatus(status) {
		status = novel.NovelStatusOngoing
	}

	n := novel.Novel{
		ID:          provider.NovelID(title),
		Title:       title,
		Author:      req.Author,
		Description: req.Description,
		CoverURL:    req.CoverURL,
		Tags:        req.Tags,
		Status:      status,
	}

	item, err := h.coordinator.Install(c.Request.Context(), n)
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, gin.H{"item": toLibraryItemInfo(item)})
}

// Uninstall 从书架删除小说并清空其全部缓存
func (h *Handler) Uninstall(c *gin.Context) {
	novelID := c.Param("novel_id")
	if err := h.coordinator.Delete(novelID); err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, gin.H{"novel_id": novelID})
}
