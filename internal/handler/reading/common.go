package reading

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"pomelo/internal/model/novel"
	"pomelo/internal/pkg/apperr"
	httputil "pomelo/internal/pkg/http"
	"pomelo/internal/reader"
)

// ErrorResponse 错误响应类型别名（使用共用的 http.ErrorResponse）
type ErrorResponse = httputil.ErrorResponse

// LibraryItemInfo 书架条目 DTO（列表展示用，不携带完整章节索引）
type LibraryItemInfo struct {
	ID                string   `json:"id"`                             // 小说ID
	Title             string   `json:"title"`                          // 小说名称
	Author            string   `json:"author,omitempty"`               // 作者
	Description       string   `json:"description,omitempty"`          // 简介
	CoverURL          string   `json:"cover_url,omitempty"`            // 封面图引用
	Tags              []string `json:"tags,omitempty"`                 // 题材标签
	Status            string   `json:"status"`                         // 连载状态
	TotalChapters     int      `json:"total_chapters"`                 // 章节总数
	LastReadChapterID string   `json:"last_read_chapter_id,omitempty"` // 最近阅读章节ID
	SavedAt           string   `json:"saved_at"`                       // 安装时间
	Downloaded        bool     `json:"downloaded"`                     // 元数据已安装
}

// toLibraryItemInfo 将书架条目转换为 DTO
func toLibraryItemInfo(item *novel.LibraryItem) LibraryItemInfo {
	return LibraryItemInfo{
		ID:                item.ID,
		Title:             item.Title,
		Author:            item.Author,
		Description:       item.Description,
		CoverURL:          item.CoverURL,
		Tags:              item.Tags,
		Status:            string(item.Status),
		TotalChapters:     item.TotalChapters,
		LastReadChapterID: item.LastReadChapterID,
		SavedAt:           item.SavedAt.Format(time.RFC3339),
		Downloaded:        item.Downloaded,
	}
}

// toLibraryItemInfoList 将书架条目列表转换为 DTO 列表
func toLibraryItemInfoList(items []novel.LibraryItem) []LibraryItemInfo {
	list := make([]LibraryItemInfo, len(items))
	for i := range items {
		list[i] = toLibraryItemInfo(&items[i])
	}
	return list
}

// respondError 将错误映射为统一错误响应
// 错误类别透传给表现层，供其选择重试方式
func respondError(c *gin.Context, err error) {
	if errors.Is(err, reader.ErrNotFound) {
		c.JSON(http.StatusNotFound, ErrorResponse{
			Code:    40401,
			Message: "Not found in library",
			Detail:  err.Error(),
		})
		return
	}

	var appErr *apperr.Error
	if errors.As(err, &appErr) {
		status, code := statusForKind(appErr.Kind)
		c.JSON(status, ErrorResponse{
			Code:    code,
			Message: appErr.Message,
			Kind:    string(appErr.Kind),
		})
		return
	}

	c.JSON(http.StatusInternalServerError, ErrorResponse{
		Code:    50000,
		Message: "Internal error",
		Detail:  err.Error(),
	})
}

// statusForKind 错误类别到 HTTP 状态码/错误码的映射
func statusForKind(kind apperr.Kind) (int, int) {
	switch kind {
	case apperr.KindCredentialMissing:
		return http.StatusFailedDependency, 42401
	case apperr.KindProvider:
		return http.StatusBadGateway, 50201
	case apperr.KindMalformed:
		return http.StatusBadGateway, 50202
	case apperr.KindOffline:
		return http.StatusServiceUnavailable, 50301
	case apperr.KindOfflineMissing:
		return http.StatusNotFound, 40404
	case apperr.KindQuotaExceeded:
		return http.StatusInsufficientStorage, 50701
	default:
		return http.StatusInternalServerError, 50000
	}
}

// respondOK 统一成功响应
func respondOK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, httputil.NewSuccessResponse("success", data))
}
